package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/relvane/botsessions/internal/domain"
	"github.com/relvane/botsessions/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id TEXT PRIMARY KEY,
    display_name TEXT NOT NULL,
    secret TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    server_tag TEXT PRIMARY KEY,
    log_level TEXT NOT NULL DEFAULT 'info',
    reconnect_interval_seconds INTEGER NOT NULL DEFAULT 40,
    sign_server_addr TEXT NOT NULL,
    media_tool_path TEXT NOT NULL DEFAULT ''
);
`

// Store keeps accounts and per-deployment settings in a SQLite database,
// implementing both the credential and settings source ports.
type Store struct {
	path  string
	conn  *sql.DB
	clock ports.Clock
}

var (
	_ ports.CredentialRepository = (*Store)(nil)
	_ ports.SettingsSource       = (*Store)(nil)
)

func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("path is required")
	}

	clean := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(clean), 0o700); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	conn, err := sql.Open("sqlite", dsn(clean))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// PRAGMAs are per-connection; keep a single shared connection.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	initErr := func() error {
		if err := conn.Ping(); err != nil {
			return fmt.Errorf("ping: %w", err)
		}
		if _, err := conn.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
			return fmt.Errorf("set journal_mode=WAL: %w", err)
		}
		if _, err := conn.Exec(`PRAGMA busy_timeout=5000;`); err != nil {
			return fmt.Errorf("set busy_timeout: %w", err)
		}
		if _, err := conn.Exec(schema); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
		return nil
	}()
	if initErr != nil {
		_ = conn.Close()
		return nil, initErr
	}

	return &Store{path: clean, conn: conn, clock: ports.SystemClock{}}, nil
}

func (s *Store) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Store) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, display_name, secret FROM accounts ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []domain.Account
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(&account.ID, &account.DisplayName, &account.Secret); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return accounts, nil
}

func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	_, err := s.conn.ExecContext(ctx, `
INSERT INTO accounts (id, display_name, secret, created_at) VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET display_name = excluded.display_name, secret = excluded.secret`,
		string(account.ID), account.DisplayName, account.Secret, s.clock.Now().UTC())
	if err != nil {
		return fmt.Errorf("save account: %w", err)
	}

	return nil
}

func (s *Store) LoadSettings(ctx context.Context, serverTag string) (domain.Settings, error) {
	row := s.conn.QueryRowContext(ctx, `
SELECT log_level, reconnect_interval_seconds, sign_server_addr, media_tool_path
FROM settings WHERE server_tag = ?`, serverTag)

	var (
		settings         domain.Settings
		reconnectSeconds int64
	)
	err := row.Scan(&settings.LogLevel, &reconnectSeconds, &settings.SignServerAddr, &settings.MediaToolPath)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Settings{}, fmt.Errorf("server tag %q: %w", serverTag, domain.ErrSettingsNotFound)
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("scan settings: %w", err)
	}

	settings.ReconnectInterval = time.Duration(reconnectSeconds) * time.Second
	settings.ApplyDefaults()
	return settings, nil
}

// SaveSettings writes the settings row for a server tag; used by deployment
// tooling and tests.
func (s *Store) SaveSettings(ctx context.Context, serverTag string, settings domain.Settings) error {
	settings.ApplyDefaults()
	if err := settings.Validate(); err != nil {
		return err
	}

	_, err := s.conn.ExecContext(ctx, `
INSERT INTO settings (server_tag, log_level, reconnect_interval_seconds, sign_server_addr, media_tool_path)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(server_tag) DO UPDATE SET
    log_level = excluded.log_level,
    reconnect_interval_seconds = excluded.reconnect_interval_seconds,
    sign_server_addr = excluded.sign_server_addr,
    media_tool_path = excluded.media_tool_path`,
		serverTag, settings.LogLevel, int64(settings.ReconnectInterval/time.Second),
		settings.SignServerAddr, settings.MediaToolPath)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	return nil
}

func dsn(path string) string {
	// Explicit file: DSN so mode=rwc auto-creates the database.
	return "file:" + filepath.ToSlash(path) + "?mode=rwc"
}
