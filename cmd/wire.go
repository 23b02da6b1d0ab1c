package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	configadapter "github.com/relvane/botsessions/internal/adapters/config"
	"github.com/relvane/botsessions/internal/adapters/gateway"
	chainrepo "github.com/relvane/botsessions/internal/adapters/repo/chain"
	sqliterepo "github.com/relvane/botsessions/internal/adapters/repo/sqlite"
	tomlrepo "github.com/relvane/botsessions/internal/adapters/repo/toml"
	sessionsrender "github.com/relvane/botsessions/internal/adapters/render/sessions"
	"github.com/relvane/botsessions/internal/adapters/term"
	"github.com/relvane/botsessions/internal/application"
	"github.com/relvane/botsessions/internal/domain"
	"github.com/relvane/botsessions/internal/ports"
)

const (
	backendKey    = "accounts.backend"
	dbPathKey     = "accounts.db_path"
	mediaToolsKey = "settings.media_tool_path"
	logLevelKey   = "settings.log_level"

	backendFile   = "file"
	backendSQLite = "sqlite"
	backendAuto   = "auto"
)

type app struct {
	registry       *application.Registry
	orchestrator   *application.Orchestrator
	accounts       ports.CredentialRepository
	settings       ports.SettingsSource
	renderSessions func([]domain.Session, sessionsrender.RenderOptions) (string, error)
	logger         *slog.Logger
	serverTag      *string
}

func (a *app) tag() string {
	if a.serverTag == nil {
		return ""
	}
	return *a.serverTag
}

func wireApp() (*app, error) {
	cfg := viper.New()
	cfg.SetDefault(backendKey, backendFile)

	fileRepo, err := tomlrepo.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire accounts repository: %w", err)
	}

	logger := newLogger(cfg.GetString(logLevelKey))

	accounts, credentials, err := wireCredentials(cfg, fileRepo)
	if err != nil {
		return nil, err
	}

	settings, err := wireSettings(cfg, accounts)
	if err != nil {
		return nil, err
	}

	registry := application.NewRegistry(logger)
	prompter := term.NewPrompter(os.Stdin, os.Stdout)
	login := application.NewLoginService(prompter, logger)
	orchestrator := application.NewOrchestrator(
		credentials, settings, mediaProbingFactory(cfg), login, registry, logger)

	return &app{
		registry:       registry,
		orchestrator:   orchestrator,
		accounts:       accounts,
		settings:       settings,
		renderSessions: sessionsrender.Render,
		logger:         logger,
	}, nil
}

// wireCredentials picks the accounts backend: the TOML file (default), the
// SQLite store, or sqlite-first-with-file-fallback chaining.
func wireCredentials(cfg *viper.Viper, fileRepo *tomlrepo.Repository) (ports.CredentialRepository, ports.CredentialSource, error) {
	switch backend := cfg.GetString(backendKey); backend {
	case backendFile:
		return fileRepo, fileRepo, nil

	case backendSQLite:
		store, err := openStore(cfg)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil

	case backendAuto:
		store, err := openStore(cfg)
		if err != nil {
			return nil, nil, err
		}
		source, err := chainrepo.NewSource(store, fileRepo)
		if err != nil {
			return nil, nil, fmt.Errorf("wire credential chain: %w", err)
		}
		return store, source, nil

	default:
		return nil, nil, fmt.Errorf("unsupported accounts backend %q", backend)
	}
}

// wireSettings keeps settings next to the accounts: the SQLite store when
// that backend is active, config.toml otherwise.
func wireSettings(cfg *viper.Viper, accounts ports.CredentialRepository) (ports.SettingsSource, error) {
	if store, ok := accounts.(*sqliterepo.Store); ok {
		return store, nil
	}

	source, err := configadapter.NewSettingsSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire settings source: %w", err)
	}
	return source, nil
}

func openStore(cfg *viper.Viper) (*sqliterepo.Store, error) {
	path := cfg.GetString(dbPathKey)
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".botsessions", "data", "botsessions.db")
	}

	store, err := sqliterepo.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open accounts database: %w", err)
	}
	return store, nil
}

// mediaProbingFactory fills in the media tool path from config when the
// settings row left it empty and the directory actually exists.
func mediaProbingFactory(cfg *viper.Viper) ports.ClientFactory {
	factory := gateway.NewFactory()
	probed := probeMediaToolPath(cfg.GetString(mediaToolsKey))

	return ports.ClientFactoryFunc(func(ctx context.Context, settings domain.Settings) (ports.Client, error) {
		if settings.MediaToolPath == "" {
			settings.MediaToolPath = probed
		}
		return factory.New(ctx, settings)
	})
}

func probeMediaToolPath(path string) string {
	if path == "" {
		return ""
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return ""
	}
	return path
}

func newLogger(level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
