package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/relvane/botsessions/internal/domain"
	"github.com/relvane/botsessions/internal/ports"
)

// Orchestrator runs one authentication pass over all known accounts and
// merges the survivors into the registry. Accounts are processed strictly
// sequentially: the prompter is a single shared terminal, and interleaved
// prompts would be ambiguous about which account they answer.
type Orchestrator struct {
	credentials ports.CredentialSource
	settings    ports.SettingsSource
	clients     ports.ClientFactory
	login       *LoginService
	registry    *Registry
	logger      *slog.Logger
}

func NewOrchestrator(
	credentials ports.CredentialSource,
	settings ports.SettingsSource,
	clients ports.ClientFactory,
	login *LoginService,
	registry *Registry,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		credentials: credentials,
		settings:    settings,
		clients:     clients,
		login:       login,
		registry:    registry,
		logger:      logger,
	}
}

// Run performs one orchestration pass. Missing settings and an empty
// credential source are fatal for the run; a single account failing to log
// in is logged and skipped. It returns the number of sessions the run added
// to the registry.
func (o *Orchestrator) Run(ctx context.Context, serverTag string) (int, error) {
	settings, err := o.settings.LoadSettings(ctx, serverTag)
	if err != nil {
		return 0, fmt.Errorf("load session settings: %w", err)
	}
	settings.ApplyDefaults()

	accounts, err := o.credentials.ListAccounts(ctx)
	if err != nil {
		return 0, fmt.Errorf("list accounts: %w", err)
	}
	if len(accounts) == 0 {
		return 0, domain.ErrNoAccounts
	}

	runID := uuid.NewString()
	o.logger.Info("starting orchestration run",
		"run_id", runID, "accounts", len(accounts), "server_tag", serverTag)

	online := make([]domain.Session, 0, len(accounts))
	for _, account := range accounts {
		session, err := o.authenticate(ctx, settings, account)
		if err != nil {
			o.logger.Error("account login failed",
				"run_id", runID, "account", account.ID, "error", err)
			continue
		}
		online = append(online, session)
	}

	added := o.registry.Merge(online)
	o.logger.Info("orchestration run finished",
		"run_id", runID, "online", len(online), "merged", added)
	return added, nil
}

func (o *Orchestrator) authenticate(ctx context.Context, settings domain.Settings, account domain.Account) (domain.Session, error) {
	client, err := o.clients.New(ctx, settings)
	if err != nil {
		return domain.Session{}, fmt.Errorf("build client: %w", err)
	}

	session, err := o.login.Authenticate(ctx, client, account)
	if err != nil {
		_ = client.Close()
		return domain.Session{}, err
	}

	return session, nil
}
