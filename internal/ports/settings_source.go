package ports

import (
	"context"

	"github.com/relvane/botsessions/internal/domain"
)

// SettingsSource yields the login parameters for a deployment. serverTag
// selects a deployment-specific override; an empty tag selects the default.
// Implementations return domain.ErrSettingsNotFound when no settings exist
// for the tag.
type SettingsSource interface {
	LoadSettings(ctx context.Context, serverTag string) (domain.Settings, error)
}
