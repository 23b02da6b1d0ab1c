package config

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relvane/botsessions/internal/domain"
)

func newTestSource(t *testing.T, values map[string]any) *SettingsSource {
	t.Helper()

	cfg := viper.New()
	for key, value := range values {
		cfg.Set(key, value)
	}

	source, err := NewSettingsSource(cfg)
	require.NoError(t, err)

	return source
}

func TestLoadSettingsBaseValues(t *testing.T) {
	source := newTestSource(t, map[string]any{
		"settings.log_level":          "debug",
		"settings.reconnect_interval": "30s",
		"settings.sign_server_addr":   "sign.example:8080",
	})

	settings, err := source.LoadSettings(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "debug", settings.LogLevel)
	assert.Equal(t, 30*time.Second, settings.ReconnectInterval)
	assert.Equal(t, "sign.example:8080", settings.SignServerAddr)
}

func TestLoadSettingsServerOverride(t *testing.T) {
	source := newTestSource(t, map[string]any{
		"settings.log_level":             "info",
		"settings.sign_server_addr":      "sign.dev.example:8080",
		"settings.prod.log_level":        "warn",
		"settings.prod.sign_server_addr": "sign.prod.example:8080",
	})

	settings, err := source.LoadSettings(context.Background(), "prod")
	require.NoError(t, err)
	assert.Equal(t, "warn", settings.LogLevel)
	assert.Equal(t, "sign.prod.example:8080", settings.SignServerAddr)

	base, err := source.LoadSettings(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "info", base.LogLevel)
	assert.Equal(t, "sign.dev.example:8080", base.SignServerAddr)
}

func TestLoadSettingsOverrideFallsBackToBase(t *testing.T) {
	source := newTestSource(t, map[string]any{
		"settings.log_level":        "info",
		"settings.sign_server_addr": "sign.example:8080",
		"settings.prod.log_level":   "error",
	})

	settings, err := source.LoadSettings(context.Background(), "prod")
	require.NoError(t, err)
	assert.Equal(t, "error", settings.LogLevel)
	assert.Equal(t, "sign.example:8080", settings.SignServerAddr)
}

func TestLoadSettingsAppliesDefaults(t *testing.T) {
	source := newTestSource(t, map[string]any{
		"settings.sign_server_addr": "sign.example:8080",
	})

	settings, err := source.LoadSettings(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "info", settings.LogLevel)
	assert.Equal(t, domain.DefaultReconnectInterval, settings.ReconnectInterval)
}

func TestLoadSettingsMissingSignServer(t *testing.T) {
	source := newTestSource(t, map[string]any{
		"settings.log_level": "info",
	})

	_, err := source.LoadSettings(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrSettingsNotFound)
}

func TestLoadSettingsHonorsContext(t *testing.T) {
	source := newTestSource(t, map[string]any{
		"settings.sign_server_addr": "sign.example:8080",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := source.LoadSettings(ctx, "")
	require.ErrorIs(t, err, context.Canceled)
}
