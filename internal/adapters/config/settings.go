package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/relvane/botsessions/internal/domain"
	"github.com/relvane/botsessions/internal/ports"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".botsessions"

	logLevelKey          = "settings.log_level"
	reconnectIntervalKey = "settings.reconnect_interval"
	signServerKey        = "settings.sign_server_addr"
	mediaToolKey         = "settings.media_tool_path"
)

// SettingsSource reads login settings from config.toml. A [settings.<tag>]
// table overrides the base [settings] values for that server tag, so one
// file can describe several deployments.
type SettingsSource struct {
	cfg *viper.Viper
}

var _ ports.SettingsSource = (*SettingsSource)(nil)

func NewSettingsSource(cfg *viper.Viper) (*SettingsSource, error) {
	if cfg == nil {
		cfg = viper.New()

		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}

		cfg.SetConfigName(configName)
		cfg.SetConfigType(configType)
		cfg.AddConfigPath(filepath.Join(homeDir, configDir))

		if err := cfg.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	return &SettingsSource{cfg: cfg}, nil
}

func (s *SettingsSource) LoadSettings(ctx context.Context, serverTag string) (domain.Settings, error) {
	if err := ctx.Err(); err != nil {
		return domain.Settings{}, err
	}

	settings := domain.Settings{
		LogLevel:          s.lookupString(serverTag, logLevelKey),
		ReconnectInterval: s.lookupDuration(serverTag, reconnectIntervalKey),
		SignServerAddr:    s.lookupString(serverTag, signServerKey),
		MediaToolPath:     s.lookupString(serverTag, mediaToolKey),
	}
	settings.ApplyDefaults()

	if err := settings.Validate(); err != nil {
		return domain.Settings{}, fmt.Errorf("server tag %q: %w", serverTag, domain.ErrSettingsNotFound)
	}

	return settings, nil
}

func (s *SettingsSource) lookupString(serverTag, baseKey string) string {
	if serverTag != "" {
		if override := s.cfg.GetString(overrideKey(serverTag, baseKey)); override != "" {
			return override
		}
	}
	return s.cfg.GetString(baseKey)
}

func (s *SettingsSource) lookupDuration(serverTag, baseKey string) time.Duration {
	if serverTag != "" {
		if override := s.cfg.GetDuration(overrideKey(serverTag, baseKey)); override > 0 {
			return override
		}
	}
	return s.cfg.GetDuration(baseKey)
}

func overrideKey(serverTag, baseKey string) string {
	// settings.log_level -> settings.<tag>.log_level
	return "settings." + serverTag + strings.TrimPrefix(baseKey, "settings")
}
