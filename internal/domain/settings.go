package domain

import (
	"fmt"
	"strings"
	"time"
)

const DefaultReconnectInterval = 40 * time.Second

// Settings are the per-deployment login parameters, read once per
// orchestration run and shared read-only by every client built in that run.
type Settings struct {
	LogLevel          string
	ReconnectInterval time.Duration
	SignServerAddr    string
	MediaToolPath     string
}

func (s Settings) Validate() error {
	if strings.TrimSpace(s.SignServerAddr) == "" {
		return fmt.Errorf("sign server address is required")
	}

	return nil
}

func (s *Settings) ApplyDefaults() {
	if s == nil {
		return
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	if s.ReconnectInterval <= 0 {
		s.ReconnectInterval = DefaultReconnectInterval
	}
}
