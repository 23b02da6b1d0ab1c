package application

import (
	"log/slog"
	"sync"

	"github.com/relvane/botsessions/internal/domain"
)

// Registry holds the sessions currently believed online. It is constructed
// once at startup and passed by handle to every consumer; the orchestrator
// is its only writer.
type Registry struct {
	mu          sync.RWMutex
	sessions    []domain.Session
	initialized bool
	logger      *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{logger: logger}
}

// Merge appends the genuinely new sessions from the incoming batch. An
// incoming session that shares a client identifier or a display name with an
// existing entry is dropped silently; the existing entry wins. Merging the
// same batch twice therefore yields the same contents as merging it once.
func (r *Registry) Merge(sessions []domain.Session) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.initialized = true

	added := 0
	for _, incoming := range sessions {
		if incoming.Client == nil || incoming.Status != domain.SessionOnline {
			continue
		}
		if r.collides(incoming) {
			r.logger.Debug("dropping duplicate session",
				"account", incoming.AccountID,
				"display_name", incoming.DisplayName)
			continue
		}
		r.sessions = append(r.sessions, incoming)
		added++
	}

	return added
}

func (r *Registry) collides(incoming domain.Session) bool {
	for _, existing := range r.sessions {
		if existing.Client.Identifier() == incoming.Client.Identifier() {
			return true
		}
		if existing.DisplayName == incoming.DisplayName {
			return true
		}
	}
	return false
}

// List returns every registered session, online or not. It fails with
// domain.ErrRegistryNotInitialized until the first Merge, so callers can
// tell "never authenticated anything" from "authenticated zero".
func (r *Registry) List() ([]domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.initialized {
		return nil, domain.ErrRegistryNotInitialized
	}

	out := make([]domain.Session, len(r.sessions))
	copy(out, r.sessions)
	return out, nil
}

// ListOnline returns the subset of List whose client still reports a live
// connection, in registration order.
func (r *Registry) ListOnline() ([]domain.Session, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}

	online := make([]domain.Session, 0, len(all))
	for _, session := range all {
		if session.Client.IsOnline() {
			online = append(online, session)
		}
	}

	return online, nil
}

func (r *Registry) FindByDisplayName(name string) (domain.Session, error) {
	online, err := r.ListOnline()
	if err != nil {
		return domain.Session{}, err
	}

	for _, session := range online {
		if session.DisplayName == name {
			return session, nil
		}
	}

	return domain.Session{}, domain.ErrSessionNotFound
}

func (r *Registry) FindByIdentifier(id string) (domain.Session, error) {
	online, err := r.ListOnline()
	if err != nil {
		return domain.Session{}, err
	}

	for _, session := range online {
		if session.Client.Identifier() == id {
			return session, nil
		}
	}

	return domain.Session{}, domain.ErrSessionNotFound
}

// First returns the first online session in registration order.
func (r *Registry) First() (domain.Session, error) {
	online, err := r.ListOnline()
	if err != nil {
		return domain.Session{}, err
	}
	if len(online) == 0 {
		return domain.Session{}, domain.ErrNoActiveSession
	}

	return online[0], nil
}

// PruneOffline drops every entry whose underlying connection is gone,
// leaving exactly the ListOnline subset. It returns the number removed.
func (r *Registry) PruneOffline() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return 0, domain.ErrRegistryNotInitialized
	}

	kept := make([]domain.Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		if session.Client.IsOnline() {
			kept = append(kept, session)
			continue
		}
		r.logger.Info("pruning offline session",
			"account", session.AccountID,
			"display_name", session.DisplayName)
	}

	removed := len(r.sessions) - len(kept)
	r.sessions = kept
	return removed, nil
}
