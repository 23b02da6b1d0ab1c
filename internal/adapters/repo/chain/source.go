package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/relvane/botsessions/internal/domain"
	"github.com/relvane/botsessions/internal/ports"
)

// Source reads accounts from a primary credential backend and falls back to
// a secondary one when the primary fails.
type Source struct {
	primary  ports.CredentialSource
	fallback ports.CredentialSource
}

var _ ports.CredentialSource = (*Source)(nil)

var (
	errNilPrimarySource  = errors.New("primary credential source is nil")
	errNilFallbackSource = errors.New("fallback credential source is nil")
)

func NewSource(primary ports.CredentialSource, fallback ports.CredentialSource) (*Source, error) {
	if primary == nil {
		return nil, errNilPrimarySource
	}
	if fallback == nil {
		return nil, errNilFallbackSource
	}

	return &Source{primary: primary, fallback: fallback}, nil
}

func (s *Source) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.primary.ListAccounts(ctx)
	if err == nil {
		return accounts, nil
	}
	if shouldSkipFallback(err) {
		return nil, err
	}

	fallbackAccounts, fallbackErr := s.fallback.ListAccounts(ctx)
	if fallbackErr == nil {
		return fallbackAccounts, nil
	}

	return nil, fmt.Errorf("primary backend list failed: %w; fallback backend list failed: %w", err, fallbackErr)
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
