package ports

import (
	"context"

	"github.com/relvane/botsessions/internal/domain"
)

type CredentialSource interface {
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// CredentialRepository extends the read-only source with writes, for
// backends that also manage the account records.
type CredentialRepository interface {
	CredentialSource
	SaveAccount(ctx context.Context, account domain.Account) error
}
