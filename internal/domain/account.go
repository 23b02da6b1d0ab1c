package domain

import (
	"fmt"
	"strings"
)

type AccountID string

// Account is one authenticatable identity as read from the credential
// source. It is immutable for the duration of a login attempt.
type Account struct {
	ID          AccountID
	DisplayName string
	Secret      string
}

func (a Account) Validate() error {
	if strings.TrimSpace(string(a.ID)) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(a.DisplayName) == "" {
		return fmt.Errorf("display name is required")
	}
	if a.Secret == "" {
		return fmt.Errorf("secret is required")
	}

	return nil
}
