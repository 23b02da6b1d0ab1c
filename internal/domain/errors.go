package domain

import "errors"

var (
	// ErrRegistryNotInitialized reports that no orchestration run has ever
	// merged into the registry, as opposed to a run that left it empty.
	ErrRegistryNotInitialized = errors.New("session registry not initialized")

	ErrSessionNotFound  = errors.New("session not found")
	ErrNoActiveSession  = errors.New("no active session")
	ErrNoAccounts       = errors.New("no accounts available")
	ErrSettingsNotFound = errors.New("session settings not found")
)
