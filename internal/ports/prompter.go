package ports

import "context"

// Prompter is the operator input channel: one human, one terminal. At most
// one prompt may be outstanding at a time; implementations serialize callers.
type Prompter interface {
	Prompt(ctx context.Context, message string) (string, error)
}
