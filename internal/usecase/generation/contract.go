package generation

import "context"

// Completer is the LLM completion backend. A nil Completer is a valid
// configuration: every operation then returns a fixed advisory message
// instead of an error.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
