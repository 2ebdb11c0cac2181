package generation

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

// mockCompleter records prompts and answers from a scripted queue.
type mockCompleter struct {
	prompts   []string
	responses []string
	err       error
}

func (m *mockCompleter) Complete(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "default response", nil
	}
	out := m.responses[0]
	if len(m.responses) > 1 {
		m.responses = m.responses[1:]
	}
	return out, nil
}

func newTestService(t *testing.T, completer Completer) *Service {
	t.Helper()
	return New(completer, zap.NewNop())
}
