package domain

import (
	"strings"
)

// Turn is one message of conversation history, ordered by creation time.
// Persistence of history is the surrounding application's concern; this core
// only consumes a bounded recent window when assembling a prompt.
type Turn struct {
	Role    string
	Content string
}

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// noHistory is injected into prompts when there is nothing to recall.
const noHistory = "No previous conversation."

// FormatHistory renders the most recent maxTurns turns for prompt injection.
// Blank-content turns are dropped.
func FormatHistory(turns []Turn, maxTurns int) string {
	if maxTurns > 0 && len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}

	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		content := strings.TrimSpace(t.Content)
		if content == "" {
			continue
		}
		lines = append(lines, titleRole(t.Role)+": "+content)
	}

	if len(lines) == 0 {
		return noHistory
	}
	return strings.Join(lines, "\n")
}

func titleRole(role string) string {
	if role == "" {
		return "Unknown"
	}
	return strings.ToUpper(role[:1]) + role[1:]
}
