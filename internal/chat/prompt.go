package chat

import (
	"fmt"
	"strings"

	"github.com/antoniostano/sahay/internal/memory"
	"github.com/antoniostano/sahay/internal/profile"
)

const promptTemplate = `You are a diabetes-friendly AI assistant helping %s, a patient from %s diagnosed with %s Diabetes.

Past memories from previous chats:
%s

User's new query:
%q

Provide a helpful, India-specific, diabetes-safe, and practical response in %s.
Important: Respond ONLY in %s language.`

// buildPrompt assembles the generation prompt from personal signals, the
// retrieved memory context and the normalized query. The response language is
// stated twice; once is not enough to keep the model from drifting back to
// English.
func buildPrompt(signals profile.Signals, records []memory.Record, query, lang string) string {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, r.Line())
	}
	context := strings.Join(lines, "\n")
	return fmt.Sprintf(promptTemplate, signals.Name, signals.Location, signals.DiabetesType, context, query, lang, lang)
}
