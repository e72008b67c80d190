package chat

import (
	"regexp"
	"strings"
)

// Role enum
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of a follow-up conversation. Turns are ephemeral: the
// channel itself is stateless and callers accumulate history for display only.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Reply is the assistant-chat answer together with the model that produced it.
type Reply struct {
	Response  string `json:"response"`
	ModelUsed string `json:"model_used"`
}

// Some providers append a "(Réponse générée par: <model>)" trailer to the text.
var trailerRe = regexp.MustCompile(`\s*\(Réponse générée par:[^)]*\)`)

// CleanTrailer strips provider-added trailer annotations from assistant text.
func CleanTrailer(s string) string {
	return strings.TrimSpace(trailerRe.ReplaceAllString(s, ""))
}
