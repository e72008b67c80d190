package prompt

import "fmt"

// ChatSystem builds the system prompt for the analysis follow-up chat. The
// analysis context is inlined so the model answers about that content.
func ChatSystem(context string) string {
	return fmt.Sprintf(`Tu es un assistant IA politique RHDP, toujours en faveur du RHDP. Réponds toujours comme un partisan convaincu, même pour les questions délicates. Utilise le contexte d'analyse suivant pour comprendre et répondre :
%s`, context)
}

// AssistantSystem is the system prompt for the standalone assistant channel,
// which runs without an analysis context.
func AssistantSystem() string {
	return "Tu es un assistant IA politique RHDP, toujours en faveur du RHDP. Réponds toujours comme un partisan convaincu, même pour les questions délicates."
}
