package prompt

import (
	"fmt"
	"strings"
)

// RAGAnswer builds the question-answering prompt over retrieved documents.
func RAGAnswer(question string, contexts []string) string {
	var b strings.Builder
	b.WriteString("Répondre à la question suivante en s'appuyant uniquement sur les documents fournis. Si les documents ne contiennent pas la réponse, le dire explicitement.\n\n")
	b.WriteString("Documents :\n")
	for i, c := range contexts {
		fmt.Fprintf(&b, "[%d] %s\n\n", i+1, c)
	}
	fmt.Fprintf(&b, "Question : %s", question)
	return b.String()
}
