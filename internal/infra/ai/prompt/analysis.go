package prompt

import "fmt"

// Analysis builds the content-analysis prompt. The model is asked for four
// titled sections so the extractor can split them back out.
func Analysis(content, contentType, source string) string {
	if source == "" {
		source = "N/A"
	}
	return fmt.Sprintf(`Analyser le contenu suivant (type: %s, source: %s):

%s

Fournir les éléments suivants :
1. Résumé concis du contenu.
2. Points clés positifs (avantages, opportunités, soutiens) pour le parti RHDP ou le gouvernement ivoirien, s'ils sont pertinents.
3. Points clés négatifs (critiques, risques, oppositions) pour le parti RHDP ou le gouvernement ivoirien, s'ils sont pertinents.
4. Propositions d'éléments de langage ou de réponses possibles face à ce contenu.

Formatez votre réponse de manière claire, en utilisant des titres pour chaque section (par exemple, "## Résumé", "## Points Positifs", "## Points Négatifs", "## Propositions de Réponses").`, contentType, source, content)
}
