package prompt

import (
	"fmt"
	"strings"
)

var responseFormats = map[string]string{
	"talking_point":     "une liste d'éléments de langage percutants, sous forme de puces",
	"tweet":             "un tweet de 280 caractères maximum, avec hashtags pertinents",
	"detailed_response": "une réponse détaillée et argumentée, structurée avec des titres",
	"report":            "un rapport d'analyse et de recommandations stratégiques, structuré avec des titres",
}

var responseTones = map[string]string{
	"factual":    "factuel et sobre, appuyé sur des chiffres",
	"persuasive": "persuasif et mobilisateur",
	"defensive":  "défensif, qui recadre les critiques sans les amplifier",
	"assertive":  "assertif et offensif",
}

// Response builds the communication-generation prompt from the selected
// analysis points, the output format and the requested tone.
func Response(points []string, responseType, tone, instructions string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rédiger %s, sur un ton %s, pour le compte du parti RHDP et du gouvernement ivoirien.\n\n", responseFormats[responseType], responseTones[tone])
	b.WriteString("Points à traiter :\n")
	for _, p := range points {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	if instructions != "" {
		fmt.Fprintf(&b, "\nInstructions complémentaires : %s\n", instructions)
	}
	b.WriteString("\nRépondre uniquement avec le contenu demandé, en français.")
	return b.String()
}
