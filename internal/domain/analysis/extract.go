package analysis

import (
	"regexp"
	"strings"
)

// Section headings the model is instructed to emit. French on purpose: the
// prompts, and therefore the model output, are French.
const (
	HeadingSummary   = "Résumé"
	HeadingPositive  = "Points Positifs"
	HeadingNegative  = "Points Négatifs"
	HeadingResponses = "Propositions de Réponses"
)

var (
	nextHeadingRe = regexp.MustCompile(`(?m)^##[ \t]`)
	bulletRe      = regexp.MustCompile(`^(-[ \t]|\*[ \t]|[0-9]+\.[ \t])`)
)

// headingBodyStart returns the offset of the first character after the
// "## <label>" heading line, or -1 when the heading is absent. The label must
// occupy the whole heading line (an optional trailing colon is tolerated) so
// that a label which is a prefix of another heading never false-matches.
func headingBodyStart(text, label string) int {
	re := regexp.MustCompile(`(?m)^##[ \t]*` + regexp.QuoteMeta(label) + `[ \t]*:?[ \t]*$`)
	loc := re.FindStringIndex(text)
	if loc == nil {
		return -1
	}
	// Skip to the next line.
	if nl := strings.IndexByte(text[loc[1]:], '\n'); nl >= 0 {
		return loc[1] + nl + 1
	}
	return len(text)
}

// sectionBody cuts the text between the end of the heading line and the next
// heading marker (or end of string).
func sectionBody(text, label string) (string, bool) {
	start := headingBodyStart(text, label)
	if start < 0 {
		return "", false
	}
	body := text[start:]
	if loc := nextHeadingRe.FindStringIndex(body); loc != nil {
		body = body[:loc[0]]
	}
	return body, true
}

// ExtractSection returns the list items found under "## <label>", in source
// order. Lines that are not bullet ("- ", "* ") or numbered ("1. ") items are
// dropped, as is anything left empty after stripping the marker. A missing
// heading or an empty body yields an empty slice; extraction never fails.
func ExtractSection(text, label string) []string {
	body, ok := sectionBody(text, label)
	if !ok {
		return nil
	}
	var items []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		m := bulletRe.FindString(line)
		if m == "" {
			continue
		}
		item := strings.TrimSpace(line[len(m):])
		if item == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

// ExtractSummary returns the trimmed prose between "## Résumé" and the next
// heading, with no line filtering. When the heading is absent the whole
// trimmed text is returned: a summary-less answer is still more useful than
// nothing.
func ExtractSummary(text string) string {
	body, ok := sectionBody(text, HeadingSummary)
	if !ok {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(body)
}
