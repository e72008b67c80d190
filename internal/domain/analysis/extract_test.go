package analysis

import (
	"reflect"
	"testing"
	"time"
)

func testTime() time.Time {
	return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
}

const sample = `## Résumé
Le texte décrit une politique économique.
## Points Positifs
- Croissance de 7%
- Réduction de la pauvreté
## Points Négatifs
- Inégalités régionales
## Propositions de Réponses
1. Souligner les chiffres de croissance`

func TestExtractSection(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		label string
		want  []string
	}{
		{
			name:  "dash bullets",
			text:  sample,
			label: HeadingPositive,
			want:  []string{"Croissance de 7%", "Réduction de la pauvreté"},
		},
		{
			name:  "numbered items",
			text:  sample,
			label: HeadingResponses,
			want:  []string{"Souligner les chiffres de croissance"},
		},
		{
			name:  "star bullets",
			text:  "## Points Positifs\n* Un\n* Deux\n## Suite",
			label: HeadingPositive,
			want:  []string{"Un", "Deux"},
		},
		{
			name:  "absent heading",
			text:  sample,
			label: "Recommandations",
			want:  nil,
		},
		{
			name:  "label prefix of another heading",
			text:  "## Points Positifs\n- Un",
			label: "Points",
			want:  nil,
		},
		{
			name:  "heading with empty body",
			text:  "## Points Négatifs\n## Points Positifs\n- ok",
			label: HeadingNegative,
			want:  nil,
		},
		{
			name:  "non-bullet lines ignored",
			text:  "## Points Positifs\nIntroduction libre\n- Seul point\nconclusion",
			label: HeadingPositive,
			want:  []string{"Seul point"},
		},
		{
			name:  "heading with trailing colon",
			text:  "## Points Positifs:\n- Un",
			label: HeadingPositive,
			want:  []string{"Un"},
		},
		{
			name:  "empty text",
			text:  "",
			label: HeadingPositive,
			want:  nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractSection(tc.text, tc.label)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ExtractSection(%q) = %v, want %v", tc.label, got, tc.want)
			}
		})
	}
}

func TestExtractSectionIdempotent(t *testing.T) {
	a := ExtractSection(sample, HeadingPositive)
	b := ExtractSection(sample, HeadingPositive)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("extraction not stable: %v vs %v", a, b)
	}
}

func TestExtractSummary(t *testing.T) {
	if got := ExtractSummary(sample); got != "Le texte décrit une politique économique." {
		t.Fatalf("summary = %q", got)
	}
	// No heading at all falls back to the whole trimmed text.
	if got := ExtractSummary("  texte brut sans sections  "); got != "texte brut sans sections" {
		t.Fatalf("fallback = %q", got)
	}
}

func TestBuildPairDegradesGracefully(t *testing.T) {
	req, res := BuildPair("réponse sans aucune section", "contenu", ContentArticle, "presse", testTime())
	if req.ID == "" || res.ID == "" || res.RequestID != req.ID {
		t.Fatal("identities not linked")
	}
	if res.Summary != "réponse sans aucune section" {
		t.Fatalf("summary fallback = %q", res.Summary)
	}
	if res.PositivePoints != nil || res.NegativePoints != nil || res.SuggestedResponses != nil {
		t.Fatal("absent sections must stay empty")
	}
}
