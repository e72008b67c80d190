package responses

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bkonan/veilleur/internal/domain/ai"
	"github.com/bkonan/veilleur/internal/domain/analysis"
	domain "github.com/bkonan/veilleur/internal/domain/responses"
)

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

type fakeAI struct {
	calls  int
	prompt ai.Prompt
	text   string
}

func (f *fakeAI) Complete(ctx context.Context, p ai.Prompt) (*ai.Completion, error) {
	f.calls++
	f.prompt = p
	return &ai.Completion{Text: f.text, Model: "fake-model"}, nil
}

func newTestService(client ai.Client) *Service {
	return NewService(client, fakeClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}, 0)
}

func TestGenerateValidation(t *testing.T) {
	client := &fakeAI{text: "contenu"}
	svc := newTestService(client)

	cases := []struct {
		name   string
		points []string
		rt     domain.ResponseType
		tone   domain.Tone
	}{
		{"no points", nil, domain.TypeTweet, domain.ToneFactual},
		{"bad type", []string{"p"}, domain.ResponseType("essay"), domain.ToneFactual},
		{"bad tone", []string{"p"}, domain.TypeTweet, domain.Tone("angry")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Generate(context.Background(), "a1", tc.points, tc.rt, tc.tone, "")
			var verr *analysis.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
	if client.calls != 0 {
		t.Fatalf("completion client called %d times for invalid input", client.calls)
	}
}

func TestGenerateStoresPair(t *testing.T) {
	client := &fakeAI{text: "Le #RHDP avance."}
	svc := newTestService(client)

	gen, err := svc.Generate(context.Background(), "a1", []string{"croissance", "emploi"}, domain.TypeTweet, domain.TonePersuasive, "mentionner 2026")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if gen.Content != "Le #RHDP avance." {
		t.Fatalf("content = %q", gen.Content)
	}
	if gen.Format != domain.TypeTweet {
		t.Fatalf("format = %q", gen.Format)
	}
	for _, want := range []string{"croissance", "emploi", "mentionner 2026", "tweet"} {
		if !strings.Contains(client.prompt.User, want) {
			t.Fatalf("prompt missing %q: %q", want, client.prompt.User)
		}
	}

	req, got, err := svc.Get(gen.RequestID)
	if err != nil {
		t.Fatalf("get by request id: %v", err)
	}
	if got.ID != gen.ID || req.AnalysisID != "a1" {
		t.Fatal("stored pair does not match generated pair")
	}

	// Lookup by response id resolves the same pair.
	if _, got2, err := svc.Get(gen.ID); err != nil || got2.ID != gen.ID {
		t.Fatalf("get by response id: %v", err)
	}
}

func TestDeleteByEitherID(t *testing.T) {
	svc := newTestService(&fakeAI{text: "contenu"})
	gen, err := svc.Generate(context.Background(), "a1", []string{"p"}, domain.TypeReport, domain.ToneFactual, "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	svc.Delete(gen.ID)
	if len(svc.ListAll()) != 0 {
		t.Fatal("pair not removed")
	}
	if req, _ := svc.Current(); req != nil {
		t.Fatal("current slot not cleared")
	}
	svc.Delete(gen.ID) // no-op

	if _, _, err := svc.Get(gen.ID); !errors.Is(err, analysis.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
