package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appanalysis "github.com/bkonan/veilleur/internal/application/analysis"
	appchat "github.com/bkonan/veilleur/internal/application/chat"
	appresponses "github.com/bkonan/veilleur/internal/application/responses"
	"github.com/bkonan/veilleur/internal/domain/ai"
)

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

type fakeAI struct {
	text string
	err  error
}

func (f *fakeAI) Complete(ctx context.Context, p ai.Prompt) (*ai.Completion, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ai.Completion{Text: f.text, Model: "fake-model"}, nil
}

const sampleCompletion = `## Résumé
Le texte décrit une politique économique.
## Points Positifs
- Croissance de 7%
## Points Négatifs
- Inégalités régionales
## Propositions de Réponses
1. Souligner les chiffres de croissance`

func newTestRouter(client ai.Client) http.Handler {
	clock := fakeClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	return NewRouter(
		appanalysis.NewService(client, clock, 0),
		appchat.NewService(client, 0),
		appresponses.NewService(client, clock, 0),
		nil,
		nil,
		func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("ok")) },
	)
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSubmitAnalysisEndpoint(t *testing.T) {
	h := newTestRouter(&fakeAI{text: sampleCompletion})

	rec := doJSON(t, h, http.MethodPost, "/api/analyses",
		`{"content":"texte à analyser","content_type":"article","source":"presse"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res struct {
		ID             string   `json:"id"`
		RequestID      string   `json:"request_id"`
		Summary        string   `json:"summary"`
		PositivePoints []string `json:"positive_points"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Summary != "Le texte décrit une politique économique." {
		t.Fatalf("summary = %q", res.Summary)
	}

	// The stored pair is retrievable and becomes current.
	rec = doJSON(t, h, http.MethodGet, "/api/analyses/"+res.RequestID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/api/analyses/current", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), res.RequestID) {
		t.Fatalf("current status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/analyses/"+res.RequestID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
}

func TestSubmitAnalysisValidation(t *testing.T) {
	h := newTestRouter(&fakeAI{text: sampleCompletion})

	rec := doJSON(t, h, http.MethodPost, "/api/analyses", `{"content":"","content_type":"article"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodPost, "/api/analyses", `{"content":"x","content_type":"blog"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGetAnalysisNotFound(t *testing.T) {
	h := newTestRouter(&fakeAI{text: sampleCompletion})
	rec := doJSON(t, h, http.MethodGet, "/api/analyses/nonexistent", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"quota", ai.ErrQuotaExceeded, http.StatusTooManyRequests},
		{"timeout", ai.ErrTimeout, http.StatusGatewayTimeout},
		{"provider", &ai.CompletionError{Provider: "perplexity", Err: context.Canceled}, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestRouter(&fakeAI{err: tc.err})
			rec := doJSON(t, h, http.MethodPost, "/api/analyses",
				`{"content":"texte","content_type":"article"}`)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestAnalysisChatEndpoint(t *testing.T) {
	h := newTestRouter(&fakeAI{text: "Réponse. (Réponse générée par: model-x)"})

	rec := doJSON(t, h, http.MethodPost, "/api/analysis-ai-chat",
		`{"message":"Pourquoi ce résultat ?","context":"Résumé : croissance"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["aiMessage"] != "Réponse." {
		t.Fatalf("aiMessage = %q", out["aiMessage"])
	}

	// Empty message fails before any provider call.
	rec = doJSON(t, h, http.MethodPost, "/api/analysis-ai-chat", `{"message":"","context":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAssistantChatEndpoint(t *testing.T) {
	h := newTestRouter(&fakeAI{text: "Le RHDP avance."})

	rec := doJSON(t, h, http.MethodPost, "/api/rhdpchat", `{"query":"Quel bilan ?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out struct {
		Response  string `json:"response"`
		ModelUsed string `json:"model_used"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Response != "Le RHDP avance." || out.ModelUsed != "fake-model" {
		t.Fatalf("reply = %+v", out)
	}
}

func TestGenerateResponseEndpoint(t *testing.T) {
	h := newTestRouter(&fakeAI{text: "Le #RHDP avance."})

	rec := doJSON(t, h, http.MethodPost, "/api/responses",
		`{"analysis_id":"a1","selected_points":["croissance"],"response_type":"tweet","tone":"persuasive"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPost, "/api/responses",
		`{"analysis_id":"a1","selected_points":["x"],"response_type":"essay","tone":"persuasive"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestTypeListEndpoints(t *testing.T) {
	h := newTestRouter(&fakeAI{})

	for _, path := range []string{"/document-types", "/source-types", "/elements-types"} {
		rec := doJSON(t, h, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rec.Code)
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestRouter(&fakeAI{})
	rec := doJSON(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("health = %d %q", rec.Code, rec.Body.String())
	}
}
