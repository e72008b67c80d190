package rag

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bkonan/veilleur/internal/domain/ai"
	"github.com/bkonan/veilleur/internal/domain/forces"
	domain "github.com/bkonan/veilleur/internal/domain/rag"
)

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

type fakeEmbedder struct{ calls int }

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	return []float32{0.1, 0.2, 0.3}, nil
}

type memVectorStore struct {
	docs    map[string]domain.Document
	order   []string
	lastFil domain.SearchFilter
}

func newMemVectorStore() *memVectorStore {
	return &memVectorStore{docs: make(map[string]domain.Document)}
}

func (s *memVectorStore) Upsert(ctx context.Context, doc domain.Document, vector []float32) error {
	if _, ok := s.docs[doc.ID]; !ok {
		s.order = append(s.order, doc.ID)
	}
	s.docs[doc.ID] = doc
	return nil
}

func (s *memVectorStore) Search(ctx context.Context, vector []float32, limit int, filter domain.SearchFilter) ([]domain.Match, error) {
	s.lastFil = filter
	var out []domain.Match
	for _, id := range s.order {
		doc := s.docs[id]
		if filter.DocumentType != "" && doc.Metadata["doc_type"] != filter.DocumentType {
			continue
		}
		if filter.SourceType != "" && doc.Metadata["source_type"] != filter.SourceType {
			continue
		}
		out = append(out, domain.Match{Document: doc, Distance: 0.1})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *memVectorStore) Delete(ctx context.Context, docID string) error {
	delete(s.docs, docID)
	return nil
}

type fakeAI struct {
	prompt ai.Prompt
	text   string
}

func (f *fakeAI) Complete(ctx context.Context, p ai.Prompt) (*ai.Completion, error) {
	f.prompt = p
	return &ai.Completion{Text: f.text, Model: "fake-model"}, nil
}

func newTestService(store *memVectorStore, client ai.Client) *Service {
	return NewService(&fakeEmbedder{}, store, client, fakeClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)})
}

func TestAddDocumentDefaults(t *testing.T) {
	store := newMemVectorStore()
	svc := newTestService(store, &fakeAI{})

	if err := svc.AddDocument(context.Background(), "d1", "texte du document", nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	doc := store.docs["d1"]
	if doc.Metadata["doc_type"] != "standard" || doc.Metadata["source_type"] != "internal" {
		t.Fatalf("default metadata wrong: %v", doc.Metadata)
	}
	if doc.Metadata["indexed_at"] == "" {
		t.Fatal("indexed_at not set")
	}

	// Caller metadata overrides the defaults.
	if err := svc.AddDocument(context.Background(), "d2", "autre", map[string]string{"doc_type": "edls"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if store.docs["d2"].Metadata["doc_type"] != "edls" {
		t.Fatal("metadata override lost")
	}
}

func TestAddEDLSComposition(t *testing.T) {
	store := newMemVectorStore()
	svc := newTestService(store, &fakeAI{})

	docID, err := svc.AddEDLS(context.Background(), EDLSItem{
		ID:        "42",
		Title:     "Bilan économique",
		Content:   "croissance soutenue",
		Summary:   "résumé",
		KeyPoints: []string{"7%", "emploi"},
	})
	if err != nil {
		t.Fatalf("add edls: %v", err)
	}
	if docID != "edls_42" {
		t.Fatalf("doc id = %q", docID)
	}
	doc := store.docs[docID]
	for _, want := range []string{"TITRE: Bilan économique", "CONTENU: croissance soutenue", "POINTS CLÉS: 7% emploi"} {
		if !strings.Contains(doc.Text, want) {
			t.Fatalf("composed text missing %q: %q", want, doc.Text)
		}
	}
	if doc.Metadata["doc_type"] != "edls" || doc.Metadata["status"] != "new" {
		t.Fatalf("metadata wrong: %v", doc.Metadata)
	}
}

func TestAddForcesComposition(t *testing.T) {
	store := newMemVectorStore()
	svc := newTestService(store, &fakeAI{})

	docID, err := svc.AddForces(context.Background(), &forces.StrengthWeakness{
		ID:        "7",
		PartyID:   "p1",
		Type:      forces.ElementForce,
		Categorie: "économie",
		Contenu:   "réseau militant",
	}, "RHDP")
	if err != nil {
		t.Fatalf("add forces: %v", err)
	}
	doc := store.docs[docID]
	if !strings.Contains(doc.Text, "PARTI: RHDP") || !strings.Contains(doc.Text, "TYPE: force") {
		t.Fatalf("composed text = %q", doc.Text)
	}
	if doc.Metadata["party_name"] != "RHDP" || doc.Metadata["type_element"] != "force" {
		t.Fatalf("metadata wrong: %v", doc.Metadata)
	}
}

func TestSearchDateFilter(t *testing.T) {
	store := newMemVectorStore()
	svc := newTestService(store, &fakeAI{})
	ctx := context.Background()

	svc.AddDocument(ctx, "old", "ancien", map[string]string{"created_at": "2026-01-10T00:00:00Z"})
	svc.AddDocument(ctx, "new", "récent", map[string]string{"created_at": "2026-07-10T00:00:00Z"})

	matches, err := svc.Search(ctx, "politique", 5, domain.SearchFilter{
		DateFrom: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 1 || matches[0].Document.ID != "new" {
		t.Fatalf("date filter wrong: %+v", matches)
	}
}

func TestSearchTypeFilterReachesStore(t *testing.T) {
	store := newMemVectorStore()
	svc := newTestService(store, &fakeAI{})
	ctx := context.Background()

	svc.AddDocument(ctx, "d1", "texte", map[string]string{"doc_type": "forces"})
	svc.AddDocument(ctx, "d2", "texte", nil)

	matches, err := svc.Search(ctx, "q", 5, domain.SearchFilter{DocumentType: "forces"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 1 || matches[0].Document.ID != "d1" {
		t.Fatalf("type filter wrong: %+v", matches)
	}
	if store.lastFil.DocumentType != "forces" {
		t.Fatal("filter not pushed to vector store")
	}
}

func TestAnswerGroundsOnRetrievedDocs(t *testing.T) {
	store := newMemVectorStore()
	client := &fakeAI{text: "Réponse fondée."}
	svc := newTestService(store, client)
	ctx := context.Background()

	svc.AddDocument(ctx, "d1", "le taux de croissance est de 7%", nil)

	ans, err := svc.Answer(ctx, "Quel est le taux de croissance ?", 3, domain.SearchFilter{})
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if ans.Response != "Réponse fondée." || ans.ModelUsed != "fake-model" {
		t.Fatalf("answer = %+v", ans)
	}
	if len(ans.Sources) != 1 {
		t.Fatalf("sources = %+v", ans.Sources)
	}
	if !strings.Contains(client.prompt.User, "le taux de croissance est de 7%") {
		t.Fatalf("context missing from prompt: %q", client.prompt.User)
	}
}
