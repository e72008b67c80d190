package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/bkonan/veilleur/internal/application"
	"github.com/bkonan/veilleur/internal/domain/ai"
	"github.com/bkonan/veilleur/internal/domain/analysis"
	"github.com/bkonan/veilleur/internal/domain/forces"
	domain "github.com/bkonan/veilleur/internal/domain/rag"
	"github.com/bkonan/veilleur/internal/infra/ai/prompt"
)

const defaultContextDocs = 3

// Service indexes documents into the vector store and answers questions over
// them. Embedding and storage go through the Embedder and VectorStore ports.
type Service struct {
	Embedder domain.Embedder
	Store    domain.VectorStore
	AI       ai.Client
	Clock    application.Clock
}

func NewService(embedder domain.Embedder, store domain.VectorStore, client ai.Client, clock application.Clock) *Service {
	if clock == nil {
		clock = application.SystemClock{}
	}
	return &Service{Embedder: embedder, Store: store, AI: client, Clock: clock}
}

// AddDocument indexes a free-form document. Missing metadata gets the default
// doc_type/source_type and an indexed_at timestamp.
func (s *Service) AddDocument(ctx context.Context, docID, text string, metadata map[string]string) error {
	if docID == "" {
		return &analysis.ValidationError{Field: "doc_id", Reason: "must not be empty"}
	}
	if text == "" {
		return &analysis.ValidationError{Field: "text", Reason: "must not be empty"}
	}

	final := map[string]string{
		"doc_type":    "standard",
		"source_type": "internal",
		"indexed_at":  s.Clock.Now().Format(time.RFC3339),
	}
	for k, v := range metadata {
		final[k] = v
	}

	vector, err := s.Embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed document %s: %w", docID, err)
	}
	if err := s.Store.Upsert(ctx, domain.Document{ID: docID, Text: text, Metadata: final}, vector); err != nil {
		return fmt.Errorf("index document %s: %w", docID, err)
	}
	return nil
}

// EDLSItem is the indexable projection of an "éléments de langage" sheet.
type EDLSItem struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	Status         string   `json:"status"`
	Classification string   `json:"classification"`
	Summary        string   `json:"summary"`
	KeyPoints      []string `json:"key_points"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

// AddEDLS composes and indexes an EDLS sheet as one document.
func (s *Service) AddEDLS(ctx context.Context, item EDLSItem) (string, error) {
	if item.ID == "" {
		return "", &analysis.ValidationError{Field: "id", Reason: "must not be empty"}
	}
	docID := "edls_" + item.ID
	keyPoints := ""
	for i, p := range item.KeyPoints {
		if i > 0 {
			keyPoints += " "
		}
		keyPoints += p
	}
	text := fmt.Sprintf("TITRE: %s\n\nCONTENU: %s\n\nRÉSUMÉ: %s\n\nPOINTS CLÉS: %s",
		item.Title, item.Content, item.Summary, keyPoints)

	status := item.Status
	if status == "" {
		status = "new"
	}
	metadata := map[string]string{
		"doc_type":       "edls",
		"source_type":    "internal",
		"title":          item.Title,
		"status":         status,
		"classification": item.Classification,
		"created_at":     item.CreatedAt,
		"updated_at":     item.UpdatedAt,
	}
	if err := s.AddDocument(ctx, docID, text, metadata); err != nil {
		return "", err
	}
	return docID, nil
}

// AddForces composes and indexes a forces/faiblesses element as one document.
func (s *Service) AddForces(ctx context.Context, item *forces.StrengthWeakness, partyName string) (string, error) {
	if item == nil || item.ID == "" {
		return "", &analysis.ValidationError{Field: "id", Reason: "must not be empty"}
	}
	docID := "forces_" + item.ID
	text := fmt.Sprintf("PARTI: %s\n\nTYPE: %s\n\nCATÉGORIE: %s\n\nCONTENU: %s\n\nRÉSUMÉ: %s\n\nSOURCE: %s",
		partyName, item.Type, item.Categorie, item.Contenu, item.Resume, item.Source)

	metadata := map[string]string{
		"doc_type":     "forces",
		"source_type":  "internal",
		"party_id":     item.PartyID,
		"party_name":   partyName,
		"type_element": string(item.Type),
		"categorie":    item.Categorie,
		"date":         item.Date,
	}
	if err := s.AddDocument(ctx, docID, text, metadata); err != nil {
		return "", err
	}
	return docID, nil
}

// Search returns the closest documents for the query. Type filters run in the
// vector store; date bounds are applied here on the created_at metadata since
// payload indexes only cover keyword fields.
func (s *Service) Search(ctx context.Context, query string, limit int, filter domain.SearchFilter) ([]domain.Match, error) {
	if query == "" {
		return nil, &analysis.ValidationError{Field: "query", Reason: "must not be empty"}
	}
	if limit <= 0 {
		limit = defaultContextDocs
	}

	vector, err := s.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	matches, err := s.Store.Search(ctx, vector, limit, filter)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return filterByDate(matches, filter), nil
}

// Answer retrieves context documents and generates a grounded answer.
func (s *Service) Answer(ctx context.Context, question string, contextDocs int, filter domain.SearchFilter) (*domain.Answer, error) {
	matches, err := s.Search(ctx, question, contextDocs, filter)
	if err != nil {
		return nil, err
	}

	contexts := make([]string, 0, len(matches))
	for _, m := range matches {
		contexts = append(contexts, m.Document.Text)
	}
	comp, err := s.AI.Complete(ctx, ai.Prompt{User: prompt.RAGAnswer(question, contexts)})
	if err != nil {
		return nil, err
	}
	return &domain.Answer{
		Question:  question,
		Response:  comp.Text,
		Sources:   matches,
		ModelUsed: comp.Model,
	}, nil
}

// Remove deletes a document from the index.
func (s *Service) Remove(ctx context.Context, docID string) error {
	return s.Store.Delete(ctx, docID)
}

func filterByDate(matches []domain.Match, filter domain.SearchFilter) []domain.Match {
	if filter.DateFrom.IsZero() && filter.DateTo.IsZero() {
		return matches
	}
	out := make([]domain.Match, 0, len(matches))
	for _, m := range matches {
		ts := m.Document.Metadata["created_at"]
		if ts == "" {
			ts = m.Document.Metadata["indexed_at"]
		}
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			// Unparseable dates pass through, matching permissive filtering.
			out = append(out, m)
			continue
		}
		if !filter.DateFrom.IsZero() && t.Before(filter.DateFrom) {
			continue
		}
		if !filter.DateTo.IsZero() && t.After(filter.DateTo) {
			continue
		}
		out = append(out, m)
	}
	return out
}
