package rag

import "context"

// Embedder turns text into a dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorStore persists and searches document embeddings.
type VectorStore interface {
	Upsert(ctx context.Context, doc Document, vector []float32) error
	Search(ctx context.Context, vector []float32, limit int, filter SearchFilter) ([]Match, error)
	Delete(ctx context.Context, docID string) error
}
