package embed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/ollama/ollama/api"
)

// Large documents overflow the embedding model's context window; truncating
// keeps indexing best-effort instead of failing the whole document.
const maxChunkSize = 2048

// Ollama produces embeddings through a local Ollama server.
type Ollama struct {
	client *api.Client
	model  string
}

func NewOllama(rawURL, model string) (*Ollama, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse ollama url %q: %w", rawURL, err)
	}
	httpClient := &http.Client{Timeout: 2 * time.Minute}
	return &Ollama{client: api.NewClient(u, httpClient), model: model}, nil
}

func (o *Ollama) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(text) > maxChunkSize {
		cut := maxChunkSize
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	resp, err := o.client.Embeddings(ctx, &api.EmbeddingRequest{
		Model:  o.model,
		Prompt: text,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embeddings: %w", err)
	}
	vec := make([]float32, len(resp.Embedding))
	for i, v := range resp.Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}
