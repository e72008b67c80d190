package openai

import (
	"context"
	"errors"
	"net/http"

	"github.com/bkonan/veilleur/internal/domain/ai"
	"github.com/sashabaranov/go-openai"
)

const defaultMaxTokens = 2000

// Client talks to an OpenAI-compatible chat completion endpoint. The same
// adapter serves Perplexity, Groq and Deepseek since all three expose the
// OpenAI wire format behind a different base URL.
type Client struct {
	*openai.Client
	Provider string
	Model    string
}

func NewClient(provider, apiKey, baseURL, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{Client: openai.NewClientWithConfig(cfg), Provider: provider, Model: model}
}

func (c *Client) Complete(ctx context.Context, p ai.Prompt) (*ai.Completion, error) {
	model := p.Model
	if model == "" {
		model = c.Model
	}
	maxTokens := p.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	msgs := make([]openai.ChatCompletionMessage, 0, 2)
	if p.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: p.System})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: p.User})

	resp, err := c.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    msgs,
		MaxTokens:   maxTokens,
		Temperature: p.Temperature,
	})
	if err != nil {
		return nil, c.mapErr(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ai.CompletionError{Provider: c.Provider, Err: errors.New("empty choices in response")}
	}
	return &ai.Completion{Text: resp.Choices[0].Message.Content, Model: resp.Model}, nil
}

func (c *Client) mapErr(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return ai.ErrQuotaExceeded
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ai.ErrTimeout
	}
	return &ai.CompletionError{Provider: c.Provider, Err: err}
}
