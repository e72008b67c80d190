package chat

import (
	"context"
	"strings"
	"time"

	"github.com/bkonan/veilleur/internal/domain/ai"
	"github.com/bkonan/veilleur/internal/domain/analysis"
	domain "github.com/bkonan/veilleur/internal/domain/chat"
	"github.com/bkonan/veilleur/internal/infra/ai/prompt"
)

// Service answers follow-up questions about an analysis and serves the
// standalone assistant channel. Stateless: each call is a single completion
// round-trip with no stored history.
type Service struct {
	AI      ai.Client
	Timeout time.Duration
}

func NewService(client ai.Client, timeout time.Duration) *Service {
	return &Service{AI: client, Timeout: timeout}
}

// Ask answers a follow-up question using the given analysis context. A blank
// message is rejected before any network call.
func (s *Service) Ask(ctx context.Context, message, analysisContext string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", &analysis.ValidationError{Field: "message", Reason: "must not be empty"}
	}
	comp, err := s.complete(ctx, prompt.ChatSystem(analysisContext), message)
	if err != nil {
		return "", err
	}
	return domain.CleanTrailer(comp.Text), nil
}

// Assistant answers a free-standing query without analysis context.
func (s *Service) Assistant(ctx context.Context, query string) (*domain.Reply, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &analysis.ValidationError{Field: "query", Reason: "must not be empty"}
	}
	comp, err := s.complete(ctx, prompt.AssistantSystem(), query)
	if err != nil {
		return nil, err
	}
	return &domain.Reply{
		Response:  domain.CleanTrailer(comp.Text),
		ModelUsed: comp.Model,
	}, nil
}

func (s *Service) complete(ctx context.Context, system, user string) (*ai.Completion, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	return s.AI.Complete(ctx, ai.Prompt{System: system, User: user})
}
