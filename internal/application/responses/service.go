package responses

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bkonan/veilleur/internal/application"
	"github.com/bkonan/veilleur/internal/domain/ai"
	"github.com/bkonan/veilleur/internal/domain/analysis"
	domain "github.com/bkonan/veilleur/internal/domain/responses"
	"github.com/bkonan/veilleur/internal/infra/ai/prompt"
)

// Service generates party communications from selected analysis points and
// keeps the request/response pairs in memory.
type Service struct {
	AI      ai.Client
	Clock   application.Clock
	Timeout time.Duration

	mu        sync.Mutex
	requests  []*domain.Request
	responses map[string]*domain.Generated
	current   string
}

func NewService(client ai.Client, clock application.Clock, timeout time.Duration) *Service {
	if clock == nil {
		clock = application.SystemClock{}
	}
	return &Service{
		AI:        client,
		Clock:     clock,
		Timeout:   timeout,
		responses: make(map[string]*domain.Generated),
	}
}

// Generate produces a communication in the requested format and tone.
func (s *Service) Generate(ctx context.Context, analysisID string, points []string, responseType domain.ResponseType, tone domain.Tone, instructions string) (*domain.Generated, error) {
	if len(points) == 0 {
		return nil, &analysis.ValidationError{Field: "selected_points", Reason: "must not be empty"}
	}
	if !responseType.Valid() {
		return nil, &analysis.ValidationError{Field: "response_type", Reason: "unknown value " + string(responseType)}
	}
	if !tone.Valid() {
		return nil, &analysis.ValidationError{Field: "tone", Reason: "unknown value " + string(tone)}
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	comp, err := s.AI.Complete(ctx, ai.Prompt{
		User: prompt.Response(points, string(responseType), string(tone), instructions),
	})
	if err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	req := &domain.Request{
		ID:                     uuid.NewString(),
		AnalysisID:             analysisID,
		SelectedPoints:         points,
		ResponseType:           responseType,
		Tone:                   tone,
		AdditionalInstructions: instructions,
		CreatedAt:              now,
	}
	gen := &domain.Generated{
		ID:        uuid.NewString(),
		RequestID: req.ID,
		Content:   comp.Text,
		Format:    responseType,
		CreatedAt: now,
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.responses[req.ID] = gen
	s.current = req.ID
	s.mu.Unlock()

	return gen, nil
}

// Get returns the pair for id, matching either the request or response id,
// and makes it current.
func (s *Service) Get(id string) (*domain.Request, *domain.Generated, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req := s.find(id)
	if req == nil {
		return nil, nil, analysis.ErrNotFound
	}
	s.current = req.ID
	return req, s.responses[req.ID], nil
}

// Delete removes the pair for id. Absent ids are a no-op.
func (s *Service) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req := s.find(id)
	if req == nil {
		return
	}
	for i, r := range s.requests {
		if r.ID == req.ID {
			s.requests = append(s.requests[:i], s.requests[i+1:]...)
			break
		}
	}
	delete(s.responses, req.ID)
	if s.current == req.ID {
		s.current = ""
	}
}

// ListAll returns the stored requests in insertion order.
func (s *Service) ListAll() []*domain.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Current returns the current pair, or nils when the slot is empty.
func (s *Service) Current() (*domain.Request, *domain.Generated) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == "" {
		return nil, nil
	}
	return s.find(s.current), s.responses[s.current]
}

// ClearCurrent empties the current slot.
func (s *Service) ClearCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = ""
}

// find matches a request by its own id, its response's id, or the request id
// recorded on a response.
func (s *Service) find(id string) *domain.Request {
	for _, r := range s.requests {
		if r.ID == id {
			return r
		}
		if g := s.responses[r.ID]; g != nil && g.ID == id {
			return r
		}
	}
	return nil
}
