package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/bkonan/veilleur/internal/application"
	"github.com/bkonan/veilleur/internal/domain/ai"
	domain "github.com/bkonan/veilleur/internal/domain/analysis"
	"github.com/bkonan/veilleur/internal/infra/ai/prompt"
)

// Snapshot is the observable state of the store: the current slot, whether a
// submission is in flight, and the last operation error.
type Snapshot struct {
	CurrentRequest *domain.Request `json:"current_request"`
	CurrentResult  *domain.Result  `json:"current_result"`
	Analyzing      bool            `json:"analyzing"`
	Err            error           `json:"-"`
}

// Service owns the in-memory analysis collections. All methods are safe for
// concurrent use; the completion call happens outside the lock so a slow
// provider never blocks reads.
type Service struct {
	AI      ai.Client
	Clock   application.Clock
	Timeout time.Duration

	mu       sync.Mutex
	requests []*domain.Request
	results  map[domain.RequestID]*domain.Result
	current  domain.RequestID
	// seq orders submissions; the current slot follows the highest sequence
	// number that has completed, not completion time.
	seq        uint64
	currentSeq uint64
	inFlight   int
	lastErr    error
}

func NewService(client ai.Client, clock application.Clock, timeout time.Duration) *Service {
	if clock == nil {
		clock = application.SystemClock{}
	}
	return &Service{
		AI:      client,
		Clock:   clock,
		Timeout: timeout,
		results: make(map[domain.RequestID]*domain.Result),
	}
}

// Submit validates the input, asks the completion client for an analysis and
// stores the request/result pair. A second Submit issued before the first
// resolves is allowed; the slot goes to the later submission.
func (s *Service) Submit(ctx context.Context, content string, contentType domain.ContentType, source string) (*domain.Result, error) {
	if content == "" {
		return nil, s.fail(&domain.ValidationError{Field: "content", Reason: "must not be empty"})
	}
	if !contentType.Valid() {
		return nil, s.fail(&domain.ValidationError{Field: "content_type", Reason: "unknown value " + string(contentType)})
	}

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.inFlight++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	comp, err := s.AI.Complete(ctx, ai.Prompt{
		User: prompt.Analysis(content, string(contentType), source),
	})
	if err != nil {
		return nil, s.fail(err)
	}

	req, res := domain.BuildPair(comp.Text, content, contentType, source, s.Clock.Now())

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.results[req.ID] = res
	if seq >= s.currentSeq {
		s.current = req.ID
		s.currentSeq = seq
	}
	s.lastErr = nil
	s.mu.Unlock()

	return res, nil
}

// Get returns the stored pair for id and makes it current.
func (s *Service) Get(id domain.RequestID) (*domain.Request, *domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req := s.findRequest(id)
	if req == nil {
		s.lastErr = domain.ErrNotFound
		return nil, nil, domain.ErrNotFound
	}
	s.current = id
	s.lastErr = nil
	return req, s.results[id], nil
}

// Delete removes both entities for id. Deleting an absent id is a no-op.
func (s *Service) Delete(id domain.RequestID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.requests {
		if r.ID == id {
			s.requests = append(s.requests[:i], s.requests[i+1:]...)
			break
		}
	}
	delete(s.results, id)
	if s.current == id {
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

// Snapshot reports the current slot and error state.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{Analyzing: s.inFlight > 0, Err: s.lastErr}
	if s.current != "" {
		snap.CurrentRequest = s.findRequest(s.current)
		snap.CurrentResult = s.results[s.current]
	}
	return snap
}

// ClearCurrent empties the current slot without touching the collections.
func (s *Service) ClearCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = ""
	s.lastErr = nil
}

// Reset drops all stored state, returning the service to its initial state.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
	s.results = make(map[domain.RequestID]*domain.Result)
	s.current = ""
	s.currentSeq = 0
	s.lastErr = nil
}

func (s *Service) findRequest(id domain.RequestID) *domain.Request {
	for _, r := range s.requests {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (s *Service) fail(err error) error {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	return err
}
