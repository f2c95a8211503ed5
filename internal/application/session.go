package application

import (
	"context"
	"sync"

	"github.com/svitsai-vanhu/service-estimates/internal/domain/estimate"
)

// Session tracks the estimation requests of a single client screen. Each
// submission supersedes the previous one: the prior request's context is
// cancelled and only the most recent generation may publish into the
// session snapshot, regardless of completion order.
type Session struct {
	svc *EstimateService

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	current    *EstimateResult
}

// NewSession creates a session bound to an estimate service.
func NewSession(svc *EstimateService) *Session {
	return &Session{svc: svc}
}

// Submit starts an estimation for the query, superseding any in-flight
// request. The returned channel closes when this attempt finishes, whether
// its result was published or discarded.
func (s *Session) Submit(ctx context.Context, q estimate.RouteQuery) <-chan struct{} {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		result := s.svc.Estimate(runCtx, q)

		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.generation {
			// A newer submission superseded this one while it was in
			// flight; its result must never reach the snapshot.
			return
		}
		if runCtx.Err() != nil {
			// Torn down (Close) before completion.
			return
		}
		s.current = result
	}()
	return done
}

// Current returns the latest published result, if any.
func (s *Session) Current() (*EstimateResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.current != nil
}

// Close cancels any in-flight request. Mirrors screen teardown: a result
// resolving after Close is discarded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	// Bump the generation so a request racing with Close loses.
	s.generation++
}
