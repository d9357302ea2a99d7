// Package memory provides in-memory stores for unit testing and single
// process development. Safe for concurrent access.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/karasi-sonica/PawzIO/internal/application"
	"github.com/karasi-sonica/PawzIO/internal/domain"
)

var _ application.RequestStore = (*RequestStore)(nil)

// RequestStore keeps versioned request records under one mutex. The mutex is
// the per-key critical section: CompareAndSwap reads, checks the version,
// mutates a clone and swaps it in without releasing the lock.
type RequestStore struct {
	mu       sync.RWMutex
	requests map[string]*domain.ServiceRequest
}

func NewRequestStore() *RequestStore {
	return &RequestStore{requests: make(map[string]*domain.ServiceRequest)}
}

func (s *RequestStore) Put(_ context.Context, req *domain.ServiceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.requests[req.ID]; exists {
		return domain.ErrRequestExists
	}
	s.requests[req.ID] = req.Clone()
	return nil
}

func (s *RequestStore) Get(_ context.Context, id string) (*domain.ServiceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	return req.Clone(), nil
}

func (s *RequestStore) CompareAndSwap(
	_ context.Context,
	id string,
	expectedVersion int64,
	mutate func(*domain.ServiceRequest) error,
) (*domain.ServiceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	if stored.Version != expectedVersion {
		return nil, domain.ErrVersionConflict
	}

	next := stored.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	next.Version++
	s.requests[id] = next

	return next.Clone(), nil
}

func (s *RequestStore) FindPending(_ context.Context, category domain.Category, limit int) ([]*domain.ServiceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*domain.ServiceRequest, 0)
	for _, req := range s.requests {
		if req.State == domain.StatePending && req.Category == category {
			results = append(results, req.Clone())
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].CreatedAt.Before(results[j].CreatedAt) })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (s *RequestStore) FindCompleted(_ context.Context, olderThan time.Duration, limit int) ([]*domain.ServiceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := time.Now().Add(-olderThan)
	results := make([]*domain.ServiceRequest, 0)
	for _, req := range s.requests {
		if req.State != domain.StateCompleted {
			continue
		}
		if req.TerminalAt != nil && req.TerminalAt.After(cutoff) {
			continue
		}
		results = append(results, req.Clone())
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].TerminalAt.Before(*results[j].TerminalAt)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
