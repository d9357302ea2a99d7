package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/karasi-sonica/PawzIO/internal/application"
	"github.com/karasi-sonica/PawzIO/internal/domain"
)

var _ application.LedgerStore = (*LedgerStore)(nil)

// LedgerStore is an append-only in-memory ledger keyed by request id, which
// is what makes Record idempotent.
type LedgerStore struct {
	mu      sync.RWMutex
	entries map[string]*domain.LedgerEntry // key: request id
}

func NewLedgerStore() *LedgerStore {
	return &LedgerStore{entries: make(map[string]*domain.LedgerEntry)}
}

func (s *LedgerStore) Record(_ context.Context, entry *domain.LedgerEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[entry.RequestID]; exists {
		return false, nil
	}
	s.entries[entry.RequestID] = entry.Clone()
	return true, nil
}

func (s *LedgerStore) FindByRequestID(_ context.Context, requestID string) (*domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[requestID]
	if !ok {
		return nil, domain.ErrLedgerEntryNotFound
	}
	return entry.Clone(), nil
}

func (s *LedgerStore) EntriesFor(_ context.Context, providerID string) ([]*domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*domain.LedgerEntry, 0)
	for _, entry := range s.entries {
		if entry.ProviderID == providerID {
			results = append(results, entry.Clone())
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].RecordedAt.Before(results[j].RecordedAt) })
	return results, nil
}
