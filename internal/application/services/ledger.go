package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/karasi-sonica/PawzIO/internal/application"
	"github.com/karasi-sonica/PawzIO/internal/domain"
	"github.com/karasi-sonica/PawzIO/internal/observability"
)

// LedgerService records completed request outcomes and serves earnings
// reports. Record is idempotent per request id: a duplicate write attempt is
// swallowed and the original entry returned.
type LedgerService struct {
	store  application.LedgerStore
	logger *slog.Logger
}

func NewLedgerService(store application.LedgerStore, logger *slog.Logger) *LedgerService {
	return &LedgerService{store: store, logger: logger}
}

func (s *LedgerService) Record(ctx context.Context, req *domain.ServiceRequest, note string) (*domain.LedgerEntry, error) {
	entry, err := domain.NewLedgerEntry(uuid.New().String(), req, note, time.Now())
	if err != nil {
		return nil, err
	}

	inserted, err := s.store.Record(ctx, entry)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// Already recorded, e.g. a retried Complete. Keep the original.
		return s.store.FindByRequestID(ctx, req.ID)
	}

	observability.LedgerEntriesTotal.WithLabelValues(string(entry.Category)).Inc()
	s.logger.Info("ledger entry recorded",
		"request_id", entry.RequestID,
		"provider_id", entry.ProviderID,
		"category", entry.Category,
	)
	return entry, nil
}

// EntriesFor returns the provider's completed work, oldest first. The slice
// is a snapshot; callers can iterate it repeatedly without observing later
// writes.
func (s *LedgerService) EntriesFor(ctx context.Context, providerID string) ([]*domain.LedgerEntry, error) {
	return s.store.EntriesFor(ctx, providerID)
}

// EarningsReport summarizes a provider's ledger for the reporting views.
type EarningsReport struct {
	ProviderID             string
	TotalCents             int64
	CompletedWalks         int
	CompletedConsultations int
	Entries                []*domain.LedgerEntry
}

func (s *LedgerService) EarningsFor(ctx context.Context, providerID string) (*EarningsReport, error) {
	entries, err := s.store.EntriesFor(ctx, providerID)
	if err != nil {
		return nil, err
	}

	report := &EarningsReport{ProviderID: providerID, Entries: entries}
	for _, e := range entries {
		switch e.Category {
		case domain.CategoryWalk:
			report.CompletedWalks++
			if e.AmountCents != nil {
				report.TotalCents += *e.AmountCents
			}
		case domain.CategoryConsultation:
			report.CompletedConsultations++
		}
	}
	return report, nil
}
