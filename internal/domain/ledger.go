package domain

import (
	"errors"
	"time"
)

// LedgerEntry is the immutable record of a completed request's outcome.
// Exactly one entry exists per completed request; reporting consumers read
// entries but never mutate them.
type LedgerEntry struct {
	ID         string
	RequestID  string
	ProviderID string
	Category   Category

	// AmountCents is the walk rate for WALK requests and nil for
	// CONSULTATION requests, which are billed as a booked fee elsewhere.
	AmountCents *int64

	// Note carries the completion note, e.g. the prescription text a
	// veterinarian submits when closing a consultation.
	Note string

	RecordedAt time.Time
}

func NewLedgerEntry(id string, req *ServiceRequest, note string, recordedAt time.Time) (*LedgerEntry, error) {
	if id == "" {
		return nil, errors.New("ledger entry ID is required")
	}
	if req == nil {
		return nil, errors.New("request is required")
	}
	if req.ClaimedBy == nil {
		return nil, errors.New("request has no claiming provider")
	}

	return &LedgerEntry{
		ID:          id,
		RequestID:   req.ID,
		ProviderID:  *req.ClaimedBy,
		Category:    req.Category,
		AmountCents: req.Payload.AmountCents(req.Category),
		Note:        note,
		RecordedAt:  recordedAt,
	}, nil
}

func (e *LedgerEntry) Clone() *LedgerEntry {
	cp := *e
	if e.AmountCents != nil {
		v := *e.AmountCents
		cp.AmountCents = &v
	}
	return &cp
}
