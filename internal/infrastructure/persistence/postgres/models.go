package postgres

import (
	"time"
)

// RequestModel mirrors the service_requests table. The category-specific
// payload is stored as JSONB; declined providers as a text array.
type RequestModel struct {
	ID          string
	RequestorID string
	Category    string
	Payload     []byte
	State       string
	ClaimedBy   *string
	DeclinedBy  []string
	Version     int64
	CreatedAt   time.Time
	ClaimedAt   *time.Time
	TerminalAt  *time.Time
}

// PayloadModel is the JSONB shape of RequestModel.Payload.
type PayloadModel struct {
	Walk         *WalkPayloadModel         `json:"walk,omitempty"`
	Consultation *ConsultationPayloadModel `json:"consultation,omitempty"`
}

type WalkPayloadModel struct {
	Location        string    `json:"location"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	RateCents       int64     `json:"rate_cents"`
	PetName         string    `json:"pet_name"`
	PetType         string    `json:"pet_type"`
	OwnerName       string    `json:"owner_name"`
}

type ConsultationPayloadModel struct {
	PetName        string    `json:"pet_name"`
	PetType        string    `json:"pet_type"`
	ProblemSummary string    `json:"problem_summary"`
	SlotTime       time.Time `json:"slot_time"`
}

// LedgerEntryModel mirrors the ledger_entries table. The unique constraint
// on request_id enforces at-most-once recording per request.
type LedgerEntryModel struct {
	ID          string
	RequestID   string
	ProviderID  string
	Category    string
	AmountCents *int64
	Note        string
	RecordedAt  time.Time
}
