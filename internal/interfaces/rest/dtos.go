package rest

import (
	"time"

	"github.com/karasi-sonica/PawzIO/internal/application/services"
	"github.com/karasi-sonica/PawzIO/internal/domain"
)

type WalkDetails struct {
	Location        string    `json:"location"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	RateCents       int64     `json:"rate_cents"`
	PetName         string    `json:"pet_name"`
	PetType         string    `json:"pet_type"`
	OwnerName       string    `json:"owner_name"`
}

type ConsultationDetails struct {
	PetName        string    `json:"pet_name"`
	PetType        string    `json:"pet_type"`
	ProblemSummary string    `json:"problem_summary"`
	SlotTime       time.Time `json:"slot_time"`
}

type ServiceRequest struct {
	ID           string               `json:"id"`
	RequestorID  string               `json:"requestor_id"`
	Category     string               `json:"category"`
	State        string               `json:"state"`
	ClaimedBy    *string              `json:"claimed_by,omitempty"`
	DeclinedBy   []string             `json:"declined_by,omitempty"`
	Version      int64                `json:"version"`
	CreatedAt    time.Time            `json:"created_at"`
	ClaimedAt    *time.Time           `json:"claimed_at,omitempty"`
	TerminalAt   *time.Time           `json:"terminal_at,omitempty"`
	Walk         *WalkDetails         `json:"walk,omitempty"`
	Consultation *ConsultationDetails `json:"consultation,omitempty"`
}

func ToAPIRequest(req *domain.ServiceRequest) ServiceRequest {
	out := ServiceRequest{
		ID:          req.ID,
		RequestorID: req.RequestorID,
		Category:    string(req.Category),
		State:       string(req.State),
		ClaimedBy:   req.ClaimedBy,
		DeclinedBy:  req.DeclinedBy,
		Version:     req.Version,
		CreatedAt:   req.CreatedAt,
		ClaimedAt:   req.ClaimedAt,
		TerminalAt:  req.TerminalAt,
	}

	if req.Payload.Walk != nil {
		w := *req.Payload.Walk
		out.Walk = &WalkDetails{
			Location:        w.Location,
			StartTime:       w.StartTime,
			DurationMinutes: w.DurationMinutes,
			RateCents:       w.RateCents,
			PetName:         w.PetName,
			PetType:         w.PetType,
			OwnerName:       w.OwnerName,
		}
	}
	if req.Payload.Consultation != nil {
		c := *req.Payload.Consultation
		out.Consultation = &ConsultationDetails{
			PetName:        c.PetName,
			PetType:        c.PetType,
			ProblemSummary: c.ProblemSummary,
			SlotTime:       c.SlotTime,
		}
	}

	return out
}

func ToAPIRequests(reqs []*domain.ServiceRequest) []ServiceRequest {
	out := make([]ServiceRequest, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, ToAPIRequest(r))
	}
	return out
}

type LedgerEntry struct {
	ID          string    `json:"id"`
	RequestID   string    `json:"request_id"`
	ProviderID  string    `json:"provider_id"`
	Category    string    `json:"category"`
	AmountCents *int64    `json:"amount_cents,omitempty"`
	Note        string    `json:"note,omitempty"`
	RecordedAt  time.Time `json:"recorded_at"`
}

type EarningsReport struct {
	ProviderID             string        `json:"provider_id"`
	TotalCents             int64         `json:"total_cents"`
	CompletedWalks         int           `json:"completed_walks"`
	CompletedConsultations int           `json:"completed_consultations"`
	Entries                []LedgerEntry `json:"entries"`
}

func ToAPIEarnings(report *services.EarningsReport) EarningsReport {
	out := EarningsReport{
		ProviderID:             report.ProviderID,
		TotalCents:             report.TotalCents,
		CompletedWalks:         report.CompletedWalks,
		CompletedConsultations: report.CompletedConsultations,
		Entries:                make([]LedgerEntry, 0, len(report.Entries)),
	}
	for _, e := range report.Entries {
		out.Entries = append(out.Entries, LedgerEntry{
			ID:          e.ID,
			RequestID:   e.RequestID,
			ProviderID:  e.ProviderID,
			Category:    string(e.Category),
			AmountCents: e.AmountCents,
			Note:        e.Note,
			RecordedAt:  e.RecordedAt,
		})
	}
	return out
}
