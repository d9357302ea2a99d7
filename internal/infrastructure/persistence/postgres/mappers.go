package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/karasi-sonica/PawzIO/internal/domain"
)

// toDomainModel: maps db model to domain entity
func toDomainModel(m RequestModel) (*domain.ServiceRequest, error) {
	payload, err := toDomainPayload(m.Payload)
	if err != nil {
		return nil, err
	}

	return domain.Reconstitute(
		m.ID,
		m.RequestorID,
		domain.Category(m.Category),
		payload,
		domain.RequestState(m.State),
		m.ClaimedBy,
		m.DeclinedBy,
		m.Version,
		m.CreatedAt,
		m.ClaimedAt,
		m.TerminalAt,
	), nil
}

// toDBModel: maps domain entity to db model
func toDBModel(req *domain.ServiceRequest) (*RequestModel, error) {
	payload, err := toDBPayload(req.Payload)
	if err != nil {
		return nil, err
	}

	return &RequestModel{
		ID:          req.ID,
		RequestorID: req.RequestorID,
		Category:    string(req.Category),
		Payload:     payload,
		State:       string(req.State),
		ClaimedBy:   req.ClaimedBy,
		DeclinedBy:  req.DeclinedBy,
		Version:     req.Version,
		CreatedAt:   req.CreatedAt,
		ClaimedAt:   req.ClaimedAt,
		TerminalAt:  req.TerminalAt,
	}, nil
}

func toDBPayload(p domain.Payload) ([]byte, error) {
	m := PayloadModel{}
	if p.Walk != nil {
		m.Walk = &WalkPayloadModel{
			Location:        p.Walk.Location,
			StartTime:       p.Walk.StartTime,
			DurationMinutes: p.Walk.DurationMinutes,
			RateCents:       p.Walk.RateCents,
			PetName:         p.Walk.PetName,
			PetType:         p.Walk.PetType,
			OwnerName:       p.Walk.OwnerName,
		}
	}
	if p.Consultation != nil {
		m.Consultation = &ConsultationPayloadModel{
			PetName:        p.Consultation.PetName,
			PetType:        p.Consultation.PetType,
			ProblemSummary: p.Consultation.ProblemSummary,
			SlotTime:       p.Consultation.SlotTime,
		}
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal request payload: %w", err)
	}
	return b, nil
}

func toDomainPayload(b []byte) (domain.Payload, error) {
	var m PayloadModel
	if err := json.Unmarshal(b, &m); err != nil {
		return domain.Payload{}, fmt.Errorf("unmarshal request payload: %w", err)
	}

	p := domain.Payload{}
	if m.Walk != nil {
		p.Walk = &domain.WalkDetails{
			Location:        m.Walk.Location,
			StartTime:       m.Walk.StartTime,
			DurationMinutes: m.Walk.DurationMinutes,
			RateCents:       m.Walk.RateCents,
			PetName:         m.Walk.PetName,
			PetType:         m.Walk.PetType,
			OwnerName:       m.Walk.OwnerName,
		}
	}
	if m.Consultation != nil {
		p.Consultation = &domain.ConsultationDetails{
			PetName:        m.Consultation.PetName,
			PetType:        m.Consultation.PetType,
			ProblemSummary: m.Consultation.ProblemSummary,
			SlotTime:       m.Consultation.SlotTime,
		}
	}
	return p, nil
}

func toLedgerDomainModel(m LedgerEntryModel) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:          m.ID,
		RequestID:   m.RequestID,
		ProviderID:  m.ProviderID,
		Category:    domain.Category(m.Category),
		AmountCents: m.AmountCents,
		Note:        m.Note,
		RecordedAt:  m.RecordedAt,
	}
}
