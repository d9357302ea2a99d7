package domain

import (
	"errors"
	"time"
)

// Payload carries the category-specific attributes of a request. Exactly one
// of Walk or Consultation is set, matching the request category.
type Payload struct {
	Walk         *WalkDetails
	Consultation *ConsultationDetails
}

// WalkDetails mirrors the walk card shown to walkers.
type WalkDetails struct {
	Location        string
	StartTime       time.Time
	DurationMinutes int
	RateCents       int64
	PetName         string
	PetType         string
	OwnerName       string
}

// ConsultationDetails mirrors the patient card shown to veterinarians.
type ConsultationDetails struct {
	PetName        string
	PetType        string
	ProblemSummary string
	SlotTime       time.Time
}

func (p Payload) Validate(category Category) error {
	switch category {
	case CategoryWalk:
		if p.Walk == nil || p.Consultation != nil {
			return errors.New("walk request requires walk details only")
		}
		if p.Walk.Location == "" {
			return errors.New("walk location is required")
		}
		if p.Walk.DurationMinutes <= 0 {
			return errors.New("walk duration must be positive")
		}
		if p.Walk.RateCents < 0 {
			return errors.New("walk rate must not be negative")
		}
	case CategoryConsultation:
		if p.Consultation == nil || p.Walk != nil {
			return errors.New("consultation request requires consultation details only")
		}
		if p.Consultation.PetName == "" {
			return errors.New("patient name is required")
		}
		if p.Consultation.SlotTime.IsZero() {
			return errors.New("consultation slot time is required")
		}
	default:
		return errors.New("unknown request category")
	}
	return nil
}

// AmountCents derives the ledger amount for a completed request. Walks pay
// the quoted rate; consultations are booked-fee and carry no amount.
func (p Payload) AmountCents(category Category) *int64 {
	if category == CategoryWalk && p.Walk != nil {
		v := p.Walk.RateCents
		return &v
	}
	return nil
}

func (p Payload) clone() Payload {
	cp := Payload{}
	if p.Walk != nil {
		w := *p.Walk
		cp.Walk = &w
	}
	if p.Consultation != nil {
		c := *p.Consultation
		cp.Consultation = &c
	}
	return cp
}
