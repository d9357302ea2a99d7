// Package domain encodes the service request entity and its lifecycle rules.
package domain

import (
	"errors"
	"slices"
	"time"
)

// RequestState represents the current state of a service request in its lifecycle
type RequestState string

const (
	StatePending   RequestState = "PENDING"
	StateClaimed   RequestState = "CLAIMED"
	StateCompleted RequestState = "COMPLETED"
	StateCancelled RequestState = "CANCELLED"
)

// Category determines which providers may claim a request and how its
// ledger entry is priced.
type Category string

const (
	CategoryWalk         Category = "WALK"
	CategoryConsultation Category = "CONSULTATION"
)

// ServiceRequest is a unit of work offered to providers: a dog walk or a
// veterinary consultation slot. Identity and payload are immutable after
// creation; only State, ClaimedBy, DeclinedBy and the transition timestamps
// change, and only through the methods below.
type ServiceRequest struct {
	ID          string
	RequestorID string
	Category    Category
	Payload     Payload
	State       RequestState

	// ClaimedBy is set on the PENDING -> CLAIMED transition and cleared on
	// cancellation. It is non-nil exactly while the request is CLAIMED or
	// COMPLETED.
	ClaimedBy *string

	// DeclinedBy lists providers that passed on this request. A decline does
	// not change State; it only removes that provider from future eligibility.
	DeclinedBy []string

	// Version is the optimistic-concurrency counter. The store bumps it on
	// every successful compare-and-swap.
	Version int64

	CreatedAt  time.Time
	ClaimedAt  *time.Time
	TerminalAt *time.Time
}

func NewServiceRequest(id string, requestorID string, category Category, payload Payload) (*ServiceRequest, error) {
	if id == "" {
		return nil, errors.New("request ID is required")
	}
	if requestorID == "" {
		return nil, errors.New("requestor ID is required")
	}
	if category != CategoryWalk && category != CategoryConsultation {
		return nil, errors.New("unknown request category")
	}
	if err := payload.Validate(category); err != nil {
		return nil, err
	}

	return &ServiceRequest{
		ID:          id,
		RequestorID: requestorID,
		Category:    category,
		Payload:     payload,
		State:       StatePending,
		Version:     1,
		CreatedAt:   time.Now(),
	}, nil
}

// Claim transitions the request to CLAIMED on behalf of providerID.
// ClaimedBy is never overwritten.
func (r *ServiceRequest) Claim(providerID string, at time.Time) error {
	if providerID == "" {
		return errors.New("provider ID is required")
	}
	if r.State != StatePending {
		return ErrAlreadyClaimed
	}
	if err := r.transition(StateClaimed); err != nil {
		return err
	}
	r.ClaimedBy = &providerID
	r.ClaimedAt = &at
	return nil
}

// Complete transitions the request to COMPLETED. Only the claiming provider
// may complete it.
func (r *ServiceRequest) Complete(providerID string, at time.Time) error {
	if r.ClaimedBy == nil || *r.ClaimedBy != providerID {
		return ErrNotClaimedByYou
	}
	if err := r.transition(StateCompleted); err != nil {
		return err
	}
	r.TerminalAt = &at
	return nil
}

// Cancel transitions the request to CANCELLED. The requestor may cancel at
// any point before completion; the claiming provider may abort after claiming.
func (r *ServiceRequest) Cancel(actorID string, at time.Time) error {
	if err := r.canTransitionTo(StateCancelled); err != nil {
		return err
	}

	switch r.State {
	case StatePending:
		if actorID != r.RequestorID {
			return ErrCancelNotAllowed
		}
	case StateClaimed:
		if actorID != r.RequestorID && (r.ClaimedBy == nil || *r.ClaimedBy != actorID) {
			return ErrCancelNotAllowed
		}
	}

	if err := r.transition(StateCancelled); err != nil {
		return err
	}
	// A cancelled request carries no active claim. ClaimedAt stays as a
	// historical timestamp.
	r.ClaimedBy = nil
	r.TerminalAt = &at
	return nil
}

// Decline records that providerID passed on this request. The request stays
// PENDING and remains visible to other eligible providers. Declining twice
// is a no-op.
func (r *ServiceRequest) Decline(providerID string) error {
	if r.State != StatePending {
		return ErrInvalidTransition
	}
	if slices.Contains(r.DeclinedBy, providerID) {
		return nil
	}
	r.DeclinedBy = append(r.DeclinedBy, providerID)
	return nil
}

func (r *ServiceRequest) HasDeclined(providerID string) bool {
	return slices.Contains(r.DeclinedBy, providerID)
}

func (r *ServiceRequest) transition(target RequestState) error {
	if err := r.canTransitionTo(target); err != nil {
		return err
	}
	r.State = target
	return nil
}

// defines the request states that can be transitioned to
func (r *ServiceRequest) canTransitionTo(target RequestState) error {
	switch r.State {
	case StatePending:
		return r.allow(target, StateClaimed, StateCancelled)
	case StateClaimed:
		return r.allow(target, StateCompleted, StateCancelled)
	}
	return ErrInvalidTransition
}

// Helper to check allowed state transitions
func (r *ServiceRequest) allow(target RequestState, allowed ...RequestState) error {
	if slices.Contains(allowed, target) {
		return nil
	}
	return ErrInvalidTransition
}

// helper to identify request states that are terminal
func (r *ServiceRequest) IsTerminal() bool {
	switch r.State {
	case StateCompleted, StateCancelled:
		return true
	default:
		return false
	}
}

// Clone returns a deep copy. Stores hand out clones so callers can never
// mutate a stored record outside the compare-and-swap path.
func (r *ServiceRequest) Clone() *ServiceRequest {
	cp := *r
	if r.ClaimedBy != nil {
		v := *r.ClaimedBy
		cp.ClaimedBy = &v
	}
	if r.ClaimedAt != nil {
		v := *r.ClaimedAt
		cp.ClaimedAt = &v
	}
	if r.TerminalAt != nil {
		v := *r.TerminalAt
		cp.TerminalAt = &v
	}
	if r.DeclinedBy != nil {
		cp.DeclinedBy = slices.Clone(r.DeclinedBy)
	}
	cp.Payload = r.Payload.clone()
	return &cp
}

// Reconstitute - Special constructor for loading from storage
func Reconstitute(
	id string, requestorID string,
	category Category, payload Payload,
	state RequestState,
	claimedBy *string, declinedBy []string,
	version int64,
	createdAt time.Time, claimedAt, terminalAt *time.Time,
) *ServiceRequest {
	return &ServiceRequest{
		ID:          id,
		RequestorID: requestorID,
		Category:    category,
		Payload:     payload,
		State:       state,
		ClaimedBy:   claimedBy,
		DeclinedBy:  declinedBy,
		Version:     version,
		CreatedAt:   createdAt,
		ClaimedAt:   claimedAt,
		TerminalAt:  terminalAt,
	}
}
