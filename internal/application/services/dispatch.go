package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/karasi-sonica/PawzIO/internal/application"
	"github.com/karasi-sonica/PawzIO/internal/domain"
	"github.com/karasi-sonica/PawzIO/internal/events"
	"github.com/karasi-sonica/PawzIO/internal/observability"
)

// claimAttempts bounds the claim retry loop: one re-read after a
// compare-and-swap conflict, then the race is surfaced as AlreadyClaimed.
const claimAttempts = 2

// DispatchService is the core lifecycle engine. It owns every transition of
// a service request, serialized through the store's compare-and-swap, and is
// otherwise stateless so operations can run on any number of goroutines.
type DispatchService struct {
	requests    application.RequestStore
	ledger      *LedgerService
	eligibility *EligibilityService
	events      *events.Broker
	logger      *slog.Logger
}

func NewDispatchService(
	requests application.RequestStore,
	ledger *LedgerService,
	eligibility *EligibilityService,
	broker *events.Broker,
	logger *slog.Logger,
) *DispatchService {
	return &DispatchService{
		requests:    requests,
		ledger:      ledger,
		eligibility: eligibility,
		events:      broker,
		logger:      logger,
	}
}

// CreateRequest allocates a new PENDING request at version 1.
func (s *DispatchService) CreateRequest(ctx context.Context, cmd CreateRequestCommand) (*domain.ServiceRequest, error) {
	req, err := domain.NewServiceRequest(uuid.New().String(), cmd.RequestorID, cmd.Category, cmd.Payload)
	if err != nil {
		return nil, application.NewInvalidInputError(err)
	}

	if err := s.requests.Put(ctx, req); err != nil {
		return nil, application.NewInternalError(err)
	}

	observability.RequestsCreatedTotal.WithLabelValues(string(req.Category)).Inc()
	s.logger.Info("request created",
		"request_id", req.ID,
		"requestor_id", req.RequestorID,
		"category", req.Category,
	)
	s.publish(req, "", req.State)

	return req, nil
}

// Claim gives the request exclusively to providerID. When two providers race,
// the store's compare-and-swap is the serialization point: exactly one CAS
// succeeds and the loser re-reads once before receiving AlreadyClaimed.
func (s *DispatchService) Claim(ctx context.Context, requestID, providerID string) (*domain.ServiceRequest, error) {
	for attempt := 0; attempt < claimAttempts; attempt++ {
		req, err := s.getRequest(ctx, requestID)
		if err != nil {
			return nil, err
		}

		if req.State != domain.StatePending {
			observability.ClaimsTotal.WithLabelValues("already_claimed").Inc()
			return nil, application.NewAlreadyClaimedError(domain.ErrAlreadyClaimed)
		}

		eligible, err := s.eligibility.IsEligible(ctx, req, providerID)
		if err != nil {
			return nil, application.NewInternalError(err)
		}
		if !eligible {
			observability.ClaimsTotal.WithLabelValues("not_eligible").Inc()
			return nil, application.NewNotEligibleError(domain.ErrNotEligible)
		}

		now := time.Now()
		updated, err := s.requests.CompareAndSwap(ctx, requestID, req.Version, func(r *domain.ServiceRequest) error {
			return r.Claim(providerID, now)
		})
		if err == nil {
			observability.ClaimsTotal.WithLabelValues("claimed").Inc()
			s.logger.Info("request claimed",
				"request_id", requestID,
				"provider_id", providerID,
				"version", updated.Version,
			)
			s.publish(updated, domain.StatePending, updated.State)
			return updated, nil
		}

		if errors.Is(err, domain.ErrVersionConflict) {
			observability.ClaimConflictsTotal.Inc()
			continue
		}
		if errors.Is(err, domain.ErrAlreadyClaimed) {
			observability.ClaimsTotal.WithLabelValues("already_claimed").Inc()
			return nil, application.NewAlreadyClaimedError(err)
		}
		return nil, application.NewInternalError(err)
	}

	// Lost the race on both rounds; another claimant won.
	observability.ClaimsTotal.WithLabelValues("already_claimed").Inc()
	return nil, application.NewAlreadyClaimedError(domain.ErrAlreadyClaimed)
}

// Decline removes providerID from the request's eligible set. The request
// stays PENDING and visible to every other eligible provider.
func (s *DispatchService) Decline(ctx context.Context, requestID, providerID string) (*domain.ServiceRequest, error) {
	for attempt := 0; attempt < claimAttempts; attempt++ {
		req, err := s.getRequest(ctx, requestID)
		if err != nil {
			return nil, err
		}

		updated, err := s.requests.CompareAndSwap(ctx, requestID, req.Version, func(r *domain.ServiceRequest) error {
			return r.Decline(providerID)
		})
		if err == nil {
			s.logger.Info("request declined", "request_id", requestID, "provider_id", providerID)
			return updated, nil
		}

		if errors.Is(err, domain.ErrVersionConflict) {
			continue
		}
		if errors.Is(err, domain.ErrInvalidTransition) {
			return nil, application.NewInvalidStateError(err)
		}
		return nil, application.NewInternalError(err)
	}
	return nil, application.NewInvalidStateError(domain.ErrAlreadyClaimed)
}

// Complete transitions a CLAIMED request to COMPLETED and records the ledger
// entry. The transition commits first; ledger recording is an idempotent
// follow-up, so a crash in between is healed by the reconciler and a retried
// Complete never produces a duplicate entry.
func (s *DispatchService) Complete(ctx context.Context, cmd CompleteCommand) (*domain.ServiceRequest, error) {
	for attempt := 0; attempt < claimAttempts; attempt++ {
		req, err := s.getRequest(ctx, cmd.RequestID)
		if err != nil {
			return nil, err
		}

		// Retried completion by the same provider: the transition already
		// committed, only make sure the outcome is recorded.
		if req.State == domain.StateCompleted && req.ClaimedBy != nil && *req.ClaimedBy == cmd.ProviderID {
			if _, err := s.ledger.Record(ctx, req, cmd.Note); err != nil {
				return nil, application.NewInternalError(err)
			}
			return req, nil
		}

		now := time.Now()
		updated, err := s.requests.CompareAndSwap(ctx, cmd.RequestID, req.Version, func(r *domain.ServiceRequest) error {
			return r.Complete(cmd.ProviderID, now)
		})
		if err == nil {
			s.logger.Info("request completed",
				"request_id", cmd.RequestID,
				"provider_id", cmd.ProviderID,
			)
			s.publish(updated, domain.StateClaimed, updated.State)

			if _, err := s.ledger.Record(ctx, updated, cmd.Note); err != nil {
				// The transition is committed; the reconciler re-records
				// missing entries by request id.
				s.logger.Error("failed to record ledger entry",
					"request_id", cmd.RequestID,
					"error", err,
				)
			}
			return updated, nil
		}

		if errors.Is(err, domain.ErrVersionConflict) {
			continue
		}
		if errors.Is(err, domain.ErrNotClaimedByYou) {
			return nil, application.NewNotClaimedByYouError(err)
		}
		if errors.Is(err, domain.ErrInvalidTransition) {
			return nil, application.NewInvalidStateError(err)
		}
		return nil, application.NewInternalError(err)
	}
	return nil, application.NewInvalidStateError(domain.ErrVersionConflict)
}

// Cancel withdraws a request. The requestor may cancel while PENDING or
// CLAIMED; the claiming provider may abort a CLAIMED request.
func (s *DispatchService) Cancel(ctx context.Context, requestID, actorID string) (*domain.ServiceRequest, error) {
	for attempt := 0; attempt < claimAttempts; attempt++ {
		req, err := s.getRequest(ctx, requestID)
		if err != nil {
			return nil, err
		}
		oldState := req.State
		var claimant string
		if req.ClaimedBy != nil {
			claimant = *req.ClaimedBy
		}

		now := time.Now()
		updated, err := s.requests.CompareAndSwap(ctx, requestID, req.Version, func(r *domain.ServiceRequest) error {
			return r.Cancel(actorID, now)
		})
		if err == nil {
			s.logger.Info("request cancelled",
				"request_id", requestID,
				"actor_id", actorID,
				"old_state", oldState,
			)
			s.publishWithProvider(updated, oldState, updated.State, claimant)
			return updated, nil
		}

		if errors.Is(err, domain.ErrVersionConflict) {
			continue
		}
		if errors.Is(err, domain.ErrCancelNotAllowed) {
			return nil, application.NewNotAllowedError(err)
		}
		if errors.Is(err, domain.ErrInvalidTransition) {
			return nil, application.NewInvalidStateError(err)
		}
		return nil, application.NewInternalError(err)
	}
	return nil, application.NewInvalidStateError(domain.ErrVersionConflict)
}

func (s *DispatchService) getRequest(ctx context.Context, requestID string) (*domain.ServiceRequest, error) {
	req, err := s.requests.Get(ctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			return nil, application.NewNotFoundError(err)
		}
		return nil, application.NewInternalError(err)
	}
	return req, nil
}

func (s *DispatchService) publish(req *domain.ServiceRequest, from, to domain.RequestState) {
	var providerID string
	if req.ClaimedBy != nil {
		providerID = *req.ClaimedBy
	}
	s.publishWithProvider(req, from, to, providerID)
}

// publishWithProvider lets Cancel name the claimant the record no longer
// carries, so load trackers can release the provider's slot.
func (s *DispatchService) publishWithProvider(req *domain.ServiceRequest, from, to domain.RequestState, providerID string) {
	if from != "" {
		observability.TransitionsTotal.WithLabelValues(string(from), string(to)).Inc()
	}
	if s.events == nil {
		return
	}
	s.events.Publish(events.Transition{
		RequestID:  req.ID,
		OldState:   from,
		NewState:   to,
		Category:   req.Category,
		ProviderID: providerID,
		Timestamp:  time.Now(),
	})
}
