package services

import (
	"context"
	"errors"

	"github.com/karasi-sonica/PawzIO/internal/application"
	"github.com/karasi-sonica/PawzIO/internal/domain"
)

// openRequestsLimit caps how many pending requests a provider's dashboard
// sees per fetch.
const openRequestsLimit = 100

// QueryService serves the read side of the dashboards.
type QueryService struct {
	requests    application.RequestStore
	directory   application.ProviderDirectory
	eligibility *EligibilityService
}

func NewQueryService(
	requests application.RequestStore,
	directory application.ProviderDirectory,
	eligibility *EligibilityService,
) *QueryService {
	return &QueryService{
		requests:    requests,
		directory:   directory,
		eligibility: eligibility,
	}
}

func (s *QueryService) GetRequest(ctx context.Context, requestID string) (*domain.ServiceRequest, error) {
	req, err := s.requests.Get(ctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			return nil, application.NewNotFoundError(err)
		}
		return nil, application.NewInternalError(err)
	}
	return req, nil
}

// OpenRequestsFor lists the pending requests the provider may claim, oldest
// first. An unknown provider sees nothing.
func (s *QueryService) OpenRequestsFor(ctx context.Context, providerID string) ([]*domain.ServiceRequest, error) {
	role, err := s.directory.RoleOf(ctx, providerID)
	if err != nil {
		if errors.Is(err, application.ErrProviderNotFound) {
			return nil, nil
		}
		return nil, application.NewInternalError(err)
	}

	category := domain.CategoryWalk
	if role == application.RoleVeterinarian {
		category = domain.CategoryConsultation
	}

	pending, err := s.requests.FindPending(ctx, category, openRequestsLimit)
	if err != nil {
		return nil, application.NewInternalError(err)
	}

	open := make([]*domain.ServiceRequest, 0, len(pending))
	for _, req := range pending {
		ok, err := s.eligibility.IsEligible(ctx, req, providerID)
		if err != nil {
			return nil, application.NewInternalError(err)
		}
		if ok {
			open = append(open, req)
		}
	}
	return open, nil
}
