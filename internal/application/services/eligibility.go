package services

import (
	"context"
	"errors"

	"github.com/karasi-sonica/PawzIO/internal/application"
	"github.com/karasi-sonica/PawzIO/internal/domain"
)

// EligibilityService decides which providers may see and claim a pending
// request. It is a pure function of the request and the provider directory;
// an empty result is not an error, the request simply stays PENDING.
type EligibilityService struct {
	directory          application.ProviderDirectory
	maxConcurrentWalks int
}

func NewEligibilityService(directory application.ProviderDirectory, maxConcurrentWalks int) *EligibilityService {
	if maxConcurrentWalks <= 0 {
		maxConcurrentWalks = 3
	}
	return &EligibilityService{
		directory:          directory,
		maxConcurrentWalks: maxConcurrentWalks,
	}
}

// RoleFor maps a request category to the provider role that serves it.
func RoleFor(category domain.Category) application.ProviderRole {
	if category == domain.CategoryConsultation {
		return application.RoleVeterinarian
	}
	return application.RoleWalker
}

// EligibleProviders returns the set of providers that may claim the request.
func (s *EligibilityService) EligibleProviders(ctx context.Context, req *domain.ServiceRequest) ([]string, error) {
	candidates, err := s.directory.ProvidersWithRole(ctx, RoleFor(req.Category))
	if err != nil {
		return nil, err
	}

	eligible := make([]string, 0, len(candidates))
	for _, providerID := range candidates {
		ok, err := s.IsEligible(ctx, req, providerID)
		if err != nil {
			return nil, err
		}
		if ok {
			eligible = append(eligible, providerID)
		}
	}
	return eligible, nil
}

// IsEligible reports whether a single provider may claim the request.
// A provider unknown to the directory is simply not eligible.
func (s *EligibilityService) IsEligible(ctx context.Context, req *domain.ServiceRequest, providerID string) (bool, error) {
	if req.HasDeclined(providerID) {
		return false, nil
	}

	role, err := s.directory.RoleOf(ctx, providerID)
	if err != nil {
		if errors.Is(err, application.ErrProviderNotFound) {
			return false, nil
		}
		return false, err
	}
	if role != RoleFor(req.Category) {
		return false, nil
	}

	// Walkers at their concurrent-walk limit drop out of eligibility until
	// a walk finishes.
	if req.Category == domain.CategoryWalk {
		load, err := s.directory.CurrentLoad(ctx, providerID)
		if err != nil {
			return false, err
		}
		if load >= s.maxConcurrentWalks {
			return false, nil
		}
	}

	return true, nil
}
