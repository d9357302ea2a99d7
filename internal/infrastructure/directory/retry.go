package directory

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/karasi-sonica/PawzIO/internal/application"
	"github.com/karasi-sonica/PawzIO/internal/config"
)

// RetryDirectory wraps another directory with exponential backoff. Roster
// lookups sit on the claim path, so transient failures get a few attempts
// before a claim is rejected.
type RetryDirectory struct {
	inner      application.ProviderDirectory
	baseDelay  time.Duration
	maxRetries int
}

func NewRetryDirectory(inner application.ProviderDirectory, cfg config.DirectoryConfig) application.ProviderDirectory {
	return &RetryDirectory{
		inner:      inner,
		baseDelay:  time.Duration(cfg.BaseDelay) * time.Second,
		maxRetries: int(cfg.MaxRetries),
	}
}

func (r *RetryDirectory) RoleOf(ctx context.Context, providerID string) (application.ProviderRole, error) {
	return retry(r, ctx, func(ctx context.Context) (application.ProviderRole, error) {
		return r.inner.RoleOf(ctx, providerID)
	})
}

func (r *RetryDirectory) CurrentLoad(ctx context.Context, providerID string) (int, error) {
	return retry(r, ctx, func(ctx context.Context) (int, error) {
		return r.inner.CurrentLoad(ctx, providerID)
	})
}

func (r *RetryDirectory) ProvidersWithRole(ctx context.Context, role application.ProviderRole) ([]string, error) {
	return retry(r, ctx, func(ctx context.Context) ([]string, error) {
		return r.inner.ProvidersWithRole(ctx, role)
	})
}

func retry[T any](r *RetryDirectory, ctx context.Context, operation func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		resp, err := operation(ctx)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if !isRetryable(err) {
			return zero, err
		}

		if attempt < r.maxRetries-1 {
			time.Sleep(r.backoff(attempt))
		}
	}

	return zero, fmt.Errorf("maximum retries exceeded: %w", lastErr)
}

// Helper: to check retryable errors
func isRetryable(err error) bool {
	if errors.Is(err, application.ErrProviderNotFound) {
		return false
	}

	var dirErr *DirectoryError
	if errors.As(err, &dirErr) {
		return dirErr.StatusCode >= 500
	}

	return true
}

// Backoff calculation with exponential delay and jitter
func (r *RetryDirectory) backoff(attempt int) time.Duration {
	base := r.baseDelay * time.Duration(1<<attempt)

	jitter := time.Duration(rand.Intn(1000)) * time.Millisecond

	return base + jitter
}
