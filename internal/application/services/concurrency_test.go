package services_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karasi-sonica/PawzIO/internal/application"
	"github.com/karasi-sonica/PawzIO/internal/application/services"
	"github.com/karasi-sonica/PawzIO/internal/application/services/testhelpers"
	"github.com/karasi-sonica/PawzIO/internal/domain"
	"github.com/karasi-sonica/PawzIO/internal/infrastructure/directory"
	"github.com/karasi-sonica/PawzIO/internal/infrastructure/persistence/memory"
)

func newTestDispatch(t *testing.T, walkers int) (*services.DispatchService, *memory.RequestStore, *memory.LedgerStore) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	requests := memory.NewRequestStore()
	ledger := memory.NewLedgerStore()
	dir := directory.NewMemoryDirectory()
	for i := 0; i < walkers; i++ {
		dir.SetRole(fmt.Sprintf("walker-%d", i), application.RoleWalker)
	}

	eligibility := services.NewEligibilityService(dir, 100)
	ledgerSvc := services.NewLedgerService(ledger, logger)
	svc := services.NewDispatchService(requests, ledgerSvc, eligibility, nil, logger)
	return svc, requests, ledger
}

func TestDispatchService_ConcurrentClaims_OneWinner(t *testing.T) {
	const numClaimers = 16

	svc, requests, _ := newTestDispatch(t, numClaimers)

	req, err := svc.CreateRequest(context.Background(), testhelpers.DefaultWalkCommand())
	require.NoError(t, err)

	var wg sync.WaitGroup
	type outcome struct {
		provider string
		err      error
	}
	results := make(chan outcome, numClaimers)

	for i := 0; i < numClaimers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			provider := fmt.Sprintf("walker-%d", n)
			_, err := svc.Claim(context.Background(), req.ID, provider)
			results <- outcome{provider: provider, err: err}
		}(i)
	}

	wg.Wait()
	close(results)

	var winners []string
	for res := range results {
		if res.err == nil {
			winners = append(winners, res.provider)
			continue
		}
		svcErr, ok := application.IsServiceError(res.err)
		require.True(t, ok, "unexpected error: %v", res.err)
		assert.Equal(t, application.ErrCodeAlreadyClaimed, svcErr.Code)
	}

	require.Len(t, winners, 1, "exactly one claim must win")

	stored, err := requests.Get(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateClaimed, stored.State)
	require.NotNil(t, stored.ClaimedBy)
	assert.Equal(t, winners[0], *stored.ClaimedBy)
	// Exactly one successful transition past the initial version.
	assert.Equal(t, int64(2), stored.Version)
}

func TestDispatchService_ConcurrentCompletes_SingleLedgerEntry(t *testing.T) {
	const numCompletes = 8

	svc, _, ledger := newTestDispatch(t, 1)

	req, err := svc.CreateRequest(context.Background(), testhelpers.DefaultWalkCommand())
	require.NoError(t, err)
	_, err = svc.Claim(context.Background(), req.ID, "walker-0")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, numCompletes)

	for i := 0; i < numCompletes; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Complete(context.Background(), services.CompleteCommand{
				RequestID:  req.ID,
				ProviderID: "walker-0",
			})
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err, "a retried completion by the claimant must succeed")
	}

	entries, err := ledger.EntriesFor(context.Background(), "walker-0")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "duplicate completions must not duplicate earnings")
}

func TestDispatchService_ConcurrentClaimAndCancel(t *testing.T) {
	svc, requests, _ := newTestDispatch(t, 1)

	req, err := svc.CreateRequest(context.Background(), testhelpers.DefaultWalkCommand())
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = svc.Claim(context.Background(), req.ID, "walker-0")
	}()
	go func() {
		defer wg.Done()
		_, _ = svc.Cancel(context.Background(), req.ID, req.RequestorID)
	}()
	wg.Wait()

	stored, err := requests.Get(context.Background(), req.ID)
	require.NoError(t, err)

	// Whichever operation won, the record must be internally consistent.
	switch stored.State {
	case domain.StateClaimed:
		require.NotNil(t, stored.ClaimedBy)
	case domain.StateCancelled:
		require.Nil(t, stored.ClaimedBy)
	default:
		t.Fatalf("unexpected terminal state %s", stored.State)
	}
}
