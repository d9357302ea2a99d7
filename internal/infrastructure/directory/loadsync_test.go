package directory

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karasi-sonica/PawzIO/internal/application"
	"github.com/karasi-sonica/PawzIO/internal/domain"
	"github.com/karasi-sonica/PawzIO/internal/events"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func waitForLoad(t *testing.T, dir *MemoryDirectory, providerID string, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		load, err := dir.CurrentLoad(context.Background(), providerID)
		require.NoError(t, err)
		if load == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	load, _ := dir.CurrentLoad(context.Background(), providerID)
	t.Fatalf("load for %s never reached %d, still %d", providerID, want, load)
}

func TestLoadSync_TracksWalkClaims(t *testing.T) {
	dir := NewMemoryDirectory()
	dir.SetRole("walker-1", application.RoleWalker)

	broker := events.NewBroker()
	defer broker.Close()

	transitions, unsubscribe := broker.Subscribe(16)
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go NewLoadSync(dir, testLogger()).Run(ctx, transitions)

	broker.Publish(events.Transition{
		RequestID:  "req-1",
		OldState:   domain.StatePending,
		NewState:   domain.StateClaimed,
		Category:   domain.CategoryWalk,
		ProviderID: "walker-1",
		Timestamp:  time.Now(),
	})
	waitForLoad(t, dir, "walker-1", 1)

	broker.Publish(events.Transition{
		RequestID:  "req-1",
		OldState:   domain.StateClaimed,
		NewState:   domain.StateCompleted,
		Category:   domain.CategoryWalk,
		ProviderID: "walker-1",
		Timestamp:  time.Now(),
	})
	waitForLoad(t, dir, "walker-1", 0)
}

func TestLoadSync_IgnoresConsultationsAndCreates(t *testing.T) {
	dir := NewMemoryDirectory()
	dir.SetRole("walker-1", application.RoleWalker)
	dir.SetRole("vet-1", application.RoleVeterinarian)

	sync := NewLoadSync(dir, testLogger())
	ctx := context.Background()

	sync.apply(ctx, events.Transition{
		RequestID:  "req-2",
		OldState:   domain.StatePending,
		NewState:   domain.StateClaimed,
		Category:   domain.CategoryConsultation,
		ProviderID: "vet-1",
	})
	sync.apply(ctx, events.Transition{
		RequestID: "req-3",
		NewState:  domain.StatePending,
		Category:  domain.CategoryWalk,
	})

	load, err := dir.CurrentLoad(ctx, "vet-1")
	require.NoError(t, err)
	assert.Zero(t, load)

	load, err = dir.CurrentLoad(ctx, "walker-1")
	require.NoError(t, err)
	assert.Zero(t, load)
}

func TestMemoryDirectory_RolesAndLoad(t *testing.T) {
	dir := NewMemoryDirectory()
	ctx := context.Background()

	_, err := dir.RoleOf(ctx, "ghost")
	assert.ErrorIs(t, err, application.ErrProviderNotFound)

	dir.SetRole("walker-1", application.RoleWalker)
	dir.SetRole("vet-1", application.RoleVeterinarian)

	role, err := dir.RoleOf(ctx, "walker-1")
	require.NoError(t, err)
	assert.Equal(t, application.RoleWalker, role)

	walkers, err := dir.ProvidersWithRole(ctx, application.RoleWalker)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"walker-1"}, walkers)

	require.NoError(t, dir.IncrLoad(ctx, "walker-1"))
	require.NoError(t, dir.IncrLoad(ctx, "walker-1"))
	load, err := dir.CurrentLoad(ctx, "walker-1")
	require.NoError(t, err)
	assert.Equal(t, 2, load)

	require.NoError(t, dir.DecrLoad(ctx, "walker-1"))
	require.NoError(t, dir.DecrLoad(ctx, "walker-1"))
	require.NoError(t, dir.DecrLoad(ctx, "walker-1"))
	load, err = dir.CurrentLoad(ctx, "walker-1")
	require.NoError(t, err)
	assert.Zero(t, load, "load never goes negative")
}
