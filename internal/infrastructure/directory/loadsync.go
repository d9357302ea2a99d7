package directory

import (
	"context"
	"log/slog"

	"github.com/karasi-sonica/PawzIO/internal/domain"
	"github.com/karasi-sonica/PawzIO/internal/events"
)

// LoadRecorder adjusts a walker's concurrent walk counter.
type LoadRecorder interface {
	IncrLoad(ctx context.Context, providerID string) error
	DecrLoad(ctx context.Context, providerID string) error
}

// LoadSync keeps walk-load counters in step with request transitions. A walk
// moving into CLAIMED raises the claimant's load, a claimed walk reaching a
// terminal state lowers it.
type LoadSync struct {
	recorder LoadRecorder
	logger   *slog.Logger
}

func NewLoadSync(recorder LoadRecorder, logger *slog.Logger) *LoadSync {
	return &LoadSync{
		recorder: recorder,
		logger:   logger.With("component", "load_sync"),
	}
}

func (s *LoadSync) Run(ctx context.Context, transitions <-chan events.Transition) {
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-transitions:
			if !ok {
				return
			}
			s.apply(ctx, t)
		}
	}
}

func (s *LoadSync) apply(ctx context.Context, t events.Transition) {
	if t.Category != domain.CategoryWalk || t.ProviderID == "" {
		return
	}

	var err error
	switch {
	case t.NewState == domain.StateClaimed:
		err = s.recorder.IncrLoad(ctx, t.ProviderID)
	case t.OldState == domain.StateClaimed:
		err = s.recorder.DecrLoad(ctx, t.ProviderID)
	default:
		return
	}

	if err != nil {
		s.logger.Error("failed to sync walk load",
			"request_id", t.RequestID,
			"provider_id", t.ProviderID,
			"error", err,
		)
	}
}
