package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/karasi-sonica/PawzIO/internal/application"
	"github.com/karasi-sonica/PawzIO/internal/application/services"
	"github.com/karasi-sonica/PawzIO/internal/domain"
)

// Reconciler heals the gap between a committed COMPLETED transition and a
// ledger write that never landed. Completion records the transition first and
// the ledger entry second, so a crash in between leaves a completed request
// with no entry. The reconciler sweeps completed requests past a minimum age
// and re-records any that are missing; Record is idempotent, so sweeping a
// request that was healed concurrently is harmless.
type Reconciler struct {
	requests  application.RequestStore
	ledger    application.LedgerStore
	ledgerSvc *services.LedgerService
	interval  time.Duration
	batchSize int
	minAge    time.Duration
	logger    *slog.Logger
}

func NewReconciler(
	requests application.RequestStore,
	ledger application.LedgerStore,
	ledgerSvc *services.LedgerService,
	interval time.Duration,
	batchSize int,
	minAge time.Duration,
	logger *slog.Logger,
) *Reconciler {
	return &Reconciler{
		requests:  requests,
		ledger:    ledger,
		ledgerSvc: ledgerSvc,
		interval:  interval,
		batchSize: batchSize,
		minAge:    minAge,
		logger:    logger,
	}
}

func (w *Reconciler) Start(ctx context.Context) {
	w.logger.Info("ledger reconciler started", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("ledger reconciler stopping")
			return
		case <-ticker.C:
			if err := w.runOnce(ctx); err != nil {
				w.logger.Error("ledger reconciliation failed", "error", err)
			}
		}
	}
}

func (w *Reconciler) runOnce(ctx context.Context) error {
	completed, err := w.requests.FindCompleted(ctx, w.minAge, w.batchSize)
	if err != nil {
		return err
	}

	if len(completed) == 0 {
		return nil
	}

	var checked, healed int

	for _, req := range completed {
		wasHealed, err := w.reconcileRequest(ctx, req)
		if err != nil {
			w.logger.Error("failed to reconcile request",
				"request_id", req.ID,
				"error", err)
		} else if wasHealed {
			healed++
		}
		checked++
	}

	if healed > 0 {
		w.logger.Info("reconciled missing ledger entries",
			"checked", checked,
			"healed", healed)
	}

	return nil
}

func (w *Reconciler) reconcileRequest(ctx context.Context, req *domain.ServiceRequest) (bool, error) {
	_, err := w.ledger.FindByRequestID(ctx, req.ID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrLedgerEntryNotFound) {
		return false, err
	}

	if _, err := w.ledgerSvc.Record(ctx, req, "reconciled"); err != nil {
		return false, err
	}
	return true, nil
}
