package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/karasi-sonica/PawzIO/internal/application"
	"github.com/karasi-sonica/PawzIO/internal/domain"
)

var _ application.LedgerStore = (*LedgerRepository)(nil)

type LedgerRepository struct {
	db *DB
}

func NewLedgerRepository(db *DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Record inserts the entry unless one already exists for the request id.
// The unique constraint on request_id makes duplicate completions a no-op.
func (r *LedgerRepository) Record(ctx context.Context, entry *domain.LedgerEntry) (bool, error) {
	query := `
		INSERT INTO ledger_entries (
			id, request_id, provider_id, category, amount_cents, note, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (request_id) DO NOTHING
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		entry.ID,
		entry.RequestID,
		entry.ProviderID,
		string(entry.Category),
		entry.AmountCents,
		entry.Note,
		entry.RecordedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to record ledger entry: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *LedgerRepository) FindByRequestID(ctx context.Context, requestID string) (*domain.LedgerEntry, error) {
	query := `
		SELECT id, request_id, provider_id, category, amount_cents, note, recorded_at
		FROM ledger_entries WHERE request_id = $1
	`

	row := r.db.Pool.QueryRow(ctx, query, requestID)
	return scanLedgerEntry(row)
}

// EntriesFor returns the provider's entries ordered by recorded_at.
func (r *LedgerRepository) EntriesFor(ctx context.Context, providerID string) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT id, request_id, provider_id, category, amount_cents, note, recorded_at
		FROM ledger_entries
		WHERE provider_id = $1
		ORDER BY recorded_at ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, providerID)
	if err != nil {
		return nil, fmt.Errorf("query ledger entries: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.LedgerEntry, error) {
		var m LedgerEntryModel
		err := row.Scan(&m.ID, &m.RequestID, &m.ProviderID, &m.Category, &m.AmountCents, &m.Note, &m.RecordedAt)
		return toLedgerDomainModel(m), err
	})
	if err != nil {
		return nil, fmt.Errorf("scan ledger entries: %w", err)
	}
	return results, nil
}

func scanLedgerEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var m LedgerEntryModel
	err := row.Scan(&m.ID, &m.RequestID, &m.ProviderID, &m.Category, &m.AmountCents, &m.Note, &m.RecordedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLedgerEntryNotFound
		}
		return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
	}
	return toLedgerDomainModel(m), nil
}
