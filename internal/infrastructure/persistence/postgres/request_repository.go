package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/karasi-sonica/PawzIO/internal/application"
	"github.com/karasi-sonica/PawzIO/internal/domain"
)

var _ application.RequestStore = (*RequestRepository)(nil)

const requestColumns = `
	id, requestor_id, category, payload, state,
	claimed_by, declined_by, version,
	created_at, claimed_at, terminal_at
`

type RequestRepository struct {
	db *DB
}

func NewRequestRepository(db *DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Put(ctx context.Context, req *domain.ServiceRequest) error {
	query := `
		INSERT INTO service_requests (
			id, requestor_id, category, payload, state,
			claimed_by, declined_by, version,
			created_at, claimed_at, terminal_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	m, err := toDBModel(req)
	if err != nil {
		return err
	}

	_, err = r.db.Pool.Exec(ctx, query,
		m.ID,
		m.RequestorID,
		m.Category,
		m.Payload,
		m.State,
		m.ClaimedBy,
		m.DeclinedBy,
		m.Version,
		m.CreatedAt,
		m.ClaimedAt,
		m.TerminalAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return domain.ErrRequestExists
		}
		return fmt.Errorf("failed to create request: %w", err)
	}

	return nil
}

func (r *RequestRepository) Get(ctx context.Context, id string) (*domain.ServiceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM service_requests WHERE id = $1`

	row := r.db.Pool.QueryRow(ctx, query, id)
	return scanRequest(row)
}

// CompareAndSwap loads the record, applies mutate and writes back with a
// conditional UPDATE on the version column. The UPDATE is the serialization
// point: out of any number of racing writers only one matches the expected
// version, everyone else gets domain.ErrVersionConflict.
func (r *RequestRepository) CompareAndSwap(
	ctx context.Context,
	id string,
	expectedVersion int64,
	mutate func(*domain.ServiceRequest) error,
) (*domain.ServiceRequest, error) {
	req, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Version != expectedVersion {
		return nil, domain.ErrVersionConflict
	}

	if err := mutate(req); err != nil {
		return nil, err
	}
	req.Version = expectedVersion + 1

	m, err := toDBModel(req)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE service_requests
		SET state = $1, claimed_by = $2, declined_by = $3, version = $4,
			claimed_at = $5, terminal_at = $6
		WHERE id = $7 AND version = $8
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		m.State,
		m.ClaimedBy,
		m.DeclinedBy,
		m.Version,
		m.ClaimedAt,
		m.TerminalAt,
		m.ID,
		expectedVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrVersionConflict
	}

	return req, nil
}

// FindPending lists PENDING requests of one category, oldest first.
func (r *RequestRepository) FindPending(ctx context.Context, category domain.Category, limit int) ([]*domain.ServiceRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM service_requests
		WHERE state = 'PENDING' AND category = $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	rows, err := r.db.Pool.Query(ctx, query, string(category), limit)
	if err != nil {
		return nil, fmt.Errorf("query pending requests: %w", err)
	}

	return collectRequests(rows)
}

// FindCompleted lists COMPLETED requests terminal before the cutoff, oldest
// first. The ledger reconciler uses this to find unrecorded outcomes.
func (r *RequestRepository) FindCompleted(ctx context.Context, olderThan time.Duration, limit int) ([]*domain.ServiceRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM service_requests
		WHERE state = 'COMPLETED' AND terminal_at < $1
		ORDER BY terminal_at ASC
		LIMIT $2
	`

	rows, err := r.db.Pool.Query(ctx, query, time.Now().Add(-olderThan), limit)
	if err != nil {
		return nil, fmt.Errorf("query completed requests: %w", err)
	}

	return collectRequests(rows)
}

func collectRequests(rows pgx.Rows) ([]*domain.ServiceRequest, error) {
	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.ServiceRequest, error) {
		var m RequestModel
		err := row.Scan(
			&m.ID, &m.RequestorID, &m.Category, &m.Payload, &m.State,
			&m.ClaimedBy, &m.DeclinedBy, &m.Version,
			&m.CreatedAt, &m.ClaimedAt, &m.TerminalAt,
		)
		if err != nil {
			return nil, err
		}
		return toDomainModel(m)
	})
	if err != nil {
		return nil, fmt.Errorf("scan requests: %w", err)
	}
	return results, nil
}

// scanRequest converts a database row into a domain ServiceRequest.
// Returns domain.ErrRequestNotFound if the row doesn't exist.
func scanRequest(row pgx.Row) (*domain.ServiceRequest, error) {
	var m RequestModel
	err := row.Scan(
		&m.ID, &m.RequestorID, &m.Category, &m.Payload, &m.State,
		&m.ClaimedBy, &m.DeclinedBy, &m.Version,
		&m.CreatedAt, &m.ClaimedAt, &m.TerminalAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to scan request: %w", err)
	}
	return toDomainModel(m)
}
