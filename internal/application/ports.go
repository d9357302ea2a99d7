package application

import (
	"context"
	"errors"
	"time"

	"github.com/karasi-sonica/PawzIO/internal/domain"
)

// ErrProviderNotFound is returned by directory implementations for unknown
// provider ids. The eligibility filter treats it as "not eligible".
var ErrProviderNotFound = errors.New("provider not found in directory")

// RequestStore is the port for request persistence. CompareAndSwap is the
// only mutation path after Put: it loads the record, verifies the stored
// version against expectedVersion, applies mutate to a copy, bumps the
// version and stores the result, all atomically per request id. It returns
// domain.ErrVersionConflict when the versions do not match, forcing the
// caller to re-read and retry.
type RequestStore interface {
	Put(ctx context.Context, req *domain.ServiceRequest) error
	Get(ctx context.Context, id string) (*domain.ServiceRequest, error)
	CompareAndSwap(ctx context.Context, id string, expectedVersion int64, mutate func(*domain.ServiceRequest) error) (*domain.ServiceRequest, error)

	// FindPending lists PENDING requests of one category, oldest first.
	FindPending(ctx context.Context, category domain.Category, limit int) ([]*domain.ServiceRequest, error)

	// FindCompleted lists COMPLETED requests whose terminal transition is
	// older than the cutoff, oldest first. Used by the ledger reconciler.
	FindCompleted(ctx context.Context, olderThan time.Duration, limit int) ([]*domain.ServiceRequest, error)
}

// LedgerStore is the port for the append-only outcome ledger. Record reports
// whether the entry was inserted; an entry already present for the same
// request id is left untouched and Record returns false with no error.
type LedgerStore interface {
	Record(ctx context.Context, entry *domain.LedgerEntry) (bool, error)
	FindByRequestID(ctx context.Context, requestID string) (*domain.LedgerEntry, error)

	// EntriesFor returns a read-only snapshot of the provider's entries
	// ordered by RecordedAt.
	EntriesFor(ctx context.Context, providerID string) ([]*domain.LedgerEntry, error)
}

// ProviderRole mirrors the roles of the provider directory.
type ProviderRole string

const (
	RoleWalker       ProviderRole = "walker"
	RoleVeterinarian ProviderRole = "veterinarian"
)

// ProviderDirectory is the port for the external directory that knows every
// provider's role and current workload.
type ProviderDirectory interface {
	RoleOf(ctx context.Context, providerID string) (ProviderRole, error)
	CurrentLoad(ctx context.Context, providerID string) (int, error)
	ProvidersWithRole(ctx context.Context, role ProviderRole) ([]string, error)
}
