package domain

import "errors"

// Lifecycle errors. All of these are recoverable by the caller; the adapter
// layer translates them into user-facing messages.
var (
	// ErrInvalidTransition is returned when a request cannot move from its
	// current state to the requested one, including any transition attempted
	// from a terminal state.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrAlreadyClaimed is returned when a provider tries to claim a request
	// that is no longer PENDING.
	ErrAlreadyClaimed = errors.New("request already claimed")

	// ErrNotEligible is returned when a provider outside the eligible set
	// tries to claim a request.
	ErrNotEligible = errors.New("provider not eligible for request")

	// ErrNotClaimedByYou is returned when a provider tries to complete a
	// request claimed by someone else.
	ErrNotClaimedByYou = errors.New("request not claimed by this provider")

	// ErrCancelNotAllowed is returned when the cancelling actor is neither
	// the requestor nor the claiming provider.
	ErrCancelNotAllowed = errors.New("actor may not cancel this request")

	// ErrVersionConflict is returned by a store compare-and-swap when the
	// stored version does not match the caller's expected version.
	ErrVersionConflict = errors.New("request version conflict")

	// ErrRequestNotFound is returned by stores for unknown request ids.
	ErrRequestNotFound = errors.New("request not found")

	// ErrRequestExists is returned when putting a request whose id is taken.
	ErrRequestExists = errors.New("request already exists")

	// ErrLedgerEntryNotFound is returned by ledger stores for requests that
	// have no recorded outcome.
	ErrLedgerEntryNotFound = errors.New("ledger entry not found")
)
