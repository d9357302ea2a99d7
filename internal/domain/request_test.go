package domain_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/karasi-sonica/PawzIO/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func walkPayload() domain.Payload {
	return domain.Payload{
		Walk: &domain.WalkDetails{
			Location:        "123 Park Ave, Downtown",
			StartTime:       time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC),
			DurationMinutes: 30,
			RateCents:       2000,
			PetName:         "Max",
			PetType:         "Golden Retriever",
			OwnerName:       "John Doe",
		},
	}
}

func consultationPayload() domain.Payload {
	return domain.Payload{
		Consultation: &domain.ConsultationDetails{
			PetName:        "Luna",
			PetType:        "Cat - Indoor",
			ProblemSummary: "Loss of appetite, lethargic for 2 days",
			SlotTime:       time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
		},
	}
}

func TestNewServiceRequest(t *testing.T) {
	t.Run("creates walk request successfully", func(t *testing.T) {
		req, err := domain.NewServiceRequest("req-123", "owner-456", domain.CategoryWalk, walkPayload())

		require.NoError(t, err)
		assert.Equal(t, "req-123", req.ID)
		assert.Equal(t, "owner-456", req.RequestorID)
		assert.Equal(t, domain.StatePending, req.State)
		assert.Equal(t, int64(1), req.Version)
		assert.Nil(t, req.ClaimedBy)
		assert.NotZero(t, req.CreatedAt)
	})

	t.Run("rejects empty request ID", func(t *testing.T) {
		_, err := domain.NewServiceRequest("", "owner-456", domain.CategoryWalk, walkPayload())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "request ID is required")
	})

	t.Run("rejects empty requestor ID", func(t *testing.T) {
		_, err := domain.NewServiceRequest("req-123", "", domain.CategoryWalk, walkPayload())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "requestor ID is required")
	})

	t.Run("rejects mismatched payload", func(t *testing.T) {
		_, err := domain.NewServiceRequest("req-123", "owner-456", domain.CategoryWalk, consultationPayload())

		assert.Error(t, err)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		_, err := domain.NewServiceRequest("req-123", "owner-456", domain.Category("GROOMING"), walkPayload())

		assert.Error(t, err)
	})
}

func TestServiceRequest_Claim(t *testing.T) {
	t.Run("claims pending request", func(t *testing.T) {
		req, _ := domain.NewServiceRequest("req-1", "owner-1", domain.CategoryWalk, walkPayload())
		at := time.Now()

		err := req.Claim("walker-1", at)

		require.NoError(t, err)
		assert.Equal(t, domain.StateClaimed, req.State)
		require.NotNil(t, req.ClaimedBy)
		assert.Equal(t, "walker-1", *req.ClaimedBy)
		require.NotNil(t, req.ClaimedAt)
		assert.Equal(t, at, *req.ClaimedAt)
	})

	t.Run("rejects second claim", func(t *testing.T) {
		req, _ := domain.NewServiceRequest("req-1", "owner-1", domain.CategoryWalk, walkPayload())
		require.NoError(t, req.Claim("walker-1", time.Now()))

		err := req.Claim("walker-2", time.Now())

		assert.ErrorIs(t, err, domain.ErrAlreadyClaimed)
		assert.Equal(t, "walker-1", *req.ClaimedBy)
	})

	t.Run("rejects claim on cancelled request", func(t *testing.T) {
		req, _ := domain.NewServiceRequest("req-1", "owner-1", domain.CategoryWalk, walkPayload())
		require.NoError(t, req.Cancel("owner-1", time.Now()))

		err := req.Claim("walker-1", time.Now())

		assert.ErrorIs(t, err, domain.ErrAlreadyClaimed)
	})
}

func TestServiceRequest_Complete(t *testing.T) {
	t.Run("completes claimed request", func(t *testing.T) {
		req, _ := domain.NewServiceRequest("req-1", "owner-1", domain.CategoryWalk, walkPayload())
		require.NoError(t, req.Claim("walker-1", time.Now()))
		at := time.Now()

		err := req.Complete("walker-1", at)

		require.NoError(t, err)
		assert.Equal(t, domain.StateCompleted, req.State)
		require.NotNil(t, req.TerminalAt)
		assert.Equal(t, at, *req.TerminalAt)
	})

	t.Run("rejects completion by another provider", func(t *testing.T) {
		req, _ := domain.NewServiceRequest("req-1", "owner-1", domain.CategoryWalk, walkPayload())
		require.NoError(t, req.Claim("walker-1", time.Now()))

		err := req.Complete("walker-2", time.Now())

		assert.ErrorIs(t, err, domain.ErrNotClaimedByYou)
		assert.Equal(t, domain.StateClaimed, req.State)
	})

	t.Run("rejects completion of pending request", func(t *testing.T) {
		req, _ := domain.NewServiceRequest("req-1", "owner-1", domain.CategoryWalk, walkPayload())

		err := req.Complete("walker-1", time.Now())

		assert.ErrorIs(t, err, domain.ErrNotClaimedByYou)
	})
}

func TestServiceRequest_Cancel(t *testing.T) {
	t.Run("requestor cancels pending request", func(t *testing.T) {
		req, _ := domain.NewServiceRequest("req-1", "owner-1", domain.CategoryWalk, walkPayload())

		err := req.Cancel("owner-1", time.Now())

		require.NoError(t, err)
		assert.Equal(t, domain.StateCancelled, req.State)
		assert.NotNil(t, req.TerminalAt)
	})

	t.Run("provider cannot cancel pending request", func(t *testing.T) {
		req, _ := domain.NewServiceRequest("req-1", "owner-1", domain.CategoryWalk, walkPayload())

		err := req.Cancel("walker-1", time.Now())

		assert.ErrorIs(t, err, domain.ErrCancelNotAllowed)
		assert.Equal(t, domain.StatePending, req.State)
	})

	t.Run("claiming provider cancels claimed request", func(t *testing.T) {
		req, _ := domain.NewServiceRequest("req-1", "owner-1", domain.CategoryWalk, walkPayload())
		require.NoError(t, req.Claim("walker-1", time.Now()))

		err := req.Cancel("walker-1", time.Now())

		require.NoError(t, err)
		assert.Equal(t, domain.StateCancelled, req.State)
	})

	t.Run("stranger cannot cancel claimed request", func(t *testing.T) {
		req, _ := domain.NewServiceRequest("req-1", "owner-1", domain.CategoryWalk, walkPayload())
		require.NoError(t, req.Claim("walker-1", time.Now()))

		err := req.Cancel("walker-2", time.Now())

		assert.ErrorIs(t, err, domain.ErrCancelNotAllowed)
	})
}

func TestServiceRequest_TerminalStatesRejectTransitions(t *testing.T) {
	completed, _ := domain.NewServiceRequest("req-1", "owner-1", domain.CategoryWalk, walkPayload())
	require.NoError(t, completed.Claim("walker-1", time.Now()))
	require.NoError(t, completed.Complete("walker-1", time.Now()))

	cancelled, _ := domain.NewServiceRequest("req-2", "owner-1", domain.CategoryWalk, walkPayload())
	require.NoError(t, cancelled.Cancel("owner-1", time.Now()))

	for _, req := range []*domain.ServiceRequest{completed, cancelled} {
		assert.True(t, req.IsTerminal())
		assert.ErrorIs(t, req.Claim("walker-9", time.Now()), domain.ErrAlreadyClaimed)
		assert.ErrorIs(t, req.Cancel("owner-1", time.Now()), domain.ErrInvalidTransition)
		assert.ErrorIs(t, req.Decline("walker-9"), domain.ErrInvalidTransition)
	}

	assert.ErrorIs(t, completed.Complete("walker-1", time.Now()), domain.ErrInvalidTransition)
	assert.ErrorIs(t, cancelled.Complete("walker-1", time.Now()), domain.ErrNotClaimedByYou)
}

func TestServiceRequest_Decline(t *testing.T) {
	t.Run("decline keeps request pending", func(t *testing.T) {
		req, _ := domain.NewServiceRequest("req-1", "owner-1", domain.CategoryWalk, walkPayload())

		require.NoError(t, req.Decline("walker-1"))

		assert.Equal(t, domain.StatePending, req.State)
		assert.True(t, req.HasDeclined("walker-1"))
		assert.False(t, req.HasDeclined("walker-2"))
	})

	t.Run("double decline is a no-op", func(t *testing.T) {
		req, _ := domain.NewServiceRequest("req-1", "owner-1", domain.CategoryWalk, walkPayload())

		require.NoError(t, req.Decline("walker-1"))
		require.NoError(t, req.Decline("walker-1"))

		assert.Len(t, req.DeclinedBy, 1)
	})

	t.Run("cannot decline claimed request", func(t *testing.T) {
		req, _ := domain.NewServiceRequest("req-1", "owner-1", domain.CategoryWalk, walkPayload())
		require.NoError(t, req.Claim("walker-1", time.Now()))

		assert.ErrorIs(t, req.Decline("walker-2"), domain.ErrInvalidTransition)
	})
}

// Random transition sequences must preserve the claim invariant:
// ClaimedBy is non-nil exactly when the request is CLAIMED or COMPLETED.
func TestServiceRequest_ClaimInvariantHolds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	actors := []string{"owner-1", "walker-1", "walker-2", "vet-1"}

	for seq := 0; seq < 200; seq++ {
		req, err := domain.NewServiceRequest("req-inv", "owner-1", domain.CategoryWalk, walkPayload())
		require.NoError(t, err)

		for step := 0; step < 20; step++ {
			actor := actors[rng.Intn(len(actors))]
			switch rng.Intn(4) {
			case 0:
				_ = req.Claim(actor, time.Now())
			case 1:
				_ = req.Complete(actor, time.Now())
			case 2:
				_ = req.Cancel(actor, time.Now())
			case 3:
				_ = req.Decline(actor)
			}

			claimed := req.State == domain.StateClaimed || req.State == domain.StateCompleted
			if claimed {
				require.NotNil(t, req.ClaimedBy, "seq %d step %d: claimed state without claimant", seq, step)
			} else {
				require.Nil(t, req.ClaimedBy, "seq %d step %d: claimant in state %s", seq, step, req.State)
			}
		}
	}
}

func TestLedgerEntry(t *testing.T) {
	t.Run("derives walk amount from rate", func(t *testing.T) {
		req, _ := domain.NewServiceRequest("req-1", "owner-1", domain.CategoryWalk, walkPayload())
		require.NoError(t, req.Claim("walker-1", time.Now()))
		require.NoError(t, req.Complete("walker-1", time.Now()))

		entry, err := domain.NewLedgerEntry("led-1", req, "", time.Now())

		require.NoError(t, err)
		assert.Equal(t, "req-1", entry.RequestID)
		assert.Equal(t, "walker-1", entry.ProviderID)
		require.NotNil(t, entry.AmountCents)
		assert.Equal(t, int64(2000), *entry.AmountCents)
	})

	t.Run("consultation carries no amount", func(t *testing.T) {
		req, _ := domain.NewServiceRequest("req-2", "owner-1", domain.CategoryConsultation, consultationPayload())
		require.NoError(t, req.Claim("vet-1", time.Now()))
		require.NoError(t, req.Complete("vet-1", time.Now()))

		entry, err := domain.NewLedgerEntry("led-2", req, "Amoxicillin 50mg twice daily for 7 days", time.Now())

		require.NoError(t, err)
		assert.Nil(t, entry.AmountCents)
		assert.Equal(t, "Amoxicillin 50mg twice daily for 7 days", entry.Note)
	})

	t.Run("rejects unclaimed request", func(t *testing.T) {
		req, _ := domain.NewServiceRequest("req-3", "owner-1", domain.CategoryWalk, walkPayload())

		_, err := domain.NewLedgerEntry("led-3", req, "", time.Now())

		assert.Error(t, err)
	})
}
