package testhelpers

import (
	"time"

	"github.com/google/uuid"

	"github.com/karasi-sonica/PawzIO/internal/application/services"
	"github.com/karasi-sonica/PawzIO/internal/domain"
)

// DefaultWalkCommand returns a valid walk request command for testing.
// The $20 rate keeps earnings assertions easy to read.
func DefaultWalkCommand() services.CreateRequestCommand {
	return services.CreateRequestCommand{
		RequestorID: "owner-" + uuid.New().String(),
		Category:    domain.CategoryWalk,
		Payload: domain.Payload{
			Walk: &domain.WalkDetails{
				Location:        "Riverside Park, gate 3",
				StartTime:       time.Now().Add(2 * time.Hour),
				DurationMinutes: 30,
				RateCents:       2000,
				PetName:         "Biscuit",
				PetType:         "dog",
				OwnerName:       "Sam",
			},
		},
	}
}

// DefaultConsultationCommand returns a valid consultation request command.
func DefaultConsultationCommand() services.CreateRequestCommand {
	return services.CreateRequestCommand{
		RequestorID: "owner-" + uuid.New().String(),
		Category:    domain.CategoryConsultation,
		Payload: domain.Payload{
			Consultation: &domain.ConsultationDetails{
				PetName:        "Mochi",
				PetType:        "cat",
				ProblemSummary: "not eating since yesterday",
				SlotTime:       time.Now().Add(24 * time.Hour),
			},
		},
	}
}
