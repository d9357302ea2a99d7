package services

import "github.com/karasi-sonica/PawzIO/internal/domain"

type CreateRequestCommand struct {
	RequestorID string
	Category    domain.Category
	Payload     domain.Payload
}

type CompleteCommand struct {
	RequestID  string
	ProviderID string

	// Note is recorded on the ledger entry, e.g. the prescription text a
	// veterinarian submits when closing a consultation.
	Note string
}
