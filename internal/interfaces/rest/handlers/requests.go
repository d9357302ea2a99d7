package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/karasi-sonica/PawzIO/internal/application"
	"github.com/karasi-sonica/PawzIO/internal/application/services"
	"github.com/karasi-sonica/PawzIO/internal/domain"
	"github.com/karasi-sonica/PawzIO/internal/interfaces/rest"
)

type createRequestBody struct {
	RequestorID  string                    `json:"requestor_id"`
	Category     string                    `json:"category"`
	Walk         *rest.WalkDetails         `json:"walk,omitempty"`
	Consultation *rest.ConsultationDetails `json:"consultation,omitempty"`
}

type providerBody struct {
	ProviderID string `json:"provider_id"`
}

type completeBody struct {
	ProviderID string `json:"provider_id"`
	Note       string `json:"note,omitempty"`
}

type cancelBody struct {
	ActorID string `json:"actor_id"`
}

func (h *Handlers) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var body createRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	cmd := services.CreateRequestCommand{
		RequestorID: body.RequestorID,
		Category:    domain.Category(body.Category),
		Payload:     toDomainPayload(body),
	}

	req, err := h.dispatchService.CreateRequest(r.Context(), cmd)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.ToAPIRequest(req))
}

func (h *Handlers) GetRequest(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	req, err := h.queryService.GetRequest(r.Context(), id)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToAPIRequest(req))
}

func (h *Handlers) ClaimRequest(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var body providerBody
	if err := decodeActor(r, &body); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	req, err := h.dispatchService.Claim(r.Context(), id, body.ProviderID)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToAPIRequest(req))
}

func (h *Handlers) DeclineRequest(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var body providerBody
	if err := decodeActor(r, &body); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	req, err := h.dispatchService.Decline(r.Context(), id, body.ProviderID)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToAPIRequest(req))
}

func (h *Handlers) CompleteRequest(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var body completeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}
	if body.ProviderID == "" {
		rest.WriteError(w, application.NewInvalidInputError(errMissingActor), h.logger)
		return
	}

	req, err := h.dispatchService.Complete(r.Context(), services.CompleteCommand{
		RequestID:  id,
		ProviderID: body.ProviderID,
		Note:       body.Note,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToAPIRequest(req))
}

func (h *Handlers) CancelRequest(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var body cancelBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}
	if body.ActorID == "" {
		rest.WriteError(w, application.NewInvalidInputError(errMissingActor), h.logger)
		return
	}

	req, err := h.dispatchService.Cancel(r.Context(), id, body.ActorID)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToAPIRequest(req))
}

func (h *Handlers) OpenRequests(w http.ResponseWriter, r *http.Request) {
	providerID := mux.Vars(r)["id"]

	open, err := h.queryService.OpenRequestsFor(r.Context(), providerID)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToAPIRequests(open))
}

var errMissingActor = errors.New("provider_id is required")

func decodeActor(r *http.Request, body *providerBody) error {
	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		return application.NewInvalidInputError(err)
	}
	if body.ProviderID == "" {
		return application.NewInvalidInputError(errMissingActor)
	}
	return nil
}

func toDomainPayload(body createRequestBody) domain.Payload {
	p := domain.Payload{}
	if body.Walk != nil {
		p.Walk = &domain.WalkDetails{
			Location:        body.Walk.Location,
			StartTime:       body.Walk.StartTime,
			DurationMinutes: body.Walk.DurationMinutes,
			RateCents:       body.Walk.RateCents,
			PetName:         body.Walk.PetName,
			PetType:         body.Walk.PetType,
			OwnerName:       body.Walk.OwnerName,
		}
	}
	if body.Consultation != nil {
		p.Consultation = &domain.ConsultationDetails{
			PetName:        body.Consultation.PetName,
			PetType:        body.Consultation.PetType,
			ProblemSummary: body.Consultation.ProblemSummary,
			SlotTime:       body.Consultation.SlotTime,
		}
	}
	return p
}
