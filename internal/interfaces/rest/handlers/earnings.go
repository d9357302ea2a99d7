package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/karasi-sonica/PawzIO/internal/interfaces/rest"
)

func (h *Handlers) Earnings(w http.ResponseWriter, r *http.Request) {
	providerID := mux.Vars(r)["id"]

	report, err := h.ledgerService.EarningsFor(r.Context(), providerID)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToAPIEarnings(report))
}
