package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/karasi-sonica/PawzIO/internal/application/services"
	"github.com/karasi-sonica/PawzIO/internal/events"
)

type Handlers struct {
	dispatchService *services.DispatchService
	queryService    *services.QueryService
	ledgerService   *services.LedgerService
	broker          *events.Broker
	logger          *slog.Logger
}

func NewHandlers(
	dispatchService *services.DispatchService,
	queryService *services.QueryService,
	ledgerService *services.LedgerService,
	broker *events.Broker,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		dispatchService: dispatchService,
		queryService:    queryService,
		ledgerService:   ledgerService,
		broker:          broker,
		logger:          logger,
	}
}

func (h *Handlers) Routes(r *mux.Router) {
	r.HandleFunc("/api/v1/requests", h.CreateRequest).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/requests/{id}", h.GetRequest).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/requests/{id}/claim", h.ClaimRequest).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/requests/{id}/decline", h.DeclineRequest).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/requests/{id}/complete", h.CompleteRequest).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/requests/{id}/cancel", h.CancelRequest).Methods(http.MethodPost)

	r.HandleFunc("/api/v1/providers/{id}/requests", h.OpenRequests).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/providers/{id}/earnings", h.Earnings).Methods(http.MethodGet)

	r.HandleFunc("/ws/transitions", h.StreamTransitions)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
}
