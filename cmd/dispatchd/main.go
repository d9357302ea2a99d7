package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/karasi-sonica/PawzIO/internal/application"
	"github.com/karasi-sonica/PawzIO/internal/application/services"
	"github.com/karasi-sonica/PawzIO/internal/config"
	"github.com/karasi-sonica/PawzIO/internal/events"
	"github.com/karasi-sonica/PawzIO/internal/infrastructure/directory"
	"github.com/karasi-sonica/PawzIO/internal/infrastructure/persistence/memory"
	"github.com/karasi-sonica/PawzIO/internal/infrastructure/persistence/postgres"
	"github.com/karasi-sonica/PawzIO/internal/interfaces/rest/handlers"
	"github.com/karasi-sonica/PawzIO/internal/interfaces/rest/middleware"
	"github.com/karasi-sonica/PawzIO/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting dispatch service",
		"port", cfg.Server.Port,
		"store", cfg.Database.Driver,
		"directory", cfg.Directory.Backend,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()

	var requests application.RequestStore
	var ledgerStore application.LedgerStore

	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.Connect(ctx, &cfg.Database, logger)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		requests = postgres.NewRequestRepository(db)
		ledgerStore = postgres.NewLedgerRepository(db)
	default:
		requests = memory.NewRequestStore()
		ledgerStore = memory.NewLedgerStore()
	}

	var providerDir application.ProviderDirectory
	var loadRecorder directory.LoadRecorder

	switch cfg.Directory.Backend {
	case "redis":
		redisDir := directory.NewRedisDirectory(cfg.Redis)
		defer redisDir.Close()
		providerDir = redisDir
		loadRecorder = redisDir
	case "http":
		providerDir = directory.NewRetryDirectory(directory.NewHTTPDirectory(cfg.Directory), cfg.Directory)
	default:
		memDir := directory.NewMemoryDirectory()
		providerDir = memDir
		loadRecorder = memDir
	}

	broker := events.NewBroker()
	defer broker.Close()

	eligibility := services.NewEligibilityService(providerDir, cfg.Dispatch.MaxConcurrentWalks)
	ledgerService := services.NewLedgerService(ledgerStore, logger)
	dispatchService := services.NewDispatchService(requests, ledgerService, eligibility, broker, logger)
	queryService := services.NewQueryService(requests, providerDir, eligibility)

	h := handlers.NewHandlers(
		dispatchService,
		queryService,
		ledgerService,
		broker,
		logger,
	)

	router := mux.NewRouter()
	h.Routes(router)

	handler := middleware.Recovery(logger)(router)
	handler = middleware.Observability(logger)(handler)
	handler = middleware.Timeout(cfg.Server.ReadTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	reconciler := worker.NewReconciler(
		requests,
		ledgerStore,
		ledgerService,
		cfg.Worker.Interval,
		cfg.Worker.BatchSize,
		cfg.Worker.MinAge,
		logger,
	)
	go reconciler.Start(workerCtx)

	// The directory load counters follow the event stream rather than the
	// write path, so a counter failure can never fail a claim.
	if loadRecorder != nil {
		loadSync := directory.NewLoadSync(loadRecorder, logger)
		transitions, unsubscribe := broker.Subscribe(256)
		defer unsubscribe()
		go loadSync.Run(workerCtx, transitions)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		defer publisher.Close()
		transitions, unsubscribe := broker.Subscribe(256)
		defer unsubscribe()
		go publisher.Run(workerCtx, transitions)
		logger.Info("kafka event bridge enabled", "topic", cfg.Kafka.Topic)
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
