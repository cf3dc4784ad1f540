package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	handlers "github.com/de-tools/ledger-atlas/pkg/handlers/ledger"
	ledgermiddleware "github.com/de-tools/ledger-atlas/pkg/server/middleware"
	"github.com/de-tools/ledger-atlas/pkg/services/ledger"
)

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Ledger ledger.Service
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

// ConfigureRouter wires the transport shell around the ledger service.
// Routes mirror the operator workflow: upload a batch, inspect the
// three reports, reset for the next batch.
func ConfigureRouter(logger *zerolog.Logger, deps Dependencies) *chi.Mux {
	handler := handlers.NewHandler(deps.Ledger)

	router := chi.NewRouter()

	router.Use(ledgermiddleware.RequestID)
	router.Use(ledgermiddleware.Logger(logger))
	router.Use(ledgermiddleware.CORS)
	router.Use(middleware.Recoverer)

	router.Post("/upload", handler.Upload)
	router.Get("/report/accounts", handler.AccountReport)
	router.Get("/report/bad-transactions", handler.BadTransactions)
	router.Get("/report/collections", handler.Collections)
	router.Post("/reset", handler.Reset)

	return router
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	router := ConfigureRouter(&logger, config.Dependencies)

	timeout := config.ShutdownTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
		shutdownTimeout: timeout,
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
