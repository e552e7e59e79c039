// Package app wires configuration into the query pipeline and HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"AgriQuery/internal/config"
	"AgriQuery/internal/datagov"
	"AgriQuery/internal/engine"
	"AgriQuery/internal/httpapi"
	"AgriQuery/internal/llm"
	"AgriQuery/internal/logging"
)

// Application owns the HTTP server and the wired pipeline behind it.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	server *http.Server
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	if cfg.DataGov.APIKey == "" {
		baseLogger.Warn("DATA_GOV_API_KEY is not set, data API calls will fail")
	}

	dataClient := datagov.NewClient(datagov.Config{
		APIKey:             cfg.DataGov.APIKey,
		BaseURL:            cfg.DataGov.BaseURL,
		CropResourceID:     cfg.DataGov.CropResourceID,
		RainfallResourceID: cfg.DataGov.RainfallResourceID,
		CacheTTL:           cfg.DataGov.CacheTTL(),
		Logger:             baseLogger.With("component", "datagov"),
		WireDebug:          cfg.DataGov.WireDebug,
	})

	llmClient, err := llm.NewClient(cfg.LLM, baseLogger.With("component", "llm"))
	if err != nil {
		return nil, fmt.Errorf("build llm client: %w", err)
	}

	eng := engine.New(dataClient, baseLogger.With("component", "engine"))
	processor := engine.NewProcessor(llmClient, llmClient, eng, baseLogger.With("component", "processor"))

	server := httpapi.NewServer(processor, dataClient, llmClient, baseLogger.With("component", "http"))
	return &Application{
		cfg:    cfg,
		logger: baseLogger,
		server: &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           server.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Run serves HTTP until the context is canceled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	a.logger.Info("http server stopped")
	return nil
}
