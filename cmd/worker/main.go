package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirillkom/legal-doc-assistant/internal/bootstrap"
	"github.com/kirillkom/legal-doc-assistant/internal/config"
	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
	"github.com/kirillkom/legal-doc-assistant/internal/observability/logging"
	"github.com/kirillkom/legal-doc-assistant/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("worker", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	indexMetrics := metrics.NewIndexMetrics("worker")
	app.Index.SetObserver(indexMetrics)

	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: indexMetrics.Handler(),
	}
	go func() {
		logger.Info("worker metrics listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logger.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeDocumentsChanged(ctx, func(handlerCtx context.Context, documentID string) error {
		rebuildCtx, cancel := context.WithTimeout(handlerCtx, 10*time.Minute)
		defer cancel()

		if err := app.Index.Rebuild(rebuildCtx); err != nil {
			logger.Error("index rebuild failed", "document_id", documentID, "error", err)
			if documentID != "" {
				_ = app.Repo.UpdateStatus(rebuildCtx, documentID, domain.StatusFailed, err.Error())
			}
			return err
		}

		// Status updates are best effort: delete events reference ids
		// that no longer exist.
		if documentID != "" {
			if err := app.Repo.UpdateStatus(rebuildCtx, documentID, domain.StatusIndexed, ""); err != nil {
				logger.Warn("status update failed", "document_id", documentID, "error", err)
			}
		}
		logger.Info("index rebuilt", "document_id", documentID)
		return nil
	})
	if err != nil {
		logger.Error("worker subscribe failed", "error", err)
		os.Exit(1)
	}
}
