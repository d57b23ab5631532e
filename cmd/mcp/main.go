package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	mcpadapter "github.com/kirillkom/legal-doc-assistant/internal/adapters/mcp"
	"github.com/kirillkom/legal-doc-assistant/internal/bootstrap"
	"github.com/kirillkom/legal-doc-assistant/internal/config"
)

func main() {
	cfg := config.Load()

	// stdout carries the MCP protocol, so logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil)).With("service", "mcp")
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	server := mcpadapter.NewServer(app.Index, app.AnswerUC, app.Index)

	logger.Info("mcp server starting on stdio")
	if err := server.Serve(ctx); err != nil {
		logger.Error("mcp server failed", "error", err)
		os.Exit(1)
	}
}
