// ABOUTME: Standalone MCP server binary with stdio transport
// ABOUTME: Equivalent to `tweak mcp`, for clients that launch a dedicated executable
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/tweak-my-meal/internal/app"
	"github.com/harper/tweak-my-meal/internal/config"
	"github.com/harper/tweak-my-meal/internal/logging"
	"github.com/harper/tweak-my-meal/internal/mcp"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if it exists (for API keys)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{Debug: cfg.Debug})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go a.Sweeper.Run(ctx)

	server := mcpserver.NewMCPServer(
		"Tweak My Meal",
		version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)
	mcp.RegisterTools(server, mcp.NewHandlers(a.Orchestrator, cfg.DefaultUser, logger))

	logger.Info("MCP server starting on stdio", zap.String("db", cfg.DBPath))
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		return nil
	case err := <-serverErr:
		return err
	}
}
