// ABOUTME: MCP command starts the Model Context Protocol server on stdio
// ABOUTME: The session sweeper runs alongside until shutdown
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harper/tweak-my-meal/internal/app"
	"github.com/harper/tweak-my-meal/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the meal assistant as an MCP (Model Context Protocol) server, so
LLM agents like Claude can suggest meals, fetch recipes, and record
feedback over stdio.

Logs go to stderr; stdout carries only protocol messages.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  tweak mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "tweak": {
  #       "command": "tweak",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}
}

// NewMCPServer builds an MCP server exposing every tool of a
func NewMCPServer(a *app.App) *mcpserver.MCPServer {
	server := mcpserver.NewMCPServer(
		"Tweak My Meal",
		versionInfo.Version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)
	mcp.RegisterTools(server, mcp.NewHandlers(a.Orchestrator, a.Config.DefaultUser, a.Logger))
	return server
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer closeApp(a)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go a.Sweeper.Run(sweepCtx)

	server := NewMCPServer(a)
	a.Logger.Info("MCP server starting on stdio", zap.String("user", a.Config.DefaultUser))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		a.Logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}
	return nil
}
