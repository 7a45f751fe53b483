// ABOUTME: Serve command runs the JSON HTTP API
// ABOUTME: The API and the session sweeper share one errgroup and stop together
package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/harper/tweak-my-meal/internal/httpapi"
)

var serveAddr string

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the JSON HTTP API.

Routes:
  POST /api/chat/turn      start or continue a conversation
  POST /api/chat/select    choose a suggestion and get the recipe
  POST /api/chat/modify    regenerate suggestions
  POST /api/feedback       record feedback for a meal
  POST /api/user/profile   save the dietary profile
  GET  /api/user/summary   profile summary and top preferences
  GET  /api/history        meal history
  GET  /healthz            liveness

Every response is an envelope {"ok": bool, "data": ..., "error": ...}.`,
		Example: `  tweak serve
  tweak serve --addr :9000`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from TWEAK_HTTP_ADDR)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer closeApp(a)

	addr := a.Config.HTTPAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Sweeper.Run(ctx)
		return nil
	})
	g.Go(func() error {
		return httpapi.NewServer(a.Orchestrator, a.Config.DefaultUser, a.Logger).ListenAndServe(ctx, addr)
	})
	return g.Wait()
}
