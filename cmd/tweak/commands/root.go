// ABOUTME: Root command, global flags, and shared application setup
// ABOUTME: Every subcommand builds its dependencies through openApp
package commands

import (
	"fmt"

	"github.com/harper/tweak-my-meal/internal/app"
	"github.com/harper/tweak-my-meal/internal/config"
	"github.com/harper/tweak-my-meal/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
	userID       string
	dbPath       string
)

const banner = `
████████ ██     ██ ███████  █████  ██   ██
   ██    ██     ██ ██      ██   ██ ██  ██
   ██    ██  █  ██ █████   ███████ █████
   ██    ██ ███ ██ ██      ██   ██ ██  ██
   ██     ███ ███  ███████ ██   ██ ██   ██
`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tweak",
		Short: "Personal meal assistant that learns what you like",
		Long: banner + `
Tweak My Meal turns a photo or description of a dish, or of the
ingredients you have on hand, into a few tailored ideas and then a
full recipe. Allergies and dislikes from your profile are enforced on
every suggestion, and feedback on cooked meals shapes the next ones.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch outputFormat {
			case "auto", "table", "json":
			default:
				return fmt.Errorf("--format must be auto, table, or json, got %q", outputFormat)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging to stderr")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print results and errors")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, or json")
	cmd.PersistentFlags().StringVar(&userID, "user", "", "User id (default from TWEAK_DEFAULT_USER)")
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (default from TWEAK_DB_PATH)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewChatCmd(),
		NewModifyCmd(),
		NewSelectCmd(),
		NewFeedbackCmd(),
		NewProfileCmd(),
		NewHistoryCmd(),
		NewMCPCmd(),
		NewServeCmd(),
		NewVersionCmd(),
	)
	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// openApp loads .env and the environment, applies flag overrides, and wires the
// app. One-shot commands log errors only unless --verbose is set.
func openApp(serving bool) (*app.App, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if userID != "" {
		cfg.DefaultUser = userID
	}

	debug := verbose || cfg.Debug
	logger, err := logging.New(logging.Options{Debug: debug, Quiet: quiet || (!serving && !debug)})
	if err != nil {
		return nil, err
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("initializing: %w", err)
	}
	return a, nil
}

// closeApp releases the database and flushes the logger
func closeApp(a *app.App) {
	_ = a.Close()
	_ = a.Logger.Sync()
}
