package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/setup"
	applog "github.com/povarna/generative-ai-agents/sql-agent/internal/setup/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sqlagent",
	Short: "Ask questions about the STUDENT table in plain English",
	Long: `sqlagent sends your question to a language model, extracts the SQL command from its
answer, checks it against the allow-list and runs it on PostgreSQL.

Connection settings are read from the environment or a .env file:
DB_NAME, DB_USER, DB_PASSWORD, DB_HOST, DB_PORT and the key of the selected LLM_PROVIDER.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()

		level := os.Getenv("LOG_LEVEL")
		if verbose {
			level = "debug"
		} else if level == "" {
			level = "warn"
		}
		logger = applog.New(level, os.Stderr)
	},
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline details to stderr")

	rootCmd.AddCommand(askCmd, shellCmd, provisionCmd, commandsCmd, historyCmd)
}

func wire(ctx context.Context) (*setup.Dependencies, error) {
	deps, err := setup.Wire(ctx, setup.LoadConfig(), &logger)
	if err != nil {
		return nil, fmt.Errorf("failed to start agent: %w", err)
	}
	return deps, nil
}
