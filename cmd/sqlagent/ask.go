package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/povarna/generative-ai-agents/sql-agent/internal/agent"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	askDryRun bool
	askStdin  bool
	askTable  bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Translate one question to SQL and run it",
	Example: `  sqlagent ask "How many entries of records are present?"
  echo "List all students in Physics" | sqlagent ask --stdin
  sqlagent ask --dry-run "Remove the student named ABCD"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		question, err := readQuestion(cmd.InOrStdin(), args, askStdin)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		deps, err := wire(ctx)
		if err != nil {
			return err
		}
		defer deps.Close()

		spinner, _ := pterm.DefaultSpinner.Start("Asking the model...")
		answer, err := deps.Service.Ask(ctx, agent.AskRequest{Question: question, DryRun: askDryRun})
		if spinner != nil {
			_ = spinner.Stop()
		}
		if err != nil {
			return err
		}

		printAnswer(answer, askTable)
		return nil
	},
}

func init() {
	askCmd.Flags().BoolVar(&askDryRun, "dry-run", false, "Extract and authorize the command without executing it")
	askCmd.Flags().BoolVar(&askStdin, "stdin", false, "Read the question from standard input")
	askCmd.Flags().BoolVar(&askTable, "table", false, "Render rows as a table instead of tuples")
}

func readQuestion(in io.Reader, args []string, fromStdin bool) (string, error) {
	if fromStdin {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("failed to read question: %w", err)
		}
		args = []string{string(data)}
	}

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return "", errors.New("a question is required")
	}
	return question, nil
}
