package main

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/povarna/generative-ai-agents/sql-agent/internal/agent"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var shellTable bool

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Ask questions interactively, one per line",
	Long: `shell keeps the database pool and model client open and answers one question per line.
Type "exit" or "quit", or send EOF, to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		deps, err := wire(ctx)
		if err != nil {
			return err
		}
		defer deps.Close()

		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("SQL Agent")).
			WithPadding(1).
			Println("Ask a question about the STUDENT table (ID, NAME, SUBJECT, SCORE).")

		return runShell(ctx, cmd.InOrStdin(), deps.Service, func(answer *agent.Answer) {
			printAnswer(answer, shellTable)
		})
	},
}

func init() {
	shellCmd.Flags().BoolVar(&shellTable, "table", false, "Render rows as a table instead of tuples")
}

type asker interface {
	Ask(ctx context.Context, req agent.AskRequest) (*agent.Answer, error)
}

// runShell answers each non-empty line until EOF, exit or quit. A failed model
// call is reported and the loop continues.
func runShell(ctx context.Context, in io.Reader, service asker, show func(*agent.Answer)) error {
	scanner := bufio.NewScanner(in)

	for {
		pterm.Print(pterm.NewStyle(pterm.FgLightCyan).Sprint("> "))
		if !scanner.Scan() {
			pterm.Println()
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(question) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		answer, err := service.Ask(ctx, agent.AskRequest{Question: question})
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		show(answer)

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
