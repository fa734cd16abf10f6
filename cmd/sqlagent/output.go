package main

import (
	"github.com/povarna/generative-ai-agents/sql-agent/internal/agent"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/render"
	"github.com/pterm/pterm"
)

func printAnswer(answer *agent.Answer, asTable bool) {
	if answer.Command != "" {
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold).Sprint("Command: ") + answer.Command)
	}

	switch answer.Outcome {
	case agent.OutcomeExecuted:
		printResult(answer, asTable)
	case agent.OutcomeAuthorized:
		pterm.Info.Println("Command is allowed. Dry run, nothing was executed.")
	default:
		pterm.Error.Println(answer.Message)
	}
}

func printResult(answer *agent.Answer, asTable bool) {
	result := answer.Result
	if result == nil {
		return
	}

	if len(result.Columns) == 0 {
		pterm.Success.Printf("%s (%d row(s) affected)\n", result.CommandTag, result.RowsAffected)
		return
	}

	pterm.Println(pterm.NewStyle(pterm.Bold).Sprint("The Response is"))
	if asTable {
		_ = pterm.DefaultTable.WithHasHeader().WithData(render.Table(result)).Render()
		return
	}

	for _, line := range render.Lines(result) {
		pterm.Println(line)
	}
}
