package mcpadapter

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/agent"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/render"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/sqlcmd"
)

type Asker interface {
	Ask(ctx context.Context, req agent.AskRequest) (*agent.Answer, error)
}

// AskInput is the MCP tool input schema (matches HTTP API field names).
type AskInput struct {
	Question string `json:"question" jsonschema:"natural-language question about the STUDENT table"`
	DryRun   bool   `json:"dry_run,omitempty" jsonschema:"extract and authorize the command without executing it"`
}

// AskOutput carries rows in tuple form so clients need no type information.
type AskOutput struct {
	ID            string   `json:"id" jsonschema:"submission identifier"`
	ModelResponse string   `json:"model_response" jsonschema:"raw model output"`
	Command       string   `json:"command,omitempty" jsonschema:"extracted SQL command"`
	Allowed       bool     `json:"allowed" jsonschema:"whether the command passed the allow-list"`
	Outcome       string   `json:"outcome" jsonschema:"executed, authorized, extraction_failed, rejected or execution_failed"`
	Message       string   `json:"message,omitempty" jsonschema:"error or rejection message"`
	Columns       []string `json:"columns,omitempty" jsonschema:"result column names"`
	Rows          []string `json:"rows,omitempty" jsonschema:"result rows, one tuple per entry"`
}

type CommandsInput struct{}

type CommandsOutput struct {
	Safe          []string `json:"safe" jsonschema:"commands that may be executed"`
	Consequential []string `json:"consequential" jsonschema:"commands that are always refused"`
	Match         string   `json:"match" jsonschema:"how the leading keyword is compared"`
}

// NewAskHandler returns a tool handler that uses the given service.
// Pass the returned function to mcp.AddTool.
func NewAskHandler(asker Asker) func(context.Context, *mcp.CallToolRequest, AskInput) (*mcp.CallToolResult, AskOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, AskOutput, error) {
		return Ask(ctx, asker, req, input)
	}
}

// Ask answers one question. Domain failures are reported in the output and
// flagged as a tool error so the calling model sees them.
func Ask(
	ctx context.Context,
	asker Asker,
	req *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := asker.Ask(ctx, agent.AskRequest{
		Question: strings.TrimSpace(input.Question),
		DryRun:   input.DryRun,
	})
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		ID:            answer.ID,
		ModelResponse: answer.ModelResponse,
		Command:       answer.Command,
		Allowed:       answer.Allowed,
		Outcome:       string(answer.Outcome),
		Message:       answer.Message,
		Rows:          render.Lines(answer.Result),
	}
	if answer.Result != nil {
		output.Columns = answer.Result.Columns
	}

	switch answer.Outcome {
	case agent.OutcomeExecuted, agent.OutcomeAuthorized:
		return nil, output, nil
	default:
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: answer.Message}},
		}, output, nil
	}
}

// NewCommandsHandler lists the allow-list of the given policy.
func NewCommandsHandler(policy sqlcmd.Policy) func(context.Context, *mcp.CallToolRequest, CommandsInput) (*mcp.CallToolResult, CommandsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CommandsInput) (*mcp.CallToolResult, CommandsOutput, error) {
		return nil, CommandsOutput{
			Safe:          policy.Safe,
			Consequential: policy.Consequential,
			Match:         string(policy.Match),
		}, nil
	}
}
