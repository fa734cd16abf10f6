package mcpadapter

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/agent"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/database"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/sqlcmd"
)

type fakeAsker struct {
	answer *agent.Answer
	err    error
	got    agent.AskRequest
}

func (f *fakeAsker) Ask(ctx context.Context, req agent.AskRequest) (*agent.Answer, error) {
	f.got = req
	return f.answer, f.err
}

func TestAsk_Executed(t *testing.T) {
	asker := &fakeAsker{answer: &agent.Answer{
		ID:      "id-1",
		Command: "SELECT COUNT(*) FROM STUDENT;",
		Allowed: true,
		Outcome: agent.OutcomeExecuted,
		Result:  &database.Result{Columns: []string{"count"}, Rows: [][]any{{int64(0)}}},
	}}

	result, output, err := NewAskHandler(asker)(context.Background(), &mcp.CallToolRequest{}, AskInput{Question: "  How many?  "})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if result != nil {
		t.Errorf("Expected nil tool result for success, got %+v", result)
	}
	if asker.got.Question != "How many?" {
		t.Errorf("Question: %q, want: %q", asker.got.Question, "How many?")
	}
	if len(output.Rows) != 1 || output.Rows[0] != "(0,)" {
		t.Errorf("Rows: %v, want: [(0,)]", output.Rows)
	}
	if len(output.Columns) != 1 || output.Columns[0] != "count" {
		t.Errorf("Columns: %v", output.Columns)
	}
}

func TestAsk_RejectedIsToolError(t *testing.T) {
	asker := &fakeAsker{answer: &agent.Answer{
		Command: "DROP TABLE STUDENT;",
		Outcome: agent.OutcomeRejected,
		Message: "This query can't be executed. Commands allowed are: SELECT",
	}}

	result, output, err := Ask(context.Background(), asker, &mcp.CallToolRequest{}, AskInput{Question: "drop it"})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if result == nil || !result.IsError {
		t.Fatal("Expected tool error result")
	}
	if output.Outcome != string(agent.OutcomeRejected) || output.Rows != nil {
		t.Errorf("Unexpected output: %+v", output)
	}
}

func TestAsk_ModelError(t *testing.T) {
	asker := &fakeAsker{err: errors.New("unavailable")}

	if _, _, err := Ask(context.Background(), asker, &mcp.CallToolRequest{}, AskInput{Question: "q"}); err == nil {
		t.Error("Expected error from failed model call")
	}
}

func TestCommandsHandler(t *testing.T) {
	policy := sqlcmd.DefaultPolicy()

	_, output, err := NewCommandsHandler(policy)(context.Background(), &mcp.CallToolRequest{}, CommandsInput{})
	if err != nil {
		t.Fatalf("Commands: %v", err)
	}
	if len(output.Safe) != len(policy.Safe) || output.Match != string(sqlcmd.MatchFirstToken) {
		t.Errorf("Unexpected output: %+v", output)
	}
}
