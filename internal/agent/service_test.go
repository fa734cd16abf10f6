package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/povarna/generative-ai-agents/sql-agent/internal/agent/mocks"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/database"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/history"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/llm"
	llmmocks "github.com/povarna/generative-ai-agents/sql-agent/internal/llm/mocks"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/prompt"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/sqlcmd"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"
)

type testDeps struct {
	llm      *llmmocks.MockLLMClient
	executor *mocks.MockExecutor
	recorder *mocks.MockRecorder
}

func newTestService(t *testing.T, options ModelOptions) (*Service, testDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)

	deps := testDeps{
		llm:      llmmocks.NewMockLLMClient(ctrl),
		executor: mocks.NewMockExecutor(ctrl),
		recorder: mocks.NewMockRecorder(ctrl),
	}

	policy := sqlcmd.DefaultPolicy()
	extractor, err := sqlcmd.NewExtractor(policy)
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}
	builder, err := prompt.New("")
	if err != nil {
		t.Fatalf("prompt.New: %v", err)
	}

	logger := zerolog.Nop()
	service := NewService(deps.llm, builder, extractor, sqlcmd.NewGate(policy), deps.executor, deps.recorder, options, &logger)
	return service, deps
}

func modelReturns(content string) *llm.LLMResponse {
	return &llm.LLMResponse{Content: content, StopReason: "end_turn"}
}

func TestService_Ask_Executed(t *testing.T) {
	service, deps := newTestService(t, ModelOptions{MaxTokens: 256})
	ctx := context.Background()

	deps.llm.EXPECT().
		InvokeModel(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, req llm.LLMRequest) (*llm.LLMResponse, error) {
			if !strings.Contains(req.Prompt, "How many students are there?") {
				t.Errorf("Prompt does not contain the question: %s", req.Prompt)
			}
			if req.MaxTokens != 256 {
				t.Errorf("MaxTokens: %d, want: 256", req.MaxTokens)
			}
			return modelReturns("Sure! SELECT COUNT(*) FROM STUDENT; Hope this helps."), nil
		})

	result := &database.Result{Columns: []string{"count"}, Rows: [][]any{{int64(0)}}}
	deps.executor.EXPECT().Execute(ctx, "SELECT COUNT(*) FROM STUDENT;").Return(result, nil)
	deps.recorder.EXPECT().
		Record(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, entry history.Entry) error {
			if entry.Outcome != string(OutcomeExecuted) || entry.RowCount != 1 {
				t.Errorf("Unexpected history entry: %+v", entry)
			}
			return nil
		})

	answer, err := service.Ask(ctx, AskRequest{Question: "How many students are there?"})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if answer.Outcome != OutcomeExecuted {
		t.Errorf("Outcome: %s, want: %s", answer.Outcome, OutcomeExecuted)
	}
	if !answer.Allowed {
		t.Error("Expected command to be allowed")
	}
	if answer.Command != "SELECT COUNT(*) FROM STUDENT;" {
		t.Errorf("Command: %q", answer.Command)
	}
	if answer.Result != result {
		t.Error("Expected executor result on the answer")
	}
	if answer.ID == "" {
		t.Error("Expected an answer ID")
	}
}

func TestService_Ask_UsesRetryWhenConfigured(t *testing.T) {
	service, deps := newTestService(t, ModelOptions{Retry: true})
	ctx := context.Background()

	deps.llm.EXPECT().InvokeModelWithRetry(ctx, gomock.Any()).Return(modelReturns("SELECT * FROM STUDENT;"), nil)
	deps.executor.EXPECT().Execute(ctx, "SELECT * FROM STUDENT;").Return(&database.Result{}, nil)
	deps.recorder.EXPECT().Record(ctx, gomock.Any()).Return(nil)

	if _, err := service.Ask(ctx, AskRequest{Question: "all students"}); err != nil {
		t.Fatalf("Ask: %v", err)
	}
}

func TestService_Ask_ExtractionFailed(t *testing.T) {
	service, deps := newTestService(t, ModelOptions{})
	ctx := context.Background()

	deps.llm.EXPECT().InvokeModel(ctx, gomock.Any()).Return(modelReturns("I cannot help with that."), nil)
	deps.recorder.EXPECT().Record(ctx, gomock.Any()).Return(nil)

	answer, err := service.Ask(ctx, AskRequest{Question: "What is the weather?"})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if answer.Outcome != OutcomeExtractionFailed {
		t.Errorf("Outcome: %s, want: %s", answer.Outcome, OutcomeExtractionFailed)
	}
	if answer.Message != MsgExtractionFailed {
		t.Errorf("Message: %q, want: %q", answer.Message, MsgExtractionFailed)
	}
	if answer.Command != "" {
		t.Errorf("Expected no command, got %q", answer.Command)
	}
}

func TestService_Ask_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		response string
		command  string
	}{
		{"Drop table", "DROP TABLE STUDENT;", "DROP TABLE STUDENT;"},
		{"Alter table", "Here you go: ALTER TABLE STUDENT ADD COLUMN AGE INT;", "ALTER TABLE STUDENT ADD COLUMN AGE INT;"},
		{"Create view", "CREATE VIEW v AS SELECT * FROM STUDENT;", "CREATE VIEW v AS SELECT * FROM STUDENT;"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			service, deps := newTestService(t, ModelOptions{})
			ctx := context.Background()

			deps.llm.EXPECT().InvokeModel(ctx, gomock.Any()).Return(modelReturns(test.response), nil)
			deps.recorder.EXPECT().Record(ctx, gomock.Any()).Return(nil)

			answer, err := service.Ask(ctx, AskRequest{Question: "do something"})
			if err != nil {
				t.Fatalf("Ask: %v", err)
			}

			if answer.Outcome != OutcomeRejected {
				t.Errorf("Outcome: %s, want: %s", answer.Outcome, OutcomeRejected)
			}
			if answer.Allowed {
				t.Error("Expected command to be rejected")
			}
			if answer.Command != test.command {
				t.Errorf("Command: %q, want: %q", answer.Command, test.command)
			}
			if !strings.HasPrefix(answer.Message, "This query can't be executed. Commands allowed are: SELECT, INSERT, UPDATE") {
				t.Errorf("Unexpected message: %q", answer.Message)
			}
		})
	}
}

func TestService_Ask_DryRun(t *testing.T) {
	service, deps := newTestService(t, ModelOptions{})
	ctx := context.Background()

	deps.llm.EXPECT().InvokeModel(ctx, gomock.Any()).Return(modelReturns("DELETE FROM STUDENT WHERE NAME = 'A';"), nil)
	deps.recorder.EXPECT().Record(ctx, gomock.Any()).Return(nil)

	answer, err := service.Ask(ctx, AskRequest{Question: "remove A", DryRun: true})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if answer.Outcome != OutcomeAuthorized {
		t.Errorf("Outcome: %s, want: %s", answer.Outcome, OutcomeAuthorized)
	}
	if !answer.Allowed || answer.Result != nil {
		t.Errorf("Unexpected dry run answer: %+v", answer)
	}
}

func TestService_Ask_ExecutionFailed(t *testing.T) {
	service, deps := newTestService(t, ModelOptions{})
	ctx := context.Background()

	deps.llm.EXPECT().InvokeModel(ctx, gomock.Any()).Return(modelReturns("SELECT * FROM STUDENTS;"), nil)
	deps.executor.EXPECT().Execute(ctx, "SELECT * FROM STUDENTS;").Return(nil, errors.New(`relation "students" does not exist`))
	deps.recorder.EXPECT().Record(ctx, gomock.Any()).Return(nil)

	answer, err := service.Ask(ctx, AskRequest{Question: "all students"})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if answer.Outcome != OutcomeExecutionFailed {
		t.Errorf("Outcome: %s, want: %s", answer.Outcome, OutcomeExecutionFailed)
	}
	want := `Error executing SQL query: relation "students" does not exist`
	if answer.Message != want {
		t.Errorf("Message: %q, want: %q", answer.Message, want)
	}
}

func TestService_Ask_ModelError(t *testing.T) {
	service, deps := newTestService(t, ModelOptions{})
	ctx := context.Background()

	modelErr := errors.New("throttled")
	deps.llm.EXPECT().InvokeModel(ctx, gomock.Any()).Return(nil, modelErr)

	answer, err := service.Ask(ctx, AskRequest{Question: "all students"})
	if err == nil {
		t.Fatal("Expected error from failed model call")
	}
	if !errors.Is(err, modelErr) {
		t.Errorf("Error: %v, want wrapped: %v", err, modelErr)
	}
	if answer != nil {
		t.Errorf("Expected nil answer, got %+v", answer)
	}
}

func TestService_Ask_HistoryFailureIgnored(t *testing.T) {
	service, deps := newTestService(t, ModelOptions{})
	ctx := context.Background()

	deps.llm.EXPECT().InvokeModel(ctx, gomock.Any()).Return(modelReturns("SELECT 1;"), nil)
	deps.executor.EXPECT().Execute(ctx, "SELECT 1;").Return(&database.Result{Columns: []string{"?column?"}, Rows: [][]any{{int32(1)}}}, nil)
	deps.recorder.EXPECT().Record(ctx, gomock.Any()).Return(errors.New("redis down"))

	answer, err := service.Ask(ctx, AskRequest{Question: "one"})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer.Outcome != OutcomeExecuted {
		t.Errorf("Outcome: %s, want: %s", answer.Outcome, OutcomeExecuted)
	}
}
