//go:generate mockgen -source=service.go -destination=mocks/service.go -package=mocks

package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/database"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/history"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/prompt"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/sqlcmd"
	"github.com/rs/zerolog"
)

const (
	MsgExtractionFailed = "Failed to extract a valid SQL command for the input"
	MsgRejected         = "This query can't be executed. Commands allowed are: %s"
	MsgExecutionFailed  = "Error executing SQL query: %v"
)

// Executor runs an authorized statement.
type Executor interface {
	Execute(ctx context.Context, sql string) (*database.Result, error)
}

// Recorder stores the trail of submissions.
type Recorder interface {
	Record(ctx context.Context, entry history.Entry) error
}

type ModelOptions struct {
	MaxTokens   int
	Temperature float64
	Retry       bool
}

type Service struct {
	llmClient llm.LLMClient
	prompt    *prompt.Builder
	extractor *sqlcmd.Extractor
	gate      *sqlcmd.Gate
	executor  Executor
	recorder  Recorder
	options   ModelOptions
	logger    *zerolog.Logger
}

func NewService(
	llmClient llm.LLMClient,
	promptBuilder *prompt.Builder,
	extractor *sqlcmd.Extractor,
	gate *sqlcmd.Gate,
	executor Executor,
	recorder Recorder,
	options ModelOptions,
	logger *zerolog.Logger,
) *Service {
	return &Service{
		llmClient: llmClient,
		prompt:    promptBuilder,
		extractor: extractor,
		gate:      gate,
		executor:  executor,
		recorder:  recorder,
		options:   options,
		logger:    logger,
	}
}

// Ask turns a question into a statement and runs it when the gate allows it.
// Extraction failures, rejections and execution faults are reported on the
// Answer; only a failed model call is returned as an error.
func (s *Service) Ask(ctx context.Context, req AskRequest) (*Answer, error) {
	answer := &Answer{
		ID:        uuid.NewString(),
		Question:  req.Question,
		CreatedAt: time.Now().UTC(),
	}

	s.logger.Info().Str("id", answer.ID).Str("question", req.Question).Msg("Processing question")

	modelResponse, err := s.invoke(ctx, req.Question)
	if err != nil {
		s.logger.Error().Err(err).Str("id", answer.ID).Msg("Model call failed")
		return nil, err
	}
	answer.ModelResponse = modelResponse

	extraction, found := s.extractor.Extract(modelResponse)
	if !found {
		s.logger.Warn().Str("id", answer.ID).Str("response", modelResponse).Msg("No SQL command in model response")
		answer.Outcome = OutcomeExtractionFailed
		answer.Message = MsgExtractionFailed
		s.record(ctx, answer)
		return answer, nil
	}
	answer.Command = extraction.Command

	s.logger.Info().
		Str("id", answer.ID).
		Str("extracted_command", extraction.Command).
		Str("keyword", extraction.Keyword).
		Msg("Command extracted")

	decision := s.gate.Authorize(extraction.Command)
	if !decision.Allowed {
		s.logger.Warn().
			Str("id", answer.ID).
			Str("leading", decision.Leading).
			Str("class", string(decision.Class)).
			Msg("Command rejected")
		answer.Outcome = OutcomeRejected
		answer.Message = fmt.Sprintf(MsgRejected, strings.Join(s.gate.Allowed(), ", "))
		s.record(ctx, answer)
		return answer, nil
	}
	answer.Allowed = true

	if req.DryRun {
		answer.Outcome = OutcomeAuthorized
		s.record(ctx, answer)
		return answer, nil
	}

	now := time.Now()
	result, err := s.executor.Execute(ctx, decision.Command)
	if err != nil {
		s.logger.Error().Err(err).Str("id", answer.ID).Msg("Command execution failed")
		answer.Outcome = OutcomeExecutionFailed
		answer.Message = fmt.Sprintf(MsgExecutionFailed, err)
		s.record(ctx, answer)
		return answer, nil
	}

	answer.Outcome = OutcomeExecuted
	answer.Result = result

	s.logger.Info().
		Str("id", answer.ID).
		Int("rows", len(result.Rows)).
		Int64("rows_affected", result.RowsAffected).
		Dur("duration", time.Since(now)).
		Msg("Command executed successfully")

	s.record(ctx, answer)
	return answer, nil
}

func (s *Service) invoke(ctx context.Context, question string) (string, error) {
	text, err := s.prompt.Build(question)
	if err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}

	request := llm.LLMRequest{
		Prompt:      text,
		MaxTokens:   s.options.MaxTokens,
		Temperature: s.options.Temperature,
	}

	var resp *llm.LLMResponse
	if s.options.Retry {
		resp, err = s.llmClient.InvokeModelWithRetry(ctx, request)
	} else {
		resp, err = s.llmClient.InvokeModel(ctx, request)
	}
	if err != nil {
		return "", fmt.Errorf("failed to invoke model: %w", err)
	}

	s.logger.Debug().
		Str("model", resp.Model).
		Str("stop_reason", resp.StopReason).
		Int("input_tokens", resp.InputTokens).
		Int("output_tokens", resp.OutputTokens).
		Msg("Model responded")

	return resp.Content, nil
}

// record never fails the submission.
func (s *Service) record(ctx context.Context, answer *Answer) {
	entry := history.Entry{
		ID:        answer.ID,
		Question:  answer.Question,
		Command:   answer.Command,
		Outcome:   string(answer.Outcome),
		Error:     answer.Message,
		RowCount:  answer.RowCount(),
		CreatedAt: answer.CreatedAt,
	}

	if err := s.recorder.Record(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("id", answer.ID).Msg("Failed to record history")
	}
}
