package agent

import (
	"time"

	"github.com/povarna/generative-ai-agents/sql-agent/internal/database"
)

type Outcome string

const (
	OutcomeExecuted         Outcome = "executed"
	OutcomeAuthorized       Outcome = "authorized"
	OutcomeExtractionFailed Outcome = "extraction_failed"
	OutcomeRejected         Outcome = "rejected"
	OutcomeExecutionFailed  Outcome = "execution_failed"
)

type AskRequest struct {
	Question string `json:"question" description:"Natural-language question about the STUDENT table"`
	DryRun   bool   `json:"dry_run,omitempty" description:"Extract and authorize the command without executing it"`
}

// Answer is everything the caller needs to render one submission.
type Answer struct {
	ID            string           `json:"id" description:"Submission identifier"`
	Question      string           `json:"question" description:"The question as submitted"`
	ModelResponse string           `json:"model_response" description:"Raw text returned by the model"`
	Command       string           `json:"command,omitempty" description:"Extracted SQL command"`
	Allowed       bool             `json:"allowed" description:"Whether the command passed the allow-list"`
	Outcome       Outcome          `json:"outcome" description:"executed, authorized, extraction_failed, rejected or execution_failed"`
	Message       string           `json:"message,omitempty" description:"User-facing error or rejection message"`
	Result        *database.Result `json:"result,omitempty" description:"Rows returned by the command"`
	CreatedAt     time.Time        `json:"created_at" description:"Submission time"`
}

func (a *Answer) RowCount() int {
	if a.Result == nil {
		return 0
	}
	return len(a.Result.Rows)
}
