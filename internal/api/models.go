package api

import (
	"strings"

	"github.com/povarna/generative-ai-agents/sql-agent/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/history"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/sqlcmd"
)

type QueryRequest struct {
	Question string `json:"question" description:"Natural-language question about the STUDENT table"`
	DryRun   bool   `json:"dry_run,omitempty" description:"Authorize the command without executing it"`
}

func (q *QueryRequest) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return middleware.ErrEmptyQuestion
	}
	return nil
}

type HealthResponse struct {
	Status   string `json:"status" description:"Service status"`
	Version  string `json:"version" description:"API version"`
	Database string `json:"database" description:"Database connectivity (ok or unavailable)"`
}

type CommandsResponse struct {
	Safe          []string              `json:"safe" description:"Commands that may be executed"`
	Consequential []string              `json:"consequential" description:"Commands that are always refused"`
	Match         sqlcmd.MatchMode      `json:"match" description:"How the leading keyword is compared"`
	Terminator    sqlcmd.TerminatorMode `json:"terminator" description:"How an unterminated command is treated"`
}

type HistoryResponse struct {
	Entries []history.Entry `json:"entries" description:"Most recent submissions, newest first"`
}
