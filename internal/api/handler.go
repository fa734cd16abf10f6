package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/agent"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/history"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/sqlcmd"
	"github.com/rs/zerolog"
)

const (
	Version             = "1.0.0"
	defaultHistoryLimit = 20
	maxHistoryLimit     = 500
)

type Asker interface {
	Ask(ctx context.Context, req agent.AskRequest) (*agent.Answer, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	asker   Asker
	policy  sqlcmd.Policy
	history history.Store
	db      Pinger
	logger  *zerolog.Logger
}

func NewHandler(asker Asker, policy sqlcmd.Policy, store history.Store, db Pinger, logger *zerolog.Logger) *Handler {
	return &Handler{
		asker:   asker,
		policy:  policy,
		history: store,
		db:      db,
		logger:  logger,
	}
}

// POST /api/v1/query
// Body: QueryRequest
// Returns: agent.Answer
func (h *Handler) Query(req *restful.Request, resp *restful.Response) {
	var queryRequest QueryRequest
	if err := req.ReadEntity(&queryRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	if err := queryRequest.Validate(); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	answer, err := h.asker.Ask(req.Request.Context(), agent.AskRequest{
		Question: queryRequest.Question,
		DryRun:   queryRequest.DryRun,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to answer question")
		middleware.HandleError(resp, err, http.StatusBadGateway)
		return
	}

	h.logger.Info().
		Str("id", answer.ID).
		Str("outcome", string(answer.Outcome)).
		Int("rows", answer.RowCount()).
		Msg("Question answered")

	resp.WriteHeaderAndEntity(http.StatusOK, answer)
}

// GET /api/v1/commands
func (h *Handler) Commands(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, CommandsResponse{
		Safe:          h.policy.Safe,
		Consequential: h.policy.Consequential,
		Match:         h.policy.Match,
		Terminator:    h.policy.Terminator,
	})
}

// GET /api/v1/history?limit=n
func (h *Handler) History(req *restful.Request, resp *restful.Response) {
	limit := defaultHistoryLimit
	if limitStr := req.QueryParameter("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 || parsed > maxHistoryLimit {
			middleware.HandleError(resp, middleware.ErrInvalidLimit, http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	entries, err := h.history.Recent(req.Request.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read history")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, HistoryResponse{Entries: entries})
}

// Health handler GET API /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:   "ok",
		Version:  Version,
		Database: "ok",
	}

	if h.db != nil {
		if err := h.db.Ping(req.Request.Context()); err != nil {
			h.logger.Warn().Err(err).Msg("Database ping failed")
			healthResponse.Database = "unavailable"
		}
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}
