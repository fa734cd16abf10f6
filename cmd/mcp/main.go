package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/mcpadapter"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/setup"
	applog "github.com/povarna/generative-ai-agents/sql-agent/internal/setup/logger"
)

func main() {
	// Load env
	_ = godotenv.Load()

	// stdout belongs to the MCP transport.
	logger := applog.New(os.Getenv("LOG_LEVEL"), os.Stderr)

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := setup.LoadConfig()

	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Unable to load dependencies")
		os.Exit(1)
	}
	defer deps.Close()

	server := createMCPServer(deps)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			logger.Debug().Err(err).Msg("MCP server stopped")
			return
		}
		logger.Error().Err(err).Msg("Failed to run mcp server")
		deps.Close()
		os.Exit(1)
	}
}

func createMCPServer(deps *setup.Dependencies) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "sql-agent",
			Version: "1.0.0",
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_student_database",
		Description: "Answer a natural-language question about the STUDENT table (ID, NAME, SUBJECT, SCORE) by generating and running an allow-listed SQL command",
	}, mcpadapter.NewAskHandler(deps.Service))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_allowed_commands",
		Description: "List the SQL commands the agent may execute and the ones it always refuses",
	}, mcpadapter.NewCommandsHandler(deps.Policy))

	return server
}
