package main

import (
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/kazz187/fieldguild/backend/internal/client"
)

func main() {
	// stdout carries the protocol.
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := NewConfig()
	if err != nil {
		logger.Error("failed to create config", "error", err)
		os.Exit(1)
	}

	tools := NewTools(client.New(cfg.FieldGuildAddr,
		client.WithSession(cfg.Session),
		client.WithAPIKey(cfg.APIKey),
		client.WithLLMKey(cfg.LLMKey),
	))

	s := server.NewMCPServer(
		"mcp-fieldguild",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	tools.Register(s)

	if err := server.ServeStdio(s); err != nil {
		logger.Error("failed to run server", "error", err)
		os.Exit(1)
	}
}
