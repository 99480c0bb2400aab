package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"

	"github.com/ternarybob/askdocs/internal/app"
	"github.com/ternarybob/askdocs/internal/common"
)

func main() {
	// Load configuration
	configPath := os.Getenv("ASKDOCS_CONFIG")
	if configPath == "" {
		if _, err := os.Stat("askdocs.toml"); err == nil {
			configPath = "askdocs.toml"
		}
	}

	config, err := common.LoadFromFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the MCP protocol, so logs only go to a file
	logger := arbor.NewLogger().WithFileWriter(arbor_models.WriterConfiguration{
		Type:       arbor_models.LogWriterTypeFile,
		FileName:   filepath.Join(os.TempDir(), "askdocs-mcp.log"),
		TimeFormat: "15:04:05",
		MaxSize:    10 * 1024 * 1024,
		MaxBackups: 1,
	}).WithLevelFromString(config.Logging.Level)

	ctx := context.Background()

	application, err := app.New(ctx, config, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if _, err := application.BuildIndex(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build index: %v\n", err)
		os.Exit(1)
	}

	if err := application.StartScheduler(); err != nil {
		logger.Warn().Err(err).Msg("Refresh scheduler not started")
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		"askdocs",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(createAskQuestionTool(), handleAskQuestion(application.AnswerService, logger))
	mcpServer.AddTool(createRetrieveSnippetsTool(), handleRetrieveSnippets(application.AnswerService, logger))
	mcpServer.AddTool(createIndexStatsTool(), handleIndexStats(application.Store, application))

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Error().Err(err).Msg("MCP server failed")
		fmt.Fprintf(os.Stderr, "MCP server failed: %v\n", err)
	}
}
