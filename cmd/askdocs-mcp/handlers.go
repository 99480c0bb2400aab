package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/askdocs/internal/models"
	"github.com/ternarybob/askdocs/internal/services/index"
	"github.com/ternarybob/askdocs/internal/services/retrieval"
)

// Answerer answers one question
type Answerer interface {
	Answer(ctx context.Context, query string) (*models.Answer, error)
}

// SnippetRetriever returns relevant chunks without generation
type SnippetRetriever interface {
	Retrieve(ctx context.Context, query string) (*retrieval.Result, error)
}

// RefreshStatusReporter describes the last rebuild and the refresh schedule
type RefreshStatusReporter interface {
	RefreshStatus() models.RefreshStatus
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

// handleAskQuestion implements the ask_question tool
func handleAskQuestion(answerer Answerer, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil || query == "" {
			return textResult("Error: query parameter is required"), nil
		}

		result, err := answerer.Answer(ctx, query)
		if err != nil {
			logger.Error().Err(err).Msg("ask_question failed")
			return textResult(describeError(err)), nil
		}

		return textResult(formatAnswer(query, result)), nil
	}
}

// handleRetrieveSnippets implements the retrieve_snippets tool
func handleRetrieveSnippets(retriever SnippetRetriever, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil || query == "" {
			return textResult("Error: query parameter is required"), nil
		}

		result, err := retriever.Retrieve(ctx, query)
		if err != nil {
			logger.Error().Err(err).Msg("retrieve_snippets failed")
			return textResult(describeError(err)), nil
		}

		return textResult(formatSnippets(query, result.Snippets())), nil
	}
}

// handleIndexStats implements the index_stats tool
func handleIndexStats(store *index.Store, status RefreshStatusReporter) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return textResult(formatIndexStats(store.Current().Stats(), status.RefreshStatus())), nil
	}
}

func describeError(err error) string {
	if errors.Is(err, retrieval.ErrNoCorpus) {
		return "No documents are indexed yet."
	}
	return fmt.Sprintf("Error: %v", err)
}
