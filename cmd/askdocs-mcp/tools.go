package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createAskQuestionTool returns the ask_question tool definition
func createAskQuestionTool() mcp.Tool {
	return mcp.NewTool("ask_question",
		mcp.WithDescription("Answer a question using the indexed document corpus. Returns the answer and the source documents it was grounded on."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Natural language question"),
		),
	)
}

// createRetrieveSnippetsTool returns the retrieve_snippets tool definition
func createRetrieveSnippetsTool() mcp.Tool {
	return mcp.NewTool("retrieve_snippets",
		mcp.WithDescription("Return the most relevant passages for a query with similarity scores, without generating an answer"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to match against the corpus"),
		),
	)
}

// createIndexStatsTool returns the index_stats tool definition
func createIndexStatsTool() mcp.Tool {
	return mcp.NewTool("index_stats",
		mcp.WithDescription("Describe the current index: chunk count, embedding dimension, build time, refresh status and per-document counts"),
	)
}
