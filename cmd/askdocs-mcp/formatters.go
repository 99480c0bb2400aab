package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/askdocs/internal/models"
)

// formatAnswer formats an answer and its sources as markdown
func formatAnswer(query string, answer *models.Answer) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\n", query))
	sb.WriteString(answer.Answer)
	sb.WriteString("\n")

	if len(answer.SourceTitles) > 0 {
		sb.WriteString("\n**Sources:**\n")
		for _, source := range answer.SourceTitles {
			sb.WriteString(fmt.Sprintf("- %s\n", source))
		}
	}

	return sb.String()
}

// formatSnippets formats scored snippets as markdown
func formatSnippets(query string, snippets []models.Snippet) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Snippets for \"%s\" (%d results)\n\n", query, len(snippets)))

	if len(snippets) == 0 {
		sb.WriteString("No relevant information found.\n")
		return sb.String()
	}

	for i, snippet := range snippets {
		sb.WriteString(fmt.Sprintf("### %d. %s (score %.3f)\n\n", i+1, snippet.Source, snippet.Score))
		sb.WriteString(snippet.Text)
		sb.WriteString("\n\n---\n\n")
	}

	return sb.String()
}

// formatIndexStats formats index statistics as markdown
func formatIndexStats(stats models.IndexStats, refresh models.RefreshStatus) string {
	var sb strings.Builder
	sb.WriteString("## Index\n\n")
	sb.WriteString(fmt.Sprintf("**Chunks:** %d\n", stats.Chunks))
	sb.WriteString(fmt.Sprintf("**Dimension:** %d\n", stats.Dimension))
	if !stats.BuiltAt.IsZero() {
		sb.WriteString(fmt.Sprintf("**Built:** %s\n", stats.BuiltAt.Format(time.RFC3339)))
	}

	if refresh.LastRefresh != nil {
		sb.WriteString(fmt.Sprintf("**Last refresh:** %s\n", refresh.LastRefresh.Format(time.RFC3339)))
	}
	if refresh.LastError != "" {
		sb.WriteString(fmt.Sprintf("**Last refresh error:** %s\n", refresh.LastError))
	}
	if refresh.Schedule != "" {
		sb.WriteString(fmt.Sprintf("**Schedule:** `%s`\n", refresh.Schedule))
	}
	if refresh.NextRun != nil {
		sb.WriteString(fmt.Sprintf("**Next refresh:** %s\n", refresh.NextRun.Format(time.RFC3339)))
	}

	if len(stats.Documents) > 0 {
		sb.WriteString("\n| Document | Chunks | Skipped | Status |\n|---|---|---|---|\n")
		for _, doc := range stats.Documents {
			status := "ok"
			if doc.Failed {
				status = "fetch failed"
			}
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %s |\n", doc.Name, doc.Chunks, doc.Skipped, status))
		}
	}

	return sb.String()
}
