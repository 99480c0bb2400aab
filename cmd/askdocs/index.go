package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ternarybob/askdocs/internal/app"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the index and print per-document statistics",
	Long:  `Runs ingestion against the configured corpus without starting the server. Useful for checking chunking and embedding settings.`,
	Args:  cobra.NoArgs,
	RunE:  runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	application, err := app.New(ctx, config, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	stats, err := application.BuildIndex(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DOCUMENT\tTITLE\tCHUNKS\tSKIPPED\tSTATUS")
	for _, doc := range application.Store.Current().Stats().Documents {
		status := "ok"
		if doc.Failed {
			status = "failed: " + doc.ErrorMsg
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", doc.Name, doc.Title, doc.Chunks, doc.Skipped, status)
	}
	w.Flush()

	summary := color.New(color.FgGreen)
	if stats.DocumentsFailed > 0 || stats.ChunksSkipped > 0 {
		summary = color.New(color.FgYellow)
	}
	summary.Fprintf(out, "\n%d documents, %d chunks (%d skipped, %d documents failed) in %s, dimension %d\n",
		stats.Documents, stats.Chunks, stats.ChunksSkipped, stats.DocumentsFailed,
		stats.Duration.Round(time.Millisecond), application.Store.Current().Dimension())

	return nil
}
