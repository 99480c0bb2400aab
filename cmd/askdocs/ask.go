package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ternarybob/askdocs/internal/app"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question from the command line",
	Long:  `Builds the index from the configured corpus, answers one question, and prints the answer with its sources.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

var askShowChunks bool

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	answerColor  = color.New(color.FgGreen)
	sourceColor  = color.New(color.FgYellow)
	chunkColor   = color.New(color.FgHiBlack)
)

func init() {
	askCmd.Flags().BoolVar(&askShowChunks, "chunks", false, "Print the retrieved passages")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	application, err := app.New(ctx, config, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	if _, err := application.BuildIndex(ctx); err != nil {
		return err
	}

	result, err := application.AnswerService.Answer(ctx, question)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	headingColor.Fprintln(out, "\nAnswer")
	answerColor.Fprintln(out, result.Answer)

	if len(result.SourceTitles) > 0 {
		headingColor.Fprintln(out, "\nSources")
		for _, source := range result.SourceTitles {
			sourceColor.Fprintf(out, "  %s\n", source)
		}
	}

	if askShowChunks {
		headingColor.Fprintln(out, "\nRetrieved passages")
		for i, chunk := range result.RetrievedChunks {
			chunkColor.Fprintf(out, "  [%d] %s\n", i+1, chunk)
		}
	}

	fmt.Fprintln(out)
	return nil
}
