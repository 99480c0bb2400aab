package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ternarybob/askdocs/internal/app"
	"github.com/ternarybob/askdocs/internal/common"
	"github.com/ternarybob/askdocs/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP question answering service",
	Long:  `Builds the index from the configured corpus, then serves POST /ask and the /api endpoints until interrupted.
Send SIGHUP to rebuild the index without restarting.`,
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	defer common.RecoverWithCrashFile()

	common.PrintBanner(config, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.New(ctx, config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	// The index must exist before the server accepts questions
	if _, err := application.BuildIndex(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to build initial index")
	}

	if err := application.StartScheduler(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start refresh scheduler")
	}

	srv := server.New(application)

	// Start server in goroutine
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Fatal().Str("panic", fmt.Sprintf("%v", r)).Msg("Server goroutine panicked")
			}
		}()

		if err := srv.Start(); err != nil {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	logger.Info().
		Int("port", config.Server.Port).
		Str("host", config.Server.Host).
		Msg("Server ready - Press Ctrl+C to stop")

	// Wait for interrupt signal; SIGHUP rebuilds the index in the background
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	for sig := range sigChan {
		if sig != syscall.SIGHUP {
			break
		}
		logger.Info().Msg("SIGHUP received")
		application.Scheduler.RunNow()
	}

	logger.Info().Msg("Interrupt signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}

	logger.Info().Msg("Server stopped")
}
