package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/askdocs/internal/common"
	"github.com/ternarybob/askdocs/internal/handlers"
	"github.com/ternarybob/askdocs/internal/interfaces"
	"github.com/ternarybob/askdocs/internal/models"
	"github.com/ternarybob/askdocs/internal/services/answer"
	"github.com/ternarybob/askdocs/internal/services/corpus"
	"github.com/ternarybob/askdocs/internal/services/index"
	"github.com/ternarybob/askdocs/internal/services/ingest"
	"github.com/ternarybob/askdocs/internal/services/llm"
	"github.com/ternarybob/askdocs/internal/services/retrieval"
	"github.com/ternarybob/askdocs/internal/services/scheduler"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Index
	Store *index.Store

	// Services
	Providers     *llm.Providers
	CorpusLoader  interfaces.CorpusLoader
	Pipeline      *ingest.Pipeline
	Retriever     *retrieval.Retriever
	AnswerService *answer.Service
	Scheduler     *scheduler.Scheduler

	// HTTP handlers
	APIHandler   *handlers.APIHandler
	AskHandler   *handlers.AskHandler
	IndexHandler *handlers.IndexHandler
}

// New initializes the application with all dependencies.
// The index starts empty; call BuildIndex before serving.
func New(ctx context.Context, cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
		Store:  index.NewStore(),
	}

	if err := app.initServices(ctx); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	logger.Info().
		Str("corpus", app.CorpusLoader.Location()).
		Str("embedder", app.Providers.Embedder.Name()).
		Str("generator", app.Providers.Generator.Name()).
		Int("top_k", app.Retriever.TopK()).
		Float64("min_score", app.Retriever.MinScore()).
		Msg("Application initialization complete")

	return app, nil
}

// initServices initializes providers, the corpus loader and the query path
func (a *App) initServices(ctx context.Context) error {
	timeout, err := a.Config.LLMTimeout()
	if err != nil {
		return err
	}

	a.Providers, err = llm.NewProviders(ctx, a.Config, a.Logger)
	if err != nil {
		return err
	}

	a.CorpusLoader, err = corpus.NewLoader(ctx, &a.Config.Corpus, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create corpus loader: %w", err)
	}

	a.Pipeline, err = ingest.NewPipeline(a.Config, a.CorpusLoader, a.Providers.Embedder, a.Store, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}

	a.Retriever = retrieval.New(a.Store,
		retrieval.WithTopK(a.Config.Retrieval.TopK),
		retrieval.WithMinScore(a.Config.Retrieval.MinScore),
	)

	a.AnswerService = answer.NewService(
		a.Providers.Embedder,
		a.Providers.Generator,
		a.Retriever,
		timeout,
		a.Logger,
	)

	a.Scheduler = scheduler.NewScheduler(a.Pipeline, a.Logger)

	return nil
}

// initHandlers initializes all HTTP handlers
func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.Store, a.Logger)
	a.AskHandler = handlers.NewAskHandler(a.AnswerService, a.Logger)
	a.IndexHandler = handlers.NewIndexHandler(a.Store, a.Pipeline, a, a.Logger)
}

// BuildIndex runs the initial ingestion and publishes the result.
// An error here means the corpus could not be enumerated.
func (a *App) BuildIndex(ctx context.Context) (ingest.Stats, error) {
	return a.Pipeline.Refresh(ctx)
}

// StartScheduler starts the configured refresh schedule, if any
func (a *App) StartScheduler() error {
	return a.Scheduler.Start(a.Config.Refresh.Schedule)
}

// RefreshStatus combines the last rebuild outcome with the refresh schedule
func (a *App) RefreshStatus() models.RefreshStatus {
	last, err := a.Pipeline.LastRefresh()
	status := models.RefreshStatus{
		LastRefresh: last,
		Schedule:    a.Scheduler.Schedule(),
		NextRun:     a.Scheduler.NextRun(),
	}
	if err != nil {
		status.LastError = err.Error()
	}
	return status
}

// Close closes all application resources
func (a *App) Close() error {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}

	if a.CorpusLoader != nil {
		if err := a.CorpusLoader.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close corpus loader")
		}
	}

	if a.Providers != nil {
		if err := a.Providers.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close AI providers")
		}
	}

	a.Logger.Info().Msg("Application closed")
	return nil
}
