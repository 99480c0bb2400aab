package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/askdocs/internal/common"
	"github.com/ternarybob/askdocs/internal/interfaces"
	"github.com/ternarybob/askdocs/internal/models"
	"github.com/ternarybob/askdocs/internal/services/chunker"
	"github.com/ternarybob/askdocs/internal/services/corpus"
	"github.com/ternarybob/askdocs/internal/services/index"
	"github.com/ternarybob/askdocs/internal/worker"
)

// Stats represents statistics from one index build
type Stats struct {
	StartTime       time.Time     `json:"start_time"`
	EndTime         time.Time     `json:"end_time"`
	Duration        time.Duration `json:"duration"`
	Documents       int           `json:"documents"`        // Text documents found in the corpus
	DocumentsFailed int           `json:"documents_failed"` // Documents that could not be fetched
	Chunks          int           `json:"chunks"`           // Chunks added to the index
	ChunksSkipped   int           `json:"chunks_skipped"`   // Chunks dropped because embedding failed
}

// Pipeline downloads the corpus, chunks each document and embeds every chunk
// into a fresh index
type Pipeline struct {
	loader    interfaces.CorpusLoader
	store     *index.Store
	chunker   *chunker.Chunker
	pool      *worker.WorkerPool
	plainText bool
	logger    arbor.ILogger

	refreshMu   sync.Mutex
	statusMu    sync.RWMutex
	lastRefresh *time.Time
	lastError   error
}

// NewPipeline creates an ingestion pipeline from config
func NewPipeline(
	config *common.Config,
	loader interfaces.CorpusLoader,
	embedder interfaces.EmbeddingProvider,
	store *index.Store,
	logger arbor.ILogger,
) (*Pipeline, error) {
	delimiter, err := chunker.ParseDelimiter(config.Chunking.Delimiter)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		loader: loader,
		store:  store,
		chunker: chunker.New(chunker.Policy{
			Delimiter: delimiter,
			MinLength: config.Chunking.MinLength,
		}),
		pool:      worker.NewWorkerPool(embedder.Embed, logger, config.Ingest.Concurrency),
		plainText: config.Corpus.MarkdownPlainText,
		logger:    logger,
	}, nil
}

// IngestDocument chunks doc and appends each embedded chunk to idx in chunk order.
// A chunk whose embedding fails is skipped; the rest of the document continues.
func (p *Pipeline) IngestDocument(ctx context.Context, idx *index.Index, doc models.Document) models.DocumentStats {
	stats := models.DocumentStats{Name: doc.Name, Title: doc.Title}

	for _, result := range p.pool.Run(ctx, p.chunker.Chunks(doc.Content)) {
		err := result.Err
		if err == nil {
			err = idx.Add(models.Chunk{Text: result.Text, Source: doc.Name}, result.Embedding)
		}
		if err != nil {
			stats.Skipped++
			p.logger.Warn().
				Str("document", doc.Name).
				Int("chunk", result.Seq).
				Err(err).
				Msg("Skipping chunk")
			continue
		}
		stats.Chunks++
	}

	idx.RecordDocument(stats)

	p.logger.Debug().
		Str("document", doc.Name).
		Int("chunks", stats.Chunks).
		Int("skipped", stats.Skipped).
		Msg("Document ingested")

	return stats
}

// Build enumerates the corpus and ingests every text document into a new index.
// A document that cannot be fetched is skipped. Failing to enumerate the corpus,
// or cancellation, returns an error and no index.
func (p *Pipeline) Build(ctx context.Context) (*index.Index, Stats, error) {
	stats := Stats{StartTime: time.Now()}

	p.logger.Info().
		Str("corpus", p.loader.Location()).
		Msg("Building index")

	names, err := p.loader.List(ctx)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to list documents in %s: %w", p.loader.Location(), err)
	}
	names = corpus.FilterText(names)
	stats.Documents = len(names)

	idx := index.New()
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, stats, fmt.Errorf("index build cancelled: %w", err)
		}

		data, err := p.loader.Fetch(ctx, name)
		if err != nil {
			stats.DocumentsFailed++
			idx.RecordDocument(models.DocumentStats{Name: name, Failed: true, ErrorMsg: err.Error()})
			p.logger.Warn().
				Str("document", name).
				Err(err).
				Msg("Failed to fetch document, skipping")
			continue
		}

		docStats := p.IngestDocument(ctx, idx, corpus.ToDocument(name, data, p.plainText))
		stats.Chunks += docStats.Chunks
		stats.ChunksSkipped += docStats.Skipped
	}

	if err := ctx.Err(); err != nil {
		return nil, stats, fmt.Errorf("index build cancelled: %w", err)
	}

	idx.Seal()
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	p.logger.Info().
		Int("documents", stats.Documents).
		Int("failed", stats.DocumentsFailed).
		Int("chunks", stats.Chunks).
		Int("skipped", stats.ChunksSkipped).
		Int("dimension", idx.Dimension()).
		Dur("duration", stats.Duration).
		Msg("Index built")

	if stats.Chunks == 0 {
		p.logger.Warn().
			Str("corpus", p.loader.Location()).
			Msg("Index is empty, questions will be refused until a refresh succeeds")
	}

	return idx, stats, nil
}

// Refresh builds a new index and publishes it to the store.
// Concurrent calls are serialised. On failure the previous index stays published.
func (p *Pipeline) Refresh(ctx context.Context) (Stats, error) {
	p.refreshMu.Lock()
	defer p.refreshMu.Unlock()

	idx, stats, err := p.Build(ctx)
	p.recordRefresh(err)
	if err != nil {
		p.logger.Error().
			Err(err).
			Int("current_chunks", p.store.Current().Len()).
			Msg("Index refresh failed, keeping current index")
		return stats, err
	}

	previous := p.store.Publish(idx)

	p.logger.Info().
		Int("previous_chunks", previous.Len()).
		Int("chunks", idx.Len()).
		Msg("Index published")

	return stats, nil
}

// LastRefresh reports when Refresh last finished and its error, if any
func (p *Pipeline) LastRefresh() (*time.Time, error) {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.lastRefresh, p.lastError
}

func (p *Pipeline) recordRefresh(err error) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	now := time.Now()
	p.lastRefresh = &now
	p.lastError = err
}
