package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/askdocs/internal/interfaces"
	"github.com/ternarybob/askdocs/internal/models"
	"github.com/ternarybob/askdocs/internal/services/retrieval"
)

var (
	// ErrEmptyQuery is returned for a missing or whitespace-only question
	ErrEmptyQuery = errors.New("query is required")
	// ErrEmbedding wraps a failure to embed the question
	ErrEmbedding = errors.New("failed to embed query")
	// ErrGeneration wraps a failure of the answer generator
	ErrGeneration = errors.New("failed to generate answer")
)

// Service answers questions against the published index
type Service struct {
	embedder  interfaces.EmbeddingProvider
	generator interfaces.AnswerGenerator
	retriever *retrieval.Retriever
	timeout   time.Duration
	logger    arbor.ILogger
}

// NewService creates a new answer service. timeout bounds each embed and generate call.
func NewService(
	embedder interfaces.EmbeddingProvider,
	generator interfaces.AnswerGenerator,
	retriever *retrieval.Retriever,
	timeout time.Duration,
	logger arbor.ILogger,
) *Service {
	return &Service{
		embedder:  embedder,
		generator: generator,
		retriever: retriever,
		timeout:   timeout,
		logger:    logger,
	}
}

// Retrieve embeds query and returns the relevant chunks without generating an answer.
// retrieval.ErrNoCorpus is returned unchanged.
func (s *Service) Retrieve(ctx context.Context, query string) (*retrieval.Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	embedCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	embedding, err := s.embedder.Embed(embedCtx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}

	return s.retriever.Retrieve(embedding)
}

// Answer runs one question through retrieval and generation
func (s *Service) Answer(ctx context.Context, query string) (*models.Answer, error) {
	startTime := time.Now()

	result, err := s.Retrieve(ctx, query)
	if err != nil {
		return nil, err
	}

	texts := result.Texts()
	prompt := BuildPrompt(texts, strings.TrimSpace(query))

	s.logger.Trace().
		Str("prompt", prompt).
		Msg("Sending prompt to answer generator")

	generateCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	generation, err := s.generator.Generate(generateCtx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	text := generation.Text
	if !generation.OK {
		s.logger.Warn().
			Str("model", generation.Model).
			Msg("Generator returned no text, using fallback answer")
		text = FallbackAnswer
	}

	s.logger.Info().
		Int("retrieved", len(texts)).
		Strs("sources", result.Sources).
		Dur("duration", time.Since(startTime)).
		Msg("Question answered")

	return &models.Answer{
		Answer:          text,
		RetrievedChunks: texts,
		SourceTitles:    result.Sources,
	}, nil
}
