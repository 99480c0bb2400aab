package llm

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/askdocs/internal/common"
	"github.com/ternarybob/askdocs/internal/interfaces"
)

// Providers holds the embedding provider and answer generator selected by config.
// When both use the same vendor they share one client.
type Providers struct {
	Embedder  interfaces.EmbeddingProvider
	Generator interfaces.AnswerGenerator

	closers []func() error
}

// NewProviders builds the configured providers
func NewProviders(ctx context.Context, config *common.Config, logger arbor.ILogger) (*Providers, error) {
	timeout, err := config.LLMTimeout()
	if err != nil {
		return nil, err
	}

	p := &Providers{}
	var gemini *GeminiService
	var openAI *OpenAIService

	getGemini := func() (*GeminiService, error) {
		if gemini == nil {
			svc, err := NewGeminiService(ctx, &config.Gemini, timeout, logger)
			if err != nil {
				return nil, err
			}
			gemini = svc
			p.closers = append(p.closers, svc.Close)
		}
		return gemini, nil
	}
	getOpenAI := func() (*OpenAIService, error) {
		if openAI == nil {
			svc, err := NewOpenAIService(&config.OpenAI, timeout, logger)
			if err != nil {
				return nil, err
			}
			openAI = svc
			p.closers = append(p.closers, svc.Close)
		}
		return openAI, nil
	}

	switch config.LLM.EmbedProvider {
	case common.LLMProviderGemini:
		svc, err := getGemini()
		if err != nil {
			return nil, fmt.Errorf("failed to create embedding provider: %w", err)
		}
		p.Embedder = svc
	case common.LLMProviderOpenAI:
		svc, err := getOpenAI()
		if err != nil {
			return nil, fmt.Errorf("failed to create embedding provider: %w", err)
		}
		p.Embedder = svc
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", config.LLM.EmbedProvider)
	}

	switch config.LLM.AnswerProvider {
	case common.LLMProviderGemini:
		svc, err := getGemini()
		if err != nil {
			return nil, fmt.Errorf("failed to create answer generator: %w", err)
		}
		p.Generator = svc
	case common.LLMProviderOpenAI:
		svc, err := getOpenAI()
		if err != nil {
			return nil, fmt.Errorf("failed to create answer generator: %w", err)
		}
		p.Generator = svc
	case common.LLMProviderClaude:
		svc, err := NewClaudeService(&config.Claude, timeout, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create answer generator: %w", err)
		}
		p.closers = append(p.closers, svc.Close)
		p.Generator = svc
	default:
		return nil, fmt.Errorf("unsupported answer provider: %s", config.LLM.AnswerProvider)
	}

	p.Embedder = NewRateLimitedEmbedder(p.Embedder, config.Ingest.RateLimit)

	logger.Info().
		Str("embedder", p.Embedder.Name()).
		Str("generator", p.Generator.Name()).
		Msg("AI providers ready")

	return p, nil
}

// Close releases every underlying client once
func (p *Providers) Close() error {
	var firstErr error
	for _, closeFn := range p.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
