package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/ternarybob/askdocs/internal/common"
	"github.com/ternarybob/askdocs/internal/models"
)

// GeminiService provides embeddings and answer generation using Gemini models,
// either through the Gemini API (API key) or Vertex AI (project and location).
type GeminiService struct {
	config  *common.GeminiConfig
	logger  arbor.ILogger
	client  *genai.Client
	timeout time.Duration
	retry   *RetryConfig
}

// NewGeminiService creates a Gemini service for the configured backend
func NewGeminiService(ctx context.Context, config *common.GeminiConfig, timeout time.Duration, logger arbor.ILogger) (*GeminiService, error) {
	clientConfig := &genai.ClientConfig{}
	switch config.Backend {
	case common.GeminiBackendVertex:
		if config.Project == "" || config.Location == "" {
			return nil, fmt.Errorf("vertex backend requires project and location")
		}
		clientConfig.Backend = genai.BackendVertexAI
		clientConfig.Project = config.Project
		clientConfig.Location = config.Location
	default:
		if config.APIKey == "" {
			return nil, fmt.Errorf("Gemini API key is required (set ASKDOCS_GEMINI_API_KEY, GOOGLE_API_KEY, or gemini.api_key)")
		}
		clientConfig.Backend = genai.BackendGeminiAPI
		clientConfig.APIKey = config.APIKey
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	logger.Info().
		Str("backend", string(config.Backend)).
		Str("embed_model", config.EmbedModel).
		Str("chat_model", config.ChatModel).
		Dur("timeout", timeout).
		Msg("Gemini service initialized")

	return &GeminiService{
		config:  config,
		logger:  logger,
		client:  client,
		timeout: timeout,
		retry:   NewDefaultRetryConfig(),
	}, nil
}

// Embed generates an embedding vector for text
func (s *GeminiService) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty for embedding generation")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	startTime := time.Now()
	embedding, err := withRetry(timeoutCtx, s.retry, s.logger, "gemini_embed", func(ctx context.Context) ([]float32, error) {
		result, err := s.client.Models.EmbedContent(ctx, s.config.EmbedModel,
			[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, nil)
		if err != nil {
			return nil, err
		}
		return geminiEmbedding(result)
	})
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	s.logger.Trace().
		Int("text_length", len(text)).
		Int("embedding_dim", len(embedding)).
		Dur("duration", time.Since(startTime)).
		Msg("Gemini embedding generated")

	return embedding, nil
}

// Generate sends prompt as a single-turn request
func (s *GeminiService) Generate(ctx context.Context, prompt string) (models.Generation, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(s.config.Temperature),
		TopP:            genai.Ptr(s.config.TopP),
		TopK:            genai.Ptr(s.config.TopK),
		MaxOutputTokens: s.config.MaxOutputTokens,
	}
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	startTime := time.Now()
	resp, err := withRetry(timeoutCtx, s.retry, s.logger, "gemini_generate", func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		return s.client.Models.GenerateContent(ctx, s.config.ChatModel, contents, config)
	})
	if err != nil {
		return models.Generation{}, fmt.Errorf("gemini generation failed: %w", err)
	}

	generation := models.NewGeneration(geminiText(resp), s.config.ChatModel)

	s.logger.Debug().
		Str("model", s.config.ChatModel).
		Int("response_length", len(generation.Text)).
		Bool("ok", generation.OK).
		Dur("duration", time.Since(startTime)).
		Msg("Gemini generation completed")

	return generation, nil
}

// Name identifies the service in logs
func (s *GeminiService) Name() string {
	return "gemini/" + s.config.ChatModel + "+" + s.config.EmbedModel
}

// Close is a no-op; genai.Client holds no resources that need releasing.
// The client stays usable for calls still in flight during shutdown.
func (s *GeminiService) Close() error {
	return nil
}

// geminiEmbedding extracts the first embedding vector from a response
func geminiEmbedding(result *genai.EmbedContentResponse) ([]float32, error) {
	if result == nil || len(result.Embeddings) == 0 || result.Embeddings[0] == nil {
		return nil, fmt.Errorf("no embedding returned from API")
	}
	values := result.Embeddings[0].Values
	if len(values) == 0 {
		return nil, fmt.Errorf("empty embedding returned from API")
	}
	return values, nil
}

// geminiText returns the text of the first candidate that has any.
// Missing candidates, content or parts yield "".
func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var response strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.Text != "" && !part.Thought {
				response.WriteString(part.Text)
			}
		}
		if response.Len() > 0 {
			break
		}
	}
	return strings.TrimSpace(response.String())
}
