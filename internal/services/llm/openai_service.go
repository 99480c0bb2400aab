package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/askdocs/internal/common"
	"github.com/ternarybob/askdocs/internal/models"
)

// OpenAIService provides embeddings and generation through the OpenAI API
// or any endpoint compatible with it.
type OpenAIService struct {
	config  *common.OpenAIConfig
	logger  arbor.ILogger
	client  *openai.Client
	timeout time.Duration
	retry   *RetryConfig
}

// NewOpenAIService creates a new OpenAI service
func NewOpenAIService(config *common.OpenAIConfig, timeout time.Duration, logger arbor.ILogger) (*OpenAIService, error) {
	if config.APIKey == "" && config.BaseURL == "" {
		return nil, fmt.Errorf("OpenAI API key is required (set OPENAI_API_KEY, ASKDOCS_OPENAI_API_KEY, or openai.api_key)")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	logger.Info().
		Str("embed_model", config.EmbedModel).
		Str("chat_model", config.ChatModel).
		Str("base_url", clientConfig.BaseURL).
		Dur("timeout", timeout).
		Msg("OpenAI service initialized")

	return &OpenAIService{
		config:  config,
		logger:  logger,
		client:  openai.NewClientWithConfig(clientConfig),
		timeout: timeout,
		retry:   NewDefaultRetryConfig(),
	}, nil
}

// Embed generates an embedding vector for text
func (s *OpenAIService) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty for embedding generation")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	embedding, err := withRetry(timeoutCtx, s.retry, s.logger, "openai_embed", func(ctx context.Context) ([]float32, error) {
		resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: []string{text},
			Model: openai.EmbeddingModel(s.config.EmbedModel),
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
			return nil, fmt.Errorf("no embedding returned from API")
		}
		return resp.Data[0].Embedding, nil
	})
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	return embedding, nil
}

// Generate sends prompt as a single user message
func (s *OpenAIService) Generate(ctx context.Context, prompt string) (models.Generation, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	request := openai.ChatCompletionRequest{
		Model: s.config.ChatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: s.config.Temperature,
		MaxTokens:   s.config.MaxTokens,
	}

	startTime := time.Now()
	resp, err := withRetry(timeoutCtx, s.retry, s.logger, "openai_generate", func(ctx context.Context) (openai.ChatCompletionResponse, error) {
		return s.client.CreateChatCompletion(ctx, request)
	})
	if err != nil {
		return models.Generation{}, fmt.Errorf("OpenAI chat completion failed: %w", err)
	}

	generation := models.NewGeneration(openaiText(resp), s.config.ChatModel)

	s.logger.Debug().
		Str("model", s.config.ChatModel).
		Int("response_length", len(generation.Text)).
		Bool("ok", generation.OK).
		Dur("duration", time.Since(startTime)).
		Msg("OpenAI generation completed")

	return generation, nil
}

// Name identifies the service in logs
func (s *OpenAIService) Name() string {
	return "openai/" + s.config.ChatModel + "+" + s.config.EmbedModel
}

// Close is a no-op; the HTTP client is shared
func (s *OpenAIService) Close() error {
	return nil
}

// openaiText returns the first non-empty choice
func openaiText(resp openai.ChatCompletionResponse) string {
	for _, choice := range resp.Choices {
		if text := strings.TrimSpace(choice.Message.Content); text != "" {
			return text
		}
	}
	return ""
}
