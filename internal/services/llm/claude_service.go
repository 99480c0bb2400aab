package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/askdocs/internal/common"
	"github.com/ternarybob/askdocs/internal/models"
)

// ClaudeService generates answers using the Anthropic Messages API.
// Claude has no embedding endpoint, so it only serves as an AnswerGenerator.
type ClaudeService struct {
	config  *common.ClaudeConfig
	logger  arbor.ILogger
	client  anthropic.Client
	timeout time.Duration
	retry   *RetryConfig
}

// NewClaudeService creates a new Claude answer generator
func NewClaudeService(config *common.ClaudeConfig, timeout time.Duration, logger arbor.ILogger) (*ClaudeService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required for Claude service (set ANTHROPIC_API_KEY, ASKDOCS_CLAUDE_API_KEY, or claude.api_key in config)")
	}

	client := anthropic.NewClient(
		option.WithAPIKey(config.APIKey),
	)

	logger.Info().
		Str("model", config.Model).
		Dur("timeout", timeout).
		Float32("temperature", config.Temperature).
		Int("max_tokens", config.MaxTokens).
		Msg("Claude service initialized")

	return &ClaudeService{
		config:  config,
		logger:  logger,
		client:  client,
		timeout: timeout,
		retry:   NewDefaultRetryConfig(),
	}, nil
}

// messageParams builds a single-turn request. Temperature is always sent
// so a configured 0 is not replaced by the API default.
func (s *ClaudeService) messageParams(prompt string) anthropic.MessageNewParams {
	return anthropic.MessageNewParams{
		Model:       anthropic.Model(s.config.Model),
		MaxTokens:   int64(s.config.MaxTokens),
		Temperature: anthropic.Float(float64(s.config.Temperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
}

// Generate sends prompt as a single user message
func (s *ClaudeService) Generate(ctx context.Context, prompt string) (models.Generation, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := s.messageParams(prompt)

	startTime := time.Now()
	resp, err := withRetry(timeoutCtx, s.retry, s.logger, "claude_generate", func(ctx context.Context) (*anthropic.Message, error) {
		return s.client.Messages.New(ctx, params)
	})
	if err != nil {
		return models.Generation{}, fmt.Errorf("Claude API call failed: %w", err)
	}

	generation := models.NewGeneration(claudeText(resp), s.config.Model)

	s.logger.Debug().
		Str("model", s.config.Model).
		Int("response_length", len(generation.Text)).
		Bool("ok", generation.OK).
		Dur("duration", time.Since(startTime)).
		Msg("Claude generation completed")

	return generation, nil
}

// Name identifies the service in logs
func (s *ClaudeService) Name() string {
	return "claude/" + s.config.Model
}

// Close is a no-op; the Anthropic client holds no resources
func (s *ClaudeService) Close() error {
	return nil
}

// claudeText concatenates the text blocks of a message
func claudeText(resp *anthropic.Message) string {
	if resp == nil {
		return ""
	}
	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(text.String())
}
