package interfaces

import (
	"context"

	"github.com/ternarybob/askdocs/internal/models"
)

// EmbeddingProvider turns text into a fixed-length vector.
// All vectors returned by one provider must share the same dimension.
type EmbeddingProvider interface {
	// Embed generates an embedding vector for the given text
	Embed(ctx context.Context, text string) ([]float32, error)

	// Name identifies the provider and model for logging
	Name() string

	// Close releases any client resources
	Close() error
}

// AnswerGenerator produces text for a single-turn prompt.
// Implementations keep no conversation state between calls.
type AnswerGenerator interface {
	// Generate sends the prompt as a fresh exchange.
	// A response without usable text is returned with Generation.OK=false
	// rather than as an error.
	Generate(ctx context.Context, prompt string) (models.Generation, error)

	// Name identifies the provider and model for logging
	Name() string

	// Close releases any client resources
	Close() error
}
