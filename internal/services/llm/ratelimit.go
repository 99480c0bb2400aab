package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/ternarybob/askdocs/internal/interfaces"
)

// RateLimitedEmbedder throttles calls to an EmbeddingProvider.
// Ingestion fans out embedding requests, so this keeps the burst within provider quotas.
type RateLimitedEmbedder struct {
	next    interfaces.EmbeddingProvider
	limiter *rate.Limiter
}

// NewRateLimitedEmbedder wraps next with a limiter of requestsPerSecond.
// A non-positive rate returns next unchanged.
func NewRateLimitedEmbedder(next interfaces.EmbeddingProvider, requestsPerSecond float64) interfaces.EmbeddingProvider {
	if requestsPerSecond <= 0 {
		return next
	}
	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedEmbedder{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Embed waits for a token, then delegates
func (r *RateLimitedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}
	return r.next.Embed(ctx, text)
}

// Name identifies the wrapped provider
func (r *RateLimitedEmbedder) Name() string {
	return r.next.Name()
}

// Close closes the wrapped provider
func (r *RateLimitedEmbedder) Close() error {
	return r.next.Close()
}
