package handlers

import (
	"context"

	"github.com/ternarybob/askdocs/internal/models"
	"github.com/ternarybob/askdocs/internal/services/ingest"
)

// Answerer answers a single question against the published index.
type Answerer interface {
	Answer(ctx context.Context, query string) (*models.Answer, error)
}

// RefreshStatusReporter describes the last rebuild and the refresh schedule.
type RefreshStatusReporter interface {
	RefreshStatus() models.RefreshStatus
}

// IndexRefresher rebuilds and publishes the index.
type IndexRefresher interface {
	Refresh(ctx context.Context) (ingest.Stats, error)
}
