package corpus

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/askdocs/internal/common"
	"github.com/ternarybob/askdocs/internal/interfaces"
)

// NewLoader builds the corpus loader selected by config
func NewLoader(ctx context.Context, config *common.CorpusConfig, logger arbor.ILogger) (interfaces.CorpusLoader, error) {
	switch config.Source {
	case common.CorpusSourceGCS:
		return NewGCSLoader(ctx, config.Bucket, config.Prefix, logger)
	case common.CorpusSourceFilesystem:
		return NewFilesystemLoader(config.Dir, logger), nil
	default:
		return nil, fmt.Errorf("unknown corpus source: %s", config.Source)
	}
}
