package common

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner and a summary of the resolved configuration
func PrintBanner(config *Config, logger arbor.ILogger) {
	banner.PrintSimple("askdocs", GetVersion())

	corpus := config.Corpus.Bucket
	if config.Corpus.Source == CorpusSourceFilesystem {
		corpus = config.Corpus.Dir
	}

	logger.Info().
		Str("version", GetFullVersion()).
		Str("environment", config.Environment).
		Str("corpus_source", string(config.Corpus.Source)).
		Str("corpus", corpus).
		Str("embed_provider", string(config.LLM.EmbedProvider)).
		Str("answer_provider", string(config.LLM.AnswerProvider)).
		Msg("Configuration resolved")
}
