package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "askdocs.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, 5000, config.Server.Port)
	assert.Equal(t, CorpusSourceGCS, config.Corpus.Source)
	assert.Equal(t, "fidgetech-rag-docs", config.Corpus.Bucket)
	assert.Equal(t, 3, config.Retrieval.TopK)
	assert.Equal(t, 0.6, config.Retrieval.MinScore)
	assert.Equal(t, 50, config.Chunking.MinLength)
	assert.Equal(t, "text-embedding-004", config.Gemini.EmbedModel)
	assert.Equal(t, "gemini-1.5-flash", config.Gemini.ChatModel)
	assert.Equal(t, int32(2048), config.Gemini.MaxOutputTokens)
	assert.Equal(t, float32(0.2), config.Gemini.Temperature)
	assert.Equal(t, "us-central1", config.Gemini.Location)
}

func TestLoadFromFiles_LaterFilesOverride(t *testing.T) {
	base := writeConfig(t, `
[server]
port = 6000

[corpus]
source = "filesystem"
dir = "/srv/docs"
`)
	override := writeConfig(t, `
[server]
port = 7000

[retrieval]
top_k = 5
`)

	config, err := LoadFromFiles(base, override)

	require.NoError(t, err)
	assert.Equal(t, 7000, config.Server.Port)
	assert.Equal(t, CorpusSourceFilesystem, config.Corpus.Source)
	assert.Equal(t, "/srv/docs", config.Corpus.Dir)
	assert.Equal(t, 5, config.Retrieval.TopK)
	// Untouched values keep their defaults
	assert.Equal(t, 0.6, config.Retrieval.MinScore)
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadFromFiles_InvalidTOML(t *testing.T) {
	path := writeConfig(t, "[server\nport = ")

	_, err := LoadFromFiles(path)

	assert.Error(t, err)
}

func TestLoadFromFiles_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("GCS_BUCKET_NAME", "other-bucket")
	t.Setenv("GOOGLE_CLOUD_PROJECT_ID", "proj-1")
	t.Setenv("GOOGLE_CLOUD_LOCATION", "europe-west1")
	t.Setenv("ASKDOCS_LLM_ANSWER_PROVIDER", "Claude")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	config, err := LoadFromFiles()

	require.NoError(t, err)
	assert.Equal(t, 8081, config.Server.Port)
	assert.Equal(t, "other-bucket", config.Corpus.Bucket)
	assert.Equal(t, "proj-1", config.Gemini.Project)
	assert.Equal(t, "europe-west1", config.Gemini.Location)
	assert.Equal(t, LLMProviderClaude, config.LLM.AnswerProvider)
	assert.Equal(t, "sk-ant", config.Claude.APIKey)
}

func TestLoadFromFiles_PrefixedEnvWins(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("ASKDOCS_SERVER_PORT", "9090")

	config, err := LoadFromFiles()

	require.NoError(t, err)
	assert.Equal(t, 9090, config.Server.Port)
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, 0, "")
	assert.Equal(t, 5000, config.Server.Port)

	ApplyFlagOverrides(config, 9000, "127.0.0.1")
	assert.Equal(t, 9000, config.Server.Port)
	assert.Equal(t, "127.0.0.1", config.Server.Host)
}

func validConfig() *Config {
	config := NewDefaultConfig()
	config.Gemini.APIKey = "test-key"
	return config
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults with key", func(c *Config) {}, false},
		{"missing gemini key", func(c *Config) { c.Gemini.APIKey = "" }, true},
		{"vertex without project", func(c *Config) {
			c.Gemini.APIKey = ""
			c.Gemini.Backend = GeminiBackendVertex
		}, true},
		{"vertex with project", func(c *Config) {
			c.Gemini.APIKey = ""
			c.Gemini.Backend = GeminiBackendVertex
			c.Gemini.Project = "proj"
		}, false},
		{"claude without key", func(c *Config) { c.LLM.AnswerProvider = LLMProviderClaude }, true},
		{"claude with key", func(c *Config) {
			c.LLM.AnswerProvider = LLMProviderClaude
			c.Claude.APIKey = "sk"
		}, false},
		{"openai embed without key", func(c *Config) { c.LLM.EmbedProvider = LLMProviderOpenAI }, true},
		{"claude cannot embed", func(c *Config) { c.LLM.EmbedProvider = LLMProviderClaude }, true},
		{"unknown corpus source", func(c *Config) { c.Corpus.Source = "s3" }, true},
		{"gcs without bucket", func(c *Config) { c.Corpus.Bucket = "" }, true},
		{"filesystem without dir", func(c *Config) {
			c.Corpus.Source = CorpusSourceFilesystem
			c.Corpus.Dir = ""
		}, true},
		{"bad delimiter", func(c *Config) { c.Chunking.Delimiter = "words" }, true},
		{"zero top k", func(c *Config) { c.Retrieval.TopK = 0 }, true},
		{"min score out of range", func(c *Config) { c.Retrieval.MinScore = 1.5 }, true},
		{"bad timeout", func(c *Config) { c.LLM.Timeout = "soon" }, true},
		{"negative timeout", func(c *Config) { c.LLM.Timeout = "-5s" }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"valid schedule", func(c *Config) { c.Refresh.Schedule = "0 0 */6 * * *" }, false},
		{"invalid schedule", func(c *Config) { c.Refresh.Schedule = "whenever" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(config)

			err := config.Validate()

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRefreshSchedule(t *testing.T) {
	assert.NoError(t, ValidateRefreshSchedule("0 */15 * * * *"))
	assert.NoError(t, ValidateRefreshSchedule("@hourly"))
	assert.Error(t, ValidateRefreshSchedule("* * * * * *"))
	assert.Error(t, ValidateRefreshSchedule("*/10 * * * * *"))
	assert.Error(t, ValidateRefreshSchedule("0 0 * *"))
}

func TestLLMTimeout(t *testing.T) {
	config := NewDefaultConfig()

	timeout, err := config.LLMTimeout()

	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, timeout)
}

