package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Logging     LoggingConfig   `toml:"logging"`
	Corpus      CorpusConfig    `toml:"corpus"`
	Chunking    ChunkingConfig  `toml:"chunking"`
	Retrieval   RetrievalConfig `toml:"retrieval"`
	Ingest      IngestConfig    `toml:"ingest"`
	Refresh     RefreshConfig   `toml:"refresh"`
	LLM         LLMConfig       `toml:"llm"`
	Gemini      GeminiConfig    `toml:"gemini"`
	Claude      ClaudeConfig    `toml:"claude"`
	OpenAI      OpenAIConfig    `toml:"openai"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"min=1,max=65535"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=trace debug info warn error"`
	Output []string `toml:"output" validate:"dive,oneof=stdout console file"` // "stdout", "file"
}

// CorpusSource selects the document store backend
type CorpusSource string

const (
	// CorpusSourceGCS reads documents from a Google Cloud Storage bucket
	CorpusSourceGCS CorpusSource = "gcs"
	// CorpusSourceFilesystem reads documents from a local directory
	CorpusSourceFilesystem CorpusSource = "filesystem"
)

type CorpusConfig struct {
	Source            CorpusSource `toml:"source" validate:"oneof=gcs filesystem"`
	Bucket            string       `toml:"bucket" validate:"required_if=Source gcs"`    // GCS bucket name
	Prefix            string       `toml:"prefix"`                                      // Optional object prefix within the bucket
	Dir               string       `toml:"dir" validate:"required_if=Source filesystem"` // Local corpus directory
	MarkdownPlainText bool         `toml:"markdown_plaintext"`                          // Render .md to plain text before chunking
}

type ChunkingConfig struct {
	Delimiter string `toml:"delimiter" validate:"oneof=paragraph sentence"` // "paragraph" (blank lines) or "sentence"
	MinLength int    `toml:"min_length" validate:"min=1"`                   // Minimum trimmed characters per chunk
}

type RetrievalConfig struct {
	TopK     int     `toml:"top_k" validate:"min=1"`
	MinScore float64 `toml:"min_score" validate:"gte=-1,lte=1"` // Candidates must score strictly above this
}

type IngestConfig struct {
	Concurrency int     `toml:"concurrency" validate:"min=1"` // Parallel embedding requests per document
	RateLimit   float64 `toml:"rate_limit" validate:"gte=0"`  // Embedding requests per second (0 = unlimited)
}

type RefreshConfig struct {
	Schedule string `toml:"schedule"` // Cron expression with seconds field; empty disables scheduled refresh
}

// LLMProvider represents an AI provider
type LLMProvider string

const (
	LLMProviderGemini LLMProvider = "gemini"
	LLMProviderClaude LLMProvider = "claude"
	LLMProviderOpenAI LLMProvider = "openai"
)

type LLMConfig struct {
	EmbedProvider  LLMProvider `toml:"embed_provider" validate:"oneof=gemini openai"`
	AnswerProvider LLMProvider `toml:"answer_provider" validate:"oneof=gemini claude openai"`
	Timeout        string      `toml:"timeout" validate:"required"` // Per-call timeout for embed and generate
}

// GeminiBackend selects how the genai client authenticates
type GeminiBackend string

const (
	GeminiBackendAPI    GeminiBackend = "gemini_api"
	GeminiBackendVertex GeminiBackend = "vertex"
)

// GeminiConfig contains Google Gemini configuration for embeddings and generation
type GeminiConfig struct {
	APIKey          string        `toml:"api_key"`                                     // Required for the gemini_api backend
	Backend         GeminiBackend `toml:"backend" validate:"oneof=gemini_api vertex"` // "gemini_api" or "vertex"
	Project         string        `toml:"project"`                                     // Vertex AI project ID
	Location        string        `toml:"location"`                                    // Vertex AI region
	EmbedModel      string        `toml:"embed_model" validate:"required"`
	ChatModel       string        `toml:"chat_model" validate:"required"`
	Temperature     float32       `toml:"temperature" validate:"gte=0,lte=2"`
	TopP            float32       `toml:"top_p" validate:"gte=0,lte=1"`
	TopK            float32       `toml:"top_k" validate:"gte=0"`
	MaxOutputTokens int32         `toml:"max_output_tokens" validate:"min=1"`
}

// ClaudeConfig contains Anthropic Claude configuration for answer generation
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model" validate:"required"`
	MaxTokens   int     `toml:"max_tokens" validate:"min=1"`
	Temperature float32 `toml:"temperature" validate:"gte=0,lte=1"`
}

// OpenAIConfig contains OpenAI-compatible configuration for embeddings and generation
type OpenAIConfig struct {
	APIKey      string  `toml:"api_key"`
	BaseURL     string  `toml:"base_url"` // Optional, for compatible endpoints
	EmbedModel  string  `toml:"embed_model" validate:"required"`
	ChatModel   string  `toml:"chat_model" validate:"required"`
	Temperature float32 `toml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `toml:"max_tokens" validate:"min=1"`
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 5000,
			Host: "0.0.0.0",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Corpus: CorpusConfig{
			Source: CorpusSourceGCS,
			Bucket: "fidgetech-rag-docs",
			Dir:    "./docs",
		},
		Chunking: ChunkingConfig{
			Delimiter: "paragraph", // Blank-line separated paragraphs
			MinLength: 50,          // Drop headers and stray fragments
		},
		Retrieval: RetrievalConfig{
			TopK:     3,
			MinScore: 0.6,
		},
		Ingest: IngestConfig{
			Concurrency: 4,
			RateLimit:   0,
		},
		Refresh: RefreshConfig{
			Schedule: "", // Disabled
		},
		LLM: LLMConfig{
			EmbedProvider:  LLMProviderGemini,
			AnswerProvider: LLMProviderGemini,
			Timeout:        "60s",
		},
		Gemini: GeminiConfig{
			Backend:         GeminiBackendAPI,
			Location:        "us-central1",
			EmbedModel:      "text-embedding-004",
			ChatModel:       "gemini-1.5-flash",
			Temperature:     0.2,
			TopP:            0.9,
			TopK:            40,
			MaxOutputTokens: 2048,
		},
		Claude: ClaudeConfig{
			Model:       "claude-haiku-4-5",
			MaxTokens:   2048,
			Temperature: 0.2,
		},
		OpenAI: OpenAIConfig{
			EmbedModel:  "text-embedding-3-small",
			ChatModel:   "gpt-4o-mini",
			Temperature: 0.2,
			MaxTokens:   2048,
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority: default -> file1 -> file2 -> ... -> .env -> env
// Later files override earlier files. CLI flags are applied afterwards with ApplyFlagOverrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Unmarshal merges over existing values
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
// ASKDOCS_* names take precedence over the plain deployment names.
func applyEnvOverrides(config *Config) {
	if env := firstEnv("ASKDOCS_ENV", "GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := firstEnv("ASKDOCS_SERVER_PORT", "PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("ASKDOCS_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging configuration
	if level := os.Getenv("ASKDOCS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("ASKDOCS_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Corpus configuration
	if source := os.Getenv("ASKDOCS_CORPUS_SOURCE"); source != "" {
		config.Corpus.Source = CorpusSource(strings.ToLower(source))
	}
	if bucket := firstEnv("ASKDOCS_CORPUS_BUCKET", "GCS_BUCKET_NAME"); bucket != "" {
		config.Corpus.Bucket = bucket
	}
	if prefix := os.Getenv("ASKDOCS_CORPUS_PREFIX"); prefix != "" {
		config.Corpus.Prefix = prefix
	}
	if dir := os.Getenv("ASKDOCS_CORPUS_DIR"); dir != "" {
		config.Corpus.Dir = dir
	}

	// Retrieval and ingestion tuning
	if topK := os.Getenv("ASKDOCS_RETRIEVAL_TOP_K"); topK != "" {
		if k, err := strconv.Atoi(topK); err == nil {
			config.Retrieval.TopK = k
		}
	}
	if minScore := os.Getenv("ASKDOCS_RETRIEVAL_MIN_SCORE"); minScore != "" {
		if f, err := strconv.ParseFloat(minScore, 64); err == nil {
			config.Retrieval.MinScore = f
		}
	}
	if concurrency := os.Getenv("ASKDOCS_INGEST_CONCURRENCY"); concurrency != "" {
		if c, err := strconv.Atoi(concurrency); err == nil {
			config.Ingest.Concurrency = c
		}
	}
	if schedule := os.Getenv("ASKDOCS_REFRESH_SCHEDULE"); schedule != "" {
		config.Refresh.Schedule = schedule
	}

	// Provider selection
	if p := os.Getenv("ASKDOCS_LLM_EMBED_PROVIDER"); p != "" {
		config.LLM.EmbedProvider = LLMProvider(strings.ToLower(p))
	}
	if p := os.Getenv("ASKDOCS_LLM_ANSWER_PROVIDER"); p != "" {
		config.LLM.AnswerProvider = LLMProvider(strings.ToLower(p))
	}
	if timeout := os.Getenv("ASKDOCS_LLM_TIMEOUT"); timeout != "" {
		config.LLM.Timeout = timeout
	}

	// Gemini / Vertex AI
	if key := firstEnv("ASKDOCS_GEMINI_API_KEY", "GOOGLE_API_KEY", "GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if backend := os.Getenv("ASKDOCS_GEMINI_BACKEND"); backend != "" {
		config.Gemini.Backend = GeminiBackend(strings.ToLower(backend))
	}
	if project := firstEnv("ASKDOCS_GEMINI_PROJECT", "GOOGLE_CLOUD_PROJECT_ID"); project != "" {
		config.Gemini.Project = project
	}
	if location := firstEnv("ASKDOCS_GEMINI_LOCATION", "GOOGLE_CLOUD_LOCATION"); location != "" {
		config.Gemini.Location = location
	}

	// Claude
	if key := firstEnv("ASKDOCS_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}

	// OpenAI
	if key := firstEnv("ASKDOCS_OPENAI_API_KEY", "OPENAI_API_KEY"); key != "" {
		config.OpenAI.APIKey = key
	}
	if baseURL := os.Getenv("ASKDOCS_OPENAI_BASE_URL"); baseURL != "" {
		config.OpenAI.BaseURL = baseURL
	}
}

// firstEnv returns the first non-empty environment variable among names
func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks field constraints and the cross-field rules the struct tags cannot express
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if _, err := c.LLMTimeout(); err != nil {
		return err
	}

	usesGemini := c.LLM.EmbedProvider == LLMProviderGemini || c.LLM.AnswerProvider == LLMProviderGemini
	if usesGemini {
		switch c.Gemini.Backend {
		case GeminiBackendAPI:
			if c.Gemini.APIKey == "" {
				return fmt.Errorf("gemini API key is required (set ASKDOCS_GEMINI_API_KEY, GOOGLE_API_KEY, or gemini.api_key)")
			}
		case GeminiBackendVertex:
			if c.Gemini.Project == "" || c.Gemini.Location == "" {
				return fmt.Errorf("vertex backend requires gemini.project and gemini.location (or GOOGLE_CLOUD_PROJECT_ID and GOOGLE_CLOUD_LOCATION)")
			}
		}
	}
	if c.LLM.AnswerProvider == LLMProviderClaude && c.Claude.APIKey == "" {
		return fmt.Errorf("anthropic API key is required (set ANTHROPIC_API_KEY or claude.api_key)")
	}
	usesOpenAI := c.LLM.EmbedProvider == LLMProviderOpenAI || c.LLM.AnswerProvider == LLMProviderOpenAI
	if usesOpenAI && c.OpenAI.APIKey == "" && c.OpenAI.BaseURL == "" {
		return fmt.Errorf("openai API key is required (set OPENAI_API_KEY or openai.api_key)")
	}

	if c.Refresh.Schedule != "" {
		if err := ValidateRefreshSchedule(c.Refresh.Schedule); err != nil {
			return err
		}
	}

	return nil
}

// LLMTimeout parses the per-call provider timeout
func (c *Config) LLMTimeout() (time.Duration, error) {
	timeout, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid llm timeout '%s': %w", c.LLM.Timeout, err)
	}
	if timeout <= 0 {
		return 0, fmt.Errorf("llm timeout must be positive, got %s", c.LLM.Timeout)
	}
	return timeout, nil
}

// ValidateRefreshSchedule validates a six-field cron expression (seconds first)
// and rejects schedules that fire more than once a minute.
func ValidateRefreshSchedule(schedule string) error {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid refresh schedule: %w", err)
	}

	parts := strings.Fields(schedule)
	if len(parts) == 6 && (parts[0] == "*" || strings.HasPrefix(parts[0], "*/")) {
		return fmt.Errorf("refresh schedule must not run more than once a minute")
	}

	return nil
}

