package model

import "time"

// Config is the complete runtime configuration, assembled from defaults,
// ~/.callsift/config.yaml, CALLSIFT_* environment variables and CLI flags.
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Extraction  ExtractionConfig  `yaml:"extraction"`
	Dedupe      DedupeConfig      `yaml:"dedupe"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Output      OutputConfig      `yaml:"output"`
}

// LLMConfig configures the OpenAI-compatible chat endpoint. Ollama exposes
// one at <base_url>/v1, which is the default target for local models.
type LLMConfig struct {
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key,omitempty"`
	MoneyModel  string        `yaml:"money_model"`
	EntityModel string        `yaml:"entity_model"`
	Temperature float32       `yaml:"temperature"`
	TopP        float32       `yaml:"top_p"`
	Seed        int           `yaml:"seed"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

// EmbeddingConfig configures the embedding endpoint used by deduplication.
type EmbeddingConfig struct {
	BaseURL  string        `yaml:"base_url"`
	APIKey   string        `yaml:"api_key,omitempty"`
	Model    string        `yaml:"model"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// ExtractionConfig bounds batch composition and failure handling.
type ExtractionConfig struct {
	ReferenceDepth  string `yaml:"reference_depth"`
	MoneyBatchSize  int    `yaml:"money_batch_size"`
	EntityBatchSize int    `yaml:"entity_batch_size"`
	MaxRetries      int    `yaml:"max_retries"`
	// FailureThreshold is the number of failed batches per document after
	// which the document is abandoned (partial results are kept).
	FailureThreshold int `yaml:"failure_threshold"`
}

// DedupeConfig tunes the semantic duplicate collapse.
// Threshold is a cosine distance: higher merges more aggressively.
type DedupeConfig struct {
	Threshold float64 `yaml:"threshold"`
}

// ConcurrencyConfig bounds in-flight model calls per document.
type ConcurrencyConfig struct {
	BatchWorkers int `yaml:"batch_workers"`
}

// RateLimitConfig throttles calls to the model endpoint. The endpoint is
// the serialization point, not an in-process lock.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// OutputConfig controls artifact placement and verbosity.
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	Verbose bool   `yaml:"verbose"`
}

// DefaultConfig returns the documented defaults. Model choices and batch
// sizes follow what worked against local models: small batches give higher
// precision structured extraction than whole-document prompts.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			BaseURL:     "http://localhost:11434/v1",
			MoneyModel:  "phi4:14b",
			EntityModel: "gemma3:27b",
			Temperature: 0.3,
			TopP:        0.3,
			Seed:        42,
			MaxTokens:   4096,
			Timeout:     2 * time.Minute,
		},
		Embedding: EmbeddingConfig{
			BaseURL:  "http://localhost:11434/v1",
			Model:    "nomic-embed-text",
			CacheTTL: 30 * time.Minute,
		},
		Extraction: ExtractionConfig{
			ReferenceDepth:   string(DepthParagraphs),
			MoneyBatchSize:   3,
			EntityBatchSize:  1,
			MaxRetries:       2,
			FailureThreshold: 5,
		},
		Dedupe: DedupeConfig{
			Threshold: 0.5,
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 4,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Output: OutputConfig{
			Dir: ".",
		},
	}
}
