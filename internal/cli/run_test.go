package cli

import (
	"testing"

	"github.com/spf13/viper"
)

func TestLoadRunConfig_ViperValuesReachTheConfig(t *testing.T) {
	viper.Set("llm.money_model", "qwen2.5:7b")
	viper.Set("embedding.model", "all-minilm")
	viper.Set("extraction.money_batch_size", 7)
	viper.Set("rate_limit.requests_per_second", 9.5)
	t.Cleanup(viper.Reset)

	cfg, err := loadRunConfig()
	if err != nil {
		t.Fatalf("loadRunConfig: %v", err)
	}

	if cfg.LLM.MoneyModel != "qwen2.5:7b" {
		t.Errorf("money model = %q, want the configured value", cfg.LLM.MoneyModel)
	}
	if cfg.Embedding.Model != "all-minilm" {
		t.Errorf("embedding model = %q, want the configured value", cfg.Embedding.Model)
	}
	if cfg.Extraction.MoneyBatchSize != 7 {
		t.Errorf("money batch size = %d, want 7", cfg.Extraction.MoneyBatchSize)
	}
	if cfg.RateLimit.RequestsPerSecond != 9.5 {
		t.Errorf("rps = %v, want 9.5", cfg.RateLimit.RequestsPerSecond)
	}

	// Keys nobody configured keep their defaults.
	if cfg.LLM.EntityModel != "gemma3:27b" {
		t.Errorf("entity model = %q, want the default", cfg.LLM.EntityModel)
	}
	if cfg.Dedupe.Threshold != 0.5 {
		t.Errorf("dedupe threshold = %v, want the default", cfg.Dedupe.Threshold)
	}
}
