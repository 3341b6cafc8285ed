package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/ppiankov/callsift/internal/model"
	"github.com/ppiankov/callsift/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	outDir           string
	baseURL          string
	moneyModel       string
	entityModel      string
	embedModel       string
	referenceDepth   string
	moneyBatchSize   int
	entityBatchSize  int
	maxRetries       int
	failureThreshold int
	dedupeThreshold  float64
	batchWorkers     int
	requestsPerSec   float64
	timeout          time.Duration
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <directory>",
	Short: "Extract monetary and consortium facts from the call PDFs in a directory",
	Long: `Run selects the call documents in a directory (one revision per
document series plus every standalone call PDF), converts them to text and
extracts:
- monetary facts with the money model
- consortium composition facts with the entity model

Results land in the output directory as JSON (raw facts) and CSV
(validated, filtered tables).

Example:
  callsift run ./calls
  callsift run ./calls --out results --money-model phi4:14b --depth sentences
  callsift run ./calls --base-url http://gpu-box:11434/v1 --rps 4`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Output flags
	runCmd.Flags().StringVar(&outDir, "out", ".", "output directory for result artifacts")

	// Endpoint flags
	runCmd.Flags().StringVar(&baseURL, "base-url", "http://localhost:11434/v1", "OpenAI-compatible endpoint (Ollama exposes /v1)")
	runCmd.Flags().StringVar(&moneyModel, "money-model", "phi4:14b", "model for monetary extraction")
	runCmd.Flags().StringVar(&entityModel, "entity-model", "gemma3:27b", "model for consortium extraction")
	runCmd.Flags().StringVar(&embedModel, "embed-model", "nomic-embed-text", "embedding model for deduplication")
	runCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Minute, "overall run timeout")

	// Extraction flags
	runCmd.Flags().StringVar(&referenceDepth, "depth", "paragraphs", "text unit granularity for monetary extraction (paragraphs, sentences)")
	runCmd.Flags().IntVar(&moneyBatchSize, "money-batch", 3, "units per monetary extraction batch")
	runCmd.Flags().IntVar(&entityBatchSize, "entity-batch", 1, "units per consortium extraction batch")
	runCmd.Flags().IntVar(&maxRetries, "retries", 2, "re-dispatches per failed batch")
	runCmd.Flags().IntVar(&failureThreshold, "failure-threshold", 5, "failed batches per document before it is abandoned (0 disables)")
	runCmd.Flags().Float64Var(&dedupeThreshold, "dedupe-threshold", 0.5, "cosine distance under which monetary mentions merge")

	// Concurrency flags
	runCmd.Flags().IntVar(&batchWorkers, "workers", 4, "concurrent in-flight batches")
	runCmd.Flags().Float64Var(&requestsPerSec, "rps", 2, "model requests per second")

	// Bind flags to their config keys so file and env values flow into the
	// same place; a flag set on the command line still wins
	flags := runCmd.Flags()
	_ = viper.BindPFlag("output.dir", flags.Lookup("out"))
	_ = viper.BindPFlag("llm.base_url", flags.Lookup("base-url"))
	_ = viper.BindPFlag("llm.money_model", flags.Lookup("money-model"))
	_ = viper.BindPFlag("llm.entity_model", flags.Lookup("entity-model"))
	_ = viper.BindPFlag("embedding.base_url", flags.Lookup("base-url"))
	_ = viper.BindPFlag("embedding.model", flags.Lookup("embed-model"))
	_ = viper.BindPFlag("extraction.reference_depth", flags.Lookup("depth"))
	_ = viper.BindPFlag("extraction.money_batch_size", flags.Lookup("money-batch"))
	_ = viper.BindPFlag("extraction.entity_batch_size", flags.Lookup("entity-batch"))
	_ = viper.BindPFlag("extraction.max_retries", flags.Lookup("retries"))
	_ = viper.BindPFlag("extraction.failure_threshold", flags.Lookup("failure-threshold"))
	_ = viper.BindPFlag("dedupe.threshold", flags.Lookup("dedupe-threshold"))
	_ = viper.BindPFlag("concurrency.batch_workers", flags.Lookup("workers"))
	_ = viper.BindPFlag("rate_limit.requests_per_second", flags.Lookup("rps"))
}

// loadRunConfig layers ~/.callsift/config.yaml and CALLSIFT_* values over
// the defaults. Explicitly set flags win through their viper bindings.
func loadRunConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) { dc.TagName = "yaml" }); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.Output.Verbose = verbose
	return cfg, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Input directory: %s\n", dir)
		fmt.Fprintf(os.Stderr, "Endpoint: %s\n", cfg.LLM.BaseURL)
		fmt.Fprintf(os.Stderr, "Models: money=%s entity=%s embed=%s\n",
			cfg.LLM.MoneyModel, cfg.LLM.EntityModel, cfg.Embedding.Model)
		fmt.Fprintln(os.Stderr)
	}

	// Create pipeline
	p := pipeline.NewPipeline(cfg)

	result, err := p.Run(ctx, dir)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	if len(result.Summary.Documents) == 0 {
		fmt.Println("No call PDFs found.")
		return nil
	}

	if err := p.WriteArtifacts(result, cfg.Output.Dir); err != nil {
		return fmt.Errorf("write artifacts: %w", err)
	}

	printSummary(result)
	return nil
}

func printSummary(result *pipeline.Result) {
	s := result.Summary
	fmt.Printf("Documents processed: %d (%d failed)\n", len(s.Documents), s.FailedDocs)
	fmt.Printf("Monetary facts: %d (%d after dedupe)\n", s.MoneyFacts, s.AfterDedupe)
	fmt.Printf("Consortium facts: %d\n", s.EntityFacts)

	for _, ds := range s.Documents {
		switch {
		case ds.Error != "":
			fmt.Printf("  ✗ %s: %s\n", ds.DocumentID, ds.Error)
		case ds.Abandoned:
			fmt.Printf("  ✗ %s: abandoned after %d failed batches (partial results kept)\n",
				ds.DocumentID, ds.FailedBatches+ds.SkippedBatches)
		default:
			fmt.Printf("  ✓ %s: %d facts from %d batches\n",
				ds.DocumentID, ds.ExtractedFacts, ds.MoneyBatches+ds.EntityBatches)
		}
	}
}
