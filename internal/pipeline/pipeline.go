// Package pipeline orchestrates the complete run: select call PDFs, convert
// them to text, segment, filter, extract monetary and consortium facts with
// local models, and collapse semantic duplicates.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/callsift/internal/cache"
	"github.com/ppiankov/callsift/internal/dedupe"
	"github.com/ppiankov/callsift/internal/extract"
	"github.com/ppiankov/callsift/internal/filter"
	"github.com/ppiankov/callsift/internal/llm"
	"github.com/ppiankov/callsift/internal/model"
	"github.com/ppiankov/callsift/internal/pdf"
	"github.com/ppiankov/callsift/internal/segment"
	"github.com/ppiankov/callsift/internal/worker"
)

// Pipeline orchestrates the complete extraction process.
type Pipeline struct {
	converter pdf.TextExtractor
	extractor *extract.Extractor
	deduper   *dedupe.Deduplicator
	config    *model.Config
}

// NewPipeline wires the real components from configuration.
func NewPipeline(cfg *model.Config) *Pipeline {
	client := llm.NewClient(cfg.LLM)
	limiter := worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	extractor := extract.New(client, limiter,
		cfg.Concurrency.BatchWorkers, cfg.Extraction.MaxRetries, cfg.Extraction.FailureThreshold)

	embedCache := cache.NewMemoryCache(cfg.Embedding.CacheTTL, 10*time.Minute)
	embedder := llm.NewCachedEmbedder(llm.NewEmbedder(cfg.Embedding), embedCache, cfg.Embedding)
	deduper := dedupe.New(embedder, cfg.Dedupe.Threshold)

	return New(cfg, pdf.NewConverter(), extractor, deduper)
}

// New assembles a pipeline from explicit components.
func New(cfg *model.Config, converter pdf.TextExtractor, extractor *extract.Extractor, deduper *dedupe.Deduplicator) *Pipeline {
	return &Pipeline{
		converter: converter,
		extractor: extractor,
		deduper:   deduper,
		config:    cfg,
	}
}

// Result carries everything one run produced.
type Result struct {
	MoneyFacts  []model.MonetaryFact
	EntityFacts []model.EntityFact
	Summary     model.RunSummary
}

// Run processes every selected call PDF in the directory. Per-document
// failures are recorded in the summary and never abort the run; the returned
// error covers setup problems only.
func (p *Pipeline) Run(ctx context.Context, dir string) (*Result, error) {
	depth, err := model.ParseReferenceDepth(p.config.Extraction.ReferenceDepth)
	if err != nil {
		return nil, err
	}

	paths, err := pdf.SelectCallPDFs(dir)
	if err != nil {
		return nil, fmt.Errorf("select call PDFs: %w", err)
	}

	result := &Result{}
	moneyPattern := filter.Money()
	entityPattern := filter.Consortium()
	titles := pdf.SeriesTitles(paths)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		// Series PDFs are identified by their series token, everything else
		// by file name.
		docID := titles[path]
		if docID == "" {
			docID = filepath.Base(path)
		}
		ds := p.processDocument(ctx, docID, path, depth, moneyPattern, entityPattern, result)
		result.Summary.Add(ds)
	}

	result.Summary.MoneyFacts = len(result.MoneyFacts)
	result.Summary.EntityFacts = len(result.EntityFacts)

	result.MoneyFacts = p.deduper.Deduplicate(ctx, result.MoneyFacts)
	result.Summary.AfterDedupe = len(result.MoneyFacts)

	if p.config.Output.Verbose {
		fmt.Fprintf(os.Stderr, "✓ %s\n", dedupe.Describe(result.Summary.MoneyFacts, result.Summary.AfterDedupe))
	}
	return result, nil
}

// processDocument runs the per-document stages and returns its summary line.
// Extracted facts are appended to the accumulated result, including partial
// results from abandoned documents.
func (p *Pipeline) processDocument(ctx context.Context, docID, path string, depth model.ReferenceDepth, moneyPattern, entityPattern filter.Pattern, result *Result) model.DocumentSummary {
	ds := model.DocumentSummary{DocumentID: docID}
	verbose := p.config.Output.Verbose

	if verbose {
		fmt.Fprintf(os.Stderr, "Processing: %s\n", docID)
	}

	text, err := p.converter.ExtractText(ctx, path)
	if err != nil {
		ds.Error = fmt.Sprintf("convert: %v", err)
		return ds
	}

	doc, err := segment.Segment(docID, text)
	if err != nil {
		ds.Error = fmt.Sprintf("segment: %v", err)
		return ds
	}
	ds.Paragraphs = len(doc.Paragraphs)

	moneyUnits := filter.Document(doc, moneyPattern, depth)
	// Consortium composition tables are paragraph-shaped; sentence depth
	// would split them apart.
	entityUnits := filter.Document(doc, entityPattern, model.DepthParagraphs)

	if verbose {
		fmt.Fprintf(os.Stderr, "  %d paragraphs, %d money units, %d consortium units\n",
			ds.Paragraphs, len(moneyUnits), len(entityUnits))
	}

	moneyFacts, mStats, mErr := p.extractor.ExtractMoney(ctx, docID,
		p.config.LLM.MoneyModel, moneyUnits, p.config.Extraction.MoneyBatchSize)
	result.MoneyFacts = append(result.MoneyFacts, moneyFacts...)

	entityFacts, eStats, eErr := p.extractor.ExtractEntities(ctx, docID,
		p.config.LLM.EntityModel, entityUnits, p.config.Extraction.EntityBatchSize)
	result.EntityFacts = append(result.EntityFacts, entityFacts...)

	ds.MoneyBatches = mStats.Batches
	ds.EntityBatches = eStats.Batches
	ds.ExtractedFacts = mStats.Extracted + eStats.Extracted
	ds.SkippedBatches = mStats.Skipped + eStats.Skipped
	ds.FailedBatches = mStats.Failed + eStats.Failed
	ds.Failures = append(ds.Failures, mStats.Failures...)
	ds.Failures = append(ds.Failures, eStats.Failures...)

	if mErr != nil || eErr != nil {
		ds.Abandoned = true
		if verbose {
			fmt.Fprintf(os.Stderr, "  abandoned after repeated batch failures, partial results kept\n")
		}
	}
	return ds
}
