// Package extract partitions filtered text units into bounded batches,
// dispatches them to the model concurrently and accumulates the validated
// records in original batch order.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	retry "github.com/avast/retry-go/v4"

	"github.com/ppiankov/callsift/internal/llm"
	"github.com/ppiankov/callsift/internal/model"
	"github.com/ppiankov/callsift/internal/schema"
	"github.com/ppiankov/callsift/internal/worker"
)

// Stats summarizes one document/target extraction for the run summary.
type Stats struct {
	Batches   int
	Extracted int
	Skipped   int // schema validation failures
	Failed    int // dispatch failures after retries
	Failures  []model.BatchFailure
}

// Extractor drives batched structured extraction against one ModelClient.
type Extractor struct {
	client  llm.ModelClient
	limiter *worker.Limiter
	workers int
	retries int
	// threshold is the number of zero-record batches after which a
	// document is abandoned; 0 disables abandonment.
	threshold int
}

// New creates an extractor. retries is the number of re-dispatches after the
// first attempt; workers bounds concurrent in-flight batches.
func New(client llm.ModelClient, limiter *worker.Limiter, workers, retries, threshold int) *Extractor {
	if workers <= 0 {
		workers = 1
	}
	return &Extractor{
		client:    client,
		limiter:   limiter,
		workers:   workers,
		retries:   retries,
		threshold: threshold,
	}
}

// monetaryEnvelope mirrors schema.Money.
type monetaryEnvelope struct {
	MonetaryInformations []struct {
		Value            float64 `json:"value"`
		Currency         string  `json:"currency"`
		Context          string  `json:"context"`
		OriginalSentence string  `json:"original_sentence"`
	} `json:"monetary_informations"`
}

// entityEnvelope mirrors schema.Entity.
type entityEnvelope struct {
	Participants []struct {
		OrganizationType string `json:"organization_type"`
		MinEntities      []int  `json:"min_entities"`
	} `json:"participants"`
}

// ExtractMoney runs monetary extraction over the filtered units. A non-nil
// error is always a *model.DocumentError; partial results are still returned.
func (e *Extractor) ExtractMoney(ctx context.Context, docID, modelName string, units []string, batchSize int) ([]model.MonetaryFact, Stats, error) {
	outcomes, stats := e.dispatch(ctx, docID, modelName, llm.MoneySystemPrompt, schema.Money(), Partition(units, batchSize))

	var facts []model.MonetaryFact
	for _, o := range outcomes {
		if o.err != nil {
			continue
		}
		var env monetaryEnvelope
		if err := json.Unmarshal(o.raw, &env); err != nil {
			// Validated against the schema already; an unmarshal failure
			// here would be a schema/envelope mismatch.
			stats.Skipped++
			stats.Failures = append(stats.Failures, model.BatchFailure{
				DocumentID: docID, BatchIndex: o.index, Reason: fmt.Sprintf("decode: %v", err),
			})
			continue
		}
		for _, m := range env.MonetaryInformations {
			facts = append(facts, model.MonetaryFact{
				DocumentID:       docID,
				Value:            m.Value,
				Currency:         m.Currency,
				Context:          m.Context,
				OriginalSentence: m.OriginalSentence,
			})
		}
	}
	stats.Extracted = len(facts)

	return facts, stats, e.abandoned(docID, stats)
}

// ExtractEntities runs consortium extraction. The orchestrator passes the
// identified table block(s) with batch size 1, so no real partitioning
// happens there.
func (e *Extractor) ExtractEntities(ctx context.Context, docID, modelName string, units []string, batchSize int) ([]model.EntityFact, Stats, error) {
	outcomes, stats := e.dispatch(ctx, docID, modelName, llm.EntitySystemPrompt, schema.Entity(), Partition(units, batchSize))

	var facts []model.EntityFact
	for _, o := range outcomes {
		if o.err != nil {
			continue
		}
		var env entityEnvelope
		if err := json.Unmarshal(o.raw, &env); err != nil {
			stats.Skipped++
			stats.Failures = append(stats.Failures, model.BatchFailure{
				DocumentID: docID, BatchIndex: o.index, Reason: fmt.Sprintf("decode: %v", err),
			})
			continue
		}
		for _, p := range env.Participants {
			facts = append(facts, model.EntityFact{
				DocumentID:       docID,
				OrganizationType: p.OrganizationType,
				MinEntities:      p.MinEntities,
			})
		}
	}
	stats.Extracted = len(facts)

	return facts, stats, e.abandoned(docID, stats)
}

// dispatch sends every batch through the worker pool and joins the outcomes
// back into batch order. Per-batch failures are recorded, never raised.
func (e *Extractor) dispatch(ctx context.Context, docID, modelName, system string, schemaMap map[string]any, batches [][]string) ([]*batchOutcome, Stats) {
	stats := Stats{Batches: len(batches)}
	if len(batches) == 0 {
		return nil, stats
	}

	instruction := schema.Instruction(schemaMap)

	pool := worker.NewPool(e.workers)
	pool.Start()

	for i, batch := range batches {
		pool.Submit(&batchJob{
			index:     i,
			docID:     docID,
			modelName: modelName,
			system:    system,
			prompt:    llm.RenderPrompt(batch, instruction),
			schemaMap: schemaMap,
			client:    e.client,
			limiter:   e.limiter,
			retries:   e.retries,
			parent:    ctx,
		})
	}

	results := pool.Wait()

	outcomes := make([]*batchOutcome, 0, len(results))
	for _, r := range results {
		outcomes = append(outcomes, r.(*batchOutcome))
	}
	// Deterministic rejoin regardless of completion order.
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].index < outcomes[j].index })

	for _, o := range outcomes {
		switch o.err.(type) {
		case nil:
		case *model.ValidationFailure:
			stats.Skipped++
			stats.Failures = append(stats.Failures, model.BatchFailure{
				DocumentID: docID, BatchIndex: o.index, Reason: o.err.Error(),
			})
		default:
			stats.Failed++
			stats.Failures = append(stats.Failures, model.BatchFailure{
				DocumentID: docID, BatchIndex: o.index, Reason: o.err.Error(),
			})
		}
	}

	return outcomes, stats
}

func (e *Extractor) abandoned(docID string, stats Stats) error {
	failed := stats.Failed + stats.Skipped
	if e.threshold > 0 && failed > e.threshold {
		return &model.DocumentError{DocumentID: docID, FailedBatches: failed, Threshold: e.threshold}
	}
	return nil
}

// batchJob is one model call: rate-limit, dispatch with retries, validate.
type batchJob struct {
	index     int
	docID     string
	modelName string
	system    string
	prompt    string
	schemaMap map[string]any
	client    llm.ModelClient
	limiter   *worker.Limiter
	retries   int
	parent    context.Context
}

type batchOutcome struct {
	index int
	raw   []byte
	err   error
}

func (o *batchOutcome) GetError() error { return o.err }

func (j *batchJob) Execute(poolCtx context.Context) worker.Result {
	// The pool context only signals shutdown; deadlines come from the
	// caller's context.
	ctx := j.parent
	select {
	case <-poolCtx.Done():
		return &batchOutcome{index: j.index, err: poolCtx.Err()}
	default:
	}

	if j.limiter != nil {
		if err := j.limiter.Wait(ctx, j.modelName); err != nil {
			return &batchOutcome{index: j.index, err: &model.BatchDispatchError{
				DocumentID: j.docID, BatchIndex: j.index, Attempts: 0, Err: err,
			}}
		}
	}

	attempts := j.retries + 1
	var raw string
	err := retry.Do(
		func() error {
			var callErr error
			raw, callErr = j.client.Invoke(ctx, llm.Request{
				Model:  j.modelName,
				System: j.system,
				Prompt: j.prompt,
			})
			return callErr
		},
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return &batchOutcome{index: j.index, err: &model.BatchDispatchError{
			DocumentID: j.docID, BatchIndex: j.index, Attempts: attempts, Err: err,
		}}
	}

	if err := schema.Validate(j.schemaMap, []byte(raw)); err != nil {
		return &batchOutcome{index: j.index, err: &model.ValidationFailure{
			DocumentID: j.docID, BatchIndex: j.index, Err: err,
		}}
	}

	return &batchOutcome{index: j.index, raw: []byte(raw)}
}
