package model

// DocumentSummary is the per-document line of the run summary: how many
// batches were dispatched per target and how they ended.
type DocumentSummary struct {
	DocumentID      string         `json:"document_id"`
	Paragraphs      int            `json:"paragraphs"`
	MoneyBatches    int            `json:"money_batches"`
	EntityBatches   int            `json:"entity_batches"`
	ExtractedFacts  int            `json:"extracted_facts"`
	SkippedBatches  int            `json:"skipped_batches"`
	FailedBatches   int            `json:"failed_batches"`
	Failures        []BatchFailure `json:"failures,omitempty"`
	Abandoned       bool           `json:"abandoned,omitempty"`
	Error           string         `json:"error,omitempty"`
}

// RunSummary aggregates one complete run. Per-document failures never abort
// the run; they show up here instead.
type RunSummary struct {
	Documents     []DocumentSummary `json:"documents"`
	MoneyFacts    int               `json:"money_facts"`
	EntityFacts   int               `json:"entity_facts"`
	AfterDedupe   int               `json:"money_facts_after_dedupe"`
	FailedDocs    int               `json:"failed_documents"`
}

// Add appends a document summary and updates the aggregate counters.
func (r *RunSummary) Add(ds DocumentSummary) {
	r.Documents = append(r.Documents, ds)
	if ds.Error != "" || ds.Abandoned {
		r.FailedDocs++
	}
}
