package model

import "fmt"

// SegmentationError means the raw text of a document could not be segmented
// at all (empty or whitespace-only input). Fatal for that document.
type SegmentationError struct {
	DocumentID string
	Reason     string
}

func (e *SegmentationError) Error() string {
	return fmt.Sprintf("segmentation failed for %q: %s", e.DocumentID, e.Reason)
}

// FilterConfigError means a caller-supplied pattern did not compile.
// Configuration-time and fatal: a broken pattern must never silently
// match everything.
type FilterConfigError struct {
	Pattern string
	Err     error
}

func (e *FilterConfigError) Error() string {
	return fmt.Sprintf("invalid filter pattern %q: %v", e.Pattern, e.Err)
}

func (e *FilterConfigError) Unwrap() error { return e.Err }

// ValidationFailure means the model responded but the response did not
// conform to the extraction schema. Recoverable: the batch is skipped.
type ValidationFailure struct {
	DocumentID string
	BatchIndex int
	Err        error
}

func (e *ValidationFailure) Error() string {
	return fmt.Sprintf("document %q batch %d: model output failed schema validation: %v",
		e.DocumentID, e.BatchIndex, e.Err)
}

func (e *ValidationFailure) Unwrap() error { return e.Err }

// BatchDispatchError means the model endpoint could not be reached or timed
// out, after retries were exhausted. Recoverable: the batch is skipped.
type BatchDispatchError struct {
	DocumentID string
	BatchIndex int
	Attempts   int
	Err        error
}

func (e *BatchDispatchError) Error() string {
	return fmt.Sprintf("document %q batch %d: dispatch failed after %d attempts: %v",
		e.DocumentID, e.BatchIndex, e.Attempts, e.Err)
}

func (e *BatchDispatchError) Unwrap() error { return e.Err }

// EmbeddingError means one sentence could not be embedded during
// deduplication. The affected record passes through unmerged.
type EmbeddingError struct {
	Sentence string
	Err      error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding failed: %v", e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// DocumentError reports a document whose extraction was abandoned after the
// failed-batch threshold was exceeded. Partial results are kept.
type DocumentError struct {
	DocumentID    string
	FailedBatches int
	Threshold     int
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %q abandoned: %d failed batches exceeded threshold %d",
		e.DocumentID, e.FailedBatches, e.Threshold)
}
