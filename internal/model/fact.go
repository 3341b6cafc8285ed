package model

// MonetaryFact is one schema-validated monetary mention extracted by the LLM.
// DocumentID is attached by the extractor; the remaining fields come straight
// from the validated model output.
type MonetaryFact struct {
	DocumentID       string  `json:"document_id"`
	Value            float64 `json:"value"`
	Currency         string  `json:"currency"`
	Context          string  `json:"context"`
	OriginalSentence string  `json:"original_sentence"`
}

// EntityFact is one consortium-composition requirement extracted by the LLM:
// an organization type and the minimum entity counts stated for it.
type EntityFact struct {
	DocumentID       string `json:"document_id"`
	OrganizationType string `json:"organization_type"`
	MinEntities      []int  `json:"min_entities"`
}

// BatchFailure records a batch that contributed zero records, either because
// the model output failed schema validation or because dispatch gave up.
type BatchFailure struct {
	DocumentID string `json:"document_id"`
	BatchIndex int    `json:"batch_index"`
	Reason     string `json:"reason"`
}
