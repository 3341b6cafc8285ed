package transform

import "github.com/ppiankov/callsift/internal/model"

// Column names shared by the money and entity tables.
const (
	ColDocument  = "document"
	ColValue     = "value"
	ColCurrency  = "currency"
	ColContext   = "context"
	ColSentence  = "original_sentence"
	ColOrgType   = "organization_type"
	ColMinCounts = "min_entities"
)

// Patterns applied by the default step chains.
const (
	// CurrencyPattern accepts euro spellings and the euro sign only.
	CurrencyPattern = `^(?:eur|euros|euro|€)$`
	// RelevancePattern marks a monetary row as call-related funding.
	RelevancePattern = `call|budget|grant|amif`
)

// MoneyTable flattens monetary facts into the tabular shape the money
// pipeline operates on.
func MoneyTable(facts []model.MonetaryFact) Table {
	t := Table{Columns: []string{ColDocument, ColValue, ColCurrency, ColContext, ColSentence}}
	for _, f := range facts {
		t.Rows = append(t.Rows, Row{
			ColDocument: f.DocumentID,
			ColValue:    f.Value,
			ColCurrency: f.Currency,
			ColContext:  f.Context,
			ColSentence: f.OriginalSentence,
		})
	}
	return t
}

// EntityTable flattens entity facts into the tabular shape the entity
// pipeline operates on.
func EntityTable(facts []model.EntityFact) Table {
	t := Table{Columns: []string{ColDocument, ColOrgType, ColMinCounts}}
	for _, f := range facts {
		counts := append([]int(nil), f.MinEntities...)
		t.Rows = append(t.Rows, Row{
			ColDocument:  f.DocumentID,
			ColOrgType:   f.OrganizationType,
			ColMinCounts: counts,
		})
	}
	return t
}

// MoneySteps is the default money pipeline: validate the raw table, keep
// euro-denominated positive amounts, and keep only rows whose context or
// sentence ties the amount to the call's funding.
func MoneySteps() []Step {
	return []Step{
		VerifyNoMissingData(),
		CheckNumericColumns(ColValue),
		CheckStringColumns(ColDocument, ColCurrency, ColContext, ColSentence),
		VerifyNoEmptyStrings(),
		VerifyNoNegatives(),
		CheckColumnsSatisfyRegex(`\d+`, ColSentence),
		DropRowsWithNonPositiveValues(ColValue),
		DropRowsNotSatisfyingRegex(CurrencyPattern, ColCurrency),
		DropRowsIfNoColumnMatchesRegex(RelevancePattern, ColContext, ColSentence),
	}
}

// EntitySteps is the default entity pipeline: validate, normalize the
// per-row count lists, then collapse to one row per document.
func EntitySteps() []Step {
	return []Step{
		VerifyNoMissingData(),
		CheckStringColumns(ColDocument, ColOrgType),
		VerifyNoEmptyStrings(),
		VerifyListColumnContainsOnlyInts(ColMinCounts),
		VerifyNoNegatives(),
		ReduceListIntsToUnique(ColMinCounts),
		GroupByDocumentAndStackTypes(ColDocument, ColOrgType, ColMinCounts),
	}
}
