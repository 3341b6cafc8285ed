package dedupe

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/ppiankov/callsift/internal/model"
)

// stubEmbedder returns fixed vectors per sentence.
type stubEmbedder struct {
	vectors map[string][]float32
	failOn  map[string]bool
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.failOn[text] {
		return nil, &model.EmbeddingError{Sentence: text, Err: errors.New("endpoint down")}
	}
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return nil, &model.EmbeddingError{Sentence: text, Err: errors.New("no vector")}
}

func fact(doc string, value float64, currency, sentence string) model.MonetaryFact {
	return model.MonetaryFact{
		DocumentID:       doc,
		Value:            value,
		Currency:         currency,
		Context:          "ctx",
		OriginalSentence: sentence,
	}
}

func TestCosineDistance(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{1, 0}
	c := []float32{0, 1}

	if d := CosineDistance(a, b); math.Abs(d) > 1e-9 {
		t.Errorf("identical vectors should have distance 0, got %v", d)
	}
	if d := CosineDistance(a, c); math.Abs(d-1) > 1e-9 {
		t.Errorf("orthogonal vectors should have distance 1, got %v", d)
	}
	if d := CosineDistance(a, nil); d != 1 {
		t.Errorf("mismatched vectors should be maximally distant, got %v", d)
	}
}

func TestAgglomerate_MergesCloseSplitsFar(t *testing.T) {
	vectors := [][]float32{
		{1, 0},       // 0
		{0.99, 0.01}, // 1: nearly identical to 0
		{0, 1},       // 2: orthogonal
	}

	clusters := Agglomerate(vectors, 0.2)
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d: %v", len(clusters), clusters)
	}

	sizes := map[int]int{}
	for _, c := range clusters {
		sizes[len(c)]++
	}
	if sizes[2] != 1 || sizes[1] != 1 {
		t.Errorf("expected one pair and one singleton, got %v", clusters)
	}
}

func TestAgglomerate_ThresholdZeroKeepsIdenticalOnly(t *testing.T) {
	vectors := [][]float32{{1, 0}, {1, 0}, {0, 1}}
	clusters := Agglomerate(vectors, 0)
	for _, c := range clusters {
		for _, i := range c {
			for _, j := range c {
				if CosineDistance(vectors[i], vectors[j]) > 1e-9 {
					t.Errorf("threshold 0 merged non-identical vectors: %v", c)
				}
			}
		}
	}
}

func TestDeduplicate_CollapsesSameAmountKeepsLongest(t *testing.T) {
	short := "EUR 500,000 is the minimum request."
	long := "The minimum EU grant request is EUR 500,000."

	emb := &stubEmbedder{vectors: map[string][]float32{
		long:  {1, 0, 0},
		short: {0.98, 0.02, 0},
	}}
	d := New(emb, 0.5)

	in := []model.MonetaryFact{
		fact("doc-1", 500000, "EUR", long),
		fact("doc-1", 500000, "EUR", short),
	}
	out := d.Deduplicate(context.Background(), in)

	if len(out) != 1 {
		t.Fatalf("expected 1 record after dedupe, got %d", len(out))
	}
	if out[0].OriginalSentence != long {
		t.Errorf("representative should be the longest sentence, got %q", out[0].OriginalSentence)
	}
}

func TestDeduplicate_NeverMergesDifferentValues(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{
		"sentence A": {1, 0},
		"sentence B": {1, 0}, // identical embedding, different value
	}}
	d := New(emb, 0.9)

	in := []model.MonetaryFact{
		fact("doc-1", 100, "EUR", "sentence A"),
		fact("doc-1", 200, "EUR", "sentence B"),
	}
	out := d.Deduplicate(context.Background(), in)

	if len(out) != 2 {
		t.Fatalf("records with different values must never merge, got %d rows", len(out))
	}
}

func TestDeduplicate_DifferentCurrenciesStaySeparate(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{
		"same sentence": {1, 0},
	}}
	d := New(emb, 0.9)

	in := []model.MonetaryFact{
		fact("doc-1", 100, "EUR", "same sentence"),
		fact("doc-1", 100, "USD", "same sentence"),
	}
	if out := d.Deduplicate(context.Background(), in); len(out) != 2 {
		t.Errorf("different currencies must never merge, got %d rows", len(out))
	}
}

func TestDeduplicate_DifferentDocumentsStaySeparate(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{
		"same sentence": {1, 0},
	}}
	d := New(emb, 0.9)

	in := []model.MonetaryFact{
		fact("doc-1", 100, "EUR", "same sentence"),
		fact("doc-2", 100, "EUR", "same sentence"),
	}
	if out := d.Deduplicate(context.Background(), in); len(out) != 2 {
		t.Errorf("deduplication operates per document, got %d rows", len(out))
	}
}

func TestDeduplicate_OutputOrderAndPlacement(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{
		"dup one":        {1, 0},
		"dup two longer": {0.99, 0.01},
		"other":          {0, 1},
	}}
	d := New(emb, 0.5)

	in := []model.MonetaryFact{
		fact("doc-1", 100, "EUR", "dup one"),         // 0: replaced in place
		fact("doc-1", 999, "EUR", "unrelated"),       // 1: untouched
		fact("doc-1", 100, "EUR", "dup two longer"),  // 2: collapsed into 0
	}
	out := d.Deduplicate(context.Background(), in)

	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if out[0].OriginalSentence != "dup two longer" {
		t.Errorf("representative must sit at the earliest replaced position, got %q first", out[0].OriginalSentence)
	}
	if out[1].Value != 999 {
		t.Errorf("non-duplicate record lost its position: %+v", out[1])
	}
}

func TestDeduplicate_EmbeddingFailurePassesThrough(t *testing.T) {
	emb := &stubEmbedder{
		vectors: map[string][]float32{
			"embeds fine":      {1, 0},
			"also embeds fine": {0.99, 0.01},
		},
		failOn: map[string]bool{"cannot embed": true},
	}
	d := New(emb, 0.5)

	in := []model.MonetaryFact{
		fact("doc-1", 100, "EUR", "embeds fine"),
		fact("doc-1", 100, "EUR", "cannot embed"),
		fact("doc-1", 100, "EUR", "also embeds fine"),
	}
	out := d.Deduplicate(context.Background(), in)

	// The two embeddable records merge; the failed one passes through.
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(out), out)
	}
	found := false
	for _, r := range out {
		if r.OriginalSentence == "cannot embed" {
			found = true
		}
	}
	if !found {
		t.Error("record with failed embedding was dropped")
	}
}

func TestDeduplicate_Idempotent(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{
		"long duplicate sentence": {1, 0, 0},
		"short dup":               {0.99, 0.01, 0},
		"different mention":       {0, 1, 0},
	}}
	d := New(emb, 0.3)

	in := []model.MonetaryFact{
		fact("doc-1", 500000, "EUR", "long duplicate sentence"),
		fact("doc-1", 500000, "EUR", "short dup"),
		fact("doc-1", 500000, "EUR", "different mention"),
		fact("doc-1", 750000, "EUR", "another amount"),
	}

	once := d.Deduplicate(context.Background(), in)
	twice := d.Deduplicate(context.Background(), once)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("deduplicate is not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestDeduplicate_SingletonGroupsPassThrough(t *testing.T) {
	emb := &stubEmbedder{}
	d := New(emb, 0.5)

	in := []model.MonetaryFact{
		fact("doc-1", 100, "EUR", "a"),
		fact("doc-1", 200, "EUR", "b"),
		fact("doc-1", 300, "EUR", "c"),
	}
	out := d.Deduplicate(context.Background(), in)
	if !reflect.DeepEqual(in, out) {
		t.Errorf("singleton groups must pass through unchanged")
	}
}
