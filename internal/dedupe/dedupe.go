// Package dedupe collapses semantically duplicate monetary facts. Records
// sharing the same (document, value, currency) key are clustered over
// sentence embeddings; each cluster keeps its longest originating sentence.
package dedupe

import (
	"context"
	"fmt"

	"github.com/ppiankov/callsift/internal/llm"
	"github.com/ppiankov/callsift/internal/model"
)

// Deduplicator wires an embedding provider to the clustering pass.
type Deduplicator struct {
	embedder llm.EmbeddingProvider
	// threshold is the cosine-distance cut: pairs at or under it are the
	// same mention, pairs above it are different mentions of the same
	// amount. Tunable; higher merges more.
	threshold float64
}

// New creates a deduplicator with the given distance threshold.
func New(embedder llm.EmbeddingProvider, threshold float64) *Deduplicator {
	return &Deduplicator{embedder: embedder, threshold: threshold}
}

type groupKey struct {
	docID    string
	value    float64
	currency string
}

// Deduplicate collapses duplicates and preserves ordering: a cluster's
// representative takes the position of the earliest record it replaces,
// everything else keeps its original order. Records whose sentence cannot
// be embedded pass through unmerged; nothing is ever silently dropped.
// The operation is idempotent.
func (d *Deduplicator) Deduplicate(ctx context.Context, records []model.MonetaryFact) []model.MonetaryFact {
	if len(records) < 2 {
		return records
	}

	groups := make(map[groupKey][]int)
	order := make([]groupKey, 0)
	for i, r := range records {
		k := groupKey{docID: r.DocumentID, value: r.Value, currency: r.Currency}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}

	// keep[i] == true means records[i] survives at its own position.
	keep := make([]bool, len(records))
	for i := range keep {
		keep[i] = true
	}
	// moved[pos] overrides the record emitted at an original position.
	moved := make(map[int]model.MonetaryFact)

	for _, k := range order {
		idxs := groups[k]
		if len(idxs) < 2 {
			continue
		}

		// Records whose sentence fails to embed stay out of embeddable and
		// keep their keep[i] == true default.
		embeddable := d.embedGroup(ctx, records, idxs)
		if len(embeddable) < 2 {
			continue
		}

		vectors := make([][]float32, len(embeddable))
		for i, m := range embeddable {
			vectors[i] = m.vector
		}

		for _, cluster := range Agglomerate(vectors, d.threshold) {
			if len(cluster) < 2 {
				continue
			}
			rep, earliest := pickRepresentative(records, embeddable, cluster)
			for _, ci := range cluster {
				keep[embeddable[ci].recordIndex] = false
			}
			moved[earliest] = records[rep]
		}
	}

	out := make([]model.MonetaryFact, 0, len(records))
	for i, r := range records {
		if rep, ok := moved[i]; ok {
			out = append(out, rep)
			continue
		}
		if keep[i] {
			out = append(out, r)
		}
	}
	return out
}

type member struct {
	recordIndex int
	vector      []float32
}

// embedGroup embeds each member's originating sentence. Records that fail
// to embed are omitted so they pass through deduplication untouched.
func (d *Deduplicator) embedGroup(ctx context.Context, records []model.MonetaryFact, idxs []int) []member {
	var embeddable []member
	for _, i := range idxs {
		vec, err := d.embedder.Embed(ctx, records[i].OriginalSentence)
		if err != nil {
			continue
		}
		embeddable = append(embeddable, member{recordIndex: i, vector: vec})
	}
	return embeddable
}

// pickRepresentative returns the record index with the longest originating
// sentence (earliest wins ties) and the earliest original position in the
// cluster, which is where the representative is emitted.
func pickRepresentative(records []model.MonetaryFact, members []member, cluster []int) (rep, earliest int) {
	rep = -1
	earliest = -1
	longest := -1
	for _, ci := range cluster {
		ri := members[ci].recordIndex
		if earliest == -1 || ri < earliest {
			earliest = ri
		}
		n := len(records[ri].OriginalSentence)
		if n > longest || (n == longest && ri < rep) {
			longest = n
			rep = ri
		}
	}
	return rep, earliest
}

// Describe returns a short human summary for verbose output.
func Describe(before, after int) string {
	if before == after {
		return fmt.Sprintf("no duplicates among %d monetary facts", before)
	}
	return fmt.Sprintf("collapsed %d monetary facts to %d", before, after)
}
