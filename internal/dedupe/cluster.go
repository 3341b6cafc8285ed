package dedupe

import "math"

// CosineDistance returns 1 - cosine similarity. Zero vectors are maximally
// distant from everything so they never merge with real embeddings.
func CosineDistance(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 1
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

// Agglomerate runs hierarchical agglomerative clustering with average
// linkage over cosine distance. Clusters merge while the closest pair sits
// at or under threshold. Ties break toward the lowest member indices, so the
// result is deterministic for a given input order.
func Agglomerate(vectors [][]float32, threshold float64) [][]int {
	n := len(vectors)
	if n == 0 {
		return nil
	}

	clusters := make([][]int, n)
	for i := range clusters {
		clusters[i] = []int{i}
	}

	// Pairwise distances between original members; average linkage is
	// computed over these.
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := 0; j < i; j++ {
			d := CosineDistance(vectors[i], vectors[j])
			dist[i][j] = d
			dist[j][i] = d
		}
	}

	linkage := func(a, b []int) float64 {
		var sum float64
		for _, i := range a {
			for _, j := range b {
				sum += dist[i][j]
			}
		}
		return sum / float64(len(a)*len(b))
	}

	for len(clusters) > 1 {
		bestI, bestJ := -1, -1
		best := math.Inf(1)
		for i := 0; i < len(clusters); i++ {
			for j := i + 1; j < len(clusters); j++ {
				if d := linkage(clusters[i], clusters[j]); d < best {
					best = d
					bestI, bestJ = i, j
				}
			}
		}
		if best > threshold {
			break
		}
		merged := append(append([]int{}, clusters[bestI]...), clusters[bestJ]...)
		clusters[bestI] = merged
		clusters = append(clusters[:bestJ], clusters[bestJ+1:]...)
	}

	return clusters
}
