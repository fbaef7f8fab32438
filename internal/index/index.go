// Package index provides nearest-centroid lookup over the cluster store.
// The candidate set is the current centroids, expected to stay modest in
// count, so a full scan is the whole index. An approximate index could be
// swapped in behind Nearest if centroid counts ever grow large.
package index

import (
	"math"

	"github.com/pmarkov/newsmind/internal/model"
)

// Tolerance bounds the float difference under which two similarities are
// considered a tie. Ties resolve to the lower cluster ID so assignment is
// reproducible across runs.
const Tolerance = 1e-9

// Cosine returns the cosine similarity of two equal-length vectors.
// A zero-norm vector has similarity 0 to everything.
func Cosine(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Nearest scans every centroid and returns the most similar cluster and its
// similarity. ok is false when the store holds no clusters. Nearest has no
// side effects.
func Nearest(store *model.ClusterStore, embedding []float64) (clusterID string, similarity float64, ok bool) {
	best := math.Inf(-1)
	// Ascending ID order means the lower ID naturally wins a tie: a later
	// candidate must beat the best by more than the tolerance to replace it.
	for _, id := range store.ClusterIDs() {
		sim := Cosine(embedding, store.Clusters[id].Centroid)
		if sim > best+Tolerance {
			best = sim
			clusterID = id
			ok = true
		}
	}
	if !ok {
		return "", 0, false
	}
	return clusterID, best, true
}
