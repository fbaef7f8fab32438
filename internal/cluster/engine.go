// Package cluster implements incremental cluster assignment over streaming
// embeddings: each new article either joins the nearest cluster or founds a
// new one, with bounded per-update cost and no full-corpus re-clustering.
package cluster

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/pmarkov/newsmind/internal/index"
	"github.com/pmarkov/newsmind/internal/model"
)

// Engine owns all mutation of the cluster store. Assign runs the whole
// read-decide-write sequence under one mutex, so concurrent callers cannot
// race a stale count or create two clusters for one topic in-process.
// Near-duplicate clusters created across separate process runs are left
// as-is (no-merge policy); pruning or merging is an external concern.
type Engine struct {
	mu        sync.Mutex
	store     *model.ClusterStore
	threshold float64
	logger    *slog.Logger
}

// NewEngine wraps an existing cluster store. The threshold is the minimum
// cosine similarity for joining an existing cluster.
func NewEngine(store *model.ClusterStore, threshold float64, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, threshold: threshold, logger: logger}
}

// Store returns the underlying cluster store. Callers must not mutate it.
func (e *Engine) Store() *model.ClusterStore {
	return e.store
}

// Assign places the article into a cluster and returns the cluster ID.
//
// Assign is idempotent: a second call with an already-assigned article ID
// returns the existing assignment without mutating anything, so re-issuing
// a partially processed batch is always safe.
func (e *Engine) Assign(articleID string, embedding []float64, now time.Time) (string, error) {
	if err := validateEmbedding(embedding); err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.store.Dimension > 0 && len(embedding) != e.store.Dimension {
		return "", &model.DimensionMismatchError{Want: e.store.Dimension, Got: len(embedding)}
	}

	if existing := e.store.FindMember(articleID); existing != "" {
		e.logger.Debug("article already assigned", "article_id", articleID, "cluster_id", existing)
		return existing, nil
	}

	nearestID, similarity, ok := index.Nearest(e.store, embedding)
	if !ok || similarity < e.threshold {
		return e.create(articleID, embedding, now), nil
	}

	c := e.store.Clusters[nearestID]
	// Incremental mean: c += (e - c) / (n + 1). Equivalent to recomputing
	// the mean over all members, so the final centroid does not depend on
	// arrival order for a fixed member set.
	n := float64(c.DocumentCount)
	for i := range c.Centroid {
		c.Centroid[i] += (embedding[i] - c.Centroid[i]) / (n + 1)
	}
	c.DocumentCount++
	c.AddMember(articleID)
	c.LastUpdatedAt = now

	e.logger.Debug("assigned article to cluster",
		"article_id", articleID, "cluster_id", nearestID, "similarity", similarity)
	return nearestID, nil
}

func (e *Engine) create(articleID string, embedding []float64, now time.Time) string {
	id := e.store.NextClusterID()
	centroid := make([]float64, len(embedding))
	copy(centroid, embedding)
	e.store.Clusters[id] = &model.Cluster{
		ID:            id,
		Centroid:      centroid,
		DocumentCount: 1,
		MemberIDs:     []string{articleID},
		CreatedAt:     now,
		LastUpdatedAt: now,
	}
	if e.store.Dimension == 0 {
		e.store.Dimension = len(embedding)
	}
	e.logger.Info("created cluster", "cluster_id", id, "article_id", articleID)
	return id
}

func validateEmbedding(embedding []float64) error {
	if len(embedding) == 0 {
		return &model.InvalidEmbeddingError{Index: -1}
	}
	for i, v := range embedding {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &model.InvalidEmbeddingError{Index: i, Value: v}
		}
	}
	return nil
}
