// Package topics maintains time-decayed keyword statistics per cluster.
// Decay is applied lazily, only when a cluster is touched, so inactive
// clusters cost nothing.
package topics

import (
	"math"
	"sort"
	"time"

	"github.com/pmarkov/newsmind/internal/model"
)

// pruneFloor is the frequency below which a decayed keyword is dropped.
const pruneFloor = 1e-6

// Engine owns all mutation of the per-cluster topic statistics. It reads
// the cluster store only to reject updates for unknown clusters.
type Engine struct {
	stats       map[string]*model.TopicStats
	clusters    *model.ClusterStore
	decayFactor float64
	decayPeriod time.Duration
	increment   float64
}

// NewEngine wraps an existing stats map (keyed by cluster ID). A nil map is
// replaced by an empty one.
func NewEngine(stats map[string]*model.TopicStats, clusters *model.ClusterStore, cfg model.TopicsConfig) *Engine {
	if stats == nil {
		stats = make(map[string]*model.TopicStats)
	}
	return &Engine{
		stats:       stats,
		clusters:    clusters,
		decayFactor: cfg.DecayFactor,
		decayPeriod: cfg.DecayPeriod,
		increment:   cfg.KeywordIncrement,
	}
}

// Stats returns the underlying stats map. Callers must not mutate it.
func (e *Engine) Stats() map[string]*model.TopicStats {
	return e.stats
}

// Update decays the cluster's existing frequencies for the time elapsed
// since the last touch, then counts the newly observed keywords. It fails
// with UnknownClusterError when the cluster store has no such cluster.
func (e *Engine) Update(clusterID string, keywords []string, now time.Time) error {
	if _, ok := e.clusters.Clusters[clusterID]; !ok {
		return &model.UnknownClusterError{ClusterID: clusterID}
	}

	stats, ok := e.stats[clusterID]
	if !ok {
		stats = model.NewTopicStats(clusterID, now)
		e.stats[clusterID] = stats
	} else {
		e.decay(stats, now)
	}

	for _, keyword := range keywords {
		stats.KeywordFrequencies[keyword] += e.increment
	}
	stats.LastDecayAt = now
	return nil
}

// decay applies freq *= decayFactor^elapsedPeriods and prunes entries that
// have effectively reached zero.
func (e *Engine) decay(stats *model.TopicStats, now time.Time) {
	elapsed := now.Sub(stats.LastDecayAt)
	if elapsed <= 0 || e.decayPeriod <= 0 {
		return
	}
	periods := elapsed.Seconds() / e.decayPeriod.Seconds()
	factor := math.Pow(e.decayFactor, periods)
	for keyword, freq := range stats.KeywordFrequencies {
		decayed := freq * factor
		if decayed < pruneFloor {
			delete(stats.KeywordFrequencies, keyword)
			continue
		}
		stats.KeywordFrequencies[keyword] = decayed
	}
}

// TopKeywords returns the k highest-frequency keywords for the cluster,
// ties broken alphabetically. It fails with UnknownClusterError when the
// cluster store has no such cluster; a known cluster with no stats yet
// yields an empty list.
func (e *Engine) TopKeywords(clusterID string, k int) ([]model.KeywordFrequency, error) {
	if _, ok := e.clusters.Clusters[clusterID]; !ok {
		return nil, &model.UnknownClusterError{ClusterID: clusterID}
	}
	stats, ok := e.stats[clusterID]
	if !ok || k <= 0 {
		return []model.KeywordFrequency{}, nil
	}

	ranked := make([]model.KeywordFrequency, 0, len(stats.KeywordFrequencies))
	for keyword, freq := range stats.KeywordFrequencies {
		ranked = append(ranked, model.KeywordFrequency{Keyword: keyword, Frequency: freq})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Frequency != ranked[j].Frequency {
			return ranked[i].Frequency > ranked[j].Frequency
		}
		return ranked[i].Keyword < ranked[j].Keyword
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked, nil
}
