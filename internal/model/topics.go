package model

import "time"

// TopicStats holds the decayed keyword frequencies for one cluster.
// Frequencies are refreshed toward newly observed keywords and decay toward
// zero for keywords that stop appearing; they are never negative.
type TopicStats struct {
	ClusterID          string             `json:"cluster_id"`
	KeywordFrequencies map[string]float64 `json:"keyword_frequencies"`
	LastDecayAt        time.Time          `json:"last_decay_at"`
}

// NewTopicStats returns empty statistics for a cluster.
func NewTopicStats(clusterID string, now time.Time) *TopicStats {
	return &TopicStats{
		ClusterID:          clusterID,
		KeywordFrequencies: make(map[string]float64),
		LastDecayAt:        now,
	}
}

// KeywordFrequency is one (keyword, decayed frequency) pair, used for
// top-k listings.
type KeywordFrequency struct {
	Keyword   string  `json:"keyword"`
	Frequency float64 `json:"frequency"`
}
