package model

import "time"

// SnapshotCluster is one cluster's row inside a trend snapshot.
type SnapshotCluster struct {
	DocumentCount int       `json:"document_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// TrendSnapshot is an immutable point-in-time capture of cluster sizes.
// Snapshots are append-only history: once written they are never mutated,
// and trend detection consumes exactly two of them.
type TrendSnapshot struct {
	Timestamp time.Time                  `json:"timestamp"`
	Clusters  map[string]SnapshotCluster `json:"clusters"`
}

// TrendEntry describes a growing, declining, or vanished cluster.
type TrendEntry struct {
	ClusterID     string  `json:"cluster_id"`
	DocumentCount int     `json:"document_count"`
	GrowthRate    float64 `json:"growth_rate"`
}

// NewClusterEntry describes a cluster seen for the first time in the
// current snapshot.
type NewClusterEntry struct {
	ClusterID     string    `json:"cluster_id"`
	DocumentCount int       `json:"document_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// TrendReport is the derived comparison of two snapshots. It is recomputed
// on demand and carries no persisted identity of its own.
//
// Vanished clusters (present only in the previous snapshot) are kept apart
// from Declining because their growth rate is undefined; they are reported
// with the conventional rate -1.0.
type TrendReport struct {
	PreviousTimestamp time.Time         `json:"previous_timestamp"`
	CurrentTimestamp  time.Time         `json:"current_timestamp"`
	Growing           []TrendEntry      `json:"growing_clusters"`
	New               []NewClusterEntry `json:"new_clusters"`
	Declining         []TrendEntry      `json:"declining_clusters"`
	Vanished          []TrendEntry      `json:"vanished_clusters"`
}
