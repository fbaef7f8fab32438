// Package store is the persistence collaborator for the engine: it loads
// and saves the explicit state shapes the core reads and writes. The core
// itself performs no disk I/O.
package store

import "github.com/pmarkov/newsmind/internal/model"

// Store is the contract between the engine and persistence. Snapshot
// history is append-only: AppendTrendSnapshot never overwrites a prior
// snapshot.
type Store interface {
	LoadClusters() (*model.ClusterStore, error)
	SaveClusters(store *model.ClusterStore) error

	LoadTopicStats() (map[string]*model.TopicStats, error)
	SaveTopicStats(stats map[string]*model.TopicStats) error

	// LoadLatestTrendSnapshot returns nil when no snapshot exists yet.
	LoadLatestTrendSnapshot() (*model.TrendSnapshot, error)
	// LoadRecentTrendSnapshots returns up to n of the newest snapshots in
	// chronological order.
	LoadRecentTrendSnapshots(n int) ([]*model.TrendSnapshot, error)
	AppendTrendSnapshot(snapshot *model.TrendSnapshot) error

	SaveArticle(article *model.Article) error
	LoadArticle(articleID string) (*model.Article, error)
	ListArticleIDs() ([]string, error)
}
