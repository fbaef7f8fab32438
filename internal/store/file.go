package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pmarkov/newsmind/internal/model"
)

// FileStore persists every state kind as JSON under one base directory:
//
//	clusters.json          cluster store
//	topics.json            topic statistics
//	trends/<timestamp>.json  append-only snapshot history
//	articles/<id>.json     processed articles
type FileStore struct {
	baseDir string
}

// NewFileStore creates the directory layout if missing.
func NewFileStore(baseDir string) (*FileStore, error) {
	for _, dir := range []string{baseDir, filepath.Join(baseDir, "trends"), filepath.Join(baseDir, "articles")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
	}
	return &FileStore{baseDir: baseDir}, nil
}

var _ Store = (*FileStore)(nil)

// LoadClusters reads the cluster store and validates its invariants.
// Corrupt state fails the load; it is never silently repaired.
func (s *FileStore) LoadClusters() (*model.ClusterStore, error) {
	path := filepath.Join(s.baseDir, "clusters.json")
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return model.NewClusterStore(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read clusters: %w", err)
	}

	store := model.NewClusterStore()
	if err := json.Unmarshal(data, store); err != nil {
		return nil, fmt.Errorf("decode clusters: %w", err)
	}
	if store.Clusters == nil {
		store.Clusters = make(map[string]*model.Cluster)
	}
	if err := store.Validate(); err != nil {
		return nil, err
	}
	return store, nil
}

// SaveClusters writes the cluster store atomically.
func (s *FileStore) SaveClusters(store *model.ClusterStore) error {
	return s.writeJSON(filepath.Join(s.baseDir, "clusters.json"), store)
}

// LoadTopicStats reads the per-cluster topic statistics.
func (s *FileStore) LoadTopicStats() (map[string]*model.TopicStats, error) {
	path := filepath.Join(s.baseDir, "topics.json")
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]*model.TopicStats), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read topic stats: %w", err)
	}

	stats := make(map[string]*model.TopicStats)
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("decode topic stats: %w", err)
	}
	return stats, nil
}

// SaveTopicStats writes the topic statistics atomically.
func (s *FileStore) SaveTopicStats(stats map[string]*model.TopicStats) error {
	return s.writeJSON(filepath.Join(s.baseDir, "topics.json"), stats)
}

// LoadLatestTrendSnapshot returns the newest snapshot, or nil when history
// is empty.
func (s *FileStore) LoadLatestTrendSnapshot() (*model.TrendSnapshot, error) {
	snapshots, err := s.LoadRecentTrendSnapshots(1)
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, nil
	}
	return snapshots[0], nil
}

// LoadRecentTrendSnapshots returns up to n of the newest snapshots in
// chronological order. Snapshot filenames sort chronologically (UTC).
func (s *FileStore) LoadRecentTrendSnapshots(n int) ([]*model.TrendSnapshot, error) {
	dir := filepath.Join(s.baseDir, "trends")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	if len(names) > n {
		names = names[len(names)-n:]
	}

	snapshots := make([]*model.TrendSnapshot, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read snapshot: %w", err)
		}
		var snapshot model.TrendSnapshot
		if err := json.Unmarshal(data, &snapshot); err != nil {
			return nil, fmt.Errorf("decode snapshot %s: %w", name, err)
		}
		snapshots = append(snapshots, &snapshot)
	}
	return snapshots, nil
}

// AppendTrendSnapshot writes the snapshot to a new timestamped file and
// refuses to overwrite existing history.
func (s *FileStore) AppendTrendSnapshot(snapshot *model.TrendSnapshot) error {
	name := snapshot.Timestamp.UTC().Format("20060102T150405.000000000Z") + ".json"
	path := filepath.Join(s.baseDir, "trends", name)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("snapshot %s already exists", name)
	}
	return s.writeJSON(path, snapshot)
}

// SaveArticle persists one processed article, keyed by its ID.
func (s *FileStore) SaveArticle(article *model.Article) error {
	return s.writeJSON(s.articlePath(article.ID), article)
}

// LoadArticle reads one processed article. Missing articles are an error;
// callers use ListArticleIDs to discover what exists.
func (s *FileStore) LoadArticle(articleID string) (*model.Article, error) {
	data, err := os.ReadFile(s.articlePath(articleID))
	if err != nil {
		return nil, fmt.Errorf("read article %s: %w", articleID, err)
	}
	var article model.Article
	if err := json.Unmarshal(data, &article); err != nil {
		return nil, fmt.Errorf("decode article %s: %w", articleID, err)
	}
	return &article, nil
}

// ListArticleIDs returns all persisted article IDs in ascending order.
func (s *FileStore) ListArticleIDs() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, "articles"))
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *FileStore) articlePath(articleID string) string {
	return filepath.Join(s.baseDir, "articles", articleID+".json")
}

// writeJSON writes via a temp file and rename so readers never observe a
// partial write.
func (s *FileStore) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
