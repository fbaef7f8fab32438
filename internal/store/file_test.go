package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pmarkov/newsmind/internal/model"
)

var testTime = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return st
}

func seedClusters() *model.ClusterStore {
	store := model.NewClusterStore()
	store.Sequence = 1
	store.Dimension = 2
	store.Clusters["c00000001"] = &model.Cluster{
		ID:            "c00000001",
		Centroid:      []float64{1, 0},
		DocumentCount: 2,
		MemberIDs:     []string{"a1", "a2"},
		CreatedAt:     testTime,
		LastUpdatedAt: testTime,
	}
	return store
}

func TestLoadClusters_EmptyDir(t *testing.T) {
	st := newTestStore(t)

	clusters, err := st.LoadClusters()
	if err != nil {
		t.Fatalf("LoadClusters: %v", err)
	}
	if len(clusters.Clusters) != 0 || clusters.Sequence != 0 {
		t.Errorf("expected pristine store, got %+v", clusters)
	}
}

func TestClusters_Roundtrip(t *testing.T) {
	st := newTestStore(t)

	if err := st.SaveClusters(seedClusters()); err != nil {
		t.Fatalf("SaveClusters: %v", err)
	}

	loaded, err := st.LoadClusters()
	if err != nil {
		t.Fatalf("LoadClusters: %v", err)
	}
	c := loaded.Clusters["c00000001"]
	if c == nil {
		t.Fatal("cluster missing after roundtrip")
	}
	if c.DocumentCount != 2 || len(c.MemberIDs) != 2 || loaded.Dimension != 2 {
		t.Errorf("roundtrip lost state: %+v", loaded)
	}
	if !c.CreatedAt.Equal(testTime) {
		t.Errorf("timestamp mangled: %v", c.CreatedAt)
	}
}

func TestLoadClusters_RefusesCorruptState(t *testing.T) {
	st := newTestStore(t)

	corrupt := seedClusters()
	corrupt.Clusters["c00000001"].DocumentCount = 5 // disagrees with 2 members
	if err := st.SaveClusters(corrupt); err != nil {
		t.Fatalf("SaveClusters: %v", err)
	}

	_, err := st.LoadClusters()
	var corruptErr *model.CorruptStateError
	if !errors.As(err, &corruptErr) {
		t.Fatalf("expected CorruptStateError, got %v", err)
	}
}

func TestLoadClusters_RefusesMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	st, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "clusters.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := st.LoadClusters(); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestTopicStats_Roundtrip(t *testing.T) {
	st := newTestStore(t)

	stats := map[string]*model.TopicStats{
		"c00000001": {
			ClusterID:          "c00000001",
			KeywordFrequencies: map[string]float64{"rust": 2.5},
			LastDecayAt:        testTime,
		},
	}
	if err := st.SaveTopicStats(stats); err != nil {
		t.Fatalf("SaveTopicStats: %v", err)
	}

	loaded, err := st.LoadTopicStats()
	if err != nil {
		t.Fatalf("LoadTopicStats: %v", err)
	}
	if loaded["c00000001"].KeywordFrequencies["rust"] != 2.5 {
		t.Errorf("roundtrip lost frequencies: %+v", loaded)
	}
}

func TestTrendSnapshots_AppendOnly(t *testing.T) {
	st := newTestStore(t)

	first := &model.TrendSnapshot{
		Timestamp: testTime,
		Clusters:  map[string]model.SnapshotCluster{"c1": {DocumentCount: 1, CreatedAt: testTime}},
	}
	if err := st.AppendTrendSnapshot(first); err != nil {
		t.Fatalf("AppendTrendSnapshot: %v", err)
	}
	if err := st.AppendTrendSnapshot(first); err == nil {
		t.Fatal("expected refusal to overwrite an existing snapshot")
	}

	second := &model.TrendSnapshot{
		Timestamp: testTime.Add(time.Hour),
		Clusters:  map[string]model.SnapshotCluster{"c1": {DocumentCount: 4, CreatedAt: testTime}},
	}
	if err := st.AppendTrendSnapshot(second); err != nil {
		t.Fatalf("AppendTrendSnapshot second: %v", err)
	}

	latest, err := st.LoadLatestTrendSnapshot()
	if err != nil {
		t.Fatalf("LoadLatestTrendSnapshot: %v", err)
	}
	if !latest.Timestamp.Equal(second.Timestamp) {
		t.Errorf("expected newest snapshot, got %v", latest.Timestamp)
	}

	recent, err := st.LoadRecentTrendSnapshots(2)
	if err != nil {
		t.Fatalf("LoadRecentTrendSnapshots: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(recent))
	}
	if !recent[0].Timestamp.Before(recent[1].Timestamp) {
		t.Error("expected chronological order")
	}
}

func TestLoadLatestTrendSnapshot_Empty(t *testing.T) {
	st := newTestStore(t)
	snapshot, err := st.LoadLatestTrendSnapshot()
	if err != nil {
		t.Fatalf("LoadLatestTrendSnapshot: %v", err)
	}
	if snapshot != nil {
		t.Errorf("expected nil, got %+v", snapshot)
	}
}

func TestArticles_RoundtripAndList(t *testing.T) {
	st := newTestStore(t)

	for _, id := range []string{"b2", "a1"} {
		article := &model.Article{
			ID:          id,
			Title:       "Title " + id,
			URL:         "https://example.com/" + id,
			Source:      "hackernews",
			PublishedAt: testTime,
			IngestedAt:  testTime,
			Keywords:    []string{"kw"},
		}
		if err := st.SaveArticle(article); err != nil {
			t.Fatalf("SaveArticle: %v", err)
		}
	}

	loaded, err := st.LoadArticle("a1")
	if err != nil {
		t.Fatalf("LoadArticle: %v", err)
	}
	if loaded.Title != "Title a1" {
		t.Errorf("roundtrip lost article: %+v", loaded)
	}

	ids, err := st.ListArticleIDs()
	if err != nil {
		t.Fatalf("ListArticleIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != "a1" || ids[1] != "b2" {
		t.Errorf("expected sorted IDs [a1 b2], got %v", ids)
	}

	if _, err := st.LoadArticle("missing"); err == nil {
		t.Error("expected error for missing article")
	}
}
