package trend

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/pmarkov/newsmind/internal/model"
)

var (
	t0 = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
)

func snapshotAt(ts time.Time, counts map[string]int) *model.TrendSnapshot {
	clusters := make(map[string]model.SnapshotCluster, len(counts))
	for id, count := range counts {
		clusters[id] = model.SnapshotCluster{DocumentCount: count, CreatedAt: t0}
	}
	return &model.TrendSnapshot{Timestamp: ts, Clusters: clusters}
}

func testDetector() *Detector {
	return NewDetector(model.TrendsConfig{GrowthThreshold: 0.5, DeclineThreshold: 0.3})
}

func TestDetect_Classification(t *testing.T) {
	previous := snapshotAt(t0, map[string]int{"c1": 2, "c2": 1})
	current := snapshotAt(t1, map[string]int{"c1": 5, "c3": 1})

	report, err := testDetector().Detect(previous, current)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	if len(report.Growing) != 1 || report.Growing[0].ClusterID != "c1" {
		t.Fatalf("expected c1 growing, got %+v", report.Growing)
	}
	if math.Abs(report.Growing[0].GrowthRate-1.5) > 1e-12 {
		t.Errorf("expected rate 1.5, got %f", report.Growing[0].GrowthRate)
	}

	if len(report.New) != 1 || report.New[0].ClusterID != "c3" {
		t.Errorf("expected c3 new, got %+v", report.New)
	}

	if len(report.Vanished) != 1 || report.Vanished[0].ClusterID != "c2" {
		t.Fatalf("expected c2 vanished, got %+v", report.Vanished)
	}
	if report.Vanished[0].GrowthRate != -1.0 {
		t.Errorf("vanished rate should be -1.0, got %f", report.Vanished[0].GrowthRate)
	}

	if len(report.Declining) != 0 {
		t.Errorf("expected nothing declining, got %+v", report.Declining)
	}
}

func TestDetect_Declining(t *testing.T) {
	previous := snapshotAt(t0, map[string]int{"c1": 10})
	current := snapshotAt(t1, map[string]int{"c1": 6})

	report, err := testDetector().Detect(previous, current)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Declining) != 1 || report.Declining[0].ClusterID != "c1" {
		t.Fatalf("expected c1 declining, got %+v", report.Declining)
	}
	if math.Abs(report.Declining[0].GrowthRate-(-0.4)) > 1e-12 {
		t.Errorf("expected rate -0.4, got %f", report.Declining[0].GrowthRate)
	}
}

func TestDetect_StableClusterNotReported(t *testing.T) {
	previous := snapshotAt(t0, map[string]int{"c1": 10})
	current := snapshotAt(t1, map[string]int{"c1": 11})

	report, err := testDetector().Detect(previous, current)
	if err != nil {
		t.Fatal(err)
	}
	total := len(report.Growing) + len(report.New) + len(report.Declining) + len(report.Vanished)
	if total != 0 {
		t.Errorf("expected empty report for a stable cluster, got %+v", report)
	}
}

func TestDetect_RejectsNonAdvancingTimestamps(t *testing.T) {
	previous := snapshotAt(t0, map[string]int{"c1": 1})

	var incompatible *model.IncompatibleSnapshotsError

	_, err := testDetector().Detect(previous, snapshotAt(t0, map[string]int{"c1": 1}))
	if !errors.As(err, &incompatible) {
		t.Fatalf("expected IncompatibleSnapshotsError for equal timestamps, got %v", err)
	}

	_, err = testDetector().Detect(previous, snapshotAt(t0.Add(-time.Hour), map[string]int{"c1": 1}))
	if !errors.As(err, &incompatible) {
		t.Fatalf("expected IncompatibleSnapshotsError for reversed order, got %v", err)
	}
}

func TestDetect_DeterministicOrdering(t *testing.T) {
	previous := snapshotAt(t0, map[string]int{"c1": 1, "c2": 1, "c3": 1})
	current := snapshotAt(t1, map[string]int{"c1": 3, "c2": 3, "c3": 5})

	report, err := testDetector().Detect(previous, current)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Growing) != 3 {
		t.Fatalf("expected 3 growing, got %d", len(report.Growing))
	}
	// c3 has the highest count; c1 beats c2 by ID at equal counts.
	want := []string{"c3", "c1", "c2"}
	for i, id := range want {
		if report.Growing[i].ClusterID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, report.Growing[i].ClusterID)
		}
	}
}

func TestSnapshot_CapturesCounts(t *testing.T) {
	store := model.NewClusterStore()
	store.Clusters["c1"] = &model.Cluster{
		ID: "c1", Centroid: []float64{1}, DocumentCount: 3,
		MemberIDs: []string{"a", "b", "c"}, CreatedAt: t0, LastUpdatedAt: t0,
	}

	snapshot := Snapshot(store, t1)
	if !snapshot.Timestamp.Equal(t1) {
		t.Errorf("unexpected timestamp %v", snapshot.Timestamp)
	}
	cl, ok := snapshot.Clusters["c1"]
	if !ok || cl.DocumentCount != 3 || !cl.CreatedAt.Equal(t0) {
		t.Errorf("unexpected snapshot entry %+v", cl)
	}
}
