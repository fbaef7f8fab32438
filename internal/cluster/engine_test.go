package cluster

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/pmarkov/newsmind/internal/model"
)

var testTime = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(threshold float64) *Engine {
	return NewEngine(model.NewClusterStore(), threshold, nil)
}

func TestAssign_ThresholdSplitsClusters(t *testing.T) {
	e := newTestEngine(0.9)

	c1, err := e.Assign("a1", []float64{1, 0}, testTime)
	if err != nil {
		t.Fatalf("assign a1: %v", err)
	}
	c2, err := e.Assign("a2", []float64{0.99, 0.01}, testTime)
	if err != nil {
		t.Fatalf("assign a2: %v", err)
	}
	c3, err := e.Assign("a3", []float64{0, 1}, testTime)
	if err != nil {
		t.Fatalf("assign a3: %v", err)
	}

	if c1 != c2 {
		t.Errorf("near-identical embeddings split: %s vs %s", c1, c2)
	}
	if c3 == c1 {
		t.Error("orthogonal embedding joined the wrong cluster")
	}
	if got := e.Store().Clusters[c1].DocumentCount; got != 2 {
		t.Errorf("expected 2 documents in %s, got %d", c1, got)
	}
}

func TestAssign_Idempotent(t *testing.T) {
	e := newTestEngine(0.7)

	first, err := e.Assign("a1", []float64{1, 0}, testTime)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	centroidBefore := append([]float64(nil), e.Store().Clusters[first].Centroid...)

	second, err := e.Assign("a1", []float64{1, 0}, testTime.Add(time.Hour))
	if err != nil {
		t.Fatalf("re-assign: %v", err)
	}
	if second != first {
		t.Errorf("re-assignment moved the article: %s vs %s", first, second)
	}
	c := e.Store().Clusters[first]
	if c.DocumentCount != 1 {
		t.Errorf("re-assignment changed the count: %d", c.DocumentCount)
	}
	for i := range centroidBefore {
		if c.Centroid[i] != centroidBefore[i] {
			t.Fatal("re-assignment moved the centroid")
		}
	}
}

func TestAssign_CentroidIsMemberMean(t *testing.T) {
	e := newTestEngine(0.5)

	id1, err := e.Assign("b1", []float64{1, 0}, testTime)
	if err != nil {
		t.Fatal(err)
	}
	// cos([1,0],[0.8,0.6]) = 0.8, above the threshold.
	id2, err := e.Assign("b2", []float64{0.8, 0.6}, testTime)
	if err != nil {
		t.Fatal(err)
	}
	if id1 != id2 {
		t.Fatal("expected b2 to join b1's cluster")
	}

	centroid := e.Store().Clusters[id1].Centroid
	want := []float64{0.9, 0.3}
	for i := range want {
		if math.Abs(centroid[i]-want[i]) > 1e-12 {
			t.Errorf("centroid[%d] = %f, want %f", i, centroid[i], want[i])
		}
	}
}

func TestAssign_ConservationOfDocuments(t *testing.T) {
	e := newTestEngine(0.9)
	embeddings := [][]float64{
		{1, 0}, {0.99, 0.01}, {0, 1}, {0.01, 0.99}, {0.7, 0.7},
	}
	for i, emb := range embeddings {
		if _, err := e.Assign(string(rune('a'+i)), emb, testTime); err != nil {
			t.Fatalf("assign %d: %v", i, err)
		}
	}
	if got := e.Store().TotalDocuments(); got != len(embeddings) {
		t.Errorf("document count not conserved: %d != %d", got, len(embeddings))
	}
	if err := e.Store().Validate(); err != nil {
		t.Errorf("store invalid after assignments: %v", err)
	}
}

func TestAssign_DimensionMismatch(t *testing.T) {
	e := newTestEngine(0.7)
	if _, err := e.Assign("a1", []float64{1, 0}, testTime); err != nil {
		t.Fatal(err)
	}

	_, err := e.Assign("a2", []float64{1, 0, 0}, testTime)
	var mismatch *model.DimensionMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected DimensionMismatchError, got %v", err)
	}
	if mismatch.Want != 2 || mismatch.Got != 3 {
		t.Errorf("unexpected mismatch fields: %+v", mismatch)
	}
}

func TestAssign_InvalidEmbedding(t *testing.T) {
	e := newTestEngine(0.7)

	var invalid *model.InvalidEmbeddingError

	_, err := e.Assign("a1", nil, testTime)
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidEmbeddingError for empty, got %v", err)
	}
	if invalid.Index != -1 {
		t.Errorf("expected index -1 for empty embedding, got %d", invalid.Index)
	}

	_, err = e.Assign("a2", []float64{1, math.NaN()}, testTime)
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidEmbeddingError for NaN, got %v", err)
	}
	if invalid.Index != 1 {
		t.Errorf("expected index 1 for NaN, got %d", invalid.Index)
	}

	_, err = e.Assign("a3", []float64{math.Inf(1)}, testTime)
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidEmbeddingError for Inf, got %v", err)
	}

	if len(e.Store().Clusters) != 0 {
		t.Error("invalid embeddings must not create clusters")
	}
}

func TestAssign_Deterministic(t *testing.T) {
	run := func() map[string]string {
		e := newTestEngine(0.9)
		assignments := make(map[string]string)
		for i, emb := range [][]float64{{1, 0}, {0.99, 0.01}, {0, 1}} {
			id := string(rune('a' + i))
			cid, err := e.Assign(id, emb, testTime)
			if err != nil {
				t.Fatal(err)
			}
			assignments[id] = cid
		}
		return assignments
	}

	first := run()
	second := run()
	for id, cid := range first {
		if second[id] != cid {
			t.Errorf("assignment of %s differs across runs: %s vs %s", id, cid, second[id])
		}
	}
}

func TestAssign_FirstClusterSetsDimension(t *testing.T) {
	e := newTestEngine(0.7)
	if _, err := e.Assign("a1", []float64{1, 0, 0}, testTime); err != nil {
		t.Fatal(err)
	}
	if e.Store().Dimension != 3 {
		t.Errorf("expected dimension 3, got %d", e.Store().Dimension)
	}
}
