package model

import (
	"testing"
	"time"
)

var testTime = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func TestNextClusterID_LexicalOrderMatchesCreation(t *testing.T) {
	store := NewClusterStore()
	prev := ""
	for i := 0; i < 100; i++ {
		id := store.NextClusterID()
		if id <= prev {
			t.Fatalf("ID %q does not sort after %q", id, prev)
		}
		prev = id
	}
	if prev != "c00000100" {
		t.Errorf("unexpected final ID %s", prev)
	}
}

func TestAddMember_KeepsSortedOrder(t *testing.T) {
	c := &Cluster{}
	for _, id := range []string{"m", "a", "z", "b"} {
		c.AddMember(id)
	}
	want := []string{"a", "b", "m", "z"}
	for i, id := range want {
		if c.MemberIDs[i] != id {
			t.Fatalf("position %d: expected %s, got %v", i, id, c.MemberIDs)
		}
	}
	if !c.HasMember("z") || c.HasMember("q") {
		t.Error("HasMember gave a wrong answer")
	}
}

func TestFindMember(t *testing.T) {
	store := NewClusterStore()
	store.Clusters["c00000001"] = &Cluster{
		ID: "c00000001", Centroid: []float64{1}, DocumentCount: 1,
		MemberIDs: []string{"a1"}, CreatedAt: testTime, LastUpdatedAt: testTime,
	}

	if got := store.FindMember("a1"); got != "c00000001" {
		t.Errorf("expected c00000001, got %q", got)
	}
	if got := store.FindMember("nope"); got != "" {
		t.Errorf("expected empty for unassigned article, got %q", got)
	}
}

func validStore() *ClusterStore {
	store := NewClusterStore()
	store.Sequence = 2
	store.Dimension = 2
	store.Clusters["c00000001"] = &Cluster{
		ID: "c00000001", Centroid: []float64{1, 0}, DocumentCount: 1,
		MemberIDs: []string{"a1"}, CreatedAt: testTime, LastUpdatedAt: testTime,
	}
	store.Clusters["c00000002"] = &Cluster{
		ID: "c00000002", Centroid: []float64{0, 1}, DocumentCount: 1,
		MemberIDs: []string{"a2"}, CreatedAt: testTime, LastUpdatedAt: testTime,
	}
	return store
}

func TestValidate(t *testing.T) {
	if err := validStore().Validate(); err != nil {
		t.Fatalf("valid store rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*ClusterStore)
	}{
		{"count disagrees with members", func(s *ClusterStore) {
			s.Clusters["c00000001"].DocumentCount = 3
		}},
		{"empty cluster", func(s *ClusterStore) {
			s.Clusters["c00000001"].DocumentCount = 0
			s.Clusters["c00000001"].MemberIDs = nil
		}},
		{"wrong centroid dimension", func(s *ClusterStore) {
			s.Clusters["c00000001"].Centroid = []float64{1, 0, 0}
		}},
		{"duplicate membership", func(s *ClusterStore) {
			s.Clusters["c00000002"].MemberIDs = []string{"a1"}
		}},
		{"key disagrees with ID", func(s *ClusterStore) {
			s.Clusters["c00000001"].ID = "c00000009"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := validStore()
			tt.mutate(store)
			err := store.Validate()
			if err == nil {
				t.Fatal("expected CorruptStateError")
			}
			if _, ok := err.(*CorruptStateError); !ok {
				t.Fatalf("expected *CorruptStateError, got %T", err)
			}
		})
	}
}

func TestTotalDocuments(t *testing.T) {
	if got := validStore().TotalDocuments(); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if got := NewClusterStore().TotalDocuments(); got != 0 {
		t.Errorf("expected 0 for empty store, got %d", got)
	}
}
