package model

import (
	"fmt"
	"sort"
	"time"
)

// Cluster groups articles around a running-mean centroid. The centroid is
// always the incremental mean of every embedding ever assigned to the
// cluster, not a windowed mean, so assignment order cannot change the final
// value for a fixed member set.
type Cluster struct {
	ID            string    `json:"cluster_id"`
	Centroid      []float64 `json:"centroid"`
	DocumentCount int       `json:"document_count"`
	MemberIDs     []string  `json:"member_ids"` // kept sorted for deterministic serialization
	CreatedAt     time.Time `json:"created_at"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}

// HasMember reports whether the article is already a member of this cluster.
func (c *Cluster) HasMember(articleID string) bool {
	i := sort.SearchStrings(c.MemberIDs, articleID)
	return i < len(c.MemberIDs) && c.MemberIDs[i] == articleID
}

// AddMember inserts the article ID preserving sorted order. It is the
// caller's job (the clustering engine) to check membership first.
func (c *Cluster) AddMember(articleID string) {
	i := sort.SearchStrings(c.MemberIDs, articleID)
	c.MemberIDs = append(c.MemberIDs, "")
	copy(c.MemberIDs[i+1:], c.MemberIDs[i:])
	c.MemberIDs[i] = articleID
}

// ClusterStore is the complete mutable cluster state. It is an explicit
// value passed to the components that read it; only the clustering engine
// mutates it, under a single-writer section.
type ClusterStore struct {
	Clusters map[string]*Cluster `json:"clusters"`

	// Dimension is the embedding dimensionality, fixed by the first
	// assignment. Zero while the store is empty.
	Dimension int `json:"dimension"`

	// Sequence feeds NextClusterID. Cluster IDs are never reused, so the
	// counter only grows even though clusters are never deleted here.
	Sequence uint64 `json:"sequence"`
}

// NewClusterStore returns an empty store.
func NewClusterStore() *ClusterStore {
	return &ClusterStore{Clusters: make(map[string]*Cluster)}
}

// NextClusterID mints a fresh cluster ID. Zero-padding makes lexical order
// match creation order, which the assignment tie-break relies on.
func (s *ClusterStore) NextClusterID() string {
	s.Sequence++
	return fmt.Sprintf("c%08d", s.Sequence)
}

// ClusterIDs returns all cluster IDs in ascending order.
func (s *ClusterStore) ClusterIDs() []string {
	ids := make([]string, 0, len(s.Clusters))
	for id := range s.Clusters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FindMember returns the cluster an article is assigned to, or "" when the
// article is unassigned.
func (s *ClusterStore) FindMember(articleID string) string {
	for _, id := range s.ClusterIDs() {
		if s.Clusters[id].HasMember(articleID) {
			return id
		}
	}
	return ""
}

// TotalDocuments sums document counts across all clusters.
func (s *ClusterStore) TotalDocuments() int {
	total := 0
	for _, c := range s.Clusters {
		total += c.DocumentCount
	}
	return total
}

// Validate checks the store invariants and returns a CorruptStateError on
// the first violation. Persisted state that fails validation must be
// rejected, never silently repaired.
func (s *ClusterStore) Validate() error {
	seen := make(map[string]string) // article ID -> owning cluster
	for _, id := range s.ClusterIDs() {
		c := s.Clusters[id]
		if c.ID != id {
			return &CorruptStateError{ClusterID: id, Reason: fmt.Sprintf("key %q disagrees with cluster_id %q", id, c.ID)}
		}
		if c.DocumentCount != len(c.MemberIDs) {
			return &CorruptStateError{
				ClusterID: id,
				Reason:    "document_count disagrees with member_ids",
				Want:      len(c.MemberIDs),
				Got:       c.DocumentCount,
			}
		}
		if c.DocumentCount < 1 {
			return &CorruptStateError{ClusterID: id, Reason: "cluster has no members"}
		}
		if s.Dimension > 0 && len(c.Centroid) != s.Dimension {
			return &CorruptStateError{
				ClusterID: id,
				Reason:    "centroid dimensionality disagrees with store",
				Want:      s.Dimension,
				Got:       len(c.Centroid),
			}
		}
		for _, member := range c.MemberIDs {
			if owner, dup := seen[member]; dup {
				return &CorruptStateError{
					ClusterID: id,
					Reason:    fmt.Sprintf("article %q is also a member of cluster %q", member, owner),
				}
			}
			seen[member] = id
		}
	}
	return nil
}
