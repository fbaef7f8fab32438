package model

import (
	"fmt"
	"time"
)

// The engine surfaces validation failures synchronously to the caller of
// the specific operation. Nothing here is retried internally, and no
// operation masks a failure by substituting default state.

// DimensionMismatchError reports an embedding whose length disagrees with
// the store's centroid dimensionality.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: want %d, got %d", e.Want, e.Got)
}

// InvalidEmbeddingError reports a non-finite or empty embedding vector.
type InvalidEmbeddingError struct {
	Index int     // offending component, -1 for an empty vector
	Value float64 // offending value, meaningless when Index is -1
}

func (e *InvalidEmbeddingError) Error() string {
	if e.Index < 0 {
		return "invalid embedding: empty vector"
	}
	return fmt.Sprintf("invalid embedding: non-finite component %g at index %d", e.Value, e.Index)
}

// UnknownClusterError reports an operation against a cluster ID with no
// cluster store entry.
type UnknownClusterError struct {
	ClusterID string
}

func (e *UnknownClusterError) Error() string {
	return fmt.Sprintf("unknown cluster %q", e.ClusterID)
}

// IncompatibleSnapshotsError reports trend detection over snapshots that
// are not in strictly increasing timestamp order.
type IncompatibleSnapshotsError struct {
	Previous time.Time
	Current  time.Time
}

func (e *IncompatibleSnapshotsError) Error() string {
	return fmt.Sprintf("incompatible snapshots: current %s is not after previous %s",
		e.Current.Format(time.RFC3339), e.Previous.Format(time.RFC3339))
}

// CorruptStateError reports a persisted-state invariant violation detected
// on load. Loading must fail rather than repair the state.
type CorruptStateError struct {
	ClusterID string
	Reason    string
	Want      int
	Got       int
}

func (e *CorruptStateError) Error() string {
	if e.Want != 0 || e.Got != 0 {
		return fmt.Sprintf("corrupt state in cluster %q: %s (want %d, got %d)", e.ClusterID, e.Reason, e.Want, e.Got)
	}
	return fmt.Sprintf("corrupt state in cluster %q: %s", e.ClusterID, e.Reason)
}
