// Package trend compares successive cluster-size snapshots and classifies
// clusters as growing, new, declining, or vanished.
package trend

import (
	"sort"
	"time"

	"github.com/pmarkov/newsmind/internal/model"
)

// Snapshot captures the current cluster sizes. The result is immutable and
// belongs to append-only history; Snapshot never mutates the store.
func Snapshot(store *model.ClusterStore, now time.Time) *model.TrendSnapshot {
	clusters := make(map[string]model.SnapshotCluster, len(store.Clusters))
	for id, c := range store.Clusters {
		clusters[id] = model.SnapshotCluster{
			DocumentCount: c.DocumentCount,
			CreatedAt:     c.CreatedAt,
		}
	}
	return &model.TrendSnapshot{Timestamp: now, Clusters: clusters}
}

// Detector classifies clusters by growth rate between two snapshots.
type Detector struct {
	growthThreshold  float64
	declineThreshold float64
}

// NewDetector builds a detector with the configured thresholds.
func NewDetector(cfg model.TrendsConfig) *Detector {
	return &Detector{
		growthThreshold:  cfg.GrowthThreshold,
		declineThreshold: cfg.DeclineThreshold,
	}
}

// Detect compares two snapshots and returns a report. It fails with
// IncompatibleSnapshotsError unless current is strictly after previous.
//
// growth_rate = (current - previous) / previous. Clusters present only in
// the previous snapshot have no defined rate and are reported as vanished
// with the conventional rate -1.0, never merged into declining.
func (d *Detector) Detect(previous, current *model.TrendSnapshot) (*model.TrendReport, error) {
	if !current.Timestamp.After(previous.Timestamp) {
		return nil, &model.IncompatibleSnapshotsError{
			Previous: previous.Timestamp,
			Current:  current.Timestamp,
		}
	}

	report := &model.TrendReport{
		PreviousTimestamp: previous.Timestamp,
		CurrentTimestamp:  current.Timestamp,
		Growing:           []model.TrendEntry{},
		New:               []model.NewClusterEntry{},
		Declining:         []model.TrendEntry{},
		Vanished:          []model.TrendEntry{},
	}

	for id, cur := range current.Clusters {
		prev, seen := previous.Clusters[id]
		if !seen {
			report.New = append(report.New, model.NewClusterEntry{
				ClusterID:     id,
				DocumentCount: cur.DocumentCount,
				CreatedAt:     cur.CreatedAt,
			})
			continue
		}
		rate := float64(cur.DocumentCount-prev.DocumentCount) / float64(prev.DocumentCount)
		entry := model.TrendEntry{
			ClusterID:     id,
			DocumentCount: cur.DocumentCount,
			GrowthRate:    rate,
		}
		switch {
		case rate >= d.growthThreshold:
			report.Growing = append(report.Growing, entry)
		case rate <= -d.declineThreshold:
			report.Declining = append(report.Declining, entry)
		}
	}

	for id, prev := range previous.Clusters {
		if _, still := current.Clusters[id]; !still {
			report.Vanished = append(report.Vanished, model.TrendEntry{
				ClusterID:     id,
				DocumentCount: prev.DocumentCount,
				GrowthRate:    -1.0,
			})
		}
	}

	sortEntries(report.Growing)
	sortEntries(report.Declining)
	sortEntries(report.Vanished)
	sort.Slice(report.New, func(i, j int) bool {
		if report.New[i].DocumentCount != report.New[j].DocumentCount {
			return report.New[i].DocumentCount > report.New[j].DocumentCount
		}
		return report.New[i].ClusterID < report.New[j].ClusterID
	})

	return report, nil
}

// sortEntries orders by document count descending, cluster ID ascending,
// for deterministic output.
func sortEntries(entries []model.TrendEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].DocumentCount != entries[j].DocumentCount {
			return entries[i].DocumentCount > entries[j].DocumentCount
		}
		return entries[i].ClusterID < entries[j].ClusterID
	})
}
