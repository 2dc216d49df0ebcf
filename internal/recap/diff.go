package recap

import (
	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/stats"
)

// DeltaMetric is one nonzero per-metric change. Label is the display label
// inside its category; Name is the flat registry name used for ranking and
// substring aggregation.
type DeltaMetric struct {
	Label string
	Name  string
	Value float64
}

// DeltaCategory is one display category with at least one nonzero metric.
type DeltaCategory struct {
	Name      string
	Thumbnail string
	Metrics   []DeltaMetric
}

// Delta is the categorized, zero-filtered difference between two snapshots
// of the same player. Ordering always follows the registry template,
// independent of computation order.
type Delta struct {
	Categories []DeltaCategory
}

// Empty reports whether no metric changed at all.
func (d Delta) Empty() bool {
	return len(d.Categories) == 0
}

// Metric returns the delta value for a flat metric name, searching every
// category. A miss returns (0, false); callers ranking on a metric treat a
// miss as zero.
func (d Delta) Metric(name string) (float64, bool) {
	for _, cat := range d.Categories {
		for _, m := range cat.Metrics {
			if m.Name == name {
				return m.Value, true
			}
		}
	}
	return 0, false
}

// Diff computes later minus earlier across the full category template,
// dropping metrics with no change and categories left empty. Callers must
// pass snapshots in capture order; the engine does not reorder them.
func Diff(earlier, later *stats.Record) Delta {
	var delta Delta
	for _, cat := range stats.Template() {
		var metrics []DeltaMetric
		for _, m := range cat.Metrics {
			v := m.Extract(later) - m.Extract(earlier)
			if v == 0 {
				continue
			}
			metrics = append(metrics, DeltaMetric{Label: m.Label, Name: m.Name, Value: v})
		}
		if len(metrics) == 0 {
			continue
		}
		delta.Categories = append(delta.Categories, DeltaCategory{
			Name:      cat.Name,
			Thumbnail: cat.Thumbnail,
			Metrics:   metrics,
		})
	}
	return delta
}
