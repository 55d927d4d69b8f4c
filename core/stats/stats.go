// Package stats derives stay statistics from released ticket records.
package stats

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/parkwella/parkd/core/history"
	"github.com/parkwella/parkd/core/lot"
)

// StayReport summarizes completed allocation episodes.
type StayReport struct {
	Count        int            `json:"count"`
	TotalRevenue float64        `json:"total_revenue"`
	MeanHours    float64        `json:"mean_hours"`
	StdDevHours  float64        `json:"stddev_hours"`
	MedianHours  float64        `json:"median_hours"`
	ByClass      map[string]int `json:"by_class"`
}

// Stays computes a report over the given records.
func Stays(recs []history.TicketRecord) StayReport {
	rep := StayReport{ByClass: make(map[string]int)}
	if len(recs) == 0 {
		return rep
	}
	hours := make([]float64, 0, len(recs))
	for _, r := range recs {
		rep.Count++
		rep.TotalRevenue += r.Charge
		rep.ByClass[r.Class]++
		hours = append(hours, r.Exit.Sub(r.Entry).Hours())
	}
	sort.Float64s(hours)
	rep.MeanHours = stat.Mean(hours, nil)
	if len(hours) > 1 {
		rep.StdDevHours = stat.StdDev(hours, nil)
	}
	rep.MedianHours = stat.Quantile(0.5, stat.Empirical, hours, nil)
	return rep
}

// Utilization is the occupied share of a snapshot, in [0,1].
func Utilization(snap lot.Snapshot) float64 {
	if snap.TotalSpots == 0 {
		return 0
	}
	return float64(snap.OccupiedSpots) / float64(snap.TotalSpots)
}

// MeanStay is a convenience over raw durations.
func MeanStay(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}
	xs := make([]float64, len(durations))
	for i, d := range durations {
		xs[i] = float64(d)
	}
	return time.Duration(stat.Mean(xs, nil))
}
