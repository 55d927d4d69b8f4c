package metrics

import (
	"time"

	"github.com/parkwella/parkd/core/model"
)

// AllocationRecord represents one park attempt to be recorded.
type AllocationRecord struct {
	TicketID string
	Plate    string
	Class    model.VehicleClass
	SpotID   string
	FloorID  uint32
	Accepted bool
	Reason   string
	Time     time.Time
}

// ReleaseRecord represents one completed allocation episode.
type ReleaseRecord struct {
	TicketID string
	SpotID   string
	Class    model.VehicleClass
	Duration time.Duration
	Charge   float64
	Time     time.Time
}

// OccupancySample is a point-in-time count of spots on one floor.
type OccupancySample struct {
	FloorID  uint32
	Total    int
	Occupied int
	Time     time.Time
}

// MetricsSink records allocation activity for observability purposes.
type MetricsSink interface {
	RecordAllocation(rec AllocationRecord) error
	RecordRelease(rec ReleaseRecord) error
}

// OccupancyRecorder records per-floor occupancy samples.
type OccupancyRecorder interface {
	RecordOccupancy(samples []OccupancySample) error
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) RecordAllocation(AllocationRecord) error { return nil }
func (NopSink) RecordRelease(ReleaseRecord) error { return nil }
func (NopSink) RecordOccupancy([]OccupancySample) error { return nil }
