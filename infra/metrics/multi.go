package metrics

import coremetrics "github.com/parkwella/parkd/core/metrics"

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordAllocation forwards the record to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordAllocation(rec coremetrics.AllocationRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordAllocation(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordRelease forwards the record to all sinks.
func (m *MultiSink) RecordRelease(rec coremetrics.ReleaseRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordRelease(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordOccupancy forwards the samples to sinks that accept them.
func (m *MultiSink) RecordOccupancy(samples []coremetrics.OccupancySample) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.OccupancyRecorder); ok {
			if err := rec.RecordOccupancy(samples); err != nil {
				return err
			}
		}
	}
	return nil
}
