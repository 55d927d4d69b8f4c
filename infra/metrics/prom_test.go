package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/parkwella/parkd/core/metrics"
	"github.com/parkwella/parkd/core/model"
)

func TestPromSinkRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("sink: %v", err)
	}

	err = sink.RecordAllocation(coremetrics.AllocationRecord{
		Class: model.ClassCompact, Accepted: true, Time: time.Now(),
	})
	if err != nil {
		t.Fatalf("record allocation: %v", err)
	}
	got := testutil.ToFloat64(sink.allocations.WithLabelValues("compact", "true"))
	if got != 1 {
		t.Fatalf("allocations counter = %v, want 1", got)
	}

	err = sink.RecordRelease(coremetrics.ReleaseRecord{
		Class: model.ClassCompact, Duration: 2 * time.Hour, Charge: 20, Time: time.Now(),
	})
	if err != nil {
		t.Fatalf("record release: %v", err)
	}
	if rev := testutil.ToFloat64(sink.revenue); rev != 20 {
		t.Fatalf("revenue = %v, want 20", rev)
	}

	err = sink.RecordOccupancy([]coremetrics.OccupancySample{
		{FloorID: 1, Total: 10, Occupied: 3, Time: time.Now()},
	})
	if err != nil {
		t.Fatalf("record occupancy: %v", err)
	}
	if occ := testutil.ToFloat64(sink.occupancy.WithLabelValues("1")); occ != 3 {
		t.Fatalf("occupancy = %v, want 3", occ)
	}
}

func TestPromSinkDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("second registration should reuse collectors: %v", err)
	}
}

func TestMultiSinkFanout(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("sink: %v", err)
	}
	multi := NewMultiSink(coremetrics.NopSink{}, prom)
	err = multi.RecordAllocation(coremetrics.AllocationRecord{Class: model.ClassHeavy, Accepted: false})
	if err != nil {
		t.Fatalf("multi record: %v", err)
	}
	got := testutil.ToFloat64(prom.allocations.WithLabelValues("heavy", "false"))
	if got != 1 {
		t.Fatalf("fanout counter = %v, want 1", got)
	}
	if err := multi.RecordOccupancy(nil); err != nil {
		t.Fatalf("occupancy fanout: %v", err)
	}
}
