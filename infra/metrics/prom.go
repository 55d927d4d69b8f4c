package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/parkwella/parkd/core/metrics"
)

// PromSink records allocation activity in Prometheus metrics.
type PromSink struct {
	allocations *prometheus.CounterVec
	stay        *prometheus.HistogramVec
	revenue     prometheus.Counter
	occupancy   *prometheus.GaugeVec
	capacity    *prometheus.GaugeVec
}

// NewPromSink registers allocation metrics on the default Prometheus
// registerer. The metrics HTTP server is started separately.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	allocations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_allocations_total",
		Help: "Total number of park attempts",
	}, []string{"vehicle_class", "accepted"})
	stay := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "parking_stay_hours",
		Help:    "Duration of completed stays in hours",
		Buckets: []float64{0.5, 1, 2, 4, 8, 12, 24, 48},
	}, []string{"vehicle_class"})
	revenue := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parking_revenue_total",
		Help: "Sum of charges for released tickets",
	})
	occupancy := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "parking_occupied_spots",
		Help: "Occupied spots per floor",
	}, []string{"floor"})
	capacity := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "parking_total_spots",
		Help: "Total spots per floor",
	}, []string{"floor"})

	s := &PromSink{allocations: allocations, stay: stay, revenue: revenue, occupancy: occupancy, capacity: capacity}
	if err := register(reg, allocations, func(c prometheus.Collector) { s.allocations = c.(*prometheus.CounterVec) }); err != nil {
		return nil, err
	}
	if err := register(reg, stay, func(c prometheus.Collector) { s.stay = c.(*prometheus.HistogramVec) }); err != nil {
		return nil, err
	}
	if err := register(reg, revenue, func(c prometheus.Collector) { s.revenue = c.(prometheus.Counter) }); err != nil {
		return nil, err
	}
	if err := register(reg, occupancy, func(c prometheus.Collector) { s.occupancy = c.(*prometheus.GaugeVec) }); err != nil {
		return nil, err
	}
	if err := register(reg, capacity, func(c prometheus.Collector) { s.capacity = c.(*prometheus.GaugeVec) }); err != nil {
		return nil, err
	}
	return s, nil
}

func register(reg prometheus.Registerer, c prometheus.Collector, replace func(prometheus.Collector)) error {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			replace(are.ExistingCollector)
			return nil
		}
		return err
	}
	return nil
}

// RecordAllocation increments the counter for the park attempt.
func (s *PromSink) RecordAllocation(rec coremetrics.AllocationRecord) error {
	s.allocations.WithLabelValues(rec.Class.String(), strconv.FormatBool(rec.Accepted)).Inc()
	return nil
}

// RecordRelease observes the stay duration and adds the charge.
func (s *PromSink) RecordRelease(rec coremetrics.ReleaseRecord) error {
	s.stay.WithLabelValues(rec.Class.String()).Observe(rec.Duration.Hours())
	s.revenue.Add(rec.Charge)
	return nil
}

// RecordOccupancy sets the per-floor gauges.
func (s *PromSink) RecordOccupancy(samples []coremetrics.OccupancySample) error {
	for _, smp := range samples {
		floor := strconv.FormatUint(uint64(smp.FloorID), 10)
		s.occupancy.WithLabelValues(floor).Set(float64(smp.Occupied))
		s.capacity.WithLabelValues(floor).Set(float64(smp.Total))
	}
	return nil
}
