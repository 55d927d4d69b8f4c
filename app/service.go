package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/parkwella/parkd/api/reports"
	"github.com/parkwella/parkd/api/status"
	"github.com/parkwella/parkd/api/tickets"
	"github.com/parkwella/parkd/config"
	"github.com/parkwella/parkd/core/billing"
	"github.com/parkwella/parkd/core/history"
	"github.com/parkwella/parkd/core/lot"
	coremetrics "github.com/parkwella/parkd/core/metrics"
	"github.com/parkwella/parkd/infra/logger"
	"github.com/parkwella/parkd/infra/metrics"
	"github.com/parkwella/parkd/infra/mqtt"
	"github.com/parkwella/parkd/internal/eventbus"
)

// Service wires the lot, its observers and the HTTP surface together.
type Service struct {
	Lot *lot.Lot

	cfg      *config.Config
	bus      eventbus.EventBus
	store    history.Store
	notifier *mqtt.Notifier
	sink     coremetrics.MetricsSink
	log      logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	calc, err := billing.NewCalculator(cfg.Billing.RatePerHour)
	if err != nil {
		return nil, fmt.Errorf("billing: %w", err)
	}

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken,
			cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket)
		sinks = append(sinks, sink)
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	var store history.Store
	if cfg.History.Enabled {
		store, err = history.Open(cfg.History.Backend, cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("history store: %w", err)
		}
	}

	bus := eventbus.New()
	opts := []lot.Option{
		lot.WithLogger(logger.New("lot")),
		lot.WithEventBus(bus),
		lot.WithMetricsSink(sink),
		lot.WithCalculator(calc),
	}
	if store != nil {
		opts = append(opts, lot.WithHistoryStore(store))
	}
	p, err := cfg.Lot.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("build lot: %w", err)
	}

	svc := &Service{Lot: p, cfg: cfg, bus: bus, store: store, sink: sink, log: logg}
	if cfg.MQTT.Enabled {
		notifier, err := mqtt.NewNotifier(cfg.MQTT, p.UID())
		if err != nil {
			return nil, fmt.Errorf("mqtt notifier: %w", err)
		}
		svc.notifier = notifier
	}
	return svc, nil
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.notifier != nil {
		go s.notifier.Run(s.bus)
	}
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	go s.sampleOccupancy(ctx)

	mux := http.NewServeMux()
	mux.Handle("/api/lot/status", status.NewHandler(s.Lot))
	if s.store != nil {
		mux.Handle("/api/tickets", tickets.NewHandler(s.store))
		mux.Handle("/api/reports/stays", reports.NewStaysHandler(s.store))
	}
	srv := &http.Server{Addr: s.cfg.API.Addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api shutdown: %v", err)
		}
	}()
	s.log.Infof("serving lot %s on %s", s.Lot.UID(), s.cfg.API.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// sampleOccupancy periodically records per-floor occupancy.
func (s *Service) sampleOccupancy(ctx context.Context) {
	rec, ok := s.sink.(coremetrics.OccupancyRecorder)
	if !ok {
		return
	}
	interval := time.Duration(s.cfg.Metrics.OccupancyIntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := rec.RecordOccupancy(s.Lot.Occupancy()); err != nil {
				s.log.Errorf("record occupancy: %v", err)
			}
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.notifier != nil {
		s.notifier.Disconnect()
	}
	s.bus.Close()
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
