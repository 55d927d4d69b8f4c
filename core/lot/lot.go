// Package lot implements the parking allocation engine: the
// lot/floor/spot hierarchy, first-fit spot matching and the ticket
// lifecycle.
//
// Lock order: the floor-table lock is always outermost, a floor's spot
// lock innermost. The ticket table has its own lock and is never held
// together with the others.
package lot

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/parkwella/parkd/core/billing"
	"github.com/parkwella/parkd/core/events"
	"github.com/parkwella/parkd/core/history"
	"github.com/parkwella/parkd/core/logger"
	"github.com/parkwella/parkd/core/metrics"
	"github.com/parkwella/parkd/core/model"
	"github.com/parkwella/parkd/internal/eventbus"
)

// Lot owns the floors and the ticket table and orchestrates allocation
// and release across floors.
type Lot struct {
	name    string
	address string
	uid     string

	floorsMu sync.Mutex
	floors   map[uint32]*Floor

	ticketsMu sync.Mutex
	tickets   map[string]model.Ticket

	ticketIDs *Sequence
	spotIDs   *Sequence

	calc  billing.Calculator
	log   logger.Logger
	bus   eventbus.EventBus
	sink  metrics.MetricsSink
	store history.Store
	now   func() time.Time
}

// Option configures a Lot.
type Option func(*Lot)

// WithLogger sets the logger used for allocation events.
func WithLogger(l logger.Logger) Option { return func(p *Lot) { p.log = l } }

// WithEventBus sets the bus on which lot events are published.
func WithEventBus(b eventbus.EventBus) Option { return func(p *Lot) { p.bus = b } }

// WithMetricsSink sets the sink recording allocation activity.
func WithMetricsSink(s metrics.MetricsSink) Option { return func(p *Lot) { p.sink = s } }

// WithHistoryStore sets the store receiving released ticket records.
func WithHistoryStore(s history.Store) Option { return func(p *Lot) { p.store = s } }

// WithCalculator sets the billing calculator.
func WithCalculator(c billing.Calculator) Option { return func(p *Lot) { p.calc = c } }

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option { return func(p *Lot) { p.now = now } }

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

// New creates a Lot. Ticket and spot id sequences are owned by the lot
// so independent lots never collide.
func New(name, address, uid string, opts ...Option) *Lot {
	calc, _ := billing.NewCalculator(billing.DefaultRatePerHour)
	p := &Lot{
		name:      name,
		address:   address,
		uid:       uid,
		floors:    make(map[uint32]*Floor),
		tickets:   make(map[string]model.Ticket),
		ticketIDs: NewSequence("TKT_"),
		spotIDs:   NewSequence("spot_"),
		calc:      calc,
		log:       nopLogger{},
		sink:      metrics.NopSink{},
		now:       time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Name returns the lot name.
func (p *Lot) Name() string { return p.name }

// Address returns the lot address.
func (p *Lot) Address() string { return p.address }

// UID returns the lot's unique identifier.
func (p *Lot) UID() string { return p.uid }

// SpotIDs returns the sequence floors should draw spot ids from.
func (p *Lot) SpotIDs() *Sequence { return p.spotIDs }

// AddFloor inserts the floor under its identifier. An existing floor
// with the same id is silently replaced.
func (p *Lot) AddFloor(f *Floor) {
	p.floorsMu.Lock()
	p.floors[f.id] = f
	p.floorsMu.Unlock()
}

// FloorByID returns the floor with the given id, if present.
func (p *Lot) FloorByID(id uint32) (*Floor, bool) {
	p.floorsMu.Lock()
	defer p.floorsMu.Unlock()
	f, ok := p.floors[id]
	return f, ok
}

// ParkVehicle finds a compatible free spot, occupies it and mints a
// ticket. The scan and the occupy are separate critical sections: a
// concurrent caller may win the spot in between, in which case the
// occupy fails with ErrSpotOccupied instead of double-allocating.
func (p *Lot) ParkVehicle(v model.Vehicle) (model.Ticket, error) {
	floorID, spotID, ok := p.findSpot(v.Class)
	if !ok {
		p.log.Warnf("no available spot for %s vehicle %s", v.Class, v.Plate)
		p.publish(events.CapacityExhausted{Class: v.Class, Time: p.now()})
		p.recordAllocation(metrics.AllocationRecord{
			Plate: v.Plate, Class: v.Class, Accepted: false,
			Reason: "no_available_spot", Time: p.now(),
		})
		return model.Ticket{}, ErrNoAvailableSpot
	}

	if err := p.occupy(floorID, spotID, v); err != nil {
		p.log.Warnf("occupy %s on floor %d failed: %v", spotID, floorID, err)
		p.recordAllocation(metrics.AllocationRecord{
			Plate: v.Plate, Class: v.Class, SpotID: spotID, FloorID: floorID,
			Accepted: false, Reason: "occupy_failed", Time: p.now(),
		})
		return model.Ticket{}, err
	}

	t := model.Ticket{
		ID:      p.ticketIDs.Next(),
		Vehicle: v,
		SpotID:  spotID,
		Entry:   p.now(),
		Status:  model.PaymentPending,
	}
	p.ticketsMu.Lock()
	p.tickets[t.ID] = t
	p.ticketsMu.Unlock()

	p.log.Infof("vehicle %s parked at %s, ticket %s", v.Plate, spotID, t.ID)
	p.publish(events.TicketIssued{
		TicketID: t.ID, SpotID: spotID, FloorID: floorID,
		Plate: v.Plate, Class: v.Class, Time: t.Entry,
	})
	p.recordAllocation(metrics.AllocationRecord{
		TicketID: t.ID, Plate: v.Plate, Class: v.Class, SpotID: spotID,
		FloorID: floorID, Accepted: true, Time: t.Entry,
	})
	return t, nil
}

// UnparkVehicle releases the allocation identified by the ticket id,
// frees the spot and returns the computed charge. An unknown id yields
// ErrInvalidTicket and leaves all state untouched.
func (p *Lot) UnparkVehicle(ticketID string) (model.Charge, error) {
	p.ticketsMu.Lock()
	t, ok := p.tickets[ticketID]
	if !ok {
		p.ticketsMu.Unlock()
		return model.Charge{}, ErrInvalidTicket
	}
	delete(p.tickets, ticketID)
	p.ticketsMu.Unlock()

	if !p.vacate(t.SpotID) {
		// Ticket references a spot no floor holds. The release still
		// completes; the inconsistency is only surfaced in the logs.
		p.log.Warnf("ticket %s references unknown spot %s", ticketID, t.SpotID)
	}

	exit := p.now()
	charge := p.calc.Charge(t.Entry, exit)
	t.Exit = &exit
	t.Status = model.PaymentSucceeded

	// Retained under the same id as a historical record.
	p.ticketsMu.Lock()
	p.tickets[ticketID] = t
	p.ticketsMu.Unlock()

	stay := exit.Sub(t.Entry)
	p.log.Infof("ticket %s released, charge %.2f", ticketID, charge.Total)
	p.publish(events.TicketReleased{
		TicketID: ticketID, SpotID: t.SpotID, Plate: t.Vehicle.Plate,
		Charge: charge.Total, Duration: stay, Time: exit,
	})
	p.publish(events.SpotFreed{SpotID: t.SpotID, Time: exit})
	if err := p.sink.RecordRelease(metrics.ReleaseRecord{
		TicketID: ticketID, SpotID: t.SpotID, Class: t.Vehicle.Class,
		Duration: stay, Charge: charge.Total, Time: exit,
	}); err != nil {
		p.log.Errorf("record release: %v", err)
	}
	p.archive(t, charge.Total)
	return charge, nil
}

// TicketByID returns a copy of the ticket with the given id, active or
// historical.
func (p *Lot) TicketByID(id string) (model.Ticket, bool) {
	p.ticketsMu.Lock()
	defer p.ticketsMu.Unlock()
	t, ok := p.tickets[id]
	return t, ok
}

// Snapshot is a read-only aggregate of the lot's state. Counts from
// different floors are gathered under one floor-table lock but a
// concurrent release may still be between its critical sections, so the
// aggregate is advisory, not transactional.
type Snapshot struct {
	UID           string `json:"uid"`
	Floors        int    `json:"floors"`
	TotalSpots    int    `json:"total_spots"`
	OccupiedSpots int    `json:"occupied_spots"`
	FreeSpots     int    `json:"free_spots"`
}

// DisplayInfo aggregates floor, spot and occupancy counts.
func (p *Lot) DisplayInfo() Snapshot {
	p.floorsMu.Lock()
	defer p.floorsMu.Unlock()
	snap := Snapshot{UID: p.uid, Floors: len(p.floors)}
	for _, f := range p.floors {
		total, occupied := f.Load()
		snap.TotalSpots += total
		snap.OccupiedSpots += occupied
	}
	snap.FreeSpots = snap.TotalSpots - snap.OccupiedSpots
	return snap
}

// Occupancy returns a per-floor sample of spot usage.
func (p *Lot) Occupancy() []metrics.OccupancySample {
	now := p.now()
	p.floorsMu.Lock()
	defer p.floorsMu.Unlock()
	samples := make([]metrics.OccupancySample, 0, len(p.floors))
	for _, id := range p.sortedFloorIDs() {
		total, occupied := p.floors[id].Load()
		samples = append(samples, metrics.OccupancySample{
			FloorID: id, Total: total, Occupied: occupied, Time: now,
		})
	}
	return samples
}

// findSpot scans floors in id order for the first free compatible spot.
func (p *Lot) findSpot(class model.VehicleClass) (uint32, string, bool) {
	p.floorsMu.Lock()
	defer p.floorsMu.Unlock()
	for _, id := range p.sortedFloorIDs() {
		if spotID, ok := p.floors[id].FindAvailableSpot(class); ok {
			return id, spotID, true
		}
	}
	return 0, "", false
}

func (p *Lot) occupy(floorID uint32, spotID string, v model.Vehicle) error {
	p.floorsMu.Lock()
	defer p.floorsMu.Unlock()
	f, ok := p.floors[floorID]
	if !ok {
		return ErrNoAvailableSpot
	}
	return f.Occupy(spotID, v)
}

func (p *Lot) vacate(spotID string) bool {
	p.floorsMu.Lock()
	defer p.floorsMu.Unlock()
	for _, id := range p.sortedFloorIDs() {
		if p.floors[id].Vacate(spotID) {
			return true
		}
	}
	return false
}

func (p *Lot) sortedFloorIDs() []uint32 {
	ids := make([]uint32, 0, len(p.floors))
	for id := range p.floors {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (p *Lot) publish(e events.Event) {
	if p.bus != nil {
		p.bus.Publish(e)
	}
}

func (p *Lot) recordAllocation(rec metrics.AllocationRecord) {
	if err := p.sink.RecordAllocation(rec); err != nil {
		p.log.Errorf("record allocation: %v", err)
	}
}

func (p *Lot) archive(t model.Ticket, charge float64) {
	if p.store == nil || t.Exit == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rec := history.TicketRecord{
		TicketID: t.ID,
		Plate:    t.Vehicle.Plate,
		Model:    t.Vehicle.Model,
		Class:    t.Vehicle.Class.String(),
		SpotID:   t.SpotID,
		Entry:    t.Entry,
		Exit:     *t.Exit,
		Charge:   charge,
	}
	if err := p.store.Append(ctx, rec); err != nil {
		p.log.Errorf("archive ticket %s: %v", t.ID, err)
	}
}
