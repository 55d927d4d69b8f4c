package events

import (
	"time"

	"github.com/parkwella/parkd/core/model"
)

// Event is implemented by everything the lot publishes. Kind names the
// event type on the wire and is used for subscription filtering.
type Event interface {
	Kind() string
}

// TicketIssued is published when a vehicle is assigned a spot.
type TicketIssued struct {
	TicketID string
	SpotID   string
	FloorID  uint32
	Plate    string
	Class    model.VehicleClass
	Time     time.Time
}

func (TicketIssued) Kind() string { return "ticket_issued" }

// TicketReleased is published when a ticket is closed out.
type TicketReleased struct {
	TicketID string
	SpotID   string
	Plate    string
	Charge   float64
	Duration time.Duration
	Time     time.Time
}

func (TicketReleased) Kind() string { return "ticket_released" }

// SpotFreed is published when a spot returns to the free pool.
type SpotFreed struct {
	SpotID string
	Time   time.Time
}

func (SpotFreed) Kind() string { return "spot_freed" }

// CapacityExhausted is published when no floor can admit a vehicle class.
type CapacityExhausted struct {
	Class model.VehicleClass
	Time  time.Time
}

func (CapacityExhausted) Kind() string { return "capacity_exhausted" }
