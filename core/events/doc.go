// Package events defines the allocation related events emitted on the event bus.
//
// Available event types:
//   - TicketIssued: vehicle assigned to a spot
//   - TicketReleased: ticket closed out with its charge
//   - SpotFreed: spot returned to the free pool
//   - CapacityExhausted: no compatible free spot for a vehicle class
package events
