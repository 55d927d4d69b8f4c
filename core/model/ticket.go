package model

import "time"

// PaymentStatus tracks the billing state of a ticket.
type PaymentStatus int

const (
	PaymentPending PaymentStatus = iota
	PaymentSucceeded
	PaymentFailed
)

// String returns a human-readable representation of the payment status.
func (s PaymentStatus) String() string {
	switch s {
	case PaymentPending:
		return "pending"
	case PaymentSucceeded:
		return "succeeded"
	case PaymentFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Ticket records one allocation episode from entry to release. It is
// minted with a pending status and no exit time, mutated exactly once
// at release, and kept afterwards as a historical record.
type Ticket struct {
	ID      string
	Vehicle Vehicle
	SpotID  string
	Entry   time.Time
	Exit    *time.Time
	Status  PaymentStatus
}

// Released reports whether the ticket has been closed out.
func (t Ticket) Released() bool { return t.Exit != nil }

// Charge is the fee computed for a completed allocation episode.
// Chargeback is always zero: no refund path exists.
type Charge struct {
	Total      float64
	Chargeback float64
}
