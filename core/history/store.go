// Package history persists completed allocation episodes for later querying.
package history

import (
	"context"
	"time"
)

// TicketRecord captures one released ticket.
type TicketRecord struct {
	TicketID string    `json:"ticket_id"`
	Plate    string    `json:"plate"`
	Model    string    `json:"model"`
	Class    string    `json:"class"`
	SpotID   string    `json:"spot_id"`
	Entry    time.Time `json:"entry"`
	Exit     time.Time `json:"exit"`
	Charge   float64   `json:"charge"`
}

// Query defines filters for retrieving records. Zero-value fields match
// everything.
type Query struct {
	Start time.Time
	End   time.Time
	Plate string
	Class string
}

// Matches reports whether the record satisfies the query filters.
func (q Query) Matches(rec TicketRecord) bool {
	if !q.Start.IsZero() && rec.Exit.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && rec.Exit.After(q.End) {
		return false
	}
	if q.Plate != "" && rec.Plate != q.Plate {
		return false
	}
	if q.Class != "" && rec.Class != q.Class {
		return false
	}
	return true
}

// Store persists TicketRecords and supports querying.
type Store interface {
	Append(ctx context.Context, rec TicketRecord) error
	Query(ctx context.Context, q Query) ([]TicketRecord, error)
	Close() error
}
