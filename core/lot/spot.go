package lot

import "github.com/parkwella/parkd/core/model"

// Spot is the smallest allocatable unit. It is not internally
// synchronized: the owning floor's lock guards all mutation.
type Spot struct {
	id       string
	free     bool
	class    model.SpotClass
	occupant *model.Vehicle
}

// NewSpot mints a spot with an identifier drawn from seq.
func NewSpot(seq *Sequence, free bool, class model.SpotClass) *Spot {
	return &Spot{id: seq.Next(), free: free, class: class}
}

// ID returns the spot identifier, unique within the lot.
func (s *Spot) ID() string { return s.id }

// Class returns the spot's size class.
func (s *Spot) Class() model.SpotClass { return s.class }

// Free reports whether the spot is unoccupied.
func (s *Spot) Free() bool { return s.free }

// Occupant returns the parked vehicle, if any.
func (s *Spot) Occupant() *model.Vehicle { return s.occupant }

// Compatible reports whether a vehicle of the given class may park here.
func (s *Spot) Compatible(class model.VehicleClass) bool {
	return model.Compatible(class, s.class)
}

// Occupy assigns the vehicle to the spot. It re-validates occupancy so a
// caller that scanned optimistically gets ErrSpotOccupied when it lost
// the race rather than a double allocation.
func (s *Spot) Occupy(v model.Vehicle) error {
	if !s.free {
		return ErrSpotOccupied
	}
	if !s.Compatible(v.Class) {
		return ErrIncompatibleClass
	}
	s.occupant = &v
	s.free = false
	return nil
}

// Vacate clears the spot unconditionally. Vacating a free spot is a
// no-op, not an error.
func (s *Spot) Vacate() {
	s.occupant = nil
	s.free = true
}
