package lot

import (
	"sort"
	"sync"

	"github.com/parkwella/parkd/core/model"
)

// DefaultRegularSpots is the number of regular spots a floor starts with.
const DefaultRegularSpots = 10

// Floor owns a keyed collection of spots. Its lock is always acquired
// after the lot's floor-table lock, never before.
type Floor struct {
	id uint32

	mu    sync.Mutex
	spots map[string]*Spot
}

// NewFloor creates a floor pre-populated with DefaultRegularSpots
// regular spots, ids drawn from seq.
func NewFloor(id uint32, seq *Sequence) *Floor {
	return NewFloorSized(id, seq, DefaultRegularSpots)
}

// NewFloorSized creates a floor pre-populated with n regular spots.
func NewFloorSized(id uint32, seq *Sequence, n int) *Floor {
	f := &Floor{id: id, spots: make(map[string]*Spot, n)}
	for i := 0; i < n; i++ {
		s := NewSpot(seq, true, model.SpotRegular)
		f.spots[s.id] = s
	}
	return f
}

// ID returns the floor identifier, unique within the lot.
func (f *Floor) ID() uint32 { return f.id }

// AddSpot inserts the spot under its identifier. An existing spot with
// the same id is silently replaced.
func (f *Floor) AddSpot(s *Spot) {
	f.mu.Lock()
	f.spots[s.id] = s
	f.mu.Unlock()
}

// FindAvailableSpot returns the id of the first free spot compatible
// with the vehicle class, scanning spots in id order. First fit: no
// attempt is made to minimize wasted capacity.
func (f *Floor) FindAvailableSpot(class model.VehicleClass) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.sortedIDs() {
		s := f.spots[id]
		if s.free && s.Compatible(class) {
			return id, true
		}
	}
	return "", false
}

// Occupy assigns the vehicle to the identified spot. Returns
// ErrNoAvailableSpot if the spot no longer exists.
func (f *Floor) Occupy(spotID string, v model.Vehicle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.spots[spotID]
	if !ok {
		return ErrNoAvailableSpot
	}
	return s.Occupy(v)
}

// Vacate frees the identified spot. Returns false when the floor does
// not hold the spot.
func (f *Floor) Vacate(spotID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.spots[spotID]
	if !ok {
		return false
	}
	s.Vacate()
	return true
}

// Load returns the total and occupied spot counts.
func (f *Floor) Load() (total, occupied int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total = len(f.spots)
	for _, s := range f.spots {
		if !s.free {
			occupied++
		}
	}
	return total, occupied
}

// SpotByID returns the spot with the given id, if present.
func (f *Floor) SpotByID(id string) (*Spot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.spots[id]
	return s, ok
}

func (f *Floor) sortedIDs() []string {
	ids := make([]string, 0, len(f.spots))
	for id := range f.spots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
