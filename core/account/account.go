// Package account associates owners with their vehicles. The allocator
// never calls into it; registration only happens before a vehicle
// requests a spot.
package account

import (
	"sync"

	"github.com/google/uuid"

	"github.com/parkwella/parkd/core/model"
)

// Registry exposes vehicle registration for one owner.
type Registry interface {
	RegisterVehicle(v model.Vehicle) string
	RemoveVehicle(v model.Vehicle)
	VehicleByID(id string) (model.Vehicle, bool)
}

// User is an owner holding a keyed collection of vehicles.
type User struct {
	name  string
	phone string

	mu       sync.RWMutex
	vehicles map[string]model.Vehicle
	byPlate  map[string]string
}

// NewUser creates a User with an empty vehicle collection.
func NewUser(name, phone string) *User {
	return &User{
		name:     name,
		phone:    phone,
		vehicles: make(map[string]model.Vehicle),
		byPlate:  make(map[string]string),
	}
}

// Name returns the owner's name.
func (u *User) Name() string { return u.name }

// Phone returns the owner's phone number.
func (u *User) Phone() string { return u.phone }

// RegisterVehicle stores the vehicle and returns its generated id.
func (u *User) RegisterVehicle(v model.Vehicle) string {
	id := uuid.NewString()
	u.mu.Lock()
	u.vehicles[id] = v
	u.byPlate[v.Plate] = id
	u.mu.Unlock()
	return id
}

// RemoveVehicle deletes the vehicle matching the given plate, if known.
func (u *User) RemoveVehicle(v model.Vehicle) {
	u.mu.Lock()
	if id, ok := u.byPlate[v.Plate]; ok {
		delete(u.vehicles, id)
		delete(u.byPlate, v.Plate)
	}
	u.mu.Unlock()
}

// VehicleByID returns the vehicle registered under id.
func (u *User) VehicleByID(id string) (model.Vehicle, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	v, ok := u.vehicles[id]
	return v, ok
}
