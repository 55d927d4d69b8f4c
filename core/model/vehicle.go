package model

import "fmt"

// VehicleClass defines the compatibility class of a vehicle.
type VehicleClass int

const (
	ClassCompact VehicleClass = iota // motor vehicles
	ClassHeavy                       // trucks
	ClassLight                       // bikes
)

// String returns a human-readable representation of the vehicle class.
func (c VehicleClass) String() string {
	switch c {
	case ClassCompact:
		return "compact"
	case ClassHeavy:
		return "heavy"
	case ClassLight:
		return "light"
	default:
		return "unknown"
	}
}

// ParseVehicleClass converts a configuration string into a VehicleClass.
func ParseVehicleClass(s string) (VehicleClass, error) {
	switch s {
	case "compact":
		return ClassCompact, nil
	case "heavy":
		return ClassHeavy, nil
	case "light":
		return ClassLight, nil
	default:
		return 0, fmt.Errorf("unknown vehicle class %q", s)
	}
}

// Vehicle is an immutable description of a vehicle requesting a spot.
// The plate is expected to be unique per physical vehicle but the
// allocator does not enforce it.
type Vehicle struct {
	Class VehicleClass
	Model string
	Plate string
}

// Validate checks that the vehicle description is usable.
func (v Vehicle) Validate() error {
	if v.Plate == "" {
		return fmt.Errorf("plate is required")
	}
	return nil
}
