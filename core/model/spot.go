package model

import "fmt"

// SpotClass defines the size class of a parking spot.
type SpotClass int

const (
	SpotRegular SpotClass = iota
	SpotLarge
	SpotXLarge
	SpotHandicapped
)

// String returns a human-readable representation of the spot class.
func (c SpotClass) String() string {
	switch c {
	case SpotRegular:
		return "regular"
	case SpotLarge:
		return "large"
	case SpotXLarge:
		return "xlarge"
	case SpotHandicapped:
		return "handicapped"
	default:
		return "unknown"
	}
}

// ParseSpotClass converts a configuration string into a SpotClass.
func ParseSpotClass(s string) (SpotClass, error) {
	switch s {
	case "regular":
		return SpotRegular, nil
	case "large":
		return SpotLarge, nil
	case "xlarge":
		return SpotXLarge, nil
	case "handicapped":
		return SpotHandicapped, nil
	default:
		return 0, fmt.Errorf("unknown spot class %q", s)
	}
}

// compatibility is the static admission table. It is total: every
// (VehicleClass, SpotClass) pair has an entry. Handicapped spots admit
// no class in this scheme.
var compatibility = map[VehicleClass]map[SpotClass]bool{
	ClassCompact: {
		SpotRegular:     true,
		SpotLarge:       true,
		SpotXLarge:      true,
		SpotHandicapped: false,
	},
	ClassHeavy: {
		SpotRegular:     false,
		SpotLarge:       true,
		SpotXLarge:      true,
		SpotHandicapped: false,
	},
	ClassLight: {
		SpotRegular:     true,
		SpotLarge:       true,
		SpotXLarge:      true,
		SpotHandicapped: false,
	},
}

// Compatible reports whether a vehicle of class v may occupy a spot of
// class s. Pure lookup, consulted on every allocation attempt.
func Compatible(v VehicleClass, s SpotClass) bool {
	return compatibility[v][s]
}
