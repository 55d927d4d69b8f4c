package lot

import "errors"

var (
	// ErrNoAvailableSpot indicates no floor had a free, compatible spot
	// at scan time.
	ErrNoAvailableSpot = errors.New("no available spots")
	// ErrSpotOccupied indicates an occupy attempt on a spot that is
	// already taken, including the scan/occupy race case.
	ErrSpotOccupied = errors.New("spot is already occupied")
	// ErrIncompatibleClass indicates the vehicle class is not admissible
	// for the target spot class.
	ErrIncompatibleClass = errors.New("vehicle class not compatible with spot class")
	// ErrInvalidTicket indicates a release for an unknown ticket id.
	ErrInvalidTicket = errors.New("invalid ticket id")
)
