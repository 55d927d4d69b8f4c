// Package billing computes the fee for a completed allocation episode.
package billing

import (
	"fmt"
	"time"

	"github.com/parkwella/parkd/core/model"
)

// DefaultRatePerHour is the reference hourly rate in currency units.
const DefaultRatePerHour = 10.0

// Calculator produces charges from stay durations. The zero value is not
// usable; construct with NewCalculator.
type Calculator struct {
	ratePerHour float64
}

// NewCalculator validates the rate and returns a Calculator.
func NewCalculator(ratePerHour float64) (Calculator, error) {
	if ratePerHour < 0 {
		return Calculator{}, fmt.Errorf("rate per hour must not be negative")
	}
	return Calculator{ratePerHour: ratePerHour}, nil
}

// Rate returns the configured hourly rate.
func (c Calculator) Rate() float64 { return c.ratePerHour }

// Charge bills the stay between entry and exit. Fractional hours are not
// billed: a 90 minute stay bills as one hour. Chargeback is always zero.
func (c Calculator) Charge(entry, exit time.Time) model.Charge {
	hours := exit.Sub(entry) / time.Hour
	if hours < 0 {
		hours = 0
	}
	return model.Charge{Total: float64(hours) * c.ratePerHour}
}
