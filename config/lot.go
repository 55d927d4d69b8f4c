package config

import (
	"fmt"

	"github.com/parkwella/parkd/core/billing"
	"github.com/parkwella/parkd/core/lot"
	"github.com/parkwella/parkd/core/model"
)

// LotConfig describes the lot layout built at startup.
type LotConfig struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	UID     string `json:"uid"`
	// RegularSpotsPerFloor overrides the default baseline of regular
	// spots each floor starts with.
	RegularSpotsPerFloor int           `json:"regular_spots_per_floor"`
	Floors               []FloorConfig `json:"floors"`
}

// FloorConfig describes one floor and its extra spots.
type FloorConfig struct {
	ID    uint32       `json:"id"`
	Extra []SpotConfig `json:"extra"`
}

// SpotConfig adds count spots of the given class to a floor.
type SpotConfig struct {
	Class string `json:"class"`
	Count int    `json:"count"`
}

// SetDefaults applies sane defaults.
func (c *LotConfig) SetDefaults() {
	if c.Name == "" {
		c.Name = "parkd"
	}
	if c.UID == "" {
		c.UID = "default"
	}
	if c.RegularSpotsPerFloor == 0 {
		c.RegularSpotsPerFloor = lot.DefaultRegularSpots
	}
	if len(c.Floors) == 0 {
		c.Floors = []FloorConfig{{ID: 1}}
	}
}

// Validate checks floor ids and spot classes.
func (c LotConfig) Validate() error {
	if c.RegularSpotsPerFloor < 0 {
		return fmt.Errorf("regular_spots_per_floor must not be negative")
	}
	seen := make(map[uint32]bool)
	for _, f := range c.Floors {
		if seen[f.ID] {
			return fmt.Errorf("duplicate floor id %d", f.ID)
		}
		seen[f.ID] = true
		for _, s := range f.Extra {
			if _, err := model.ParseSpotClass(s.Class); err != nil {
				return err
			}
			if s.Count < 0 {
				return fmt.Errorf("spot count must not be negative")
			}
		}
	}
	return nil
}

// Build constructs the lot described by the configuration.
func (c LotConfig) Build(opts ...lot.Option) (*lot.Lot, error) {
	p := lot.New(c.Name, c.Address, c.UID, opts...)
	for _, fc := range c.Floors {
		f := lot.NewFloorSized(fc.ID, p.SpotIDs(), c.RegularSpotsPerFloor)
		for _, sc := range fc.Extra {
			class, err := model.ParseSpotClass(sc.Class)
			if err != nil {
				return nil, err
			}
			for i := 0; i < sc.Count; i++ {
				f.AddSpot(lot.NewSpot(p.SpotIDs(), true, class))
			}
		}
		p.AddFloor(f)
	}
	return p, nil
}

// BillingConfig configures the charge calculator.
type BillingConfig struct {
	RatePerHour float64 `json:"rate_per_hour"`
}

// SetDefaults applies the reference rate.
func (c *BillingConfig) SetDefaults() {
	if c.RatePerHour == 0 {
		c.RatePerHour = billing.DefaultRatePerHour
	}
}

// Validate checks the rate.
func (c BillingConfig) Validate() error {
	if c.RatePerHour < 0 {
		return fmt.Errorf("rate_per_hour must not be negative")
	}
	return nil
}
