package cmd

import (
	"github.com/spf13/cobra"

	"github.com/parkwella/parkd/core/account"
	"github.com/parkwella/parkd/core/lot"
	"github.com/parkwella/parkd/core/model"
	"github.com/parkwella/parkd/infra/logger"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a small allocation walkthrough against an in-memory lot",
	RunE:  runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	logg := logger.New("demo")

	p := lot.New("Park-Wella Parking Hub", "Lagos, Nigeria", "1234",
		lot.WithLogger(logg))
	for i := uint32(1); i <= 5; i++ {
		p.AddFloor(lot.NewFloor(i, p.SpotIDs()))
	}
	// Big trucks go on the base floor.
	if floor1, ok := p.FloorByID(1); ok {
		for i := 0; i < 5; i++ {
			floor1.AddSpot(lot.NewSpot(p.SpotIDs(), true, model.SpotLarge))
		}
	}

	snap := p.DisplayInfo()
	logg.Infof("lot %s: %d floors, %d spots", snap.UID, snap.Floors, snap.TotalSpots)

	motor := model.Vehicle{Class: model.ClassCompact, Model: "Toyota", Plate: "ABC123"}
	truck := model.Vehicle{Class: model.ClassHeavy, Model: "Mac", Plate: "XYZ789"}
	bike := model.Vehicle{Class: model.ClassLight, Model: "Suzuki", Plate: "DEF456"}

	owner := account.NewUser("Larry", "123")
	owner.RegisterVehicle(motor)
	owner.RegisterVehicle(truck)
	owner.RegisterVehicle(bike)

	var lastTicket string
	for _, v := range []model.Vehicle{motor, truck, bike} {
		ticket, err := p.ParkVehicle(v)
		if err != nil {
			logg.Errorf("park %s: %v", v.Plate, err)
			continue
		}
		logg.Infof("%s parked with ticket %s", v.Plate, ticket.ID)
		lastTicket = ticket.ID
	}

	snap = p.DisplayInfo()
	logg.Infof("occupied %d of %d spots", snap.OccupiedSpots, snap.TotalSpots)

	if lastTicket != "" {
		charge, err := p.UnparkVehicle(lastTicket)
		if err != nil {
			logg.Errorf("unpark %s: %v", lastTicket, err)
			return err
		}
		logg.Infof("unparked, total %.2f chargeback %.2f", charge.Total, charge.Chargeback)
	}
	return nil
}
