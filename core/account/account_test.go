package account

import (
	"testing"

	"github.com/parkwella/parkd/core/model"
)

func TestRegisterAndLookup(t *testing.T) {
	u := NewUser("Larry", "123")
	v := model.Vehicle{Class: model.ClassCompact, Model: "Toyota", Plate: "ABC123"}
	id := u.RegisterVehicle(v)
	if id == "" {
		t.Fatal("empty vehicle id")
	}
	got, ok := u.VehicleByID(id)
	if !ok || got.Plate != "ABC123" {
		t.Fatalf("lookup: %#v %v", got, ok)
	}

	other := u.RegisterVehicle(model.Vehicle{Class: model.ClassHeavy, Model: "Mac", Plate: "XYZ789"})
	if other == id {
		t.Fatal("ids must be unique")
	}
}

func TestRemoveVehicle(t *testing.T) {
	u := NewUser("Larry", "123")
	v := model.Vehicle{Class: model.ClassCompact, Model: "Toyota", Plate: "ABC123"}
	id := u.RegisterVehicle(v)
	u.RemoveVehicle(v)
	if _, ok := u.VehicleByID(id); ok {
		t.Fatal("vehicle should be gone")
	}
	// Removing an unknown vehicle is a no-op.
	u.RemoveVehicle(model.Vehicle{Plate: "missing"})
}
