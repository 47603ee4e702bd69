// README: Vehicle type enum shared by driver records and dispatch rules.
package types

type VehicleType string

const (
	VehicleMotorcycle VehicleType = "motorcycle"
	VehicleCar        VehicleType = "car"
)

func ValidVehicleType(v VehicleType) bool {
	return v == VehicleMotorcycle || v == VehicleCar
}
