// README: driver candidate model and dispatch tuning constants.
package matching

import (
	"time"

	"ummana/internal/modules/driver"
	"ummana/internal/types"
)

const (
	// tier1Size caps the coarse pass, finalSize the candidate set actually
	// offered the ride.
	tier1Size = 7
	finalSize = 5

	// Nominal road speeds used for pickup-time estimates.
	speedMotorcycleKmh = 30.0
	speedCarKmh        = 50.0
	speedDefaultKmh    = 40.0

	// tieWindowMinutes is the band within which two pickup estimates are
	// considered equal and the preferred vehicle wins.
	tieWindowMinutes = 3.0
)

// pendingLocationTTL bounds how long a driver stays flagged as owing an
// immediate location report.
const pendingLocationTTL = 30 * time.Second

// SpeedKmh maps a vehicle type to its nominal speed.
func SpeedKmh(v types.VehicleType) float64 {
	switch v {
	case types.VehicleMotorcycle:
		return speedMotorcycleKmh
	case types.VehicleCar:
		return speedCarKmh
	default:
		return speedDefaultKmh
	}
}

// Candidate is a driver scored against a specific pickup point.
type Candidate struct {
	Driver           driver.Driver
	Location         types.Point
	Fresh            bool
	DistanceKm       float64
	SpeedKmh         float64
	EstimatedMinutes float64
	Preferred        bool
}
