// README: ETS driver domain model.
package driver

import (
	"time"

	"ummana/internal/types"
)

// Location source tags recorded with each position report.
const (
	SourceGPS      = "gps"
	SourceNetwork  = "network"
	SourceFallback = "fallback"
)

type Driver struct {
	ID                     types.ID          `json:"id"`
	FirstName              string            `json:"firstName"`
	LastName               string            `json:"lastName"`
	PhoneNumber            string            `json:"phoneNumber"`
	VehicleType            types.VehicleType `json:"vehicleType"`
	IsAvailable            bool              `json:"isAvailable"`
	LastKnownLocation      *types.Point      `json:"lastKnownLocation,omitempty"`
	LastLocationTimestamp  *time.Time        `json:"lastLocationTimestamp,omitempty"`
	IsLocationFresh        bool              `json:"isLocationFresh"`
	LocationSource         string            `json:"locationSource,omitempty"`
	LocationExpiresAt      *time.Time        `json:"locationExpiresAt,omitempty"`
	FallbackLocation       *types.Point      `json:"fallbackLocation,omitempty"`
	AssignedCatchmentAreas []types.ID        `json:"assignedCatchmentAreas"`
	PushToken              *string           `json:"pushToken,omitempty"`
	CurrentRideID          *types.ID         `json:"currentRideId,omitempty"`
	CreatedAt              time.Time         `json:"createdAt"`
}

func (d *Driver) FullName() string {
	return d.FirstName + " " + d.LastName
}
