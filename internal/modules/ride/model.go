// README: ride request domain model and status transitions.
package ride

import (
	"time"

	"ummana/internal/modules/triage"
	"ummana/internal/types"
)

type Status string

const (
	StatusPending           Status = "pending"
	StatusAccepted          Status = "accepted"
	StatusEnRouteToPickup   Status = "en_route_to_pickup"
	StatusArrivedAtPickup   Status = "arrived_at_pickup"
	StatusEnRouteToHospital Status = "en_route_to_hospital"
	StatusArrivedAtHospital Status = "arrived_at_hospital"
	StatusCompleted         Status = "completed"
	StatusCancelled         Status = "cancelled"
)

type EmergencyLevel string

const (
	EmergencyHigh   EmergencyLevel = "HIGH"
	EmergencyMedium EmergencyLevel = "MEDIUM"
)

// AllowedTransitions encodes the forward-only trip lifecycle. Cancellation is
// reachable from every non-terminal status.
var AllowedTransitions = map[Status][]Status{
	StatusPending:           {StatusAccepted, StatusCancelled},
	StatusAccepted:          {StatusEnRouteToPickup, StatusCancelled},
	StatusEnRouteToPickup:   {StatusArrivedAtPickup, StatusCancelled},
	StatusArrivedAtPickup:   {StatusEnRouteToHospital, StatusCancelled},
	StatusEnRouteToHospital: {StatusArrivedAtHospital, StatusCancelled},
	StatusArrivedAtHospital: {StatusCompleted, StatusCancelled},
	StatusCompleted:         {},
	StatusCancelled:         {},
}

func ValidStatus(s Status) bool {
	_, ok := AllowedTransitions[s]
	return ok
}

func CanTransition(from, to Status) bool {
	for _, next := range AllowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func Terminal(s Status) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CandidateDriver is the immutable offer-list entry captured at dispatch.
type CandidateDriver struct {
	ID        types.ID `json:"id"`
	Name      string   `json:"name"`
	PushToken *string  `json:"pushToken,omitempty"`
}

// Freshness tags for the driver snapshot: "current" means the distance was
// computed from a live position, "estimated" from the catchment fallback.
const (
	FreshnessCurrent   = "current"
	FreshnessEstimated = "estimated"
)

// DriverAssignment is a denormalized snapshot of the assigned driver taken at
// dispatch time, replaced if a different candidate accepts.
type DriverAssignment struct {
	ID                     types.ID          `json:"id"`
	Name                   string            `json:"name"`
	PhoneNumber            string            `json:"phoneNumber"`
	VehicleType            types.VehicleType `json:"vehicleType"`
	DistanceKm             float64           `json:"distanceKm"`
	EstimatedPickupMinutes float64           `json:"estimatedPickupMinutes"`
	LocationFreshness      string            `json:"locationFreshness"`
	Overridden             bool              `json:"overridden"`
}

// HospitalAssignment is the matched facility snapshot. The road figures come
// from the directions API when one is configured; the great-circle numbers
// used for the matching decision are always present.
type HospitalAssignment struct {
	ID               types.ID    `json:"id"`
	Name             string      `json:"name"`
	Location         types.Point `json:"location"`
	Score            int         `json:"score"`
	DistanceKm       float64     `json:"distanceKm"`
	TotalTripMinutes float64     `json:"totalTripMinutes"`
	RoadDistanceKm   *float64    `json:"roadDistanceKm,omitempty"`
	RoadMinutes      *float64    `json:"roadMinutes,omitempty"`
}

type Decline struct {
	DriverID   types.ID  `json:"driverId"`
	DeclinedAt time.Time `json:"declinedAt"`
}

type RideRequest struct {
	ID               types.ID           `json:"id"`
	ChipsAgentID     types.ID           `json:"chipsAgentId"`
	Symptoms         []string           `json:"symptoms"`
	Condition        triage.Condition   `json:"condition"`
	ConditionName    string             `json:"conditionName"`
	Confidence       float64            `json:"confidence"`
	Pickup           types.Point        `json:"pickup"`
	Driver           DriverAssignment   `json:"driver"`
	Hospital         HospitalAssignment `json:"hospital"`
	Status           Status             `json:"status"`
	StatusVersion    int                `json:"-"`
	EmergencyLevel   EmergencyLevel     `json:"emergencyLevel"`
	CandidateDrivers []CandidateDriver  `json:"candidateDrivers"`
	DeclinedDrivers  []Decline          `json:"declinedDrivers"`
	AcceptedBy       *types.ID          `json:"acceptedBy,omitempty"`
	AcceptedAt       *time.Time         `json:"acceptedAt,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
}

// AgentContact is the requesting agent's contact card, embedded in
// driver-facing views so the driver can reach the person on the ground.
type AgentContact struct {
	ID          types.ID `json:"id"`
	Name        string   `json:"name"`
	PhoneNumber string   `json:"phoneNumber"`
}

type RideWithAgent struct {
	RideRequest
	ChipsAgent *AgentContact `json:"chipsAgent,omitempty"`
}

// IsCandidate reports whether a driver is on the immutable offer list.
func (r *RideRequest) IsCandidate(driverID types.ID) bool {
	for _, c := range r.CandidateDrivers {
		if c.ID == driverID {
			return true
		}
	}
	return false
}
