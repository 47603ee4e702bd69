// README: Condition taxonomy and catalog types for symptom triage.
package triage

import "ummana/internal/types"

type Condition string

const (
	ConditionPostpartumHemorrhage Condition = "postpartum_hemorrhage"
	ConditionEclampsia            Condition = "eclampsia"
	ConditionObstructedLabor      Condition = "obstructed_labor"
	ConditionNormalDelivery       Condition = "normal_delivery"
	ConditionPretermLabor         Condition = "preterm_labor"
	ConditionMiscarriage          Condition = "miscarriage"
	ConditionSepsis               Condition = "sepsis"
	ConditionCritical             Condition = "critical_emergency"
	ConditionUnknown              Condition = "unknown"
)

// ConditionSpec maps a condition to the symptom pattern that suggests it.
type ConditionSpec struct {
	Condition        Condition
	Name             string
	RequiredSymptoms []string
	OptionalSymptoms []string
}

// CareRequirement describes the facility capabilities and the clinical time
// window within which care for a condition must be reached.
type CareRequirement struct {
	Ideal             []string
	Acceptable        []string
	TimeWindowMinutes int
}

// VehicleRequirement restricts which vehicles may carry a patient with a
// given condition.
type VehicleRequirement struct {
	Allowed   []types.VehicleType
	Preferred types.VehicleType
}

// Catalog is the static rules configuration loaded once at startup and passed
// into the classifier and matchers. It is never mutated after construction.
type Catalog struct {
	Conditions []ConditionSpec
	Care       map[Condition]CareRequirement
	Vehicles   map[Condition]VehicleRequirement

	// criticalSymptoms short-circuit classification to critical_emergency.
	criticalSymptoms map[string]bool
	// criticalCombos are symptom pairs that together indicate a critical case.
	criticalCombos [][2]string
	// emergent conditions trigger the time-critical location refresh tier.
	emergent map[Condition]bool
}

// CareFor returns the care requirement for a condition, falling back to the
// unknown entry when the condition has no dedicated row.
func (c *Catalog) CareFor(cond Condition) CareRequirement {
	if req, ok := c.Care[cond]; ok {
		return req
	}
	return c.Care[ConditionUnknown]
}

// VehiclesFor returns the vehicle rules for a condition. Conditions without a
// dedicated row default to car-only for safety.
func (c *Catalog) VehiclesFor(cond Condition) VehicleRequirement {
	if req, ok := c.Vehicles[cond]; ok {
		return req
	}
	return VehicleRequirement{Allowed: []types.VehicleType{types.VehicleCar}, Preferred: types.VehicleCar}
}

// Emergent reports whether a condition belongs to the time-critical categories
// that warrant requesting fresh driver locations before final selection.
func (c *Catalog) Emergent(cond Condition) bool {
	return c.emergent[cond]
}
