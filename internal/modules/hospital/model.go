// README: hospital domain model and capability set.
package hospital

import (
	"time"

	"ummana/internal/modules/triage"
	"ummana/internal/types"
)

// Capabilities is the facility's service flags. Absent flags default to false.
type Capabilities struct {
	HasUterotonics       bool `json:"has_uterotonics"`
	HasBlood             bool `json:"has_blood"`
	HasAnticonvulsants   bool `json:"has_anticonvulsants"`
	HasAntihypertensives bool `json:"has_antihypertensives"`
	HasAdrenaline        bool `json:"has_adrenaline"`
	HasDeliveryRoom      bool `json:"has_delivery_room"`
	HasIncubator         bool `json:"has_incubator"`
	HasPower             bool `json:"has_power"`
	HasWater             bool `json:"has_water"`
	HasMVAKit            bool `json:"has_mva_kit"`
	HasAntibiotics       bool `json:"has_antibiotics"`
	HasIVFluids          bool `json:"has_iv_fluids"`
	HasTheater           bool `json:"has_theater"`
	HasUltrasound        bool `json:"has_ultrasound"`
	HasDoctor            bool `json:"has_doctor"`
	HasMidwifeOrNurse    bool `json:"has_midwife_or_nurse"`
	HasReferralTransport bool `json:"has_referral_transport"`
	HasMonitoring        bool `json:"has_monitoring"`
	Staff247             bool `json:"staff_24_7"`
}

// Has resolves a capability key from the care requirement catalog.
func (c Capabilities) Has(key string) bool {
	switch key {
	case triage.CapUterotonics:
		return c.HasUterotonics
	case triage.CapBlood:
		return c.HasBlood
	case triage.CapAnticonvulsants:
		return c.HasAnticonvulsants
	case triage.CapAntihypertensives:
		return c.HasAntihypertensives
	case triage.CapAdrenaline:
		return c.HasAdrenaline
	case triage.CapDeliveryRoom:
		return c.HasDeliveryRoom
	case triage.CapIncubator:
		return c.HasIncubator
	case triage.CapPower:
		return c.HasPower
	case triage.CapWater:
		return c.HasWater
	case triage.CapMVAKit:
		return c.HasMVAKit
	case triage.CapAntibiotics:
		return c.HasAntibiotics
	case triage.CapIVFluids:
		return c.HasIVFluids
	case triage.CapTheater:
		return c.HasTheater
	case triage.CapUltrasound:
		return c.HasUltrasound
	case triage.CapDoctor:
		return c.HasDoctor
	case triage.CapMidwifeOrNurse:
		return c.HasMidwifeOrNurse
	case triage.CapReferralTransport:
		return c.HasReferralTransport
	case triage.CapMonitoring:
		return c.HasMonitoring
	case triage.CapStaff247:
		return c.Staff247
	}
	return false
}

func (c Capabilities) MeetsAll(keys []string) bool {
	for _, key := range keys {
		if !c.Has(key) {
			return false
		}
	}
	return true
}

type Hospital struct {
	ID           types.ID     `json:"id"`
	Name         string       `json:"name"`
	FacilityType string       `json:"facilityType"`
	Location     types.Point  `json:"location"`
	Capabilities Capabilities `json:"capabilities"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    *time.Time   `json:"updatedAt,omitempty"`
}
