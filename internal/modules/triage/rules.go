// README: Default triage rule tables (symptom patterns, care needs, vehicle rules).
package triage

import "ummana/internal/types"

// Capability flag keys. These mirror the hospital capability fields.
const (
	CapUterotonics       = "has_uterotonics"
	CapBlood             = "has_blood"
	CapAnticonvulsants   = "has_anticonvulsants"
	CapAntihypertensives = "has_antihypertensives"
	CapAdrenaline        = "has_adrenaline"
	CapDeliveryRoom      = "has_delivery_room"
	CapIncubator         = "has_incubator"
	CapPower             = "has_power"
	CapWater             = "has_water"
	CapMVAKit            = "has_mva_kit"
	CapAntibiotics       = "has_antibiotics"
	CapIVFluids          = "has_iv_fluids"
	CapTheater           = "has_theater"
	CapUltrasound        = "has_ultrasound"
	CapDoctor            = "has_doctor"
	CapMidwifeOrNurse    = "has_midwife_or_nurse"
	CapReferralTransport = "has_referral_transport"
	CapMonitoring        = "has_monitoring"
	CapStaff247          = "staff_24_7"
)

// DefaultCatalog builds the static rules configuration. Call once at startup
// and inject the result; the tables are treated as immutable.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Conditions: []ConditionSpec{
			{
				Condition:        ConditionPostpartumHemorrhage,
				Name:             "Postpartum Hemorrhage",
				RequiredSymptoms: []string{"excessive_bleeding"},
				OptionalSymptoms: []string{"dizziness", "weakness", "pale_skin", "rapid_heartbeat"},
			},
			{
				Condition:        ConditionEclampsia,
				Name:             "Eclampsia",
				RequiredSymptoms: []string{"severe_headache"},
				OptionalSymptoms: []string{"blurry_vision", "swelling", "high_blood_pressure"},
			},
			{
				Condition:        ConditionObstructedLabor,
				Name:             "Obstructed Labor",
				RequiredSymptoms: []string{"prolonged_labor"},
				OptionalSymptoms: []string{"severe_abdominal_pain", "exhaustion", "baby_not_coming"},
			},
			{
				Condition:        ConditionNormalDelivery,
				Name:             "Normal Delivery",
				RequiredSymptoms: []string{"labor_pains"},
				OptionalSymptoms: []string{"water_broke", "contractions"},
			},
			{
				Condition:        ConditionPretermLabor,
				Name:             "Preterm Labor",
				RequiredSymptoms: []string{"early_contractions"},
				OptionalSymptoms: []string{"water_broke", "back_pain"},
			},
			{
				Condition:        ConditionMiscarriage,
				Name:             "Miscarriage",
				RequiredSymptoms: []string{"bleeding_before_delivery"},
				OptionalSymptoms: []string{"cramping", "tissue_passage", "severe_abdominal_pain"},
			},
			{
				Condition:        ConditionSepsis,
				Name:             "Sepsis",
				RequiredSymptoms: []string{"fever"},
				OptionalSymptoms: []string{"foul_discharge", "chills", "weakness", "rapid_heartbeat"},
			},
		},
		Care: map[Condition]CareRequirement{
			ConditionPostpartumHemorrhage: {
				Ideal:             []string{CapMidwifeOrNurse, CapPower, CapWater, CapUterotonics, CapBlood},
				Acceptable:        []string{CapMidwifeOrNurse, CapPower, CapWater, CapUterotonics},
				TimeWindowMinutes: 60,
			},
			ConditionEclampsia: {
				Ideal:             []string{CapAnticonvulsants, CapAntihypertensives, CapMonitoring, CapUltrasound, CapDoctor, CapDeliveryRoom, CapPower},
				Acceptable:        []string{CapAnticonvulsants, CapMonitoring},
				TimeWindowMinutes: 90,
			},
			ConditionObstructedLabor: {
				Ideal:             []string{CapTheater, CapPower, CapStaff247, CapDoctor, CapUltrasound},
				Acceptable:        []string{CapTheater, CapPower, CapStaff247},
				TimeWindowMinutes: 120,
			},
			ConditionNormalDelivery: {
				Ideal:             []string{CapDeliveryRoom, CapMidwifeOrNurse, CapPower, CapWater},
				Acceptable:        []string{CapDeliveryRoom, CapMidwifeOrNurse},
				TimeWindowMinutes: 180,
			},
			ConditionPretermLabor: {
				Ideal:             []string{CapIncubator, CapUltrasound, CapDoctor},
				Acceptable:        []string{CapIncubator, CapMidwifeOrNurse},
				TimeWindowMinutes: 90,
			},
			ConditionMiscarriage: {
				Ideal:             []string{CapMVAKit, CapAntibiotics, CapIVFluids, CapUltrasound},
				Acceptable:        []string{CapMVAKit},
				TimeWindowMinutes: 120,
			},
			ConditionSepsis: {
				Ideal:             []string{CapAntibiotics, CapIVFluids, CapMonitoring},
				Acceptable:        []string{CapAntibiotics, CapIVFluids},
				TimeWindowMinutes: 60,
			},
			ConditionCritical: {
				Ideal:             []string{CapDoctor, CapTheater, CapBlood, CapPower, CapStaff247},
				Acceptable:        []string{CapDoctor, CapIVFluids},
				TimeWindowMinutes: 60,
			},
			ConditionUnknown: {
				Ideal:             []string{},
				Acceptable:        []string{},
				TimeWindowMinutes: 60,
			},
		},
		Vehicles: map[Condition]VehicleRequirement{
			ConditionPostpartumHemorrhage: carOnly(),
			ConditionEclampsia:            carOnly(),
			ConditionObstructedLabor:      carOnly(),
			ConditionCritical:             carOnly(),
			ConditionPretermLabor:         carOnly(),
			ConditionNormalDelivery:       carPreferred(),
			ConditionMiscarriage:          carPreferred(),
			ConditionSepsis:               carPreferred(),
			ConditionUnknown:              carPreferred(),
		},
		criticalSymptoms: map[string]bool{
			"convulsions":                   true,
			"unconsciousness":               true,
			"heavy_bleeding_after_delivery": true,
			"baby_not_coming":               true,
			"no_fetal_movement":             true,
		},
		criticalCombos: [][2]string{
			{"severe_headache", "blurry_vision"},
			{"fever", "weakness"},
		},
		emergent: map[Condition]bool{
			ConditionPostpartumHemorrhage: true,
			ConditionEclampsia:            true,
			ConditionObstructedLabor:      true,
		},
	}
}

func carOnly() VehicleRequirement {
	return VehicleRequirement{
		Allowed:   []types.VehicleType{types.VehicleCar},
		Preferred: types.VehicleCar,
	}
}

func carPreferred() VehicleRequirement {
	return VehicleRequirement{
		Allowed:   []types.VehicleType{types.VehicleCar, types.VehicleMotorcycle},
		Preferred: types.VehicleCar,
	}
}
