// README: Classifier unit tests (critical overrides, scoring, context reweighting).
package triage

import (
	"math/rand"
	"testing"
)

func newTestClassifier() *Classifier {
	return NewClassifier(DefaultCatalog())
}

func TestIdentify_EmptySymptoms(t *testing.T) {
	a := newTestClassifier().Identify(nil, PatientContext{})
	if a.Condition != ConditionUnknown {
		t.Fatalf("expected unknown, got %s", a.Condition)
	}
	if a.Confidence != 0 {
		t.Fatalf("expected zero confidence, got %f", a.Confidence)
	}
}

func TestIdentify_ConvulsionsAlwaysCritical(t *testing.T) {
	cases := [][]string{
		{"convulsions"},
		{"convulsions", "severe_headache"},
		{"labor_pains", "convulsions"},
		{"convulsions", "fever", "weakness", "dizziness"},
	}
	for _, symptoms := range cases {
		a := newTestClassifier().Identify(symptoms, PatientContext{})
		if a.Condition != ConditionCritical {
			t.Errorf("Identify(%v) = %s, want critical_emergency", symptoms, a.Condition)
		}
		if !a.RequiresHighestCare {
			t.Errorf("Identify(%v): expected RequiresHighestCare", symptoms)
		}
		if a.Confidence != 0.9 {
			t.Errorf("Identify(%v): confidence = %f, want 0.9", symptoms, a.Confidence)
		}
	}
}

func TestIdentify_CriticalCombosAndOverrides(t *testing.T) {
	c := newTestClassifier()

	if a := c.Identify([]string{"severe_headache", "blurry_vision"}, PatientContext{}); a.Condition != ConditionCritical {
		t.Errorf("headache+vision combo: got %s", a.Condition)
	}
	if a := c.Identify([]string{"fever", "weakness"}, PatientContext{}); a.Condition != ConditionCritical {
		t.Errorf("fever+weakness combo: got %s", a.Condition)
	}
	if a := c.Identify([]string{"labor_pains"}, PatientContext{IsUrgent: true}); a.Condition != ConditionCritical {
		t.Errorf("urgent flag: got %s", a.Condition)
	}

	many := []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7"}
	if a := c.Identify(many, PatientContext{}); a.Condition != ConditionCritical {
		t.Errorf("7 symptoms: got %s", a.Condition)
	}
}

func TestIdentify_PostpartumHemorrhage(t *testing.T) {
	a := newTestClassifier().Identify([]string{"heavy_bleeding_after_delivery"}, PatientContext{IsPostpartum: true})
	// Heavy post-delivery bleeding is in the life-threatening set, so this
	// resolves to the critical tier rather than plain hemorrhage.
	if a.Condition != ConditionCritical {
		t.Fatalf("got %s, want critical_emergency", a.Condition)
	}
	if a.Confidence < 0.6 {
		t.Fatalf("confidence = %f, want >= 0.6", a.Confidence)
	}
}

func TestIdentify_HemorrhageScoring(t *testing.T) {
	a := newTestClassifier().Identify([]string{"excessive_bleeding", "dizziness"}, PatientContext{IsPostpartum: true})
	if a.Condition != ConditionPostpartumHemorrhage {
		t.Fatalf("got %s, want postpartum_hemorrhage", a.Condition)
	}
	// (100 + 10) * 1.5 = 165 → capped at 0.95.
	if a.Confidence < 0.9 {
		t.Fatalf("confidence = %f, want >= 0.9", a.Confidence)
	}
}

func TestIdentify_PostpartumZeroesPregnancyConditions(t *testing.T) {
	a := newTestClassifier().Identify([]string{"labor_pains"}, PatientContext{IsPostpartum: true})
	if a.Condition == ConditionNormalDelivery || a.Condition == ConditionPretermLabor {
		t.Fatalf("postpartum patient classified as %s", a.Condition)
	}
}

func TestIdentify_PregnantZeroesHemorrhage(t *testing.T) {
	a := newTestClassifier().Identify([]string{"excessive_bleeding"}, PatientContext{IsPregnant: true})
	if a.Condition == ConditionPostpartumHemorrhage {
		t.Fatal("pregnant patient classified as postpartum hemorrhage")
	}
}

func TestIdentify_UnknownBelowCutoff(t *testing.T) {
	a := newTestClassifier().Identify([]string{"back_pain"}, PatientContext{})
	// A single optional symptom scores 10, below the cutoff of 20.
	if a.Condition != ConditionUnknown {
		t.Fatalf("got %s, want unknown", a.Condition)
	}
}

func TestIdentify_UncertaintyEscalation(t *testing.T) {
	// Partial required match plus optionals: 50*0 + ... pick 3 symptoms that
	// spread across conditions and keep the best score under 0.7*150.
	a := newTestClassifier().Identify([]string{"cramping", "severe_abdominal_pain", "swelling"}, PatientContext{})
	if a.Condition == ConditionCritical {
		t.Fatalf("did not expect critical for %v", a)
	}
	if a.Condition != ConditionUnknown && a.Confidence < 0.7 && !a.RequiresHighestCare {
		t.Fatalf("expected highest-care escalation for low-confidence multi-symptom case: %+v", a)
	}
}

func TestIdentify_Deterministic(t *testing.T) {
	c := newTestClassifier()
	symptoms := []string{"severe_headache", "swelling", "high_blood_pressure"}

	first := c.Identify(symptoms, PatientContext{IsPregnant: true})
	for i := 0; i < 20; i++ {
		shuffled := make([]string, len(symptoms))
		copy(shuffled, symptoms)
		rand.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := c.Identify(shuffled, PatientContext{IsPregnant: true})
		if got != first {
			t.Fatalf("order-dependent result: %+v vs %+v", got, first)
		}
	}
	if first.Condition != ConditionEclampsia {
		t.Fatalf("got %s, want eclampsia", first.Condition)
	}
}
