// README: Symptom-to-condition classifier (deterministic, rules-based).
package triage

import "fmt"

// PatientContext carries the optional context reported alongside symptoms.
type PatientContext struct {
	IsPregnant   bool
	IsPostpartum bool
	IsUrgent     bool
}

// Assessment is the classifier's conclusion about a symptom set.
type Assessment struct {
	Condition           Condition
	Name                string
	Confidence          float64
	Reasoning           string
	RequiresHighestCare bool
}

// Classifier scores symptom sets against the configured condition specs. It
// holds no mutable state; the same input always yields the same assessment,
// independent of symptom order.
type Classifier struct {
	catalog *Catalog
}

func NewClassifier(catalog *Catalog) *Classifier {
	return &Classifier{catalog: catalog}
}

const (
	// criticalSymptomCount: this many distinct symptoms at once is treated as
	// a critical emergency regardless of pattern.
	criticalSymptomCount = 7
	// lowScoreCutoff: best scores below this resolve to unknown.
	lowScoreCutoff = 20.0
	// confidenceDivisor normalizes raw scores into [0,1].
	confidenceDivisor = 150.0
	// maxConfidence caps reported confidence.
	maxConfidence = 0.95
	// escalationConfidence: below this, multi-symptom cases are escalated.
	escalationConfidence = 0.7
	// escalationSymptomCount: minimum symptoms for the uncertainty escalation.
	escalationSymptomCount = 3
)

// Identify maps a symptom set plus patient context to the most likely
// condition with a confidence score and a human-readable explanation.
func (c *Classifier) Identify(symptoms []string, pc PatientContext) Assessment {
	present := make(map[string]bool, len(symptoms))
	for _, s := range symptoms {
		present[s] = true
	}

	if len(present) == 0 {
		return Assessment{
			Condition: ConditionUnknown,
			Name:      "Unknown Condition",
			Reasoning: "No symptoms provided",
		}
	}

	if pc.IsUrgent || c.hasLifeThreateningSymptoms(present) || len(present) >= criticalSymptomCount {
		return Assessment{
			Condition:           ConditionCritical,
			Name:                "Critical Emergency",
			Confidence:          0.9,
			Reasoning:           "Multiple severe symptoms or explicitly marked urgent",
			RequiresHighestCare: true,
		}
	}

	type scored struct {
		spec            ConditionSpec
		score           float64
		requiredMatches int
		optionalMatches int
	}

	scores := make([]scored, 0, len(c.catalog.Conditions))
	for _, spec := range c.catalog.Conditions {
		s := scored{spec: spec}
		for _, sym := range spec.RequiredSymptoms {
			if present[sym] {
				s.requiredMatches++
			}
		}
		if n := len(spec.RequiredSymptoms); n > 0 {
			if s.requiredMatches == n {
				s.score += 100
			} else {
				s.score += 50 * float64(s.requiredMatches) / float64(n)
			}
		}
		for _, sym := range spec.OptionalSymptoms {
			if present[sym] {
				s.optionalMatches++
				s.score += 10
			}
		}
		scores = append(scores, s)
	}

	// Contextual reweighting: postpartum rules out pregnancy-only conditions
	// and boosts hemorrhage; an ongoing pregnancy rules out postpartum-only
	// conditions and boosts the pregnancy-specific ones.
	for i := range scores {
		cond := scores[i].spec.Condition
		switch {
		case pc.IsPostpartum:
			switch cond {
			case ConditionPostpartumHemorrhage:
				scores[i].score *= 1.5
			case ConditionPretermLabor, ConditionNormalDelivery:
				scores[i].score = 0
			}
		case pc.IsPregnant:
			switch cond {
			case ConditionPretermLabor, ConditionEclampsia, ConditionObstructedLabor:
				scores[i].score *= 1.2
			case ConditionPostpartumHemorrhage:
				scores[i].score = 0
			}
		}
	}

	best := scored{}
	found := false
	for _, s := range scores {
		if s.score > best.score {
			best = s
			found = true
		}
	}

	if !found || best.score < lowScoreCutoff {
		return Assessment{
			Condition: ConditionUnknown,
			Name:      "Unknown Condition",
			Reasoning: "Symptoms don't clearly match any known condition",
		}
	}

	confidence := best.score / confidenceDivisor
	if confidence > maxConfidence {
		confidence = maxConfidence
	}

	result := Assessment{
		Condition:  best.spec.Condition,
		Name:       best.spec.Name,
		Confidence: confidence,
		Reasoning:  reasoning(best.spec, best.requiredMatches, best.optionalMatches),
	}
	if result.Confidence < escalationConfidence && len(present) >= escalationSymptomCount {
		result.RequiresHighestCare = true
		result.Reasoning += " Due to uncertainty with multiple symptoms, recommending highest level of care."
	}
	return result
}

func (c *Classifier) hasLifeThreateningSymptoms(present map[string]bool) bool {
	for sym := range present {
		if c.catalog.criticalSymptoms[sym] {
			return true
		}
	}
	for _, combo := range c.catalog.criticalCombos {
		if present[combo[0]] && present[combo[1]] {
			return true
		}
	}
	return false
}

func reasoning(spec ConditionSpec, requiredMatches, optionalMatches int) string {
	r := fmt.Sprintf("Matched %d of %d required symptoms", requiredMatches, len(spec.RequiredSymptoms))
	if optionalMatches > 0 {
		return fmt.Sprintf("%s and %d of %d optional symptoms for %s.", r, optionalMatches, len(spec.OptionalSymptoms), spec.Name)
	}
	return fmt.Sprintf("%s for %s.", r, spec.Name)
}
