package hospital

import (
	"testing"

	"ummana/internal/modules/triage"
	"ummana/internal/types"
)

var testCare = triage.CareRequirement{
	Ideal:             []string{triage.CapBlood, triage.CapTheater, triage.CapDoctor},
	Acceptable:        []string{triage.CapIVFluids, triage.CapMidwifeOrNurse},
	TimeWindowMinutes: 60,
}

func idealCaps() Capabilities {
	return Capabilities{
		HasBlood: true, HasTheater: true, HasDoctor: true,
		HasIVFluids: true, HasMidwifeOrNurse: true,
	}
}

func acceptableCaps() Capabilities {
	return Capabilities{HasIVFluids: true, HasMidwifeOrNurse: true}
}

func TestRankExcludesUnqualified(t *testing.T) {
	pickup := types.Point{Lat: 9.0, Lng: 7.4}
	hospitals := []Hospital{
		{ID: "bare", Location: pickup, Capabilities: Capabilities{HasWater: true}},
	}
	if got := Rank(hospitals, pickup, 0, 50, testCare); len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
}

func TestRankScoreTiers(t *testing.T) {
	pickup := types.Point{Lat: 9.0, Lng: 7.4}
	// At 50 km/h the 60 minute window covers 50 km and the grace tier 75 km.
	// 0.1 deg latitude is about 11 km, 0.5 deg about 55 km.
	near := types.Point{Lat: 9.1, Lng: 7.4}
	beyond := types.Point{Lat: 9.5, Lng: 7.4}

	hospitals := []Hospital{
		{ID: "acceptable-near", Location: near, Capabilities: acceptableCaps()},
		{ID: "ideal-near", Location: near, Capabilities: idealCaps()},
		{ID: "ideal-grace", Location: beyond, Capabilities: idealCaps()},
	}
	got := Rank(hospitals, pickup, 0, 50, testCare)
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(got))
	}
	if got[0].Hospital.ID != "ideal-near" || got[0].Score != 100 {
		t.Errorf("best = %s score %d, want ideal-near score 100", got[0].Hospital.ID, got[0].Score)
	}
	if got[1].Hospital.ID != "acceptable-near" || got[1].Score != 75 {
		t.Errorf("second = %s score %d, want acceptable-near score 75", got[1].Hospital.ID, got[1].Score)
	}
	if got[2].Hospital.ID != "ideal-grace" || got[2].Score != 60 {
		t.Errorf("third = %s score %d, want ideal-grace score 60", got[2].Hospital.ID, got[2].Score)
	}
}

func TestRankExcludesBeyondGrace(t *testing.T) {
	pickup := types.Point{Lat: 9.0, Lng: 7.4}
	// Roughly 110 km away: over 2 hours at 50 km/h, past window+grace.
	farAway := types.Point{Lat: 10.0, Lng: 7.4}
	hospitals := []Hospital{
		{ID: "too-far", Location: farAway, Capabilities: idealCaps()},
	}
	if got := Rank(hospitals, pickup, 0, 50, testCare); len(got) != 0 {
		t.Fatalf("expected no matches beyond grace, got %d", len(got))
	}
}

func TestRankAccountsForDriverLeg(t *testing.T) {
	pickup := types.Point{Lat: 9.0, Lng: 7.4}
	near := types.Point{Lat: 9.1, Lng: 7.4}
	hospitals := []Hospital{
		{ID: "h", Location: near, Capabilities: idealCaps()},
	}
	// A 45 km driver leg plus ~11 km hospital leg exceeds the 50 km window
	// distance, pushing the match into the grace tier.
	got := Rank(hospitals, pickup, 45, 50, testCare)
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if got[0].Score != 60 {
		t.Errorf("score = %d, want 60 once the driver leg is included", got[0].Score)
	}
}

func TestRankTieBreaksOnTripTime(t *testing.T) {
	pickup := types.Point{Lat: 9.0, Lng: 7.4}
	closer := types.Point{Lat: 9.05, Lng: 7.4}
	further := types.Point{Lat: 9.1, Lng: 7.4}
	hospitals := []Hospital{
		{ID: "further", Location: further, Capabilities: idealCaps()},
		{ID: "closer", Location: closer, Capabilities: idealCaps()},
	}
	got := Rank(hospitals, pickup, 0, 50, testCare)
	if len(got) != 2 || got[0].Hospital.ID != "closer" {
		t.Fatalf("expected closer hospital first, got %+v", got)
	}
}
