package ride

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusCancelled, true},
		{StatusAccepted, StatusEnRouteToPickup, true},
		{StatusEnRouteToPickup, StatusArrivedAtPickup, true},
		{StatusArrivedAtPickup, StatusEnRouteToHospital, true},
		{StatusEnRouteToHospital, StatusArrivedAtHospital, true},
		{StatusArrivedAtHospital, StatusCompleted, true},
		{StatusEnRouteToHospital, StatusCancelled, true},

		{StatusPending, StatusEnRouteToPickup, false},
		{StatusAccepted, StatusPending, false},
		{StatusAccepted, StatusCompleted, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusArrivedAtPickup, StatusArrivedAtHospital, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestStatusOnlyAdvances(t *testing.T) {
	order := []Status{StatusPending, StatusAccepted, StatusEnRouteToPickup,
		StatusArrivedAtPickup, StatusEnRouteToHospital, StatusArrivedAtHospital, StatusCompleted}
	for i, from := range order {
		for j, to := range order {
			if j <= i && CanTransition(from, to) {
				t.Errorf("backward transition %s -> %s allowed", from, to)
			}
		}
	}
}

func TestTerminal(t *testing.T) {
	for s, terminal := range map[Status]bool{
		StatusCompleted: true, StatusCancelled: true,
		StatusPending: false, StatusAccepted: false, StatusEnRouteToHospital: false,
	} {
		if Terminal(s) != terminal {
			t.Errorf("Terminal(%s) = %v, want %v", s, Terminal(s), terminal)
		}
	}
}

func TestIsCandidate(t *testing.T) {
	r := RideRequest{CandidateDrivers: []CandidateDriver{{ID: "a"}, {ID: "b"}}}
	if !r.IsCandidate("a") || !r.IsCandidate("b") {
		t.Error("expected listed drivers to be candidates")
	}
	if r.IsCandidate("c") {
		t.Error("unlisted driver must not be a candidate")
	}
}
