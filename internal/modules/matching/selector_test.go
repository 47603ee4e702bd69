package matching

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"ummana/internal/modules/driver"
	"ummana/internal/modules/triage"
	"ummana/internal/notify"
	"ummana/internal/types"
)

type stubDrivers struct {
	available []driver.Driver
	// refreshed, when set, is served by GetMany instead of available.
	refreshed []driver.Driver
}

func (s *stubDrivers) Available(ctx context.Context) ([]driver.Driver, error) {
	return s.available, nil
}

func (s *stubDrivers) GetMany(ctx context.Context, ids []types.ID) ([]driver.Driver, error) {
	pool := s.available
	if s.refreshed != nil {
		pool = s.refreshed
	}
	want := map[types.ID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	out := []driver.Driver{}
	for _, d := range pool {
		if want[d.ID] {
			out = append(out, d)
		}
	}
	return out, nil
}

type stubTracker struct {
	flagged []types.ID
}

func (s *stubTracker) MarkPendingLocation(ctx context.Context, id types.ID, ttl time.Duration) error {
	s.flagged = append(s.flagged, id)
	return nil
}

type stubNotifier struct {
	sent []notify.Message
}

func (s *stubNotifier) Send(ctx context.Context, token string, msg notify.Message) error {
	s.sent = append(s.sent, msg)
	return nil
}

var anyVehicle = triage.VehicleRequirement{
	Allowed:   []types.VehicleType{types.VehicleMotorcycle, types.VehicleCar},
	Preferred: types.VehicleCar,
}

func freshDriver(id string, vehicle types.VehicleType, loc types.Point) driver.Driver {
	now := time.Now()
	token := "token-" + id
	return driver.Driver{
		ID:                    types.ID(id),
		VehicleType:           vehicle,
		IsAvailable:           true,
		LastKnownLocation:     &loc,
		LastLocationTimestamp: &now,
		IsLocationFresh:       true,
		PushToken:             &token,
	}
}

func newTestSelector(src *stubDrivers, tracker *stubTracker, notifier *stubNotifier) *Selector {
	return NewSelector(src, tracker, notifier, slog.New(slog.NewTextHandler(io.Discard, nil)),
		10*time.Millisecond, 15*time.Minute)
}

func TestSelectNoDrivers(t *testing.T) {
	sel := newTestSelector(&stubDrivers{}, &stubTracker{}, &stubNotifier{})
	_, err := sel.Select(context.Background(), types.Point{Lat: 9, Lng: 7.4}, anyVehicle, false)
	if err != ErrNoAvailableDriver {
		t.Fatalf("err = %v, want ErrNoAvailableDriver", err)
	}
}

func TestSelectFiltersVehicleAndAvailability(t *testing.T) {
	pickup := types.Point{Lat: 9.0, Lng: 7.4}
	near := types.Point{Lat: 9.01, Lng: 7.4}

	offDuty := freshDriver("off-duty", types.VehicleCar, near)
	offDuty.IsAvailable = false

	src := &stubDrivers{available: []driver.Driver{
		freshDriver("bike", types.VehicleMotorcycle, near),
		freshDriver("car", types.VehicleCar, near),
		offDuty,
	}}
	sel := newTestSelector(src, &stubTracker{}, &stubNotifier{})

	carOnly := triage.VehicleRequirement{
		Allowed:   []types.VehicleType{types.VehicleCar},
		Preferred: types.VehicleCar,
	}
	got, err := sel.Select(context.Background(), pickup, carOnly, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Driver.ID != "car" {
		t.Fatalf("candidates = %+v, want only the available car", got)
	}
}

func TestSelectCapsFinalSetAtFive(t *testing.T) {
	pickup := types.Point{Lat: 9.0, Lng: 7.4}
	drivers := []driver.Driver{}
	for i := 0; i < 9; i++ {
		loc := types.Point{Lat: 9.01 + float64(i)*0.01, Lng: 7.4}
		drivers = append(drivers, freshDriver(string(rune('a'+i)), types.VehicleCar, loc))
	}
	sel := newTestSelector(&stubDrivers{available: drivers}, &stubTracker{}, &stubNotifier{})

	got, err := sel.Select(context.Background(), pickup, anyVehicle, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 5 {
		t.Fatalf("final set size = %d, want 5", len(got))
	}
	// Nearest drivers survive both tiers.
	if got[0].Driver.ID != "a" {
		t.Errorf("best candidate = %s, want a", got[0].Driver.ID)
	}
}

func TestSelectNonEmergentPrefersVehicleOverDistance(t *testing.T) {
	pickup := types.Point{Lat: 9.0, Lng: 7.4}
	src := &stubDrivers{available: []driver.Driver{
		freshDriver("bike-near", types.VehicleMotorcycle, types.Point{Lat: 9.005, Lng: 7.4}),
		freshDriver("car-far", types.VehicleCar, types.Point{Lat: 9.05, Lng: 7.4}),
	}}
	sel := newTestSelector(src, &stubTracker{}, &stubNotifier{})

	got, err := sel.Select(context.Background(), pickup, anyVehicle, false)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Driver.ID != "car-far" {
		t.Errorf("best = %s, want the preferred vehicle first for non-emergent", got[0].Driver.ID)
	}
}

func TestSelectEmergentOrdersByPickupTime(t *testing.T) {
	pickup := types.Point{Lat: 9.0, Lng: 7.4}
	// The motorcycle is far closer; even at 30 km/h it beats the car by more
	// than the tie window, so it must rank first despite not being preferred.
	src := &stubDrivers{available: []driver.Driver{
		freshDriver("car-far", types.VehicleCar, types.Point{Lat: 9.2, Lng: 7.4}),
		freshDriver("bike-near", types.VehicleMotorcycle, types.Point{Lat: 9.01, Lng: 7.4}),
	}}
	sel := newTestSelector(src, &stubTracker{}, &stubNotifier{})

	got, err := sel.Select(context.Background(), pickup, anyVehicle, true)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Driver.ID != "bike-near" {
		t.Errorf("best = %s, want bike-near by pickup time", got[0].Driver.ID)
	}
}

func TestSelectEmergentTieBreaksOnPreferredVehicle(t *testing.T) {
	pickup := types.Point{Lat: 9.0, Lng: 7.4}
	// Distances tuned so both estimates land within the 3 minute tie window:
	// bike at ~1.1 km / 30 km/h ≈ 2.2 min, car at ~2.2 km / 50 km/h ≈ 2.7 min.
	src := &stubDrivers{available: []driver.Driver{
		freshDriver("bike", types.VehicleMotorcycle, types.Point{Lat: 9.01, Lng: 7.4}),
		freshDriver("car", types.VehicleCar, types.Point{Lat: 9.02, Lng: 7.4}),
	}}
	sel := newTestSelector(src, &stubTracker{}, &stubNotifier{})

	got, err := sel.Select(context.Background(), pickup, anyVehicle, true)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Driver.ID != "car" {
		t.Errorf("best = %s, want the preferred car inside the tie window", got[0].Driver.ID)
	}
}

func TestSelectEmergentRefreshesStaleCandidates(t *testing.T) {
	pickup := types.Point{Lat: 9.0, Lng: 7.4}
	fallback := types.Point{Lat: 9.1, Lng: 7.4}

	stale := driver.Driver{
		ID:          "stale",
		VehicleType: types.VehicleCar,
		IsAvailable: true,
		FallbackLocation: &fallback,
	}
	token := "token-stale"
	stale.PushToken = &token

	tracker := &stubTracker{}
	notifier := &stubNotifier{}
	src := &stubDrivers{available: []driver.Driver{stale, freshDriver("fresh", types.VehicleCar, fallback)}}

	// After the refresh wait the stale driver has reported a position right
	// at the pickup point, overtaking the fresh driver.
	updated := stale
	now := time.Now()
	reported := pickup
	updated.LastKnownLocation = &reported
	updated.LastLocationTimestamp = &now
	updated.IsLocationFresh = true
	src.refreshed = []driver.Driver{updated, freshDriver("fresh", types.VehicleCar, fallback)}

	sel := newTestSelector(src, tracker, notifier)
	got, err := sel.Select(context.Background(), pickup, anyVehicle, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(tracker.flagged) != 1 || tracker.flagged[0] != "stale" {
		t.Errorf("flagged = %v, want only the stale driver", tracker.flagged)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].Type != notify.TypeLocationUpdate {
		t.Errorf("sent = %+v, want one location-update nudge", notifier.sent)
	}
	if got[0].Driver.ID != "stale" || !got[0].Fresh {
		t.Errorf("best = %s fresh=%v, want the refreshed driver first", got[0].Driver.ID, got[0].Fresh)
	}
}
