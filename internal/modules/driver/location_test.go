package driver

import (
	"testing"
	"time"

	"ummana/internal/types"
)

func TestFreshnessTTL(t *testing.T) {
	if got := FreshnessTTL(true); got != 10*time.Minute {
		t.Errorf("available TTL = %v, want 10m", got)
	}
	if got := FreshnessTTL(false); got != 30*time.Minute {
		t.Errorf("unavailable TTL = %v, want 30m", got)
	}
}

func TestSignificantMove(t *testing.T) {
	base := types.Point{Lat: 9.0765, Lng: 7.3986}
	// Roughly 1 degree latitude = 111 km, so 0.0001 deg ≈ 11 m and 0.001 deg ≈ 111 m.
	nearby := types.Point{Lat: base.Lat + 0.0001, Lng: base.Lng}
	midRange := types.Point{Lat: base.Lat + 0.001, Lng: base.Lng}
	far := types.Point{Lat: base.Lat + 0.01, Lng: base.Lng}

	tests := []struct {
		name      string
		prev      *types.Point
		next      types.Point
		available bool
		want      bool
	}{
		{"no previous position", nil, base, true, true},
		{"11m available", &base, nearby, true, false},
		{"111m available", &base, midRange, true, true},
		{"111m unavailable", &base, midRange, false, false},
		{"1.1km unavailable", &base, far, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SignificantMove(tt.prev, tt.next, tt.available); got != tt.want {
				t.Errorf("SignificantMove() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEffectiveLocation(t *testing.T) {
	now := time.Now()
	reported := types.Point{Lat: 9.05, Lng: 7.49}
	fallback := types.Point{Lat: 9.00, Lng: 7.40}
	window := 15 * time.Minute

	tsWithin := now.Add(-5 * time.Minute)
	tsBeyond := now.Add(-20 * time.Minute)

	tests := []struct {
		name      string
		d         Driver
		wantPoint types.Point
		wantFresh bool
		wantOK    bool
	}{
		{
			name: "fresh recent report",
			d: Driver{LastKnownLocation: &reported, LastLocationTimestamp: &tsWithin,
				IsLocationFresh: true, FallbackLocation: &fallback},
			wantPoint: reported, wantFresh: true, wantOK: true,
		},
		{
			name: "report beyond window falls back",
			d: Driver{LastKnownLocation: &reported, LastLocationTimestamp: &tsBeyond,
				IsLocationFresh: true, FallbackLocation: &fallback},
			wantPoint: fallback, wantFresh: false, wantOK: true,
		},
		{
			name: "stale flag falls back despite recent timestamp",
			d: Driver{LastKnownLocation: &reported, LastLocationTimestamp: &tsWithin,
				IsLocationFresh: false, FallbackLocation: &fallback},
			wantPoint: fallback, wantFresh: false, wantOK: true,
		},
		{
			name:      "no report, fallback only",
			d:         Driver{FallbackLocation: &fallback},
			wantPoint: fallback, wantFresh: false, wantOK: true,
		},
		{
			name:   "no usable position",
			d:      Driver{},
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pt, fresh, ok := EffectiveLocation(&tt.d, now, window)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if pt != tt.wantPoint {
				t.Errorf("point = %+v, want %+v", pt, tt.wantPoint)
			}
			if fresh != tt.wantFresh {
				t.Errorf("fresh = %v, want %v", fresh, tt.wantFresh)
			}
		})
	}
}
