// README: capability and travel-time based hospital ranking.
package hospital

import (
	"context"
	"errors"
	"sort"

	"ummana/internal/geo"
	"ummana/internal/modules/triage"
	"ummana/internal/types"
)

var ErrNoSuitableHospital = errors.New("no suitable hospital found")

// Score tiers. An ideal facility reachable inside the condition's time window
// always beats everything else; the grace tiers tolerate an overrun of up to
// 30 minutes at reduced score.
const (
	scoreIdealInWindow      = 100
	scoreAcceptableInWindow = 75
	scoreIdealInGrace       = 60
	scoreAcceptableInGrace  = 40
	graceMinutes            = 30.0
)

type Match struct {
	Hospital         Hospital
	Score            int
	DistanceKm       float64
	TotalTripMinutes float64
	MeetsIdeal       bool
}

// Source abstracts the registry so the matcher can be tested without a database.
type Source interface {
	List(ctx context.Context) ([]Hospital, error)
}

type Matcher struct {
	source Source
}

func NewMatcher(source Source) *Matcher {
	return &Matcher{source: source}
}

// Match picks the best facility for a trip that starts with the assigned
// driver travelling driverToPickupKm to the pickup point at speedKmh.
func (m *Matcher) Match(ctx context.Context, pickup types.Point, driverToPickupKm, speedKmh float64, care triage.CareRequirement) (*Match, error) {
	hospitals, err := m.source.List(ctx)
	if err != nil {
		return nil, err
	}
	best := Rank(hospitals, pickup, driverToPickupKm, speedKmh, care)
	if len(best) == 0 {
		return nil, ErrNoSuitableHospital
	}
	return &best[0], nil
}

// Rank scores every qualifying hospital and orders them best first.
func Rank(hospitals []Hospital, pickup types.Point, driverToPickupKm, speedKmh float64, care triage.CareRequirement) []Match {
	window := float64(care.TimeWindowMinutes)
	out := []Match{}
	for _, h := range hospitals {
		meetsIdeal := h.Capabilities.MeetsAll(care.Ideal)
		meetsAcceptable := h.Capabilities.MeetsAll(care.Acceptable)
		if !meetsIdeal && !meetsAcceptable {
			continue
		}
		distKm := geo.HaversineKm(pickup, h.Location)
		tripMinutes := (driverToPickupKm + distKm) / speedKmh * 60

		var score int
		switch {
		case meetsIdeal && tripMinutes <= window:
			score = scoreIdealInWindow
		case meetsAcceptable && tripMinutes <= window:
			score = scoreAcceptableInWindow
		case meetsIdeal && tripMinutes <= window+graceMinutes:
			score = scoreIdealInGrace
		case meetsAcceptable && tripMinutes <= window+graceMinutes:
			score = scoreAcceptableInGrace
		default:
			continue
		}
		out = append(out, Match{
			Hospital:         h,
			Score:            score,
			DistanceKm:       distKm,
			TotalTripMinutes: tripMinutes,
			MeetsIdeal:       meetsIdeal,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].TotalTripMinutes < out[j].TotalTripMinutes
	})
	return out
}
