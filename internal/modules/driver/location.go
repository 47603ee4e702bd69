// README: driver location freshness rules.
package driver

import (
	"time"

	"ummana/internal/geo"
	"ummana/internal/types"
)

const (
	freshnessAvailable   = 10 * time.Minute
	freshnessUnavailable = 30 * time.Minute

	significantMoveAvailableM   = 50.0
	significantMoveUnavailableM = 200.0
)

// FreshnessTTL is how long a newly reported position stays fresh. Available
// drivers are expected to report more often, so their positions age faster.
func FreshnessTTL(available bool) time.Duration {
	if available {
		return freshnessAvailable
	}
	return freshnessUnavailable
}

// SignificantMove reports whether moving from to a new position warrants a
// location-history entry. Nil previous position always counts as significant.
func SignificantMove(prev *types.Point, next types.Point, available bool) bool {
	if prev == nil {
		return true
	}
	threshold := significantMoveUnavailableM
	if available {
		threshold = significantMoveAvailableM
	}
	return geo.HaversineKm(*prev, next)*1000 >= threshold
}

// EffectiveLocation resolves the position a driver should be matched at.
// The reported position is used only when it is flagged fresh and was taken
// within window of now; otherwise the catchment-area fallback applies. The
// second return distinguishes live positions from fallback ones, the third
// reports whether any usable position exists at all.
func EffectiveLocation(d *Driver, now time.Time, window time.Duration) (types.Point, bool, bool) {
	if d.LastKnownLocation != nil && d.IsLocationFresh &&
		d.LastLocationTimestamp != nil && now.Sub(*d.LastLocationTimestamp) <= window {
		return *d.LastKnownLocation, true, true
	}
	if d.FallbackLocation != nil {
		return *d.FallbackLocation, false, true
	}
	return types.Point{}, false, false
}
