// README: two-tier driver candidate selection.
package matching

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sort"
	"time"

	"ummana/internal/geo"
	"ummana/internal/modules/driver"
	"ummana/internal/modules/triage"
	"ummana/internal/notify"
	"ummana/internal/types"
)

var ErrNoAvailableDriver = errors.New("no available driver found")

// DriverSource is the slice of the driver store the selector needs.
type DriverSource interface {
	Available(ctx context.Context) ([]driver.Driver, error)
	GetMany(ctx context.Context, ids []types.ID) ([]driver.Driver, error)
}

// RefreshTracker flags drivers asked for an immediate location report.
type RefreshTracker interface {
	MarkPendingLocation(ctx context.Context, driverID types.ID, ttl time.Duration) error
}

type Selector struct {
	drivers         DriverSource
	tracker         RefreshTracker
	notifier        notify.Notifier
	logger          *slog.Logger
	refreshWait     time.Duration
	freshnessWindow time.Duration
}

func NewSelector(drivers DriverSource, tracker RefreshTracker, notifier notify.Notifier,
	logger *slog.Logger, refreshWait, freshnessWindow time.Duration) *Selector {
	return &Selector{
		drivers:         drivers,
		tracker:         tracker,
		notifier:        notifier,
		logger:          logger,
		refreshWait:     refreshWait,
		freshnessWindow: freshnessWindow,
	}
}

// Select picks up to five candidates for a pickup point. Emergent conditions
// get a refresh round: stale tier-1 candidates are asked for an immediate
// location report, and selection resumes after a fixed wait with whatever
// updates landed in time.
func (s *Selector) Select(ctx context.Context, pickup types.Point, vehicles triage.VehicleRequirement, emergent bool) ([]Candidate, error) {
	available, err := s.drivers.Available(ctx)
	if err != nil {
		return nil, err
	}
	tier1 := s.score(available, pickup, vehicles)
	geo.SortByDistance(tier1, func(c Candidate) float64 { return c.DistanceKm })
	if len(tier1) > tier1Size {
		tier1 = tier1[:tier1Size]
	}
	if len(tier1) == 0 {
		return nil, ErrNoAvailableDriver
	}

	if emergent {
		s.requestRefresh(ctx, tier1)
		select {
		case <-time.After(s.refreshWait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	ids := make([]types.ID, len(tier1))
	for i, c := range tier1 {
		ids[i] = c.Driver.ID
	}
	refreshed, err := s.drivers.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	final := s.score(refreshed, pickup, vehicles)
	if emergent {
		sortEmergent(final)
	} else {
		sortNonEmergent(final)
	}
	if len(final) > finalSize {
		final = final[:finalSize]
	}
	if len(final) == 0 {
		return nil, ErrNoAvailableDriver
	}
	return final, nil
}

// score filters for availability, vehicle fit, and a usable position, and
// computes distance and pickup-time estimates for what remains.
func (s *Selector) score(drivers []driver.Driver, pickup types.Point, vehicles triage.VehicleRequirement) []Candidate {
	now := time.Now()
	out := []Candidate{}
	for _, d := range drivers {
		if !d.IsAvailable || !allowedVehicle(d.VehicleType, vehicles.Allowed) {
			continue
		}
		loc, fresh, ok := driver.EffectiveLocation(&d, now, s.freshnessWindow)
		if !ok {
			continue
		}
		distKm := geo.HaversineKm(loc, pickup)
		speed := SpeedKmh(d.VehicleType)
		out = append(out, Candidate{
			Driver:           d,
			Location:         loc,
			Fresh:            fresh,
			DistanceKm:       distKm,
			SpeedKmh:         speed,
			EstimatedMinutes: distKm / speed * 60,
			Preferred:        d.VehicleType == vehicles.Preferred,
		})
	}
	return out
}

// requestRefresh nudges every stale, reachable candidate. Failures are logged
// per driver and never abort selection.
func (s *Selector) requestRefresh(ctx context.Context, candidates []Candidate) {
	for _, c := range candidates {
		if c.Fresh || c.Driver.PushToken == nil {
			continue
		}
		if err := s.tracker.MarkPendingLocation(ctx, c.Driver.ID, pendingLocationTTL); err != nil {
			s.logger.Warn("failed to flag pending location",
				slog.String("driver_id", string(c.Driver.ID)), slog.Any("error", err))
		}
		msg := notify.Message{
			Type:     notify.TypeLocationUpdate,
			Priority: notify.PriorityHigh,
			Data:     map[string]string{"driverId": string(c.Driver.ID)},
		}
		if err := s.notifier.Send(ctx, *c.Driver.PushToken, msg); err != nil {
			s.logger.Warn("location refresh notification failed",
				slog.String("driver_id", string(c.Driver.ID)), slog.Any("error", err))
		}
	}
}

func allowedVehicle(v types.VehicleType, allowed []types.VehicleType) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// sortEmergent orders by estimated pickup time, with the preferred vehicle
// winning whenever two estimates are within the tie window.
func sortEmergent(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Preferred != b.Preferred &&
			math.Abs(a.EstimatedMinutes-b.EstimatedMinutes) < tieWindowMinutes {
			return a.Preferred
		}
		return a.EstimatedMinutes < b.EstimatedMinutes
	})
}

// sortNonEmergent puts preferred vehicles first, nearest first within each group.
func sortNonEmergent(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Preferred != b.Preferred {
			return a.Preferred
		}
		return a.DistanceKm < b.DistanceKm
	})
}
