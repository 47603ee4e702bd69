// README: ride dispatch and response orchestration.
package ride

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ummana/internal/geo"
	"ummana/internal/maps"
	"ummana/internal/modules/agent"
	"ummana/internal/modules/driver"
	"ummana/internal/modules/hospital"
	"ummana/internal/modules/matching"
	"ummana/internal/modules/triage"
	"ummana/internal/notify"
	"ummana/internal/types"
)

var (
	ErrBadRequest   = errors.New("missing or invalid ride request fields")
	ErrNotFound     = errors.New("ride request not found")
	ErrNotCandidate = errors.New("driver is not a candidate for this ride")
	ErrConflict     = errors.New("ride is not in the expected status")
)

// overrideFreshnessWindow mirrors the selector's view of a usable position
// when re-snapshotting an accepting driver.
const overrideFreshnessWindow = 15 * time.Minute

// Service wires the triage, selection, and matching stages into the ride
// lifecycle and owns the notification fan-out.
type Service struct {
	rides      *Store
	drivers    *driver.Store
	agents     *agent.Store
	matcher    *hospital.Matcher
	selector   *matching.Selector
	dispatch   *matching.Store
	classifier *triage.Classifier
	catalog    *triage.Catalog
	routes     *maps.RouteService
	notifier   notify.Notifier
	logger     *slog.Logger
}

type ServiceDeps struct {
	Rides      *Store
	Drivers    *driver.Store
	Agents     *agent.Store
	Matcher    *hospital.Matcher
	Selector   *matching.Selector
	Dispatch   *matching.Store
	Classifier *triage.Classifier
	Catalog    *triage.Catalog
	Routes     *maps.RouteService // optional; nil disables road estimates
	Notifier   notify.Notifier
	Logger     *slog.Logger
}

func NewService(deps ServiceDeps) *Service {
	return &Service{
		rides:      deps.Rides,
		drivers:    deps.Drivers,
		agents:     deps.Agents,
		matcher:    deps.Matcher,
		selector:   deps.Selector,
		dispatch:   deps.Dispatch,
		classifier: deps.Classifier,
		catalog:    deps.Catalog,
		routes:     deps.Routes,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
	}
}

type DispatchCommand struct {
	ChipsAgentID types.ID
	Symptoms     []string
	Pickup       types.Point
	Patient      triage.PatientContext
}

type DispatchResult struct {
	RequestID      types.ID           `json:"requestId"`
	Condition      triage.Assessment  `json:"condition"`
	Driver         DriverAssignment   `json:"driver"`
	Hospital       HospitalAssignment `json:"hospital"`
	EmergencyLevel EmergencyLevel     `json:"emergencyLevel"`
	CandidateCount int                `json:"candidateCount"`
}

// Dispatch runs the full request flow: classify the reported symptoms, select
// driver candidates, match a hospital, persist the ride, then fan out the
// offer. The fan-out is asynchronous; its failures are logged per recipient
// and never affect the dispatch result.
func (s *Service) Dispatch(ctx context.Context, cmd DispatchCommand) (*DispatchResult, error) {
	if cmd.ChipsAgentID == "" || len(cmd.Symptoms) == 0 {
		return nil, ErrBadRequest
	}
	requester, err := s.agents.Get(ctx, cmd.ChipsAgentID)
	if err != nil {
		return nil, err
	}

	assessment := s.classifier.Identify(cmd.Symptoms, cmd.Patient)
	care := s.catalog.CareFor(assessment.Condition)
	vehicles := s.catalog.VehiclesFor(assessment.Condition)
	emergent := s.catalog.Emergent(assessment.Condition)

	candidates, err := s.selector.Select(ctx, cmd.Pickup, vehicles, emergent)
	if err != nil {
		return nil, err
	}

	top := candidates[0]
	match, err := s.matcher.Match(ctx, cmd.Pickup, top.DistanceKm, top.SpeedKmh, care)
	if err != nil {
		return nil, err
	}

	level := EmergencyMedium
	if emergent {
		level = EmergencyHigh
	}

	r := &RideRequest{
		ID:            types.ID(uuid.NewString()),
		ChipsAgentID:  requester.ID,
		Symptoms:      cmd.Symptoms,
		Condition:     assessment.Condition,
		ConditionName: assessment.Name,
		Confidence:    assessment.Confidence,
		Pickup:        cmd.Pickup,
		Driver: DriverAssignment{
			ID:                     top.Driver.ID,
			Name:                   top.Driver.FullName(),
			PhoneNumber:            top.Driver.PhoneNumber,
			VehicleType:            top.Driver.VehicleType,
			DistanceKm:             top.DistanceKm,
			EstimatedPickupMinutes: top.EstimatedMinutes,
			LocationFreshness:      freshnessTag(top.Fresh),
		},
		Hospital: HospitalAssignment{
			ID:               match.Hospital.ID,
			Name:             match.Hospital.Name,
			Location:         match.Hospital.Location,
			Score:            match.Score,
			DistanceKm:       match.DistanceKm,
			TotalTripMinutes: match.TotalTripMinutes,
		},
		Status:           StatusPending,
		EmergencyLevel:   level,
		CandidateDrivers: candidateList(candidates),
		CreatedAt:        time.Now(),
	}
	s.attachRoadEstimate(ctx, r)
	if err := s.rides.Create(ctx, r); err != nil {
		return nil, err
	}

	s.recordDispatch(ctx, r)
	go s.broadcastOffer(context.WithoutCancel(ctx), r)

	return &DispatchResult{
		RequestID:      r.ID,
		Condition:      assessment,
		Driver:         r.Driver,
		Hospital:       r.Hospital,
		EmergencyLevel: level,
		CandidateCount: len(r.CandidateDrivers),
	}, nil
}

// Respond handles a candidate's accept or decline. Exactly one accept can win;
// the losing side gets ErrConflict carrying the ride's current status.
func (s *Service) Respond(ctx context.Context, rideID, driverID types.ID, accept bool) (*RideRequest, error) {
	if rideID == "" || driverID == "" {
		return nil, ErrBadRequest
	}
	r, err := s.rides.Get(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !r.IsCandidate(driverID) {
		return nil, ErrNotCandidate
	}
	if r.Status != StatusPending {
		return nil, fmt.Errorf("%w: %s", ErrConflict, r.Status)
	}

	if !accept {
		if err := s.rides.AppendDecline(ctx, rideID, driverID, time.Now()); err != nil {
			return nil, err
		}
		return s.rides.Get(ctx, rideID)
	}

	override, err := s.buildOverride(ctx, r, driverID)
	if err != nil {
		return nil, err
	}
	won, err := s.rides.AcceptCAS(ctx, rideID, driverID, time.Now(), override)
	if err != nil {
		return nil, err
	}
	if !won {
		// Lost the race; report whatever status the winner left behind.
		current, err := s.rides.Get(ctx, rideID)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrConflict, current.Status)
	}

	if err := s.drivers.SetCurrentRide(ctx, driverID, &rideID); err != nil {
		s.logger.Warn("failed to set driver current ride",
			slog.String("driver_id", string(driverID)), slog.Any("error", err))
	}

	accepted, err := s.rides.Get(ctx, rideID)
	if err != nil {
		return nil, err
	}
	go s.notifyAgentAccepted(context.WithoutCancel(ctx), accepted)
	return accepted, nil
}

// UpdateStatus is the generic lifecycle hook for everything after acceptance,
// including cancellation.
func (s *Service) UpdateStatus(ctx context.Context, rideID types.ID, to Status) (*RideRequest, error) {
	if rideID == "" || !ValidStatus(to) {
		return nil, ErrBadRequest
	}
	r, err := s.rides.Get(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(r.Status, to) {
		return nil, fmt.Errorf("%w: cannot move from %s to %s", ErrConflict, r.Status, to)
	}
	ok, err := s.rides.UpdateStatusCAS(ctx, rideID, r.Status, to, r.StatusVersion)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: ride changed concurrently", ErrConflict)
	}

	// A finished or cancelled trip releases the driver.
	if Terminal(to) && r.AcceptedBy != nil {
		if err := s.drivers.SetCurrentRide(ctx, *r.AcceptedBy, nil); err != nil {
			s.logger.Warn("failed to clear driver current ride",
				slog.String("driver_id", string(*r.AcceptedBy)), slog.Any("error", err))
		}
	}
	return s.rides.Get(ctx, rideID)
}

func (s *Service) Get(ctx context.Context, id types.ID) (*RideRequest, error) {
	return s.rides.Get(ctx, id)
}

func (s *Service) ActiveByAgent(ctx context.Context, agentID types.ID) ([]RideRequest, error) {
	return s.rides.ActiveByAgent(ctx, agentID)
}

func (s *Service) HistoryByAgent(ctx context.Context, agentID types.ID) ([]RideRequest, error) {
	return s.rides.HistoryByAgent(ctx, agentID)
}

func (s *Service) PendingForDriver(ctx context.Context, driverID types.ID) ([]RideWithAgent, error) {
	rides, err := s.rides.PendingForDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	return s.withAgentContacts(ctx, rides), nil
}

func (s *Service) ActiveForDriver(ctx context.Context, driverID types.ID) ([]RideWithAgent, error) {
	rides, err := s.rides.ActiveForDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	return s.withAgentContacts(ctx, rides), nil
}

func (s *Service) HistoryByDriver(ctx context.Context, driverID types.ID) ([]RideWithAgent, error) {
	rides, err := s.rides.HistoryByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	return s.withAgentContacts(ctx, rides), nil
}

// withAgentContacts decorates driver-facing views with the requester's
// contact card. A missing agent record just leaves the card off.
func (s *Service) withAgentContacts(ctx context.Context, rides []RideRequest) []RideWithAgent {
	contacts := map[types.ID]*AgentContact{}
	out := make([]RideWithAgent, len(rides))
	for i, r := range rides {
		out[i] = RideWithAgent{RideRequest: r}
		contact, ok := contacts[r.ChipsAgentID]
		if !ok {
			if a, err := s.agents.Get(ctx, r.ChipsAgentID); err == nil {
				contact = &AgentContact{ID: a.ID, Name: a.FullName(), PhoneNumber: a.PhoneNumber}
			}
			contacts[r.ChipsAgentID] = contact
		}
		out[i].ChipsAgent = contact
	}
	return out
}

// buildOverride snapshots the accepting driver when it is not the provisional
// assignment.
func (s *Service) buildOverride(ctx context.Context, r *RideRequest, driverID types.ID) (*DriverAssignment, error) {
	if driverID == r.Driver.ID {
		return nil, nil
	}
	d, err := s.drivers.Get(ctx, driverID)
	if err != nil {
		return nil, err
	}
	assignment := &DriverAssignment{
		ID:                d.ID,
		Name:              d.FullName(),
		PhoneNumber:       d.PhoneNumber,
		VehicleType:       d.VehicleType,
		LocationFreshness: FreshnessEstimated,
		Overridden:        true,
	}
	if loc, fresh, ok := driver.EffectiveLocation(d, time.Now(), overrideFreshnessWindow); ok {
		assignment.DistanceKm = geo.HaversineKm(loc, r.Pickup)
		assignment.EstimatedPickupMinutes = assignment.DistanceKm / matching.SpeedKmh(d.VehicleType) * 60
		assignment.LocationFreshness = freshnessTag(fresh)
	}
	return assignment, nil
}

func freshnessTag(fresh bool) string {
	if fresh {
		return FreshnessCurrent
	}
	return FreshnessEstimated
}

// attachRoadEstimate decorates the hospital snapshot with driving figures.
// The matching decision already happened on great-circle numbers; a missing
// or slow directions response is ignored.
func (s *Service) attachRoadEstimate(ctx context.Context, r *RideRequest) {
	if s.routes == nil {
		return
	}
	estCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	est, err := s.routes.DrivingEstimate(estCtx, r.Pickup, r.Hospital.Location)
	if err != nil {
		s.logger.Debug("road estimate unavailable",
			slog.String("ride_id", string(r.ID)), slog.Any("error", err))
		return
	}
	minutes := est.Duration.Minutes()
	r.Hospital.RoadDistanceKm = &est.DistanceKm
	r.Hospital.RoadMinutes = &minutes
}

func (s *Service) recordDispatch(ctx context.Context, r *RideRequest) {
	ids := make([]types.ID, 0, len(r.CandidateDrivers))
	for _, c := range r.CandidateDrivers {
		if c.PushToken != nil {
			ids = append(ids, c.ID)
		}
	}
	if err := s.dispatch.RecordNotified(ctx, r.ID, ids); err != nil {
		s.logger.Warn("failed to record notified candidates",
			slog.String("ride_id", string(r.ID)), slog.Any("error", err))
	}
	if err := s.dispatch.SetDispatchedAt(ctx, r.ID, time.Now()); err != nil {
		s.logger.Warn("failed to record dispatch time",
			slog.String("ride_id", string(r.ID)), slog.Any("error", err))
	}
}

// broadcastOffer sends the ride offer to every reachable candidate. Each send
// fails independently.
func (s *Service) broadcastOffer(ctx context.Context, r *RideRequest) {
	priority := notify.PriorityNormal
	if r.EmergencyLevel == EmergencyHigh {
		priority = notify.PriorityHigh
	}
	for _, c := range r.CandidateDrivers {
		if c.PushToken == nil {
			continue
		}
		msg := notify.Message{
			Type:     notify.TypeRideRequest,
			Priority: priority,
			Title:    "Emergency transport request",
			Body:     r.ConditionName + " near " + r.Hospital.Name,
			Data: map[string]string{
				"rideId":         string(r.ID),
				"condition":      string(r.Condition),
				"emergencyLevel": string(r.EmergencyLevel),
			},
		}
		if err := s.notifier.Send(ctx, *c.PushToken, msg); err != nil {
			s.logger.Warn("ride offer notification failed",
				slog.String("ride_id", string(r.ID)),
				slog.String("driver_id", string(c.ID)), slog.Any("error", err))
		}
	}
}

func (s *Service) notifyAgentAccepted(ctx context.Context, r *RideRequest) {
	requester, err := s.agents.Get(ctx, r.ChipsAgentID)
	if err != nil || requester.PushToken == nil {
		return
	}
	msg := notify.Message{
		Type:     notify.TypeRideAccepted,
		Priority: notify.PriorityHigh,
		Title:    "Driver on the way",
		Body:     r.Driver.Name + " accepted the transport request",
		Data: map[string]string{
			"rideId":   string(r.ID),
			"driverId": string(r.Driver.ID),
		},
	}
	if err := s.notifier.Send(ctx, *requester.PushToken, msg); err != nil {
		s.logger.Warn("agent acceptance notification failed",
			slog.String("ride_id", string(r.ID)), slog.Any("error", err))
	}
}

func candidateList(candidates []matching.Candidate) []CandidateDriver {
	out := make([]CandidateDriver, len(candidates))
	for i, c := range candidates {
		out[i] = CandidateDriver{
			ID:        c.Driver.ID,
			Name:      c.Driver.FullName(),
			PushToken: c.Driver.PushToken,
		}
	}
	return out
}
