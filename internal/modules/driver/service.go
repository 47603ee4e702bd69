// README: ETS driver service (registration, location reports, refresh nudges).
package driver

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ummana/internal/geo"
	"ummana/internal/notify"
	"ummana/internal/types"
)

var (
	ErrBadRequest     = errors.New("missing or invalid driver fields")
	ErrNotFound       = errors.New("driver not found")
	ErrDuplicatePhone = errors.New("driver with this phone number already exists")
	ErrHasActiveRides = errors.New("cannot delete driver with active ride requests")
	ErrNoPushToken    = errors.New("driver has no registered push token")
)

// AreaLocator resolves catchment area ids to their fixed coordinates, used to
// precompute a driver's fallback position.
type AreaLocator interface {
	Locations(ctx context.Context, ids []types.ID) ([]types.Point, error)
}

type Service struct {
	store    *Store
	areas    AreaLocator
	notifier notify.Notifier
	logger   *slog.Logger
}

func NewService(store *Store, areas AreaLocator, notifier notify.Notifier, logger *slog.Logger) *Service {
	return &Service{store: store, areas: areas, notifier: notifier, logger: logger}
}

type RegisterCommand struct {
	FirstName              string
	LastName               string
	PhoneNumber            string
	VehicleType            types.VehicleType
	AssignedCatchmentAreas []types.ID
	PushToken              *string
}

func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (types.ID, error) {
	if cmd.FirstName == "" || cmd.LastName == "" || len(cmd.AssignedCatchmentAreas) == 0 {
		return "", ErrBadRequest
	}
	if !types.ValidPhoneNumber(cmd.PhoneNumber) || !types.ValidVehicleType(cmd.VehicleType) {
		return "", ErrBadRequest
	}
	exists, err := s.store.PhoneExists(ctx, cmd.PhoneNumber)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrDuplicatePhone
	}

	locations, err := s.areas.Locations(ctx, cmd.AssignedCatchmentAreas)
	if err != nil {
		return "", err
	}
	fallback, ok := geo.Midpoint(locations)
	if !ok {
		return "", ErrBadRequest
	}

	d := &Driver{
		ID:                     types.ID(uuid.NewString()),
		FirstName:              cmd.FirstName,
		LastName:               cmd.LastName,
		PhoneNumber:            cmd.PhoneNumber,
		VehicleType:            cmd.VehicleType,
		IsAvailable:            true,
		FallbackLocation:       &fallback,
		AssignedCatchmentAreas: cmd.AssignedCatchmentAreas,
		PushToken:              cmd.PushToken,
		CreatedAt:              time.Now(),
	}
	if err := s.store.Create(ctx, d); err != nil {
		return "", err
	}
	return d.ID, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Driver, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) GetByPhone(ctx context.Context, phoneNumber string) (*Driver, error) {
	return s.store.GetByPhone(ctx, phoneNumber)
}

func (s *Service) List(ctx context.Context) ([]Driver, error) {
	return s.store.List(ctx)
}

// UpdateCommand is a partial update; nil fields are left untouched.
type UpdateCommand struct {
	FirstName              *string
	LastName               *string
	PhoneNumber            *string
	VehicleType            *types.VehicleType
	IsAvailable            *bool
	AssignedCatchmentAreas []types.ID
	PushToken              *string
}

func (c UpdateCommand) empty() bool {
	return c.FirstName == nil && c.LastName == nil && c.PhoneNumber == nil &&
		c.VehicleType == nil && c.IsAvailable == nil &&
		c.AssignedCatchmentAreas == nil && c.PushToken == nil
}

func (s *Service) Update(ctx context.Context, id types.ID, cmd UpdateCommand) error {
	if id == "" || cmd.empty() {
		return ErrBadRequest
	}
	d, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if cmd.FirstName != nil {
		d.FirstName = *cmd.FirstName
	}
	if cmd.LastName != nil {
		d.LastName = *cmd.LastName
	}
	if cmd.PhoneNumber != nil {
		if !types.ValidPhoneNumber(*cmd.PhoneNumber) {
			return ErrBadRequest
		}
		d.PhoneNumber = *cmd.PhoneNumber
	}
	if cmd.VehicleType != nil {
		if !types.ValidVehicleType(*cmd.VehicleType) {
			return ErrBadRequest
		}
		d.VehicleType = *cmd.VehicleType
	}
	if cmd.IsAvailable != nil {
		d.IsAvailable = *cmd.IsAvailable
	}
	if cmd.AssignedCatchmentAreas != nil {
		locations, err := s.areas.Locations(ctx, cmd.AssignedCatchmentAreas)
		if err != nil {
			return err
		}
		fallback, ok := geo.Midpoint(locations)
		if !ok {
			return ErrBadRequest
		}
		d.AssignedCatchmentAreas = cmd.AssignedCatchmentAreas
		d.FallbackLocation = &fallback
	}
	if cmd.PushToken != nil {
		d.PushToken = cmd.PushToken
	}
	return s.store.Update(ctx, d)
}

func (s *Service) Delete(ctx context.Context, id types.ID) error {
	if id == "" {
		return ErrBadRequest
	}
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	active, err := s.store.HasActiveRides(ctx, id)
	if err != nil {
		return err
	}
	if active {
		return ErrHasActiveRides
	}
	return s.store.Delete(ctx, id)
}

type LocationReport struct {
	Location  types.Point
	Source    string
	Accuracy  *float64
	Immediate bool
	Timestamp *time.Time
}

type LocationResult struct {
	IsSignificantUpdate bool      `json:"isSignificantUpdate"`
	FreshUntil          time.Time `json:"freshUntil"`
}

// ReportLocation records a position report. The driver row is always updated;
// the append-only history log only receives entries for significant movement
// or explicitly requested immediate updates.
func (s *Service) ReportLocation(ctx context.Context, id types.ID, report LocationReport) (LocationResult, error) {
	d, err := s.store.Get(ctx, id)
	if err != nil {
		return LocationResult{}, err
	}

	at := time.Now()
	if report.Timestamp != nil {
		at = *report.Timestamp
	}
	source := report.Source
	if source == "" {
		source = SourceGPS
	}
	expiresAt := at.Add(FreshnessTTL(d.IsAvailable))

	if err := s.store.UpdateLocation(ctx, id, report.Location, at, source, expiresAt); err != nil {
		return LocationResult{}, err
	}

	significant := report.Immediate || SignificantMove(d.LastKnownLocation, report.Location, d.IsAvailable)
	if significant {
		if err := s.store.AppendLocationHistory(ctx, id, report.Location, at, source, report.Accuracy); err != nil {
			s.logger.Warn("failed to append driver location history",
				slog.String("driver_id", string(id)), slog.Any("error", err))
		}
	}
	return LocationResult{IsSignificantUpdate: significant, FreshUntil: expiresAt}, nil
}

// RequestLocationUpdate nudges a driver's device to report its position now.
// Delivery is best effort.
func (s *Service) RequestLocationUpdate(ctx context.Context, id types.ID) error {
	d, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if d.PushToken == nil {
		return ErrNoPushToken
	}
	msg := notify.Message{
		Type:     notify.TypeLocationUpdate,
		Priority: notify.PriorityHigh,
		Data:     map[string]string{"driverId": string(id)},
	}
	if err := s.notifier.Send(ctx, *d.PushToken, msg); err != nil {
		s.logger.Warn("location update nudge failed",
			slog.String("driver_id", string(id)), slog.Any("error", err))
	}
	return nil
}
