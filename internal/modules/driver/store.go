// README: ETS driver store backed by PostgreSQL.
package driver

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ummana/internal/types"
)

const driverColumns = `id, first_name, last_name, phone_number, vehicle_type, is_available,
	last_lat, last_lng, last_location_at, is_location_fresh, location_source, location_expires_at,
	fallback_lat, fallback_lng, assigned_catchment_areas, push_token, current_ride_id, created_at`

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, d *Driver) error {
	lat, lng := pointCols(d.LastKnownLocation)
	fbLat, fbLng := pointCols(d.FallbackLocation)
	_, err := s.db.Exec(ctx, `
		INSERT INTO ets_drivers (`+driverColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		string(d.ID), d.FirstName, d.LastName, d.PhoneNumber, string(d.VehicleType), d.IsAvailable,
		lat, lng, d.LastLocationTimestamp, d.IsLocationFresh, nullIfEmpty(d.LocationSource), d.LocationExpiresAt,
		fbLat, fbLng, idsToStrings(d.AssignedCatchmentAreas), d.PushToken, idOrNil(d.CurrentRideID), d.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Driver, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+driverColumns+` FROM ets_drivers WHERE id = $1`, string(id))
	return scanDriver(row)
}

// GetMany preserves no particular order; callers re-sort as needed.
func (s *Store) GetMany(ctx context.Context, ids []types.ID) ([]Driver, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+driverColumns+` FROM ets_drivers WHERE id = ANY($1)`, idsToStrings(ids))
	if err != nil {
		return nil, err
	}
	return collectDrivers(rows)
}

func (s *Store) List(ctx context.Context) ([]Driver, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+driverColumns+` FROM ets_drivers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectDrivers(rows)
}

// Available returns drivers eligible for candidate selection.
func (s *Store) Available(ctx context.Context) ([]Driver, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+driverColumns+` FROM ets_drivers WHERE is_available = TRUE`)
	if err != nil {
		return nil, err
	}
	return collectDrivers(rows)
}

func (s *Store) GetByPhone(ctx context.Context, phoneNumber string) (*Driver, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+driverColumns+` FROM ets_drivers WHERE phone_number = $1 LIMIT 1`, phoneNumber)
	return scanDriver(row)
}

func (s *Store) PhoneExists(ctx context.Context, phoneNumber string) (bool, error) {
	row := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM ets_drivers WHERE phone_number = $1)`, phoneNumber)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

func (s *Store) Update(ctx context.Context, d *Driver) error {
	lat, lng := pointCols(d.LastKnownLocation)
	fbLat, fbLng := pointCols(d.FallbackLocation)
	tag, err := s.db.Exec(ctx, `
		UPDATE ets_drivers
		SET first_name = $1, last_name = $2, phone_number = $3, vehicle_type = $4, is_available = $5,
		    last_lat = $6, last_lng = $7, last_location_at = $8, is_location_fresh = $9,
		    location_source = $10, location_expires_at = $11, fallback_lat = $12, fallback_lng = $13,
		    assigned_catchment_areas = $14, push_token = $15, current_ride_id = $16
		WHERE id = $17`,
		d.FirstName, d.LastName, d.PhoneNumber, string(d.VehicleType), d.IsAvailable,
		lat, lng, d.LastLocationTimestamp, d.IsLocationFresh,
		nullIfEmpty(d.LocationSource), d.LocationExpiresAt, fbLat, fbLng,
		idsToStrings(d.AssignedCatchmentAreas), d.PushToken, idOrNil(d.CurrentRideID), string(d.ID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateLocation touches only the position columns so it cannot race with
// availability or assignment updates on the rest of the row.
func (s *Store) UpdateLocation(ctx context.Context, id types.ID, loc types.Point, at time.Time, source string, expiresAt time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE ets_drivers
		SET last_lat = $1, last_lng = $2, last_location_at = $3,
		    is_location_fresh = TRUE, location_source = $4, location_expires_at = $5
		WHERE id = $6`,
		loc.Lat, loc.Lng, at, source, expiresAt, string(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) AppendLocationHistory(ctx context.Context, id types.ID, loc types.Point, at time.Time, source string, accuracy *float64) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO driver_location_history (driver_id, lat, lng, source, accuracy, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		string(id), loc.Lat, loc.Lng, source, accuracy, at,
	)
	return err
}

// SetCurrentRide assigns or clears (nil) the driver's active ride reference.
func (s *Store) SetCurrentRide(ctx context.Context, id types.ID, rideID *types.ID) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE ets_drivers SET current_ride_id = $1 WHERE id = $2`,
		idOrNil(rideID), string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id types.ID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM ets_drivers WHERE id = $1`, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// HasActiveRides reports whether the driver is assigned to any ride still in
// flight. Candidate membership alone does not count.
func (s *Store) HasActiveRides(ctx context.Context, id types.ID) (bool, error) {
	row := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM ride_requests
			WHERE accepted_by = $1
			  AND status NOT IN ('completed', 'cancelled')
		)`, string(id),
	)
	var active bool
	err := row.Scan(&active)
	return active, err
}

func pointCols(p *types.Point) (*float64, *float64) {
	if p == nil {
		return nil, nil
	}
	return &p.Lat, &p.Lng
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func idOrNil(id *types.ID) *string {
	if id == nil {
		return nil
	}
	v := string(*id)
	return &v
}

func idsToStrings(ids []types.ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func stringsToIDs(raw []string) []types.ID {
	out := make([]types.ID, len(raw))
	for i, s := range raw {
		out[i] = types.ID(s)
	}
	return out
}

func scanDriver(row pgx.Row) (*Driver, error) {
	d, err := scanDriverFields(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return d, err
}

func collectDrivers(rows pgx.Rows) ([]Driver, error) {
	defer rows.Close()
	out := []Driver{}
	for rows.Next() {
		d, err := scanDriverFields(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func scanDriverFields(row pgx.Row) (*Driver, error) {
	var d Driver
	var vehicle string
	var lat, lng, fbLat, fbLng *float64
	var source *string
	var areaIDs []string
	var rideID *string
	err := row.Scan(&d.ID, &d.FirstName, &d.LastName, &d.PhoneNumber, &vehicle, &d.IsAvailable,
		&lat, &lng, &d.LastLocationTimestamp, &d.IsLocationFresh, &source, &d.LocationExpiresAt,
		&fbLat, &fbLng, &areaIDs, &d.PushToken, &rideID, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	d.VehicleType = types.VehicleType(vehicle)
	if lat != nil && lng != nil {
		d.LastKnownLocation = &types.Point{Lat: *lat, Lng: *lng}
	}
	if fbLat != nil && fbLng != nil {
		d.FallbackLocation = &types.Point{Lat: *fbLat, Lng: *fbLng}
	}
	if source != nil {
		d.LocationSource = *source
	}
	d.AssignedCatchmentAreas = stringsToIDs(areaIDs)
	if rideID != nil {
		id := types.ID(*rideID)
		d.CurrentRideID = &id
	}
	return &d, nil
}
