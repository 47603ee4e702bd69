// README: ride request store backed by PostgreSQL.
package ride

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ummana/internal/types"
)

const rideColumns = `id, chips_agent_id, symptoms, condition, condition_name, confidence,
	pickup_lat, pickup_lng, driver, hospital, status, status_version, emergency_level,
	candidate_drivers, accepted_by, accepted_at, created_at`

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, r *RideRequest) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO ride_requests (`+rideColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		string(r.ID), string(r.ChipsAgentID), r.Symptoms, string(r.Condition), r.ConditionName,
		r.Confidence, r.Pickup.Lat, r.Pickup.Lng, r.Driver, r.Hospital,
		string(r.Status), r.StatusVersion, string(r.EmergencyLevel),
		r.CandidateDrivers, idOrNil(r.AcceptedBy), r.AcceptedAt, r.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*RideRequest, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+rideColumns+` FROM ride_requests WHERE id = $1`, string(id))
	r, err := scanRide(row)
	if err != nil {
		return nil, err
	}
	r.DeclinedDrivers, err = s.declines(ctx, id)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// AcceptCAS resolves the accept race: the transition only lands if the ride is
// still pending, as a single conditional update. A non-nil override replaces
// the provisional driver snapshot in the same statement.
func (s *Store) AcceptCAS(ctx context.Context, id, driverID types.ID, at time.Time, override *DriverAssignment) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE ride_requests
		SET status = $2, status_version = status_version + 1,
		    accepted_by = $3, accepted_at = $4,
		    driver = COALESCE($5, driver)
		WHERE id = $1 AND status = $6`,
		string(id), string(StatusAccepted), string(driverID), at, override, string(StatusPending),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateStatusCAS advances the lifecycle only if the ride is still at the
// expected status and version.
func (s *Store) UpdateStatusCAS(ctx context.Context, id types.ID, from, to Status, fromVersion int) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE ride_requests
		SET status = $2, status_version = status_version + 1
		WHERE id = $1 AND status = $3 AND status_version = $4`,
		string(id), string(to), string(from), fromVersion,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) AppendDecline(ctx context.Context, id, driverID types.ID, at time.Time) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO ride_declines (ride_id, driver_id, declined_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (ride_id, driver_id) DO NOTHING`,
		string(id), string(driverID), at,
	)
	return err
}

func (s *Store) ActiveByAgent(ctx context.Context, agentID types.ID) ([]RideRequest, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+rideColumns+` FROM ride_requests
		WHERE chips_agent_id = $1 AND status NOT IN ('completed', 'cancelled')
		ORDER BY created_at DESC`, string(agentID),
	)
	if err != nil {
		return nil, err
	}
	return collectRides(rows)
}

func (s *Store) HistoryByAgent(ctx context.Context, agentID types.ID) ([]RideRequest, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+rideColumns+` FROM ride_requests
		WHERE chips_agent_id = $1
		ORDER BY created_at DESC`, string(agentID),
	)
	if err != nil {
		return nil, err
	}
	return collectRides(rows)
}

// PendingForDriver lists the latest open offers a driver can still respond to.
func (s *Store) PendingForDriver(ctx context.Context, driverID types.ID) ([]RideRequest, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+rideColumns+` FROM ride_requests r
		WHERE r.status = 'pending'
		  AND r.candidate_drivers @> jsonb_build_array(jsonb_build_object('id', $1::text))
		  AND NOT EXISTS (
			SELECT 1 FROM ride_declines d
			WHERE d.ride_id = r.id AND d.driver_id = $1
		  )
		ORDER BY r.created_at DESC
		LIMIT 10`, string(driverID),
	)
	if err != nil {
		return nil, err
	}
	return collectRides(rows)
}

func (s *Store) HistoryByDriver(ctx context.Context, driverID types.ID) ([]RideRequest, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+rideColumns+` FROM ride_requests
		WHERE accepted_by = $1
		ORDER BY created_at DESC`, string(driverID),
	)
	if err != nil {
		return nil, err
	}
	return collectRides(rows)
}

func (s *Store) ActiveForDriver(ctx context.Context, driverID types.ID) ([]RideRequest, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+rideColumns+` FROM ride_requests
		WHERE accepted_by = $1 AND status NOT IN ('completed', 'cancelled')
		ORDER BY created_at DESC`, string(driverID),
	)
	if err != nil {
		return nil, err
	}
	return collectRides(rows)
}

func (s *Store) declines(ctx context.Context, id types.ID) ([]Decline, error) {
	rows, err := s.db.Query(ctx, `
		SELECT driver_id, declined_at FROM ride_declines
		WHERE ride_id = $1 ORDER BY declined_at`, string(id),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Decline{}
	for rows.Next() {
		var d Decline
		if err := rows.Scan(&d.DriverID, &d.DeclinedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func idOrNil(id *types.ID) *string {
	if id == nil {
		return nil
	}
	v := string(*id)
	return &v
}

func scanRide(row pgx.Row) (*RideRequest, error) {
	var r RideRequest
	var acceptedBy *string
	err := row.Scan(&r.ID, &r.ChipsAgentID, &r.Symptoms, &r.Condition, &r.ConditionName,
		&r.Confidence, &r.Pickup.Lat, &r.Pickup.Lng, &r.Driver, &r.Hospital,
		&r.Status, &r.StatusVersion, &r.EmergencyLevel,
		&r.CandidateDrivers, &acceptedBy, &r.AcceptedAt, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if acceptedBy != nil {
		id := types.ID(*acceptedBy)
		r.AcceptedBy = &id
	}
	return &r, nil
}

func collectRides(rows pgx.Rows) ([]RideRequest, error) {
	defer rows.Close()
	out := []RideRequest{}
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}
