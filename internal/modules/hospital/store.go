// README: hospital store backed by PostgreSQL.
package hospital

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ummana/internal/types"
)

// proximityDeg is roughly 100 m in latitude/longitude at Nigerian latitudes;
// two facilities inside this box are treated as the same physical site.
const proximityDeg = 0.001

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, h *Hospital) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO hospitals (id, name, facility_type, lat, lng, capabilities, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(h.ID), h.Name, h.FacilityType, h.Location.Lat, h.Location.Lng,
		h.Capabilities, h.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Hospital, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, facility_type, lat, lng, capabilities, created_at, updated_at
		FROM hospitals WHERE id = $1`, string(id),
	)
	return scanHospital(row)
}

func (s *Store) List(ctx context.Context) ([]Hospital, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, facility_type, lat, lng, capabilities, created_at, updated_at
		FROM hospitals ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Hospital{}
	for rows.Next() {
		h, err := scanHospital(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	return out, rows.Err()
}

// ExistsNearby reports whether another hospital already sits at effectively
// the same coordinate.
func (s *Store) ExistsNearby(ctx context.Context, loc types.Point, excludeID types.ID) (bool, error) {
	row := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM hospitals
			WHERE abs(lat - $1) < $3 AND abs(lng - $2) < $3 AND id <> $4
		)`, loc.Lat, loc.Lng, proximityDeg, string(excludeID),
	)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

func (s *Store) Update(ctx context.Context, h *Hospital) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE hospitals
		SET name = $1, facility_type = $2, lat = $3, lng = $4, capabilities = $5, updated_at = now()
		WHERE id = $6`,
		h.Name, h.FacilityType, h.Location.Lat, h.Location.Lng, h.Capabilities, string(h.ID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id types.ID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM hospitals WHERE id = $1`, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanHospital(row pgx.Row) (*Hospital, error) {
	var h Hospital
	err := row.Scan(&h.ID, &h.Name, &h.FacilityType, &h.Location.Lat, &h.Location.Lng,
		&h.Capabilities, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}
