// README: Catchment area store backed by PostgreSQL.
package area

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ummana/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, a *Area) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO catchment_areas (id, name, settlement, ward, lga, lat, lng, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		string(a.ID), a.Name, a.Settlement, a.Ward, a.LGA,
		a.Location.Lat, a.Location.Lng, a.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Area, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, settlement, ward, lga, lat, lng, created_at, updated_at
		FROM catchment_areas WHERE id = $1`, string(id),
	)
	return scanArea(row)
}

// GetMany returns the areas for the given ids, skipping unknown ids.
func (s *Store) GetMany(ctx context.Context, ids []types.ID) ([]Area, error) {
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = string(id)
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, name, settlement, ward, lga, lat, lng, created_at, updated_at
		FROM catchment_areas WHERE id = ANY($1)`, raw,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAreas(rows)
}

func (s *Store) List(ctx context.Context) ([]Area, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, settlement, ward, lga, lat, lng, created_at, updated_at
		FROM catchment_areas ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAreas(rows)
}

// ExistsDuplicate reports whether another area shares name/ward/lga. excludeID
// may be empty (create path) or the area being updated.
func (s *Store) ExistsDuplicate(ctx context.Context, name, ward, lga string, excludeID types.ID) (bool, error) {
	row := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM catchment_areas
			WHERE name = $1 AND ward = $2 AND lga = $3 AND id <> $4
		)`, name, ward, lga, string(excludeID),
	)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

func (s *Store) Update(ctx context.Context, a *Area) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE catchment_areas
		SET name = $1, settlement = $2, ward = $3, lga = $4, lat = $5, lng = $6, updated_at = $7
		WHERE id = $8`,
		a.Name, a.Settlement, a.Ward, a.LGA, a.Location.Lat, a.Location.Lng, time.Now(), string(a.ID),
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
	tag, err := s.db.Exec(ctx, `DELETE FROM catchment_areas WHERE id = $1`, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// InUse reports whether any agent or driver still references the area.
func (s *Store) InUse(ctx context.Context, id types.ID) (bool, error) {
	row := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM chips_agents WHERE $1 = ANY(catchment_area_ids))
		    OR EXISTS (SELECT 1 FROM ets_drivers WHERE $1 = ANY(assigned_catchment_areas))`,
		string(id),
	)
	var used bool
	err := row.Scan(&used)
	return used, err
}

func scanArea(row pgx.Row) (*Area, error) {
	var a Area
	var updatedAt *time.Time
	err := row.Scan(&a.ID, &a.Name, &a.Settlement, &a.Ward, &a.LGA,
		&a.Location.Lat, &a.Location.Lng, &a.CreatedAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	a.UpdatedAt = updatedAt
	return &a, nil
}

func collectAreas(rows pgx.Rows) ([]Area, error) {
	out := []Area{}
	for rows.Next() {
		var a Area
		var updatedAt *time.Time
		if err := rows.Scan(&a.ID, &a.Name, &a.Settlement, &a.Ward, &a.LGA,
			&a.Location.Lat, &a.Location.Lng, &a.CreatedAt, &updatedAt); err != nil {
			return nil, err
		}
		a.UpdatedAt = updatedAt
		out = append(out, a)
	}
	return out, rows.Err()
}
