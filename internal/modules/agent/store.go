// README: CHIPS agent store backed by PostgreSQL.
package agent

import (
	"context"
	"errors"

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

func (s *Store) Create(ctx context.Context, a *Agent) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO chips_agents (id, first_name, last_name, phone_number, username, catchment_area_ids, push_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		string(a.ID), a.FirstName, a.LastName, a.PhoneNumber, a.Username,
		idsToStrings(a.CatchmentAreaIDs), a.PushToken, a.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Agent, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, first_name, last_name, phone_number, username, catchment_area_ids, push_token, created_at
		FROM chips_agents WHERE id = $1`, string(id),
	)
	return scanAgent(row)
}

func (s *Store) GetByCredentials(ctx context.Context, phoneNumber, username string) (*Agent, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, first_name, last_name, phone_number, username, catchment_area_ids, push_token, created_at
		FROM chips_agents WHERE phone_number = $1 AND username = $2 LIMIT 1`,
		phoneNumber, username,
	)
	return scanAgent(row)
}

func (s *Store) List(ctx context.Context) ([]Agent, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, first_name, last_name, phone_number, username, catchment_area_ids, push_token, created_at
		FROM chips_agents ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Agent{}
	for rows.Next() {
		a, err := scanAgentRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (s *Store) PhoneExists(ctx context.Context, phoneNumber string) (bool, error) {
	row := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM chips_agents WHERE phone_number = $1)`, phoneNumber)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

func (s *Store) Update(ctx context.Context, a *Agent) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE chips_agents
		SET first_name = $1, last_name = $2, phone_number = $3, username = $4,
		    catchment_area_ids = $5, push_token = $6
		WHERE id = $7`,
		a.FirstName, a.LastName, a.PhoneNumber, a.Username,
		idsToStrings(a.CatchmentAreaIDs), a.PushToken, string(a.ID),
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
	tag, err := s.db.Exec(ctx, `DELETE FROM chips_agents WHERE id = $1`, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// HasActiveRides reports whether the agent originated any ride that is still
// in flight.
func (s *Store) HasActiveRides(ctx context.Context, id types.ID) (bool, error) {
	row := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM ride_requests
			WHERE chips_agent_id = $1
			  AND status NOT IN ('completed', 'cancelled')
		)`, string(id),
	)
	var active bool
	err := row.Scan(&active)
	return active, err
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

func scanAgent(row pgx.Row) (*Agent, error) {
	var a Agent
	var areaIDs []string
	err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.PhoneNumber, &a.Username,
		&areaIDs, &a.PushToken, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	a.CatchmentAreaIDs = stringsToIDs(areaIDs)
	return &a, nil
}

func scanAgentRow(rows pgx.Rows) (*Agent, error) {
	var a Agent
	var areaIDs []string
	if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.PhoneNumber, &a.Username,
		&areaIDs, &a.PushToken, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.CatchmentAreaIDs = stringsToIDs(areaIDs)
	return &a, nil
}
