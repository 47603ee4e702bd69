// README: Catchment area service (registration, updates, referential guards).
package area

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"ummana/internal/types"
)

var (
	ErrBadRequest = errors.New("missing or invalid catchment area fields")
	ErrNotFound   = errors.New("catchment area not found")
	ErrDuplicate  = errors.New("catchment area with this name/ward/lga already exists")
	ErrInUse      = errors.New("catchment area is in use by CHIPS agents or ETS drivers")
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

type RegisterCommand struct {
	Name       string
	Settlement string
	Ward       string
	LGA        string
	Location   types.Point
}

func (c RegisterCommand) valid() bool {
	return c.Name != "" && c.Settlement != "" && c.Ward != "" && c.LGA != ""
}

func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (types.ID, error) {
	if !cmd.valid() {
		return "", ErrBadRequest
	}
	dup, err := s.store.ExistsDuplicate(ctx, cmd.Name, cmd.Ward, cmd.LGA, "")
	if err != nil {
		return "", err
	}
	if dup {
		return "", ErrDuplicate
	}
	a := &Area{
		ID:         types.ID(uuid.NewString()),
		Name:       cmd.Name,
		Settlement: cmd.Settlement,
		Ward:       cmd.Ward,
		LGA:        cmd.LGA,
		Location:   cmd.Location,
		CreatedAt:  time.Now(),
	}
	if err := s.store.Create(ctx, a); err != nil {
		return "", err
	}
	return a.ID, nil
}

func (s *Service) List(ctx context.Context) ([]Area, error) {
	return s.store.List(ctx)
}

func (s *Service) Update(ctx context.Context, id types.ID, cmd RegisterCommand) error {
	if id == "" || !cmd.valid() {
		return ErrBadRequest
	}
	dup, err := s.store.ExistsDuplicate(ctx, cmd.Name, cmd.Ward, cmd.LGA, id)
	if err != nil {
		return err
	}
	if dup {
		return ErrDuplicate
	}
	return s.store.Update(ctx, &Area{
		ID:         id,
		Name:       cmd.Name,
		Settlement: cmd.Settlement,
		Ward:       cmd.Ward,
		LGA:        cmd.LGA,
		Location:   cmd.Location,
	})
}

func (s *Service) Delete(ctx context.Context, id types.ID) error {
	if id == "" {
		return ErrBadRequest
	}
	used, err := s.store.InUse(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return ErrInUse
	}
	return s.store.Delete(ctx, id)
}

// Locations resolves the coordinates for the given area ids. Unknown ids are
// skipped; callers decide whether an empty result is an error.
func (s *Service) Locations(ctx context.Context, ids []types.ID) ([]types.Point, error) {
	areas, err := s.store.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	points := make([]types.Point, 0, len(areas))
	for _, a := range areas {
		points = append(points, a.Location)
	}
	return points, nil
}
