// README: hospital registry service.
package hospital

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"ummana/internal/types"
)

var (
	ErrBadRequest        = errors.New("missing or invalid hospital fields")
	ErrNotFound          = errors.New("hospital not found")
	ErrDuplicateLocation = errors.New("a hospital is already registered at this location")
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

type RegisterCommand struct {
	Name         string
	FacilityType string
	Location     types.Point
	Capabilities Capabilities
}

func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (types.ID, error) {
	if cmd.Name == "" {
		return "", ErrBadRequest
	}
	nearby, err := s.store.ExistsNearby(ctx, cmd.Location, "")
	if err != nil {
		return "", err
	}
	if nearby {
		return "", ErrDuplicateLocation
	}

	h := &Hospital{
		ID:           types.ID(uuid.NewString()),
		Name:         cmd.Name,
		FacilityType: cmd.FacilityType,
		Location:     cmd.Location,
		Capabilities: cmd.Capabilities,
		CreatedAt:    time.Now(),
	}
	if err := s.store.Create(ctx, h); err != nil {
		return "", err
	}
	return h.ID, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Hospital, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Hospital, error) {
	return s.store.List(ctx)
}

type UpdateCommand struct {
	Name         *string
	FacilityType *string
	Location     *types.Point
	Capabilities *Capabilities
}

func (c UpdateCommand) empty() bool {
	return c.Name == nil && c.FacilityType == nil && c.Location == nil && c.Capabilities == nil
}

func (s *Service) Update(ctx context.Context, id types.ID, cmd UpdateCommand) error {
	if id == "" || cmd.empty() {
		return ErrBadRequest
	}
	h, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if cmd.Name != nil {
		h.Name = *cmd.Name
	}
	if cmd.FacilityType != nil {
		h.FacilityType = *cmd.FacilityType
	}
	if cmd.Location != nil {
		nearby, err := s.store.ExistsNearby(ctx, *cmd.Location, id)
		if err != nil {
			return err
		}
		if nearby {
			return ErrDuplicateLocation
		}
		h.Location = *cmd.Location
	}
	if cmd.Capabilities != nil {
		h.Capabilities = *cmd.Capabilities
	}
	return s.store.Update(ctx, h)
}

func (s *Service) Delete(ctx context.Context, id types.ID) error {
	if id == "" {
		return ErrBadRequest
	}
	return s.store.Delete(ctx, id)
}
