// README: CHIPS agent service (registration, patch updates, deletion guards).
package agent

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"ummana/internal/types"
)

var (
	ErrBadRequest     = errors.New("missing or invalid agent fields")
	ErrNotFound       = errors.New("CHIPS agent not found")
	ErrDuplicatePhone = errors.New("CHIPS agent with this phone number already exists")
	ErrHasActiveRides = errors.New("cannot delete CHIPS agent with active ride requests")
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

type RegisterCommand struct {
	FirstName        string
	LastName         string
	PhoneNumber      string
	CatchmentAreaIDs []types.ID
}

func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (types.ID, error) {
	if cmd.FirstName == "" || cmd.LastName == "" || len(cmd.CatchmentAreaIDs) == 0 {
		return "", ErrBadRequest
	}
	if !types.ValidPhoneNumber(cmd.PhoneNumber) {
		return "", ErrBadRequest
	}
	exists, err := s.store.PhoneExists(ctx, cmd.PhoneNumber)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrDuplicatePhone
	}

	a := &Agent{
		ID:               types.ID(uuid.NewString()),
		FirstName:        cmd.FirstName,
		LastName:         cmd.LastName,
		PhoneNumber:      cmd.PhoneNumber,
		Username:         Username(cmd.FirstName, cmd.LastName),
		CatchmentAreaIDs: cmd.CatchmentAreaIDs,
		CreatedAt:        time.Now(),
	}
	if err := s.store.Create(ctx, a); err != nil {
		return "", err
	}
	return a.ID, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Agent, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) GetByCredentials(ctx context.Context, phoneNumber, username string) (*Agent, error) {
	return s.store.GetByCredentials(ctx, phoneNumber, username)
}

func (s *Service) List(ctx context.Context) ([]Agent, error) {
	return s.store.List(ctx)
}

// UpdateCommand is a partial update; nil fields are left untouched.
type UpdateCommand struct {
	FirstName        *string
	LastName         *string
	PhoneNumber      *string
	CatchmentAreaIDs []types.ID
	PushToken        *string
}

func (c UpdateCommand) empty() bool {
	return c.FirstName == nil && c.LastName == nil && c.PhoneNumber == nil &&
		c.CatchmentAreaIDs == nil && c.PushToken == nil
}

func (s *Service) Update(ctx context.Context, id types.ID, cmd UpdateCommand) error {
	if id == "" || cmd.empty() {
		return ErrBadRequest
	}
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if cmd.FirstName != nil {
		a.FirstName = *cmd.FirstName
	}
	if cmd.LastName != nil {
		a.LastName = *cmd.LastName
	}
	if cmd.PhoneNumber != nil {
		if !types.ValidPhoneNumber(*cmd.PhoneNumber) {
			return ErrBadRequest
		}
		a.PhoneNumber = *cmd.PhoneNumber
	}
	if cmd.CatchmentAreaIDs != nil {
		a.CatchmentAreaIDs = cmd.CatchmentAreaIDs
	}
	if cmd.PushToken != nil {
		a.PushToken = cmd.PushToken
	}
	return s.store.Update(ctx, a)
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

// Username derives the login name used by the dev auth flow.
func Username(firstName, lastName string) string {
	return strings.ToLower(firstName) + "_" + strings.ToLower(lastName)
}
