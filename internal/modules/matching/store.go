// README: Redis-backed dispatch bookkeeping.
package matching

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"ummana/internal/types"
)

// Store keeps the transient dispatch state that does not belong in the ride
// document: pending-location flags and per-ride notification fan-out records.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func pendingKey(driverID types.ID) string { return "dispatch:pending-location:" + string(driverID) }
func notifiedKey(rideID types.ID) string  { return "dispatch:notified:" + string(rideID) }
func dispatchedKey(rideID types.ID) string {
	return "dispatch:dispatched-at:" + string(rideID)
}

// MarkPendingLocation flags a driver as owing an immediate location report.
// The flag expires on its own; an update that never arrives is not an error.
func (s *Store) MarkPendingLocation(ctx context.Context, driverID types.ID, ttl time.Duration) error {
	return s.rdb.Set(ctx, pendingKey(driverID), 1, ttl).Err()
}

func (s *Store) PendingLocation(ctx context.Context, driverID types.ID) (bool, error) {
	n, err := s.rdb.Exists(ctx, pendingKey(driverID)).Result()
	return n > 0, err
}

func (s *Store) ClearPendingLocation(ctx context.Context, driverID types.ID) error {
	return s.rdb.Del(ctx, pendingKey(driverID)).Err()
}

// RecordNotified remembers which candidates received the ride offer.
func (s *Store) RecordNotified(ctx context.Context, rideID types.ID, driverIDs []types.ID) error {
	if len(driverIDs) == 0 {
		return nil
	}
	members := make([]interface{}, len(driverIDs))
	for i, id := range driverIDs {
		members[i] = string(id)
	}
	pipe := s.rdb.Pipeline()
	pipe.SAdd(ctx, notifiedKey(rideID), members...)
	pipe.Expire(ctx, notifiedKey(rideID), 24*time.Hour)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) Notified(ctx context.Context, rideID types.ID) ([]types.ID, error) {
	raw, err := s.rdb.SMembers(ctx, notifiedKey(rideID)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]types.ID, len(raw))
	for i, v := range raw {
		out[i] = types.ID(v)
	}
	return out, nil
}

// SetDispatchedAt records when the offer fan-out happened, for latency checks.
func (s *Store) SetDispatchedAt(ctx context.Context, rideID types.ID, at time.Time) error {
	return s.rdb.Set(ctx, dispatchedKey(rideID), at.UnixMilli(), 24*time.Hour).Err()
}

func (s *Store) DispatchedAt(ctx context.Context, rideID types.ID) (time.Time, bool, error) {
	ms, err := s.rdb.Get(ctx, dispatchedKey(rideID)).Int64()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return time.UnixMilli(ms), true, nil
}
