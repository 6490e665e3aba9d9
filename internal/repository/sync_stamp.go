package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSyncStamp stores the time of the last successful reservation sync
// under a single Redis key, so every instance reports the same value.
type RedisSyncStamp struct {
	RDB *redis.Client
	Key string
}

func NewRedisSyncStamp(rdb *redis.Client, key string) *RedisSyncStamp {
	if key == "" {
		key = "pos:reservations:last_sync"
	}
	return &RedisSyncStamp{RDB: rdb, Key: key}
}

// Load returns the stored stamp; ok is false when none was saved yet.
func (s *RedisSyncStamp) Load(ctx context.Context) (time.Time, bool, error) {
	v, err := s.RDB.Get(ctx, s.Key).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// Save overwrites the stamp.
func (s *RedisSyncStamp) Save(ctx context.Context, t time.Time) error {
	return s.RDB.Set(ctx, s.Key, t.UTC().Format(time.RFC3339Nano), 0).Err()
}
