package presence

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "presence:"

// Store keeps per-user online flags in Redis with a TTL, so a crashed
// instance's users expire to offline without any cleanup pass.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

func (s *Store) SetOnline(ctx context.Context, userID string) error {
	return s.client.Set(ctx, keyPrefix+userID, "1", s.ttl).Err()
}

func (s *Store) SetOffline(ctx context.Context, userID string) error {
	return s.client.Del(ctx, keyPrefix+userID).Err()
}

// IsOnline checks the shared directory. A missing key means offline.
func (s *Store) IsOnline(ctx context.Context, userID string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+userID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
