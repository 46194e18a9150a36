package registry

import (
	"context"
	"encoding/json"

	rds "civicscan/internal/platform/redis"
)

const (
	approvedKeyPrefix = "approved:"
	dedupKeyPrefix    = "approved:dedup:"
)

// RedisStore backs each kind's sequence with a redis list. RPUSH is a single
// durable write, which gives the per-call append atomicity the moderation
// path relies on.
type RedisStore struct{ redis *rds.Service }

func NewRedisStore(redis *rds.Service) *RedisStore { return &RedisStore{redis: redis} }

func (s *RedisStore) Append(ctx context.Context, kind Kind, line json.RawMessage) error {
	return s.redis.Client().RPush(ctx, approvedKeyPrefix+string(kind), []byte(line)).Err()
}

func (s *RedisStore) AppendOnce(ctx context.Context, kind Kind, dedupKey string, line json.RawMessage) (json.RawMessage, bool, error) {
	key := dedupKeyPrefix + dedupKey
	set, err := s.redis.Client().SetNX(ctx, key, []byte(line), 0).Result()
	if err != nil {
		return nil, false, err
	}
	if !set {
		stored, err := s.redis.Client().Get(ctx, key).Bytes()
		if err != nil {
			return nil, false, err
		}
		return stored, false, nil
	}
	if err := s.Append(ctx, kind, line); err != nil {
		return nil, false, err
	}
	return line, true, nil
}

func (s *RedisStore) List(ctx context.Context, kind Kind) ([]json.RawMessage, error) {
	raw, err := s.redis.Client().LRange(ctx, approvedKeyPrefix+string(kind), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	lines := make([]json.RawMessage, 0, len(raw))
	for _, r := range raw {
		lines = append(lines, json.RawMessage(r))
	}
	return lines, nil
}
