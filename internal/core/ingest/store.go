package ingest

import (
	"context"
	"errors"
	"fmt"

	redisv8 "github.com/go-redis/redis/v8"

	rds "civicscan/internal/platform/redis"
)

// ErrNotFound is returned when no job exists for an id.
var ErrNotFound = errors.New("job not found")

// Store persists one durable record per job. Writes are full-record
// read-modify-write keyed by job id; List returns jobs newest-first by
// last modification.
type Store interface {
	Save(ctx context.Context, job *Job) error
	Get(ctx context.Context, id string) (*Job, error)
	List(ctx context.Context) ([]*Job, error)
}

const (
	jobKeyPrefix = "ingest:job:"
	jobIndexKey  = "ingest:jobs:index"
)

// RedisStore keeps job records as JSON documents without TTL (retention is
// an external concern) plus a ZSET index scored by updated-at for ordering.
type RedisStore struct{ redis *rds.Service }

func NewRedisStore(redis *rds.Service) *RedisStore { return &RedisStore{redis: redis} }

func (s *RedisStore) Save(ctx context.Context, job *Job) error {
	if err := s.redis.SetJSON(ctx, jobKeyPrefix+job.ID, job, 0); err != nil {
		return fmt.Errorf("save job %s: %w", job.ID, err)
	}
	score := float64(job.UpdatedAt.UnixMilli())
	return s.redis.Client().ZAdd(ctx, jobIndexKey, &redisv8.Z{Score: score, Member: job.ID}).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Job, error) {
	var job Job
	if err := s.redis.GetJSON(ctx, jobKeyPrefix+id, &job); err != nil {
		if errors.Is(err, redisv8.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (s *RedisStore) List(ctx context.Context) ([]*Job, error) {
	ids, err := s.redis.Client().ZRevRange(ctx, jobIndexKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	jobs := make([]*Job, 0, len(ids))
	for _, id := range ids {
		job, err := s.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
