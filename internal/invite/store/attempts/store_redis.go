package attempts

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"skyparty/internal/invite/models"
)

const (
	fieldCount       = "count"
	fieldLastAttempt = "last_attempt_at"
	fieldEmail       = "email"
	fieldQuestion    = "question"
)

// RedisAttemptStore keeps one hash per (email, question). With a ttl the key
// expires after ttl without failures, which restarts the count at 1.
//
// Redis does not take part in SQL transactions: a failure recorded inside a
// transaction that later rolls back stays counted.
type RedisAttemptStore struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *RedisAttemptStore {
	return &RedisAttemptStore{client: client}
}

func (s *RedisAttemptStore) RecordFailure(ctx context.Context, email, question string, now time.Time, ttl time.Duration) (*models.AttemptRecord, error) {
	key := models.NewAttemptKey(email, question).String()

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.HIncrBy(ctx, key, fieldCount, 1)
		pipe.HSet(ctx, key,
			fieldLastAttempt, now.UnixMilli(),
			fieldEmail, email,
			fieldQuestion, question,
		)
		if ttl > 0 {
			pipe.PExpire(ctx, key, ttl)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record failed attempt: %w", err)
	}
	return &models.AttemptRecord{
		Email:         email,
		Question:      question,
		Count:         int(incr.Val()),
		LastAttemptAt: time.UnixMilli(now.UnixMilli()).UTC(),
	}, nil
}

func (s *RedisAttemptStore) Reset(ctx context.Context, email, question string) error {
	if err := s.client.Del(ctx, models.NewAttemptKey(email, question).String()).Err(); err != nil {
		return fmt.Errorf("reset attempts: %w", err)
	}
	return nil
}

func (s *RedisAttemptStore) Get(ctx context.Context, email, question string) (*models.AttemptRecord, error) {
	fields, err := s.client.HGetAll(ctx, models.NewAttemptKey(email, question).String()).Result()
	if err != nil {
		return nil, fmt.Errorf("get attempts: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	count, err := strconv.Atoi(fields[fieldCount])
	if err != nil {
		return nil, fmt.Errorf("parse attempt count: %w", err)
	}
	millis, err := strconv.ParseInt(fields[fieldLastAttempt], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse last attempt: %w", err)
	}
	return &models.AttemptRecord{
		Email:         email,
		Question:      question,
		Count:         count,
		LastAttemptAt: time.UnixMilli(millis).UTC(),
	}, nil
}
