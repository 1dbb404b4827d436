package credential

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps transport-level Redis failures so callers can
// distinguish "store unreachable" from "record absent".
var ErrRedisUnavailable = errors.New("redis unavailable")

// RedisStore persists the credential record as two Redis keys under a common
// prefix. The pair is written and deleted transactionally so readers never
// observe one key without the other; a half-written pair left by an external
// writer still normalizes to absent on Load.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisStore creates a store backed by the given Redis client. prefix sets
// the key namespace; an empty prefix defaults to "lsc".
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "lsc"
	}
	return &RedisStore{
		redis:  client,
		prefix: prefix,
	}
}

func (s *RedisStore) tokenKey() string {
	return s.prefix + ":token"
}

func (s *RedisStore) principalKey() string {
	return s.prefix + ":principal"
}

// Load fetches both keys in one MGET. A pair with either value missing or
// empty returns [ErrNotFound].
func (s *RedisStore) Load(ctx context.Context) (Record, error) {
	vals, err := s.redis.MGet(ctx, s.tokenKey(), s.principalKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(vals) != 2 {
		return Record{}, fmt.Errorf("%w: unexpected MGET reply length %d", ErrRedisUnavailable, len(vals))
	}

	rec := Record{
		Token:     stringValue(vals[0]),
		Principal: stringValue(vals[1]),
	}
	if !rec.Present() {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// Save writes both keys in one transaction.
func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.tokenKey(), rec.Token, 0)
		pipe.Set(ctx, s.principalKey(), rec.Principal, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Delete removes both keys in one transaction. Deleting absent keys is a
// no-op.
func (s *RedisStore) Delete(ctx context.Context) error {
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.tokenKey(), s.principalKey())
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Ping returns a point-in-time Redis availability check.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return ""
	}
}
