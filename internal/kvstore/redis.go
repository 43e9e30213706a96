package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// compareAndSwapScript swaps the value only while the decoded document's
// field still holds the expected string.
// Returns 1 swapped, 0 field mismatch, -1 missing key, -2 malformed value.
var compareAndSwapScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if not current then
    return -1
end

local ok, doc = pcall(cjson.decode, current)
if not ok or type(doc) ~= 'table' then
    return -2
end

if doc[ARGV[1]] ~= ARGV[2] then
    return 0
end

redis.call('SET', KEYS[1], ARGV[3])
return 1
`)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) SetNX(ctx context.Context, key string, value []byte) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, value, 0).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

func (s *RedisStore) CompareAndSwap(ctx context.Context, key, field, expected string, value []byte) (bool, error) {
	result, err := compareAndSwapScript.Run(ctx, s.client, []string{key}, field, expected, value).Int64()
	if err != nil {
		return false, fmt.Errorf("redis compare and swap: %w", err)
	}

	switch result {
	case 1:
		return true, nil
	case 0:
		return false, nil
	case -1:
		return false, ErrNotFound
	case -2:
		return false, ErrMalformed
	default:
		return false, fmt.Errorf("redis compare and swap: unexpected result %d", result)
	}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
