package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each namespace in one Redis hash
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisClient connects to addr and pings it before returning
func NewRedisClient(addr string) (*redis.Client, error) {
	cli := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cli.Ping(ctx).Err(); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return cli, nil
}

// NewRedisStore wraps a connected client
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func hashKey(namespace string) string { return "storage:" + namespace }

func (s *RedisStore) Get(ctx context.Context, namespace, key string) (string, error) {
	v, err := s.rdb.HGet(ctx, hashKey(namespace), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read %s/%s: %w", namespace, key, err)
	}
	return v, nil
}

func (s *RedisStore) Set(ctx context.Context, namespace, key, value string) error {
	if err := s.rdb.HSet(ctx, hashKey(namespace), key, value).Err(); err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, namespace, key string) error {
	if err := s.rdb.HDel(ctx, hashKey(namespace), key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (s *RedisStore) DeleteNamespace(ctx context.Context, namespace string) error {
	if err := s.rdb.Del(ctx, hashKey(namespace)).Err(); err != nil {
		return fmt.Errorf("failed to delete namespace %s: %w", namespace, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
