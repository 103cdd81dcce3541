package eia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const contextKeyPrefix = "eia:ctx:"

// RedisContextStore keeps session snapshots in Redis so every replica of the
// server sees the same navigation context.
type RedisContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisContextStore connects to redisURL and verifies the connection.
func NewRedisContextStore(redisURL string, ttl time.Duration) (*RedisContextStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedisContextStoreWithClient(client, ttl), nil
}

// NewRedisContextStoreWithClient wraps an existing client. A ttl of zero keeps
// snapshots until they are overwritten.
func NewRedisContextStoreWithClient(client *redis.Client, ttl time.Duration) *RedisContextStore {
	return &RedisContextStore{client: client, ttl: ttl}
}

func (s *RedisContextStore) key(sessionID string) string {
	return contextKeyPrefix + sessionID
}

func (s *RedisContextStore) Get(ctx context.Context, sessionID string) (Snapshot, bool, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("get session context: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("decode session context: %w", err)
	}
	return snap, true, nil
}

func (s *RedisContextStore) Put(ctx context.Context, sessionID string, snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session context: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session context: %w", err)
	}
	return nil
}

func (s *RedisContextStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisContextStore) Close() error {
	return s.client.Close()
}
