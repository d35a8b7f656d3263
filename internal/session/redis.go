package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 30 * time.Minute

// Manager hands out Redis-backed session bags. Every access slides the
// session expiry forward by ttl.
type Manager struct {
	client *redis.Client
	ttl    time.Duration
}

func NewManager(client *redis.Client, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{client: client, ttl: ttl}
}

// NewID returns a fresh, unguessable session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an id produced by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (m *Manager) Bag(id string) *Bag {
	return &Bag{client: m.client, key: sessionKey(id), ttl: m.ttl}
}

// Bag is the per-session key/value store.
type Bag struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func (b *Bag) Get(ctx context.Context, field string) (string, bool, error) {
	value, err := b.client.HGet(ctx, b.key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis hget failed: %w", err)
	}
	if err := b.client.Expire(ctx, b.key, b.ttl).Err(); err != nil {
		return "", false, fmt.Errorf("redis expire failed: %w", err)
	}
	return value, true, nil
}

func (b *Bag) Set(ctx context.Context, field, value string) error {
	pipe := b.client.TxPipeline()
	pipe.HSet(ctx, b.key, field, value)
	pipe.Expire(ctx, b.key, b.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis hset failed: %w", err)
	}
	return nil
}

func (b *Bag) Remove(ctx context.Context, field string) error {
	if err := b.client.HDel(ctx, b.key, field).Err(); err != nil {
		return fmt.Errorf("redis hdel failed: %w", err)
	}
	return nil
}

func (b *Bag) Clear(ctx context.Context) error {
	if err := b.client.Del(ctx, b.key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func (m *Manager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}
