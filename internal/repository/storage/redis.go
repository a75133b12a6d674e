package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "tictactoe:session"

// New connects to Redis and verifies the connection.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	conn := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if _, err := conn.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return conn, nil
}

// RedisStore keeps one session's keys in Redis.
type RedisStore struct {
	client    *redis.Client
	sessionID string
}

func NewRedisStore(client *redis.Client, sessionID string) *RedisStore {
	return &RedisStore{
		client:    client,
		sessionID: sessionID,
	}
}

func (that *RedisStore) key(key string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, that.sessionID, key)
}

func (that *RedisStore) Read(ctx context.Context, key string) (string, bool, error) {
	value, err := that.client.Get(ctx, that.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}

	return value, true, nil
}

func (that *RedisStore) Write(ctx context.Context, key, value string, opts WriteOptions) error {
	if opts.ConsentRequired {
		consent, err := consentGiven(ctx, that)
		if err != nil {
			return fmt.Errorf("failed to check consent: %w", err)
		}

		if !consent {
			return nil
		}
	}

	if err := that.client.Set(ctx, that.key(key), value, opts.Expiry).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	return nil
}
