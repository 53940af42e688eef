// Package redis wraps go-redis with the typed operations the cache
// coordination layer needs: byte-oriented get/set/delete with TTL,
// pattern-based deletion, and the atomic lock primitives the distributed
// lock manager is built on.
//
// Every operation that touches the network can fail; failures are surfaced
// as typed backend errors and never swallowed here. Graceful degradation on
// backend outage is the orchestrator's job, not this client's.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"cache-coordinator/internal/common/errors"
)

// deleteBatchSize bounds how many keys a single DEL issued by
// DeleteByPattern carries.
const deleteBatchSize = 100

// Config holds Redis connection settings
type Config struct {
	Address  string `json:"address"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	PoolSize int    `json:"pool_size"`
}

// Client is a thin typed wrapper over a go-redis connection pool
type Client struct {
	rdb    *redis.Client
	config *Config
}

// NewClient connects to Redis and verifies the connection with a ping
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, errors.ConfigError("redis config is required")
	}

	if config.Address == "" {
		config.Address = "localhost:6379"
	}
	if config.PoolSize == 0 {
		config.PoolSize = 10
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Address,
		Password: config.Password,
		DB:       config.DB,
		PoolSize: config.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, errors.BackendError("failed to connect to Redis", err)
	}

	return &Client{
		rdb:    rdb,
		config: config,
	}, nil
}

// Close releases the connection pool
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Health pings the backend
func (c *Client) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return errors.BackendError("redis health check failed", err)
	}
	return nil
}

// Unwrap exposes the underlying go-redis client for integrations that pool
// it directly, such as the redsync lock manager.
func (c *Client) Unwrap() *redis.Client {
	return c.rdb
}

// Get retrieves the raw bytes stored under key. A missing key is reported as
// (nil, false, nil); only transport or backend failures produce an error.
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.BackendError("failed to read key", err).WithContext("key", key)
	}
	return val, true, nil
}

// Set stores raw bytes under key with the given TTL
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return errors.BackendError("failed to write key", err).WithContext("key", key)
	}
	return nil
}

// Delete removes the given keys. Deleting an absent key is not an error, so
// the operation is idempotent.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return errors.BackendError("failed to delete keys", err).WithContext("keys", keys)
	}
	return nil
}

// DeleteByPattern removes every key matching a glob-style pattern. It walks
// the keyspace with SCAN and deletes in batches; KEYS would block the server
// on large keyspaces.
func (c *Client) DeleteByPattern(ctx context.Context, pattern string) error {
	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()

	batch := make([]string, 0, deleteBatchSize)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= deleteBatchSize {
			if err := c.Delete(ctx, batch...); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return errors.BackendError("failed to scan keys", err).WithContext("pattern", pattern)
	}
	return c.Delete(ctx, batch...)
}

// Exists checks whether a key is present
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, errors.BackendError("failed to check key existence", err).WithContext("key", key)
	}
	return n > 0, nil
}

// releaseScript deletes a lock key only when it still carries the holder's
// token, so an expired lock reacquired by another process is never released
// by the previous holder.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript refreshes the lease only while the holder's token is intact
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// TryAcquireLock attempts an atomic acquire-if-absent of the lock key with
// the given holder token and lease. It returns false without error when the
// lock is already held by someone else.
func (c *Client) TryAcquireLock(ctx context.Context, key, token string, lease time.Duration) (bool, error) {
	acquired, err := c.rdb.SetNX(ctx, key, token, lease).Result()
	if err != nil {
		return false, errors.BackendError("failed to acquire lock", err).WithContext("key", key)
	}
	return acquired, nil
}

// ReleaseLock releases the lock key if it is still held under token
func (c *Client) ReleaseLock(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, c.rdb, []string{key}, token).Err(); err != nil && err != redis.Nil {
		return errors.BackendError("failed to release lock", err).WithContext("key", key)
	}
	return nil
}

// ExtendLock refreshes the lease of a lock still held under token
func (c *Client) ExtendLock(ctx context.Context, key, token string, lease time.Duration) error {
	res, err := extendScript.Run(ctx, c.rdb, []string{key}, token, lease.Milliseconds()).Int()
	if err != nil && err != redis.Nil {
		return errors.BackendError("failed to extend lock", err).WithContext("key", key)
	}
	if res == 0 {
		return errors.NotFoundError(fmt.Sprintf("lock %q", key))
	}
	return nil
}
