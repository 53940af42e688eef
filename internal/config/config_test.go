package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "localhost:6379", cfg.RedisAddress)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 10, cfg.RedisPoolSize)
	assert.Equal(t, "app", cfg.KeyPrefix)
	assert.Equal(t, 5*time.Minute, cfg.DefaultTTL)
	assert.Equal(t, 1000, cfg.LocalMaxEntries)
	assert.Equal(t, 3*time.Second, cfg.LockWaitTime)
	assert.Equal(t, 5*time.Second, cfg.LockLeaseTime)
	assert.Equal(t, "info", cfg.LogLevel)

	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("REDIS_ADDRESS", "redis.internal:6380")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CACHE_KEY_PREFIX", "flights")
	t.Setenv("CACHE_DEFAULT_TTL", "30m")
	t.Setenv("CACHE_LOCAL_MAX_ENTRIES", "5000")
	t.Setenv("LOCK_WAIT_TIME", "500ms")
	t.Setenv("LOCK_LEASE_TIME", "10s")

	cfg := Load()

	assert.Equal(t, "redis.internal:6380", cfg.RedisAddress)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "flights", cfg.KeyPrefix)
	assert.Equal(t, 30*time.Minute, cfg.DefaultTTL)
	assert.Equal(t, 5000, cfg.LocalMaxEntries)
	assert.Equal(t, 500*time.Millisecond, cfg.LockWaitTime)
	assert.Equal(t, 10*time.Second, cfg.LockLeaseTime)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("CACHE_DEFAULT_TTL", "soon")

	cfg := Load()

	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 5*time.Minute, cfg.DefaultTTL)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Load()
		require.NoError(t, cfg.Validate())
		return cfg
	}

	t.Run("empty address", func(t *testing.T) {
		cfg := valid()
		cfg.RedisAddress = ""
		assert.ErrorContains(t, cfg.Validate(), "REDIS_ADDRESS")
	})

	t.Run("db out of range", func(t *testing.T) {
		cfg := valid()
		cfg.RedisDB = 16
		assert.ErrorContains(t, cfg.Validate(), "REDIS_DB")
	})

	t.Run("non-positive pool size", func(t *testing.T) {
		cfg := valid()
		cfg.RedisPoolSize = 0
		assert.ErrorContains(t, cfg.Validate(), "REDIS_POOL_SIZE")
	})

	t.Run("empty key prefix", func(t *testing.T) {
		cfg := valid()
		cfg.KeyPrefix = ""
		assert.ErrorContains(t, cfg.Validate(), "CACHE_KEY_PREFIX")
	})

	t.Run("non-positive ttl", func(t *testing.T) {
		cfg := valid()
		cfg.DefaultTTL = 0
		assert.ErrorContains(t, cfg.Validate(), "CACHE_DEFAULT_TTL")
	})

	t.Run("non-positive lock times", func(t *testing.T) {
		cfg := valid()
		cfg.LockWaitTime = 0
		assert.ErrorContains(t, cfg.Validate(), "LOCK_WAIT_TIME")

		cfg = valid()
		cfg.LockLeaseTime = -time.Second
		assert.ErrorContains(t, cfg.Validate(), "LOCK_LEASE_TIME")
	})
}
