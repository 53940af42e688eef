// Package config provides configuration management for the cache coordination
// layer. It handles loading configuration from environment variables with
// sensible defaults and validates the configuration so the process starts
// safely.
//
// Environment Variables:
//
// Redis Configuration:
//   - REDIS_ADDRESS: Redis server address (default: localhost:6379)
//   - REDIS_PASSWORD: Redis password
//   - REDIS_DB: Redis database number 0-15 (default: 0)
//   - REDIS_POOL_SIZE: Redis connection pool size (default: 10)
//
// Cache Configuration:
//   - CACHE_KEY_PREFIX: Application prefix for all cache keys (default: app)
//   - CACHE_DEFAULT_TTL: Default TTL for cached entries (default: 5m)
//   - CACHE_LOCAL_MAX_ENTRIES: Max entry count of the in-process cache (default: 1000)
//
// Lock Configuration:
//   - LOCK_WAIT_TIME: How long to wait for a lock before giving up (default: 3s)
//   - LOCK_LEASE_TIME: How long an acquired lock is leased (default: 5s)
//
// Application Settings:
//   - LOG_LEVEL: Logging level (default: info)
//
// Example usage:
//
//	cfg := config.Load()
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("Invalid configuration: %v", err)
//	}
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the cache coordination layer.
// All fields correspond to environment variables that can be set to override
// the default values. Load the configuration once at process start; it is
// read-only thereafter.
type Config struct {
	// Redis configuration for the distributed cache tier
	RedisAddress  string // Redis server address (host:port)
	RedisPassword string // Redis authentication password
	RedisDB       int    // Redis database number (0-15)
	RedisPoolSize int    // Redis connection pool size

	// Cache behavior
	KeyPrefix       string        // Application prefix for all cache keys
	DefaultTTL      time.Duration // TTL used when the caller does not pick one
	LocalMaxEntries int           // Capacity bound of the in-process cache

	// Distributed lock defaults
	LockWaitTime  time.Duration // Acquisition wait bound
	LockLeaseTime time.Duration // Lease duration once acquired

	// Application settings
	LogLevel string // Logging level (debug, info, warn, error)
}

// Load creates a new Config instance with values loaded from environment
// variables. If an environment variable is not set, the corresponding default
// value is used.
//
// This function does not validate the configuration - call Validate() on the
// returned Config to ensure all values are valid.
func Load() *Config {
	return &Config{
		RedisAddress:  getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		RedisPoolSize: getIntEnv("REDIS_POOL_SIZE", 10),

		KeyPrefix:       getEnv("CACHE_KEY_PREFIX", "app"),
		DefaultTTL:      getDurationEnv("CACHE_DEFAULT_TTL", 5*time.Minute),
		LocalMaxEntries: getIntEnv("CACHE_LOCAL_MAX_ENTRIES", 1000),

		LockWaitTime:  getDurationEnv("LOCK_WAIT_TIME", 3*time.Second),
		LockLeaseTime: getDurationEnv("LOCK_LEASE_TIME", 5*time.Second),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate performs validation on the configuration to ensure all values are
// usable before any component is wired up.
func (c *Config) Validate() error {
	if c.RedisAddress == "" {
		return fmt.Errorf("REDIS_ADDRESS is required")
	}
	if c.RedisDB < 0 || c.RedisDB > 15 {
		return fmt.Errorf("REDIS_DB must be between 0 and 15, got %d", c.RedisDB)
	}
	if c.RedisPoolSize <= 0 {
		return fmt.Errorf("REDIS_POOL_SIZE must be positive, got %d", c.RedisPoolSize)
	}
	if c.KeyPrefix == "" {
		return fmt.Errorf("CACHE_KEY_PREFIX is required")
	}
	if c.DefaultTTL <= 0 {
		return fmt.Errorf("CACHE_DEFAULT_TTL must be positive, got %s", c.DefaultTTL)
	}
	if c.LocalMaxEntries <= 0 {
		return fmt.Errorf("CACHE_LOCAL_MAX_ENTRIES must be positive, got %d", c.LocalMaxEntries)
	}
	if c.LockWaitTime <= 0 {
		return fmt.Errorf("LOCK_WAIT_TIME must be positive, got %s", c.LockWaitTime)
	}
	if c.LockLeaseTime <= 0 {
		return fmt.Errorf("LOCK_LEASE_TIME must be positive, got %s", c.LockLeaseTime)
	}
	return nil
}

// getEnv retrieves an environment variable value or returns a default value
// if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves an integer environment variable value or returns a
// default value if not set or invalid.
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getDurationEnv retrieves a duration environment variable value (e.g. "30s",
// "5m") or returns a default value if not set or invalid.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
