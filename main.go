// Command cache-coordinator wires the cache coordination layer from
// environment configuration and runs an end-to-end self-check against the
// configured Redis backend: a get-or-compute round trip, a lock round trip,
// and an invalidation. Operators run it to verify a deployment before
// pointing services at it.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"cache-coordinator/internal/cache"
	"cache-coordinator/internal/common/logging"
	"cache-coordinator/internal/config"
	"cache-coordinator/internal/locks"
	"cache-coordinator/internal/redis"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.NewZapLogger(logging.LogConfig{
		Level:      logging.ParseLevel(cfg.LogLevel),
		TimeFormat: time.RFC3339,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logging.SetGlobalLogger(logger)

	client, err := redis.NewClient(&redis.Config{
		Address:  cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		PoolSize: cfg.RedisPoolSize,
	})
	if err != nil {
		logger.Error("Redis connection failed", err,
			logging.Field{Key: "address", Value: cfg.RedisAddress},
		)
		log.Fatal("cache coordination layer is not usable")
	}
	defer client.Close()

	logger.Info("Redis: Connected", logging.Field{Key: "address", Value: cfg.RedisAddress})

	keys := cache.NewKeyspace(cfg.KeyPrefix)
	orchestrator := cache.NewOrchestrator(client, keys, cfg.DefaultTTL)
	invalidator := cache.NewInvalidator(client, keys)
	lockManager := locks.NewManager(client)
	defer lockManager.Close()

	ctx := logging.WithRequestID(context.Background(), "selfcheck")

	// Read-through round trip: first call computes, second must hit.
	computeCalls := 0
	probe := func(ctx context.Context) (interface{}, error) {
		computeCalls++
		return "ok", nil
	}

	var result string
	for i := 0; i < 2; i++ {
		if err := orchestrator.Get(ctx, "selfcheck:probe", &result, cache.Options{TTL: time.Minute}, probe); err != nil {
			logger.Error("Self-check: get-or-compute failed", err)
			log.Fatal("cache coordination layer is not usable")
		}
	}
	orchestrator.Wait()
	if result != "ok" || computeCalls != 1 {
		logger.Warn("Self-check: read-through did not hit on second call",
			logging.Field{Key: "compute_calls", Value: computeCalls},
		)
	}

	// Lock round trip with the configured defaults.
	err = lockManager.WithLock(ctx, "selfcheck", cfg.LockWaitTime, cfg.LockLeaseTime,
		func(ctx context.Context) error { return nil })
	if err != nil {
		logger.Error("Self-check: lock round trip failed", err)
		log.Fatal("cache coordination layer is not usable")
	}

	invalidator.DeleteAsync(ctx, "selfcheck:probe")
	invalidator.Wait()

	logger.Info("Self-check passed",
		logging.Field{Key: "key_prefix", Value: cfg.KeyPrefix},
		logging.Field{Key: "default_ttl", Value: cfg.DefaultTTL.String()},
		logging.Field{Key: "lock_wait", Value: cfg.LockWaitTime.String()},
		logging.Field{Key: "lock_lease", Value: cfg.LockLeaseTime.String()},
	)
}
