package cache

import (
	"context"
	"encoding/json"
	"reflect"
	"time"

	"cache-coordinator/internal/common/errors"
	"cache-coordinator/internal/common/logging"
)

// ComputeFunc produces the value for a key on a cache miss. It may perform
// arbitrary I/O (typically a database query), runs synchronously on the
// caller's goroutine, and must be safe to invoke concurrently and
// redundantly: concurrent callers missing on the same key each run their
// own compute, as this layer deliberately has no single-flight coalescing.
type ComputeFunc func(ctx context.Context) (interface{}, error)

// Options controls one orchestrated read
type Options struct {
	// TTL for the stored entry; the orchestrator default applies when zero
	TTL time.Duration
	// Bypass skips the cache read and the cache write; compute still runs
	Bypass bool
	// Force skips the cache read but still writes the fresh result
	Force bool
	// CacheEmpty stores a nil/empty compute result too, suppressing
	// repeated expensive misses for data that legitimately has no value
	CacheEmpty bool
}

// Orchestrator is the get-or-compute coordinator over the distributed tier.
// It owns the read-through flow: consult the store, fall back to compute,
// return the fresh value to the caller immediately, and populate the store
// in the background.
//
// A store outage never becomes a caller outage: a failed read is logged and
// treated exactly like a miss, and background writes only ever log their
// failures.
type Orchestrator struct {
	asyncRunner

	store      Store
	keys       Keyspace
	defaultTTL time.Duration
}

// NewOrchestrator creates an orchestrator over the given store. defaultTTL
// applies to reads that do not pick their own TTL; zero means 5 minutes.
func NewOrchestrator(store Store, keys Keyspace, defaultTTL time.Duration) *Orchestrator {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}

	return &Orchestrator{
		asyncRunner: asyncRunner{
			logger: logging.GetGlobalLogger().WithFields(
				logging.Field{Key: "component", Value: "cache_orchestrator"},
			),
			timeout: defaultAsyncTimeout,
		},
		store:      store,
		keys:       keys,
		defaultTTL: defaultTTL,
	}
}

// Get resolves key through the cache, decoding the value into dest (a
// pointer). On a hit the cached payload is decoded and compute never runs.
// On a miss compute runs synchronously, its result is handed to the caller
// immediately, and the store is populated in the background; the caller is
// never blocked on a cache write.
//
// Get only fails when compute fails or when a value cannot round-trip
// through JSON, which indicates a programming-level type mismatch.
func (o *Orchestrator) Get(ctx context.Context, key string, dest interface{}, opts Options, compute ComputeFunc) error {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = o.defaultTTL
	}
	namespaced := o.keys.Apply(key)

	if !opts.Bypass && !opts.Force {
		data, found, err := o.store.Get(ctx, namespaced)
		if err != nil {
			// Backend outage is treated exactly like a miss so cache
			// unavailability never turns into a business-logic outage.
			o.logger.WithContext(ctx).Warn("cache read failed, falling through to compute",
				logging.Field{Key: "key", Value: namespaced},
				logging.Field{Key: "error", Value: err.Error()},
			)
		} else if found {
			if dest == nil {
				return nil
			}
			if err := json.Unmarshal(data, dest); err != nil {
				return errors.SerializationError("failed to decode cached value", err).
					WithContext("key", namespaced)
			}
			return nil
		}
	}

	value, err := compute(ctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return errors.SerializationError("failed to encode computed value", err).
			WithContext("key", namespaced)
	}
	if dest != nil {
		if err := json.Unmarshal(data, dest); err != nil {
			return errors.SerializationError("computed value does not fit destination", err).
				WithContext("key", namespaced)
		}
	}

	if opts.Bypass {
		return nil
	}
	if isEmpty(value) && !opts.CacheEmpty {
		return nil
	}

	o.launch(ctx, "cache populate", func(taskCtx context.Context) error {
		return o.store.Set(taskCtx, namespaced, data, ttl)
	})

	return nil
}

// SetAsync stores a value under key in the background with the given TTL.
// It returns immediately; encoding or store failures are logged, and the
// entry is simply not cached this round.
func (o *Orchestrator) SetAsync(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = o.defaultTTL
	}
	namespaced := o.keys.Apply(key)

	o.launch(ctx, "cache store", func(taskCtx context.Context) error {
		data, err := json.Marshal(value)
		if err != nil {
			return errors.SerializationError("failed to encode value", err).
				WithContext("key", namespaced)
		}
		return o.store.Set(taskCtx, namespaced, data, ttl)
	})
}

// isEmpty reports whether a compute result counts as nil/empty for the
// CacheEmpty option: nil itself, a nil pointer/map/slice, or a zero-length
// string, slice, or map.
func isEmpty(value interface{}) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	default:
		return false
	}
}
