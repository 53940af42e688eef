package cache

import (
	"context"

	"cache-coordinator/internal/common/logging"
)

// Invalidator removes distributed-tier entries after write paths commit.
// Both operations are fire-and-forget and idempotent: deleting an absent key
// leaves the store in the same state, and failures are logged, never raised.
//
// Invalidation is a contract on the caller: the orchestrator has no
// automatic trigger, so staleness between a write and its invalidation is
// bounded only by the caller's discipline and the entry's TTL.
type Invalidator struct {
	asyncRunner

	store Store
	keys  Keyspace
}

// NewInvalidator creates an invalidator over the given store
func NewInvalidator(store Store, keys Keyspace) *Invalidator {
	return &Invalidator{
		asyncRunner: asyncRunner{
			logger: logging.GetGlobalLogger().WithFields(
				logging.Field{Key: "component", Value: "cache_invalidator"},
			),
			timeout: defaultAsyncTimeout,
		},
		store: store,
		keys:  keys,
	}
}

// DeleteAsync schedules deletion of one logical key and returns immediately
func (i *Invalidator) DeleteAsync(ctx context.Context, key string) {
	namespaced := i.keys.Apply(key)

	i.launch(ctx, "cache delete", func(taskCtx context.Context) error {
		return i.store.Delete(taskCtx, namespaced)
	})
}

// DeleteByPatternAsync schedules deletion of every key matching a glob-style
// logical pattern, e.g. "user:*" after a bulk user mutation.
func (i *Invalidator) DeleteByPatternAsync(ctx context.Context, pattern string) {
	namespaced := i.keys.Pattern(pattern)

	i.launch(ctx, "cache pattern delete", func(taskCtx context.Context) error {
		return i.store.DeleteByPattern(taskCtx, namespaced)
	})
}
