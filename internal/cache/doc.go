// Package cache implements the two-tier caching layer: a bounded in-process
// LRU (L1) in front of a shared Redis-backed store (L2), coordinated by a
// get-or-compute orchestrator and an asynchronous invalidator.
//
// The tiers hold independent copies and may diverge until TTL expiry or
// explicit invalidation; consistency between them is eventual. L1 is applied
// at the call site through the Cached decorator, while the orchestrator owns
// L2 read-through only.
//
// Usage:
//
//	keys := cache.NewKeyspace("app")
//	orch := cache.NewOrchestrator(redisClient, keys, 5*time.Minute)
//
//	var user User
//	err := orch.Get(ctx, "user:123", &user, cache.Options{
//		TTL: cache.TierDefault.TTL,
//	}, func(ctx context.Context) (interface{}, error) {
//		return repo.FindUser(ctx, "123")
//	})
//
//	// After a committed write:
//	inv := cache.NewInvalidator(redisClient, keys)
//	inv.DeleteAsync(ctx, "user:123")
package cache
