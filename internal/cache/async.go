package cache

import (
	"context"
	"sync"
	"time"

	"cache-coordinator/internal/common/logging"
)

// defaultAsyncTimeout bounds how long one background cache operation may run
const defaultAsyncTimeout = 5 * time.Second

// Store is what the orchestrator and invalidator need from the distributed
// tier. *redis.Client satisfies it; tests substitute failing stubs.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// asyncRunner launches fire-and-forget background operations. Each task gets
// a detached context with its own timeout and the caller's trace fields
// carried over at launch time; a failing task only produces a log line.
type asyncRunner struct {
	logger  logging.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// launch schedules fn on its own goroutine and returns immediately. The
// caller's context is never awaited or cancelled into fn; cancelling the
// calling request does not abort work already scheduled.
func (r *asyncRunner) launch(ctx context.Context, op string, fn func(ctx context.Context) error) {
	bg := logging.CarryValues(context.Background(), ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		taskCtx, cancel := context.WithTimeout(bg, r.timeout)
		defer cancel()

		if err := fn(taskCtx); err != nil {
			r.logger.WithContext(taskCtx).Error("background "+op+" failed", err)
		}
	}()
}

// Wait blocks until every scheduled background operation has settled. It is
// used for graceful shutdown; new operations may still be launched after it
// returns.
func (r *asyncRunner) Wait() {
	r.wg.Wait()
}
