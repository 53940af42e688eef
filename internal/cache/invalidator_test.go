package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidator_DeleteAsync(t *testing.T) {
	client, _ := setupStore(t)
	keys := NewKeyspace("app")
	ctx := context.Background()

	inv := NewInvalidator(client, keys)

	require.NoError(t, client.Set(ctx, keys.Apply("user:1"), []byte("a"), time.Minute))

	t.Run("deletes the namespaced key", func(t *testing.T) {
		inv.DeleteAsync(ctx, "user:1")
		inv.Wait()

		_, found, err := client.Get(ctx, keys.Apply("user:1"))
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("idempotent", func(t *testing.T) {
		// Deleting the already-absent key twice leaves the same state
		inv.DeleteAsync(ctx, "user:1")
		inv.DeleteAsync(ctx, "user:1")
		inv.Wait()

		_, found, err := client.Get(ctx, keys.Apply("user:1"))
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestInvalidator_DeleteByPatternAsync(t *testing.T) {
	client, _ := setupStore(t)
	keys := NewKeyspace("app")
	ctx := context.Background()

	inv := NewInvalidator(client, keys)

	require.NoError(t, client.Set(ctx, keys.Apply("user:1"), []byte("a"), time.Minute))
	require.NoError(t, client.Set(ctx, keys.Apply("user:2"), []byte("b"), time.Minute))
	require.NoError(t, client.Set(ctx, keys.Apply("session:1"), []byte("c"), time.Minute))

	inv.DeleteByPatternAsync(ctx, "user:*")
	inv.Wait()

	for _, key := range []string{"user:1", "user:2"} {
		_, found, err := client.Get(ctx, keys.Apply(key))
		require.NoError(t, err)
		assert.False(t, found, "key %q must be invalidated", key)
	}

	_, found, err := client.Get(ctx, keys.Apply("session:1"))
	require.NoError(t, err)
	assert.True(t, found, "non-matching key must survive pattern invalidation")
}

func TestInvalidator_BackendFailureIsSwallowed(t *testing.T) {
	keys := NewKeyspace("app")
	ctx := context.Background()

	client, mr := setupStore(t)
	inv := NewInvalidator(client, keys)
	mr.Close()

	// Both operations must neither panic nor surface the backend error
	inv.DeleteAsync(ctx, "user:1")
	inv.DeleteByPatternAsync(ctx, "user:*")
	inv.Wait()
}
