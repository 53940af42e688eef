package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalCache_GetSet(t *testing.T) {
	c := NewLocalCache(10, TierDefault)
	defer c.Close()

	t.Run("miss on empty cache", func(t *testing.T) {
		_, found := c.Get("absent")
		assert.False(t, found)
	})

	t.Run("set then get", func(t *testing.T) {
		c.Set("user:1", "kim")
		value, found := c.Get("user:1")
		assert.True(t, found)
		assert.Equal(t, "kim", value)
	})

	t.Run("set overwrites", func(t *testing.T) {
		c.Set("user:1", "lee")
		value, found := c.Get("user:1")
		assert.True(t, found)
		assert.Equal(t, "lee", value)
	})

	t.Run("delete is silent and idempotent", func(t *testing.T) {
		c.Set("user:2", "park")
		c.Delete("user:2")
		c.Delete("user:2")
		_, found := c.Get("user:2")
		assert.False(t, found)
	})
}

func TestLocalCache_CapacityEviction(t *testing.T) {
	c := NewLocalCache(3, TierDefault)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// Touch "a" so "b" becomes the least recently used entry
	_, found := c.Get("a")
	require.True(t, found)

	c.Set("d", 4)

	_, found = c.Get("b")
	assert.False(t, found, "least recently used entry must be evicted")
	for _, key := range []string{"a", "c", "d"} {
		_, found := c.Get(key)
		assert.True(t, found, "key %q must survive eviction", key)
	}
	assert.Equal(t, 3, c.Len())
}

func TestLocalCache_Expiry(t *testing.T) {
	t.Run("write ttl fires", func(t *testing.T) {
		c := NewLocalCache(10, Tier{TTL: 30 * time.Millisecond, MaxIdle: time.Minute})
		defer c.Close()

		c.Set("k", "v")
		time.Sleep(50 * time.Millisecond)

		_, found := c.Get("k")
		assert.False(t, found)
	})

	t.Run("idle ttl fires before write ttl", func(t *testing.T) {
		c := NewLocalCache(10, Tier{TTL: time.Minute, MaxIdle: 30 * time.Millisecond})
		defer c.Close()

		c.Set("k", "v")
		time.Sleep(50 * time.Millisecond)

		_, found := c.Get("k")
		assert.False(t, found)
	})

	t.Run("reads keep an entry alive past the idle ttl", func(t *testing.T) {
		c := NewLocalCache(10, Tier{TTL: time.Minute, MaxIdle: 60 * time.Millisecond})
		defer c.Close()

		c.Set("k", "v")
		for i := 0; i < 4; i++ {
			time.Sleep(25 * time.Millisecond)
			_, found := c.Get("k")
			require.True(t, found, "entry must stay alive while it is being read")
		}
	})

	t.Run("zero max idle disables idle eviction", func(t *testing.T) {
		c := NewLocalCache(10, Tier{TTL: time.Minute})
		defer c.Close()

		c.Set("k", "v")
		time.Sleep(30 * time.Millisecond)

		_, found := c.Get("k")
		assert.True(t, found)
	})
}

func TestLocalCache_Sweep(t *testing.T) {
	c := NewLocalCache(10, Tier{TTL: 10 * time.Millisecond, MaxIdle: time.Minute})
	defer c.Close()

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	time.Sleep(20 * time.Millisecond)

	c.sweep()
	assert.Equal(t, 0, c.Len())
}

func TestCached(t *testing.T) {
	c := NewLocalCache(10, TierDefault)
	defer c.Close()

	t.Run("computes once then serves hits", func(t *testing.T) {
		calls := 0
		compute := func() (interface{}, error) {
			calls++
			return "value", nil
		}

		for i := 0; i < 3; i++ {
			value, err := Cached(c, "memo:1", compute)
			require.NoError(t, err)
			assert.Equal(t, "value", value)
		}
		assert.Equal(t, 1, calls)
	})

	t.Run("compute error is returned and not cached", func(t *testing.T) {
		calls := 0
		failing := func() (interface{}, error) {
			calls++
			return nil, fmt.Errorf("upstream down")
		}

		_, err := Cached(c, "memo:2", failing)
		assert.Error(t, err)
		_, err = Cached(c, "memo:2", failing)
		assert.Error(t, err)
		assert.Equal(t, 2, calls, "errors must not be memoized")
	})

	t.Run("nil result is returned but not cached", func(t *testing.T) {
		calls := 0
		empty := func() (interface{}, error) {
			calls++
			return nil, nil
		}

		value, err := Cached(c, "memo:3", empty)
		require.NoError(t, err)
		assert.Nil(t, value)

		_, err = Cached(c, "memo:3", empty)
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})
}
