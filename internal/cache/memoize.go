package cache

// Cached is the explicit decorator form of local read-through caching: it
// checks l1 for key, and on a miss invokes compute and stores the result.
// Call sites wrap their fetch functions with it instead of relying on any
// annotation-style machinery.
//
// A nil compute result is returned but not cached, so transient empty
// results do not mask later data.
func Cached(l1 *LocalCache, key string, compute func() (interface{}, error)) (interface{}, error) {
	if value, ok := l1.Get(key); ok {
		return value, nil
	}

	value, err := compute()
	if err != nil {
		return nil, err
	}

	if value != nil {
		l1.Set(key, value)
	}
	return value, nil
}
