package cache

import "time"

// CacheService is the read-through cache used for admin aggregates.
// Prices and coupons never go through it.
type CacheService interface {
	// Get returns the value and true if present and unexpired.
	Get(key string) (interface{}, bool)

	Set(key string, value interface{}, duration time.Duration)

	Delete(key string)

	Flush()
}

// GetOrLoad returns the cached value under key, calling load and caching its
// result for ttl on a miss. Errors are not cached.
func GetOrLoad[T any](c CacheService, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	if val, found := c.Get(key); found {
		if v, ok := val.(T); ok {
			return v, nil
		}
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	c.Set(key, v, ttl)
	return v, nil
}
