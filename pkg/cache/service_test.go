package cache

import (
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache map[string]interface{}

func (m mapCache) Get(key string) (interface{}, bool) {
	v, ok := m[key]
	return v, ok
}
func (m mapCache) Set(key string, value interface{}, _ time.Duration) { m[key] = value }
func (m mapCache) Delete(key string)                                  { delete(m, key) }
func (m mapCache) Flush()                                             { clear(m) }

func TestGetOrLoad(t *testing.T) {
	c := mapCache{}
	loads := 0
	load := func() (int, error) {
		loads++
		return 42, nil
	}

	v, err := GetOrLoad(c, "answer", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = GetOrLoad(c, "answer", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, loads)

	_, err = GetOrLoad(c, "broken", time.Minute, func() (int, error) { return 0, errors.New("db down") })
	assert.Error(t, err)
	_, cached := c.Get("broken")
	assert.False(t, cached, "errors are not cached")

	c["typed"] = "not an int"
	v, err = GetOrLoad(c, "typed", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 42, v, "a value of the wrong type is reloaded")
}
