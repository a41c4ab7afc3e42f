package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetGet(t *testing.T) {
	c := New(time.Minute)
	c.Set("cities", []string{"Accra", "Kumasi"})

	v, ok := c.Get("cities")
	assert.True(t, ok)
	assert.Equal(t, []string{"Accra", "Kumasi"}, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestEntryExpires(t *testing.T) {
	base := time.Now()
	c := New(time.Minute)
	c.now = func() time.Time { return base }

	c.Set("key", "value")

	base = base.Add(59 * time.Second)
	_, ok := c.Get("key")
	assert.True(t, ok)

	base = base.Add(2 * time.Second)
	_, ok = c.Get("key")
	assert.False(t, ok)

	// A fresh Set revives the key.
	c.Set("key", "new")
	v, ok := c.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestInvalidate(t *testing.T) {
	c := New(time.Minute)
	c.Set("key", 1)
	c.Invalidate("key")

	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestZeroTTLDisablesCaching(t *testing.T) {
	c := New(0)
	c.Set("key", "value")

	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestFlush(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Flush()

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
}
