package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRUGetPut(t *testing.T) {
	c := newLRU[string, int](2)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Put("a", 1)
	c.Put("b", 2)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := newLRU[string, int](2)
	c.Put("a", 1)
	c.Put("b", 2)

	// Touch "a" so "b" is the eviction candidate.
	c.Get("a")
	c.Put("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestLRUPutExistingUpdates(t *testing.T) {
	c := newLRU[string, int](2)
	c.Put("a", 1)
	c.Put("a", 9)

	v, _ := c.Get("a")
	assert.Equal(t, 9, v)
	assert.Equal(t, 1, c.Len())
}

func TestLRUClear(t *testing.T) {
	c := newLRU[string, int](4)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Clear()

	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestLRUMinimumCapacity(t *testing.T) {
	c := newLRU[string, int](0)
	c.Put("a", 1)
	c.Put("b", 2)

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("b")
	assert.True(t, ok)
}
