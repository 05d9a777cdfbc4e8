package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegistry_RegisterGet tests basic storage and lookup.
func TestRegistry_RegisterGet(t *testing.T) {
	r := New[string, int]()
	r.Register("a", 1)

	v, ok := r.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

// TestRegistry_RegisterReplaces tests re-registration overwrites.
func TestRegistry_RegisterReplaces(t *testing.T) {
	r := New[string, string]()
	r.Register("k", "old")
	r.Register("k", "new")

	v, _ := r.Get("k")
	assert.Equal(t, "new", v)
	assert.Equal(t, 1, r.Len())
}

// TestRegistry_MustGet tests the panic on absence.
func TestRegistry_MustGet(t *testing.T) {
	r := New[string, int]()
	r.Register("present", 7)

	assert.Equal(t, 7, r.MustGet("present"))
	assert.Panics(t, func() { r.MustGet("absent") })
}

// TestRegistry_HasDelete tests presence checks and removal.
func TestRegistry_HasDelete(t *testing.T) {
	r := New[string, int]()
	r.Register("k", 1)

	assert.True(t, r.Has("k"))
	r.Delete("k")
	assert.False(t, r.Has("k"))
	r.Delete("k") // deleting absent keys is fine
}

// TestRegistry_Range tests snapshot iteration with early stop.
func TestRegistry_Range(t *testing.T) {
	r := New[string, int]()
	r.Register("a", 1)
	r.Register("b", 2)
	r.Register("c", 3)

	seen := 0
	r.Range(func(k string, v int) bool {
		seen++
		return seen < 2
	})
	assert.Equal(t, 2, seen)
}

// TestRegistry_RangeMutationSafe tests mutating from the callback does
// not affect the iteration.
func TestRegistry_RangeMutationSafe(t *testing.T) {
	r := New[string, int]()
	r.Register("a", 1)
	r.Register("b", 2)

	count := 0
	r.Range(func(k string, v int) bool {
		r.Delete("a")
		r.Register("new", 99)
		count++
		return true
	})
	assert.Equal(t, 2, count)
	assert.True(t, r.Has("new"))
}

// TestSortedKeys tests deterministic key listings.
func TestSortedKeys(t *testing.T) {
	r := New[string, int]()
	r.Register("c", 3)
	r.Register("a", 1)
	r.Register("b", 2)

	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(r))
}

// TestRegistry_ConcurrentAccess tests no races under mixed load.
func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := New[int, int]()
	done := make(chan struct{})

	go func() {
		for i := 0; i < 1000; i++ {
			r.Register(i%10, i)
		}
		close(done)
	}()
	for i := 0; i < 1000; i++ {
		r.Get(i % 10)
	}
	<-done

	require.Equal(t, 10, r.Len())
}
