package slub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmxmxh/slub-allocator/page"
)

func newTestCache(t *testing.T, objSize uintptr) (*SlubCache, *page.Arena) {
	t.Helper()
	arena, err := page.NewArena(1 << 20)
	require.NoError(t, err)
	c, err := newSlubCache(arena, objSize, 16, PagesPerSlab, nil)
	require.NoError(t, err)
	return c, arena
}

func TestSlubCache_SingleSlotSlabCyclesThroughStates(t *testing.T) {
	// A slab whose single slot is sized so only one object fits exercises
	// the EMPTY -> FULL -> EMPTY boundary directly, skipping PARTIAL.
	c, _ := newTestCache(t, SlabBytes-64)

	stats := c.Stats()
	require.Equal(t, 0, stats.EmptySlabs+stats.PartialSlabs+stats.FullSlabs)

	p1, err := c.Alloc()
	require.NoError(t, err)
	stats = c.Stats()
	assert.Equal(t, 1, stats.FullSlabs, "the only slot taken should fill the slab directly")
	assert.Equal(t, 0, stats.PartialSlabs)

	require.NoError(t, c.Free(p1))
	stats = c.Stats()
	assert.Equal(t, 1, stats.EmptySlabs)
	assert.Equal(t, 0, stats.FullSlabs)

	p2, err := c.Alloc()
	require.NoError(t, err)
	assert.Equal(t, p1, p2, "the empty slab should be reused rather than a fresh one allocated")
}

func TestSlubCache_PartialSlabServedBeforeFreshSlab(t *testing.T) {
	c, _ := newTestCache(t, 64)

	var live []uintptr
	for i := 0; i < 3; i++ {
		p, err := c.Alloc()
		require.NoError(t, err)
		live = append(live, p)
	}
	require.NoError(t, c.Free(live[1]))

	stats := c.Stats()
	require.Equal(t, 1, stats.PartialSlabs)
	require.Equal(t, 0, stats.EmptySlabs)

	p, err := c.Alloc()
	require.NoError(t, err)
	assert.Equal(t, live[1], p, "freed slot should be served LIFO before any new slab is touched")
}

func TestSlubCache_FreelistLIFOOrder(t *testing.T) {
	c, _ := newTestCache(t, 64)

	a, err := c.Alloc()
	require.NoError(t, err)
	b, err := c.Alloc()
	require.NoError(t, err)
	cc, err := c.Alloc()
	require.NoError(t, err)

	require.NoError(t, c.Free(a))
	require.NoError(t, c.Free(b))
	require.NoError(t, c.Free(cc))

	// Freed in order a, b, c: the freelist is LIFO, so allocation order
	// should be c, b, a.
	first, err := c.Alloc()
	require.NoError(t, err)
	second, err := c.Alloc()
	require.NoError(t, err)
	third, err := c.Alloc()
	require.NoError(t, err)

	assert.Equal(t, cc, first)
	assert.Equal(t, b, second)
	assert.Equal(t, a, third)
}

func TestSlubCache_FreeForeignPointerFails(t *testing.T) {
	c1, _ := newTestCache(t, 64)
	c2, _ := newTestCache(t, 64)

	p, err := c1.Alloc()
	require.NoError(t, err)

	assert.Error(t, c2.Free(p))
}

func TestSlubCache_FreeNilIsNoOp(t *testing.T) {
	c, _ := newTestCache(t, 64)
	assert.NoError(t, c.Free(0))
}

func TestSlubCache_DoubleFreeOfWhollyEmptySlabIsDetected(t *testing.T) {
	c, _ := newTestCache(t, SlabBytes-64)

	p, err := c.Alloc()
	require.NoError(t, err)
	require.NoError(t, c.Free(p))

	// The slab is now EMPTY; freeing the same pointer again resolves to a
	// slab on the empty list, which the cache rejects.
	assert.Error(t, c.Free(p))
}
