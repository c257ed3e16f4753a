package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena_AllocAligned(t *testing.T) {
	a, err := NewArena(1 << 20)
	require.NoError(t, err)

	base, err := a.AllocPages(1)
	require.NoError(t, err)
	assert.Equal(t, uintptr(0), base%PageSize, "single-page block must be page aligned")

	base2, err := a.AllocPages(1)
	require.NoError(t, err)
	assert.NotEqual(t, base, base2)
}

func TestArena_FreeThenReallocReuses(t *testing.T) {
	a, err := NewArena(1 << 20)
	require.NoError(t, err)

	p1, err := a.AllocPages(1)
	require.NoError(t, err)
	require.NoError(t, a.FreePages(p1, 1))

	p2, err := a.AllocPages(1)
	require.NoError(t, err)
	assert.Equal(t, p1, p2, "freed single-page block should be recycled LIFO")
}

func TestArena_OutOfMemory(t *testing.T) {
	a, err := NewArena(2 * PageSize)
	require.NoError(t, err)

	_, err = a.AllocPages(1)
	require.NoError(t, err)
	_, err = a.AllocPages(1)
	require.NoError(t, err)

	_, err = a.AllocPages(1)
	assert.Error(t, err)
}

func TestArena_FreeForeignAddress(t *testing.T) {
	a, err := NewArena(1 << 20)
	require.NoError(t, err)

	err = a.FreePages(0xdeadbeef, 1)
	assert.Error(t, err)
}

func TestArena_MultiPageAlignment(t *testing.T) {
	a, err := NewArena(4 << 20)
	require.NoError(t, err)

	base, err := a.AllocPages(4) // 16KB, power of two
	require.NoError(t, err)
	assert.Equal(t, uintptr(0), base%(4*PageSize))
}

func TestArena_StatsTrackOutstandingPages(t *testing.T) {
	a, err := NewArena(1 << 20)
	require.NoError(t, err)

	p, err := a.AllocPages(2)
	require.NoError(t, err)
	stats := a.Stats()
	assert.EqualValues(t, 2, stats.CurrentPages)
	assert.EqualValues(t, 2, stats.TotalPages)

	require.NoError(t, a.FreePages(p, 2))
	stats = a.Stats()
	assert.EqualValues(t, 0, stats.CurrentPages)
	assert.EqualValues(t, 2, stats.TotalPages)
}
