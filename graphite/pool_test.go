package graphite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlotPoolAllocatesAndRecycles(t *testing.T) {
	p := newSlotPool(4)

	var slots []*Slot
	for i := 0; i < 10; i++ {
		slots = append(slots, p.allocate(0))
	}
	require.Equal(t, 10, p.totalAllocated())
	require.Equal(t, 0, p.freeCount())

	p.release(slots[0])
	p.release(slots[1])
	require.Equal(t, 2, p.freeCount())
	require.True(t, slots[0].deleted)

	recycled := p.allocate(0)
	require.Same(t, slots[1], recycled, "allocate must pop the most recently released slot")
	require.Equal(t, 1, p.freeCount())
	require.False(t, recycled.deleted)
}

func TestSlotPoolAllocateSizesUserAttrs(t *testing.T) {
	p := newSlotPool(defaultSlotBlockSize)
	s := p.allocate(3)
	require.Len(t, s.userAttrs, 3)
	require.EqualValues(t, -1, s.bidiCls)
}
