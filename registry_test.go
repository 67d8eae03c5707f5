package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func intCompare(a, b int) bool { return a == b }

func TestRegistryFreeIsFIFO(t *testing.T) {
	var reg registry[int]
	r1 := newResourceRecord[int]()
	r1.value = 1
	r2 := newResourceRecord[int]()
	r2.value = 2

	reg.pushFree(r1)
	reg.pushFree(r2)

	require.Same(t, r1, reg.popFreeHead())
	require.Same(t, r2, reg.popFreeHead())
	require.Nil(t, reg.popFreeHead())
}

func TestRegistryFindNewestFirst(t *testing.T) {
	var reg registry[int]
	r1 := newResourceRecord[int]()
	r1.value = 5
	r2 := newResourceRecord[int]()
	r2.value = 5

	reg.addLent(r1)
	reg.addLent(r2)

	idx, found := reg.findLent(5, intCompare)
	require.Same(t, r2, found)
	require.Equal(t, 1, idx)
}

func TestRegistryTotalCountsEveryState(t *testing.T) {
	var reg registry[int]
	reg.pushFree(newResourceRecord[int]())
	reg.addLent(newResourceRecord[int]())
	reg.creatingCount = 2
	reg.destroyingCount = 1

	require.Equal(t, 5, reg.total())
}

func TestRegistryRemoveFreeAt(t *testing.T) {
	var reg registry[int]
	r1 := newResourceRecord[int]()
	r2 := newResourceRecord[int]()
	r3 := newResourceRecord[int]()
	reg.pushFree(r1)
	reg.pushFree(r2)
	reg.pushFree(r3)

	removed := reg.removeFreeAt(1)
	require.Same(t, r2, removed)
	require.Equal(t, []*resourceRecord[int]{r1, r3}, reg.free)
}
