package seglist_test

import (
	"testing"

	"github.com/brkheap/segalloc"
	"github.com/brkheap/segalloc/seglist"
	cerrors "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func newHeap(t *testing.T) *seglist.Allocator {
	t.Helper()
	a := seglist.NewAllocator(seglist.NewByteSliceHost())
	require.NoError(t, a.Init())
	return a
}

func TestInitThenSingleAllocate(t *testing.T) {
	a := newHeap(t)

	p := a.Allocate(24)
	require.NotEqual(t, seglist.NoAddr, p)
	require.Zero(t, int(p)%8)

	stats := a.Stats()
	require.Equal(t, 1, stats.AllocationCount)
	require.Equal(t, 1, stats.UnusedRangeCount)
	require.Equal(t, seglist.DefaultInitialBytes-32, stats.UnusedRangeSizeMax)
}

func TestAllocateBoundarySizes(t *testing.T) {
	a := newHeap(t)

	sizeOf := func(addr seglist.Addr) int {
		found := -1
		a.VisitAllBlocks(func(bp seglist.Addr, size int, alloc int) {
			if bp == addr {
				found = size
			}
		})
		return found
	}

	p1 := a.Allocate(1)
	require.Equal(t, 16, sizeOf(p1))

	p2 := a.Allocate(8)
	require.Equal(t, 16, sizeOf(p2))

	p3 := a.Allocate(9)
	require.Equal(t, 24, sizeOf(p3))
}

func TestFreeNoAddrIsNoop(t *testing.T) {
	a := newHeap(t)
	a.Free(seglist.NoAddr)
	require.NoError(t, a.Validate())
}

func TestAllocateFreeRoundTrip(t *testing.T) {
	a := newHeap(t)

	before := a.Stats()
	p := a.Allocate(40)
	a.Free(p)
	after := a.Stats()

	require.Equal(t, before.AllocationCount, after.AllocationCount)
	require.Equal(t, before.BlockBytes, after.BlockBytes)
	require.NoError(t, a.Validate())
}

func TestCoalesceForward(t *testing.T) {
	a := newHeap(t)

	p1 := a.Allocate(32)
	p2 := a.Allocate(32)
	p3 := a.Allocate(32)
	require.NotEqual(t, seglist.NoAddr, p1)

	a.Free(p2)
	a.Free(p3)

	require.NoError(t, a.Validate())

	freeRanges := 0
	a.VisitAllBlocks(func(bp seglist.Addr, size int, alloc int) {
		if alloc == 0 {
			freeRanges++
		}
	})
	require.Equal(t, 1, freeRanges)
}

func TestCoalesceBackwardAndBidirectional(t *testing.T) {
	a := newHeap(t)

	p1 := a.Allocate(32)
	p2 := a.Allocate(32)
	p3 := a.Allocate(32)
	p4 := a.Allocate(32)

	a.Free(p1)
	a.Free(p3)
	a.Free(p2)

	require.NoError(t, a.Validate())

	var mergedSize int
	var mergedAddr seglist.Addr
	var seenAllocated []seglist.Addr
	a.VisitAllBlocks(func(bp seglist.Addr, size int, alloc int) {
		if alloc == 0 && bp == p1 {
			mergedSize = size
			mergedAddr = bp
		}
		if alloc == 1 {
			seenAllocated = append(seenAllocated, bp)
		}
	})

	require.Equal(t, p1, mergedAddr)
	require.GreaterOrEqual(t, mergedSize, 32*3)
	require.Contains(t, seenAllocated, p4)
}

func TestReallocateInPlaceShrink(t *testing.T) {
	a := newHeap(t)

	p := a.Allocate(128)
	q := a.Reallocate(p, 32)
	require.Equal(t, p, q)

	foundFreeTail := false
	a.VisitAllBlocks(func(bp seglist.Addr, size int, alloc int) {
		if alloc == 0 && bp != p {
			foundFreeTail = true
		}
	})
	require.True(t, foundFreeTail)
	require.NoError(t, a.Validate())
}

func TestReallocateGrowthCopiesPayload(t *testing.T) {
	a := newHeap(t)

	p := a.Allocate(16)
	a.Host().SetWord(p, 0x03020100)
	a.Host().SetWord(p+4, 0x07060504)

	q := a.Reallocate(p, 200)
	require.NotEqual(t, p, q)
	require.Equal(t, uint32(0x03020100), a.Host().Word(q))
	require.Equal(t, uint32(0x07060504), a.Host().Word(q+4))
	require.NoError(t, a.Validate())
}

func TestReallocateNullForwardsToAllocate(t *testing.T) {
	a := newHeap(t)
	p := a.Reallocate(seglist.NoAddr, 40)
	require.NotEqual(t, seglist.NoAddr, p)
}

func TestReallocateZeroSizeFreesAndReturnsNull(t *testing.T) {
	a := newHeap(t)
	p := a.Allocate(40)
	q := a.Reallocate(p, 0)
	require.Equal(t, seglist.NoAddr, q)
	require.NoError(t, a.Validate())
}

func TestExtensionPath(t *testing.T) {
	a := newHeap(t)

	p := a.Allocate(8000)
	require.NotEqual(t, seglist.NoAddr, p)
	require.NoError(t, a.Validate())
}

func TestDefensiveFreeMidBlockIsIgnored(t *testing.T) {
	a := newHeap(t)
	p := a.Allocate(64)

	before := a.Stats()
	a.Free(p + 8)
	after := a.Stats()

	require.Equal(t, before, after)
	require.NoError(t, a.Validate())
}

func TestOutOfMemoryPropagates(t *testing.T) {
	host := newExhaustibleHost()
	a := seglist.NewAllocator(host)
	require.NoError(t, a.Init())

	host.refuseAfter = host.calls
	p := a.Allocate(8000)
	require.Equal(t, seglist.NoAddr, p)
}

func TestInitPropagatesHostFailure(t *testing.T) {
	host := newExhaustibleHost()
	host.refuseAfter = 0
	a := seglist.NewAllocator(host)
	err := a.Init()
	require.Error(t, err)
	require.True(t, cerrors.Is(err, segalloc.ErrOutOfMemory))
}

func TestInitPropagatesHostContractViolation(t *testing.T) {
	host := newSkewedHost()
	a := seglist.NewAllocator(host)
	err := a.Init()
	require.Error(t, err)
	require.True(t, cerrors.Is(err, segalloc.ErrInvalidHost))
}
