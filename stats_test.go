package segalloc_test

import (
	"math"
	"testing"

	"github.com/brkheap/segalloc"
	"github.com/stretchr/testify/require"
)

func TestDetailedStatisticsClear(t *testing.T) {
	var s segalloc.DetailedStatistics
	s.Clear()

	require.Equal(t, math.MaxInt, s.AllocationSizeMin)
	require.Zero(t, s.AllocationSizeMax)
	require.Equal(t, math.MaxInt, s.UnusedRangeSizeMin)
	require.Zero(t, s.UnusedRangeSizeMax)
}

func TestDetailedStatisticsAddAllocationAndUnusedRange(t *testing.T) {
	var s segalloc.DetailedStatistics
	s.Clear()

	s.AddAllocation(100)
	s.AddAllocation(50)
	require.Equal(t, 2, s.AllocationCount)
	require.Equal(t, 150, s.AllocationBytes)
	require.Equal(t, 50, s.AllocationSizeMin)
	require.Equal(t, 100, s.AllocationSizeMax)

	s.AddUnusedRange(200)
	s.AddUnusedRange(10)
	require.Equal(t, 2, s.UnusedRangeCount)
	require.Equal(t, 10, s.UnusedRangeSizeMin)
	require.Equal(t, 200, s.UnusedRangeSizeMax)
}

func TestFragmentationRatio(t *testing.T) {
	var s segalloc.DetailedStatistics
	s.Clear()
	s.BlockBytes = 1000
	s.AllocationBytes = 400
	s.AddUnusedRange(300)
	s.AddUnusedRange(300)

	require.InDelta(t, 0.5, s.FragmentationRatio(), 1e-9)
}

func TestFragmentationRatioNoFreeBytes(t *testing.T) {
	var s segalloc.DetailedStatistics
	s.Clear()
	s.BlockBytes = 100
	s.AllocationBytes = 100

	require.Zero(t, s.FragmentationRatio())
}
