package seglist

import (
	"github.com/dolthub/swiss"
	"github.com/pkg/errors"
)

// Validate walks the entire heap and cross-checks it against the
// segregated free lists, returning the first invariant violation it
// finds. It is O(n) in the number of blocks and meant to back
// segalloc.DebugValidate under the debug_segalloc build tag, never the
// allocation hot path.
func (a *Allocator) Validate() error {
	freeByWalk := swiss.NewMap[Addr, struct{}](8)

	prevAlloc := 1
	prevBp := a.heapStart
	walked := 0
	for bp := nextBlockPayload(a.heapStart, dwordSize); ; {
		if got := a.prevBlockPayload(bp); got != prevBp {
			return errors.Errorf("block at %d disagrees with its predecessor's footer: got %d, walked from %d", bp, got, prevBp)
		}
		size, alloc := a.readHeader(bp)
		if size == 0 {
			if alloc != 1 {
				return errors.Errorf("epilogue at %d is not marked allocated", bp)
			}
			if high := a.host.RegionHigh(); bp-1 != high {
				return errors.Errorf("epilogue at %d does not end at the region frontier %d", bp, high)
			}
			break
		}
		if size < MinBlockSize {
			return errors.Errorf("block at %d has illegal size %d", bp, size)
		}
		if size%dwordSize != 0 {
			return errors.Errorf("block at %d has unaligned size %d", bp, size)
		}
		if footerWord := a.host.Word(footerAddr(bp, size)); footerWord != pack(size, alloc) {
			return errors.Errorf("block at %d has mismatched header/footer", bp)
		}
		if alloc == 0 {
			if prevAlloc == 0 {
				return errors.Errorf("two consecutive free blocks meeting at %d", bp)
			}
			freeByWalk.Put(bp, struct{}{})
		}
		prevAlloc = alloc
		prevBp = bp
		bp = nextBlockPayload(bp, size)

		walked++
		if walked > 10_000_000 {
			return errors.New("heap walk did not terminate; corrupt epilogue")
		}
	}

	freeByList := swiss.NewMap[Addr, struct{}](8)
	for class := 0; class < NumClasses; class++ {
		for node := a.classHead(class); node != NoAddr; node = a.linkNext(node) {
			if _, ok := freeByList.Get(node); ok {
				return errors.Errorf("block at %d appears twice in the free lists", node)
			}
			freeByList.Put(node, struct{}{})

			size, alloc := a.readHeader(node)
			if alloc != 0 {
				return errors.Errorf("allocated block at %d present in a free list", node)
			}
			if got := SizeToClass(size); got != class {
				return errors.Errorf("block at %d of size %d filed under class %d, not %d", node, size, class, got)
			}
			if next := a.linkNext(node); next != NoAddr && a.linkPrev(next) != node {
				return errors.Errorf("broken next/prev symmetry at %d", node)
			}
		}
	}

	if freeByWalk.Count() != freeByList.Count() {
		return errors.Errorf("free block count mismatch: %d found walking the heap, %d found in free lists", freeByWalk.Count(), freeByList.Count())
	}

	var mismatch error
	freeByWalk.Iter(func(addr Addr, _ struct{}) bool {
		if _, ok := freeByList.Get(addr); !ok {
			mismatch = errors.Errorf("block at %d is free but missing from its free list", addr)
			return true
		}
		return false
	})
	return mismatch
}
