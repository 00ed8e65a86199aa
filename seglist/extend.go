package seglist

import (
	"github.com/brkheap/segalloc"
)

// extendHeap grows the host region by size bytes (rounded up to a double
// word) and folds the new space into a single free block. The new
// block's header overwrites the address that used to hold the old
// epilogue header — that word is not part of the newly appended range,
// it is reused in place — and a fresh epilogue header is written into
// the last word of the newly appended bytes. The returned address is
// post-coalesce, so it may belong to a larger block than the one just
// carved out if a free neighbor absorbed it.
func (a *Allocator) extendHeap(bytes int) (Addr, error) {
	size := segalloc.AlignUp(bytes, dwordSize)

	bp, err := a.extendRegion(size, "extend heap")
	if err != nil {
		return NoAddr, err
	}

	a.writeTags(bp, size, 0)
	a.host.SetWord(bp+Addr(size)-wordSize, pack(0, 1))

	return a.coalesce(bp), nil
}
