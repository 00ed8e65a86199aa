package seglist

// coalesce merges a freshly-freed or freshly-extended block at bp with
// any immediately adjacent free neighbors, per the four boundary-tag
// cases. bp's own header and footer already read (size, 0) but bp is not
// yet a member of any free list. Neighbors are unlinked before any tag is
// rewritten (so their class lookup sees their still-valid size), and tags
// are written before the merged block is inserted (so its class lookup
// sees the final size).
func (a *Allocator) coalesce(bp Addr) Addr {
	size, _ := a.readHeader(bp)

	prevFooterWord := a.host.Word(bp - dwordSize)
	_, prevAlloc := unpack(prevFooterWord)

	nextHeaderWord := a.host.Word(headerAddr(nextBlockPayload(bp, size)))
	_, nextAlloc := unpack(nextHeaderWord)

	switch {
	case prevAlloc == 1 && nextAlloc == 1:
		a.insertFree(bp)
		return bp

	case prevAlloc == 1 && nextAlloc == 0:
		next := nextBlockPayload(bp, size)
		nextSize, _ := a.readHeader(next)
		a.unlinkFree(next)
		newSize := size + nextSize
		a.writeTags(bp, newSize, 0)
		a.insertFree(bp)
		return bp

	case prevAlloc == 0 && nextAlloc == 1:
		prevSize := sizeOf(prevFooterWord)
		prev := bp - Addr(prevSize)
		a.unlinkFree(prev)
		newSize := size + prevSize
		a.writeTags(prev, newSize, 0)
		a.insertFree(prev)
		return prev

	default: // both free
		prevSize := sizeOf(prevFooterWord)
		prev := bp - Addr(prevSize)
		next := nextBlockPayload(bp, size)
		nextSize, _ := a.readHeader(next)
		a.unlinkFree(prev)
		a.unlinkFree(next)
		newSize := prevSize + size + nextSize
		a.writeTags(prev, newSize, 0)
		a.insertFree(prev)
		return prev
	}
}
