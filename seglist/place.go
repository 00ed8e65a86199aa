package seglist

// place detaches the free block at payload from its class, marks it
// allocated, and — if the leftover is at least MinBlockSize — splits off
// the remainder as a fresh free block reinserted under its own class. The
// split threshold is deliberately equal to MinBlockSize, not greater:
// anything smaller cannot legally exist as an independent block (no room
// for its link words).
func (a *Allocator) place(payload Addr, asize int) {
	size, _ := a.readHeader(payload)
	a.unlinkFree(payload)

	remainder := size - asize
	if remainder >= MinBlockSize {
		a.writeTags(payload, asize, 1)

		tail := nextBlockPayload(payload, asize)
		a.writeTags(tail, remainder, 0)
		a.insertFree(tail)
	} else {
		a.writeTags(payload, size, 1)
	}
}

// shrinkInPlace is place's counterpart for Reallocate's in-place
// short-circuit: payload is currently an allocated block, not a member
// of any free list, so there is nothing to unlink. If the remainder
// meets the minimum block size it is split off and coalesced — unlike a
// fresh split out of the finder, the block being shrunk may already
// have a free physical successor, so the new tail cannot simply be
// inserted without checking for that neighbor.
func (a *Allocator) shrinkInPlace(payload Addr, asize int) {
	size, _ := a.readHeader(payload)

	remainder := size - asize
	if remainder >= MinBlockSize {
		a.writeTags(payload, asize, 1)

		tail := nextBlockPayload(payload, asize)
		a.writeTags(tail, remainder, 0)
		a.coalesce(tail)
	} else {
		a.writeTags(payload, size, 1)
	}
}
