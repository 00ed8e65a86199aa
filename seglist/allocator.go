package seglist

import (
	"github.com/brkheap/segalloc"
)

// Allocator is a segregated-fit boundary-tag heap built on top of a Host
// region. The zero value is not usable; construct one with NewAllocator
// and call Init before the first Allocate.
type Allocator struct {
	host Host

	// directory is the address of the first of NumClasses list-head
	// words, laid out in-band at the very start of the region.
	directory Addr
	// heapStart is the payload address of the prologue block, the fixed
	// left boundary blocks never coalesce past.
	heapStart Addr
}

// NewAllocator returns an Allocator over host. Init must be called once
// before any Allocate, Free, or Reallocate.
func NewAllocator(host Host) *Allocator {
	return &Allocator{host: host}
}

// Host returns the allocator's underlying memory primitive, letting
// callers (tests, diagnostics) read or write payload words directly by
// address.
func (a *Allocator) Host() Host {
	return a.host
}

// directorySize is the number of bytes the class-head directory occupies.
const directorySize = NumClasses * wordSize

// extendRegion grows the host region by bytes and confirms the host
// honored its contract: the returned address must be the one
// immediately following the previous frontier, with no gap or overlap.
// A host growth failure is reported as segalloc.ErrOutOfMemory; a
// non-contiguous address is reported as segalloc.ErrInvalidHost.
func (a *Allocator) extendRegion(bytes int, why string) (Addr, error) {
	beforeHigh := a.host.RegionHigh()

	addr, err := a.host.ExtendRegion(bytes)
	if err != nil {
		return NoAddr, segalloc.WrapOutOfMemory(err, why)
	}

	expected := beforeHigh + 1
	if beforeHigh == NoAddr {
		expected = 0
	}
	if addr != expected {
		return NoAddr, segalloc.WrapInvalidHost(why, int(expected), int(addr))
	}
	return addr, nil
}

// Init lays out the directory, the prologue block and the initial
// epilogue, then extends the heap once to carve out the first free
// block. It must be called exactly once, before any other Allocator
// method, on a Host with an empty region.
func (a *Allocator) Init() error {
	directory, err := a.extendRegion(directorySize, "allocate class directory")
	if err != nil {
		return err
	}
	a.directory = directory
	for class := 0; class < NumClasses; class++ {
		a.setClassHead(class, NoAddr)
	}

	// The directory spans a whole number of double words, so the
	// prologue header needs to sit one word further in for the
	// prologue's payload — and every block after it — to land on an
	// 8-byte boundary. One pad word buys that shift.
	if _, err := a.extendRegion(wordSize, "allocate alignment pad"); err != nil {
		return err
	}

	prologueHdr, err := a.extendRegion(dwordSize, "allocate prologue block")
	if err != nil {
		return err
	}
	prologuePayload := prologueHdr + wordSize
	a.writeTags(prologuePayload, dwordSize, 1)
	a.heapStart = prologuePayload

	epilogue, err := a.extendRegion(wordSize, "allocate epilogue")
	if err != nil {
		return err
	}
	a.host.SetWord(epilogue, pack(0, 1))

	if _, err := a.extendHeap(DefaultInitialBytes); err != nil {
		return err
	}
	return nil
}

// adjustedSize converts a caller-requested payload size into the block
// size that must be carved out for it: room for header, footer and the
// payload itself, rounded up to a double word, floored at MinBlockSize.
func adjustedSize(size int) int {
	asize := segalloc.AlignUp(size+dwordSize, dwordSize)
	if asize < MinBlockSize {
		return MinBlockSize
	}
	return asize
}

// Allocate returns the payload address of a new block able to hold size
// bytes, or NoAddr if size is not positive or the host refused to grow.
// It searches the free lists first and only extends the heap on a miss.
func (a *Allocator) Allocate(size int) Addr {
	if size <= 0 {
		return NoAddr
	}
	asize := adjustedSize(size)

	if bp, ok := a.find(asize); ok {
		a.place(bp, asize)
		segalloc.DebugValidate(a)
		return bp
	}

	extendBytes := segalloc.MaxOf(asize, DefaultInitialBytes)
	bp, err := a.extendHeap(extendBytes)
	if err != nil {
		return NoAddr
	}
	if grown, _ := a.readHeader(bp); grown < asize {
		return NoAddr
	}
	a.place(bp, asize)
	segalloc.DebugValidate(a)
	return bp
}

// inRange reports whether addr falls within the host's current region.
func (a *Allocator) inRange(addr Addr) bool {
	low, high := a.host.RegionLow(), a.host.RegionHigh()
	return low != NoAddr && addr >= low && addr <= high
}

// validAllocated is the defensive check free and reallocate run before
// touching p: it must land in the region, read back as currently
// allocated, and its header and footer words must agree. The
// header-equals-footer check is a cheap corruption heuristic, not a
// security feature — it catches double-frees and stray pointers, not a
// determined attacker.
func (a *Allocator) validAllocated(p Addr) bool {
	if p == NoAddr || !a.inRange(headerAddr(p)) {
		return false
	}
	size, alloc := a.readHeader(p)
	if alloc != 1 || size < MinBlockSize || !a.inRange(footerAddr(p, size)) {
		return false
	}
	return a.host.Word(footerAddr(p, size)) == pack(size, alloc)
}

// Free releases the block at p back to its size class, coalescing with
// any free neighbors. A nil, out-of-range, already-free or
// tag-inconsistent p is silently ignored.
func (a *Allocator) Free(p Addr) {
	if !a.validAllocated(p) {
		return
	}
	size, _ := a.readHeader(p)
	a.writeTags(p, size, 0)
	a.coalesce(p)
	segalloc.DebugValidate(a)
}

// Reallocate resizes the block at p to hold newSize bytes. p == NoAddr
// behaves as Allocate. newSize <= 0 behaves as Free and returns NoAddr.
// An invalid p (the same checks Free applies) forwards to Allocate,
// discarding the caller's intent to preserve the old payload. If the
// requested size already fits in p's current block, the shrink happens
// in place and p is returned unchanged; otherwise a new block is
// allocated, the old payload is copied over, and the old block is
// freed.
func (a *Allocator) Reallocate(p Addr, newSize int) Addr {
	if p == NoAddr {
		return a.Allocate(newSize)
	}
	if newSize <= 0 {
		a.Free(p)
		return NoAddr
	}
	if !a.validAllocated(p) {
		return a.Allocate(newSize)
	}

	asize := adjustedSize(newSize)
	size, _ := a.readHeader(p)
	if asize <= size {
		a.shrinkInPlace(p, asize)
		segalloc.DebugValidate(a)
		return p
	}

	newAddr := a.Allocate(newSize)
	if newAddr == NoAddr {
		return NoAddr
	}
	a.copyPayload(newAddr, p, size-dwordSize)
	a.Free(p)
	return newAddr
}

// copyPayload copies n bytes from src to dst, rounded up to whole words.
func (a *Allocator) copyPayload(dst, src Addr, n int) {
	words := (n + wordSize - 1) / wordSize
	for i := 0; i < words; i++ {
		off := Addr(i * wordSize)
		a.host.SetWord(dst+off, a.host.Word(src+off))
	}
}

// Stats recomputes a full snapshot of the heap's current shape by
// walking every block. It is O(n) in the number of blocks, meant for
// periodic reporting rather than the allocation hot path.
func (a *Allocator) Stats() segalloc.DetailedStatistics {
	var s segalloc.DetailedStatistics
	s.Clear()
	s.BlockCount = 1

	a.VisitAllBlocks(func(addr Addr, size int, alloc int) {
		s.BlockBytes += size
		if alloc == 1 {
			s.AddAllocation(size - dwordSize)
		} else {
			s.AddUnusedRange(size)
		}
	})
	return s
}

// VisitAllBlocks walks every block after the prologue up to the
// epilogue, in physical order, calling visit with each block's payload
// address, size and allocation bit. It is a diagnostic aid, not part of
// the allocation hot path.
func (a *Allocator) VisitAllBlocks(visit func(addr Addr, size int, alloc int)) {
	for bp := nextBlockPayload(a.heapStart, dwordSize); ; {
		size, alloc := a.readHeader(bp)
		if size == 0 {
			return
		}
		visit(bp, size, alloc)
		bp = nextBlockPayload(bp, size)
	}
}
