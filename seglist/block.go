package seglist

const (
	// wordSize is the width of a header/footer/link word: 4 bytes.
	wordSize = 4
	// dwordSize is the double-word alignment unit: 8 bytes.
	dwordSize = 8
	// MinBlockSize is the smallest legal block: 4 header + 4 footer +
	// room for two 4-byte link words in the payload.
	MinBlockSize = 16
	// NumClasses is the number of segregated size classes.
	NumClasses = 10
	// DefaultInitialBytes is the size of the first free block carved out
	// by Init, and the floor on how much Allocate extends the heap by on
	// a miss.
	DefaultInitialBytes = 4096
)

// pack combines a block size and allocation bit into a single tag word.
// Sizes are always multiples of 8, so only the low bit is ever set.
func pack(size int, alloc int) uint32 {
	return uint32(size) | uint32(alloc&1)
}

// unpack splits a tag word back into size and allocation bit.
func unpack(word uint32) (size int, alloc int) {
	return int(word &^ 0x7), int(word & 0x1)
}

// sizeOf extracts just the size field from a tag word.
func sizeOf(word uint32) int {
	return int(word &^ 0x7)
}

// headerAddr returns the address of payload's header word.
func headerAddr(payload Addr) Addr {
	return payload - wordSize
}

// footerAddr returns the address of a size-byte block's footer word,
// given its payload address.
func footerAddr(payload Addr, size int) Addr {
	return payload + Addr(size) - dwordSize
}

// readHeader reads and unpacks the header word at payload.
func (a *Allocator) readHeader(payload Addr) (size int, alloc int) {
	return unpack(a.host.Word(headerAddr(payload)))
}

// writeTags writes the given (size, alloc) pair into both the header and
// footer of the block at payload.
func (a *Allocator) writeTags(payload Addr, size int, alloc int) {
	word := pack(size, alloc)
	a.host.SetWord(headerAddr(payload), word)
	a.host.SetWord(footerAddr(payload, size), word)
}

// nextBlockPayload returns the payload address of the block physically
// following the size-byte block at payload.
func nextBlockPayload(payload Addr, size int) Addr {
	return payload + Addr(size)
}

// prevBlockPayload returns the payload address of the block physically
// preceding payload, using the size recorded in that neighbor's footer
// (the word immediately before payload's own header).
func (a *Allocator) prevBlockPayload(payload Addr) Addr {
	prevSize := sizeOf(a.host.Word(payload - dwordSize))
	return payload - Addr(prevSize)
}
