// Package seglist implements the core of the allocator: in-band block
// layout, boundary-tag coalescing, and a ten-class segregated free-list
// index that accelerates first-fit search. The design trades TLSF's
// interface-based, handle-indirected block records for the classical
// in-band header/footer layout, trading bitmap-accelerated lookup for
// a fixed ten-bucket first-fit search.
package seglist

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Addr is a byte offset from the start of the host region, not a raw
// pointer: every access goes through Host, so an offset remains valid
// even if the host's backing storage is copied to a larger array on
// growth. Header, footer and link words stay 4 bytes wide regardless of
// host pointer width.
type Addr int32

// NoAddr is the null payload address: the sentinel returned by Allocate on
// failure or zero-size request, stored in link words to mean "no
// neighbor", and compared against by Free/Reallocate to detect null.
const NoAddr Addr = -1

// Host is the brk-like memory primitive the allocator is built on top of.
// It is an external collaborator, not part of the core: the allocator
// never unmaps or shrinks the region, so a Host implementation only needs
// to support monotonic growth and aligned word access.
type Host interface {
	// ExtendRegion appends bytes to the backing region and returns the
	// address of the first newly-added byte. It must preserve existing
	// contents and must not move previously-issued addresses.
	ExtendRegion(bytes int) (Addr, error)
	// RegionLow returns the lowest valid byte address in the region, or
	// NoAddr if the region is empty.
	RegionLow() Addr
	// RegionHigh returns the highest valid byte address currently in the
	// region, or NoAddr if the region is empty.
	RegionHigh() Addr
	// Word reads the 32-bit word at addr, which must be 4-byte aligned
	// and within [RegionLow, RegionHigh].
	Word(addr Addr) uint32
	// SetWord writes the 32-bit word at addr, which must be 4-byte
	// aligned and within [RegionLow, RegionHigh].
	SetWord(addr Addr, value uint32)
}

// ByteSliceHost is the concrete Host used in production: a growable
// []byte standing in for the brk-extended address space. Addresses handed
// out remain valid across growth because callers never hold a pointer
// into buf directly, only the Addr offset, mirroring the arena-over-a-
// byte-buffer approach in other_examples/pboyd-malloc__malloc.go.
type ByteSliceHost struct {
	buf []byte
}

// NewByteSliceHost returns an empty host with no region yet extended.
func NewByteSliceHost() *ByteSliceHost {
	return &ByteSliceHost{}
}

func (h *ByteSliceHost) ExtendRegion(bytes int) (Addr, error) {
	if bytes <= 0 {
		return NoAddr, errors.Errorf("extend request of %d bytes must be positive", bytes)
	}
	if bytes%4 != 0 {
		return NoAddr, errors.Errorf("extend request of %d bytes is not 4-byte aligned", bytes)
	}
	addr := Addr(len(h.buf))
	h.buf = append(h.buf, make([]byte, bytes)...)
	return addr, nil
}

func (h *ByteSliceHost) RegionLow() Addr {
	if len(h.buf) == 0 {
		return NoAddr
	}
	return 0
}

func (h *ByteSliceHost) RegionHigh() Addr {
	if len(h.buf) == 0 {
		return NoAddr
	}
	return Addr(len(h.buf) - 1)
}

func (h *ByteSliceHost) Word(addr Addr) uint32 {
	return binary.LittleEndian.Uint32(h.buf[addr : addr+4])
}

func (h *ByteSliceHost) SetWord(addr Addr, value uint32) {
	binary.LittleEndian.PutUint32(h.buf[addr:addr+4], value)
}
