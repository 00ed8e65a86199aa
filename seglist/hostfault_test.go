package seglist_test

import (
	"github.com/brkheap/segalloc/seglist"
	"github.com/pkg/errors"
)

// exhaustibleHost wraps a real ByteSliceHost but can be armed to refuse
// ExtendRegion after a fixed number of calls, simulating the host
// memory primitive running out of backing storage. It exists purely to
// exercise the allocator's out-of-memory propagation paths, which a
// never-failing host can't reach.
type exhaustibleHost struct {
	*seglist.ByteSliceHost
	calls       int
	refuseAfter int // -1 means never refuse
}

func newExhaustibleHost() *exhaustibleHost {
	return &exhaustibleHost{ByteSliceHost: seglist.NewByteSliceHost(), refuseAfter: -1}
}

func (h *exhaustibleHost) ExtendRegion(bytes int) (seglist.Addr, error) {
	if h.refuseAfter >= 0 && h.calls >= h.refuseAfter {
		return seglist.NoAddr, errors.New("host refuses to grow the region any further")
	}
	h.calls++
	return h.ByteSliceHost.ExtendRegion(bytes)
}

// skewedHost wraps a real ByteSliceHost but reports one extra word of
// slack on every ExtendRegion call, producing an address that does not
// immediately follow the previous frontier. It exists purely to exercise
// the allocator's host-contract validation, which a well-behaved host
// can't reach.
type skewedHost struct {
	*seglist.ByteSliceHost
}

func newSkewedHost() *skewedHost {
	return &skewedHost{ByteSliceHost: seglist.NewByteSliceHost()}
}

func (h *skewedHost) ExtendRegion(bytes int) (seglist.Addr, error) {
	addr, err := h.ByteSliceHost.ExtendRegion(bytes + 4)
	if err != nil {
		return seglist.NoAddr, err
	}
	return addr + 4, nil
}
