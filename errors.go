// Package segalloc implements a general-purpose dynamic storage allocator
// over a single, contiguous, monotonically growable byte region supplied by
// a host memory primitive. The hard engineering — in-band block layout,
// boundary-tag coalescing, and the segregated free-list index — lives in
// the seglist subpackage; this package carries the ambient stack: error
// wrapping, statistics, alignment helpers and debug-build validation.
package segalloc

import (
	cerrors "github.com/cockroachdb/errors"
)

// ErrOutOfMemory marks any error surfaced by the host memory primitive
// refusing to grow the region further. Check for it with
// cerrors.Is(err, segalloc.ErrOutOfMemory).
var ErrOutOfMemory = cerrors.New("segalloc: out of memory")

// ErrInvalidHost marks a Host implementation returning an address that
// violates its contract: ExtendRegion must hand back the address
// immediately following the previous frontier, with no gap or overlap.
var ErrInvalidHost = cerrors.New("segalloc: host primitive violated its contract")

// WrapOutOfMemory marks err, surfaced by a Host while doing why, as an
// out-of-memory condition, preserving err's text for diagnostics while
// letting callers test cerrors.Is(result, ErrOutOfMemory).
func WrapOutOfMemory(err error, why string) error {
	if err == nil {
		return nil
	}
	return cerrors.Wrapf(ErrOutOfMemory, "%s: %v", why, err)
}

// WrapInvalidHost reports that a Host's ExtendRegion call returned an
// address other than the one immediately following the previous
// frontier, during the step named by why.
func WrapInvalidHost(why string, expected, got int) error {
	return cerrors.Wrapf(ErrInvalidHost, "%s: expected region to extend at %d, got %d", why, expected, got)
}
