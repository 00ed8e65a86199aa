// Package diag holds the allocator's diagnostic pretty-printing: a JSON
// heap-map dump and structured per-allocation logging. Neither is part
// of the allocator's core — they only read it through its exported
// surface (Stats, VisitAllBlocks) — so a build that never imports diag
// never pays for jwriter or slog.
package diag

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"golang.org/x/exp/slog"

	"github.com/brkheap/segalloc/seglist"
)

// HeapMap renders the current block layout as a JSON object: overall
// statistics under "Stats", followed by a "Blocks" array in physical
// order, each entry giving its offset, size and whether it is free.
func HeapMap(a *seglist.Allocator) ([]byte, error) {
	w := jwriter.NewWriter()

	obj := w.Object()
	stats := a.Stats()

	statsObj := obj.Name("Stats").Object()
	statsObj.Name("TotalBytes").Int(stats.BlockBytes)
	statsObj.Name("AllocationBytes").Int(stats.AllocationBytes)
	statsObj.Name("AllocationCount").Int(stats.AllocationCount)
	statsObj.Name("UnusedRangeCount").Int(stats.UnusedRangeCount)
	statsObj.End()

	blocks := obj.Name("Blocks").Array()
	a.VisitAllBlocks(func(addr seglist.Addr, size int, alloc int) {
		blockObj := blocks.Object()
		blockObj.Name("Offset").Int(int(addr))
		blockObj.Name("Size").Int(size)
		blockObj.Name("Free").Bool(alloc == 0)
		blockObj.End()
	})
	blocks.End()
	obj.End()

	return w.Bytes(), w.Error()
}

// LogAllocations emits one structured log record per currently
// allocated block, in physical order. It is meant for occasional
// debugging sessions, not steady-state operation — walking every block
// is O(n).
func LogAllocations(logger *slog.Logger, a *seglist.Allocator) {
	a.VisitAllBlocks(func(addr seglist.Addr, size int, alloc int) {
		if alloc == 0 {
			return
		}
		logger.Info("live allocation",
			slog.Int("offset", int(addr)),
			slog.Int("size", size),
		)
	})
}
