package seglist

// find performs a first-fit search for a free block of at least asize
// bytes, starting at SizeToClass(asize) and escalating through class 9
// until a fit is found or the directory is exhausted. Within a class,
// blocks are visited in insertion-LIFO order; no sorting, no best-fit.
func (a *Allocator) find(asize int) (Addr, bool) {
	for class := SizeToClass(asize); class < NumClasses; class++ {
		for node := a.classHead(class); node != NoAddr; node = a.linkNext(node) {
			size, _ := a.readHeader(node)
			if size >= asize {
				return node, true
			}
		}
	}
	return NoAddr, false
}
