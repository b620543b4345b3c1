package rentvec

import (
	"github.com/google/btree"
)

// freeList keeps the positions that are known to be free. Relocated markers
// never enter it: a marker is only reclaimed after a lease resolved through
// it. Positions are handed out lowest first.
type freeList struct {
	positions *btree.BTreeG[int]
}

func newFreeList() *freeList {
	return &freeList{
		positions: btree.NewOrderedG[int](16),
	}
}

func (f *freeList) reclaim(position int) {
	f.positions.ReplaceOrInsert(position)
}

func (f *freeList) acquire() (int, bool) {
	return f.positions.DeleteMin()
}

func (f *freeList) forget(position int) bool {
	_, found := f.positions.Delete(position)
	return found
}

func (f *freeList) has(position int) bool {
	return f.positions.Has(position)
}

func (f *freeList) len() int {
	return f.positions.Len()
}
