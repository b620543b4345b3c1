package rentvec

import (
	"testing"

	"github.com/fulldump/biff"
)

func TestFreeList_AcquireLowestFirst(t *testing.T) {

	f := newFreeList()
	f.reclaim(7)
	f.reclaim(2)
	f.reclaim(5)

	for _, expected := range []int{2, 5, 7} {
		position, ok := f.acquire()
		biff.AssertTrue(ok)
		biff.AssertEqual(position, expected)
	}

	_, ok := f.acquire()
	biff.AssertFalse(ok)
}

func TestFreeList_ReclaimTwiceKeepsOne(t *testing.T) {

	f := newFreeList()
	f.reclaim(3)
	f.reclaim(3)

	biff.AssertEqual(f.len(), 1)
}

func TestFreeList_Forget(t *testing.T) {

	f := newFreeList()
	f.reclaim(1)
	f.reclaim(4)

	biff.AssertTrue(f.forget(4))
	biff.AssertFalse(f.forget(4))
	biff.AssertFalse(f.has(4))
	biff.AssertTrue(f.has(1))
}
