package rentvec

import (
	"errors"
	"testing"

	"github.com/fulldump/biff"
)

func collect[T any](t *testing.T, v *Vec[T]) []T {
	t.Helper()

	g, err := v.Guard()
	biff.AssertNil(err)
	defer g.Release()

	result := []T{}
	for item := range g.Iter() {
		result = append(result, item)
	}
	return result
}

func pushAll[T any](t *testing.T, v *Vec[T], items ...T) []*Lease[T] {
	t.Helper()

	leases := make([]*Lease[T], 0, len(items))
	for _, item := range items {
		lease, err := v.Push(item)
		biff.AssertNil(err)
		leases = append(leases, lease)
	}
	return leases
}

func TestLease_RemoveRelocateReuse(t *testing.T) {

	v := New[int]()
	l := pushAll(t, v, 1, 2, 3)
	l1, l3 := l[0], l[2]

	removed, err := l1.Remove()
	biff.AssertNil(err)
	biff.AssertEqual(removed, 1)
	biff.AssertEqual(v.Len(), 2)

	// 3 lives in slot 0 now, slot 2 only points at it
	biff.AssertEqual(l3.Position(), 2)

	value, err := l3.Get()
	biff.AssertNil(err)
	biff.AssertEqual(value, 3)
	biff.AssertEqual(l3.Position(), 0)

	l4, err := v.Push(4)
	biff.AssertNil(err)
	biff.AssertEqual(l4.Position(), 2)

	biff.AssertEqual(collect(t, v), []int{3, 2, 4})
}

func TestLease_IdempotentRead(t *testing.T) {

	v := New[string]()
	l := pushAll(t, v, "a", "b", "c")

	_, err := l[0].Remove()
	biff.AssertNil(err)

	first, err := l[2].Get()
	biff.AssertNil(err)
	position := l[2].Position()

	second, err := l[2].Get()
	biff.AssertNil(err)

	biff.AssertEqual(first, "c")
	biff.AssertEqual(second, first)
	biff.AssertEqual(l[2].Position(), position)
}

func TestLease_DeadLease(t *testing.T) {

	v := New[int]()
	l := pushAll(t, v, 10)[0]

	_, err := l.Remove()
	biff.AssertNil(err)
	biff.AssertFalse(l.Alive())
	biff.AssertEqual(l.Position(), -1)

	_, err = l.Get()
	biff.AssertEqual(err, ErrInvalidLease)

	_, err = l.AccessMut()
	biff.AssertEqual(err, ErrInvalidLease)

	_, err = l.Remove()
	biff.AssertEqual(err, ErrInvalidLease)

	err = l.Update(func(item *int) error { return nil })
	biff.AssertEqual(err, ErrInvalidLease)
}

func TestLease_UpdateAndSet(t *testing.T) {

	v := New[int]()
	l := pushAll(t, v, 1, 2)

	err := l[1].Update(func(item *int) error {
		*item *= 10
		return nil
	})
	biff.AssertNil(err)

	ref, err := l[0].AccessMut()
	biff.AssertNil(err)
	ref.Set(7)
	ref.Release()

	biff.AssertEqual(collect(t, v), []int{7, 20})
}

func TestLease_UpdateReturnsError(t *testing.T) {

	v := New[int]()
	l := pushAll(t, v, 1)[0]

	myErr := errors.New("my error")
	err := l.Update(func(item *int) error {
		*item = 2
		return myErr
	})
	biff.AssertEqual(err, myErr)

	value, err := l.Get()
	biff.AssertNil(err)
	biff.AssertEqual(value, 2)
}

func TestLease_UpdateReleasesOnPanic(t *testing.T) {

	v := New[int]()
	l := pushAll(t, v, 1)[0]

	func() {
		defer func() {
			biff.AssertNotNil(recover())
		}()
		l.Update(func(item *int) error {
			panic("boom")
		})
	}()

	biff.AssertEqual(v.borrow, borrowState{})

	_, err := l.AccessMut()
	biff.AssertNil(err)
}

func TestLease_SelfConflicts(t *testing.T) {

	biff.Alternative("reading", func(a *biff.A) {

		l := pushAll(t, New[int](), 1)[0]

		ref, err := l.Access()
		biff.AssertNil(err)
		defer ref.Release()

		a.Alternative("second reader is fine", func(a *biff.A) {
			other, err := l.Access()
			biff.AssertNil(err)
			biff.AssertEqual(other.Value(), 1)
			other.Release()
		})

		a.Alternative("writer conflicts", func(a *biff.A) {
			_, err := l.AccessMut()
			biff.AssertTrue(errors.Is(err, ErrBorrowConflict))
		})

		a.Alternative("remove conflicts", func(a *biff.A) {
			_, err := l.Remove()
			biff.AssertTrue(errors.Is(err, ErrBorrowConflict))
			biff.AssertTrue(l.Alive())
		})
	})

	biff.Alternative("writing", func(a *biff.A) {

		v := New[int]()
		l := pushAll(t, v, 1)[0]

		ref, err := l.AccessMut()
		biff.AssertNil(err)
		defer ref.Release()

		a.Alternative("reader conflicts", func(a *biff.A) {
			_, err := l.Access()
			biff.AssertTrue(errors.Is(err, ErrBorrowConflict))
		})

		a.Alternative("second writer conflicts", func(a *biff.A) {
			_, err := l.AccessMut()
			biff.AssertTrue(errors.Is(err, ErrBorrowConflict))
		})

		a.Alternative("push conflicts", func(a *biff.A) {
			_, err := v.Push(2)
			biff.AssertTrue(errors.Is(err, ErrBorrowConflict))
			biff.AssertEqual(v.Len(), 1)
		})
	})
}

func TestLease_OtherLeasesDoNotConflict(t *testing.T) {

	v := New[int]()
	l := pushAll(t, v, 1, 2)

	first, err := l[0].AccessMut()
	biff.AssertNil(err)
	defer first.Release()

	second, err := l[1].AccessMut()
	biff.AssertNil(err)
	defer second.Release()

	*first.Value() = *second.Value() + 1
	biff.AssertEqual(*first.Value(), 3)
}

func TestLease_ReleaseIsIdempotent(t *testing.T) {

	v := New[int]()
	l := pushAll(t, v, 1)[0]

	ref, err := l.Access()
	biff.AssertNil(err)
	ref.Release()
	ref.Release()

	mut, err := l.AccessMut()
	biff.AssertNil(err)
	mut.Release()
	mut.Release()

	biff.AssertEqual(v.borrow, borrowState{})
	biff.AssertEqual(l.readers, 0)
	biff.AssertFalse(l.writing)
}

func TestLease_ValueAfterReleasePanics(t *testing.T) {

	v := New[int]()
	l := pushAll(t, v, 1)[0]

	ref, err := l.Access()
	biff.AssertNil(err)
	ref.Release()

	defer func() {
		biff.AssertNotNil(recover())
	}()
	ref.Value()
}

func TestLease_FreeReuse(t *testing.T) {

	v := New[int]()
	l := pushAll(t, v, 1, 2, 3, 4)

	// removing from the end frees slots without markers
	for _, lease := range []*Lease[int]{l[3], l[2]} {
		_, err := lease.Remove()
		biff.AssertNil(err)
	}

	stats := v.Stats()
	biff.AssertEqual(stats.Reusable, 2)

	l5, err := v.Push(5)
	biff.AssertNil(err)
	biff.AssertEqual(l5.Position(), 2)
	biff.AssertEqual(v.Stats().Slots, 4)
}

func TestLease_ResolveOnlyOnce(t *testing.T) {

	v := New[int]()
	l := pushAll(t, v, 1, 2, 3)

	_, err := l[0].Remove()
	biff.AssertNil(err)
	biff.AssertEqual(v.Stats().Relocated, 1)

	_, err = l[2].Get()
	biff.AssertNil(err)

	stats := v.Stats()
	biff.AssertEqual(stats.Relocated, 0)
	biff.AssertEqual(stats.Reusable, 1)
}

func TestVec_CapacityExceeded(t *testing.T) {

	v := New[int](WithMaxSlots(2), WithCapacity(8))
	l := pushAll(t, v, 1, 2)

	_, err := v.Push(3)
	biff.AssertEqual(err, ErrCapacityExceeded)
	biff.AssertEqual(v.Len(), 2)

	_, err = l[1].Remove()
	biff.AssertNil(err)

	_, err = v.Push(3)
	biff.AssertNil(err)
	biff.AssertEqual(collect(t, v), []int{1, 3})
}
