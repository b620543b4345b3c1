package rentvec

import (
	"errors"
	"testing"

	"github.com/fulldump/biff"
)

func TestBorrowState_Matrix(t *testing.T) {

	type testCase struct {
		name      string
		held      []Access
		requested Access
		blocker   Access
	}

	cases := []testCase{
		{"lease shared, nothing held", nil, AccessLeaseShared, AccessNone},
		{"lease shared under shared guard", []Access{AccessGuardShared}, AccessLeaseShared, AccessNone},
		{"lease shared under exclusive guard", []Access{AccessGuardExclusive}, AccessLeaseShared, AccessGuardExclusive},
		{"lease exclusive next to other lease exclusive", []Access{AccessLeaseExclusive}, AccessLeaseExclusive, AccessNone},
		{"lease exclusive next to lease shared", []Access{AccessLeaseShared}, AccessLeaseExclusive, AccessNone},
		{"lease exclusive under shared guard", []Access{AccessGuardShared}, AccessLeaseExclusive, AccessGuardShared},
		{"lease exclusive under exclusive guard", []Access{AccessGuardExclusive}, AccessLeaseExclusive, AccessGuardExclusive},
		{"shared guard next to lease shared", []Access{AccessLeaseShared}, AccessGuardShared, AccessNone},
		{"shared guard next to lease exclusive", []Access{AccessLeaseExclusive}, AccessGuardShared, AccessLeaseExclusive},
		{"two shared guards", []Access{AccessGuardShared}, AccessGuardShared, AccessNone},
		{"exclusive guard next to lease shared", []Access{AccessLeaseShared}, AccessGuardExclusive, AccessLeaseShared},
		{"exclusive guard next to shared guard", []Access{AccessGuardShared}, AccessGuardExclusive, AccessGuardShared},
		{"structural, nothing held", nil, AccessStructural, AccessNone},
		{"structural next to lease shared", []Access{AccessLeaseShared}, AccessStructural, AccessLeaseShared},
		{"structural under exclusive guard", []Access{AccessGuardExclusive}, AccessStructural, AccessGuardExclusive},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := &borrowState{}
			for _, held := range c.held {
				biff.AssertNil(b.acquire(held))
			}

			err := b.acquire(c.requested)
			if c.blocker == AccessNone {
				biff.AssertNil(err)
				return
			}

			biff.AssertTrue(errors.Is(err, ErrBorrowConflict))
			conflict := &BorrowConflictError{}
			biff.AssertTrue(errors.As(err, &conflict))
			biff.AssertEqual(conflict.Requested, c.requested)
			biff.AssertEqual(conflict.Held, c.blocker)
		})
	}
}

func TestBorrowState_ReleaseRestores(t *testing.T) {

	b := &borrowState{}
	biff.AssertNil(b.acquire(AccessGuardExclusive))
	biff.AssertNotNil(b.acquire(AccessLeaseExclusive))

	b.release(AccessGuardExclusive)
	biff.AssertNil(b.acquire(AccessLeaseExclusive))
	biff.AssertNotNil(b.acquire(AccessStructural))

	b.release(AccessLeaseExclusive)
	biff.AssertNil(b.acquire(AccessStructural))
	biff.AssertEqual(*b, borrowState{})
}

func TestBorrowConflictError_Message(t *testing.T) {

	err := &BorrowConflictError{Requested: AccessLeaseExclusive, Held: AccessGuardShared}

	biff.AssertEqual(err.Error(), "rentvec: borrow conflict: exclusive lease access requested while shared guard is held")
}
