package rentvec

import (
	"errors"
	"fmt"
)

var (
	// ErrBorrowConflict is returned when an access or a structural change is
	// requested while a conflicting guard or lease access is outstanding.
	//
	// Recovery: release the conflicting guard and retry.
	ErrBorrowConflict = errors.New("rentvec: borrow conflict")

	// ErrInvalidLease is returned when a lease is used after Remove, or when
	// its cached position does not lead to an occupied slot.
	//
	// This is a programming error.
	ErrInvalidLease = errors.New("rentvec: invalid lease")

	// ErrCapacityExceeded is returned by Push when the backing storage would
	// grow past the limit configured with WithMaxSlots.
	ErrCapacityExceeded = errors.New("rentvec: capacity exceeded")
)

// BorrowConflictError describes which access was requested and which
// outstanding access prevented it.
type BorrowConflictError struct {
	Requested Access
	Held      Access
}

func (e *BorrowConflictError) Error() string {
	return fmt.Sprintf("rentvec: borrow conflict: %s requested while %s is held", e.Requested, e.Held)
}

func (e *BorrowConflictError) Is(target error) bool {
	return target == ErrBorrowConflict
}
