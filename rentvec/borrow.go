package rentvec

// Access identifies a kind of access to the container.
type Access uint8

const (
	AccessNone Access = iota
	AccessLeaseShared
	AccessLeaseExclusive
	AccessGuardShared
	AccessGuardExclusive
	AccessStructural
)

func (a Access) String() string {
	switch a {
	case AccessNone:
		return "none"
	case AccessLeaseShared:
		return "shared lease access"
	case AccessLeaseExclusive:
		return "exclusive lease access"
	case AccessGuardShared:
		return "shared guard"
	case AccessGuardExclusive:
		return "exclusive guard"
	case AccessStructural:
		return "structural change"
	}
	return "unknown access"
}

// borrowState counts the outstanding accesses of one container. Lease
// accesses to different items never alias each other, so any number of them
// may coexist; the counters only arbitrate leases against guards and against
// structural changes, which may move or reallocate items.
type borrowState struct {
	leaseShared    int
	leaseExclusive int
	guardShared    int
	guardExclusive bool
}

// blocker returns the outstanding access that prevents a, or AccessNone.
func (b *borrowState) blocker(a Access) Access {

	switch a {
	case AccessLeaseShared:
		if b.guardExclusive {
			return AccessGuardExclusive
		}
	case AccessLeaseExclusive:
		if b.guardExclusive {
			return AccessGuardExclusive
		}
		if b.guardShared > 0 {
			return AccessGuardShared
		}
	case AccessGuardShared:
		if b.guardExclusive {
			return AccessGuardExclusive
		}
		if b.leaseExclusive > 0 {
			return AccessLeaseExclusive
		}
	case AccessGuardExclusive, AccessStructural:
		return b.held()
	}

	return AccessNone
}

func (b *borrowState) held() Access {
	switch {
	case b.guardExclusive:
		return AccessGuardExclusive
	case b.guardShared > 0:
		return AccessGuardShared
	case b.leaseExclusive > 0:
		return AccessLeaseExclusive
	case b.leaseShared > 0:
		return AccessLeaseShared
	}
	return AccessNone
}

func (b *borrowState) check(a Access) error {
	if held := b.blocker(a); held != AccessNone {
		return &BorrowConflictError{Requested: a, Held: held}
	}
	return nil
}

func (b *borrowState) acquire(a Access) error {

	if err := b.check(a); err != nil {
		return err
	}

	switch a {
	case AccessLeaseShared:
		b.leaseShared++
	case AccessLeaseExclusive:
		b.leaseExclusive++
	case AccessGuardShared:
		b.guardShared++
	case AccessGuardExclusive:
		b.guardExclusive = true
	}

	return nil
}

func (b *borrowState) release(a Access) {
	switch a {
	case AccessLeaseShared:
		b.leaseShared--
	case AccessLeaseExclusive:
		b.leaseExclusive--
	case AccessGuardShared:
		b.guardShared--
	case AccessGuardExclusive:
		b.guardExclusive = false
	}
}
