// Package rentvec provides a contiguous, growable container that hands out
// leases to the items pushed into it.
//
// Removing an item moves the last occupied item into the freed slot so that
// storage stays packed. The slot the moved item came from is left as a
// relocation marker pointing at its new position. The lease of the moved item
// is not told about the move: the next time it is accessed it follows the
// marker, caches the new position and frees the marker slot, which is then
// reused by later pushes. A marker is followed at most once, so after the first
// access a lease reaches its item in O(1).
//
//	vec := rentvec.New[int]()
//	lease, _ := vec.Push(1)
//	lease.Update(func(item *int) error {
//		*item = 2
//		return nil
//	})
//	lease.Remove()
//
// Whole-container access goes through guards that exclude lease writers:
//
//	guard, err := vec.Guard()
//	if err != nil {
//		return err
//	}
//	defer guard.Release()
//	for item := range guard.Iter() {
//		...
//	}
//
// Access rules are checked at runtime and a conflicting request fails
// immediately with ErrBorrowConflict. A Vec is meant to be used from a single
// goroutine (or behind a mutex owned by the caller); the borrow tracker
// protects against aliasing, not against data races.
//
// Reading through a lease while a shared guard is held never changes the slot
// layout. A lease that finds its item moved follows the relocation marker but
// leaves it in place; the marker is recycled by the first access made after
// the guards are released.
//
// Dropping a live lease without calling Remove is allowed. The item stays in
// the container and remains visible through guards; if it had been moved and
// the lease never observed the move, its relocation marker stays reserved.
package rentvec
