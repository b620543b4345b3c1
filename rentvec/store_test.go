package rentvec

import (
	"errors"
	"testing"

	"github.com/fulldump/biff"
)

func newTestStore(values ...string) *store[string] {
	s := newStore[string](0, 0)
	for _, value := range values {
		s.push(value)
	}
	return s
}

func states(s *store[string]) []slotState {
	result := []slotState{}
	for _, sl := range s.slots {
		result = append(result, sl.state)
	}
	return result
}

func TestStore_PushAppends(t *testing.T) {

	s := newTestStore()

	for i, value := range []string{"a", "b", "c"} {
		position, err := s.push(value)
		biff.AssertNil(err)
		biff.AssertEqual(position, i)
	}

	biff.AssertEqual(s.count, 3)
	biff.AssertEqual(s.tail, 3)
	biff.AssertEqual(*s.get(1), "b")
}

func TestStore_RemoveLastFreesDirectly(t *testing.T) {

	s := newTestStore("a", "b", "c")

	removed, moved, err := s.remove(2)
	biff.AssertNil(err)
	biff.AssertEqual(removed, "c")
	biff.AssertEqual(moved, noPosition)
	biff.AssertEqual(states(s), []slotState{slotOccupied, slotOccupied, slotFree})
	biff.AssertEqual(s.tail, 2)
	biff.AssertTrue(s.free.has(2))
}

func TestStore_RemoveSoleItem(t *testing.T) {

	s := newTestStore("a")

	removed, moved, err := s.remove(0)
	biff.AssertNil(err)
	biff.AssertEqual(removed, "a")
	biff.AssertEqual(moved, noPosition)
	biff.AssertEqual(s.count, 0)
	biff.AssertEqual(s.tail, 0)
	biff.AssertEqual(s.stats().Relocated, 0)
}

func TestStore_RemoveSwapsLastIntoHole(t *testing.T) {

	s := newTestStore("a", "b", "c")

	removed, moved, err := s.remove(0)
	biff.AssertNil(err)
	biff.AssertEqual(removed, "a")
	biff.AssertEqual(moved, 2)

	biff.AssertEqual(states(s), []slotState{slotOccupied, slotOccupied, slotRelocated})
	biff.AssertEqual(*s.get(0), "c")
	biff.AssertEqual(s.slots[2].target, 0)
	biff.AssertEqual(s.slots[0].origin, 2)

	// no gap below the tail
	biff.AssertEqual(s.tail, 2)
	biff.AssertEqual(s.count, 2)

	// the marker is still needed, it must not be reusable yet
	biff.AssertEqual(s.free.len(), 0)
}

func TestStore_ResolveFollowsOneHop(t *testing.T) {

	s := newTestStore("a", "b", "c")
	s.remove(0)

	position, err := s.resolve(2)
	biff.AssertNil(err)
	biff.AssertEqual(position, 0)
	biff.AssertTrue(s.isOccupied(position))
	biff.AssertEqual(s.slots[0].origin, noPosition)
	biff.AssertEqual(s.slots[2].state, slotFree)
	biff.AssertTrue(s.free.has(2))

	// second resolution is a no-op
	position, err = s.resolve(0)
	biff.AssertNil(err)
	biff.AssertEqual(position, 0)
	biff.AssertEqual(s.free.len(), 1)
}

func TestStore_RetargetInsteadOfChaining(t *testing.T) {

	s := newTestStore("a", "b", "c", "d")

	s.remove(1) // d moves 3 -> 1
	biff.AssertEqual(s.slots[3].target, 1)

	s.remove(2) // c is last, freed directly
	biff.AssertEqual(s.tail, 2)

	s.remove(0) // d moves again 1 -> 0

	biff.AssertEqual(*s.get(0), "d")
	biff.AssertEqual(s.slots[3].state, slotRelocated)
	biff.AssertEqual(s.slots[3].target, 0)
	biff.AssertEqual(s.slots[1].state, slotFree)

	position, err := s.resolve(3)
	biff.AssertNil(err)
	biff.AssertEqual(position, 0)
	biff.AssertTrue(s.isOccupied(position))
}

func TestStore_ResolveFreeSlotFails(t *testing.T) {

	s := newTestStore("a", "b")
	s.remove(1)

	_, err := s.resolve(1)
	biff.AssertTrue(errors.Is(err, ErrInvalidLease))

	_, err = s.resolve(10)
	biff.AssertTrue(errors.Is(err, ErrInvalidLease))
}

func TestStore_RemoveNotOccupiedFails(t *testing.T) {

	s := newTestStore("a", "b", "c")
	s.remove(0)

	_, _, err := s.remove(2) // relocation marker
	biff.AssertTrue(errors.Is(err, ErrInvalidLease))

	_, _, err = s.remove(0) // still reached through the marker at 2
	biff.AssertTrue(errors.Is(err, ErrInvalidLease))

	biff.AssertEqual(s.count, 2)
}

func TestStore_PushReusesLowestFreeFirst(t *testing.T) {

	s := newTestStore("a", "b", "c", "d")
	s.remove(3)
	s.remove(2)

	position, _ := s.push("e")
	biff.AssertEqual(position, 2)

	position, _ = s.push("f")
	biff.AssertEqual(position, 3)

	position, _ = s.push("g")
	biff.AssertEqual(position, 4)
}

func TestStore_CapacityExceeded(t *testing.T) {

	s := newStore[string](0, 2)
	s.push("a")
	s.push("b")

	position, err := s.push("c")
	biff.AssertEqual(err, ErrCapacityExceeded)
	biff.AssertEqual(position, noPosition)
	biff.AssertEqual(s.count, 2)
	biff.AssertEqual(len(s.slots), 2)

	// freed slots are still usable
	s.remove(1)
	position, err = s.push("c")
	biff.AssertNil(err)
	biff.AssertEqual(position, 1)
}

func TestStore_ShrinkTrimsTrailingFree(t *testing.T) {

	s := newTestStore("a", "b", "c", "d")
	s.remove(3)
	s.remove(2)

	trimmed := s.shrink()
	biff.AssertEqual(trimmed, 2)
	biff.AssertEqual(len(s.slots), 2)
	biff.AssertTrue(cap(s.slots) < 4)
	biff.AssertEqual(s.free.len(), 0)

	position, _ := s.push("e")
	biff.AssertEqual(position, 2)
}

func TestStore_ShrinkKeepsMarkers(t *testing.T) {

	s := newTestStore("a", "b", "c")
	s.remove(0)

	trimmed := s.shrink()
	biff.AssertEqual(trimmed, 0)
	biff.AssertEqual(states(s), []slotState{slotOccupied, slotOccupied, slotRelocated})
}

func TestStore_Stats(t *testing.T) {

	s := newTestStore("a", "b", "c", "d")
	s.remove(0) // d relocated from 3
	s.remove(2) // c freed

	biff.AssertEqual(s.stats(), Stats{
		Len:       2,
		Tail:      2,
		Slots:     4,
		Capacity:  cap(s.slots),
		Occupied:  2,
		Relocated: 1,
		Free:      1,
		Reusable:  1,
	})
}
