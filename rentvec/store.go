package rentvec

import (
	"fmt"
	"slices"
)

// store is the backing sequence of slots.
//
// Every position below tail that is not occupied is either a relocation
// marker still waiting for its lease or a free slot; slot tail-1 is always
// occupied when tail > 0.
type store[T any] struct {
	slots    []slot[T]
	free     *freeList
	tail     int
	count    int
	maxSlots int
}

func newStore[T any](capacity, maxSlots int) *store[T] {
	return &store[T]{
		slots:    make([]slot[T], 0, capacity),
		free:     newFreeList(),
		maxSlots: maxSlots,
	}
}

func (s *store[T]) push(value T) (int, error) {

	position, reused := s.free.acquire()
	if !reused {
		if s.maxSlots > 0 && len(s.slots) >= s.maxSlots {
			return noPosition, ErrCapacityExceeded
		}
		position = len(s.slots)
		s.slots = append(s.slots, freeSlot[T]())
	}

	s.slots[position] = occupiedSlot(value)
	s.count++
	if position >= s.tail {
		s.tail = position + 1
	}

	return position, nil
}

// remove takes the item out of an occupied position and fills the hole with
// the last occupied item. It returns the removed value and the position the
// last item was moved from, or noPosition if nothing moved.
func (s *store[T]) remove(position int) (T, int, error) {

	var zero T
	if !s.isOccupied(position) {
		return zero, noPosition, fmt.Errorf("%w: position %d is not occupied", ErrInvalidLease, position)
	}
	if origin := s.slots[position].origin; origin != noPosition {
		return zero, noPosition, fmt.Errorf("%w: position %d is still reached through %d", ErrInvalidLease, position, origin)
	}

	removed := s.slots[position].value
	last := s.tail - 1
	moved := noPosition

	if position == last {
		s.release(position)
	} else {
		tenant := s.slots[last]
		s.slots[position] = occupiedSlot(tenant.value)
		if tenant.origin != noPosition {
			// The lease of the moved item still points at an older marker:
			// retarget it instead of chaining a second hop.
			s.slots[tenant.origin].target = position
			s.slots[position].origin = tenant.origin
			s.release(last)
		} else {
			s.slots[last] = relocatedSlot[T](position)
			s.slots[position].origin = last
		}
		moved = last
	}

	s.count--
	s.shrinkTail()

	return removed, moved, nil
}

// resolve returns the position an item cached at position currently lives at.
// A relocation marker is followed once and then recycled.
func (s *store[T]) resolve(position int) (int, error) {

	target, err := s.follow(position)
	if err != nil {
		return noPosition, err
	}

	if target != position {
		s.slots[target].origin = noPosition
		s.release(position)
	}

	return target, nil
}

// follow is resolve without recycling the marker. The slot layout is left
// untouched.
func (s *store[T]) follow(position int) (int, error) {

	if position < 0 || position >= len(s.slots) {
		return noPosition, fmt.Errorf("%w: position %d out of range", ErrInvalidLease, position)
	}

	current := s.slots[position]
	switch current.state {
	case slotOccupied:
		return position, nil
	case slotRelocated:
		target := current.target
		if !s.isOccupied(target) || s.slots[target].origin != position {
			return noPosition, fmt.Errorf("%w: broken relocation %d -> %d", ErrInvalidLease, position, target)
		}
		return target, nil
	}

	return noPosition, fmt.Errorf("%w: position %d is free", ErrInvalidLease, position)
}

func (s *store[T]) get(position int) *T {
	return &s.slots[position].value
}

func (s *store[T]) isOccupied(position int) bool {
	return position >= 0 && position < len(s.slots) && s.slots[position].state == slotOccupied
}

func (s *store[T]) release(position int) {
	s.slots[position] = freeSlot[T]()
	s.free.reclaim(position)
}

func (s *store[T]) shrinkTail() {
	for s.tail > 0 && s.slots[s.tail-1].state != slotOccupied {
		s.tail--
	}
}

// shrink drops trailing free slots and reallocates the backing storage to
// fit. Relocation markers are kept, some lease still needs them.
func (s *store[T]) shrink() int {
	n := len(s.slots)
	for n > 0 && s.slots[n-1].state == slotFree {
		s.free.forget(n - 1)
		n--
	}
	trimmed := len(s.slots) - n
	if cap(s.slots) > n {
		s.slots = slices.Clone(s.slots[:n])
	}
	return trimmed
}

// Stats is a snapshot of the slot layout.
type Stats struct {
	Len       int `json:"len"`
	Tail      int `json:"tail"`
	Slots     int `json:"slots"`
	Capacity  int `json:"capacity"`
	Occupied  int `json:"occupied"`
	Relocated int `json:"relocated"`
	Free      int `json:"free"`
	Reusable  int `json:"reusable"`
}

func (s *store[T]) stats() Stats {
	stats := Stats{
		Len:      s.count,
		Tail:     s.tail,
		Slots:    len(s.slots),
		Capacity: cap(s.slots),
		Reusable: s.free.len(),
	}
	for i := range s.slots {
		switch s.slots[i].state {
		case slotOccupied:
			stats.Occupied++
		case slotRelocated:
			stats.Relocated++
		case slotFree:
			stats.Free++
		}
	}
	return stats
}
