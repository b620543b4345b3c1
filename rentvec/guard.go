package rentvec

import (
	"iter"
)

// Guard is shared access to a whole Vec. While it is held leases may still
// read their items but cannot take exclusive access, and nothing can be pushed
// or removed.
type Guard[T any] struct {
	vec      *Vec[T]
	access   Access
	released bool
}

// Iter yields the items in slot order. Every call starts a new pass; a
// released guard yields nothing.
func (g *Guard[T]) Iter() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range g.All() {
			if !yield(item) {
				return
			}
		}
	}
}

// All yields the items in slot order together with their positions.
func (g *Guard[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		s := g.vec.store
		for i := 0; !g.released && i < s.tail; i++ {
			if s.slots[i].state != slotOccupied {
				continue
			}
			if !yield(i, s.slots[i].value) {
				return
			}
		}
	}
}

// Len returns the number of live items.
func (g *Guard[T]) Len() int {
	return g.vec.store.count
}

// Release gives the access back. Calling it more than once has no effect.
func (g *Guard[T]) Release() {
	if g.released {
		return
	}
	g.released = true
	g.vec.borrow.release(g.access)
}

// GuardMut is exclusive access to a whole Vec: no lease can access its item
// while it is held.
type GuardMut[T any] struct {
	Guard[T]
}

// IterMut yields pointers to the items in slot order. The pointers are valid
// until the guard is released.
func (g *GuardMut[T]) IterMut() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		s := g.vec.store
		for i := 0; !g.released && i < s.tail; i++ {
			if s.slots[i].state != slotOccupied {
				continue
			}
			if !yield(&s.slots[i].value) {
				return
			}
		}
	}
}
