package rentvec

// Lease is the handle to one item of a Vec. It caches the position of its
// item and corrects it the first time it finds out the item was moved.
//
// A lease must not be copied: two copies would both try to recycle the same
// relocation marker.
type Lease[T any] struct {
	vec      *Vec[T]
	position int
	dead     bool

	readers int
	writing bool
}

// Position returns the cached position of the item, or -1 once the lease is
// removed. The item may have moved since, the next access finds out.
func (l *Lease[T]) Position() int {
	if l.dead {
		return noPosition
	}
	return l.position
}

// Alive reports whether Remove has not been called yet.
func (l *Lease[T]) Alive() bool {
	return !l.dead
}

// resolve returns the current position of the item. While a shared guard is
// iterating the slot layout must not change, so the marker is only followed;
// it is recycled by the first access after the guards are gone.
func (l *Lease[T]) resolve() (int, error) {

	if l.vec.borrow.guardShared > 0 {
		return l.vec.store.follow(l.position)
	}

	position, err := l.vec.store.resolve(l.position)
	if err != nil {
		return noPosition, err
	}

	if position != l.position {
		l.vec.logger.Debug("rentvec: lease resolved relocation", "from", l.position, "to", position)
		l.position = position
	}

	return position, nil
}

// Access returns a shared view of the item. Several views of the same item may
// be held at once; the view must be released.
func (l *Lease[T]) Access() (*Ref[T], error) {

	if l.dead {
		return nil, ErrInvalidLease
	}
	if l.writing {
		return nil, l.vec.conflict(&BorrowConflictError{Requested: AccessLeaseShared, Held: AccessLeaseExclusive})
	}
	if err := l.vec.borrow.acquire(AccessLeaseShared); err != nil {
		return nil, l.vec.conflict(err)
	}
	position, err := l.resolve()
	if err != nil {
		l.vec.borrow.release(AccessLeaseShared)
		return nil, err
	}

	l.readers++

	return &Ref[T]{
		lease: l,
		value: l.vec.store.get(position),
	}, nil
}

// AccessMut returns an exclusive view of the item. It fails while a container
// guard is held or while this lease has another view outstanding.
func (l *Lease[T]) AccessMut() (*RefMut[T], error) {

	if l.dead {
		return nil, ErrInvalidLease
	}
	if l.writing {
		return nil, l.vec.conflict(&BorrowConflictError{Requested: AccessLeaseExclusive, Held: AccessLeaseExclusive})
	}
	if l.readers > 0 {
		return nil, l.vec.conflict(&BorrowConflictError{Requested: AccessLeaseExclusive, Held: AccessLeaseShared})
	}
	if err := l.vec.borrow.acquire(AccessLeaseExclusive); err != nil {
		return nil, l.vec.conflict(err)
	}
	position, err := l.resolve()
	if err != nil {
		l.vec.borrow.release(AccessLeaseExclusive)
		return nil, err
	}

	l.writing = true

	return &RefMut[T]{
		lease: l,
		value: l.vec.store.get(position),
	}, nil
}

// Get returns a copy of the item.
func (l *Lease[T]) Get() (T, error) {

	ref, err := l.Access()
	if err != nil {
		var zero T
		return zero, err
	}
	defer ref.Release()

	return ref.Value(), nil
}

// Update runs f with exclusive access to the item. Access is released when f
// returns, also when it panics.
func (l *Lease[T]) Update(f func(item *T) error) error {

	ref, err := l.AccessMut()
	if err != nil {
		return err
	}
	defer ref.Release()

	return f(ref.Value())
}

// Remove takes the item out of the container and returns it. The last item is
// moved into the freed slot. The lease is dead afterwards.
func (l *Lease[T]) Remove() (T, error) {

	var zero T
	if l.dead {
		return zero, ErrInvalidLease
	}
	if err := l.vec.borrow.check(AccessStructural); err != nil {
		return zero, l.vec.conflict(err)
	}
	position, err := l.resolve()
	if err != nil {
		return zero, err
	}

	value, moved, err := l.vec.store.remove(position)
	if err != nil {
		return zero, err
	}
	if moved != noPosition {
		l.vec.logger.Debug("rentvec: relocated item", "from", moved, "to", position)
	}

	l.dead = true
	l.position = noPosition

	return value, nil
}

// Ref is a shared view of a leased item.
type Ref[T any] struct {
	lease *Lease[T]
	value *T
}

// Value returns a copy of the item. It panics after Release.
func (r *Ref[T]) Value() T {
	if r.value == nil {
		panic("rentvec: Ref used after Release")
	}
	return *r.value
}

// Release ends the view. Calling it more than once has no effect.
func (r *Ref[T]) Release() {
	if r.value == nil {
		return
	}
	r.value = nil
	r.lease.readers--
	r.lease.vec.borrow.release(AccessLeaseShared)
}

// RefMut is an exclusive view of a leased item.
type RefMut[T any] struct {
	lease *Lease[T]
	value *T
}

// Value returns a pointer to the item, valid until Release. It panics after
// Release.
func (r *RefMut[T]) Value() *T {
	if r.value == nil {
		panic("rentvec: RefMut used after Release")
	}
	return r.value
}

// Set replaces the item.
func (r *RefMut[T]) Set(item T) {
	*r.Value() = item
}

// Release ends the view. Calling it more than once has no effect.
func (r *RefMut[T]) Release() {
	if r.value == nil {
		return
	}
	r.value = nil
	r.lease.writing = false
	r.lease.vec.borrow.release(AccessLeaseExclusive)
}
