package rentvec

import (
	"log/slog"
)

// Vec is a contiguous container of T handing out a Lease per pushed item.
//
// The zero value is not usable, create one with New.
type Vec[T any] struct {
	store  *store[T]
	borrow borrowState
	logger *slog.Logger
}

type options struct {
	capacity int
	maxSlots int
	logger   *slog.Logger
}

// Option configures a Vec.
type Option func(*options)

// WithCapacity preallocates room for n slots.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithMaxSlots bounds the number of slots the backing storage may grow to.
// Push fails with ErrCapacityExceeded once no free slot is left below the
// bound. Zero means unbounded.
func WithMaxSlots(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxSlots = n
		}
	}
}

// WithLogger sets the logger used for debug records about relocations,
// resolutions and borrow conflicts. A nil logger discards them.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func New[T any](opts ...Option) *Vec[T] {

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.maxSlots > 0 && o.capacity > o.maxSlots {
		o.capacity = o.maxSlots
	}

	return &Vec[T]{
		store:  newStore[T](o.capacity, o.maxSlots),
		logger: o.logger,
	}
}

// Push stores item and returns the lease that owns access to it. A free slot
// is reused when there is one, otherwise the storage grows.
func (v *Vec[T]) Push(item T) (*Lease[T], error) {

	if err := v.borrow.check(AccessStructural); err != nil {
		return nil, v.conflict(err)
	}

	position, err := v.store.push(item)
	if err != nil {
		return nil, err
	}

	return &Lease[T]{
		vec:      v,
		position: position,
	}, nil
}

// Len returns the number of live items.
func (v *Vec[T]) Len() int {
	return v.store.count
}

func (v *Vec[T]) Stats() Stats {
	return v.store.stats()
}

// Shrink trims free slots from the end of the storage and releases unused
// capacity. It returns the number of slots trimmed.
func (v *Vec[T]) Shrink() (int, error) {

	if err := v.borrow.check(AccessStructural); err != nil {
		return 0, v.conflict(err)
	}

	trimmed := v.store.shrink()
	if trimmed > 0 {
		v.logger.Debug("rentvec: shrink", "trimmed", trimmed, "slots", len(v.store.slots))
	}

	return trimmed, nil
}

// Guard acquires shared access to the whole container. It fails while any
// lease holds exclusive access or an exclusive guard is held.
func (v *Vec[T]) Guard() (*Guard[T], error) {

	if err := v.borrow.acquire(AccessGuardShared); err != nil {
		return nil, v.conflict(err)
	}

	return &Guard[T]{
		vec:    v,
		access: AccessGuardShared,
	}, nil
}

// GuardMut acquires exclusive access to the whole container. It fails while
// any guard or lease access is outstanding.
func (v *Vec[T]) GuardMut() (*GuardMut[T], error) {

	if err := v.borrow.acquire(AccessGuardExclusive); err != nil {
		return nil, v.conflict(err)
	}

	return &GuardMut[T]{
		Guard: Guard[T]{
			vec:    v,
			access: AccessGuardExclusive,
		},
	}, nil
}

func (v *Vec[T]) conflict(err error) error {
	v.logger.Debug("rentvec: borrow conflict", "error", err)
	return err
}
