package rentvec

type slotState uint8

const (
	slotFree slotState = iota
	slotOccupied
	slotRelocated
)

func (s slotState) String() string {
	switch s {
	case slotFree:
		return "free"
	case slotOccupied:
		return "occupied"
	case slotRelocated:
		return "relocated"
	}
	return "unknown"
}

const noPosition = -1

type slot[T any] struct {
	state slotState
	value T

	// target is the position a relocated item now lives at.
	target int

	// origin is the position of the relocation marker that still points at
	// this occupied slot, or noPosition. A live item has at most one lease,
	// so at most one marker can point at it.
	origin int
}

func occupiedSlot[T any](value T) slot[T] {
	return slot[T]{
		state:  slotOccupied,
		value:  value,
		target: noPosition,
		origin: noPosition,
	}
}

func relocatedSlot[T any](target int) slot[T] {
	return slot[T]{
		state:  slotRelocated,
		target: target,
		origin: noPosition,
	}
}

func freeSlot[T any]() slot[T] {
	return slot[T]{
		state:  slotFree,
		target: noPosition,
		origin: noPosition,
	}
}
