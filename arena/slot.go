package arena

// slab is the type-erased view of a typed slot's storage, used by the
// arena to drop state when a node is freed.
type slab interface {
	removeNode(id NodeID)
}

// typedSlab stores one value of type T per node, addressed by NodeID.
type typedSlab[T any] struct {
	values  []T
	present []bool
}

func (s *typedSlab[T]) removeNode(id NodeID) {
	if int(id) < len(s.present) && s.present[id] {
		var zero T
		s.values[id] = zero
		s.present[id] = false
	}
}

func (s *typedSlab[T]) grow(id NodeID) {
	for int(id) >= len(s.values) {
		var zero T
		s.values = append(s.values, zero)
		s.present = append(s.present, false)
	}
}

// Slot addresses one typed state column across all nodes of an arena.
//
// Slots are reserved once at setup with ReserveSlot and are then valid for
// the lifetime of the arena. A Slot is a tiny value and is copied freely.
type Slot[T any] struct {
	index int
}

// ReserveSlot registers storage for values of type T with the arena and
// returns the slot addressing it. Call once per state type at setup.
func ReserveSlot[T any](a *Arena) Slot[T] {
	a.slabs = append(a.slabs, &typedSlab[T]{})
	return Slot[T]{index: len(a.slabs) - 1}
}

// Set stores v as node id's state for this slot.
func (s Slot[T]) Set(a *Arena, id NodeID, v T) {
	if !a.Contains(id) {
		return
	}
	slab := a.slabs[s.index].(*typedSlab[T])
	slab.grow(id)
	slab.values[id] = v
	slab.present[id] = true
}

// Get returns node id's state for this slot, if set.
func (s Slot[T]) Get(a *Arena, id NodeID) (T, bool) {
	var zero T
	if !a.Contains(id) {
		return zero, false
	}
	slab := a.slabs[s.index].(*typedSlab[T])
	if int(id) >= len(slab.present) || !slab.present[id] {
		return zero, false
	}
	return slab.values[id], true
}

// Ptr returns a pointer to node id's state for in-place mutation,
// or nil if the state is not set. The pointer is invalidated by the
// next Set on this slot.
func (s Slot[T]) Ptr(a *Arena, id NodeID) *T {
	if !a.Contains(id) {
		return nil
	}
	slab := a.slabs[s.index].(*typedSlab[T])
	if int(id) >= len(slab.present) || !slab.present[id] {
		return nil
	}
	return &slab.values[id]
}

// Remove clears node id's state for this slot, returning the prior value.
func (s Slot[T]) Remove(a *Arena, id NodeID) (T, bool) {
	v, ok := s.Get(a, id)
	if ok {
		a.slabs[s.index].(*typedSlab[T]).removeNode(id)
	}
	return v, ok
}
