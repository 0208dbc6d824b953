package scenetree

// dirtyTracker accumulates, between resolution cycles, which passes became
// stale for which nodes and the union of changed facets per node.
//
// The tracker performs no existence checks: the mutation surface only
// marks identities it has just operated on. Mask accumulation is
// monotonic (union-only) within a cycle.
type dirtyTracker struct {
	// passesUpdated maps a node to the passes that must re-run for it.
	passesUpdated map[NodeID]map[PassID]struct{}

	// nodesUpdated maps a node to the union of its changed facets.
	nodesUpdated map[NodeID]NodeMask

	passes []*Pass
}

func newDirtyTracker(passes []*Pass) *dirtyTracker {
	return &dirtyTracker{
		passesUpdated: make(map[NodeID]map[PassID]struct{}),
		nodesUpdated:  make(map[NodeID]NodeMask),
		passes:        passes,
	}
}

func (d *dirtyTracker) passSet(id NodeID) map[PassID]struct{} {
	set, ok := d.passesUpdated[id]
	if !ok {
		set = make(map[PassID]struct{})
		d.passesUpdated[id] = set
	}
	return set
}

// mark records that mask's facets changed on node id, invalidating every
// pass whose interest overlaps the mask. A mask no pass is interested in
// still accumulates into the node's changed mask.
func (d *dirtyTracker) mark(id NodeID, mask NodeMask) {
	set := d.passSet(id)
	for _, p := range d.passes {
		if p.Mask.Overlaps(mask) {
			set[p.ID] = struct{}{}
		}
	}
	d.nodesUpdated[id] = d.nodesUpdated[id].Union(mask)
}

// markAllPasses invalidates every registered pass for node id.
// Used for newly created nodes.
func (d *dirtyTracker) markAllPasses(id NodeID) {
	set := d.passSet(id)
	for _, p := range d.passes {
		set[p.ID] = struct{}{}
	}
}

// markParentStructureChanged invalidates, for node id, every pass that
// depends on parent state. Used when id gains or loses a parent.
func (d *dirtyTracker) markParentStructureChanged(id NodeID) {
	set := d.passSet(id)
	for _, p := range d.passes {
		if p.ParentDependant {
			set[p.ID] = struct{}{}
		}
	}
}

// markChildStructureChanged invalidates, for node id, every pass that
// depends on aggregated child state. Used when id's child list changes.
func (d *dirtyTracker) markChildStructureChanged(id NodeID) {
	set := d.passSet(id)
	for _, p := range d.passes {
		if p.ChildDependant {
			set[p.ID] = struct{}{}
		}
	}
}

// take atomically resets the tracker and returns the accumulated state,
// so a resolution cycle drains exactly once with no loss or duplication.
func (d *dirtyTracker) take() (map[NodeID]map[PassID]struct{}, map[NodeID]NodeMask) {
	passes := d.passesUpdated
	masks := d.nodesUpdated
	d.passesUpdated = make(map[NodeID]map[PassID]struct{})
	d.nodesUpdated = make(map[NodeID]NodeMask)
	return passes, masks
}
