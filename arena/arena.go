// Package arena provides the typed storage backing a scene tree.
//
// An Arena owns the parent/child bookkeeping for a set of densely numbered
// nodes and any number of typed state slots attached to them. Node identities
// are small integers that are reused after removal, so a NodeID is only valid
// while the node it names is alive. Identity 0 is the root and is never
// removed.
//
// The arena performs no change tracking itself; that is the job of the
// scenetree package layered on top of it.
package arena

// NodeID identifies a node stored in an Arena.
// IDs are assigned densely and reused after removal.
type NodeID uint32

// InvalidID is a NodeID that never names a live node.
const InvalidID NodeID = ^NodeID(0)

// RootID is the identity of the root node. The root always exists.
const RootID NodeID = 0

// nodeMeta is the structural record for one node.
type nodeMeta struct {
	// parent is InvalidID for the root and for detached nodes.
	parent   NodeID
	children []NodeID

	// height is the depth from the root. The root has height 0.
	height uint16

	alive bool
}

// Arena stores node structure and typed per-node state.
//
// Arena is not safe for concurrent mutation; callers serialize writes.
// Concurrent reads are safe between mutations.
type Arena struct {
	metas []nodeMeta
	free  []NodeID
	count int
	slabs []slab
}

// New creates an arena containing only the root node.
func New() *Arena {
	a := &Arena{
		metas: make([]nodeMeta, 1, 64),
		count: 1,
	}
	a.metas[RootID] = nodeMeta{parent: InvalidID, alive: true}
	return a
}

// Create allocates a new node and returns its identity.
// The node starts detached: it has no parent until it is attached.
func (a *Arena) Create() NodeID {
	var id NodeID
	if n := len(a.free); n > 0 {
		id = a.free[n-1]
		a.free = a.free[:n-1]
		a.metas[id] = nodeMeta{parent: InvalidID, alive: true}
	} else {
		id = NodeID(len(a.metas))
		a.metas = append(a.metas, nodeMeta{parent: InvalidID, alive: true})
	}
	a.count++
	return id
}

// Contains reports whether id names a live node.
func (a *Arena) Contains(id NodeID) bool {
	return int(id) < len(a.metas) && a.metas[id].alive
}

// Root returns the root identity.
func (a *Arena) Root() NodeID { return RootID }

// Len returns the number of live nodes, including the root.
func (a *Arena) Len() int { return a.count }

// ParentID returns the parent of id, if id is alive and attached.
func (a *Arena) ParentID(id NodeID) (NodeID, bool) {
	if !a.Contains(id) || a.metas[id].parent == InvalidID {
		return InvalidID, false
	}
	return a.metas[id].parent, true
}

// ChildIDs returns the children of id in document order.
// The returned slice is owned by the arena and must not be modified;
// it is invalidated by the next structural operation.
func (a *Arena) ChildIDs(id NodeID) []NodeID {
	if !a.Contains(id) {
		return nil
	}
	return a.metas[id].children
}

// Height returns the depth of id from the root (root is 0).
func (a *Arena) Height(id NodeID) (uint16, bool) {
	if !a.Contains(id) {
		return 0, false
	}
	return a.metas[id].height, true
}

// AttachChild makes child the last child of parent.
// If child is already attached elsewhere it is detached from its old
// parent first. Subtree heights are updated. Attaching a node under its
// own descendant would create a cycle and is a no-op.
func (a *Arena) AttachChild(parent, child NodeID) {
	if !a.Contains(parent) || !a.Contains(child) || parent == child {
		return
	}
	if a.isAncestor(child, parent) {
		return
	}
	a.unlink(child)
	a.metas[child].parent = parent
	a.metas[parent].children = append(a.metas[parent].children, child)
	a.reheight(child, a.metas[parent].height+1)
}

// InsertBefore places node immediately before ref among ref's siblings.
// A no-op if ref is detached or either node is dead.
func (a *Arena) InsertBefore(ref, node NodeID) {
	a.insertAt(ref, node, 0)
}

// InsertAfter places node immediately after ref among ref's siblings.
// A no-op if ref is detached or either node is dead.
func (a *Arena) InsertAfter(ref, node NodeID) {
	a.insertAt(ref, node, 1)
}

func (a *Arena) insertAt(ref, node NodeID, offset int) {
	if !a.Contains(ref) || !a.Contains(node) || ref == node {
		return
	}
	parent := a.metas[ref].parent
	if parent == InvalidID || a.isAncestor(node, parent) {
		return
	}
	a.unlink(node)
	siblings := a.metas[parent].children
	idx := indexOf(siblings, ref)
	if idx < 0 {
		return
	}
	idx += offset
	siblings = append(siblings, 0)
	copy(siblings[idx+1:], siblings[idx:])
	siblings[idx] = node
	a.metas[parent].children = siblings
	a.metas[node].parent = parent
	a.reheight(node, a.metas[parent].height+1)
}

// Remove frees a single node, unlinking it from its parent.
// Children are not touched: callers removing a subtree must remove the
// descendants first (bottom-up) or reattach them.
// Typed state for the node is dropped from every slab.
func (a *Arena) Remove(id NodeID) {
	if !a.Contains(id) || id == RootID {
		return
	}
	a.unlink(id)
	a.freeNode(id)
}

// Replace puts new in old's structural position and frees old's entire
// subtree. If old is the root or either id is dead, Replace is a no-op.
func (a *Arena) Replace(old, new NodeID) {
	if !a.Contains(old) || !a.Contains(new) || old == new || old == RootID {
		return
	}
	parent := a.metas[old].parent
	if parent == InvalidID || a.isAncestor(new, parent) {
		return
	}
	a.unlink(new)
	siblings := a.metas[parent].children
	idx := indexOf(siblings, old)
	if idx < 0 {
		return
	}
	siblings[idx] = new
	a.metas[old].parent = InvalidID
	a.metas[new].parent = parent
	a.reheight(new, a.metas[parent].height+1)
	a.freeSubtree(old)
}

// isAncestor reports whether node is an ancestor of id (or id itself).
func (a *Arena) isAncestor(node, id NodeID) bool {
	for id != InvalidID {
		if id == node {
			return true
		}
		id = a.metas[id].parent
	}
	return false
}

// unlink removes id from its parent's child list without freeing it.
func (a *Arena) unlink(id NodeID) {
	parent := a.metas[id].parent
	if parent == InvalidID {
		return
	}
	siblings := a.metas[parent].children
	if idx := indexOf(siblings, id); idx >= 0 {
		a.metas[parent].children = append(siblings[:idx], siblings[idx+1:]...)
	}
	a.metas[id].parent = InvalidID
}

// freeNode releases one node's storage and recycles its identity.
func (a *Arena) freeNode(id NodeID) {
	for _, s := range a.slabs {
		s.removeNode(id)
	}
	a.metas[id] = nodeMeta{parent: InvalidID}
	a.free = append(a.free, id)
	a.count--
}

// freeSubtree releases id and every descendant.
func (a *Arena) freeSubtree(id NodeID) {
	stack := []NodeID{id}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack = append(stack, a.metas[n].children...)
		a.freeNode(n)
	}
}

// reheight sets id's height and propagates through its subtree.
func (a *Arena) reheight(id NodeID, h uint16) {
	a.metas[id].height = h
	for _, c := range a.metas[id].children {
		a.reheight(c, h+1)
	}
}

func indexOf(ids []NodeID, id NodeID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
