package scenetree

import "github.com/gogpu/scenetree/arena"

// NodeRef is a read-only handle to one node. It is a tiny value and is
// copied freely; it stays valid until the node is removed.
type NodeRef struct {
	id   NodeID
	tree *Tree
}

// ID returns the node's identity.
func (n NodeRef) ID() NodeID { return n.id }

// Tree returns the tree the node belongs to.
func (n NodeRef) Tree() *Tree { return n.tree }

// Content returns the node's content variant. Nil if the node has been
// removed since the handle was obtained.
func (n NodeRef) Content() Content {
	c, _ := n.tree.content.Get(n.tree.arena, n.id)
	return c
}

// ChildIDs returns the node's children in document order. The slice is
// owned by the tree and must not be modified.
func (n NodeRef) ChildIDs() []NodeID {
	return n.tree.arena.ChildIDs(n.id)
}

// Children returns read-only handles to the node's children.
func (n NodeRef) Children() []NodeRef {
	ids := n.ChildIDs()
	if len(ids) == 0 {
		return nil
	}
	out := make([]NodeRef, len(ids))
	for i, id := range ids {
		out[i] = NodeRef{id: id, tree: n.tree}
	}
	return out
}

// ParentID returns the node's parent identity, if the node is attached.
func (n NodeRef) ParentID() (NodeID, bool) {
	return n.tree.arena.ParentID(n.id)
}

// Parent returns a handle to the node's parent, if the node is attached.
func (n NodeRef) Parent() (NodeRef, bool) {
	id, ok := n.ParentID()
	if !ok {
		return NodeRef{}, false
	}
	return NodeRef{id: id, tree: n.tree}, true
}

// Next returns the node's next sibling, if any.
func (n NodeRef) Next() (NodeRef, bool) {
	id, ok := n.sibling(1)
	return NodeRef{id: id, tree: n.tree}, ok
}

// Prev returns the node's previous sibling, if any.
func (n NodeRef) Prev() (NodeRef, bool) {
	id, ok := n.sibling(-1)
	return NodeRef{id: id, tree: n.tree}, ok
}

func (n NodeRef) sibling(offset int) (NodeID, bool) {
	parent, ok := n.ParentID()
	if !ok {
		return arena.InvalidID, false
	}
	siblings := n.tree.arena.ChildIDs(parent)
	for i, id := range siblings {
		if id == n.id {
			j := i + offset
			if j < 0 || j >= len(siblings) {
				return arena.InvalidID, false
			}
			return siblings[j], true
		}
	}
	return arena.InvalidID, false
}

// Height returns the node's depth from the root (root is 0).
func (n NodeRef) Height() uint16 {
	h, _ := n.tree.arena.Height(n.id)
	return h
}

// NodeMut is a mutable handle to one node: the sole sanctioned way to
// alter structure, content, attributes, and listeners. Every operation
// reports the correct changed facet to the dirty tracker, erring toward
// marking more rather than less.
type NodeMut struct {
	NodeRef
}

// AddChild makes child the last child of this node. The node is marked
// child-structure dirty, the child parent-structure dirty, and watchers
// see the child as moved.
func (n NodeMut) AddChild(child NodeID) {
	if !n.tree.arena.Contains(child) {
		return
	}
	n.tree.dirty.markChildStructureChanged(n.id)
	n.tree.dirty.markParentStructureChanged(child)
	n.tree.arena.AttachChild(n.id, child)
	n.tree.notifyMoved(child)
}

// InsertBefore repositions this node immediately before ref among ref's
// siblings. A no-op if ref is detached.
func (n NodeMut) InsertBefore(ref NodeID) {
	if parent, ok := n.tree.arena.ParentID(ref); ok {
		n.tree.dirty.markChildStructureChanged(parent)
		n.tree.dirty.markParentStructureChanged(n.id)
	}
	n.tree.arena.InsertBefore(ref, n.id)
	n.tree.notifyMoved(n.id)
}

// InsertAfter repositions this node immediately after ref among ref's
// siblings. A no-op if ref is detached.
func (n NodeMut) InsertAfter(ref NodeID) {
	if parent, ok := n.tree.arena.ParentID(ref); ok {
		n.tree.dirty.markChildStructureChanged(parent)
		n.tree.dirty.markParentStructureChanged(n.id)
	}
	n.tree.arena.InsertAfter(ref, n.id)
	n.tree.notifyMoved(n.id)
}

// Remove detaches and destroys this node and its entire subtree. The
// subtree's listeners are purged from the index, watchers see each node
// as removed while it is still structurally present (parents before
// children), and storage is then detached bottom-up. The root cannot be
// removed.
func (n NodeMut) Remove() {
	t := n.tree
	if n.id == t.RootID() || !t.arena.Contains(n.id) {
		return
	}
	if parent, ok := t.arena.ParentID(n.id); ok {
		t.dirty.markChildStructureChanged(parent)
	}

	// Two phases: collect the subtree top-down, then notify in that order
	// and detach in reverse, so no node is detached before its children.
	subtree := t.collectSubtree(n.id)
	for _, id := range subtree {
		t.purgeListeners(id)
		t.notifyRemoved(id)
	}
	for i := len(subtree) - 1; i >= 0; i-- {
		t.arena.Remove(subtree[i])
	}
}

// Replace puts new in this node's structural position and destroys this
// node's subtree. The parent is marked child-structure dirty and new
// parent-structure dirty; watchers see this node as removed.
func (n NodeMut) Replace(new NodeID) {
	t := n.tree
	if !t.arena.Contains(new) || n.id == t.RootID() {
		return
	}
	t.notifyRemoved(n.id)
	if parent, ok := t.arena.ParentID(n.id); ok {
		t.dirty.markChildStructureChanged(parent)
		t.dirty.markParentStructureChanged(new)
	}
	for _, id := range t.collectSubtree(n.id) {
		t.purgeListeners(id)
	}
	t.arena.Replace(n.id, new)
}

// AddEventListener registers this node for the named event, in both the
// node's own listener set and the tree's listener index. Only element and
// text nodes can listen; for placeholders this is a no-op.
func (n NodeMut) AddEventListener(event string) {
	set := n.ensureListeners()
	if set == nil {
		return
	}
	n.tree.dirty.mark(n.id, NewMask().WithListeners().Build())
	set[event] = struct{}{}
	n.tree.listenOn(event, n.id)
}

// RemoveEventListener removes this node's registration for the named
// event from both the node's listener set and the tree's index.
func (n NodeMut) RemoveEventListener(event string) {
	set := contentListeners(n.Content())
	if set == nil {
		return
	}
	n.tree.dirty.mark(n.id, NewMask().WithListeners().Build())
	delete(set, event)
	n.tree.unlisten(event, n.id)
}

// SetContent replaces the node's content variant wholesale. Every facet is
// marked changed, the maximally conservative choice. Listener-index
// registrations for the old content are dropped; a listener set carried by
// the new content is not registered until AddEventListener is called.
func (n NodeMut) SetContent(c Content) {
	if c == nil {
		c = Placeholder{}
	}
	for event := range contentListeners(n.Content()) {
		n.tree.unlisten(event, n.id)
	}
	n.tree.content.Set(n.tree.arena, n.id, c)
	n.tree.dirty.mark(n.id, FullMask())
}

// RawState returns the node's stored state for slot, bypassing change
// tracking.
func RawState[T any](n NodeRef, slot arena.Slot[T]) (T, bool) {
	return slot.Get(n.tree.arena, n.id)
}

// SetRawState writes the node's state for slot directly.
//
// This escapes the incremental system: no pass is invalidated, so the
// write will not be observed by ResolveState. Pass Run functions use this
// to store their own output.
func SetRawState[T any](n NodeMut, slot arena.Slot[T], v T) {
	slot.Set(n.tree.arena, n.id, v)
}

// ensureListeners returns the node's listener set, allocating it if the
// content variant can listen but has none yet.
func (n NodeMut) ensureListeners() map[string]struct{} {
	switch v := n.Content().(type) {
	case *Element:
		if v.Listeners == nil {
			v.Listeners = make(map[string]struct{})
		}
		return v.Listeners
	case *Text:
		if v.Listeners == nil {
			v.Listeners = make(map[string]struct{})
		}
		return v.Listeners
	}
	return nil
}

// collectSubtree returns id and all its descendants, parents before
// children.
func (t *Tree) collectSubtree(id NodeID) []NodeID {
	out := []NodeID{id}
	for i := 0; i < len(out); i++ {
		out = append(out, t.arena.ChildIDs(out[i])...)
	}
	return out
}

// purgeListeners drops every listener-index entry for id.
func (t *Tree) purgeListeners(id NodeID) {
	c, ok := t.content.Get(t.arena, id)
	if !ok {
		return
	}
	for event := range contentListeners(c) {
		t.unlisten(event, id)
	}
}
