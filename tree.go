package scenetree

import (
	"sort"
	"sync"

	"github.com/gogpu/scenetree/arena"
	"github.com/gogpu/scenetree/resolve"
)

// Tree is a live, mutable mirror of a hierarchical scene or document.
//
// Every structural or content edit goes through the Tree (via NodeMut
// handles) so that the exact set of stale derived-state passes is tracked
// per node. ResolveState then recomputes only what the accumulated edits
// actually invalidated.
//
// Edits are single-writer: callers serialize mutation. Reads between edits
// are safe from any goroutine, as is watcher registration.
type Tree struct {
	arena   *arena.Arena
	content arena.Slot[Content]
	dirty   *dirtyTracker

	// listening maps an event name to the nodes listening for it. Kept
	// consistent with each node's own listener set between edit calls.
	listening map[string]map[NodeID]struct{}

	watcherMu sync.RWMutex
	watchers  []Watcher

	passes []*Pass
	specs  []resolve.PassSpec
}

// New creates a tree with the given fixed set of passes. The root node
// always exists, is an Element, and starts dirty for every pass with a
// full change mask.
func New(passes []*Pass, opts ...Option) *Tree {
	o := defaultTreeOptions()
	for _, opt := range opts {
		opt(&o)
	}

	a := arena.New()
	t := &Tree{
		arena:     a,
		content:   arena.ReserveSlot[Content](a),
		listening: make(map[string]map[NodeID]struct{}),
		passes:    passes,
	}

	for _, p := range passes {
		if p.RegisterStorage != nil {
			p.RegisterStorage(a)
		}
	}
	linkDependants(passes)
	t.specs = make([]resolve.PassSpec, 0, len(passes))
	for _, p := range passes {
		t.specs = append(t.specs, p.spec())
	}

	t.content.Set(a, a.Root(), &Element{Tag: o.rootTag, Namespace: o.rootNamespace})
	t.dirty = newDirtyTracker(passes)
	t.dirty.markAllPasses(a.Root())
	t.dirty.nodesUpdated[a.Root()] = FullMask()

	Logger().Debug("scene tree created", "passes", len(passes))
	return t
}

// CreateNode allocates a node with the given content and returns a mutable
// handle to it. The node starts detached and dirty for every registered
// pass. Watchers are notified of the addition. A nil content creates a
// placeholder node.
//
// A listener set carried by the content is not entered into the listener
// index; register listeners through NodeMut.AddEventListener.
func (t *Tree) CreateNode(c Content) NodeMut {
	if c == nil {
		c = Placeholder{}
	}
	id := t.arena.Create()
	t.content.Set(t.arena, id, c)
	t.dirty.markAllPasses(id)
	t.notifyAdded(id)
	return NodeMut{NodeRef{id: id, tree: t}}
}

// Get returns a read-only handle to id, if id names a live node.
func (t *Tree) Get(id NodeID) (NodeRef, bool) {
	if !t.arena.Contains(id) {
		return NodeRef{}, false
	}
	return NodeRef{id: id, tree: t}, true
}

// GetMut returns a mutable handle to id, if id names a live node.
func (t *Tree) GetMut(id NodeID) (NodeMut, bool) {
	if !t.arena.Contains(id) {
		return NodeMut{}, false
	}
	return NodeMut{NodeRef{id: id, tree: t}}, true
}

// RootID returns the identity of the root node.
func (t *Tree) RootID() NodeID { return t.arena.Root() }

// Root returns a read-only handle to the root node.
func (t *Tree) Root() NodeRef { return NodeRef{id: t.arena.Root(), tree: t} }

// RootMut returns a mutable handle to the root node.
func (t *Tree) RootMut() NodeMut { return NodeMut{NodeRef{id: t.arena.Root(), tree: t}} }

// Len returns the number of nodes in the tree, not counting the root.
func (t *Tree) Len() int { return t.arena.Len() - 1 }

// Arena exposes the underlying typed storage.
//
// State written through the arena directly escapes change tracking: no
// pass is invalidated and no watcher fires. Intended for pass Run
// functions and for readers of resolved state.
func (t *Tree) Arena() *arena.Arena { return t.arena }

// ContentSlot returns the arena slot holding node content, so pass Run
// functions can read a node's tag, text, and attributes through the
// arena they are handed. Content read this way must not be mutated.
func (t *Tree) ContentSlot() arena.Slot[Content] { return t.content }

// CloneNode deep-copies the subtree rooted at id, returning the fresh root
// identity. Content (including per-node listener sets) is copied, but the
// clones are absent from the listener index until listeners are explicitly
// re-registered through AddEventListener.
func (t *Tree) CloneNode(id NodeID) (NodeID, bool) {
	src, ok := t.Get(id)
	if !ok {
		return arena.InvalidID, false
	}
	cloned := t.CreateNode(cloneContent(src.Content())).ID()
	for _, childID := range append([]NodeID(nil), t.arena.ChildIDs(id)...) {
		childClone, ok := t.CloneNode(childID)
		if !ok {
			continue
		}
		if m, ok := t.GetMut(cloned); ok {
			m.AddChild(childClone)
		}
	}
	return cloned, true
}

// ListeningSorted returns all nodes listening for event, ordered by
// non-increasing height: bottom-up dispatch order. Nodes at the same
// height appear in ascending identity order, which is deterministic for a
// fixed tree but otherwise meaningless.
func (t *Tree) ListeningSorted(event string) []NodeRef {
	ids, ok := t.listening[event]
	if !ok {
		return nil
	}
	type entry struct {
		id NodeID
		h  uint16
	}
	entries := make([]entry, 0, len(ids))
	for id := range ids {
		if h, ok := t.arena.Height(id); ok {
			entries = append(entries, entry{id: id, h: h})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].h != entries[j].h {
			return entries[i].h > entries[j].h
		}
		return entries[i].id < entries[j].id
	})
	refs := make([]NodeRef, len(entries))
	for i, e := range entries {
		refs[i] = NodeRef{id: e.id, tree: t}
	}
	return refs
}

// listenOn adds id to the listener index for event.
func (t *Tree) listenOn(event string, id NodeID) {
	set, ok := t.listening[event]
	if !ok {
		set = make(map[NodeID]struct{})
		t.listening[event] = set
	}
	set[id] = struct{}{}
}

// unlisten removes id from the listener index for event.
func (t *Tree) unlisten(event string, id NodeID) {
	if set, ok := t.listening[event]; ok {
		delete(set, id)
		if len(set) == 0 {
			delete(t.listening, event)
		}
	}
}

// ResolveState drains the accumulated dirty state and runs the registered
// passes over it, sequentially or in parallel. It returns the set of nodes
// whose derived state actually changed and the pre-drain changed-facet
// masks, so a caller can diff against a previous frame even though the
// internal bookkeeping has been cleared.
//
// Heights are looked up at drain time, not at mark time, since structure
// may have changed in between. Pending entries for nodes that no longer
// exist (created and removed within the same batch) are dropped silently.
//
// The tree must not be mutated while ResolveState is in flight. Both
// return values are safe to read without synchronization once it returns.
func (t *Tree) ResolveState(ctx *resolve.Context, parallel bool) (*resolve.NodeSet, map[NodeID]NodeMask) {
	pending, masks := t.dirty.take()

	dirty := resolve.NewDirtyState(t.specs)
	dropped := 0
	for id, passSet := range pending {
		h, ok := t.arena.Height(id)
		if !ok {
			dropped++
			continue
		}
		for pid := range passSet {
			dirty.Insert(string(pid), id, h)
		}
	}
	if dropped > 0 {
		Logger().Debug("dropped pending entries for removed nodes", "count", dropped)
	}

	touched := resolve.Run(t.arena, t.specs, dirty, ctx, parallel)
	return touched, masks
}
