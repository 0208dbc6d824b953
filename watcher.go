package scenetree

// Watcher observes structural changes to a tree. Watchers fire
// synchronously, in registration order, scoped to the single affected
// node; the handle passed in is valid for the duration of the call.
//
// Notification holds a shared read of the watcher list, so a removal's
// recursive child notifications proceed without reacquiring exclusivity.
// A watcher must not call AddWatcher from inside a callback.
type Watcher interface {
	// NodeAdded fires after a node is created.
	NodeAdded(NodeMut)

	// NodeRemoved fires while the node is still structurally present.
	NodeRemoved(NodeMut)

	// NodeMoved fires after a node is attached or repositioned.
	NodeMoved(NodeMut)
}

// AddWatcher registers a watcher. Registration takes exclusive access to
// the watcher list and is safe to call from any goroutine between edits.
func (t *Tree) AddWatcher(w Watcher) {
	t.watcherMu.Lock()
	t.watchers = append(t.watchers, w)
	t.watcherMu.Unlock()
}

func (t *Tree) notifyAdded(id NodeID) {
	t.watcherMu.RLock()
	defer t.watcherMu.RUnlock()
	for _, w := range t.watchers {
		w.NodeAdded(NodeMut{NodeRef{id: id, tree: t}})
	}
}

func (t *Tree) notifyRemoved(id NodeID) {
	t.watcherMu.RLock()
	defer t.watcherMu.RUnlock()
	for _, w := range t.watchers {
		w.NodeRemoved(NodeMut{NodeRef{id: id, tree: t}})
	}
}

func (t *Tree) notifyMoved(id NodeID) {
	t.watcherMu.RLock()
	defer t.watcherMu.RUnlock()
	for _, w := range t.watchers {
		w.NodeMoved(NodeMut{NodeRef{id: id, tree: t}})
	}
}
