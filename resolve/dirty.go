// Package resolve executes derived-state passes over the dirty portion of a
// scene tree.
//
// The scenetree package accumulates, between cycles, which passes became
// stale for which nodes. At the start of a cycle it drains that bookkeeping
// into a DirtyState and hands it to Run, which executes each pass over its
// dirty nodes in height order, sequentially or in parallel, and reports the
// set of nodes whose derived state actually changed.
package resolve

import (
	"container/heap"
	"sync"

	"github.com/gogpu/scenetree/arena"
)

// HeightKey orders per-pass work items deterministically: depth from the
// root is the primary key and the node identity breaks ties. The tie-break
// carries no meaning beyond making the order stable.
type HeightKey struct {
	Height uint16
	ID     arena.NodeID
}

// Less reports whether k sorts before other (ascending height, then ID).
func (k HeightKey) Less(other HeightKey) bool {
	if k.Height != other.Height {
		return k.Height < other.Height
	}
	return k.ID < other.ID
}

// DirtyState is the height-ordered dirty set consumed by Run.
//
// It holds one work queue per registered pass. Parent-dependant passes are
// processed in ascending height order (parents before children) and
// child-dependant passes in descending order (children before parents), so
// a node's structural dependencies are always resolved before the node
// itself. Insert is safe for concurrent use; Run inserts follow-up work
// from multiple pass goroutines.
type DirtyState struct {
	queues map[string]*passQueue
}

// NewDirtyState creates an empty dirty set with one queue per pass.
func NewDirtyState(passes []PassSpec) *DirtyState {
	d := &DirtyState{queues: make(map[string]*passQueue, len(passes))}
	for _, p := range passes {
		desc := p.ChildDependant && !p.ParentDependant
		d.queues[p.ID] = &passQueue{
			desc: desc,
			seen: make(map[arena.NodeID]struct{}),
		}
	}
	return d
}

// Insert schedules node id for the given pass at the given height.
// Duplicate insertions of a node still pending for the pass are dropped.
// Unknown pass IDs are ignored.
func (d *DirtyState) Insert(pass string, id arena.NodeID, height uint16) {
	q, ok := d.queues[pass]
	if !ok {
		return
	}
	q.insert(HeightKey{Height: height, ID: id})
}

// Len returns the total number of pending (pass, node) work items.
func (d *DirtyState) Len() int {
	n := 0
	for _, q := range d.queues {
		q.mu.Lock()
		n += len(q.keys)
		q.mu.Unlock()
	}
	return n
}

// passQueue is a deduplicated height-ordered queue for one pass.
type passQueue struct {
	mu   sync.Mutex
	keys []HeightKey
	seen map[arena.NodeID]struct{}

	// desc flips the heap order: pop highest height first.
	desc bool
}

func (q *passQueue) insert(k HeightKey) {
	q.mu.Lock()
	if _, dup := q.seen[k.ID]; !dup {
		q.seen[k.ID] = struct{}{}
		heap.Push((*queueHeap)(q), k)
	}
	q.mu.Unlock()
}

// pop removes and returns the next work item in processing order.
func (q *passQueue) pop() (HeightKey, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.keys) == 0 {
		return HeightKey{}, false
	}
	k := heap.Pop((*queueHeap)(q)).(HeightKey)
	delete(q.seen, k.ID)
	return k, true
}

// queueHeap adapts passQueue to container/heap. The caller holds q.mu.
type queueHeap passQueue

func (h *queueHeap) Len() int { return len(h.keys) }

func (h *queueHeap) Less(i, j int) bool {
	if h.desc {
		return h.keys[j].Less(h.keys[i])
	}
	return h.keys[i].Less(h.keys[j])
}

func (h *queueHeap) Swap(i, j int) { h.keys[i], h.keys[j] = h.keys[j], h.keys[i] }

func (h *queueHeap) Push(x any) { h.keys = append(h.keys, x.(HeightKey)) }

func (h *queueHeap) Pop() any {
	n := len(h.keys)
	k := h.keys[n-1]
	h.keys = h.keys[:n-1]
	return k
}
