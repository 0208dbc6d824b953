package resolve

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/scenetree/arena"
)

// shardCount is the number of shards for reduced lock contention.
// Must be a power of 2 for fast modulo via bitwise AND.
const shardCount = 16

const shardMask = shardCount - 1

// NodeSet is a thread-safe set of node identities, sharded to keep lock
// contention low when parallel passes report touched nodes concurrently.
//
// Node identities are densely assigned, so the shard is selected directly
// from the low bits of the ID; no hashing is needed.
type NodeSet struct {
	shards [shardCount]nodeSetShard
	count  atomic.Int64
}

type nodeSetShard struct {
	mu  sync.RWMutex
	ids map[arena.NodeID]struct{}
}

// NewNodeSet creates an empty node set.
func NewNodeSet() *NodeSet {
	s := &NodeSet{}
	for i := range s.shards {
		s.shards[i].ids = make(map[arena.NodeID]struct{})
	}
	return s
}

// Add inserts id and reports whether it was newly added.
func (s *NodeSet) Add(id arena.NodeID) bool {
	shard := &s.shards[id&shardMask]
	shard.mu.Lock()
	_, present := shard.ids[id]
	if !present {
		shard.ids[id] = struct{}{}
	}
	shard.mu.Unlock()
	if !present {
		s.count.Add(1)
	}
	return !present
}

// Contains reports whether id is in the set.
func (s *NodeSet) Contains(id arena.NodeID) bool {
	shard := &s.shards[id&shardMask]
	shard.mu.RLock()
	_, present := shard.ids[id]
	shard.mu.RUnlock()
	return present
}

// Len returns the number of identities in the set.
func (s *NodeSet) Len() int {
	return int(s.count.Load())
}

// IDs returns the set's contents as a slice, in unspecified order.
func (s *NodeSet) IDs() []arena.NodeID {
	out := make([]arena.NodeID, 0, s.Len())
	for i := range s.shards {
		shard := &s.shards[i]
		shard.mu.RLock()
		for id := range shard.ids {
			out = append(out, id)
		}
		shard.mu.RUnlock()
	}
	return out
}

// ForEach calls fn for every identity in the set, in unspecified order.
// fn must not add to the set.
func (s *NodeSet) ForEach(fn func(arena.NodeID)) {
	for i := range s.shards {
		shard := &s.shards[i]
		shard.mu.RLock()
		for id := range shard.ids {
			fn(id)
		}
		shard.mu.RUnlock()
	}
}
