package resolve

import (
	"sync"

	"github.com/gogpu/scenetree/arena"
)

// PassSpec is the engine's view of one registered pass.
//
// The scenetree registry builds PassSpecs at construction time: it inverts
// declared dependency edges into the Dependants list, so the engine never
// needs the original dependency sets.
type PassSpec struct {
	// ID identifies the pass. IDs are unique within a tree.
	ID string

	// ParentDependant marks a pass whose output for a node reads state
	// resolved on the node's parent. Such passes run top-down.
	ParentDependant bool

	// ChildDependant marks a pass whose output for a node aggregates state
	// resolved on the node's children. Such passes run bottom-up.
	ChildDependant bool

	// Dependants lists the passes that read this pass's output, one hop.
	Dependants []string

	// Run recomputes the pass's derived state for one node and reports
	// whether the stored state actually changed. A false return stops
	// propagation to dependants.
	Run func(a *arena.Arena, id arena.NodeID, ctx *Context) bool
}

// Context carries shared state into pass Run functions for one resolution
// cycle: viewport sizes, font tables, theme data, whatever the registered
// passes agree on. It is safe for concurrent use, since parallel passes
// read it from multiple goroutines.
type Context struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewContext creates an empty shared context.
func NewContext() *Context {
	return &Context{values: make(map[string]any)}
}

// Set stores a value under key.
func (c *Context) Set(key string, v any) {
	c.mu.Lock()
	c.values[key] = v
	c.mu.Unlock()
}

// Get returns the value stored under key, if any.
func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	v, ok := c.values[key]
	c.mu.RUnlock()
	return v, ok
}
