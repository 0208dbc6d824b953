package resolve

import (
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/scenetree/arena"
)

// Run executes every registered pass over its dirty nodes and returns the
// set of nodes whose derived state actually changed.
//
// Passes are grouped into dependency levels: a pass always runs after every
// pass it reads. Within a level, passes touch disjoint state and may run
// concurrently; with parallel set, each gets its own goroutine. A single
// pass always processes its own nodes sequentially in height order, which
// is what makes per-node locking unnecessary.
//
// When a pass reports a change on a node, its direct dependants are
// re-inserted for that node, a parent-dependant pass is re-inserted for the
// node's children, and a child-dependant pass for the node's parent. Because
// a changed dependant re-inserts its own dependants in turn, multi-hop
// propagation emerges within the same cycle.
//
// The tree must not be mutated while Run is in flight.
func Run(a *arena.Arena, passes []PassSpec, dirty *DirtyState, ctx *Context, parallel bool) *NodeSet {
	touched := NewNodeSet()
	if ctx == nil {
		ctx = NewContext()
	}

	levels := dependencyLevels(passes)
	logger().Debug("resolve cycle start",
		"passes", len(passes), "levels", len(levels), "pending", dirty.Len())

	for _, level := range levels {
		if parallel && len(level) > 1 {
			var g errgroup.Group
			for _, spec := range level {
				g.Go(func() error {
					runPass(a, spec, dirty, ctx, touched)
					return nil
				})
			}
			// Pass goroutines report no errors; Wait is for joining only.
			_ = g.Wait()
		} else {
			for _, spec := range level {
				runPass(a, spec, dirty, ctx, touched)
			}
		}
	}

	logger().Debug("resolve cycle done", "touched", touched.Len())
	return touched
}

// runPass drains one pass's queue in its processing order.
func runPass(a *arena.Arena, spec PassSpec, dirty *DirtyState, ctx *Context, touched *NodeSet) {
	q := dirty.queues[spec.ID]
	if q == nil {
		return
	}
	for {
		k, ok := q.pop()
		if !ok {
			return
		}
		// Nodes removed since marking are silently skipped.
		if !a.Contains(k.ID) {
			continue
		}
		if !spec.Run(a, k.ID, ctx) {
			continue
		}
		touched.Add(k.ID)

		if spec.ParentDependant {
			for _, c := range a.ChildIDs(k.ID) {
				if h, ok := a.Height(c); ok {
					dirty.Insert(spec.ID, c, h)
				}
			}
		}
		if spec.ChildDependant {
			if p, ok := a.ParentID(k.ID); ok {
				if h, ok := a.Height(p); ok {
					dirty.Insert(spec.ID, p, h)
				}
			}
		}
		if len(spec.Dependants) > 0 {
			if h, ok := a.Height(k.ID); ok {
				for _, dep := range spec.Dependants {
					dirty.Insert(dep, k.ID, h)
				}
			}
		}
	}
}

// dependencyLevels groups passes so that every pass appears in a later
// level than all passes it depends on, using the inverted dependant edges.
// Passes caught in a dependency cycle are appended as a final level.
func dependencyLevels(passes []PassSpec) [][]PassSpec {
	indegree := make(map[string]int, len(passes))
	for _, p := range passes {
		if _, ok := indegree[p.ID]; !ok {
			indegree[p.ID] = 0
		}
	}
	for _, p := range passes {
		for _, dep := range p.Dependants {
			if _, known := indegree[dep]; known {
				indegree[dep]++
			}
		}
	}

	var levels [][]PassSpec
	placed := make(map[string]bool, len(passes))
	remaining := len(passes)

	for remaining > 0 {
		var level []PassSpec
		for _, p := range passes {
			if !placed[p.ID] && indegree[p.ID] == 0 {
				level = append(level, p)
			}
		}
		if len(level) == 0 {
			// Dependency cycle: run the stragglers in declaration order.
			logger().Warn("pass dependency cycle detected", "remaining", remaining)
			for _, p := range passes {
				if !placed[p.ID] {
					level = append(level, p)
				}
			}
			levels = append(levels, level)
			break
		}
		for _, p := range level {
			placed[p.ID] = true
			remaining--
			for _, dep := range p.Dependants {
				if _, known := indegree[dep]; known {
					indegree[dep]--
				}
			}
		}
		levels = append(levels, level)
	}
	return levels
}
