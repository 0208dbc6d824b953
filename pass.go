package scenetree

import (
	"github.com/gogpu/scenetree/arena"
	"github.com/gogpu/scenetree/resolve"
)

// PassID identifies a registered pass.
type PassID string

// Pass describes one externally defined derived-state computation: what
// node facets it reads, whether it depends on parent or aggregated child
// state, and which other passes' output it consumes.
//
// The set of passes is fixed when the tree is constructed. Declared
// dependencies are inverted once at that point; a dependency naming a pass
// absent from the registry is silently ignored, so passes can be composed
// optionally.
type Pass struct {
	// ID must be unique among the registered passes.
	ID PassID

	// Mask declares the node facets whose changes invalidate this pass.
	Mask NodeMask

	// ParentDependant marks a pass that reads state resolved on a node's
	// parent. It is re-run for a node whenever the node gains or loses a
	// parent, and runs top-down.
	ParentDependant bool

	// ChildDependant marks a pass that aggregates state resolved on a
	// node's children. It is re-run for a node whenever the node's child
	// list changes, and runs bottom-up.
	ChildDependant bool

	// DependsOn lists the passes whose output this pass reads.
	DependsOn []PassID

	// RegisterStorage is invoked once at tree construction so the pass can
	// reserve typed state slots in the arena. May be nil.
	RegisterStorage func(*arena.Arena)

	// Run recomputes this pass's state for one node and reports whether
	// the stored state actually changed.
	Run func(a *arena.Arena, id arena.NodeID, ctx *resolve.Context) bool

	// dependants is the one-time inversion of DependsOn edges across the
	// registry: the passes that read this pass's output.
	dependants map[PassID]struct{}
}

// linkDependants inverts declared dependency edges: for every ordered pair
// of distinct passes (a, b), if a depends on b then b gains a as a
// dependant. Quadratic in the pass count, which is small and fixed.
func linkDependants(passes []*Pass) {
	for _, p := range passes {
		p.dependants = make(map[PassID]struct{})
	}
	for _, dependant := range passes {
		for _, dep := range dependant.DependsOn {
			for _, p := range passes {
				if p != dependant && p.ID == dep {
					p.dependants[dependant.ID] = struct{}{}
				}
			}
		}
	}
}

// spec builds the engine's view of the pass.
func (p *Pass) spec() resolve.PassSpec {
	dependants := make([]string, 0, len(p.dependants))
	for id := range p.dependants {
		dependants = append(dependants, string(id))
	}
	return resolve.PassSpec{
		ID:              string(p.ID),
		ParentDependant: p.ParentDependant,
		ChildDependant:  p.ChildDependant,
		Dependants:      dependants,
		Run:             p.Run,
	}
}
