// Package scenetree maintains a live, mutable mirror of a hierarchical
// scene or document and tracks, after every edit, exactly which derived
// computations became stale for which nodes.
//
// # Overview
//
// A renderer applies a stream of edits to a Tree: creating element, text,
// and placeholder nodes, restructuring them, editing attributes and
// listeners. Derived state (layout, style cascade, accessibility) is
// expressed as a fixed set of passes, each declaring which node facets it
// reads and which other passes it depends on. After any number of edits,
// ResolveState recomputes only the state those edits actually invalidated
// instead of recomputing everything.
//
// # Quick Start
//
//	layout := &scenetree.Pass{
//		ID:              "layout",
//		Mask:            scenetree.NewMask().WithAttributes("width", "height").Build(),
//		ParentDependant: true,
//		Run:             runLayout,
//	}
//	tree := scenetree.New([]*scenetree.Pass{layout})
//
//	node := tree.CreateNode(&scenetree.Element{Tag: "box"})
//	tree.RootMut().AddChild(node.ID())
//
//	touched, masks := tree.ResolveState(resolve.NewContext(), false)
//
// # Architecture
//
// The library is organized into:
//   - Public API: Tree, NodeRef/NodeMut handles, Pass, NodeMask, Watcher
//   - arena: typed per-node storage and parent/child bookkeeping
//   - resolve: height-ordered pass execution, sequential or parallel
//
// # Concurrency
//
// Mutation is single-writer: callers serialize edit calls on one Tree.
// A resolution cycle fully materializes the drained dirty set before any
// parallel execution begins; the tree must not be mutated while a cycle is
// in flight. Passes run in height order (top-down for parent-dependant
// passes, bottom-up for child-dependant ones), which is what makes
// lock-free parallel execution of independent passes safe.
package scenetree

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
