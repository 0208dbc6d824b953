package scenetree

// TraverseDepthFirst visits every node pre-order, parents before children,
// siblings in document order.
func (t *Tree) TraverseDepthFirst(f func(NodeRef)) {
	stack := []NodeID{t.RootID()}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node, ok := t.Get(id)
		if !ok {
			continue
		}
		f(node)
		children := t.arena.ChildIDs(id)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

// TraverseBreadthFirst visits every node level by level, parents before
// children.
func (t *Tree) TraverseBreadthFirst(f func(NodeRef)) {
	queue := []NodeID{t.RootID()}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		node, ok := t.Get(id)
		if !ok {
			continue
		}
		f(node)
		queue = append(queue, t.arena.ChildIDs(id)...)
	}
}

// TraverseDepthFirstMut is TraverseDepthFirst with mutable handles.
// The visited node's child list is captured before f runs, so f may edit
// the node itself; restructuring other parts of the tree mid-traversal
// gives unspecified visit order.
func (t *Tree) TraverseDepthFirstMut(f func(NodeMut)) {
	stack := []NodeID{t.RootID()}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node, ok := t.GetMut(id)
		if !ok {
			continue
		}
		children := append([]NodeID(nil), t.arena.ChildIDs(id)...)
		f(node)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

// TraverseBreadthFirstMut is TraverseBreadthFirst with mutable handles.
func (t *Tree) TraverseBreadthFirstMut(f func(NodeMut)) {
	queue := []NodeID{t.RootID()}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		node, ok := t.GetMut(id)
		if !ok {
			continue
		}
		children := append([]NodeID(nil), t.arena.ChildIDs(id)...)
		f(node)
		queue = append(queue, children...)
	}
}
