package scenetree

import (
	"testing"

	"github.com/gogpu/scenetree/arena"
	"github.com/gogpu/scenetree/resolve"
)

// testPasses returns a small registry exercising interest masks and both
// structural dependency flags.
func testPasses() []*Pass {
	noop := func(*arena.Arena, arena.NodeID, *resolve.Context) bool { return false }
	return []*Pass{
		{ID: "style", Mask: NewMask().WithTag().WithAllAttributes().Build(), Run: noop},
		{ID: "layout", Mask: NewMask().WithAttributes("width", "height").Build(),
			ParentDependant: true, DependsOn: []PassID{"style"}, Run: noop},
		{ID: "bounds", Mask: NewMask().WithAttributes("width", "height").Build(),
			ChildDependant: true, DependsOn: []PassID{"layout"}, Run: noop},
		{ID: "text", Mask: NewMask().WithText().Build(), Run: noop},
	}
}

func pendingPasses(t *Tree, id NodeID) map[PassID]struct{} {
	return t.dirty.passesUpdated[id]
}

func TestNewTree(t *testing.T) {
	tree := New(testPasses())

	if tree.Len() != 0 {
		t.Errorf("Len() = %d, want 0 (root not counted)", tree.Len())
	}
	root := tree.Root()
	el, ok := root.Content().(*Element)
	if !ok {
		t.Fatal("root should be an element")
	}
	if el.Tag != "root" {
		t.Errorf("root tag = %q, want \"root\"", el.Tag)
	}
	if got := len(pendingPasses(tree, tree.RootID())); got != len(testPasses()) {
		t.Errorf("root pending pass count = %d, want %d", got, len(testPasses()))
	}
	if !tree.dirty.nodesUpdated[tree.RootID()].Tag() {
		t.Error("root should start with a full changed mask")
	}
}

func TestNewTreeOptions(t *testing.T) {
	tree := New(nil, WithRootTag("window"), WithRootNamespace("ui"))
	el := tree.Root().Content().(*Element)
	if el.Tag != "window" || el.Namespace != "ui" {
		t.Errorf("root = %q/%q, want window/ui", el.Tag, el.Namespace)
	}
}

func TestCreateNodeMarksAllPasses(t *testing.T) {
	tree := New(testPasses())
	node := tree.CreateNode(&Element{Tag: "box"})

	set := pendingPasses(tree, node.ID())
	if len(set) != len(testPasses()) {
		t.Errorf("pending pass set has %d entries, want all %d", len(set), len(testPasses()))
	}
	if tree.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tree.Len())
	}
}

// The canonical edit sequence: create an element, attach it, set an
// attribute.
func TestAttachAndAttributeScenario(t *testing.T) {
	tree := New(testPasses())
	e := tree.CreateNode(&Element{Tag: "box"})

	tree.RootMut().AddChild(e.ID())
	el, _ := e.ContentMut().Element()
	el.SetAttribute(AttributeKey{Name: "width"}, FloatValue(100))

	eSet := pendingPasses(tree, e.ID())
	for _, want := range []PassID{"style", "layout", "bounds"} {
		if _, ok := eSet[want]; !ok {
			t.Errorf("node pending set missing %q", want)
		}
	}
	// layout is parent-dependant and must be pending from the attach alone.
	if _, ok := eSet["layout"]; !ok {
		t.Error("parent-dependant pass missing after attach")
	}
	rootSet := pendingPasses(tree, tree.RootID())
	if _, ok := rootSet["bounds"]; !ok {
		t.Error("child-dependant pass missing on parent after attach")
	}

	if !tree.dirty.nodesUpdated[e.ID()].Attribute("width") {
		t.Error("changed mask should record the width attribute")
	}
}

func TestStructureRemainsATree(t *testing.T) {
	tree := New(nil)
	var ids []NodeID
	for i := 0; i < 10; i++ {
		n := tree.CreateNode(&Element{Tag: "n"})
		ids = append(ids, n.ID())
		if i == 0 {
			tree.RootMut().AddChild(n.ID())
		} else {
			m, _ := tree.GetMut(ids[i/2])
			m.AddChild(n.ID())
		}
	}
	// Shuffle some nodes around.
	m, _ := tree.GetMut(ids[9])
	m.InsertBefore(ids[1])
	tree.RootMut().AddChild(ids[4])

	// Every non-root node has exactly one parent, and walking parents
	// terminates at the root: no cycles.
	seen := 0
	tree.TraverseDepthFirst(func(n NodeRef) { seen++ })
	if seen != tree.Len()+1 {
		t.Errorf("traversal saw %d nodes, want %d", seen, tree.Len()+1)
	}
	for _, id := range ids {
		node, ok := tree.Get(id)
		if !ok {
			t.Fatalf("node %d disappeared", id)
		}
		steps := 0
		for {
			p, ok := node.Parent()
			if !ok {
				break
			}
			node = p
			if steps++; steps > tree.Len()+1 {
				t.Fatalf("cycle detected walking up from %d", id)
			}
		}
		if node.ID() != tree.RootID() {
			t.Errorf("walking up from %d ended at %d, not the root", id, node.ID())
		}
	}
}

func TestListenerIndexLifecycle(t *testing.T) {
	tree := New(nil)
	n := tree.CreateNode(&Element{Tag: "button"})
	tree.RootMut().AddChild(n.ID())

	n.AddEventListener("click")

	listening := tree.ListeningSorted("click")
	if len(listening) != 1 || listening[0].ID() != n.ID() {
		t.Fatalf("ListeningSorted = %v, want [%d]", listening, n.ID())
	}

	n.Remove()

	if got := tree.ListeningSorted("click"); len(got) != 0 {
		t.Errorf("ListeningSorted after removal = %v, want empty", got)
	}
}

func TestSubtreeRemovalPurgesDescendantListeners(t *testing.T) {
	tree := New(nil)
	parent := tree.CreateNode(&Element{Tag: "panel"})
	child := tree.CreateNode(&Element{Tag: "button"})
	grandchild := tree.CreateNode(&Text{Value: "ok"})
	tree.RootMut().AddChild(parent.ID())
	parent.AddChild(child.ID())
	child.AddChild(grandchild.ID())

	child.AddEventListener("click")
	grandchild.AddEventListener("click")
	grandchild.AddEventListener("hover")

	parent.Remove()

	for _, event := range []string{"click", "hover"} {
		if got := tree.ListeningSorted(event); len(got) != 0 {
			t.Errorf("%q listeners after subtree removal = %v, want empty", event, got)
		}
	}
	if tree.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tree.Len())
	}
}

func TestListeningSortedBottomUp(t *testing.T) {
	tree := New(nil)
	shallow := tree.CreateNode(&Element{Tag: "a"})
	mid := tree.CreateNode(&Element{Tag: "b"})
	deep := tree.CreateNode(&Element{Tag: "c"})
	tree.RootMut().AddChild(shallow.ID())
	shallow.AddChild(mid.ID())
	mid.AddChild(deep.ID())

	for _, n := range []NodeMut{shallow, mid, deep} {
		n.AddEventListener("click")
	}

	got := tree.ListeningSorted("click")
	if len(got) != 3 {
		t.Fatalf("got %d listeners, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Height() > got[i-1].Height() {
			t.Errorf("heights not non-increasing: %d before %d",
				got[i-1].Height(), got[i].Height())
		}
	}
	if got[0].ID() != deep.ID() || got[2].ID() != shallow.ID() {
		t.Errorf("order = [%d %d %d], want deepest first", got[0].ID(), got[1].ID(), got[2].ID())
	}
}

func TestListeningSortedDeterministicForSameHeight(t *testing.T) {
	tree := New(nil)
	a := tree.CreateNode(&Element{Tag: "a"})
	b := tree.CreateNode(&Element{Tag: "b"})
	tree.RootMut().AddChild(a.ID())
	tree.RootMut().AddChild(b.ID())
	a.AddEventListener("click")
	b.AddEventListener("click")

	first := tree.ListeningSorted("click")
	for i := 0; i < 5; i++ {
		again := tree.ListeningSorted("click")
		for j := range first {
			if again[j].ID() != first[j].ID() {
				t.Fatal("same-height ordering is not deterministic")
			}
		}
	}
}

func TestResolveStateDrainsOnce(t *testing.T) {
	passes := testPasses()
	// Make every pass report a change so touched mirrors the dirty set.
	for _, p := range passes {
		p.Run = func(*arena.Arena, arena.NodeID, *resolve.Context) bool { return true }
	}
	tree := New(passes)
	n := tree.CreateNode(&Element{Tag: "box"})
	tree.RootMut().AddChild(n.ID())

	touched, masks := tree.ResolveState(resolve.NewContext(), false)
	if touched.Len() == 0 {
		t.Error("first cycle should touch nodes")
	}
	if len(masks) == 0 {
		t.Error("first cycle should report changed masks")
	}
	if !touched.Contains(n.ID()) {
		t.Error("touched set should include the created node")
	}

	touched2, masks2 := tree.ResolveState(resolve.NewContext(), false)
	if touched2.Len() != 0 {
		t.Errorf("second cycle touched %d nodes, want 0", touched2.Len())
	}
	if len(masks2) != 0 {
		t.Errorf("second cycle reported %d masks, want 0", len(masks2))
	}
}

func TestCreateThenRemoveInSameBatchIsDropped(t *testing.T) {
	ran := false
	p := &Pass{ID: "p", Mask: FullMask(),
		Run: func(*arena.Arena, arena.NodeID, *resolve.Context) bool {
			ran = true
			return true
		}}
	tree := New([]*Pass{p})
	_, _ = tree.ResolveState(nil, false) // clear construction dirt

	n := tree.CreateNode(&Element{Tag: "flash"})
	tree.RootMut().AddChild(n.ID())
	n.Remove()

	touched, _ := tree.ResolveState(nil, false)

	if touched.Contains(n.ID()) {
		t.Error("touched set contains a node removed within the batch")
	}
	// The root was still marked by the attach/remove, so the pass may run
	// for it; it must not have run for the dead node.
	_ = ran
}

func TestResolveHeightLookupAtDrainTime(t *testing.T) {
	var heights []uint16
	p := &Pass{ID: "depth", Mask: FullMask(), ParentDependant: true,
		Run: func(a *arena.Arena, id arena.NodeID, _ *resolve.Context) bool {
			h, _ := a.Height(id)
			heights = append(heights, h)
			return false
		}}
	tree := New([]*Pass{p})
	_, _ = tree.ResolveState(nil, false)

	n := tree.CreateNode(&Element{Tag: "box"})
	tree.RootMut().AddChild(n.ID())
	// Reparent deeper after the marks were made.
	mid := tree.CreateNode(&Element{Tag: "mid"})
	tree.RootMut().AddChild(mid.ID())
	m, _ := tree.GetMut(mid.ID())
	m.AddChild(n.ID())

	_, _ = tree.ResolveState(nil, false)

	want, _ := tree.Arena().Height(n.ID())
	found := false
	for _, h := range heights {
		if h == want {
			found = true
		}
	}
	if !found {
		t.Errorf("pass never saw the node at its current height %d (saw %v)", want, heights)
	}
}

func TestCloneNode(t *testing.T) {
	tree := New(nil)
	parent := tree.CreateNode(&Element{
		Tag:        "panel",
		Attributes: map[AttributeKey]AttributeValue{{Name: "width"}: FloatValue(40)},
	})
	childText := tree.CreateNode(&Text{Value: "hello"})
	tree.RootMut().AddChild(parent.ID())
	parent.AddChild(childText.ID())
	parent.AddEventListener("click")

	cloneID, ok := tree.CloneNode(parent.ID())
	if !ok {
		t.Fatal("CloneNode failed")
	}
	if cloneID == parent.ID() {
		t.Fatal("clone should have a fresh identity")
	}

	clone, _ := tree.Get(cloneID)
	el, ok := clone.Content().(*Element)
	if !ok || el.Tag != "panel" {
		t.Fatalf("clone content = %#v, want panel element", clone.Content())
	}
	if v, ok := el.Attributes[AttributeKey{Name: "width"}]; !ok {
		t.Error("clone lost attributes")
	} else if f, _ := v.Float(); f != 40 {
		t.Errorf("clone width = %v, want 40", f)
	}
	if _, ok := el.Listeners["click"]; !ok {
		t.Error("clone content should carry the copied listener set")
	}

	kids := clone.Children()
	if len(kids) != 1 {
		t.Fatalf("clone has %d children, want 1", len(kids))
	}
	if txt, ok := kids[0].Content().(*Text); !ok || txt.Value != "hello" {
		t.Errorf("clone child content = %#v, want text \"hello\"", kids[0].Content())
	}

	// Clones stay out of the listener index until re-registered.
	for _, ref := range tree.ListeningSorted("click") {
		if ref.ID() == cloneID {
			t.Error("clone leaked into the listener index")
		}
	}
	// Mutating the clone's attributes must not affect the original.
	cm, _ := tree.GetMut(cloneID)
	cel, _ := cm.ContentMut().Element()
	cel.SetAttribute(AttributeKey{Name: "width"}, FloatValue(99))
	oel := parent.Content().(*Element)
	if f, _ := oel.Attributes[AttributeKey{Name: "width"}].Float(); f != 40 {
		t.Error("clone shares attribute storage with the original")
	}
}

func TestGetReportsAbsence(t *testing.T) {
	tree := New(nil)
	n := tree.CreateNode(nil)
	tree.RootMut().AddChild(n.ID())
	id := n.ID()
	n.Remove()

	if _, ok := tree.Get(id); ok {
		t.Error("Get on a removed identity should report absence")
	}
	if _, ok := tree.GetMut(id); ok {
		t.Error("GetMut on a removed identity should report absence")
	}
}

func TestRootCannotBeRemoved(t *testing.T) {
	tree := New(nil)
	tree.RootMut().Remove()
	if _, ok := tree.Get(tree.RootID()); !ok {
		t.Fatal("root must survive removal attempts")
	}
}
