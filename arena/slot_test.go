package arena

import "testing"

type layoutState struct {
	x, y, w, h float64
}

func TestSlotSetGet(t *testing.T) {
	a := New()
	slot := ReserveSlot[layoutState](a)
	n := a.Create()
	a.AttachChild(RootID, n)

	if _, ok := slot.Get(a, n); ok {
		t.Error("Get before Set should report absence")
	}

	slot.Set(a, n, layoutState{x: 1, y: 2, w: 3, h: 4})

	got, ok := slot.Get(a, n)
	if !ok {
		t.Fatal("Get after Set should succeed")
	}
	if got.w != 3 || got.h != 4 {
		t.Errorf("Get = %+v, want w=3 h=4", got)
	}
}

func TestSlotPtrMutatesInPlace(t *testing.T) {
	a := New()
	slot := ReserveSlot[int](a)
	n := a.Create()
	slot.Set(a, n, 10)

	p := slot.Ptr(a, n)
	if p == nil {
		t.Fatal("Ptr should not be nil after Set")
	}
	*p = 42

	if v, _ := slot.Get(a, n); v != 42 {
		t.Errorf("Get after Ptr write = %d, want 42", v)
	}
	if slot.Ptr(a, a.Create()) != nil {
		t.Error("Ptr for unset state should be nil")
	}
}

func TestSlotClearedOnNodeRemoval(t *testing.T) {
	a := New()
	slot := ReserveSlot[string](a)
	n := a.Create()
	a.AttachChild(RootID, n)
	slot.Set(a, n, "stale")

	a.Remove(n)

	// The identity is recycled; state must not leak across lifetimes.
	reborn := a.Create()
	if reborn != n {
		t.Fatalf("expected identity reuse, got %d want %d", reborn, n)
	}
	if _, ok := slot.Get(a, reborn); ok {
		t.Error("recycled node should start with no slot state")
	}
}

func TestMultipleSlotsIndependent(t *testing.T) {
	a := New()
	ints := ReserveSlot[int](a)
	strs := ReserveSlot[string](a)
	n := a.Create()

	ints.Set(a, n, 7)
	strs.Set(a, n, "seven")

	if v, _ := ints.Get(a, n); v != 7 {
		t.Errorf("int slot = %d, want 7", v)
	}
	if v, _ := strs.Get(a, n); v != "seven" {
		t.Errorf("string slot = %q, want \"seven\"", v)
	}

	if v, ok := strs.Remove(a, n); !ok || v != "seven" {
		t.Errorf("Remove = %q, %v, want \"seven\", true", v, ok)
	}
	if _, ok := ints.Get(a, n); !ok {
		t.Error("removing one slot must not clear another")
	}
}
