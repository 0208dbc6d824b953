package resolve

import (
	"sync"
	"testing"

	"github.com/gogpu/scenetree/arena"
)

func TestNodeSetBasics(t *testing.T) {
	s := NewNodeSet()
	if s.Len() != 0 {
		t.Errorf("new set Len() = %d, want 0", s.Len())
	}
	if !s.Add(3) {
		t.Error("first Add(3) should report newly added")
	}
	if s.Add(3) {
		t.Error("second Add(3) should report already present")
	}
	if !s.Contains(3) || s.Contains(4) {
		t.Error("Contains reported wrong membership")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestNodeSetConcurrentAdd(t *testing.T) {
	s := NewNodeSet()
	const goroutines = 8
	const perG = 500

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				s.Add(arena.NodeID(i))
			}
		}()
	}
	wg.Wait()

	if s.Len() != perG {
		t.Errorf("Len() = %d, want %d", s.Len(), perG)
	}
	if got := len(s.IDs()); got != perG {
		t.Errorf("len(IDs()) = %d, want %d", got, perG)
	}
}
