package selection

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"image-board/internal/items"
)

func TestSetSingle(t *testing.T) {
	m := New()
	m.SetMany([]items.ID{1, 2, 3})
	m.SetSingle(7)

	if diff := cmp.Diff([]items.ID{7}, m.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
	if m.Primary() != 7 {
		t.Errorf("Primary = %d, want 7", m.Primary())
	}
}

func TestToggle(t *testing.T) {
	m := New()
	if !m.Toggle(3) {
		t.Error("Toggle(3) on empty = false, want true")
	}
	if !m.Toggle(5) {
		t.Error("Toggle(5) = false, want true")
	}
	if m.Primary() != 5 {
		t.Errorf("Primary = %d, want 5", m.Primary())
	}
	if m.Toggle(5) {
		t.Error("second Toggle(5) = true, want false")
	}
	if m.Primary() != 0 {
		t.Errorf("Primary after untoggling = %d, want 0", m.Primary())
	}
	if m.Count() != 1 || !m.IsSelected(3) {
		t.Errorf("selection = %v, want [3]", m.IDs())
	}
}

func TestSetManyReplaces(t *testing.T) {
	m := New()
	m.SetSingle(1)
	m.SetMany([]items.ID{4, 2, 4})

	if diff := cmp.Diff([]items.ID{2, 4}, m.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
	if m.Primary() != 0 {
		t.Errorf("Primary = %d, want 0 once it left the selection", m.Primary())
	}

	m.SetMany(nil)
	if m.Count() != 0 {
		t.Errorf("Count after SetMany(nil) = %d", m.Count())
	}
}

func TestSetPrimaryKeepsSet(t *testing.T) {
	m := New()
	m.SetMany([]items.ID{1, 2, 3})

	if !m.SetPrimary(2) || m.Primary() != 2 {
		t.Errorf("Primary = %d, want 2", m.Primary())
	}
	if m.SetPrimary(9) || m.Primary() != 2 {
		t.Errorf("SetPrimary on unselected id changed primary to %d", m.Primary())
	}
	if diff := cmp.Diff([]items.ID{1, 2, 3}, m.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveAndPrune(t *testing.T) {
	m := New()
	m.SetMany([]items.ID{1, 2, 3, 4})
	m.Toggle(5)

	if n := m.Remove(2, 9); n != 1 {
		t.Errorf("Remove = %d, want 1", n)
	}

	live := map[items.ID]bool{1: true, 4: true}
	if n := m.Prune(func(id items.ID) bool { return live[id] }); n != 2 {
		t.Errorf("Prune = %d, want 2", n)
	}
	if diff := cmp.Diff([]items.ID{1, 4}, m.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
	if m.Primary() != 0 {
		t.Errorf("Primary = %d, want 0 after pruning it", m.Primary())
	}

	m.Clear()
	if m.Count() != 0 || m.IsSelected(1) {
		t.Error("Clear left items selected")
	}
}
