package items

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"image-board/pkg/geometry"
)

func newItem(x, y, w, h float64) *Item {
	return &Item{
		Pos:  geometry.Point2D{X: x, Y: y},
		Size: geometry.Size{Width: w, Height: h},
	}
}

func positions(s *Store) []geometry.Point2D {
	var out []geometry.Point2D
	for _, it := range s.Items() {
		out = append(out, it.Pos)
	}
	return out
}

func TestAddAssignsIncreasingIDsAndOrder(t *testing.T) {
	s := NewStore()
	var last *Item
	for i := 0; i < 50; i++ {
		it := newItem(0, 0, 10, 10)
		it.ID, it.Z = 999, -5 // ignored
		s.Add(it)
		if last != nil {
			if it.ID <= last.ID {
				t.Fatalf("ID %d not above previous %d", it.ID, last.ID)
			}
			if it.Z <= last.Z {
				t.Fatalf("Z %d not above previous %d", it.Z, last.Z)
			}
		}
		last = it
	}
	if s.Len() != 50 {
		t.Errorf("Len = %d, want 50", s.Len())
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := NewStore()
	a := s.Add(newItem(0, 0, 10, 10))
	b := s.Add(newItem(0, 0, 10, 10))

	if !s.Remove(a) {
		t.Fatal("Remove(a) = false on first call")
	}
	if s.Remove(a) {
		t.Error("Remove(a) = true on second call")
	}
	if s.Remove(12345) {
		t.Error("Remove(unknown) = true")
	}
	if got := s.RemoveMany([]ID{a, b, 777}); got != 1 {
		t.Errorf("RemoveMany = %d, want 1", got)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestIDsNotReusedAfterRemove(t *testing.T) {
	s := NewStore()
	a := s.Add(newItem(0, 0, 1, 1))
	s.Remove(a)
	if b := s.Add(newItem(0, 0, 1, 1)); b == a {
		t.Errorf("ID %d reused", b)
	}
}

func TestStaleMutationsAreNoOps(t *testing.T) {
	s := NewStore()
	id := s.Add(newItem(5, 5, 10, 10))
	s.Remove(id)

	if s.UpdatePosition(id, 1, 1) || s.Translate(id, 1, 1) || s.BringToFront(id) {
		t.Error("mutation of removed item reported success")
	}
	if n := s.TranslateMany([]ID{id}, 1, 1); n != 0 {
		t.Errorf("TranslateMany = %d, want 0", n)
	}
	if n := s.BringManyToFront([]ID{id}); n != 0 {
		t.Errorf("BringManyToFront = %d, want 0", n)
	}
}

func TestTranslateMany(t *testing.T) {
	s := NewStore()
	a := s.Add(newItem(0, 0, 10, 10))
	s.Add(newItem(100, 100, 10, 10))
	c := s.Add(newItem(200, 200, 10, 10))

	if n := s.TranslateMany([]ID{a, c}, 5, -3); n != 2 {
		t.Fatalf("TranslateMany = %d, want 2", n)
	}
	want := []geometry.Point2D{{X: 5, Y: -3}, {X: 100, Y: 100}, {X: 205, Y: 197}}
	if diff := cmp.Diff(want, positions(s)); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestBringManyToFrontPreservesRelativeOrder(t *testing.T) {
	s := NewStore()
	a := s.Add(newItem(0, 0, 10, 10))
	b := s.Add(newItem(0, 0, 10, 10))
	c := s.Add(newItem(0, 0, 10, 10))

	// Before: A < B < C
	s.BringManyToFront([]ID{b, a})

	za, zb, zc := s.Get(a).Z, s.Get(b).Z, s.Get(c).Z
	if !(za < zb) {
		t.Errorf("relative order lost: A=%d B=%d", za, zb)
	}
	if !(za > zc && zb > zc) {
		t.Errorf("group not above C: A=%d B=%d C=%d", za, zb, zc)
	}

	// A later single raise still goes above everything.
	s.BringToFront(c)
	if s.Get(c).Z <= zb {
		t.Errorf("C=%d not above B=%d after BringToFront", s.Get(c).Z, zb)
	}
}

func TestBringToFront(t *testing.T) {
	s := NewStore()
	a := s.Add(newItem(0, 0, 10, 10))
	b := s.Add(newItem(0, 0, 10, 10))

	s.BringToFront(a)
	if s.Get(a).Z <= s.Get(b).Z {
		t.Errorf("A=%d not above B=%d", s.Get(a).Z, s.Get(b).Z)
	}
	order := s.ByStackOrder()
	if order[len(order)-1].ID != a {
		t.Errorf("front item = %d, want %d", order[len(order)-1].ID, a)
	}
}

func TestArrangeGrid(t *testing.T) {
	s := NewStore()
	for i := 0; i < 5; i++ {
		s.Add(newItem(float64(i*13), float64(i*7), 100, 80))
	}
	s.ArrangeGrid(4, 220, geometry.Point2D{X: 50, Y: 200})

	want := []geometry.Point2D{
		{X: 50, Y: 200}, {X: 270, Y: 200}, {X: 490, Y: 200}, {X: 710, Y: 200},
		{X: 50, Y: 420},
	}
	if diff := cmp.Diff(want, positions(s)); diff != "" {
		t.Errorf("grid positions mismatch (-want +got):\n%s", diff)
	}
}

func TestTopmostAt(t *testing.T) {
	s := NewStore()
	back := s.Add(newItem(0, 0, 100, 100))
	front := s.Add(newItem(50, 50, 100, 100))

	tests := []struct {
		p    geometry.Point2D
		want ID
	}{
		{geometry.Point2D{X: 10, Y: 10}, back},
		{geometry.Point2D{X: 75, Y: 75}, front},
		{geometry.Point2D{X: 140, Y: 140}, front},
		{geometry.Point2D{X: 500, Y: 500}, 0},
	}
	for _, tt := range tests {
		if got := s.TopmostAt(tt.p); got != tt.want {
			t.Errorf("TopmostAt(%v) = %d, want %d", tt.p, got, tt.want)
		}
	}

	s.BringToFront(back)
	if got := s.TopmostAt(geometry.Point2D{X: 75, Y: 75}); got != back {
		t.Errorf("after raise TopmostAt = %d, want %d", got, back)
	}
}

func TestCentersWithin(t *testing.T) {
	s := NewStore()
	// Centres at (10,10), (50,50), (200,200)
	c1 := s.Add(newItem(0, 0, 20, 20))
	c2 := s.Add(newItem(40, 40, 20, 20))
	s.Add(newItem(190, 190, 20, 20))

	got := s.CentersWithin(geometry.RectFromCorners(geometry.Point2D{X: 60, Y: 60}, geometry.Point2D{}))
	if diff := cmp.Diff([]ID{c1, c2}, got); diff != "" {
		t.Errorf("CentersWithin mismatch (-want +got):\n%s", diff)
	}

	// Edge-inclusive: a box ending exactly on C2's centre still includes it.
	got = s.CentersWithin(geometry.Rect{X: 50, Y: 50, Width: 0, Height: 0})
	if diff := cmp.Diff([]ID{c2}, got); diff != "" {
		t.Errorf("edge CentersWithin mismatch (-want +got):\n%s", diff)
	}
}

func TestBounds(t *testing.T) {
	s := NewStore()
	if got := s.Bounds(); got != (geometry.Rect{}) {
		t.Errorf("Bounds of empty store = %+v", got)
	}
	s.Add(newItem(10, 20, 30, 40))
	s.Add(newItem(-5, 100, 10, 10))
	want := geometry.Rect{X: -5, Y: 20, Width: 45, Height: 90}
	if got := s.Bounds(); got != want {
		t.Errorf("Bounds = %+v, want %+v", got, want)
	}
}
