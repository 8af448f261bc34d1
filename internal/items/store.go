// Package items provides the board's item store: placed images with their
// geometry and stacking order.
package items

import (
	"image"
	"sort"

	"image-board/pkg/geometry"
)

// ID identifies an item. IDs come from a counter owned by the Store and are
// never reused; zero means "no item".
type ID uint64

// Payload is the data carried for import/export only.
type Payload struct {
	Name  string      // Display name, usually the source file name
	MIME  string      // Sniffed content type, e.g. "image/png"
	Data  []byte      // Raw encoded bytes as imported
	Image image.Image // Decoded image used for rendering
}

// Item is one placed image.
type Item struct {
	ID      ID
	Pos     geometry.Point2D // Top-left corner in canvas space
	Size    geometry.Size    // Display size, fixed at creation
	Z       int64            // Stacking order, higher is in front
	Payload Payload
}

// Bounds returns the item's rectangle in canvas space.
func (it *Item) Bounds() geometry.Rect {
	return geometry.Rect{X: it.Pos.X, Y: it.Pos.Y, Width: it.Size.Width, Height: it.Size.Height}
}

// Center returns the item's centre point in canvas space.
func (it *Item) Center() geometry.Point2D {
	return it.Bounds().Center()
}

// Store holds items in insertion order. It is not safe for concurrent use;
// the owner serialises access.
type Store struct {
	items  []*Item
	byID   map[ID]*Item
	nextID ID
	maxZ   int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		byID:   make(map[ID]*Item),
		nextID: 1,
	}
}

// Add appends an item, assigning it a fresh ID and a stacking order above
// every existing item. The caller's ID and Z are ignored.
func (s *Store) Add(it *Item) ID {
	it.ID = s.nextID
	s.nextID++
	s.maxZ++
	it.Z = s.maxZ
	s.items = append(s.items, it)
	s.byID[it.ID] = it
	return it.ID
}

// Get returns the item with the given ID, or nil.
func (s *Store) Get(id ID) *Item {
	return s.byID[id]
}

// Has reports whether the store contains id.
func (s *Store) Has(id ID) bool {
	_, ok := s.byID[id]
	return ok
}

// Len returns the number of items.
func (s *Store) Len() int {
	return len(s.items)
}

// Items returns the items in insertion order. The slice is a copy; the items
// are not.
func (s *Store) Items() []*Item {
	out := make([]*Item, len(s.items))
	copy(out, s.items)
	return out
}

// ByStackOrder returns the items from back to front.
func (s *Store) ByStackOrder() []*Item {
	out := s.Items()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Z < out[j].Z })
	return out
}

// Remove deletes an item. Unknown IDs are ignored.
func (s *Store) Remove(id ID) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, it := range s.items {
		if it.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return true
}

// RemoveMany deletes every listed item and returns how many were present.
func (s *Store) RemoveMany(ids []ID) int {
	drop := make(map[ID]bool, len(ids))
	for _, id := range ids {
		if _, ok := s.byID[id]; ok {
			drop[id] = true
			delete(s.byID, id)
		}
	}
	if len(drop) == 0 {
		return 0
	}
	kept := s.items[:0]
	for _, it := range s.items {
		if !drop[it.ID] {
			kept = append(kept, it)
		}
	}
	for i := len(kept); i < len(s.items); i++ {
		s.items[i] = nil
	}
	s.items = kept
	return len(drop)
}

// UpdatePosition moves an item's top-left corner. Unknown IDs are ignored.
func (s *Store) UpdatePosition(id ID, x, y float64) bool {
	it := s.byID[id]
	if it == nil {
		return false
	}
	it.Pos = geometry.Point2D{X: x, Y: y}
	return true
}

// Translate moves one item by a canvas-space delta.
func (s *Store) Translate(id ID, dx, dy float64) bool {
	it := s.byID[id]
	if it == nil {
		return false
	}
	it.Pos = it.Pos.Add(geometry.Point2D{X: dx, Y: dy})
	return true
}

// TranslateMany moves every listed item by the same delta and returns how
// many were moved.
func (s *Store) TranslateMany(ids []ID, dx, dy float64) int {
	n := 0
	for _, id := range ids {
		if s.Translate(id, dx, dy) {
			n++
		}
	}
	return n
}

// BringToFront raises one item above all others.
func (s *Store) BringToFront(id ID) bool {
	it := s.byID[id]
	if it == nil {
		return false
	}
	if it.Z == s.maxZ && s.uniqueTop(it) {
		return true
	}
	s.maxZ++
	it.Z = s.maxZ
	return true
}

func (s *Store) uniqueTop(top *Item) bool {
	for _, it := range s.items {
		if it != top && it.Z == top.Z {
			return false
		}
	}
	return true
}

// BringManyToFront raises the listed items above every other item while
// keeping their order relative to each other. All members get the same
// offset, max(all) - min(members) + 1, so gaps and ties are preserved.
func (s *Store) BringManyToFront(ids []ID) int {
	var group []*Item
	seen := make(map[ID]bool, len(ids))
	for _, id := range ids {
		if it := s.byID[id]; it != nil && !seen[id] {
			seen[id] = true
			group = append(group, it)
		}
	}
	if len(group) == 0 {
		return 0
	}

	minZ := group[0].Z
	for _, it := range group[1:] {
		if it.Z < minZ {
			minZ = it.Z
		}
	}
	offset := s.maxZ - minZ + 1
	for _, it := range group {
		it.Z += offset
		if it.Z > s.maxZ {
			s.maxZ = it.Z
		}
	}
	return len(group)
}

// ArrangeGrid places every item, in insertion order, at row-major grid cells
// origin + (col*cellSize, row*cellSize).
func (s *Store) ArrangeGrid(columns int, cellSize float64, origin geometry.Point2D) {
	if columns < 1 {
		columns = 1
	}
	for i, it := range s.items {
		col := i % columns
		row := i / columns
		it.Pos = geometry.Point2D{
			X: origin.X + float64(col)*cellSize,
			Y: origin.Y + float64(row)*cellSize,
		}
	}
}

// TopmostAt returns the front-most item whose bounds contain p, or 0.
func (s *Store) TopmostAt(p geometry.Point2D) ID {
	var best *Item
	for _, it := range s.items {
		if !it.Bounds().Contains(p) {
			continue
		}
		if best == nil || it.Z > best.Z {
			best = it
		}
	}
	if best == nil {
		return 0
	}
	return best.ID
}

// CentersWithin returns, in insertion order, the items whose centre point
// lies inside r. Edges are inclusive.
func (s *Store) CentersWithin(r geometry.Rect) []ID {
	var ids []ID
	for _, it := range s.items {
		if r.Contains(it.Center()) {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

// IDs returns every item ID in insertion order.
func (s *Store) IDs() []ID {
	ids := make([]ID, len(s.items))
	for i, it := range s.items {
		ids[i] = it.ID
	}
	return ids
}

// Bounds returns the rectangle enclosing every item, or an empty Rect.
func (s *Store) Bounds() geometry.Rect {
	rects := make([]geometry.Rect, len(s.items))
	for i, it := range s.items {
		rects[i] = it.Bounds()
	}
	return geometry.BoundingRect(rects)
}
