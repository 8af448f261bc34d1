// Package selection tracks which board items are selected.
package selection

import (
	"sort"

	"image-board/internal/items"
)

// Model is a set of selected item IDs plus an optional primary item, the one
// most recently clicked. The zero value is not usable; call New.
type Model struct {
	ids     map[items.ID]struct{}
	primary items.ID
}

// New creates an empty selection.
func New() *Model {
	return &Model{ids: make(map[items.ID]struct{})}
}

// SetSingle replaces the selection with id and marks it primary.
func (m *Model) SetSingle(id items.ID) {
	m.ids = map[items.ID]struct{}{id: {}}
	m.primary = id
}

// Toggle flips id's membership. An added item becomes primary; removing the
// primary item leaves no primary.
func (m *Model) Toggle(id items.ID) bool {
	if _, ok := m.ids[id]; ok {
		delete(m.ids, id)
		if m.primary == id {
			m.primary = 0
		}
		return false
	}
	m.ids[id] = struct{}{}
	m.primary = id
	return true
}

// SetMany replaces the selection with exactly ids. The primary survives only
// if it is still selected.
func (m *Model) SetMany(ids []items.ID) {
	m.ids = make(map[items.ID]struct{}, len(ids))
	for _, id := range ids {
		m.ids[id] = struct{}{}
	}
	if _, ok := m.ids[m.primary]; !ok {
		m.primary = 0
	}
}

// SetPrimary marks an already selected id as primary without changing the
// set. It reports false and does nothing if id is not selected.
func (m *Model) SetPrimary(id items.ID) bool {
	if _, ok := m.ids[id]; !ok {
		return false
	}
	m.primary = id
	return true
}

// Clear empties the selection.
func (m *Model) Clear() {
	m.ids = make(map[items.ID]struct{})
	m.primary = 0
}

// Remove drops the given ids and returns how many were selected.
func (m *Model) Remove(ids ...items.ID) int {
	n := 0
	for _, id := range ids {
		if _, ok := m.ids[id]; ok {
			delete(m.ids, id)
			n++
		}
		if m.primary == id {
			m.primary = 0
		}
	}
	return n
}

// Prune drops every id for which exists returns false.
func (m *Model) Prune(exists func(items.ID) bool) int {
	var stale []items.ID
	for id := range m.ids {
		if !exists(id) {
			stale = append(stale, id)
		}
	}
	if m.primary != 0 && !exists(m.primary) {
		m.primary = 0
	}
	return m.Remove(stale...)
}

// IsSelected reports whether id is selected.
func (m *Model) IsSelected(id items.ID) bool {
	_, ok := m.ids[id]
	return ok
}

// Count returns the number of selected items.
func (m *Model) Count() int {
	return len(m.ids)
}

// Primary returns the primary item, or 0.
func (m *Model) Primary() items.ID {
	return m.primary
}

// IDs returns the selected ids in ascending order.
func (m *Model) IDs() []items.ID {
	out := make([]items.ID, 0, len(m.ids))
	for id := range m.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
