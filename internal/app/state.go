// Package app provides the board application state and its events.
package app

import (
	"fmt"
	"sync"
	"time"

	"image-board/internal/export"
	"image-board/internal/interact"
	"image-board/internal/items"
	"image-board/internal/selection"
	"image-board/internal/viewport"
	"image-board/pkg/geometry"
)

// Options are the board settings the state needs.
type Options struct {
	MaxItemDimension float64
	GridColumns      int
	GridCellSize     float64
	GridOrigin       geometry.Point2D
	TopMargin        float64
	PlacementMargin  float64
	ZoomStep         float64
	CopyDelay        time.Duration

	// Rand overrides the random source used for placement. Nil uses math/rand/v2.
	Rand func() float64
}

// DefaultOptions mirrors the preference defaults.
func DefaultOptions() Options {
	return Options{
		MaxItemDimension: 300,
		GridColumns:      4,
		GridCellSize:     220,
		GridOrigin:       geometry.Point2D{X: 50, Y: 200},
		TopMargin:        80,
		PlacementMargin:  50,
		ZoomStep:         viewport.DefaultZoomStep,
		CopyDelay:        export.DefaultCopyDelay,
	}
}

// State holds the board: items, selection, viewport and the interaction
// machine. All mutation happens under mu; listeners run after it is released.
type State struct {
	mu sync.RWMutex

	opts    Options
	store   *items.Store
	sel     *selection.Model
	view    *viewport.State
	machine *interact.Machine

	viewportSize geometry.Size
	held         []func() // Imports waiting for the first layout

	pending sync.WaitGroup

	lmu       sync.RWMutex
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventItemsChanged     EventType = iota // data: nil
	EventSelectionChanged                  // data: int selection count
	EventViewportChanged                   // data: viewport.State
	EventBandChanged                       // data: nil
	EventModeChanged                       // data: interact.Mode
	EventNotice                            // data: Notice
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NoticeLevel grades a user-visible notice.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeError
)

// Notice is a transient message for the status bar.
type Notice struct {
	Level NoticeLevel
	Text  string
}

// NewState creates an empty board.
func NewState(opts Options) *State {
	def := DefaultOptions()
	if opts.MaxItemDimension <= 0 {
		opts.MaxItemDimension = def.MaxItemDimension
	}
	if opts.GridColumns < 1 {
		opts.GridColumns = def.GridColumns
	}
	if opts.GridCellSize <= 0 {
		opts.GridCellSize = def.GridCellSize
	}
	opts.ZoomStep = viewport.ValidZoomStep(opts.ZoomStep)

	view := viewport.New()
	s := &State{
		opts:      opts,
		store:     items.NewStore(),
		sel:       selection.New(),
		view:      &view,
		listeners: make(map[EventType][]EventListener),
	}
	s.machine = interact.New(s.store, s.sel, s.view)
	s.machine.SetZoomStep(opts.ZoomStep)
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.lmu.RLock()
	listeners := s.listeners[event]
	s.lmu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Notify emits a notice.
func (s *State) Notify(level NoticeLevel, format string, args ...interface{}) {
	s.Emit(EventNotice, Notice{Level: level, Text: fmt.Sprintf(format, args...)})
}

// update runs fn under the write lock and then emits events for the
// reported effects.
func (s *State) update(fn func() interact.Effect) interact.Effect {
	s.mu.Lock()
	eff := fn()
	count := s.sel.Count()
	view := *s.view
	mode := s.machine.Mode()
	s.mu.Unlock()

	if eff.Has(interact.EffectItems) {
		s.Emit(EventItemsChanged, nil)
	}
	if eff.Has(interact.EffectSelection) {
		s.Emit(EventSelectionChanged, count)
	}
	if eff.Has(interact.EffectViewport) {
		s.Emit(EventViewportChanged, view)
	}
	if eff.Has(interact.EffectBand) {
		s.Emit(EventBandChanged, nil)
	}
	if eff.Has(interact.EffectMode) {
		s.Emit(EventModeChanged, mode)
	}
	return eff
}

// SetViewportSize records the on-screen size of the board. Its centre is
// the reference point of the coordinate transform. The first non-empty size
// releases imports held until layout.
func (s *State) SetViewportSize(size geometry.Size) {
	s.mu.Lock()
	s.viewportSize = size
	s.machine.SetViewportCenter(size.Half())
	var held []func()
	if hasArea(size) {
		held, s.held = s.held, nil
	}
	s.mu.Unlock()

	for _, start := range held {
		start()
	}
}

// PointerDown hit-tests pos and starts a gesture.
func (s *State) PointerDown(pos geometry.Point2D, button interact.Button, mods interact.Modifier) interact.Effect {
	return s.update(func() interact.Effect {
		hit := s.store.TopmostAt(s.machine.ToCanvas(pos))
		return s.machine.PointerDown(interact.Press{
			Pos:       pos,
			Item:      hit,
			Button:    button,
			Modifiers: mods,
		})
	})
}

// PointerMove forwards a pointer movement.
func (s *State) PointerMove(pos geometry.Point2D) interact.Effect {
	return s.update(func() interact.Effect { return s.machine.PointerMove(pos) })
}

// PointerUp finishes the active gesture.
func (s *State) PointerUp(pos geometry.Point2D) interact.Effect {
	return s.update(func() interact.Effect { return s.machine.PointerUp(pos) })
}

// Wheel zooms by one step; positive direction zooms in.
func (s *State) Wheel(direction int) interact.Effect {
	return s.update(func() interact.Effect { return s.machine.Wheel(direction) })
}

// FocusLost abandons any active gesture.
func (s *State) FocusLost() interact.Effect {
	return s.update(s.machine.Cancel)
}

// Mode returns the active interaction mode.
func (s *State) Mode() interact.Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.machine.Mode()
}

// Remove deletes one item and drops it from the selection. Unknown ids are
// ignored.
func (s *State) Remove(id items.ID) {
	s.update(func() interact.Effect {
		if !s.store.Remove(id) {
			return 0
		}
		eff := interact.EffectItems
		if s.sel.Remove(id) > 0 {
			eff |= interact.EffectSelection
		}
		return eff
	})
}

// DeleteSelected removes every selected item and returns how many went.
func (s *State) DeleteSelected() int {
	var n int
	s.update(func() interact.Effect {
		ids := s.sel.IDs()
		if len(ids) == 0 {
			return 0
		}
		n = s.store.RemoveMany(ids)
		s.sel.Clear()
		return interact.EffectItems | interact.EffectSelection
	})
	if n > 0 {
		s.Notify(NoticeInfo, "Deleted %s", plural(n, "image"))
	}
	return n
}

// ArrangeGrid lays every item out on the configured grid and clears the
// selection.
func (s *State) ArrangeGrid() {
	s.update(func() interact.Effect {
		s.store.ArrangeGrid(s.opts.GridColumns, s.opts.GridCellSize, s.opts.GridOrigin)
		s.sel.Clear()
		return interact.EffectItems | interact.EffectSelection
	})
}

// SelectAll selects every item.
func (s *State) SelectAll() {
	s.update(func() interact.Effect {
		s.sel.SetMany(s.store.IDs())
		return interact.EffectSelection
	})
}

// ClearSelection empties the selection.
func (s *State) ClearSelection() {
	s.update(func() interact.Effect {
		if s.sel.Count() == 0 {
			return 0
		}
		s.sel.Clear()
		return interact.EffectSelection
	})
}

// ResetView restores zoom 1 and no pan.
func (s *State) ResetView() {
	s.update(func() interact.Effect {
		s.view.Reset()
		return interact.EffectViewport
	})
}

// ZoomIn zooms one step in, as a wheel notch would.
func (s *State) ZoomIn() { s.Wheel(1) }

// ZoomOut zooms one step out.
func (s *State) ZoomOut() { s.Wheel(-1) }

// FitAll zooms and pans so every item is visible.
func (s *State) FitAll() {
	s.update(func() interact.Effect {
		s.view.FitTo(s.store.Bounds(), s.viewportSize, s.opts.PlacementMargin)
		return interact.EffectViewport
	})
}

// ItemView is a rendering copy of one item.
type ItemView struct {
	items.Item
	Selected bool
	Primary  bool
}

// Snapshot is a consistent copy of everything a renderer needs.
type Snapshot struct {
	Items    []ItemView // Back to front
	Viewport viewport.State
	Center   geometry.Point2D
	Band     geometry.Rect
	Banding  bool
	Mode     interact.Mode
	Selected int
}

// Snapshot copies the current board state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Viewport: *s.view,
		Center:   s.viewportSize.Half(),
		Mode:     s.machine.Mode(),
		Selected: s.sel.Count(),
	}
	snap.Band, snap.Banding = s.machine.Band()
	primary := s.sel.Primary()
	for _, it := range s.store.ByStackOrder() {
		snap.Items = append(snap.Items, ItemView{
			Item:     *it,
			Selected: s.sel.IsSelected(it.ID),
			Primary:  it.ID == primary,
		})
	}
	return snap
}

// Item returns a copy of one item.
func (s *State) Item(id items.ID) (items.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it := s.store.Get(id)
	if it == nil {
		return items.Item{}, false
	}
	return *it, true
}

// Selected returns copies of the selected items, back to front.
func (s *State) Selected() []*items.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*items.Item
	for _, it := range s.store.ByStackOrder() {
		if s.sel.IsSelected(it.ID) {
			c := *it
			out = append(out, &c)
		}
	}
	return out
}

// SelectionCount returns the number of selected items.
func (s *State) SelectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sel.Count()
}

// Len returns the number of items on the board.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Len()
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
