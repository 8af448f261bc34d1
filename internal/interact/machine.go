// Package interact implements the board's pointer gesture state machine.
//
// One Machine consumes the whole pointer stream. A gesture starts on
// pointer-down, which picks exactly one mode; pointer-move dispatches on that
// mode only; pointer-up finalises it and returns to Idle. Wheel events zoom
// in any mode without interrupting the gesture.
package interact

import (
	"image-board/internal/items"
	"image-board/internal/selection"
	"image-board/internal/viewport"
	"image-board/pkg/geometry"
)

// Mode is the active interaction mode.
type Mode int

const (
	Idle Mode = iota
	DraggingSingle
	DraggingGroup
	RubberBand
	Panning
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case DraggingSingle:
		return "dragging-single"
	case DraggingGroup:
		return "dragging-group"
	case RubberBand:
		return "rubber-band"
	case Panning:
		return "panning"
	default:
		return "unknown"
	}
}

// Button identifies the mouse button of a press.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// Modifier is a bit set of held modifier keys.
type Modifier int

const (
	ModShift Modifier = 1 << iota
	ModControl
	ModSuper
	ModAlt
)

// toggles reports whether the select-toggle modifier (ctrl or cmd) is held.
func (m Modifier) toggles() bool {
	return m&(ModControl|ModSuper) != 0
}

// Effect reports which parts of the board an event changed.
type Effect int

const (
	EffectItems Effect = 1 << iota
	EffectSelection
	EffectViewport
	EffectBand
	EffectMode
)

// Has reports whether all bits of o are set.
func (e Effect) Has(o Effect) bool {
	return e&o == o
}

// Press is a pointer-down with its hit-test result.
type Press struct {
	Pos       geometry.Point2D // Raw pointer position
	Item      items.ID         // Item under the pointer, 0 for empty canvas
	Button    Button
	Modifiers Modifier
}

// Machine is the interaction state. It mutates the store, selection and
// viewport it was built with; callers serialise calls.
type Machine struct {
	store *items.Store
	sel   *selection.Model
	view  *viewport.State

	center   geometry.Point2D // Viewport reference point for the current frame
	zoomStep float64

	mode        Mode
	anchorItem  items.ID
	anchor      geometry.Point2D // Last raw pointer position seen by the gesture
	bandStart   geometry.Point2D
	bandCurrent geometry.Point2D

	lastPointer geometry.Point2D
}

// New creates a machine in Idle.
func New(store *items.Store, sel *selection.Model, view *viewport.State) *Machine {
	return &Machine{
		store:    store,
		sel:      sel,
		view:     view,
		zoomStep: viewport.DefaultZoomStep,
	}
}

// SetViewportCenter sets the reference point used by the coordinate
// transform. Hosts call it whenever the viewport is laid out.
func (m *Machine) SetViewportCenter(c geometry.Point2D) {
	m.center = c
}

// SetZoomStep overrides the zoom change per wheel notch.
func (m *Machine) SetZoomStep(step float64) {
	m.zoomStep = viewport.ValidZoomStep(step)
}

// Mode returns the active mode.
func (m *Machine) Mode() Mode {
	return m.mode
}

// LastPointer returns the last raw pointer position seen in any mode. Before
// any pointer event it is the origin.
func (m *Machine) LastPointer() geometry.Point2D {
	return m.lastPointer
}

// ToCanvas converts a raw pointer position with the current viewport.
func (m *Machine) ToCanvas(p geometry.Point2D) geometry.Point2D {
	return viewport.ToCanvasSpace(p, m.center, *m.view)
}

// Band returns the rubber-band rectangle in canvas space while RubberBand is
// active.
func (m *Machine) Band() (geometry.Rect, bool) {
	if m.mode != RubberBand {
		return geometry.Rect{}, false
	}
	return geometry.RectFromCorners(m.bandStart, m.bandCurrent), true
}

// PointerDown starts a gesture. Presses while a gesture is active are
// ignored, so a mode is never re-entered before returning to Idle.
func (m *Machine) PointerDown(p Press) Effect {
	m.lastPointer = p.Pos
	if m.mode != Idle {
		return 0
	}

	if p.Item == 0 {
		switch p.Button {
		case ButtonPrimary:
			c := m.ToCanvas(p.Pos)
			m.bandStart, m.bandCurrent = c, c
			m.mode = RubberBand
			return EffectMode | EffectBand
		case ButtonMiddle:
			m.anchor = p.Pos
			m.mode = Panning
			return EffectMode
		}
		return 0
	}

	if p.Button != ButtonPrimary || !m.store.Has(p.Item) {
		return 0
	}

	if p.Modifiers.toggles() {
		m.sel.Toggle(p.Item)
		return EffectSelection
	}

	if m.sel.IsSelected(p.Item) && m.sel.Count() > 1 {
		eff := EffectMode | EffectItems
		if m.sel.Primary() != p.Item {
			m.sel.SetPrimary(p.Item)
			eff |= EffectSelection
		}
		m.store.BringManyToFront(m.sel.IDs())
		m.anchor = p.Pos
		m.mode = DraggingGroup
		return eff
	}

	m.sel.SetSingle(p.Item)
	m.store.BringToFront(p.Item)
	m.anchorItem = p.Item
	m.anchor = p.Pos
	m.mode = DraggingSingle
	return EffectMode | EffectItems | EffectSelection
}

// PointerMove advances the active gesture. Hit testing is never repeated
// mid-gesture.
func (m *Machine) PointerMove(pos geometry.Point2D) Effect {
	m.lastPointer = pos

	switch m.mode {
	case DraggingSingle:
		d := m.step(pos)
		m.store.Translate(m.anchorItem, d.X, d.Y)
		return EffectItems
	case DraggingGroup:
		d := m.step(pos)
		m.store.TranslateMany(m.sel.IDs(), d.X, d.Y)
		return EffectItems
	case Panning:
		// Panning moves the view, so the raw delta is not scaled by zoom.
		m.view.PanBy(pos.Sub(m.anchor))
		m.anchor = pos
		return EffectViewport
	case RubberBand:
		m.bandCurrent = m.ToCanvas(pos)
		return EffectBand
	}
	return 0
}

// step returns the canvas-space delta since the previous pointer position
// and moves the anchor. Deltas are incremental, so a zoom change mid-drag
// only affects later movement.
func (m *Machine) step(pos geometry.Point2D) geometry.Point2D {
	d := viewport.CanvasDelta(pos.Sub(m.anchor), *m.view)
	m.anchor = pos
	return d
}

// PointerUp finishes the active gesture and returns to Idle. A release
// without a matching press does nothing.
func (m *Machine) PointerUp(pos geometry.Point2D) Effect {
	m.lastPointer = pos
	if m.mode == Idle {
		return 0
	}

	var eff Effect
	if m.mode == RubberBand {
		m.bandCurrent = m.ToCanvas(pos)
		box := geometry.RectFromCorners(m.bandStart, m.bandCurrent)
		m.sel.SetMany(m.store.CentersWithin(box))
		eff = EffectSelection | EffectBand
	}
	m.reset()
	return eff | EffectMode
}

// Wheel zooms one step in the sign of direction, in any mode.
func (m *Machine) Wheel(direction int) Effect {
	if direction == 0 {
		return 0
	}
	before := m.view.Zoom
	m.view.ZoomBy(direction, m.zoomStep)
	if m.view.Zoom == before {
		return 0
	}
	return EffectViewport
}

// Cancel abandons the active gesture without finalising it. Hosts call it
// when the window loses focus so no drag is left stuck.
func (m *Machine) Cancel() Effect {
	if m.mode == Idle {
		return 0
	}
	eff := EffectMode
	if m.mode == RubberBand {
		eff |= EffectBand
	}
	m.reset()
	return eff
}

func (m *Machine) reset() {
	m.mode = Idle
	m.anchorItem = 0
	m.anchor = geometry.Point2D{}
	m.bandStart = geometry.Point2D{}
	m.bandCurrent = geometry.Point2D{}
}
