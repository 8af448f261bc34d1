// Package canvas provides the board widget: it renders the items through the
// viewport and feeds pointer input to the interaction machine.
package canvas

import (
	"image"
	"image/color"
	"math"

	"image-board/internal/app"
	"image-board/internal/interact"
	"image-board/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// BoardCanvas displays the board and handles mouse input.
type BoardCanvas struct {
	widget.BaseWidget

	state  *app.State
	raster *fynecanvas.Raster

	lastDrag geometry.Point2D
}

var (
	_ desktop.Mouseable  = (*BoardCanvas)(nil)
	_ desktop.Hoverable  = (*BoardCanvas)(nil)
	_ desktop.Cursorable = (*BoardCanvas)(nil)
	_ fyne.Draggable     = (*BoardCanvas)(nil)
	_ fyne.Scrollable    = (*BoardCanvas)(nil)
)

// NewBoardCanvas creates the board widget for state.
func NewBoardCanvas(state *app.State) *BoardCanvas {
	bc := &BoardCanvas{state: state}

	bc.raster = fynecanvas.NewRaster(bc.draw)
	bc.raster.ScaleMode = fynecanvas.ImageScalePixels

	refresh := func(interface{}) { bc.Refresh() }
	state.On(app.EventItemsChanged, refresh)
	state.On(app.EventSelectionChanged, refresh)
	state.On(app.EventViewportChanged, refresh)
	state.On(app.EventBandChanged, refresh)

	bc.ExtendBaseWidget(bc)
	return bc
}

// MouseDown starts a gesture.
func (bc *BoardCanvas) MouseDown(ev *desktop.MouseEvent) {
	button, ok := mapButton(ev.Button)
	if !ok {
		return
	}
	bc.state.PointerDown(toPoint(ev.Position), button, mapModifiers(ev.Modifier))
}

// MouseUp finishes the active gesture.
func (bc *BoardCanvas) MouseUp(ev *desktop.MouseEvent) {
	bc.state.PointerUp(toPoint(ev.Position))
}

// MouseIn is required by desktop.Hoverable.
func (bc *BoardCanvas) MouseIn(ev *desktop.MouseEvent) {
	bc.state.PointerMove(toPoint(ev.Position))
}

// MouseMoved tracks the pointer. It also carries middle-button pans, which
// the driver does not report as drags.
func (bc *BoardCanvas) MouseMoved(ev *desktop.MouseEvent) {
	bc.state.PointerMove(toPoint(ev.Position))
}

// MouseOut is required by desktop.Hoverable. Gestures continue outside the
// widget until the button is released.
func (bc *BoardCanvas) MouseOut() {}

// Dragged carries primary-button moves while the button is held.
func (bc *BoardCanvas) Dragged(ev *fyne.DragEvent) {
	bc.lastDrag = toPoint(ev.Position)
	bc.state.PointerMove(bc.lastDrag)
}

// DragEnd releases at the last drag position. Whichever of DragEnd and
// MouseUp arrives second finds the machine idle and does nothing.
func (bc *BoardCanvas) DragEnd() {
	bc.state.PointerUp(bc.lastDrag)
}

// Scrolled zooms one step per wheel event.
func (bc *BoardCanvas) Scrolled(ev *fyne.ScrollEvent) {
	switch {
	case ev.Scrolled.DY > 0:
		bc.state.Wheel(1)
	case ev.Scrolled.DY < 0:
		bc.state.Wheel(-1)
	}
}

// Cursor reflects the active gesture.
func (bc *BoardCanvas) Cursor() desktop.Cursor {
	switch bc.state.Mode() {
	case interact.RubberBand:
		return desktop.CrosshairCursor
	case interact.DraggingSingle, interact.DraggingGroup, interact.Panning:
		return desktop.PointerCursor
	}
	return desktop.DefaultCursor
}

// Resize keeps the board's viewport centre in step with the widget size.
func (bc *BoardCanvas) Resize(size fyne.Size) {
	bc.BaseWidget.Resize(size)
	bc.state.SetViewportSize(geometry.Size{Width: float64(size.Width), Height: float64(size.Height)})
}

// LocalPosition converts a window position, such as a drop point, to a
// position relative to the widget.
func (bc *BoardCanvas) LocalPosition(abs fyne.Position) geometry.Point2D {
	origin := fyne.CurrentApp().Driver().AbsolutePositionForObject(bc)
	return toPoint(abs.Subtract(origin))
}

// Refresh refreshes the canvas display.
func (bc *BoardCanvas) Refresh() {
	bc.raster.Refresh()
}

// MinSize keeps the board usable in a small window.
func (bc *BoardCanvas) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

// CreateRenderer implements fyne.Widget.
func (bc *BoardCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(bc.raster)
}

func toPoint(p fyne.Position) geometry.Point2D {
	return geometry.Point2D{X: float64(p.X), Y: float64(p.Y)}
}

func mapButton(b desktop.MouseButton) (interact.Button, bool) {
	switch b {
	case desktop.MouseButtonPrimary:
		return interact.ButtonPrimary, true
	case desktop.MouseButtonTertiary:
		return interact.ButtonMiddle, true
	case desktop.MouseButtonSecondary:
		return interact.ButtonSecondary, true
	}
	return 0, false
}

func mapModifiers(m fyne.KeyModifier) interact.Modifier {
	var out interact.Modifier
	if m&fyne.KeyModifierShift != 0 {
		out |= interact.ModShift
	}
	if m&fyne.KeyModifierControl != 0 {
		out |= interact.ModControl
	}
	if m&fyne.KeyModifierSuper != 0 {
		out |= interact.ModSuper
	}
	if m&fyne.KeyModifierAlt != 0 {
		out |= interact.ModAlt
	}
	return out
}

// draw is the raster drawing function. w and h are in device pixels, so
// the board transform is followed by the widget's pixel scale.
func (bc *BoardCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(output, output.Bounds(), image.NewUniform(app.BoardBackground), image.Point{}, draw.Src)

	size := bc.Size()
	if w == 0 || h == 0 || size.Width <= 0 {
		return output
	}
	scale := float64(w) / float64(size.Width)

	snap := bc.state.Snapshot()
	toPixels := geometry.Scale(scale, scale).Compose(snap.Viewport.Transform(snap.Center))
	visible, ok := canvasRect(toPixels, w, h)
	if !ok {
		return output
	}

	for _, iv := range snap.Items {
		if iv.Bounds().Intersects(visible) {
			drawItem(output, iv, toPixels)
		}
	}
	for _, iv := range snap.Items {
		if iv.Selected {
			thickness := 2
			if iv.Primary {
				thickness = 3
			}
			drawOutline(output, pixelRect(toPixels, iv.Bounds()), color.RGBA(app.SelectionColor), thickness)
		}
		if iv.Primary {
			r := pixelRect(toPixels, iv.Bounds())
			drawLabel(output, labelFor(iv), r.Min.X, r.Max.Y+4)
		}
	}

	if snap.Banding {
		drawBand(output, pixelRect(toPixels, snap.Band), color.RGBA(app.BandColor))
	}

	return output
}

// canvasRect returns the canvas-space area shown by a w x h output.
func canvasRect(toPixels geometry.AffineTransform, w, h int) (geometry.Rect, bool) {
	inv, ok := toPixels.Inverse()
	if !ok {
		return geometry.Rect{}, false
	}
	return geometry.RectFromCorners(
		inv.Apply(geometry.Point2D{}),
		inv.Apply(geometry.Point2D{X: float64(w), Y: float64(h)}),
	), true
}

// drawItem scales the item's decoded image into its on-screen rectangle.
func drawItem(output *image.RGBA, iv app.ItemView, toPixels geometry.AffineTransform) {
	r := pixelRect(toPixels, iv.Bounds())
	src := iv.Payload.Image
	if src == nil || src.Bounds().Empty() {
		draw.Draw(output, r, image.NewUniform(placeholderColor), image.Point{}, draw.Over)
		return
	}

	b := src.Bounds()
	place := geometry.Translation(iv.Pos.X, iv.Pos.Y).
		Compose(geometry.Scale(iv.Size.Width/float64(b.Dx()), iv.Size.Height/float64(b.Dy()))).
		Compose(geometry.Translation(-float64(b.Min.X), -float64(b.Min.Y)))
	m := toPixels.Compose(place)

	s2d := f64.Aff3{m.A, m.B, m.TX, m.C, m.D, m.TY}
	draw.ApproxBiLinear.Transform(output, s2d, src, b, draw.Over, nil)
}

// pixelRect maps a canvas-space rectangle to whole output pixels.
func pixelRect(t geometry.AffineTransform, r geometry.Rect) image.Rectangle {
	a := t.Apply(r.TopLeft())
	b := t.Apply(r.BottomRight())
	return image.Rect(
		int(math.Floor(a.X)), int(math.Floor(a.Y)),
		int(math.Ceil(b.X)), int(math.Ceil(b.Y)),
	)
}
