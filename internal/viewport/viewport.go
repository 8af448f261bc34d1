// Package viewport holds the zoom/pan state of the board view and the
// transforms between pointer (viewport) coordinates and canvas space.
//
// Rendering a canvas-space point p happens as
//
//	pointer = (p + pan - center) * zoom + center
//
// where center is the viewport's reference point supplied by the host each
// frame. ToCanvasSpace is the exact inverse.
package viewport

import (
	"math"

	"image-board/pkg/geometry"
)

const (
	MinZoom = 0.1
	MaxZoom = 3.0

	// DefaultZoomStep is the zoom change per wheel notch. The step is fixed
	// and does not scale with wheel magnitude.
	DefaultZoomStep = 0.1

	// MinZoomStep is the smallest accepted zoom step.
	MinZoomStep = 0.01

	// zoomPrecision sets the grid results are rounded to (1e-9). It only
	// absorbs float noise from repeated addition and is far finer than any
	// accepted step.
	zoomPrecision = 1e9
)

// State is the current zoom level and pan offset.
type State struct {
	Zoom float64          `json:"zoom"`
	Pan  geometry.Point2D `json:"pan"`
}

// New returns a state at zoom 1 with no pan.
func New() State {
	return State{Zoom: 1}
}

// ClampZoom limits a zoom value to [MinZoom, MaxZoom].
func ClampZoom(zoom float64) float64 {
	if math.IsNaN(zoom) || zoom < MinZoom {
		return MinZoom
	}
	if zoom > MaxZoom {
		return MaxZoom
	}
	return zoom
}

// ApplyZoomDelta returns currentZoom moved by one step in the sign of
// direction, clamped. A zero direction leaves the zoom unchanged. A
// non-positive step means DefaultZoomStep and smaller steps are raised to
// MinZoomStep.
func ApplyZoomDelta(currentZoom float64, direction int, step float64) float64 {
	step = ValidZoomStep(step)
	switch {
	case direction > 0:
		currentZoom += step
	case direction < 0:
		currentZoom -= step
	}
	return ClampZoom(math.Round(currentZoom*zoomPrecision) / zoomPrecision)
}

// ValidZoomStep returns step, DefaultZoomStep when step is not positive, or
// MinZoomStep when step is positive but smaller than that.
func ValidZoomStep(step float64) float64 {
	switch {
	case math.IsNaN(step) || step <= 0:
		return DefaultZoomStep
	case step < MinZoomStep:
		return MinZoomStep
	}
	return step
}

// ZoomBy applies one wheel notch to the state.
func (s *State) ZoomBy(direction int, step float64) {
	s.Zoom = ApplyZoomDelta(s.Zoom, direction, step)
}

// SetZoom sets the zoom level, clamped.
func (s *State) SetZoom(zoom float64) {
	s.Zoom = ClampZoom(zoom)
}

// PanBy adds delta to the pan offset. Pan is unbounded.
func (s *State) PanBy(delta geometry.Point2D) {
	s.Pan = s.Pan.Add(delta)
}

// Reset restores zoom 1 and zero pan.
func (s *State) Reset() {
	s.Zoom = 1
	s.Pan = geometry.Point2D{}
}

// zoom returns a usable zoom even for a zero-value State.
func (s State) zoom() float64 {
	if s.Zoom <= 0 {
		return 1
	}
	return ClampZoom(s.Zoom)
}

// ToCanvasSpace maps a pointer position to canvas space:
// (pointer - center)/zoom + center - pan.
func ToCanvasSpace(pointer, center geometry.Point2D, s State) geometry.Point2D {
	return pointer.Sub(center).Scale(1 / s.zoom()).Add(center).Sub(s.Pan)
}

// ToPointer maps a canvas-space point back to pointer coordinates.
func ToPointer(canvas, center geometry.Point2D, s State) geometry.Point2D {
	return canvas.Add(s.Pan).Sub(center).Scale(s.zoom()).Add(center)
}

// CanvasDelta converts a raw pointer movement into the matching canvas-space
// movement. Movement on screen is divided by the magnification.
func CanvasDelta(pointerDelta geometry.Point2D, s State) geometry.Point2D {
	return pointerDelta.Scale(1 / s.zoom())
}

// Transform returns the canvas-to-pointer mapping as an affine transform.
func (s State) Transform(center geometry.Point2D) geometry.AffineTransform {
	z := s.zoom()
	return geometry.Translation(center.X, center.Y).
		Compose(geometry.Scale(z, z)).
		Compose(geometry.Translation(s.Pan.X-center.X, s.Pan.Y-center.Y))
}

// VisibleRect returns the canvas-space rectangle seen through a viewport of
// the given size whose reference point is its centre. topMargin pointer
// pixels at the top are excluded.
func (s State) VisibleRect(size geometry.Size, topMargin float64) geometry.Rect {
	center := size.Half()
	a := ToCanvasSpace(geometry.Point2D{X: 0, Y: topMargin}, center, s)
	b := ToCanvasSpace(geometry.Point2D{X: size.Width, Y: size.Height}, center, s)
	return geometry.RectFromCorners(a, b)
}

// FitTo sets zoom and pan so that bounds fills a viewport of the given size,
// leaving margin pointer pixels on every side. Empty bounds reset the view.
func (s *State) FitTo(bounds geometry.Rect, size geometry.Size, margin float64) {
	if bounds.Empty() || size.Width <= 2*margin || size.Height <= 2*margin {
		s.Reset()
		return
	}

	// Calculate zoom to fit both dimensions
	zoomX := (size.Width - 2*margin) / bounds.Width
	zoomY := (size.Height - 2*margin) / bounds.Height
	s.SetZoom(math.Min(zoomX, zoomY))

	// Bring the bounds' centre to the viewport centre
	center := size.Half()
	s.Pan = center.Sub(bounds.Center())
}
