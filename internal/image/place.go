package image

import (
	"encoding/base64"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"image-board/internal/viewport"
	"image-board/pkg/geometry"
)

// DefaultMaxDimension is the largest side an imported item gets on the board.
const DefaultMaxDimension = 300

// FitSize scales w x h so the larger side is at most maxDim, preserving the
// aspect ratio. Images are never enlarged. Both sides stay above zero.
func FitSize(w, h int, maxDim float64) geometry.Size {
	if w <= 0 || h <= 0 {
		return geometry.Size{Width: 1, Height: 1}
	}
	if maxDim <= 0 {
		maxDim = DefaultMaxDimension
	}
	scale := math.Min(1, maxDim/math.Max(float64(w), float64(h)))
	return geometry.Size{Width: float64(w) * scale, Height: float64(h) * scale}
}

// Placement decides where imported items land. It is a snapshot of the
// viewport taken when the import starts, so later zooming or panning does
// not move an item that is still decoding.
type Placement struct {
	Visible geometry.Rect // Canvas-space area available for items
	Margin  float64       // Inset used for random placement
	Rand    func() float64
}

// NewPlacement captures the visible area of a viewport of the given size,
// excluding topMargin pointer pixels reserved for window chrome.
func NewPlacement(view viewport.State, size geometry.Size, topMargin, margin float64) Placement {
	return Placement{
		Visible: view.VisibleRect(size, topMargin),
		Margin:  margin,
		Rand:    rand.Float64,
	}
}

// At centres an item of the given size on p and then clamps it so the whole
// item stays inside the visible area. Items larger than the area are pinned
// to its top-left corner.
func (pl Placement) At(p geometry.Point2D, size geometry.Size) geometry.Point2D {
	pos := p.Sub(size.Half())
	pos.X = clamp(pos.X, pl.Visible.X, pl.Visible.X+pl.Visible.Width-size.Width)
	pos.Y = clamp(pos.Y, pl.Visible.Y, pl.Visible.Y+pl.Visible.Height-size.Height)
	return pos
}

// Random picks a pseudo-random top-left inside the visible area minus the
// margin on every side.
func (pl Placement) Random(size geometry.Size) geometry.Point2D {
	rnd := pl.Rand
	if rnd == nil {
		rnd = rand.Float64
	}
	x0 := pl.Visible.X + pl.Margin
	y0 := pl.Visible.Y + pl.Margin
	spanX := math.Max(0, pl.Visible.Width-2*pl.Margin-size.Width)
	spanY := math.Max(0, pl.Visible.Height-2*pl.Margin-size.Height)
	return geometry.Point2D{X: x0 + rnd()*spanX, Y: y0 + rnd()*spanY}
}

// clamp limits v to [lo, hi]; lo wins when the range is inverted.
func clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// ParseDataURL extracts the bytes of a base64 "data:" URL such as the text
// fallback written by the clipboard exporter.
func ParseDataURL(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "data:") {
		return nil, fmt.Errorf("not a data URL: %w", ErrInvalidInput)
	}
	meta, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("data URL is not base64: %w", ErrInvalidInput)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("data URL payload: %v: %w", err, ErrInvalidInput)
	}
	return data, nil
}
