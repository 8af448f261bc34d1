package canvas

import (
	"fmt"
	"image"
	"image/color"

	"image-board/internal/app"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	placeholderColor = color.RGBA{R: 0x55, G: 0x58, B: 0x60, A: 0xFF}
	labelText        = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	labelBacking     = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xB0}
)

// drawBand draws the rubber band: a faint fill with a dashed outline.
func drawBand(output *image.RGBA, r image.Rectangle, col color.RGBA) {
	fill := color.RGBA{R: col.R / 8, G: col.G / 8, B: col.B / 8, A: 32}
	draw.Draw(output, r.Intersect(output.Bounds()), image.NewUniform(fill), image.Point{}, draw.Over)

	x1, y1 := r.Min.X, r.Min.Y
	x2, y2 := r.Max.X, r.Max.Y
	bounds := output.Bounds()

	// Draw dashed rectangle outline (alternate pixel pairs)
	set := func(x, y int) {
		if (x+y)%4 < 2 && image.Pt(x, y).In(bounds) {
			output.Set(x, y, col)
		}
	}
	for x := x1; x <= x2; x++ {
		set(x, y1)
		set(x, y2)
	}
	for y := y1; y <= y2; y++ {
		set(x1, y)
		set(x2, y)
	}
}

// drawOutline draws a solid rectangle outline inset by half its thickness.
func drawOutline(output *image.RGBA, r image.Rectangle, col color.RGBA, thickness int) {
	x1, y1 := r.Min.X, r.Min.Y
	x2, y2 := r.Max.X-1, r.Max.Y-1
	drawLine(output, x1, y1, x2, y1, col, thickness)
	drawLine(output, x2, y1, x2, y2, col, thickness)
	drawLine(output, x2, y2, x1, y2, col, thickness)
	drawLine(output, x1, y2, x1, y1, col, thickness)
}

// drawLine draws a line between two points using Bresenham's algorithm.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := output.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		// Draw thick point
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					output.Set(px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawLabel writes text with its top-left corner at (x, y) on a dark
// backing box.
func drawLabel(output *image.RGBA, text string, x, y int) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	metrics := face.Metrics()
	height := (metrics.Ascent + metrics.Descent).Ceil()

	box := image.Rect(x-3, y-2, x+width+3, y+height+2)
	draw.Draw(output, box.Intersect(output.Bounds()), image.NewUniform(labelBacking), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  output,
		Src:  image.NewUniform(labelText),
		Face: face,
		Dot:  fixed.P(x, y+metrics.Ascent.Ceil()),
	}
	d.DrawString(text)
}

// labelFor describes an item for its on-canvas label. basicfont only covers
// ASCII, so other runes are replaced.
func labelFor(iv app.ItemView) string {
	name := []rune(iv.Payload.Name)
	for i, r := range name {
		if r < 0x20 || r > 0x7e {
			name[i] = '?'
		}
	}
	return fmt.Sprintf("%s  %.0fx%.0f", string(name), iv.Size.Width, iv.Size.Height)
}
