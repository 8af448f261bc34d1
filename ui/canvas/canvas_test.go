package canvas

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"image-board/internal/app"
	"image-board/internal/interact"
	"image-board/pkg/geometry"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
)

var red = color.RGBA{R: 255, A: 255}

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newBoard(t *testing.T) (*app.State, *BoardCanvas) {
	t.Helper()
	test.NewTempApp(t)
	state := app.NewState(app.DefaultOptions())
	bc := NewBoardCanvas(state)
	bc.Resize(fyne.NewSize(800, 600))

	at := geometry.Point2D{X: 400, Y: 300}
	res := state.Import([]app.Source{app.BytesSource("red.png", solidPNG(t, 100, 100, red))}, &at).Wait()
	if res[0].Err != nil {
		t.Fatal(res[0].Err)
	}
	return state, bc
}

func mouse(x, y float32, b desktop.MouseButton, mods fyne.KeyModifier) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     b,
		Modifier:   mods,
	}
}

func drag(x, y float32) *fyne.DragEvent {
	return &fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}}
}

func TestCanvasRectFollowsViewport(t *testing.T) {
	state, bc := newBoard(t)
	state.Wheel(1)
	state.Wheel(1)
	// Zoom 1.2 about (400,300): the 800x600 output shows 1/1.2 of the canvas.
	snap := state.Snapshot()
	got, ok := canvasRect(snap.Viewport.Transform(snap.Center), 800, 600)
	if !ok {
		t.Fatal("canvasRect reported a singular transform")
	}
	want := geometry.Rect{X: 400 - 400/1.2, Y: 300 - 300/1.2, Width: 800 / 1.2, Height: 600 / 1.2}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("canvasRect (-want +got):\n%s", diff)
	}

	// Panning the item out of view leaves only background.
	state.PointerDown(geometry.Point2D{X: 10, Y: 10}, interact.ButtonMiddle, 0)
	state.PointerMove(geometry.Point2D{X: 2000, Y: 10})
	state.PointerUp(geometry.Point2D{X: 2000, Y: 10})
	out := bc.draw(800, 600).(*image.RGBA)
	if got := out.RGBAAt(400, 300); got == red {
		t.Error("item drawn after panning it out of view")
	}
}

func TestDrawPlacesItemThroughViewport(t *testing.T) {
	state, bc := newBoard(t)

	out := bc.draw(800, 600).(*image.RGBA)
	if got := out.RGBAAt(400, 300); got != red {
		t.Errorf("centre pixel = %v, want red", got)
	}
	if got := out.RGBAAt(10, 10); got == red {
		t.Error("background painted red")
	}

	// Zooming out about the centre shrinks the item towards it.
	for i := 0; i < 5; i++ {
		state.Wheel(-1)
	}
	out = bc.draw(800, 600).(*image.RGBA)
	if got := out.RGBAAt(400, 300); got != red {
		t.Errorf("centre pixel after zoom = %v, want red", got)
	}
	if got := out.RGBAAt(445, 300); got == red {
		t.Error("item did not shrink when zoomed out")
	}

	// A HiDPI raster maps the same layout onto more pixels.
	state.ResetView()
	out = bc.draw(1600, 1200).(*image.RGBA)
	if got := out.RGBAAt(800, 600); got != red {
		t.Errorf("centre pixel at 2x = %v, want red", got)
	}
}

func TestDragMovesItem(t *testing.T) {
	state, bc := newBoard(t)

	bc.MouseDown(mouse(400, 300, desktop.MouseButtonPrimary, 0))
	bc.Dragged(drag(430, 310))
	bc.Dragged(drag(450, 320))
	bc.MouseUp(mouse(450, 320, desktop.MouseButtonPrimary, 0))
	bc.DragEnd()

	snap := state.Snapshot()
	if snap.Mode != interact.Idle {
		t.Errorf("mode = %v, want idle", snap.Mode)
	}
	if got := snap.Items[0].Pos; got != (geometry.Point2D{X: 400, Y: 270}) {
		t.Errorf("item at %+v, want (400,270)", got)
	}
	if !snap.Items[0].Selected {
		t.Error("dragged item not selected")
	}
}

func TestRubberBandFromDragEnd(t *testing.T) {
	state, bc := newBoard(t)

	bc.MouseDown(mouse(20, 100, desktop.MouseButtonPrimary, 0))
	bc.Dragged(drag(300, 200))
	if _, ok := bc.draw(800, 600).(*image.RGBA); !ok || !state.Snapshot().Banding {
		t.Fatal("band not active during drag")
	}
	bc.Dragged(drag(780, 580))
	bc.DragEnd()
	bc.MouseUp(mouse(780, 580, desktop.MouseButtonPrimary, 0))

	if n := state.SelectionCount(); n != 1 {
		t.Errorf("selection = %d, want 1", n)
	}
}

func TestMiddleButtonPansWithMouseMoved(t *testing.T) {
	state, bc := newBoard(t)
	state.Wheel(1)

	bc.MouseDown(mouse(100, 100, desktop.MouseButtonTertiary, 0))
	bc.MouseMoved(mouse(130, 80, desktop.MouseButtonTertiary, 0))
	bc.MouseUp(mouse(130, 80, desktop.MouseButtonTertiary, 0))

	pan := state.Snapshot().Viewport.Pan
	if pan != (geometry.Point2D{X: 30, Y: -20}) {
		t.Errorf("pan = %+v, want raw pointer delta (30,-20)", pan)
	}
}

func TestScrollZooms(t *testing.T) {
	state, bc := newBoard(t)
	bc.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, 3)})
	bc.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, 0)})
	if z := state.Snapshot().Viewport.Zoom; z != 1.1 {
		t.Errorf("zoom = %v, want 1.1", z)
	}
}

func TestModifierMapping(t *testing.T) {
	tests := []struct {
		in   fyne.KeyModifier
		want interact.Modifier
	}{
		{0, 0},
		{fyne.KeyModifierControl, interact.ModControl},
		{fyne.KeyModifierSuper, interact.ModSuper},
		{fyne.KeyModifierShift | fyne.KeyModifierAlt, interact.ModShift | interact.ModAlt},
	}
	for _, tt := range tests {
		if got := mapModifiers(tt.in); got != tt.want {
			t.Errorf("mapModifiers(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, ok := mapButton(desktop.MouseButton(99)); ok {
		t.Error("unknown button mapped")
	}
}
