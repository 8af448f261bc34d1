package prefs

import (
	"time"

	"image-board/internal/export"
	"image-board/internal/viewport"
	"image-board/pkg/geometry"
)

// Preference keys.
const (
	KeyMaxItemDimension = "maxItemDimension"
	KeyGridColumns      = "gridColumns"
	KeyGridCellSize     = "gridCellSize"
	KeyGridOriginX      = "gridOriginX"
	KeyGridOriginY      = "gridOriginY"
	KeyTopMargin        = "topMargin"
	KeyPlacementMargin  = "placementMargin"
	KeyZoomStep         = "zoomStep"
	KeyCopyDelayMS      = "copyDelayMs"
	KeyToastMS          = "toastMs"
	KeyWindowWidth      = "windowWidth"
	KeyWindowHeight     = "windowHeight"
	KeyLastDir          = "lastDirectory"
)

// Config is the typed view of the board settings.
type Config struct {
	MaxItemDimension float64          // Largest side of a newly imported item
	GridColumns      int              // Columns used by Arrange
	GridCellSize     float64          // Cell pitch used by Arrange
	GridOrigin       geometry.Point2D // Top-left of the first Arrange cell
	TopMargin        float64          // Pointer pixels reserved for chrome when placing items
	PlacementMargin  float64          // Inset for random placement
	ZoomStep         float64          // Zoom change per wheel notch
	CopyDelay        time.Duration    // Pause between sequential clipboard writes
	ToastDuration    time.Duration    // How long a status notice stays up
	WindowSize       geometry.Size
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		MaxItemDimension: 300,
		GridColumns:      4,
		GridCellSize:     220,
		GridOrigin:       geometry.Point2D{X: 50, Y: 200},
		TopMargin:        80,
		PlacementMargin:  50,
		ZoomStep:         viewport.DefaultZoomStep,
		CopyDelay:        export.DefaultCopyDelay,
		ToastDuration:    3 * time.Second,
		WindowSize:       geometry.Size{Width: 1200, Height: 800},
	}
}

// Config reads the board settings, falling back to DefaultConfig for
// anything unset or out of range.
func (p *Prefs) Config() Config {
	def := DefaultConfig()
	c := Config{
		MaxItemDimension: positive(p.FloatWithFallback(KeyMaxItemDimension, def.MaxItemDimension), def.MaxItemDimension),
		GridColumns:      int(positive(p.FloatWithFallback(KeyGridColumns, float64(def.GridColumns)), float64(def.GridColumns))),
		GridCellSize:     positive(p.FloatWithFallback(KeyGridCellSize, def.GridCellSize), def.GridCellSize),
		GridOrigin: geometry.Point2D{
			X: p.FloatWithFallback(KeyGridOriginX, def.GridOrigin.X),
			Y: p.FloatWithFallback(KeyGridOriginY, def.GridOrigin.Y),
		},
		TopMargin:       nonNegative(p.FloatWithFallback(KeyTopMargin, def.TopMargin), def.TopMargin),
		PlacementMargin: nonNegative(p.FloatWithFallback(KeyPlacementMargin, def.PlacementMargin), def.PlacementMargin),
		ZoomStep:        atLeast(p.FloatWithFallback(KeyZoomStep, def.ZoomStep), viewport.MinZoomStep, def.ZoomStep),
		CopyDelay:       millis(p.FloatWithFallback(KeyCopyDelayMS, -1), def.CopyDelay),
		ToastDuration:   millis(p.FloatWithFallback(KeyToastMS, -1), def.ToastDuration),
		WindowSize: geometry.Size{
			Width:  positive(p.Float(KeyWindowWidth), def.WindowSize.Width),
			Height: positive(p.Float(KeyWindowHeight), def.WindowSize.Height),
		},
	}
	return c
}

// SetWindowSize remembers the window size for the next start.
func (p *Prefs) SetWindowSize(size geometry.Size) {
	p.SetFloat(KeyWindowWidth, size.Width)
	p.SetFloat(KeyWindowHeight, size.Height)
}

func positive(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}

func atLeast(v, min, fallback float64) float64 {
	if v >= min {
		return v
	}
	return fallback
}

func nonNegative(v, fallback float64) float64 {
	if v >= 0 {
		return v
	}
	return fallback
}

func millis(ms float64, fallback time.Duration) time.Duration {
	if ms < 0 {
		return fallback
	}
	return time.Duration(ms * float64(time.Millisecond))
}
