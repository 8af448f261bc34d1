package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// BoardTheme is the application's fyne theme.
type BoardTheme struct{}

var _ fyne.Theme = (*BoardTheme)(nil)

// Colours shared by the theme and the board renderer.
var (
	BoardBackground = color.NRGBA{R: 0x24, G: 0x26, B: 0x2B, A: 0xFF}
	SelectionColor  = color.NRGBA{R: 0x3D, G: 0x8B, B: 0xFD, A: 0xFF}
	BandColor       = color.NRGBA{R: 0xFF, G: 0xD5, B: 0x00, A: 0xFF}
)

func (t *BoardTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return SelectionColor
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0x3D, G: 0x8B, B: 0xFD, A: 0x60}
	case theme.ColorNameBackground:
		if variant == theme.VariantDark {
			return BoardBackground
		}
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (t *BoardTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *BoardTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *BoardTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == theme.SizeNameScrollBar {
		return 12
	}
	return theme.DefaultTheme().Size(name)
}
