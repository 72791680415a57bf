package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// HeatLensTheme provides a custom theme for the application.
type HeatLensTheme struct{}

var _ fyne.Theme = (*HeatLensTheme)(nil)

func (t *HeatLensTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x35, G: 0x8C, B: 0x8A, A: 0xFF} // Teal, matches viridis midtones
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0xFD, G: 0xE7, B: 0x25, A: 0x80} // Viridis yellow for highlights
	case theme.ColorNameScrollBar:
		return color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *HeatLensTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *HeatLensTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *HeatLensTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 16
	case theme.SizeNameScrollBarSmall:
		return 12
	default:
		return theme.DefaultTheme().Size(name)
	}
}
