package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// DefaultWindowSize fits the tracking tab without scrolling
var DefaultWindowSize = fyne.NewSize(720, 560)

var trackerColors = map[fyne.ThemeColorName]color.Color{
	theme.ColorNamePrimary:    color.NRGBA{R: 0, G: 150, B: 136, A: 255},
	theme.ColorNameButton:     color.NRGBA{R: 0, G: 121, B: 107, A: 255},
	theme.ColorNameBackground: color.NRGBA{R: 18, G: 18, B: 18, A: 255},
	theme.ColorNameSuccess:    color.NRGBA{R: 76, G: 175, B: 80, A: 255},
	theme.ColorNameWarning:    color.NRGBA{R: 255, G: 152, B: 0, A: 255},
	theme.ColorNameError:      color.NRGBA{R: 244, G: 67, B: 54, A: 255},
}

var trackerSizes = map[fyne.ThemeSizeName]float32{
	theme.SizeNameText:        14,
	theme.SizeNameHeadingText: 18,
	theme.SizeNamePadding:     6,
}

// TrackerTheme is a dark teal theme. Anything it does not override falls
// through to the fyne default theme.
type TrackerTheme struct{}

var _ fyne.Theme = (*TrackerTheme)(nil)

func (t *TrackerTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	if c, ok := trackerColors[name]; ok {
		return c
	}
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}

func (t *TrackerTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *TrackerTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *TrackerTheme) Size(name fyne.ThemeSizeName) float32 {
	if s, ok := trackerSizes[name]; ok {
		return s
	}
	return theme.DefaultTheme().Size(name)
}
