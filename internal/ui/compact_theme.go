package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CompactTheme tightens paddings and text sizes so long app lists fit
type CompactTheme struct {
	base fyne.Theme
}

// NewCompactTheme creates a new compact theme
func NewCompactTheme() fyne.Theme {
	return &CompactTheme{base: theme.DefaultTheme()}
}

var compactColors = map[fyne.ThemeColorName]color.Color{
	theme.ColorNameError:   color.NRGBA{R: 198, G: 40, B: 40, A: 255},
	theme.ColorNameSuccess: color.NRGBA{R: 56, G: 142, B: 60, A: 255},
	theme.ColorNamePrimary: color.NRGBA{R: 0, G: 121, B: 107, A: 255},
}

var compactSizes = map[fyne.ThemeSizeName]float32{
	theme.SizeNamePadding:        3,
	theme.SizeNameInnerPadding:   6,
	theme.SizeNameLineSpacing:    2,
	theme.SizeNameScrollBar:      12,
	theme.SizeNameText:           13,
	theme.SizeNameHeadingText:    18,
	theme.SizeNameSubHeadingText: 15,
	theme.SizeNameCaptionText:    10,
	theme.SizeNameInputRadius:    3,
}

// Color returns theme colors
func (t *CompactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if c, ok := compactColors[name]; ok {
		return c
	}
	return t.base.Color(name, variant)
}

// Font returns theme fonts
func (t *CompactTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon returns theme icons
func (t *CompactTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns theme sizes with compact adjustments
func (t *CompactTheme) Size(name fyne.ThemeSizeName) float32 {
	if s, ok := compactSizes[name]; ok {
		return s
	}
	return t.base.Size(name)
}
