package mainwindow

import (
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"gopaint/pkg/colorutil"
)

// paletteColors is the classic two-row palette, 14 swatches per row.
var paletteColors = []string{
	"#000000", "#808080", "#800000", "#808000",
	"#008000", "#008080", "#000080", "#800080",
	"#808040", "#004040", "#0080FF", "#004080",
	"#4000FF", "#804000",
	"#FFFFFF", "#C0C0C0", "#FF0000", "#FFFF00",
	"#00FF00", "#00FFFF", "#0000FF", "#FF00FF",
	"#FFFF80", "#00FF80", "#80FFFF", "#0080FF",
	"#FF0080", "#FF8040",
}

const swatchSize = 18

// colorSwatch is a small clickable color square. A primary tap picks the
// foreground color, a secondary tap the background color.
type colorSwatch struct {
	widget.BaseWidget
	color       color.RGBA
	rect        *fynecanvas.Rectangle
	onPrimary   func(color.RGBA)
	onSecondary func(color.RGBA)
}

func newColorSwatch(c color.RGBA, onPrimary, onSecondary func(color.RGBA)) *colorSwatch {
	s := &colorSwatch{
		color:       c,
		rect:        fynecanvas.NewRectangle(c),
		onPrimary:   onPrimary,
		onSecondary: onSecondary,
	}
	s.rect.StrokeColor = color.RGBA{R: 64, G: 64, B: 64, A: 255}
	s.rect.StrokeWidth = 1
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) Tapped(*fyne.PointEvent) {
	if s.onPrimary != nil {
		s.onPrimary(s.color)
	}
}

func (s *colorSwatch) TappedSecondary(*fyne.PointEvent) {
	if s.onSecondary != nil {
		s.onSecondary(s.color)
	}
}

func (s *colorSwatch) MinSize() fyne.Size {
	return fyne.NewSize(swatchSize, swatchSize)
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.rect)
}

// SetColor changes the swatch color in place.
func (s *colorSwatch) SetColor(c color.RGBA) {
	s.color = c
	s.rect.FillColor = c
	s.rect.Refresh()
}

// buildPalette lays out the swatch grid plus the two current-color wells.
func (mw *MainWindow) buildPalette() fyne.CanvasObject {
	pick := func(c color.RGBA) {
		mw.editor.SetForeground(c)
		mw.fgWell.SetColor(c)
	}
	pickBG := func(c color.RGBA) {
		mw.editor.SetBackground(c)
		mw.bgWell.SetColor(c)
	}

	swatches := make([]fyne.CanvasObject, 0, len(paletteColors))
	for _, hex := range paletteColors {
		swatches = append(swatches, newColorSwatch(colorutil.MustParseHex(hex), pick, pickBG))
	}
	grid := container.NewGridWithColumns(14, swatches...)

	mw.fgWell = newColorSwatch(mw.editor.Foreground(), nil, nil)
	mw.bgWell = newColorSwatch(mw.editor.Background(), nil, nil)
	wells := container.NewVBox(mw.fgWell, mw.bgWell)

	return container.NewHBox(wells, grid)
}
