package app

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"

	"github.com/example/cropframe/internal/theme"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	sliderHeight = 24
	bottomHeight = 24
	// sliderSteps is the number of discrete slider positions.
	sliderSteps = 50
	sliderPad   = 12
	knobSize    = 10
	// the preview is the viewport scaled down by previewDivisor
	previewDivisor = 2
	previewGap     = 8
)

var messageFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 20, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
}

// layout splits the window into the canvas, the live preview, the zoom
// slider and the shortcut bar. The canvas keeps the viewport size; canvas
// and preview are centered horizontally as one row.
type layout struct {
	canvas    image.Rectangle
	preview   image.Rectangle
	slider    image.Rectangle
	shortcuts image.Rectangle
}

func newLayout(width, height int, viewport image.Point) layout {
	row := rowWidth(viewport)
	if width < row {
		width = row
	}
	x0 := (width - row) / 2
	l := layout{canvas: image.Rect(x0, 0, x0+viewport.X, viewport.Y)}
	px := l.canvas.Max.X + previewGap
	l.preview = image.Rect(px, 0, px+viewport.X/previewDivisor, viewport.Y/previewDivisor)
	l.slider = image.Rect(0, viewport.Y, width, viewport.Y+sliderHeight)
	bottom := height
	if bottom < l.slider.Max.Y+bottomHeight {
		bottom = l.slider.Max.Y + bottomHeight
	}
	l.shortcuts = image.Rect(0, bottom-bottomHeight, width, bottom)
	return l
}

func rowWidth(viewport image.Point) int {
	return viewport.X + previewGap + viewport.X/previewDivisor
}

func windowSize(viewport image.Point) image.Point {
	return image.Pt(rowWidth(viewport), viewport.Y+sliderHeight+bottomHeight)
}

// previewSize fits an image of the given aspect ratio inside area.
func previewSize(area image.Rectangle, ratio float64) image.Point {
	w, h := area.Dx(), area.Dy()
	if w <= 0 || h <= 0 || !(ratio > 0) {
		return image.Point{}
	}
	if float64(w)/float64(h) > ratio {
		return image.Pt(int(math.Round(float64(h)*ratio)), h)
	}
	return image.Pt(w, int(math.Round(float64(w)/ratio)))
}

// slider maps zoom values in [1, max] onto a horizontal track.
type slider struct {
	rect image.Rectangle
	max  float64
}

func (s slider) track() (x0, x1 int) {
	return s.rect.Min.X + sliderPad, s.rect.Max.X - sliderPad
}

// valueAt returns the zoom for a pointer at x, snapped to the slider steps.
func (s slider) valueAt(x int) float64 {
	x0, x1 := s.track()
	if x1 <= x0 || s.max <= 1 {
		return 1
	}
	t := float64(x-x0) / float64(x1-x0)
	t = math.Max(0, math.Min(1, t))
	t = math.Round(t*sliderSteps) / sliderSteps
	return 1 + t*(s.max-1)
}

// xFor is the knob position for zoom.
func (s slider) xFor(zoom float64) int {
	x0, x1 := s.track()
	if s.max <= 1 {
		return x0
	}
	t := (zoom - 1) / (s.max - 1)
	t = math.Max(0, math.Min(1, t))
	return x0 + int(math.Round(t*float64(x1-x0)))
}

// step returns the zoom n slider steps away from zoom.
func (s slider) step(zoom float64, n int) float64 {
	if s.max <= 1 {
		return 1
	}
	inc := (s.max - 1) / sliderSteps
	z := 1 + math.Round((zoom-1)/inc)*inc + float64(n)*inc
	return math.Max(1, math.Min(s.max, z))
}

func (s slider) draw(dst *image.RGBA, zoom float64, th *theme.Theme) {
	draw.Draw(dst, s.rect, &image.Uniform{th.BarBackground}, image.Point{}, draw.Src)
	x0, x1 := s.track()
	cy := (s.rect.Min.Y + s.rect.Max.Y) / 2
	kx := s.xFor(zoom)
	draw.Draw(dst, image.Rect(x0, cy-2, x1, cy+2), &image.Uniform{th.SliderTrack}, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(x0, cy-2, kx, cy+2), &image.Uniform{th.SliderFill}, image.Point{}, draw.Src)
	k := image.Rect(kx-knobSize/2, cy-knobSize/2, kx+knobSize/2, cy+knobSize/2)
	draw.Draw(dst, k, &image.Uniform{th.SliderKnob}, image.Point{}, draw.Src)
}

// Shortcut is a clickable label in the bottom bar.
type Shortcut struct {
	label  string
	action string
	rect   image.Rectangle
}

func (s *Shortcut) Draw(dst *image.RGBA, th *theme.Theme) {
	drawRect(dst, s.rect, th.SliderTrack, 1)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: basicfont.Face7x13,
		Dot: fixed.P(s.rect.Min.X+4, s.rect.Min.Y+16)}
	d.DrawString(s.label)
}

func shortcutList(zoom float64) []Shortcut {
	return []Shortcut{
		{label: "Enter:crop", action: actionCommit},
		{label: fmt.Sprintf("+/-:zoom (%.0f%%)", zoom*100), action: actionZoomIn},
		{label: "0:reset", action: actionZoomReset},
		{label: "^C:copy", action: actionCopy},
		{label: "Esc:cancel", action: actionCancel},
	}
}

// layoutShortcuts assigns each shortcut a rect in bar, left to right.
func layoutShortcuts(bar image.Rectangle, list []Shortcut) []Shortcut {
	d := &font.Drawer{Face: basicfont.Face7x13}
	x := bar.Min.X + 4
	for i := range list {
		w := d.MeasureString(list[i].label).Ceil() + 8
		list[i].rect = image.Rect(x, bar.Min.Y+2, x+w, bar.Max.Y-2)
		x += w + 4
	}
	return list
}

func shortcutAt(list []Shortcut, p image.Point) (string, bool) {
	for _, s := range list {
		if p.In(s.rect) {
			return s.action, true
		}
	}
	return "", false
}

func drawShortcuts(dst *image.RGBA, bar image.Rectangle, list []Shortcut, th *theme.Theme) {
	draw.Draw(dst, bar, &image.Uniform{th.BarBackground}, image.Point{}, draw.Src)
	for i := range list {
		list[i].Draw(dst, th)
	}
}

// drawMessage draws msg in a box centered on area.
func drawMessage(dst *image.RGBA, area image.Rectangle, msg string, th *theme.Theme) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: messageFace}
	w := d.MeasureString(msg).Ceil()
	ascent := messageFace.Metrics().Ascent.Ceil()
	descent := messageFace.Metrics().Descent.Ceil()
	px := area.Min.X + (area.Dx()-w)/2
	py := area.Min.Y + (area.Dy()-ascent-descent)/2 + ascent
	box := image.Rect(px-8, py-ascent-8, px+w+8, py+descent+8)
	bg := th.BarBackground
	bg.A = 230
	draw.Draw(dst, box, &image.Uniform{bg}, image.Point{}, draw.Over)
	drawRect(dst, box, th.Foreground, 1)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}

func drawRect(dst *image.RGBA, r image.Rectangle, c color.Color, width int) {
	u := &image.Uniform{c}
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}
