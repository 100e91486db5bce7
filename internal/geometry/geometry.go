// Package geometry computes where a source image sits inside a bordered
// viewport, how far it may be panned, and which pixel region of the source
// the aperture currently selects.
//
// All sizes and points are vec.Vec2 values. For sizes X is the width and Y
// the height. Every function is pure.
package geometry

import (
	"image"
	"math"

	"seehuhn.de/go/geom/vec"
)

// DefaultBorderDivisor yields a border of viewport/20 on each axis.
const DefaultBorderDivisor = 20

// Layout controls how Resolve derives the border and output ratio.
type Layout struct {
	// BorderDivisor divides the viewport to obtain the border when Border
	// is zero. Values <= 0 use DefaultBorderDivisor.
	BorderDivisor float64
	// Border, when non-zero, is used verbatim.
	Border vec.Vec2
	// OutputRatio, when positive, overrides the viewport aspect ratio.
	OutputRatio float64
}

// Dimensions is the resolved geometry shared by every computation.
type Dimensions struct {
	Image       vec.Vec2
	Viewport    vec.Vec2
	Border      vec.Vec2
	OutputRatio float64
}

// Placement describes how the image is laid out on the canvas for a zoom.
type Placement struct {
	Scale         float64
	DisplaySize   vec.Vec2
	DisplayOffset vec.Vec2
}

// Region is a rectangle in natural image pixel space.
type Region struct {
	Origin vec.Vec2
	Size   vec.Vec2
}

// Resolve builds Dimensions for an image and viewport.
func Resolve(img, viewport vec.Vec2, l Layout) Dimensions {
	d := Dimensions{Image: img, Viewport: viewport}
	if l.Border != (vec.Vec2{}) {
		d.Border = l.Border
	} else {
		div := l.BorderDivisor
		if div <= 0 {
			div = DefaultBorderDivisor
		}
		d.Border = vec.Vec2{X: viewport.X / div, Y: viewport.Y / div}
	}
	switch {
	case l.OutputRatio > 0:
		d.OutputRatio = l.OutputRatio
	case viewport.Y > 0:
		d.OutputRatio = viewport.X / viewport.Y
	}
	return d
}

// Degenerate reports whether downstream geometry would divide by zero or
// produce non-finite values for d.
func (d Dimensions) Degenerate() bool {
	for _, v := range []float64{d.Image.X, d.Image.Y, d.Viewport.X, d.Viewport.Y, d.Border.X, d.Border.Y, d.OutputRatio} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	if d.Image.X <= 0 || d.Image.Y <= 0 || d.Viewport.X <= 0 || d.Viewport.Y <= 0 {
		return true
	}
	if d.Border.X < 0 || d.Border.Y < 0 || d.OutputRatio <= 0 {
		return true
	}
	a := d.ApertureSize()
	return a.X <= 0 || a.Y <= 0
}

// ApertureSize is the viewport less the border on both sides.
func (d Dimensions) ApertureSize() vec.Vec2 {
	return vec.Vec2{X: d.Viewport.X - 2*d.Border.X, Y: d.Viewport.Y - 2*d.Border.Y}
}

// ApertureRect returns the aperture in canvas coordinates as min and max
// corners.
func (d Dimensions) ApertureRect() (minPt, maxPt vec.Vec2) {
	return d.Border, d.Viewport.Sub(d.Border)
}

// CenterImage scales the image so it covers the aperture at zoom 1 and
// centers it in the viewport.
func CenterImage(d Dimensions, zoom float64) Placement {
	limit := d.ApertureSize()
	scale := math.Max(limit.X/d.Image.X, limit.Y/d.Image.Y) * zoom
	size := d.Image.Mul(scale)
	return Placement{
		Scale:       scale,
		DisplaySize: size,
		DisplayOffset: vec.Vec2{
			X: (d.Viewport.X - size.X) / 2,
			Y: (d.Viewport.Y - size.Y) / 2,
		},
	}
}

// ConstrainPosition clamps a pan vector so the image keeps covering the
// aperture. offset is the DisplayOffset for the current zoom.
func ConstrainPosition(d Dimensions, pan, offset vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: clampAxis(pan.X, d.Border.X-offset.X),
		Y: clampAxis(pan.Y, d.Border.Y-offset.Y),
	}
}

func clampAxis(v, window float64) float64 {
	if window == 0 {
		return 0
	}
	w := math.Abs(window)
	return math.Max(-w, math.Min(w, v))
}

// CropRegion maps the aperture back into image pixel space.
func CropRegion(d Dimensions, pan vec.Vec2, scale, zoom float64) Region {
	factor := math.Min(d.Image.Y, d.Image.X/d.OutputRatio)
	size := vec.Vec2{X: d.OutputRatio * factor / zoom, Y: factor / zoom}
	center := pan.Mul(1 / scale).Add(d.Image.Mul(0.5))
	return Region{
		Origin: center.Sub(size.Mul(0.5)),
		Size:   size,
	}
}

// ImageToCanvas maps a point in image pixels to canvas coordinates.
func ImageToCanvas(p Placement, pan, pt vec.Vec2) vec.Vec2 {
	return p.DisplayOffset.Sub(pan).Add(pt.Mul(p.Scale))
}

// CanvasToImage is the inverse of ImageToCanvas.
func CanvasToImage(p Placement, pan, pt vec.Vec2) vec.Vec2 {
	return pt.Sub(p.DisplayOffset).Add(pan).Mul(1 / p.Scale)
}

// Rect rounds the region to whole pixels.
func (r Region) Rect() image.Rectangle {
	x0 := int(math.Round(r.Origin.X))
	y0 := int(math.Round(r.Origin.Y))
	return image.Rect(x0, y0, x0+int(math.Round(r.Size.X)), y0+int(math.Round(r.Size.Y)))
}

// Clip returns the region intersected with the image bounds.
func (r Region) Clip(img vec.Vec2) Region {
	x0 := math.Max(0, r.Origin.X)
	y0 := math.Max(0, r.Origin.Y)
	x1 := math.Min(img.X, r.Origin.X+r.Size.X)
	y1 := math.Min(img.Y, r.Origin.Y+r.Size.Y)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Region{Origin: vec.Vec2{X: x0, Y: y0}, Size: vec.Vec2{X: x1 - x0, Y: y1 - y0}}
}
