// Package render draws crop frames onto an image surface and extracts the
// committed region into an output raster.
package render

import (
	"errors"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/path"
)

// ErrSurfaceUnavailable is returned when there is nothing to draw on.
var ErrSurfaceUnavailable = errors.New("render surface unavailable")

// Surface is the drawing contract used by DrawFrame. Coordinates are
// relative to Bounds().Min.
type Surface interface {
	Bounds() image.Rectangle
	Clear(c color.Color)
	Fill(r image.Rectangle, c color.Color)
	// DrawImage composites src using s2d, which maps source pixel
	// coordinates (relative to src.Bounds().Min) to surface coordinates.
	DrawImage(src image.Image, s2d f64.Aff3)
	// FillPath fills p with the non-zero winding rule.
	FillPath(p path.Path, c color.Color)
}

// RGBASurface implements Surface over an *image.RGBA.
type RGBASurface struct {
	Dst    *image.RGBA
	Interp xdraw.Interpolator
}

// NewRGBASurface wraps dst, sampling images bilinearly.
func NewRGBASurface(dst *image.RGBA) *RGBASurface {
	return &RGBASurface{Dst: dst, Interp: xdraw.ApproxBiLinear}
}

func (s *RGBASurface) Bounds() image.Rectangle {
	if s == nil || s.Dst == nil {
		return image.Rectangle{}
	}
	return s.Dst.Bounds()
}

func (s *RGBASurface) Clear(c color.Color) {
	xdraw.Draw(s.Dst, s.Dst.Bounds(), image.NewUniform(c), image.Point{}, xdraw.Src)
}

func (s *RGBASurface) Fill(r image.Rectangle, c color.Color) {
	r = r.Add(s.Dst.Bounds().Min).Intersect(s.Dst.Bounds())
	xdraw.Draw(s.Dst, r, image.NewUniform(c), image.Point{}, xdraw.Over)
}

func (s *RGBASurface) DrawImage(src image.Image, s2d f64.Aff3) {
	sb := src.Bounds()
	origin := s.Dst.Bounds().Min
	// shift into absolute coordinates on both sides
	m := s2d
	m[2] += float64(origin.X) - m[0]*float64(sb.Min.X) - m[1]*float64(sb.Min.Y)
	m[5] += float64(origin.Y) - m[3]*float64(sb.Min.X) - m[4]*float64(sb.Min.Y)
	interp := s.Interp
	if interp == nil {
		interp = xdraw.ApproxBiLinear
	}
	interp.Transform(s.Dst, m, src, sb, xdraw.Over, nil)
}

func (s *RGBASurface) FillPath(p path.Path, c color.Color) {
	b := s.Dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = xdraw.Over
	open := false
	for cmd, pts := range p {
		switch cmd {
		case path.CmdMoveTo:
			if open {
				z.ClosePath()
			}
			z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
			open = true
		case path.CmdLineTo:
			z.LineTo(float32(pts[0].X), float32(pts[0].Y))
		case path.CmdQuadTo:
			z.QuadTo(float32(pts[0].X), float32(pts[0].Y), float32(pts[1].X), float32(pts[1].Y))
		case path.CmdCubeTo:
			z.CubeTo(float32(pts[0].X), float32(pts[0].Y),
				float32(pts[1].X), float32(pts[1].Y),
				float32(pts[2].X), float32(pts[2].Y))
		case path.CmdClose:
			z.ClosePath()
			open = false
		}
	}
	if open {
		z.ClosePath()
	}
	z.Draw(s.Dst, b, image.NewUniform(c), image.Point{})
}
