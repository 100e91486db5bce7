package render

import (
	"image"
	"math"

	"github.com/example/cropframe/internal/geometry"
	"github.com/example/cropframe/internal/theme"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"seehuhn.de/go/geom/vec"
)

// Frame is everything needed to draw one state of the crop view.
type Frame struct {
	Dims      geometry.Dimensions
	Placement geometry.Placement
	Pan       vec.Vec2
	Zoom      float64
	Radius    float64
}

// Region is the crop rectangle the frame currently shows.
func (f Frame) Region() geometry.Region {
	return geometry.CropRegion(f.Dims, f.Pan, f.Placement.Scale, f.Zoom)
}

// OutlineWidth is the width of the aperture hairline.
const OutlineWidth = 1.0

// DrawFrame clears s, draws img at its panned placement and overlays the
// aperture mask.
func DrawFrame(s Surface, img image.Image, f Frame, th *theme.Theme) error {
	if s == nil || s.Bounds().Empty() {
		return ErrSurfaceUnavailable
	}
	if th == nil {
		th = theme.Default()
	}
	s.Clear(th.Background)
	if img != nil && f.Placement.Scale > 0 {
		origin := f.Placement.DisplayOffset.Sub(f.Pan)
		sc := f.Placement.Scale
		s.DrawImage(img, f64.Aff3{sc, 0, origin.X, 0, sc, origin.Y})
	}
	s.FillPath(AperturePath(f.Dims, f.Radius), th.Mask)
	if th.ApertureOutline.A > 0 {
		s.FillPath(OutlinePath(f.Dims, f.Radius, OutlineWidth), th.ApertureOutline)
	}
	return nil
}

// SurfaceRenderer draws frames for a fixed image onto a fixed surface.
type SurfaceRenderer struct {
	Surface Surface
	Image   image.Image
	Theme   *theme.Theme
	// Frames counts successful draws.
	Frames int
}

// Render implements the controller's renderer contract.
func (r *SurfaceRenderer) Render(f Frame) error {
	if err := DrawFrame(r.Surface, r.Image, f, r.Theme); err != nil {
		return err
	}
	r.Frames++
	return nil
}

// Extract resamples region of img into a new out-sized image. Parts of the
// region outside the image stay transparent.
func Extract(img image.Image, region geometry.Region, out image.Point) *image.RGBA {
	dst := image.NewRGBA(image.Rectangle{Max: out})
	if img == nil || out.X <= 0 || out.Y <= 0 || region.Size.X <= 0 || region.Size.Y <= 0 {
		return dst
	}
	sb := img.Bounds()
	sx := float64(out.X) / region.Size.X
	sy := float64(out.Y) / region.Size.Y
	s2d := f64.Aff3{
		sx, 0, -sx * (region.Origin.X + float64(sb.Min.X)),
		0, sy, -sy * (region.Origin.Y + float64(sb.Min.Y)),
	}
	xdraw.CatmullRom.Transform(dst, s2d, img, sb, xdraw.Src, nil)
	return dst
}

// OutputSize picks the pixel size of the extracted image. A positive
// width wins; otherwise the region's own size is used.
func OutputSize(region geometry.Region, ratio float64, width int) image.Point {
	if width > 0 && ratio > 0 {
		return image.Pt(width, int(math.Round(float64(width)/ratio)))
	}
	return image.Pt(int(math.Round(region.Size.X)), int(math.Round(region.Size.Y)))
}
