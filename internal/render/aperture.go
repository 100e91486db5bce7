package render

import (
	"math"

	"github.com/example/cropframe/internal/geometry"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498

type segment struct {
	ctrl []vec.Vec2 // nil for straight lines
	to   vec.Vec2
}

// roundedRect returns a clockwise (in y-down coordinates) outline starting
// at the end of the top-left corner.
func roundedRect(x0, y0, x1, y1, r float64) (vec.Vec2, []segment) {
	r = math.Max(0, math.Min(r, math.Min(x1-x0, y1-y0)/2))
	k := kappa * r
	pt := func(x, y float64) vec.Vec2 { return vec.Vec2{X: x, Y: y} }
	start := pt(x0+r, y0)
	segs := []segment{
		{to: pt(x1-r, y0)},
		{ctrl: []vec.Vec2{pt(x1-r+k, y0), pt(x1, y0+r-k)}, to: pt(x1, y0+r)},
		{to: pt(x1, y1-r)},
		{ctrl: []vec.Vec2{pt(x1, y1-r+k), pt(x1-r+k, y1)}, to: pt(x1-r, y1)},
		{to: pt(x0+r, y1)},
		{ctrl: []vec.Vec2{pt(x0+r-k, y1), pt(x0, y1-r+k)}, to: pt(x0, y1-r)},
		{to: pt(x0, y0+r)},
		{ctrl: []vec.Vec2{pt(x0, y0+r-k), pt(x0+r-k, y0)}, to: start},
	}
	if r == 0 {
		// corners collapse to points; keep only the edges
		segs = []segment{segs[0], segs[2], segs[4], segs[6]}
	}
	return start, segs
}

// emit yields one closed subpath, optionally reversed.
func emit(yield func(path.Command, []vec.Vec2) bool, start vec.Vec2, segs []segment, reverse bool) bool {
	if reverse {
		// walk the same outline backwards: each segment now ends where the
		// previous one started
		from := make([]vec.Vec2, len(segs))
		prev := start
		for i, s := range segs {
			from[i] = prev
			prev = s.to
		}
		if !yield(path.CmdMoveTo, []vec.Vec2{start}) {
			return false
		}
		for i := len(segs) - 1; i >= 0; i-- {
			s := segs[i]
			if s.ctrl == nil {
				if !yield(path.CmdLineTo, []vec.Vec2{from[i]}) {
					return false
				}
				continue
			}
			if !yield(path.CmdCubeTo, []vec.Vec2{s.ctrl[1], s.ctrl[0], from[i]}) {
				return false
			}
		}
		return yield(path.CmdClose, nil)
	}
	if !yield(path.CmdMoveTo, []vec.Vec2{start}) {
		return false
	}
	for _, s := range segs {
		if s.ctrl == nil {
			if !yield(path.CmdLineTo, []vec.Vec2{s.to}) {
				return false
			}
			continue
		}
		if !yield(path.CmdCubeTo, []vec.Vec2{s.ctrl[0], s.ctrl[1], s.to}) {
			return false
		}
	}
	return yield(path.CmdClose, nil)
}

// ClampRadius limits a corner radius to half the aperture's shorter side.
func ClampRadius(d geometry.Dimensions, radius float64) float64 {
	a := d.ApertureSize()
	return math.Max(0, math.Min(radius, math.Min(a.X, a.Y)/2))
}

// AperturePath covers the whole viewport except a rounded rectangle at the
// border inset. The two outlines wind in opposite directions, so a non-zero
// fill leaves the aperture empty.
func AperturePath(d geometry.Dimensions, radius float64) path.Path {
	lo, hi := d.ApertureRect()
	radius = ClampRadius(d, radius)
	return func(yield func(path.Command, []vec.Vec2) bool) {
		start, outer := roundedRect(0, 0, d.Viewport.X, d.Viewport.Y, 0)
		if !emit(yield, start, outer, false) {
			return
		}
		start, inner := roundedRect(lo.X, lo.Y, hi.X, hi.Y, radius)
		emit(yield, start, inner, true)
	}
}

// OutlinePath is a ring of the given width drawn just inside the aperture
// edge.
func OutlinePath(d geometry.Dimensions, radius, width float64) path.Path {
	lo, hi := d.ApertureRect()
	radius = ClampRadius(d, radius)
	return func(yield func(path.Command, []vec.Vec2) bool) {
		start, outer := roundedRect(lo.X, lo.Y, hi.X, hi.Y, radius)
		if !emit(yield, start, outer, false) {
			return
		}
		start, inner := roundedRect(lo.X+width, lo.Y+width, hi.X-width, hi.Y-width, math.Max(0, radius-width))
		emit(yield, start, inner, true)
	}
}
