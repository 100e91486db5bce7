// Package cropper holds the pan/zoom interaction state of a crop session.
//
// A Controller is driven from a single event loop goroutine and is not safe
// for concurrent use.
package cropper

import (
	"log"
	"math"

	"github.com/example/cropframe/internal/geometry"
	"github.com/example/cropframe/internal/render"
	"seehuhn.de/go/geom/vec"
)

// State is the interaction state.
type State int

const (
	StateIdle State = iota
	StateDragging
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	}
	return "unknown"
}

const (
	DefaultMaxZoom      = 3.0
	DefaultCornerRadius = 30.0
)

// ViewState is the mutable part of a crop session.
type ViewState struct {
	Zoom       float64
	Pan        vec.Vec2
	DragAnchor *vec.Vec2
	ImageReady bool
}

// Result is emitted when the user commits.
type Result struct {
	Region geometry.Region
	Zoom   float64
	Pan    vec.Vec2
	Dims   geometry.Dimensions
}

// Renderer draws a frame. Errors are logged and otherwise ignored.
type Renderer interface {
	Render(render.Frame) error
}

// Option configures a Controller.
type Option func(*Controller)

// WithLayout sets how border and output ratio are derived.
func WithLayout(l geometry.Layout) Option {
	return func(c *Controller) { c.layout = l }
}

// WithMaxZoom sets the upper zoom bound. Values below 1 are ignored.
func WithMaxZoom(z float64) Option {
	return func(c *Controller) {
		if z >= 1 && !math.IsInf(z, 0) {
			c.maxZoom = z
		}
	}
}

// WithZoom sets the initial zoom. It is clamped once all options apply.
func WithZoom(z float64) Option {
	return func(c *Controller) { c.view.Zoom = z }
}

// WithCornerRadius sets the aperture corner radius in canvas pixels.
func WithCornerRadius(r float64) Option {
	return func(c *Controller) { c.radius = r }
}

// WithRenderer sets the draw target.
func WithRenderer(r Renderer) Option {
	return func(c *Controller) { c.renderer = r }
}

// WithPreview registers an observer for the live crop region.
func WithPreview(fn func(geometry.Region)) Option {
	return func(c *Controller) { c.onPreview = fn }
}

// WithOnCommit registers the commit callback.
func WithOnCommit(fn func(Result)) Option {
	return func(c *Controller) { c.onCommit = fn }
}

// WithOnCancel registers the cancel callback.
func WithOnCancel(fn func()) Option {
	return func(c *Controller) { c.onCancel = fn }
}

// WithLogger replaces log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// Controller maps pointer and zoom input onto a ViewState.
type Controller struct {
	viewport vec.Vec2
	image    vec.Vec2
	layout   geometry.Layout
	maxZoom  float64
	radius   float64

	view   ViewState
	closed bool

	renderer  Renderer
	onPreview func(geometry.Region)
	onCommit  func(Result)
	onCancel  func()
	log       *log.Logger
}

// New creates an idle controller for a viewport of the given size.
func New(viewport vec.Vec2, opts ...Option) *Controller {
	c := &Controller{
		viewport: viewport,
		maxZoom:  DefaultMaxZoom,
		radius:   DefaultCornerRadius,
		view:     ViewState{Zoom: 1},
		log:      log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.view.Zoom = c.clampZoom(c.view.Zoom)
	return c
}

func (c *Controller) clampZoom(z float64) float64 {
	if math.IsNaN(z) || z < 1 {
		return 1
	}
	return math.Min(z, c.maxZoom)
}

// Dimensions resolves the current geometry. It is degenerate until an image
// has loaded.
func (c *Controller) Dimensions() geometry.Dimensions {
	return geometry.Resolve(c.image, c.viewport, c.layout)
}

// State reports Idle or Dragging.
func (c *Controller) State() State {
	if c.view.DragAnchor != nil {
		return StateDragging
	}
	return StateIdle
}

// View returns a copy of the view state.
func (c *Controller) View() ViewState {
	v := c.view
	if v.DragAnchor != nil {
		a := *v.DragAnchor
		v.DragAnchor = &a
	}
	return v
}

// MaxZoom is the configured zoom ceiling.
func (c *Controller) MaxZoom() float64 { return c.maxZoom }

// Closed reports whether the session ended through Commit or Cancel.
func (c *Controller) Closed() bool { return c.closed }

// Snapshot returns the frame for the current state. ok is false before the
// image is ready or when the geometry is degenerate.
func (c *Controller) Snapshot() (render.Frame, bool) {
	if !c.view.ImageReady {
		return render.Frame{}, false
	}
	d := c.Dimensions()
	if d.Degenerate() {
		return render.Frame{}, false
	}
	return render.Frame{
		Dims:      d,
		Placement: geometry.CenterImage(d, c.view.Zoom),
		Pan:       c.view.Pan,
		Zoom:      c.view.Zoom,
		Radius:    c.radius,
	}, true
}

// Region is the crop region for the current state.
func (c *Controller) Region() (geometry.Region, bool) {
	f, ok := c.Snapshot()
	if !ok {
		return geometry.Region{}, false
	}
	return f.Region(), true
}

// ImageLoaded marks the image as ready and draws the pending state once.
// Calls after the first, or after the session closed, do nothing.
func (c *Controller) ImageLoaded(size vec.Vec2) {
	if c.closed || c.view.ImageReady {
		return
	}
	c.image = size
	c.view.ImageReady = true
	if d := c.Dimensions(); !d.Degenerate() {
		off := geometry.CenterImage(d, c.view.Zoom).DisplayOffset
		c.view.Pan = geometry.ConstrainPosition(d, c.view.Pan, off)
	} else {
		c.log.Printf("cropper: degenerate geometry for image %vx%v", size.X, size.Y)
	}
	c.changed()
}

// PointerDown starts a drag at p.
func (c *Controller) PointerDown(p vec.Vec2) {
	if c.closed {
		return
	}
	a := p
	c.view.DragAnchor = &a
}

// PointerMove pans by the distance moved since the last event while
// dragging.
func (c *Controller) PointerMove(p vec.Vec2) {
	if c.closed || c.view.DragAnchor == nil {
		return
	}
	pan := c.view.Pan.Sub(p).Add(*c.view.DragAnchor)
	a := p
	c.view.DragAnchor = &a
	c.view.Pan = c.constrain(pan, c.view.Zoom)
	c.changed()
}

// PointerUp ends a drag.
func (c *Controller) PointerUp() {
	if c.closed {
		return
	}
	c.view.DragAnchor = nil
}

// PointerLeave ends a drag when the pointer leaves the canvas.
func (c *Controller) PointerLeave() {
	c.PointerUp()
}

// SetZoom changes the zoom, reclamping the pan against the bounds for the
// new zoom first.
func (c *Controller) SetZoom(z float64) {
	if c.closed || math.IsNaN(z) {
		return
	}
	z = c.clampZoom(z)
	c.view.Pan = c.constrain(c.view.Pan, z)
	c.view.Zoom = z
	c.changed()
}

// ZoomBy multiplies the zoom by factor.
func (c *Controller) ZoomBy(factor float64) {
	c.SetZoom(c.view.Zoom * factor)
}

// Redraw draws the current state if possible.
func (c *Controller) Redraw() {
	if c.closed {
		return
	}
	c.draw()
}

// Commit emits the current crop region and closes the session. It reports
// false, and does nothing, before the image is ready or after the session
// closed.
func (c *Controller) Commit() (Result, bool) {
	if c.closed {
		return Result{}, false
	}
	f, ok := c.Snapshot()
	if !ok {
		return Result{}, false
	}
	res := Result{Region: f.Region(), Zoom: f.Zoom, Pan: f.Pan, Dims: f.Dims}
	c.close()
	if c.onCommit != nil {
		c.onCommit(res)
	}
	return res, true
}

// Cancel closes the session without a result.
func (c *Controller) Cancel() {
	if c.closed {
		return
	}
	c.close()
	if c.onCancel != nil {
		c.onCancel()
	}
}

func (c *Controller) close() {
	c.closed = true
	c.view.DragAnchor = nil
}

// constrain clamps pan for zoom. Without usable geometry the pan is kept
// as is and clamped once the image arrives.
func (c *Controller) constrain(pan vec.Vec2, zoom float64) vec.Vec2 {
	if !c.view.ImageReady {
		return pan
	}
	d := c.Dimensions()
	if d.Degenerate() {
		return c.view.Pan
	}
	return geometry.ConstrainPosition(d, pan, geometry.CenterImage(d, zoom).DisplayOffset)
}

func (c *Controller) changed() {
	if c.onPreview != nil {
		if r, ok := c.Region(); ok {
			c.onPreview(r)
		}
	}
	c.draw()
}

func (c *Controller) draw() {
	if c.renderer == nil {
		return
	}
	f, ok := c.Snapshot()
	if !ok {
		return
	}
	if err := c.renderer.Render(f); err != nil {
		c.log.Printf("cropper: render: %v", err)
	}
}
