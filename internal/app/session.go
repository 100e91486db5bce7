package app

import (
	"fmt"
	"image"
	"log"
	"time"

	"github.com/example/cropframe/internal/clipboard"
	"github.com/example/cropframe/internal/config"
	"github.com/example/cropframe/internal/cropper"
	"github.com/example/cropframe/internal/export"
	"github.com/example/cropframe/internal/geometry"
	"github.com/example/cropframe/internal/loader"
	"github.com/example/cropframe/internal/notify"
	"github.com/example/cropframe/internal/render"
	"github.com/example/cropframe/internal/theme"
	"golang.org/x/mobile/event/mouse"
	"seehuhn.de/go/geom/vec"
)

// zoomStep is the factor applied per wheel notch.
const zoomStep = 1.1

const messageDuration = 2 * time.Second

// swapped by tests
var (
	writeClipboard = clipboard.WriteImage
	saveImage      = export.Save
)

// Outcome is the product of a committed crop.
type Outcome struct {
	Result cropper.Result
	Image  image.Image
	// Path is where the image was written, empty when saving was skipped.
	Path string
}

// session holds everything the event loop mutates. It is only touched from
// the event loop goroutine.
type session struct {
	cfg      *config.Config
	theme    *theme.Theme
	notifier *notify.Notifier
	output   string
	copyOut  bool

	ctrl   *cropper.Controller
	layout layout
	slider slider
	image  *loader.Image

	frame    render.Frame
	hasFrame bool
	// preview holds the live crop region scaled into layout.preview.
	preview *image.RGBA

	sliderDrag   bool
	message      string
	messageUntil time.Time

	outcome *Outcome
	err     error

	// redraw asks the window for a paint.
	redraw func()
}

func newSession(cfg *config.Config, th *theme.Theme, n *notify.Notifier, output string, copyOnCommit bool) *session {
	s := &session{
		cfg:      cfg,
		theme:    th,
		notifier: n,
		output:   output,
		copyOut:  copyOnCommit,
		redraw:   func() {},
		message:  "loading...",
	}
	v := cfg.Viewport
	s.ctrl = cropper.New(v.Size(),
		cropper.WithLayout(v.Layout()),
		cropper.WithMaxZoom(v.MaxZoom),
		cropper.WithZoom(v.Zoom),
		cropper.WithCornerRadius(v.CornerRadius),
		cropper.WithRenderer(s),
		cropper.WithPreview(s.updatePreview),
		cropper.WithOnCommit(s.commit),
		cropper.WithOnCancel(func() { s.err = ErrCanceled }),
	)
	size := windowSize(image.Pt(v.Width, v.Height))
	s.resize(size.X, size.Y)
	return s
}

// Render stores the frame for the next paint.
func (s *session) Render(f render.Frame) error {
	s.frame = f
	s.hasFrame = true
	s.redraw()
	return nil
}

// updatePreview resamples the live crop region for the preview pane.
func (s *session) updatePreview(r geometry.Region) {
	if s.image == nil {
		return
	}
	s.preview = render.Extract(s.image.Image, r, previewSize(s.layout.preview, r.Size.X/r.Size.Y))
}

func (s *session) resize(width, height int) {
	v := s.cfg.Viewport
	s.layout = newLayout(width, height, image.Pt(v.Width, v.Height))
	s.slider = slider{rect: s.layout.slider, max: s.ctrl.MaxZoom()}
	if r, ok := s.ctrl.Region(); ok {
		s.updatePreview(r)
	}
}

func (s *session) done() bool { return s.ctrl.Closed() }

func (s *session) setMessage(msg string, d time.Duration) {
	s.message = msg
	s.messageUntil = time.Time{}
	if d > 0 {
		s.messageUntil = time.Now().Add(d)
	}
}

func (s *session) loaded(r loader.Result) {
	if r.Err != nil {
		log.Printf("load: %v", r.Err)
		s.setMessage("could not load image", 0)
		s.redraw()
		return
	}
	s.image = r.Image
	s.setMessage("", 0)
	s.ctrl.ImageLoaded(r.Image.Size())
	if !s.hasFrame {
		s.setMessage("image is too small to crop", 0)
		s.redraw()
	}
}

// canvasPoint converts window coordinates to canvas coordinates.
func (s *session) canvasPoint(x, y float32) vec.Vec2 {
	return vec.Vec2{
		X: float64(x) - float64(s.layout.canvas.Min.X),
		Y: float64(y) - float64(s.layout.canvas.Min.Y),
	}
}

func (s *session) mouse(e mouse.Event) {
	pt := image.Pt(int(e.X), int(e.Y))
	p := s.canvasPoint(e.X, e.Y)
	switch {
	case e.Direction == mouse.DirStep:
		switch e.Button {
		case mouse.ButtonWheelUp:
			s.ctrl.ZoomBy(zoomStep)
		case mouse.ButtonWheelDown:
			s.ctrl.ZoomBy(1 / zoomStep)
		}
		s.redraw()
	case e.Direction == mouse.DirPress && e.Button == mouse.ButtonLeft:
		switch {
		case pt.In(s.layout.canvas):
			s.ctrl.PointerDown(p)
		case pt.In(s.layout.slider):
			s.sliderDrag = true
			s.ctrl.SetZoom(s.slider.valueAt(pt.X))
			s.redraw()
		case pt.In(s.layout.shortcuts):
			list := layoutShortcuts(s.layout.shortcuts, shortcutList(s.ctrl.View().Zoom))
			if a, ok := shortcutAt(list, pt); ok {
				s.action(a)
			}
		}
	case e.Direction == mouse.DirRelease && e.Button == mouse.ButtonLeft:
		s.sliderDrag = false
		s.ctrl.PointerUp()
	case e.Direction == mouse.DirNone:
		switch {
		case s.sliderDrag:
			s.ctrl.SetZoom(s.slider.valueAt(pt.X))
			s.redraw()
		case s.ctrl.State() == cropper.StateDragging:
			if pt.In(s.layout.canvas) {
				s.ctrl.PointerMove(p)
			} else {
				s.ctrl.PointerLeave()
			}
		}
	}
}

func (s *session) action(name string) {
	if d, ok := panDelta(name); ok {
		if s.ctrl.State() != cropper.StateIdle {
			return
		}
		c := vec.Vec2{X: float64(s.layout.canvas.Dx()) / 2, Y: float64(s.layout.canvas.Dy()) / 2}
		s.ctrl.PointerDown(c)
		s.ctrl.PointerMove(c.Add(d))
		s.ctrl.PointerUp()
		return
	}
	switch name {
	case actionCommit:
		if _, ok := s.ctrl.Commit(); !ok && !s.ctrl.Closed() {
			s.setMessage("nothing to crop yet", messageDuration)
			s.redraw()
		}
	case actionCancel:
		s.ctrl.Cancel()
	case actionCopy:
		s.copyRegion()
	case actionZoomIn:
		s.ctrl.SetZoom(s.slider.step(s.ctrl.View().Zoom, 1))
	case actionZoomOut:
		s.ctrl.SetZoom(s.slider.step(s.ctrl.View().Zoom, -1))
	case actionZoomReset:
		s.ctrl.SetZoom(1)
	}
	s.redraw()
}

// crop extracts the pixels for res from the loaded image.
func (s *session) crop(res cropper.Result) (image.Image, error) {
	if s.image == nil {
		return nil, export.ErrEmptyRegion
	}
	return export.Crop(s.image.Image, res.Region, res.Dims.OutputRatio, s.cfg.OutputWidth)
}

func (s *session) copyRegion() {
	f, ok := s.ctrl.Snapshot()
	if !ok {
		return
	}
	res := cropper.Result{Region: f.Region(), Zoom: f.Zoom, Pan: f.Pan, Dims: f.Dims}
	img, err := s.crop(res)
	if err != nil {
		log.Printf("copy: %v", err)
		return
	}
	if err := writeClipboard(img); err != nil {
		log.Printf("copy: %v", err)
		s.setMessage("copy failed", messageDuration)
		return
	}
	s.setMessage("copied to clipboard", messageDuration)
	log.Print(s.message)
	s.notifier.Copy(describe(res))
}

// commit runs once the controller accepted a commit.
func (s *session) commit(res cropper.Result) {
	img, err := s.crop(res)
	if err != nil {
		s.err = fmt.Errorf("crop: %w", err)
		return
	}
	out := &Outcome{Result: res, Image: img}
	s.outcome = out
	s.notifier.Commit(describe(res), img)
	if s.output != "" {
		if err := saveImage(s.output, img, s.cfg.JPEGQuality); err != nil {
			s.err = fmt.Errorf("save: %w", err)
			return
		}
		out.Path = s.output
		log.Printf("saved %s", s.output)
		s.notifier.Save(s.output)
	}
	if s.copyOut {
		if err := writeClipboard(img); err != nil {
			s.err = fmt.Errorf("copy: %w", err)
			return
		}
		s.notifier.Copy(describe(res))
	}
}

func (s *session) paintState(width, height int) paintState {
	var img image.Image
	if s.image != nil {
		img = s.image.Image
	}
	zoom := s.ctrl.View().Zoom
	return paintState{
		width:        width,
		height:       height,
		layout:       s.layout,
		image:        img,
		frame:        s.frame,
		hasFrame:     s.hasFrame,
		preview:      s.preview,
		zoom:         zoom,
		slider:       s.slider,
		shortcuts:    layoutShortcuts(s.layout.shortcuts, shortcutList(zoom)),
		theme:        s.theme,
		message:      s.message,
		messageUntil: s.messageUntil,
	}
}

// describe formats a result as "WxH at X,Y".
func describe(res cropper.Result) string {
	r := res.Region.Rect()
	return fmt.Sprintf("%dx%d at %d,%d", r.Dx(), r.Dy(), r.Min.X, r.Min.Y)
}
