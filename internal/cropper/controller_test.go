package cropper

import (
	"bytes"
	"errors"
	"log"
	"math"
	"strings"
	"testing"

	"github.com/example/cropframe/internal/geometry"
	"github.com/example/cropframe/internal/render"
	"seehuhn.de/go/geom/vec"
)

type recorder struct {
	frames []render.Frame
	err    error
}

func (r *recorder) Render(f render.Frame) error {
	r.frames = append(r.frames, f)
	return r.err
}

var (
	viewport = vec.Vec2{X: 400, Y: 300}
	img      = vec.Vec2{X: 800, Y: 600}
	border   = WithLayout(geometry.Layout{Border: vec.Vec2{X: 40, Y: 30}})
)

func near(a, b vec.Vec2) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestDragAtZoomOneStaysCentered(t *testing.T) {
	rec := &recorder{}
	c := New(viewport, border, WithRenderer(rec))
	c.ImageLoaded(img)

	c.PointerDown(vec.Vec2{X: 100, Y: 100})
	if c.State() != StateDragging {
		t.Fatalf("state = %v, want dragging", c.State())
	}
	c.PointerMove(vec.Vec2{X: 50, Y: 80})
	if got := c.View().Pan; !near(got, vec.Vec2{}) {
		t.Fatalf("pan = %v, want origin", got)
	}
	c.PointerUp()
	if c.State() != StateIdle {
		t.Fatalf("state = %v, want idle", c.State())
	}
	res, ok := c.Commit()
	if !ok {
		t.Fatal("commit refused")
	}
	want := geometry.Region{Size: vec.Vec2{X: 800, Y: 600}}
	if !near(res.Region.Origin, want.Origin) || !near(res.Region.Size, want.Size) {
		t.Fatalf("region = %+v, want %+v", res.Region, want)
	}
	if len(rec.frames) != 2 {
		t.Fatalf("frames = %d, want 2 (load + move)", len(rec.frames))
	}
}

func TestDragFromOriginClampsToCenter(t *testing.T) {
	c := New(viewport, border)
	c.PointerDown(vec.Vec2{})
	c.PointerMove(vec.Vec2{X: 10, Y: 10})
	// no image yet, so the raw pan is kept
	if got := c.View().Pan; !near(got, vec.Vec2{X: -10, Y: -10}) {
		t.Fatalf("unclamped pan = %v, want (-10,-10)", got)
	}
	c.ImageLoaded(img)
	if got := c.View().Pan; !near(got, vec.Vec2{}) {
		t.Fatalf("clamped pan = %v, want origin", got)
	}

	c.PointerMove(vec.Vec2{X: 20, Y: 20})
	if got := c.View().Pan; !near(got, vec.Vec2{}) {
		t.Fatalf("pan after loaded drag = %v, want origin", got)
	}
}

func TestDragAtZoomTwoClamps(t *testing.T) {
	var previews []geometry.Region
	c := New(viewport, border, WithZoom(2), WithPreview(func(r geometry.Region) { previews = append(previews, r) }))
	c.ImageLoaded(img)

	c.PointerDown(vec.Vec2{X: 300, Y: 100})
	c.PointerMove(vec.Vec2{X: 100, Y: 100})
	if got := c.View().Pan; !near(got, vec.Vec2{X: 160}) {
		t.Fatalf("pan = %v, want (160,0)", got)
	}
	if a := c.View().DragAnchor; a == nil || !near(*a, vec.Vec2{X: 100, Y: 100}) {
		t.Fatalf("anchor = %v", a)
	}
	last := previews[len(previews)-1]
	if !near(last.Origin, vec.Vec2{X: 400, Y: 150}) || !near(last.Size, vec.Vec2{X: 400, Y: 300}) {
		t.Fatalf("preview = %+v", last)
	}
}

func TestMoveWithoutDragIsIgnored(t *testing.T) {
	rec := &recorder{}
	c := New(viewport, WithZoom(2), WithRenderer(rec))
	c.ImageLoaded(img)
	c.PointerMove(vec.Vec2{X: 10, Y: 10})
	if got := c.View().Pan; !near(got, vec.Vec2{}) {
		t.Fatalf("pan moved while idle: %v", got)
	}
	if len(rec.frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(rec.frames))
	}
}

func TestPointerLeaveEndsDrag(t *testing.T) {
	c := New(viewport, WithZoom(2))
	c.ImageLoaded(img)
	c.PointerDown(vec.Vec2{X: 10, Y: 10})
	c.PointerMove(vec.Vec2{X: 0, Y: 0})
	pan := c.View().Pan
	c.PointerLeave()
	if c.State() != StateIdle || c.View().DragAnchor != nil {
		t.Fatal("leave should end the drag")
	}
	if !near(c.View().Pan, pan) {
		t.Fatal("leave must keep the pan")
	}
	c.PointerMove(vec.Vec2{X: 50, Y: 50})
	if !near(c.View().Pan, pan) {
		t.Fatal("move after leave must not pan")
	}
}

func TestZoomOutReclampsPan(t *testing.T) {
	c := New(viewport, border, WithZoom(2))
	c.ImageLoaded(img)
	c.PointerDown(vec.Vec2{X: 300, Y: 200})
	c.PointerMove(vec.Vec2{X: 0, Y: 0})
	c.PointerUp()
	if got := c.View().Pan; !near(got, vec.Vec2{X: 160, Y: 120}) {
		t.Fatalf("pan = %v", got)
	}
	c.SetZoom(1)
	if got := c.View().Pan; !near(got, vec.Vec2{}) {
		t.Fatalf("pan after zoom out = %v, want origin", got)
	}
	if c.View().Zoom != 1 {
		t.Fatalf("zoom = %v", c.View().Zoom)
	}
}

func TestZoomIsClamped(t *testing.T) {
	c := New(viewport, WithMaxZoom(2.5))
	c.ImageLoaded(img)
	tests := []struct{ in, want float64 }{
		{0.2, 1},
		{1.7, 1.7},
		{10, 2.5},
		{math.Inf(1), 2.5},
	}
	for _, tt := range tests {
		c.SetZoom(tt.in)
		if got := c.View().Zoom; got != tt.want {
			t.Errorf("SetZoom(%v) -> %v, want %v", tt.in, got, tt.want)
		}
	}
	c.SetZoom(math.NaN())
	if got := c.View().Zoom; got != 2.5 {
		t.Errorf("NaN zoom changed state to %v", got)
	}
	c.SetZoom(2)
	c.ZoomBy(1.25)
	if got := c.View().Zoom; got != 2.5 {
		t.Errorf("ZoomBy = %v, want 2.5", got)
	}
}

func TestEventsBeforeLoadDeferDrawing(t *testing.T) {
	rec := &recorder{}
	c := New(viewport, border, WithRenderer(rec))
	c.SetZoom(2)
	c.PointerDown(vec.Vec2{X: 500, Y: 0})
	c.PointerMove(vec.Vec2{X: 0, Y: 0})
	c.Redraw()
	if len(rec.frames) != 0 {
		t.Fatalf("drew %d frames before the image was ready", len(rec.frames))
	}
	if c.View().Zoom != 2 {
		t.Fatal("zoom should be recorded before load")
	}
	if _, ok := c.Commit(); ok {
		t.Fatal("commit must be refused before load")
	}
	if c.Closed() {
		t.Fatal("refused commit must not close the session")
	}

	c.ImageLoaded(img)
	if len(rec.frames) != 1 {
		t.Fatalf("frames after load = %d, want 1", len(rec.frames))
	}
	if got := c.View().Pan; !near(got, vec.Vec2{X: 160}) {
		t.Fatalf("pending pan should be clamped on load, got %v", got)
	}
	c.ImageLoaded(img)
	if len(rec.frames) != 1 {
		t.Fatal("second load signal must be ignored")
	}
}

func TestCommitIsTerminal(t *testing.T) {
	commits := 0
	c := New(viewport, WithOnCommit(func(Result) { commits++ }))
	c.ImageLoaded(img)
	if _, ok := c.Commit(); !ok {
		t.Fatal("commit refused")
	}
	if _, ok := c.Commit(); ok {
		t.Fatal("second commit accepted")
	}
	c.PointerDown(vec.Vec2{})
	if c.State() != StateIdle {
		t.Fatal("closed controller accepted input")
	}
	if commits != 1 {
		t.Fatalf("commits = %d", commits)
	}
}

func TestCancelThenLateLoad(t *testing.T) {
	rec := &recorder{}
	cancels := 0
	c := New(viewport, WithRenderer(rec), WithOnCancel(func() { cancels++ }))
	c.Cancel()
	c.Cancel()
	c.ImageLoaded(img)
	if cancels != 1 {
		t.Fatalf("cancels = %d", cancels)
	}
	if len(rec.frames) != 0 || c.View().ImageReady {
		t.Fatal("late load after cancel must be a no-op")
	}
	if _, ok := c.Commit(); ok {
		t.Fatal("commit after cancel accepted")
	}
}

func TestDegenerateImageNeverProducesNaN(t *testing.T) {
	var buf bytes.Buffer
	rec := &recorder{}
	c := New(viewport, WithRenderer(rec), WithLogger(log.New(&buf, "", 0)))
	c.ImageLoaded(vec.Vec2{X: 0, Y: 600})
	c.SetZoom(2)
	c.PointerDown(vec.Vec2{X: 10, Y: 10})
	c.PointerMove(vec.Vec2{X: 0, Y: 0})
	v := c.View()
	for _, f := range []float64{v.Pan.X, v.Pan.Y, v.Zoom} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			t.Fatalf("non-finite state %+v", v)
		}
	}
	if len(rec.frames) != 0 {
		t.Fatal("degenerate geometry must not be drawn")
	}
	if _, ok := c.Commit(); ok {
		t.Fatal("degenerate commit accepted")
	}
	if !strings.Contains(buf.String(), "degenerate") {
		t.Fatalf("expected degenerate log, got %q", buf.String())
	}
}

func TestRenderErrorIsLogged(t *testing.T) {
	var buf bytes.Buffer
	rec := &recorder{err: render.ErrSurfaceUnavailable}
	c := New(viewport, WithRenderer(rec), WithLogger(log.New(&buf, "", 0)), WithZoom(2))
	c.ImageLoaded(img)
	c.PointerDown(vec.Vec2{X: 10})
	c.PointerMove(vec.Vec2{})
	if !strings.Contains(buf.String(), render.ErrSurfaceUnavailable.Error()) {
		t.Fatalf("log = %q", buf.String())
	}
	if !near(c.View().Pan, vec.Vec2{X: 10}) {
		t.Fatalf("state should advance despite render errors, pan = %v", c.View().Pan)
	}
	if !errors.Is(rec.err, render.ErrSurfaceUnavailable) {
		t.Fatal("unexpected recorder error")
	}
}

func TestViewCopiesAnchor(t *testing.T) {
	c := New(viewport)
	c.PointerDown(vec.Vec2{X: 1, Y: 2})
	v := c.View()
	v.DragAnchor.X = 99
	if c.View().DragAnchor.X != 1 {
		t.Fatal("View leaked internal anchor")
	}
}
