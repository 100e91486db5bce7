package app

import (
	"context"
	"image"
	"image/draw"
	"log"
	"time"

	"github.com/example/cropframe/internal/render"
	"github.com/example/cropframe/internal/theme"
	"golang.org/x/exp/shiny/screen"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// paintState is an immutable snapshot handed to the paint goroutine.
type paintState struct {
	width, height int
	layout        layout
	image         image.Image
	frame         render.Frame
	hasFrame      bool
	preview       *image.RGBA
	zoom          float64
	slider        slider
	shortcuts     []Shortcut
	theme         *theme.Theme
	message       string
	messageUntil  time.Time
}

// messageVisible reports whether the status message should be drawn at now.
// A zero deadline keeps the message until it is replaced.
func (st paintState) messageVisible(now time.Time) bool {
	return st.message != "" && (st.messageUntil.IsZero() || now.Before(st.messageUntil))
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	paintTo(ctx, b.RGBA(), st)
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// paintTo renders st into dst, returning early once ctx is canceled.
func paintTo(ctx context.Context, dst *image.RGBA, st paintState) {
	th := st.theme
	if th == nil {
		th = theme.Default()
	}
	draw.Draw(dst, dst.Bounds(), &image.Uniform{th.BarBackground}, image.Point{}, draw.Src)
	canvas := dst.SubImage(st.layout.canvas).(*image.RGBA)
	surface := render.NewRGBASurface(canvas)
	if st.hasFrame {
		if err := render.DrawFrame(surface, st.image, st.frame, th); err != nil {
			log.Printf("draw frame: %v", err)
		}
	} else {
		surface.Clear(th.Background)
	}
	if ctx.Err() != nil {
		return
	}

	drawPreview(dst, st.layout.preview, st.preview, th)
	st.slider.draw(dst, st.zoom, th)
	drawShortcuts(dst, st.layout.shortcuts, st.shortcuts, th)
	if ctx.Err() != nil {
		return
	}

	if st.messageVisible(time.Now()) {
		drawMessage(dst, st.layout.canvas, st.message, th)
	}
}

// drawPreview centers the live crop preview in area.
func drawPreview(dst *image.RGBA, area image.Rectangle, preview *image.RGBA, th *theme.Theme) {
	if area.Empty() {
		return
	}
	draw.Draw(dst, area, &image.Uniform{th.Background}, image.Point{}, draw.Src)
	if preview != nil {
		pb := preview.Bounds()
		at := area.Min.Add(image.Pt((area.Dx()-pb.Dx())/2, (area.Dy()-pb.Dy())/2))
		draw.Draw(dst, pb.Sub(pb.Min).Add(at), preview, pb.Min, draw.Src)
	}
	drawRect(dst, area, th.SliderTrack, 1)
}
