package app

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/example/cropframe/internal/loader"
	"github.com/example/cropframe/internal/theme"
)

func TestPaintToDrawsFrameAndControls(t *testing.T) {
	s := newSession(testConfig(), theme.Default(), nil, "", false)
	s.loaded(loader.Result{Image: testImage()})
	ws := windowSize(image.Pt(400, 300))
	st := s.paintState(ws.X, ws.Y)
	dst := image.NewRGBA(image.Rect(0, 0, ws.X, ws.Y))
	paintTo(context.Background(), dst, st)

	th := theme.Default()
	// the corner sits under the mask, the center shows the image unmasked
	corner := dst.RGBAAt(2, 2)
	center := dst.RGBAAt(200, 150)
	want := testImage().Image.(*image.RGBA).RGBAAt(400, 300)
	if center.R < want.R-4 || center.R > want.R+4 || center.G < want.G-4 || center.G > want.G+4 {
		t.Fatalf("center = %v, want about %v", center, want)
	}
	if corner == (dst.RGBAAt(200, 150)) {
		t.Fatal("mask not applied")
	}
	pv := st.layout.preview
	if st.preview == nil {
		t.Fatal("no preview in paint state")
	}
	if got, want := dst.RGBAAt(pv.Min.X+100, pv.Min.Y+75), st.preview.RGBAAt(100, 75); got != want {
		t.Fatalf("preview pixel = %v, want %v", got, want)
	}
	_, x1 := st.slider.track()
	kx := st.slider.xFor(st.zoom)
	cy := (st.layout.slider.Min.Y + st.layout.slider.Max.Y) / 2
	if got := dst.RGBAAt(kx, cy); got != th.SliderKnob {
		t.Fatalf("knob = %v", got)
	}
	if got := dst.RGBAAt(x1-1, cy); got != th.SliderTrack {
		t.Fatalf("track = %v", got)
	}
}

func TestPaintCanceledSkipsControls(t *testing.T) {
	s := newSession(testConfig(), theme.Default(), nil, "", false)
	ws := windowSize(image.Pt(400, 300))
	st := s.paintState(ws.X, ws.Y)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dst := image.NewRGBA(image.Rect(0, 0, ws.X, ws.Y))
	paintTo(ctx, dst, st)
	kx := st.slider.xFor(st.zoom)
	cy := (st.layout.slider.Min.Y + st.layout.slider.Max.Y) / 2
	if dst.RGBAAt(kx, cy) == theme.Default().SliderKnob {
		t.Fatal("canceled paint drew the slider")
	}
}

func TestMessageVisible(t *testing.T) {
	now := time.Now()
	if (paintState{}).messageVisible(now) {
		t.Fatal("empty message visible")
	}
	if !(paintState{message: "x"}).messageVisible(now) {
		t.Fatal("sticky message hidden")
	}
	if (paintState{message: "x", messageUntil: now.Add(-time.Second)}).messageVisible(now) {
		t.Fatal("expired message visible")
	}
}
