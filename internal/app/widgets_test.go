package app

import (
	"image"
	"math"
	"testing"

	"golang.org/x/mobile/event/key"
)

func TestSliderMapping(t *testing.T) {
	s := slider{rect: image.Rect(0, 0, 124, 24), max: 3}
	x0, x1 := s.track()
	if x0 != 12 || x1 != 112 {
		t.Fatalf("track = %d..%d", x0, x1)
	}
	tests := []struct {
		x    int
		want float64
	}{
		{-50, 1},
		{x0, 1},
		{62, 2},
		{x1, 3},
		{500, 3},
	}
	for _, tt := range tests {
		if got := s.valueAt(tt.x); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("valueAt(%d) = %v, want %v", tt.x, got, tt.want)
		}
	}
	for _, z := range []float64{1, 1.4, 2, 3} {
		if got := s.valueAt(s.xFor(z)); math.Abs(got-z) > 1e-9 {
			t.Errorf("round trip %v -> %v", z, got)
		}
	}
}

func TestSliderStep(t *testing.T) {
	s := slider{max: 3}
	inc := 2.0 / sliderSteps
	if got := s.step(1, 1); math.Abs(got-(1+inc)) > 1e-9 {
		t.Fatalf("step up = %v", got)
	}
	if got := s.step(1, -1); got != 1 {
		t.Fatalf("step below min = %v", got)
	}
	if got := s.step(3, 5); got != 3 {
		t.Fatalf("step above max = %v", got)
	}
	if got := (slider{max: 1}).step(1, 1); got != 1 {
		t.Fatalf("degenerate slider step = %v", got)
	}
}

func TestLayout(t *testing.T) {
	vp := image.Pt(400, 300)
	ws := windowSize(vp)
	if ws.X != 400+previewGap+200 {
		t.Fatalf("window width = %d", ws.X)
	}
	l := newLayout(ws.X, ws.Y, vp)
	if l.canvas != image.Rect(0, 0, 400, 300) {
		t.Fatalf("canvas = %v", l.canvas)
	}
	if l.preview != image.Rect(400+previewGap, 0, ws.X, 150) {
		t.Fatalf("preview = %v", l.preview)
	}
	if l.slider.Min.Y != 300 || l.shortcuts.Max.Y != ws.Y {
		t.Fatalf("slider %v shortcuts %v", l.slider, l.shortcuts)
	}
	wide := newLayout(ws.X+200, 500, vp)
	if wide.canvas != image.Rect(100, 0, 500, 300) {
		t.Fatalf("wide canvas = %v", wide.canvas)
	}
	if wide.shortcuts.Max.Y != 500 {
		t.Fatalf("shortcut bar should stick to the bottom, got %v", wide.shortcuts)
	}
	small := newLayout(10, 10, vp)
	if small.canvas.Dx() != 400 || small.shortcuts.Min.Y < small.slider.Max.Y {
		t.Fatalf("small window layout %+v", small)
	}
}

func TestPreviewSize(t *testing.T) {
	area := image.Rect(0, 0, 200, 150)
	tests := []struct {
		ratio float64
		want  image.Point
	}{
		{4.0 / 3.0, image.Pt(200, 150)},
		{2, image.Pt(200, 100)},
		{1, image.Pt(150, 150)},
		{0, image.Point{}},
		{math.NaN(), image.Point{}},
	}
	for _, tt := range tests {
		if got := previewSize(area, tt.ratio); got != tt.want {
			t.Errorf("previewSize(%v) = %v, want %v", tt.ratio, got, tt.want)
		}
	}
}

func TestShortcutHitTest(t *testing.T) {
	bar := image.Rect(0, 100, 600, 124)
	list := layoutShortcuts(bar, shortcutList(1))
	for i := 1; i < len(list); i++ {
		if list[i].rect.Min.X <= list[i-1].rect.Max.X-1 {
			t.Fatalf("shortcuts overlap: %v %v", list[i-1].rect, list[i].rect)
		}
	}
	first := list[0]
	if a, ok := shortcutAt(list, first.rect.Min.Add(image.Pt(1, 1))); !ok || a != actionCommit {
		t.Fatalf("hit = %q %v", a, ok)
	}
	if _, ok := shortcutAt(list, image.Pt(599, 101)); ok {
		t.Fatal("empty area should not hit")
	}
}

func TestActionForKey(t *testing.T) {
	tests := []struct {
		name string
		e    key.Event
		want string
	}{
		{"enter", key.Event{Code: key.CodeReturnEnter, Rune: -1, Direction: key.DirPress}, actionCommit},
		{"escape", key.Event{Code: key.CodeEscape, Rune: -1, Direction: key.DirPress}, actionCancel},
		{"ctrl c", key.Event{Rune: 'c', Modifiers: key.ModControl, Direction: key.DirPress}, actionCopy},
		{"ctrl shift C", key.Event{Rune: 'C', Modifiers: key.ModControl | key.ModShift, Direction: key.DirPress}, actionCopy},
		{"plus with shift", key.Event{Rune: '+', Modifiers: key.ModShift, Direction: key.DirPress}, actionZoomIn},
		{"minus", key.Event{Rune: '-', Direction: key.DirPress}, actionZoomOut},
		{"left", key.Event{Code: key.CodeLeftArrow, Rune: -1, Direction: key.DirPress}, actionPanLeft},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := actionForKey(tt.e)
			if !ok || got != tt.want {
				t.Fatalf("got %q %v, want %q", got, ok, tt.want)
			}
		})
	}
	if _, ok := actionForKey(key.Event{Rune: 'c', Direction: key.DirPress}); ok {
		t.Fatal("plain c should not copy")
	}
	if _, ok := actionForKey(key.Event{Code: key.CodeReturnEnter, Direction: key.DirRelease}); ok {
		t.Fatal("release should be ignored")
	}
}
