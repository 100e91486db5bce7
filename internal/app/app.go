// Package app runs the interactive crop window on top of shiny.
package app

import (
	"context"
	"errors"
	"image"
	"log"
	"sync"

	"github.com/example/cropframe/internal/config"
	"github.com/example/cropframe/internal/loader"
	"github.com/example/cropframe/internal/notify"
	"github.com/example/cropframe/internal/theme"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
)

// ErrCanceled is returned by Run when the user closes the window without
// committing.
var ErrCanceled = errors.New("crop canceled")

// loadedEvent carries the decoded source image into the event loop.
type loadedEvent struct {
	result loader.Result
}

// App is a single crop session bound to one image source.
type App struct {
	Source string
	Config *config.Config

	theme        *theme.Theme
	notifier     *notify.Notifier
	output       string
	copyOnCommit bool
	title        string

	outcome *Outcome
	err     error
}

// Option configures an App.
type Option func(*App)

// WithTheme sets the palette.
func WithTheme(t *theme.Theme) Option {
	return func(a *App) { a.theme = t }
}

// WithNotifier enables desktop notifications.
func WithNotifier(n *notify.Notifier) Option {
	return func(a *App) { a.notifier = n }
}

// WithOutput sets the file the committed crop is written to. Empty skips
// saving.
func WithOutput(path string) Option {
	return func(a *App) { a.output = path }
}

// WithCopy also places the committed crop on the clipboard.
func WithCopy(on bool) Option {
	return func(a *App) { a.copyOnCommit = on }
}

// WithTitle sets the window title.
func WithTitle(title string) Option {
	return func(a *App) { a.title = title }
}

// New creates an App for source. A nil cfg uses the defaults.
func New(source string, cfg *config.Config, opts ...Option) *App {
	if cfg == nil {
		cfg = config.New()
	}
	a := &App{Source: source, Config: cfg, theme: theme.Default(), title: "cropframe"}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run opens the window and blocks until the session ends. It returns
// ErrCanceled when the user cancels.
func (a *App) Run() error {
	driver.Main(a.Main)
	return a.err
}

// Outcome returns the committed crop, if any.
func (a *App) Outcome() (Outcome, bool) {
	if a.outcome == nil {
		return Outcome{}, false
	}
	return *a.outcome, true
}

// Main is the screen callback for driver.Main.
func (a *App) Main(s screen.Screen) {
	sess := newSession(a.Config, a.theme, a.notifier, a.output, a.copyOnCommit)
	defer func() {
		a.outcome = sess.outcome
		a.err = sess.err
	}()

	v := a.Config.Viewport
	ws := windowSize(image.Pt(v.Width, v.Height))
	width, height := ws.X, ws.Y
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.title})
	if err != nil {
		sess.err = err
		log.Printf("new window: %v", err)
		return
	}
	defer w.Release()

	sess.redraw = func() { w.Send(paint.Event{}) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loader.Open(ctx, a.Source, func(r loader.Result) { w.Send(loadedEvent{result: r}) })

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			pctx, pcancel := context.WithCancel(ctx)
			paintMu.Lock()
			paintCancel = pcancel
			paintMu.Unlock()
			drawFrame(pctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if pctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			pcancel()
		}
	}()

	stopPaint := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				stopPaint()
				sess.ctrl.Cancel()
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			sess.resize(width, height)
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := sess.paintState(width, height)
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case loadedEvent:
			sess.loaded(e.result)
		case mouse.Event:
			sess.mouse(e)
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if action, ok := actionForKey(e); ok {
				sess.action(action)
			}
		case error:
			log.Printf("window: %v", e)
		}
		if sess.done() {
			stopPaint()
			return
		}
	}
}
