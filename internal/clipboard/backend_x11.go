//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

func init() {
	newBackend = func() (backend, error) {
		x := &x11Backend{owned: map[xproto.Atom][]byte{}}
		if err := x.connect(); err != nil {
			return nil, err
		}
		return x, nil
	}
}

var errClosed = errors.New("clipboard: X connection closed")

// x11Backend owns the CLIPBOARD selection through a hidden window and
// answers conversion requests from other clients.
type x11Backend struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  map[string]xproto.Atom

	mu    sync.RWMutex
	owned map[xproto.Atom][]byte
}

func (x *x11Backend) connect() error {
	conn, err := xgb.NewConn()
	if err != nil {
		return err
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	win, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return err
	}
	if err := xproto.CreateWindowChecked(conn, screen.RootDepth, win, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput, screen.RootVisual,
		xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check(); err != nil {
		conn.Close()
		return err
	}
	x.atoms = map[string]xproto.Atom{}
	for _, name := range []string{"CLIPBOARD", "TARGETS", "UTF8_STRING", "image/png", "CROPFRAME_SELECTION"} {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			xproto.DestroyWindow(conn, win)
			conn.Close()
			return fmt.Errorf("intern %s: %w", name, err)
		}
		x.atoms[name] = reply.Atom
	}
	x.conn = conn
	x.window = win
	go x.serve()
	return nil
}

func (x *x11Backend) target(kind string) xproto.Atom {
	if kind == kindPNG {
		return x.atoms["image/png"]
	}
	return x.atoms["UTF8_STRING"]
}

func (x *x11Backend) write(kind string, data []byte) error {
	x.mu.Lock()
	x.owned = map[xproto.Atom][]byte{x.target(kind): append([]byte(nil), data...)}
	x.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(x.conn, x.window, x.atoms["CLIPBOARD"], xproto.TimeCurrentTime).Check()
}

func (x *x11Backend) serve() {
	for {
		ev, err := x.conn.WaitForEvent()
		if err != nil || ev == nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			x.answer(e)
		case xproto.SelectionClearEvent:
			x.mu.Lock()
			x.owned = map[xproto.Atom][]byte{}
			x.mu.Unlock()
		}
	}
}

func (x *x11Backend) answer(e xproto.SelectionRequestEvent) {
	prop := e.Property
	if prop == xproto.AtomNone {
		prop = e.Target
	}
	x.mu.RLock()
	defer x.mu.RUnlock()

	if e.Target == x.atoms["TARGETS"] {
		targets := []xproto.Atom{x.atoms["TARGETS"]}
		for a := range x.owned {
			targets = append(targets, a)
		}
		buf := make([]byte, 4*len(targets))
		for i, a := range targets {
			xgb.Put32(buf[4*i:], uint32(a))
		}
		xproto.ChangeProperty(x.conn, xproto.PropModeReplace, e.Requestor, prop, xproto.AtomAtom, 32, uint32(len(targets)), buf)
	} else if data, ok := x.owned[e.Target]; ok {
		xproto.ChangeProperty(x.conn, xproto.PropModeReplace, e.Requestor, prop, e.Target, 8, uint32(len(data)), data)
	} else {
		prop = xproto.AtomNone
	}
	ev := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  prop,
	}
	xproto.SendEvent(x.conn, false, e.Requestor, 0, string(ev.Bytes()))
}

func (x *x11Backend) read(kind string) ([]byte, error) {
	target := x.target(kind)
	x.mu.RLock()
	data, ok := x.owned[target]
	x.mu.RUnlock()
	if ok {
		return append([]byte(nil), data...), nil
	}

	// a second connection keeps the reply off the serving event loop
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	screen := xproto.Setup(conn).DefaultScreen(conn)
	win, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}
	if err := xproto.CreateWindowChecked(conn, 0, win, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly, 0, xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check(); err != nil {
		return nil, err
	}
	defer xproto.DestroyWindow(conn, win)

	prop := x.atoms["CROPFRAME_SELECTION"]
	if err := xproto.ConvertSelectionChecked(conn, win, x.atoms["CLIPBOARD"], target, prop, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}
	return awaitSelection(conn.WaitForEvent, kind, func() ([]byte, error) {
		reply, err := xproto.GetProperty(conn, true, win, prop, xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
		if err != nil {
			return nil, err
		}
		return reply.Value, nil
	})
}

// awaitSelection waits for the SelectionNotify answering a conversion
// request and fetches the converted property.
func awaitSelection(wait func() (xgb.Event, xgb.Error), kind string, fetch func() ([]byte, error)) ([]byte, error) {
	for {
		ev, xerr := wait()
		if xerr != nil {
			return nil, xerr
		}
		if ev == nil {
			return nil, errClosed
		}
		switch e := ev.(type) {
		case xproto.SelectionNotifyEvent:
			if e.Property == xproto.AtomNone {
				return nil, fmt.Errorf("%s: %w", kind, ErrEmpty)
			}
			return fetch()
		}
	}
}
