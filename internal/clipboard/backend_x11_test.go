//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"errors"
	"testing"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// events replays evs, then reports a closed connection.
func events(evs ...xgb.Event) func() (xgb.Event, xgb.Error) {
	return func() (xgb.Event, xgb.Error) {
		if len(evs) == 0 {
			return nil, nil
		}
		ev := evs[0]
		evs = evs[1:]
		return ev, nil
	}
}

func TestAwaitSelectionFetchesProperty(t *testing.T) {
	fetched := 0
	data, err := awaitSelection(events(
		xproto.PropertyNotifyEvent{},
		xproto.SelectionNotifyEvent{Property: 42},
	), kindPNG, func() ([]byte, error) {
		fetched++
		return []byte("png"), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "png" || fetched != 1 {
		t.Fatalf("data %q fetched %d", data, fetched)
	}
}

func TestAwaitSelectionRefused(t *testing.T) {
	_, err := awaitSelection(events(xproto.SelectionNotifyEvent{Property: xproto.AtomNone}), kindText,
		func() ([]byte, error) { t.Fatal("fetch after refusal"); return nil, nil })
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestAwaitSelectionClosedConnection(t *testing.T) {
	_, err := awaitSelection(events(xproto.PropertyNotifyEvent{}), kindPNG,
		func() ([]byte, error) { return nil, nil })
	if !errors.Is(err, errClosed) {
		t.Fatalf("expected errClosed, got %v", err)
	}
}
