package notify

import (
	"errors"
	"image"
	"os"
	"strings"
	"testing"

	"github.com/example/cropframe/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
	iconExisted bool
}

func capture(t *testing.T, err error) *[]sent {
	t.Helper()
	var got []sent
	prev := send
	send = func(title, body string, opts platform.Options) error {
		existed := false
		if opts.IconPath != "" {
			_, statErr := os.Stat(opts.IconPath)
			existed = statErr == nil
		}
		got = append(got, sent{title, body, opts, existed})
		return err
	}
	t.Cleanup(func() { send = prev })
	return &got
}

func TestDisabledEventsAreSilent(t *testing.T) {
	got := capture(t, nil)
	n := New(DefaultPreferences())
	n.Commit("x", nil)
	n.Save("y")
	n.Copy("z")
	var nilNotifier *Notifier
	nilNotifier.Copy("z")
	if len(*got) != 0 {
		t.Fatalf("sent %d notifications", len(*got))
	}
}

func TestCommitWithPreview(t *testing.T) {
	got := capture(t, nil)
	n := New(DefaultPreferences())
	n.Enable(EventCommit, true)
	n.Commit("400x300 at 10,20", image.NewRGBA(image.Rect(0, 0, 400, 300)))
	if len(*got) != 1 {
		t.Fatalf("sent %d notifications", len(*got))
	}
	s := (*got)[0]
	if s.body != "Cropped 400x300 at 10,20" || s.title != "cropframe" {
		t.Errorf("notification = %+v", s)
	}
	if !s.iconExisted {
		t.Error("preview should exist while sending")
	}
	if _, err := os.Stat(s.opts.IconPath); !os.IsNotExist(err) {
		t.Error("preview should be removed afterwards")
	}
}

func TestCopyDefaultsDetail(t *testing.T) {
	got := capture(t, errors.New("no bus"))
	n := New(DefaultPreferences())
	n.Enable(EventCopy, true)
	n.Copy("  ")
	if len(*got) != 1 || (*got)[0].body != "Copied image to clipboard" {
		t.Fatalf("got %+v", *got)
	}
}

func TestLoadPreferences(t *testing.T) {
	t.Setenv("CROPFRAME_NOTIFY_TITLE", "Crops")
	t.Setenv("CROPFRAME_NOTIFY_SAVE_TEXT", "Wrote %s")
	p := LoadPreferences()
	if p.Title != "Crops" || p.Templates[EventSave] != "Wrote %s" {
		t.Fatalf("prefs = %+v", p)
	}
	if !strings.HasPrefix(p.Templates[EventCommit], "Cropped") {
		t.Fatalf("commit template changed: %q", p.Templates[EventCommit])
	}
}
