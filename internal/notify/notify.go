// Package notify raises desktop notifications for crop events.
package notify

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/example/cropframe/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventCommit fires when a crop is committed.
	EventCommit Event = "commit"
	// EventSave fires when the cropped image is written to disk.
	EventSave Event = "save"
	// EventCopy fires when the crop is copied to the clipboard.
	EventCopy Event = "copy"
)

// Preferences holds the title and per-event body templates. Each template
// takes a single %s.
type Preferences struct {
	Title     string
	Templates map[Event]string
}

// DefaultPreferences returns the built-in wording.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "cropframe",
		Templates: map[Event]string{
			EventCommit: "Cropped %s",
			EventSave:   "Saved %s",
			EventCopy:   "Copied %s to clipboard",
		},
	}
}

// LoadPreferences applies CROPFRAME_NOTIFY_* environment overrides.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("CROPFRAME_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	for _, e := range []Event{EventCommit, EventSave, EventCopy} {
		key := "CROPFRAME_NOTIFY_" + strings.ToUpper(string(e)) + "_TEXT"
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			prefs.Templates[e] = v
		}
	}
	return prefs
}

// swapped by tests
var send = platform.Notify

// Notifier sends notifications for enabled events. A nil Notifier is
// silent.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
}

// New creates a Notifier with every event disabled.
func New(prefs Preferences) *Notifier {
	n := &Notifier{
		prefs:   Preferences{Title: prefs.Title, Templates: map[Event]string{}},
		enabled: map[Event]bool{},
	}
	for k, v := range prefs.Templates {
		n.prefs.Templates[k] = v
	}
	return n
}

// Enable toggles an event.
func (n *Notifier) Enable(event Event, on bool) {
	if n != nil {
		n.enabled[event] = on
	}
}

// Commit reports a committed region, with a thumbnail of the result.
func (n *Notifier) Commit(detail string, img image.Image) {
	if !n.enabledFor(EventCommit) {
		return
	}
	opts := platform.Options{Timeout: 5 * time.Second}
	if img != nil {
		path, cleanup, err := createPreview(img)
		if err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCommit, detail, opts)
}

// Save reports a written file.
func (n *Notifier) Save(path string) {
	if !n.enabledFor(EventSave) {
		return
	}
	opts := platform.Options{Timeout: 5 * time.Second}
	detail := path
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, err := os.Stat(abs); err == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventSave, detail, opts)
}

// Copy reports a clipboard copy.
func (n *Notifier) Copy(detail string) {
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	n.dispatch(EventCopy, detail, platform.Options{Timeout: 3 * time.Second, Urgency: platform.UrgencyLow})
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	tmpl := strings.TrimSpace(n.prefs.Templates[event])
	if tmpl == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(tmpl, strings.TrimSpace(detail)))
	if err := send(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

// createPreview writes a small PNG thumbnail for the notification icon.
func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "cropframe-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	f.Close()
	thumb := imaging.Fit(img, 128, 128, imaging.Lanczos)
	if err := imaging.Save(thumb, path); err != nil {
		os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}
	return path, cleanup, nil
}
