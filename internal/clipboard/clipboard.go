// Package clipboard moves crop results and source images through the
// desktop clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
	"sync"
)

var (
	errNoDisplay   = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	errUnsupported = errors.New("clipboard is not supported on this platform")
	// ErrEmpty reports that the clipboard holds nothing of the requested kind.
	ErrEmpty = errors.New("clipboard does not contain the requested data")
)

// backend is the platform clipboard.
type backend interface {
	read(kind string) ([]byte, error)
	write(kind string, data []byte) error
}

const (
	kindPNG  = "image/png"
	kindText = "text/plain"
)

var (
	initOnce sync.Once
	initErr  error
	active   backend
	// newBackend is replaced per platform and by tests.
	newBackend func() (backend, error)
)

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func ensureInit() (backend, error) {
	initOnce.Do(func() {
		if newBackend == nil {
			initErr = errUnsupported
			return
		}
		if !hasDisplay() {
			initErr = errNoDisplay
			return
		}
		active, initErr = newBackend()
	})
	return active, initErr
}

// WriteImage publishes img as PNG.
func WriteImage(img image.Image) error {
	b, err := ensureInit()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	return b.write(kindPNG, buf.Bytes())
}

// ReadPNG returns the raw PNG bytes on the clipboard.
func ReadPNG() ([]byte, error) {
	b, err := ensureInit()
	if err != nil {
		return nil, err
	}
	data, err := b.read(kindPNG)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image: %w", ErrEmpty)
	}
	return data, nil
}

// ReadImage decodes the clipboard PNG.
func ReadImage() (image.Image, error) {
	data, err := ReadPNG()
	if err != nil {
		return nil, err
	}
	return png.Decode(bytes.NewReader(data))
}

// WriteText publishes UTF-8 text.
func WriteText(text string) error {
	b, err := ensureInit()
	if err != nil {
		return err
	}
	return b.write(kindText, []byte(text))
}

// ReadText returns clipboard text without trailing NUL or newline.
func ReadText() (string, error) {
	b, err := ensureInit()
	if err != nil {
		return "", err
	}
	data, err := b.read(kindText)
	if err != nil {
		return "", err
	}
	text := strings.TrimRight(string(data), "\x00\r\n")
	if text == "" {
		return "", fmt.Errorf("text: %w", ErrEmpty)
	}
	return text, nil
}
