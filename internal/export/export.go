// Package export turns a committed crop region into encoded image data.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/example/cropframe/internal/geometry"
	"github.com/example/cropframe/internal/render"
)

var (
	// ErrEmptyRegion is returned when the region selects no pixels.
	ErrEmptyRegion = errors.New("crop region is empty")
	ErrTooLarge    = errors.New("crop output is too large")
)

// MaxPixels bounds the area of an output image.
const MaxPixels = 1 << 28

// Crop returns the pixels of src selected by region. With width > 0 the
// result is resampled to width x width/ratio. Otherwise a region with whole
// pixel bounds that lies inside src is cropped directly, and anything else is
// resampled at the region's own size.
func Crop(src image.Image, region geometry.Region, ratio float64, width int) (image.Image, error) {
	if src == nil {
		return nil, ErrEmptyRegion
	}
	area := region.Size.X * region.Size.Y
	if width > 0 && ratio > 0 {
		area = float64(width) * float64(width) / ratio
	}
	if !(area <= MaxPixels) {
		return nil, fmt.Errorf("%w: %.0f pixels", ErrTooLarge, area)
	}
	out := render.OutputSize(region, ratio, width)
	if out.X <= 0 || out.Y <= 0 {
		return nil, ErrEmptyRegion
	}
	b := src.Bounds()
	if width <= 0 && integral(region) {
		rect := region.Rect().Add(b.Min)
		if rect.In(b) {
			return imaging.Crop(src, rect), nil
		}
	}
	return render.Extract(src, region, out), nil
}

func integral(r geometry.Region) bool {
	for _, v := range []float64{r.Origin.X, r.Origin.Y, r.Size.X, r.Size.Y} {
		if math.Abs(v-math.Round(v)) > 1e-6 {
			return false
		}
	}
	return true
}

// Format picks the encoding for path from its extension, defaulting to PNG.
func Format(path string) imaging.Format {
	f, err := imaging.FormatFromFilename(path)
	if err != nil {
		return imaging.PNG
	}
	return f
}

// Encode writes img to w. quality only applies to JPEG.
func Encode(w io.Writer, img image.Image, format imaging.Format, quality int) error {
	if quality < 1 || quality > 100 {
		quality = 90
	}
	if err := imaging.Encode(w, img, format, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

// PNG encodes img as PNG bytes.
func PNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, imaging.PNG, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes img to path, creating the parent directory. The format follows
// the extension.
func Save(path string, img image.Image, quality int) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img, Format(path), quality); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// OutputPath joins name onto dir unless name is absolute or dir is empty.
func OutputPath(dir, name string) string {
	if dir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}
