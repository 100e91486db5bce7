// Package loader decodes source images and resolves image source strings.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"seehuhn.de/go/geom/vec"
)

// ErrDecode wraps every decoding failure.
var ErrDecode = errors.New("decode image")

// Image is a decoded source image.
type Image struct {
	image.Image
	Format string
}

// Size returns the natural pixel size after orientation.
func (i *Image) Size() vec.Vec2 {
	b := i.Bounds()
	return vec.Vec2{X: float64(b.Dx()), Y: float64(b.Dy())}
}

// Decode reads an image, applying EXIF orientation.
func Decode(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return DecodeBytes(data)
}

// DecodeBytes is Decode over an in-memory buffer.
func DecodeBytes(data []byte) (*Image, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, format, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: %s: empty image", ErrDecode, format)
	}
	return &Image{Image: img, Format: format}, nil
}

// Result is delivered once by Open.
type Result struct {
	Image *Image
	Err   error
}

// Open resolves source on its own goroutine and calls fn with the outcome
// unless ctx ends first.
func Open(ctx context.Context, source string, fn func(Result)) {
	go func() {
		img, err := Resolve(ctx, source)
		if ctx.Err() != nil {
			return
		}
		fn(Result{Image: img, Err: err})
	}()
}
