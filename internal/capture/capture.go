// Package capture grabs the screen as a crop source.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
)

// Options tunes a screenshot.
type Options struct {
	// Interactive asks the desktop portal to let the user pick a region.
	Interactive bool
	// IncludeCursor embeds the pointer in the image when supported.
	IncludeCursor bool
}

// ErrUnsupported is returned when no capture backend works on this system.
var ErrUnsupported = errors.New("screen capture is not supported on this platform")

// swapped by tests
var (
	portalScreenshotFn = portalScreenshot
	rootScreenshotFn   = rootScreenshot
)

// Screenshot captures the desktop, preferring the XDG portal and falling
// back to grabbing the root window directly. Interactive captures have no
// fallback since only the portal can ask the user for a region.
func Screenshot(ctx context.Context, opts Options) (*image.RGBA, error) {
	img, err := portalScreenshotFn(ctx, opts)
	if err == nil {
		return img, nil
	}
	if opts.Interactive || ctx.Err() != nil {
		return nil, err
	}
	img, rootErr := rootScreenshotFn()
	if rootErr != nil {
		return nil, fmt.Errorf("portal: %v; fallback: %w", err, rootErr)
	}
	return img, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
