//go:build windows || (darwin && cgo)

package capture

import (
	"context"
	"image"

	"github.com/vova616/screenshot"
)

func portalScreenshot(context.Context, Options) (*image.RGBA, error) {
	return nil, ErrUnsupported
}

// rootScreenshot grabs the primary display.
func rootScreenshot() (*image.RGBA, error) {
	return screenshot.CaptureScreen()
}
