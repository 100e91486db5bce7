package theme

import (
	"image/color"
)

// Theme is the palette used to draw the crop window.
type Theme struct {
	Name string

	// Canvas
	Background      color.RGBA // behind the image where it does not reach
	Mask            color.RGBA // translucent overlay outside the aperture
	ApertureOutline color.RGBA // hairline around the aperture, zero alpha disables it

	// Control strip
	BarBackground color.RGBA
	Foreground    color.RGBA // status and shortcut text
	SliderTrack   color.RGBA
	SliderFill    color.RGBA
	SliderKnob    color.RGBA
}

// Default returns the built-in light palette.
func Default() *Theme {
	return &Theme{
		Name:            "Default",
		Background:      color.RGBA{220, 220, 220, 255},
		Mask:            color.RGBA{0, 0, 0, 128},
		ApertureOutline: color.RGBA{255, 255, 255, 160},
		BarBackground:   color.RGBA{235, 235, 235, 255},
		Foreground:      color.RGBA{0, 0, 0, 255},
		SliderTrack:     color.RGBA{190, 190, 190, 255},
		SliderFill:      color.RGBA{66, 133, 244, 255},
		SliderKnob:      color.RGBA{40, 40, 40, 255},
	}
}
