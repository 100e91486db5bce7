package main

import (
	"flag"
	"fmt"

	"github.com/example/cropframe/internal/config"
)

// viewFlags are the viewport overrides shared by open, capture and crop.
// Empty or zero values keep the configured setting.
type viewFlags struct {
	size        string
	zoom        float64
	maxZoom     float64
	ratio       string
	border      string
	radius      float64
	outputWidth int
	quality     int
}

func (v *viewFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&v.size, "size", "", "viewport size as WxH")
	fs.Float64Var(&v.zoom, "zoom", 0, "initial zoom (1 shows the whole image)")
	fs.Float64Var(&v.maxZoom, "max-zoom", 0, "largest allowed zoom")
	fs.StringVar(&v.ratio, "ratio", "", "output aspect ratio such as 16:9 (default: viewport ratio)")
	fs.StringVar(&v.border, "border", "", "fixed border as x,y in viewport pixels")
	fs.Float64Var(&v.radius, "radius", -1, "aperture corner radius")
	fs.IntVar(&v.outputWidth, "width", 0, "resample the crop to this width (0 keeps native resolution)")
	fs.IntVar(&v.quality, "quality", 0, "JPEG quality 1-100")
}

// apply returns a copy of cfg with the flags applied and validated.
func (v *viewFlags) apply(cfg *config.Config) (*config.Config, error) {
	out := *cfg
	vp := &out.Viewport
	if v.size != "" {
		p, err := config.ParsePair(v.size)
		if err != nil {
			return nil, fmt.Errorf("-size: %w", err)
		}
		vp.Width, vp.Height = int(p.X), int(p.Y)
	}
	if v.maxZoom != 0 {
		vp.MaxZoom = v.maxZoom
	}
	if v.zoom != 0 {
		vp.Zoom = v.zoom
	}
	if v.ratio != "" {
		r, err := config.ParseRatio(v.ratio)
		if err != nil || r <= 0 {
			return nil, fmt.Errorf("-ratio: invalid value %q", v.ratio)
		}
		vp.OutputRatio = r
	}
	if v.border != "" {
		b, err := config.ParsePair(v.border)
		if err != nil {
			return nil, fmt.Errorf("-border: %w", err)
		}
		vp.Border = b
	}
	if v.radius >= 0 {
		vp.CornerRadius = v.radius
	}
	if v.outputWidth > config.MaxOutputWidth {
		return nil, fmt.Errorf("-width: %d is larger than %d", v.outputWidth, config.MaxOutputWidth)
	}
	if v.outputWidth > 0 {
		out.OutputWidth = v.outputWidth
	}
	if v.quality != 0 {
		out.JPEGQuality = v.quality
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}
