package config

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/example/cropframe/internal/cropper"
	"github.com/example/cropframe/internal/geometry"
	"github.com/example/cropframe/internal/theme"
	"seehuhn.de/go/geom/vec"
)

// Notify selects which events raise a desktop notification.
type Notify struct {
	Commit bool
	Save   bool
	Copy   bool
}

// Viewport holds the crop canvas settings.
type Viewport struct {
	Width         int
	Height        int
	MaxZoom       float64
	Zoom          float64
	CornerRadius  float64
	BorderDivisor float64
	// Border overrides BorderDivisor when non-zero.
	Border      vec.Vec2
	OutputRatio float64
}

// Config holds the application configuration.
type Config struct {
	Theme       string
	SaveDir     string
	Output      string
	OutputWidth int // 0 keeps the region's own resolution
	JPEGQuality int
	Viewport    Viewport
	Notify      Notify
	Themes      map[string]*theme.Theme
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		Output:      "cropped.png",
		JPEGQuality: 90,
		Viewport: Viewport{
			Width:         400,
			Height:        300,
			MaxZoom:       cropper.DefaultMaxZoom,
			Zoom:          1,
			CornerRadius:  cropper.DefaultCornerRadius,
			BorderDivisor: geometry.DefaultBorderDivisor,
		},
		Notify: Notify{Commit: true},
		Themes: make(map[string]*theme.Theme),
	}
}

// MaxOutputWidth bounds output_width so a resampled crop stays allocatable.
const MaxOutputWidth = 16384

// Validate replaces unusable values with defaults.
func (c *Config) Validate() error {
	d := New()
	v := &c.Viewport
	if v.Width <= 0 {
		v.Width = d.Viewport.Width
	}
	if v.Height <= 0 {
		v.Height = d.Viewport.Height
	}
	if !finite(v.MaxZoom) || v.MaxZoom < 1 {
		v.MaxZoom = d.Viewport.MaxZoom
	}
	switch {
	case !finite(v.Zoom) || v.Zoom < 1:
		v.Zoom = 1
	case v.Zoom > v.MaxZoom:
		v.Zoom = v.MaxZoom
	}
	if !finite(v.CornerRadius) {
		v.CornerRadius = d.Viewport.CornerRadius
	}
	if v.CornerRadius < 0 {
		v.CornerRadius = 0
	}
	if !finite(v.BorderDivisor) || v.BorderDivisor <= 2 {
		v.BorderDivisor = d.Viewport.BorderDivisor
	}
	if !finite(v.Border.X) || !finite(v.Border.Y) ||
		v.Border.X < 0 || v.Border.Y < 0 || 2*v.Border.X >= float64(v.Width) || 2*v.Border.Y >= float64(v.Height) {
		v.Border = vec.Vec2{}
	}
	if !finite(v.OutputRatio) || v.OutputRatio < 0 {
		v.OutputRatio = 0
	}
	if c.OutputWidth < 0 {
		c.OutputWidth = 0
	}
	if c.OutputWidth > MaxOutputWidth {
		c.OutputWidth = MaxOutputWidth
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		c.JPEGQuality = d.JPEGQuality
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Layout converts the viewport settings for the geometry package.
func (v Viewport) Layout() geometry.Layout {
	return geometry.Layout{BorderDivisor: v.BorderDivisor, Border: v.Border, OutputRatio: v.OutputRatio}
}

// Size is the viewport as a vector.
func (v Viewport) Size() vec.Vec2 {
	return vec.Vec2{X: float64(v.Width), Y: float64(v.Height)}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	fmt.Fprintf(&sb, "output = %s\n", c.Output)
	fmt.Fprintf(&sb, "output_width = %d\n", c.OutputWidth)
	fmt.Fprintf(&sb, "jpeg_quality = %d\n", c.JPEGQuality)
	sb.WriteString("\n")

	v := c.Viewport
	sb.WriteString("[viewport]\n")
	fmt.Fprintf(&sb, "width = %d\n", v.Width)
	fmt.Fprintf(&sb, "height = %d\n", v.Height)
	fmt.Fprintf(&sb, "max_zoom = %s\n", formatFloat(v.MaxZoom))
	fmt.Fprintf(&sb, "zoom = %s\n", formatFloat(v.Zoom))
	fmt.Fprintf(&sb, "corner_radius = %s\n", formatFloat(v.CornerRadius))
	fmt.Fprintf(&sb, "border_divisor = %s\n", formatFloat(v.BorderDivisor))
	if v.Border != (vec.Vec2{}) {
		fmt.Fprintf(&sb, "border = %s,%s\n", formatFloat(v.Border.X), formatFloat(v.Border.Y))
	}
	if v.OutputRatio > 0 {
		fmt.Fprintf(&sb, "output_ratio = %s\n", formatFloat(v.OutputRatio))
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "commit = %v\n", c.Notify.Commit)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)

	var names []string
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "\n[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name = %s\n", t.Name)
		for _, e := range t.Entries() {
			fmt.Fprintf(&sb, "%s = %s\n", e[0], e[1])
		}
	}
	return sb.String()
}
