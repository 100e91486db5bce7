package config

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/example/cropframe/internal/theme"
	"seehuhn.de/go/geom/vec"
)

// Parse reads configuration in RC format: `key = value` (or `key: value`)
// lines grouped under [viewport], [notify] and [theme.<name>] sections.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	var current *theme.Theme

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			current = nil
			if name, ok := strings.CutPrefix(section, "theme."); ok {
				current = theme.Default()
				current.Name = name
				cfg.Themes[name] = current
			}
			continue
		}

		sep := strings.IndexAny(line, "=:")
		if sep < 0 {
			continue
		}
		key := strings.TrimSpace(line[:sep])
		value := strings.Trim(strings.TrimSpace(line[sep+1:]), "\"")

		var err error
		switch {
		case current != nil:
			err = setThemeField(current, key, value)
		case section == "viewport":
			err = setViewportField(&cfg.Viewport, key, value)
		case section == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case section == "":
			err = setRootField(cfg, key, value)
		}
		if err != nil {
			if section == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", section, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "output":
		cfg.Output = value
	case "output_width":
		cfg.OutputWidth, err = parseInt(key, value)
	case "jpeg_quality":
		cfg.JPEGQuality, err = parseInt(key, value)
	}
	return err
}

func setViewportField(v *Viewport, key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "width":
		v.Width, err = parseInt(key, value)
	case "height":
		v.Height, err = parseInt(key, value)
	case "max_zoom":
		v.MaxZoom, err = parseFloat(key, value)
	case "zoom":
		v.Zoom, err = parseFloat(key, value)
	case "corner_radius":
		v.CornerRadius, err = parseFloat(key, value)
	case "border_divisor":
		v.BorderDivisor, err = parseFloat(key, value)
	case "border":
		v.Border, err = ParsePair(value)
		if err != nil {
			err = fmt.Errorf("invalid pair for key %s: %w", key, err)
		}
	case "output_ratio":
		v.OutputRatio, err = ParseRatio(value)
		if err != nil {
			err = fmt.Errorf("invalid ratio for key %s: %w", key, err)
		}
	}
	return err
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "commit":
		n.Commit = b
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}

// setThemeField matches keys case-insensitively against Theme fields.
func setThemeField(t *theme.Theme, key, value string) error {
	typ := reflect.TypeOf(*t)
	for i := 0; i < typ.NumField(); i++ {
		if strings.EqualFold(typ.Field(i).Name, key) {
			return t.Set(typ.Field(i).Name, value)
		}
	}
	return nil
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	return n, nil
}

func parseFloat(key, value string) (float64, error) {
	f, err := parseFinite(value)
	if err != nil {
		return 0, fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	return f, nil
}

// parseFinite is strconv.ParseFloat without NaN and infinities.
func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return f, nil
}

// ParsePair reads "x,y" (or "x y", "XxY").
func ParsePair(s string) (vec.Vec2, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == 'x' || r == 'X' })
	if len(fields) != 2 {
		return vec.Vec2{}, fmt.Errorf("want two numbers, got %q", s)
	}
	x, err := parseFinite(fields[0])
	if err != nil {
		return vec.Vec2{}, err
	}
	y, err := parseFinite(fields[1])
	if err != nil {
		return vec.Vec2{}, err
	}
	return vec.Vec2{X: x, Y: y}, nil
}

// ParseRatio accepts a number or "w:h" / "w/h".
func ParseRatio(s string) (float64, error) {
	if w, h, ok := strings.Cut(strings.ReplaceAll(s, "/", ":"), ":"); ok {
		a, err := parseFinite(strings.TrimSpace(w))
		if err != nil {
			return 0, err
		}
		b, err := parseFinite(strings.TrimSpace(h))
		if err != nil {
			return 0, err
		}
		if b == 0 {
			return 0, fmt.Errorf("zero height in %q", s)
		}
		return a / b, nil
	}
	return parseFinite(s)
}
