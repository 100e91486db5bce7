package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/disintegration/imaging"
	"github.com/example/cropframe/internal/clipboard"
	"github.com/example/cropframe/internal/config"
	"github.com/example/cropframe/internal/cropper"
	"github.com/example/cropframe/internal/export"
	"github.com/example/cropframe/internal/loader"
	"seehuhn.de/go/geom/vec"
)

// swapped by tests
var (
	resolveSource = loader.Resolve
	copyImage     = clipboard.WriteImage
)

// cropCmd applies a pan and zoom without opening a window.
type cropCmd struct {
	*root
	fs      *flag.FlagSet
	source  string
	pan     vec.Vec2
	output  string
	region  bool
	dataURL bool
	copy    bool
	view    viewFlags
	stdout  io.Writer
}

func (c *cropCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseCropCmd(args []string, r *root) (*cropCmd, error) {
	fs := flag.NewFlagSet("crop", flag.ExitOnError)
	c := &cropCmd{root: r.subcommand("crop"), fs: fs, stdout: os.Stdout}
	pan := fs.String("pan", "", "pan as x,y in viewport pixels, clamped to the image")
	fs.StringVar(&c.output, "output", "", "output file, - for stdout (default from config)")
	fs.BoolVar(&c.region, "region", false, "print the crop rectangle instead of writing an image")
	fs.BoolVar(&c.dataURL, "data-url", false, "print the crop as a PNG data URL")
	fs.BoolVar(&c.copy, "copy", false, "copy the crop to the clipboard")
	c.view.register(fs)
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.source = fs.Arg(0)
	if *pan != "" {
		p, err := config.ParsePair(*pan)
		if err != nil {
			return nil, fmt.Errorf("-pan: %w", err)
		}
		c.pan = p
	}
	return c, nil
}

// plan drives a controller through load, zoom and pan and commits.
func plan(cfg *config.Config, size, pan vec.Vec2) (cropper.Result, error) {
	v := cfg.Viewport
	ctrl := cropper.New(v.Size(),
		cropper.WithLayout(v.Layout()),
		cropper.WithMaxZoom(v.MaxZoom),
		cropper.WithZoom(v.Zoom),
		cropper.WithCornerRadius(v.CornerRadius),
		cropper.WithLogger(log.New(os.Stderr, "", 0)),
	)
	ctrl.ImageLoaded(size)
	if pan != (vec.Vec2{}) {
		ctrl.PointerDown(vec.Vec2{})
		ctrl.PointerMove(pan.Mul(-1))
		ctrl.PointerUp()
	}
	res, ok := ctrl.Commit()
	if !ok {
		return cropper.Result{}, fmt.Errorf("cannot crop a %gx%g image in a %dx%d viewport", size.X, size.Y, v.Width, v.Height)
	}
	return res, nil
}

func (c *cropCmd) Run() error {
	cfg, err := c.view.apply(c.config)
	if err != nil {
		return err
	}
	src, err := resolveSource(context.Background(), c.source)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", c.source, err)
	}
	res, err := plan(cfg, src.Size(), c.pan)
	if err != nil {
		return err
	}
	if c.region {
		r := res.Region
		_, err := fmt.Fprintf(c.stdout, "%g %g %g %g\n", r.Origin.X, r.Origin.Y, r.Size.X, r.Size.Y)
		return err
	}

	img, err := export.Crop(src.Image, res.Region, res.Dims.OutputRatio, cfg.OutputWidth)
	if err != nil {
		return fmt.Errorf("failed to crop: %w", err)
	}
	detail := describe(res)
	c.notifier.Commit(detail, img)

	switch {
	case c.dataURL:
		data, err := export.PNG(img)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.stdout, loader.DataURL("image/png", data))
	case c.output == "-":
		if err := export.Encode(c.stdout, img, imaging.PNG, 0); err != nil {
			return err
		}
	case c.output != "" || !c.copy:
		path := c.output
		if path == "" {
			path = export.OutputPath(cfg.SaveDir, cfg.Output)
		}
		if err := export.Save(path, img, cfg.JPEGQuality); err != nil {
			return fmt.Errorf("failed to save %s: %w", path, err)
		}
		fmt.Fprintf(os.Stderr, "saved %s (%s)\n", path, detail)
		c.notifier.Save(path)
	}
	if c.copy {
		if err := copyImage(img); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		c.notifier.Copy(detail)
	}
	return nil
}

func describe(res cropper.Result) string {
	r := res.Region.Rect()
	return fmt.Sprintf("%dx%d at %d,%d", r.Dx(), r.Dy(), r.Min.X, r.Min.Y)
}
