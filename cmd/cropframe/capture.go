package main

import (
	"flag"

	"github.com/example/cropframe/internal/loader"
)

// captureCmd takes a screenshot and opens it in the crop window.
type captureCmd struct {
	*root
	fs     *flag.FlagSet
	region bool
	output string
	copy   bool
	view   viewFlags
}

func (c *captureCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseCaptureCmd(args []string, r *root) (*captureCmd, error) {
	fs := flag.NewFlagSet("capture", flag.ExitOnError)
	c := &captureCmd{root: r.subcommand("capture"), fs: fs}
	fs.BoolVar(&c.region, "select", false, "let the desktop portal ask which area to capture")
	fs.StringVar(&c.output, "output", "", "output file (default from config)")
	fs.BoolVar(&c.copy, "copy", false, "also copy the crop to the clipboard")
	c.view.register(fs)
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *captureCmd) source() string {
	if c.region {
		return loader.SchemeCapture + "region"
	}
	return loader.SchemeCapture
}

func (c *captureCmd) Run() error {
	return runWindow(c.root, c.source(), c.output, c.copy, &c.view)
}
