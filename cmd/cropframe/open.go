package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/example/cropframe/internal/app"
	"github.com/example/cropframe/internal/export"
	"github.com/example/cropframe/internal/loader"
)

// openCmd shows the interactive crop window for an image source.
type openCmd struct {
	*root
	fs     *flag.FlagSet
	source string
	output string
	copy   bool
	view   viewFlags
}

func (o *openCmd) FlagSet() *flag.FlagSet {
	return o.fs
}

func parseOpenCmd(args []string, r *root) (*openCmd, error) {
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	o := &openCmd{root: r.subcommand("open"), fs: fs}
	fs.StringVar(&o.output, "output", "", "output file (default from config)")
	fs.BoolVar(&o.copy, "copy", false, "also copy the crop to the clipboard")
	o.view.register(fs)
	fs.Usage = usageFunc(o)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch fs.NArg() {
	case 0:
		o.source = loader.Stdin
	case 1:
		o.source = fs.Arg(0)
	default:
		return nil, &UsageError{of: o}
	}
	return o, nil
}

func (o *openCmd) Run() error {
	return runWindow(o.root, o.source, o.output, o.copy, &o.view)
}

// runWindow opens the crop window for source and reports the outcome.
func runWindow(r *root, source, output string, copyOut bool, view *viewFlags) error {
	cfg, err := view.apply(r.config)
	if err != nil {
		return err
	}
	if output == "" {
		output = export.OutputPath(cfg.SaveDir, cfg.Output)
	}
	a := app.New(source, cfg,
		app.WithTheme(r.activeTheme),
		app.WithNotifier(r.notifier),
		app.WithOutput(output),
		app.WithCopy(copyOut),
		app.WithTitle(r.program),
	)
	if err := a.Run(); err != nil {
		if errors.Is(err, app.ErrCanceled) {
			return errors.New("crop canceled")
		}
		return err
	}
	if out, ok := a.Outcome(); ok {
		rect := out.Result.Region.Rect()
		fmt.Fprintf(os.Stderr, "cropped %v from %s\n", rect, source)
	}
	return nil
}
