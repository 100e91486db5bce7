package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/cropframe/internal/theme"
)

// themesCmd lists the available palettes, or prints one.
type themesCmd struct {
	*root
	fs     *flag.FlagSet
	stdout io.Writer
}

func (t *themesCmd) FlagSet() *flag.FlagSet {
	return t.fs
}

func parseThemesCmd(args []string, r *root) (*themesCmd, error) {
	fs := flag.NewFlagSet("themes", flag.ExitOnError)
	t := &themesCmd{root: r.subcommand("themes"), fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(t)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 1 {
		return nil, &UsageError{of: t}
	}
	return t, nil
}

func (t *themesCmd) Run() error {
	loader := theme.NewLoader()
	loader.Inline = t.config.Themes
	if name := t.fs.Arg(0); name != "" {
		th, err := loader.Load(name)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(t.stdout, th.String())
		return err
	}
	for _, name := range loader.Names() {
		fmt.Fprintln(t.stdout, name)
	}
	return nil
}
