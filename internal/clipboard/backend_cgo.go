//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"golang.design/x/clipboard"
)

func init() {
	newBackend = func() (backend, error) {
		if err := clipboard.Init(); err != nil {
			return nil, err
		}
		return designBackend{}, nil
	}
}

type designBackend struct{}

func format(kind string) clipboard.Format {
	if kind == kindPNG {
		return clipboard.FmtImage
	}
	return clipboard.FmtText
}

func (designBackend) read(kind string) ([]byte, error) {
	return clipboard.Read(format(kind)), nil
}

func (designBackend) write(kind string, data []byte) error {
	clipboard.Write(format(kind), data)
	return nil
}
