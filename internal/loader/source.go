package loader

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/example/cropframe/internal/capture"
	"github.com/example/cropframe/internal/clipboard"
)

// Source prefixes understood by Resolve besides plain paths.
const (
	SchemeFile      = "file://"
	SchemeData      = "data:"
	SchemeClipboard = "clipboard:"
	SchemeCapture   = "capture:"
	Stdin           = "-"
)

// ErrSource reports an unusable source string.
var ErrSource = errors.New("invalid image source")

// swapped by tests
var (
	stdin         io.Reader = os.Stdin
	readClipboard           = clipboard.ReadPNG
	readClipText            = clipboard.ReadText
	screenshot              = capture.Screenshot
)

// Resolve turns a source string into a decoded image. Accepted forms are a
// file path, a file:// URI, a data: URI, "-" for stdin, "clipboard:" and
// "capture:" (append "region" for an interactive selection).
func Resolve(ctx context.Context, source string) (*Image, error) {
	if strings.HasPrefix(source, SchemeCapture) {
		opts := capture.Options{Interactive: strings.TrimPrefix(source, SchemeCapture) == "region"}
		img, err := screenshot(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("capture: %w", err)
		}
		return &Image{Image: img, Format: "png"}, nil
	}
	data, err := Read(ctx, source)
	if err != nil {
		return nil, err
	}
	return DecodeBytes(data)
}

// Read returns the encoded bytes behind source.
func Read(ctx context.Context, source string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch {
	case source == "":
		return nil, fmt.Errorf("%w: empty", ErrSource)
	case source == Stdin:
		return io.ReadAll(stdin)
	case strings.HasPrefix(source, SchemeData):
		return ParseDataURL(source)
	case strings.HasPrefix(source, SchemeFile):
		u, err := url.Parse(source)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSource, err)
		}
		return os.ReadFile(u.Path)
	case source == SchemeClipboard:
		data, err := readClipboard()
		if err == nil {
			return data, nil
		}
		// a copied path or data URL works too
		text, terr := readClipText()
		if terr != nil || text == SchemeClipboard || strings.HasPrefix(text, SchemeCapture) {
			return nil, fmt.Errorf("clipboard: %w", err)
		}
		return Read(ctx, text)
	}
	return os.ReadFile(source)
}

// ParseDataURL decodes an RFC 2397 data URL such as those produced by
// browser file readers.
func ParseDataURL(s string) ([]byte, error) {
	rest, ok := strings.CutPrefix(s, SchemeData)
	if !ok {
		return nil, fmt.Errorf("%w: not a data URL", ErrSource)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("%w: data URL without payload", ErrSource)
	}
	if strings.HasSuffix(meta, ";base64") {
		// tolerate unpadded and URL-safe encodings
		payload = strings.TrimRight(payload, "=")
		enc := base64.RawStdEncoding
		if strings.ContainsAny(payload, "-_") {
			enc = base64.RawURLEncoding
		}
		data, err := enc.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSource, err)
		}
		return data, nil
	}
	text, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSource, err)
	}
	return []byte(text), nil
}

// DataURL encodes data as a base64 data URL.
func DataURL(mime string, data []byte) string {
	return SchemeData + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
