//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"fmt"
	"image"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// rootScreenshot reads the whole root window of the default screen.
func rootScreenshot() (*image.RGBA, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("x11 connect: %w", err)
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	root := setup.DefaultScreen(conn).Root
	geo, err := xproto.GetGeometry(conn, xproto.Drawable(root)).Reply()
	if err != nil {
		return nil, fmt.Errorf("x11 geometry: %w", err)
	}
	reply, err := xproto.GetImage(conn, xproto.ImageFormatZPixmap, xproto.Drawable(root),
		0, 0, geo.Width, geo.Height, ^uint32(0)).Reply()
	if err != nil {
		return nil, fmt.Errorf("x11 get image: %w", err)
	}
	return zpixmapToRGBA(bitsPerPixel(setup, reply.Depth), reply.Data, int(geo.Width), int(geo.Height))
}

func bitsPerPixel(setup *xproto.SetupInfo, depth byte) int {
	for _, f := range setup.PixmapFormats {
		if f.Depth == depth {
			return int(f.BitsPerPixel)
		}
	}
	return 0
}

// zpixmapToRGBA converts little-endian BGRX/BGRA rows.
func zpixmapToRGBA(bpp int, data []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("x11 image has empty geometry")
	}
	bytesPP := bpp / 8
	if bytesPP < 3 {
		return nil, fmt.Errorf("unsupported pixel format %d bpp", bpp)
	}
	stride := len(data) / height
	if stride*height != len(data) || stride < width*bytesPP {
		return nil, fmt.Errorf("x11 image: unexpected stride")
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := data[y*stride:]
		out := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			px := row[x*bytesPP:]
			out[4*x+0] = px[2]
			out[4*x+1] = px[1]
			out[4*x+2] = px[0]
			// depth-24 visuals leave the pad byte undefined
			out[4*x+3] = 0xFF
		}
	}
	return img, nil
}
