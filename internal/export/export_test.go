package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/example/cropframe/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/vec"
)

func quadrants(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{0, 0, 0, 255}
			if x >= w/2 {
				c.R = 255
			}
			if y >= h/2 {
				c.B = 255
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestCropNativeRegion(t *testing.T) {
	src := quadrants(80, 60)
	r := geometry.Region{Origin: vec.Vec2{X: 40, Y: 30}, Size: vec.Vec2{X: 40, Y: 30}}
	out, err := Crop(src, r, 4.0/3.0, 0)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 30), out.Bounds())
	cr, _, cb, _ := out.At(5, 5).RGBA()
	assert.Equal(t, uint32(0xffff), cr)
	assert.Equal(t, uint32(0xffff), cb)
}

func TestCropResamplesToWidth(t *testing.T) {
	src := quadrants(80, 60)
	r := geometry.Region{Size: vec.Vec2{X: 80, Y: 60}}
	out, err := Crop(src, r, 4.0/3.0, 20)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 15), out.Bounds())
}

func TestCropFractionalRegion(t *testing.T) {
	src := quadrants(80, 60)
	r := geometry.Region{Origin: vec.Vec2{X: 10.5, Y: 7.25}, Size: vec.Vec2{X: 40, Y: 30}}
	out, err := Crop(src, r, 4.0/3.0, 0)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 30), out.Bounds())
}

func TestCropEmpty(t *testing.T) {
	_, err := Crop(quadrants(4, 4), geometry.Region{}, 1, 0)
	require.ErrorIs(t, err, ErrEmptyRegion)
	_, err = Crop(nil, geometry.Region{Size: vec.Vec2{X: 1, Y: 1}}, 1, 0)
	require.ErrorIs(t, err, ErrEmptyRegion)
}

func TestCropTooLarge(t *testing.T) {
	region := geometry.Region{Size: vec.Vec2{X: 4, Y: 4}}
	_, err := Crop(quadrants(4, 4), region, 1e-3, 16384)
	require.ErrorIs(t, err, ErrTooLarge)
	_, err = Crop(quadrants(4, 4), region, 1e-300, 16384)
	require.ErrorIs(t, err, ErrTooLarge)

	img, err := Crop(quadrants(4, 4), region, 1, 64)
	require.NoError(t, err)
	require.Equal(t, 64, img.Bounds().Dx())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, imaging.JPEG, Format("out.jpg"))
	assert.Equal(t, imaging.PNG, Format("out.png"))
	assert.Equal(t, imaging.PNG, Format("out"))
}

func TestPNG(t *testing.T) {
	data, err := PNG(quadrants(4, 2))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
}

func TestSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "crop.jpg")
	require.NoError(t, Save(path, quadrants(8, 6), 80))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "a.png", OutputPath("", "a.png"))
	assert.Equal(t, filepath.Join("dir", "a.png"), OutputPath("dir", "a.png"))
	assert.Equal(t, "/abs/a.png", OutputPath("dir", "/abs/a.png"))
}
