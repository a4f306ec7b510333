package imageload

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestDecodePNG(t *testing.T) {
	path := writePNG(t, t.TempDir(), "walk.png", 3, 2)

	frame, err := Loader{}.Decode(path)
	require.NoError(t, err)
	require.NoError(t, frame.Validate())
	assert.Equal(t, 3, frame.Width)
	assert.Equal(t, 2, frame.Height)

	// Pixel (2,1) lives at row 1, column 2.
	off := (1*3 + 2) * 4
	assert.Equal(t, []byte{2, 1, 200, 255}, frame.Pix[off:off+4])
}

func TestDecodeErrors(t *testing.T) {
	dir := t.TempDir()
	notImage := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notImage, []byte("hello"), 0o644))
	big := writePNG(t, dir, "big.png", 8, 8)

	tests := []struct {
		name   string
		loader Loader
		path   string
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.png")},
		{name: "not an image", path: notImage},
		{name: "larger than limit", loader: Loader{MaxDimension: 4}, path: big},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.loader.Decode(tt.path)
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestFrameFromImageRebasesBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 10, 12, 11))
	src.SetNRGBA(11, 10, color.NRGBA{R: 9, A: 255})

	frame := FrameFromImage(src)
	assert.Equal(t, 2, frame.Width)
	assert.Equal(t, 1, frame.Height)
	assert.Equal(t, []byte{9, 0, 0, 255}, frame.Pix[4:8])
}
