// Package imageload decodes image files into RGBA frames.
package imageload

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/mesh-intelligence/gwen2d/pkg/types"
)

// ErrDecode is returned when a file cannot be opened or decoded as an image.
var ErrDecode = errors.New("cannot decode image")

// DefaultMaxDimension bounds the width and height of an imported frame.
const DefaultMaxDimension = 4096

// Loader decodes PNG, JPEG, GIF, BMP, TIFF and WebP files.
type Loader struct {
	// MaxDimension rejects images wider or taller than this many pixels.
	// Zero means DefaultMaxDimension.
	MaxDimension int
}

// Decode reads the image at path and returns it as a non-premultiplied RGBA
// frame. Animated GIFs yield their first frame.
func (l Loader) Decode(path string) (types.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Frame{}, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return types.Frame{}, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	limit := l.MaxDimension
	if limit <= 0 {
		limit = DefaultMaxDimension
	}
	if cfg.Width > limit || cfg.Height > limit {
		return types.Frame{}, fmt.Errorf("%w: %s: %dx%d exceeds %d pixels per side",
			ErrDecode, path, cfg.Width, cfg.Height, limit)
	}
	if _, err := f.Seek(0, 0); err != nil {
		return types.Frame{}, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return types.Frame{}, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return FrameFromImage(img), nil
}

// FrameFromImage converts any image to a frame anchored at the origin.
func FrameFromImage(img image.Image) types.Frame {
	b := img.Bounds()
	rgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return types.Frame{Width: b.Dx(), Height: b.Dy(), Pix: rgba.Pix}
}
