package types

import (
	"bytes"
	"fmt"
)

// BytesPerPixel is the size of one RGBA pixel in Frame.Pix.
const BytesPerPixel = 4

// Frame is a single decoded image belonging to a state.
// Pix holds non-premultiplied RGBA samples in row-major order.
type Frame struct {
	Width  int
	Height int
	Pix    []byte
}

// Validate checks that the frame has positive dimensions and a pixel buffer
// of exactly Width*Height*BytesPerPixel bytes.
func (f Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidFrame, f.Width, f.Height)
	}
	if want := f.Width * f.Height * BytesPerPixel; len(f.Pix) != want {
		return fmt.Errorf("%w: got %d pixel bytes, want %d", ErrInvalidFrame, len(f.Pix), want)
	}
	return nil
}

// Equal reports whether f and other have the same size and pixel contents.
func (f Frame) Equal(other Frame) bool {
	return f.Width == other.Width && f.Height == other.Height && bytes.Equal(f.Pix, other.Pix)
}

func (f Frame) clone() Frame {
	pix := make([]byte, len(f.Pix))
	copy(pix, f.Pix)
	return Frame{Width: f.Width, Height: f.Height, Pix: pix}
}
