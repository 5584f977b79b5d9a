// Package epd implements the packed frame buffer sent to the 7-color
// electrophoretic panel: two 4-bit palette pixels per byte, with an optional
// rotation applied to every write.
package epd

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"tinygo.org/x/drivers"
)

// Panel geometry of the 5.65" 7-color module.
const (
	PanelWidth  = 600
	PanelHeight = 448
)

var (
	ErrBadRotation = errors.New("epd: unsupported rotation")
	ErrGeometry    = errors.New("epd: invalid geometry")
)

// FrameBuffer is a single long-lived allocation of width*height/2 bytes.
//
// The even pixel of each pair lives in the high nibble, the odd pixel in the
// low nibble, rows are packed back to back. It is not safe for concurrent use.
type FrameBuffer struct {
	width  int
	height int
	rot    drivers.Rotation
	buf    []byte
}

// New allocates a frame buffer for a panel of the given physical size.
func New(width, height int) (*FrameBuffer, error) {
	if err := checkGeometry(width, height); err != nil {
		return nil, err
	}
	return &FrameBuffer{
		width:  width,
		height: height,
		buf:    make([]byte, width*height/2),
	}, nil
}

// Wrap adopts an existing packed buffer, e.g. one read back from disk.
func Wrap(width, height int, data []byte) (*FrameBuffer, error) {
	if err := checkGeometry(width, height); err != nil {
		return nil, err
	}
	if want := width * height / 2; len(data) != want {
		return nil, fmt.Errorf("%w: have %d bytes, want %d", ErrGeometry, len(data), want)
	}
	return &FrameBuffer{width: width, height: height, buf: data}, nil
}

func checkGeometry(width, height int) error {
	if width <= 0 || height <= 0 || width%2 != 0 {
		return fmt.Errorf("%w: %dx%d", ErrGeometry, width, height)
	}
	return nil
}

// Width returns the physical width in pixels.
func (f *FrameBuffer) Width() int { return f.width }

// Height returns the physical height in pixels.
func (f *FrameBuffer) Height() int { return f.height }

// Size returns the logical drawing area, which is transposed at 90 and 270 degrees.
func (f *FrameBuffer) Size() (w, h int) {
	if f.rot == drivers.Rotation90 || f.rot == drivers.Rotation270 {
		return f.height, f.width
	}
	return f.width, f.height
}

// Bounds returns the logical drawing area as a rectangle.
func (f *FrameBuffer) Bounds() image.Rectangle {
	w, h := f.Size()
	return image.Rect(0, 0, w, h)
}

// Bytes exposes the packed buffer in the panel's byte layout.
func (f *FrameBuffer) Bytes() []byte { return f.buf }

func (f *FrameBuffer) Rotation() drivers.Rotation { return f.rot }

func (f *FrameBuffer) SetRotation(r drivers.Rotation) error {
	switch r {
	case drivers.Rotation0, drivers.Rotation90, drivers.Rotation180, drivers.Rotation270:
		f.rot = r
		return nil
	}
	return fmt.Errorf("%w: %d", ErrBadRotation, r)
}

// Clear fills every pixel with c.
func (f *FrameBuffer) Clear(c Color) {
	b := Pack(c, c)
	for i := range f.buf {
		f.buf[i] = b
	}
}

// Set writes one logical pixel. Coordinates outside the panel are ignored.
func (f *FrameBuffer) Set(x, y int, c Color) {
	px, py, ok := f.physical(x, y)
	if !ok {
		return
	}
	idx := (py*f.width + px) >> 1
	if px&1 == 0 {
		f.buf[idx] = f.buf[idx]&0x0F | c.nibble()<<4
	} else {
		f.buf[idx] = f.buf[idx]&0xF0 | c.nibble()
	}
}

// Pixel reads one logical pixel back.
func (f *FrameBuffer) Pixel(x, y int) (Color, bool) {
	px, py, ok := f.physical(x, y)
	if !ok {
		return Black, false
	}
	return f.at(px, py), true
}

func (f *FrameBuffer) at(px, py int) Color {
	b := f.buf[(py*f.width+px)>>1]
	if px&1 == 0 {
		return Color(b >> 4)
	}
	return Color(b & 0x0F)
}

func (f *FrameBuffer) physical(x, y int) (int, int, bool) {
	switch f.rot {
	case drivers.Rotation90:
		x, y = f.width-1-y, x
	case drivers.Rotation180:
		x, y = f.width-1-x, f.height-1-y
	case drivers.Rotation270:
		x, y = y, f.height-1-x
	}
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return 0, 0, false
	}
	return x, y, true
}

// Image returns a read-only view of the physical buffer, as the panel shows it.
func (f *FrameBuffer) Image() image.Image { return frameImage{f} }

type frameImage struct{ f *FrameBuffer }

func (m frameImage) ColorModel() color.Model { return Palette }
func (m frameImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.f.width, m.f.height)
}

func (m frameImage) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= m.f.width || y >= m.f.height {
		return color.Transparent
	}
	return m.f.at(x, y).RGBA()
}

// Draw quantizes img onto f through the current rotation, one pixel at a time.
func (f *FrameBuffer) Draw(img image.Image) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			f.Set(x-b.Min.X, y-b.Min.Y, FromRGBA(img.At(x, y)))
		}
	}
}
