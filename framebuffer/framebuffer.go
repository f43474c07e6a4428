// Package framebuffer provides a display on the operating system's native framebuffer.
//
// This requires framebuffer device support in the operating system, currently only the
// Linux fbdev interface is supported. The device is opened and its pixel memory mapped when
// the display is initialized, and released when it is finalized.
package framebuffer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/BeatGlow/panel"
	"github.com/BeatGlow/panel/pixel"
)

// Errors
var (
	ErrNotSupported = errors.New("framebuffer: not supported")
	ErrColorModel   = errors.New("framebuffer: unsupported color model")
)

// Display is a framebuffer device, such as /dev/fb0.
type Display struct {
	panel.Base
	name string
	dev  *device
}

// New returns an uninitialized display on the framebuffer device name.
func New(name string) *Display {
	d := &Display{name: name}
	d.Base = panel.NewBase((*driver)(d))
	return d
}

func (d *Display) String() string {
	return "framebuffer " + d.name
}

// Bounds of the framebuffer, empty if the display is not initialized.
func (d *Display) Bounds() image.Rectangle {
	if d.dev == nil {
		return image.Rectangle{}
	}
	return d.dev.img.Bounds()
}

// Format of the framebuffer pixels.
func (d *Display) Format() (pixel.Format, error) {
	if d.dev == nil {
		return 0, panel.ErrNotInitialized
	}
	return d.dev.format, nil
}

type driver Display

func (d *driver) String() string {
	return (*Display)(d).String()
}

func (d *driver) Setup() (err error) {
	d.dev, err = open(d.name)
	return
}

func (d *driver) Teardown() error {
	if d.dev == nil {
		return nil
	}
	err := d.dev.close()
	d.dev = nil
	return err
}

func (d *driver) Paint(x, y int, img image.Image) error {
	pixel.Paste(d.dev.img, img, x, y)
	return nil
}

// bitField describes the position of a color component within a pixel.
type bitField struct {
	Offset   uint32 // Beginning of bitfield
	Length   uint32 // Length of bitfield
	MsbRight uint32 // != 0 : Most significant bit is right
}

// parseFormat maps the pixel layout of a framebuffer to a pixel format.
func parseFormat(bitsPerPixel uint32, red, green, blue, alpha bitField) (pixel.Format, error) {
	switch {
	case (bitsPerPixel == 15 || bitsPerPixel == 16) &&
		red.Offset == 10 && red.Length == 5 &&
		green.Offset == 5 && green.Length == 5 &&
		blue.Offset == 0 && blue.Length == 5:
		return pixel.FormatRGB555, nil

	case bitsPerPixel == 16 &&
		red.Offset == 11 && red.Length == 5 &&
		green.Offset == 5 && green.Length == 6 &&
		blue.Offset == 0 && blue.Length == 5 &&
		alpha.Length == 0:
		return pixel.FormatRGB565, nil

	case bitsPerPixel == 32 &&
		red.Offset == 0 && red.Length == 8 &&
		green.Offset == 8 && green.Length == 8 &&
		blue.Offset == 16 && blue.Length == 8:
		return pixel.FormatRGBA, nil
	}

	return 0, fmt.Errorf("%w: %d bits per pixel, red %d:%d green %d:%d blue %d:%d",
		ErrColorModel, bitsPerPixel,
		red.Offset, red.Length,
		green.Offset, green.Length,
		blue.Offset, blue.Length)
}

// newImage wraps framebuffer memory in an image of the given format.
func newImage(format pixel.Format, pix []byte, stride, w, h int) (draw.Image, error) {
	r := image.Rect(0, 0, w, h)
	switch format {
	case pixel.FormatRGB555:
		return &pixel.CRGB15Image{
			Buffer: pixel.Buffer{Rect: r, Pix: pix, Stride: stride},
			Order:  binary.NativeEndian,
		}, nil
	case pixel.FormatRGB565:
		return &pixel.CRGB16Image{
			Buffer: pixel.Buffer{Rect: r, Pix: pix, Stride: stride},
			Order:  binary.NativeEndian,
		}, nil
	case pixel.FormatRGBA:
		return &image.RGBA{Pix: pix, Stride: stride, Rect: r}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrColorModel, format)
	}
}

var _ panel.Display = (*Display)(nil)
