package panel

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/BeatGlow/panel/pixel"
)

// ImageDisplay is a virtual display compositing everything drawn into an in-memory frame.
//
// The rotation is applied when the frame is read with [ImageDisplay.Image]; drawing always
// happens in unrotated coordinates.
type ImageDisplay struct {
	Base
	width      int
	height     int
	rotation   Rotation
	format     pixel.Format
	background color.Color
	frame      draw.Image
}

// NewImageDisplay returns an uninitialized ImageDisplay. A nil config gives an empty RGBA display.
func NewImageDisplay(config *Config) (*ImageDisplay, error) {
	if config == nil {
		config = new(Config)
	}
	if config.Width < 0 || config.Height < 0 {
		return nil, fmt.Errorf("%w %dx%d", ErrSize, config.Width, config.Height)
	}
	if _, err := pixel.New(config.Format, 0, 0); err != nil {
		return nil, err
	}

	d := &ImageDisplay{
		width:      config.Width,
		height:     config.Height,
		rotation:   config.Rotation,
		format:     config.Format,
		background: config.background(),
	}
	d.Base = NewBase((*imageDriver)(d))
	return d, nil
}

func (d *ImageDisplay) String() string {
	return fmt.Sprintf("image display %dx%d %s", d.width, d.height, d.format)
}

// Bounds of the unrotated frame.
func (d *ImageDisplay) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.width, d.height)
}

// Rotation applied to the frame when it is read.
func (d *ImageDisplay) Rotation() Rotation {
	return d.rotation
}

// Format of the frame.
func (d *ImageDisplay) Format() pixel.Format {
	return d.format
}

// Image returns a copy of the frame with the rotation applied.
func (d *ImageDisplay) Image() (draw.Image, error) {
	if d.frame == nil {
		return nil, ErrNotInitialized
	}
	return pixel.Rotate(d.frame, float64(d.rotation), d.background), nil
}

type imageDriver ImageDisplay

func (d *imageDriver) String() string {
	return (*ImageDisplay)(d).String()
}

func (d *imageDriver) Setup() (err error) {
	d.frame, err = pixel.Blank(d.format, d.width, d.height, d.background)
	return
}

func (d *imageDriver) Teardown() error {
	d.frame = nil
	return nil
}

func (d *imageDriver) Paint(x, y int, img image.Image) error {
	pixel.Paste(d.frame, img, x, y)
	return nil
}

var _ Display = (*ImageDisplay)(nil)
