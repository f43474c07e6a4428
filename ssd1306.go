package panel

import (
	"errors"
	"fmt"
	"image"

	"github.com/BeatGlow/panel/pixel"
)

const (
	ssd1306DefaultWidth    = 128
	ssd1306DefaultHeight   = 64
	ssd1306DefaultContrast = 0xCF
)

// SSD1306 is a monochrome OLED display driven by a SSD1306 controller.
//
// Images are composited into a frame in the native page layout of the controller and
// the whole frame is sent after every draw, with the configured rotation applied.
type SSD1306 struct {
	Base
	bus      Bus
	width    int
	height   int
	rotation Rotation
	clockDiv byte
	comPins  byte
	colStart byte
	frame    *pixel.MonoVerticalLSBImage
}

// NewSSD1306 returns an uninitialized SSD1306 on bus. A zero width and height give the
// 128×64 panel. The format and background of config are ignored.
func NewSSD1306(bus Bus, config *Config) (*SSD1306, error) {
	var c Config
	if config != nil {
		c = *config
	}
	if c.Width == 0 && c.Height == 0 {
		c.Width, c.Height = ssd1306DefaultWidth, ssd1306DefaultHeight
	}

	d := &SSD1306{
		bus:      bus,
		width:    c.Width,
		height:   c.Height,
		rotation: c.Rotation,
	}
	switch {
	case c.Width == 64 && c.Height == 32:
		d.clockDiv, d.comPins, d.colStart = 0x80, 0x12, 32
	case c.Width == 64 && c.Height == 48:
		d.clockDiv, d.comPins, d.colStart = 0x80, 0x12, 32
	case c.Width == 96 && c.Height == 16:
		d.clockDiv, d.comPins, d.colStart = 0x60, 0x02, 0
	case c.Width == 128 && c.Height == 32:
		d.clockDiv, d.comPins, d.colStart = 0x80, 0x02, 0
	case c.Width == 128 && c.Height == 64:
		d.clockDiv, d.comPins, d.colStart = 0x80, 0x12, 0
	default:
		return nil, fmt.Errorf("%w: SSD1306 does not support %dx%d", ErrSize, c.Width, c.Height)
	}

	d.Base = NewBase((*ssd1306Driver)(d))
	return d, nil
}

func (d *SSD1306) String() string {
	return fmt.Sprintf("SSD1306 OLED %dx%d", d.width, d.height)
}

// Bounds of the unrotated frame.
func (d *SSD1306) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.width, d.height)
}

// SetContrast sets the contrast level of the display.
func (d *SSD1306) SetContrast(level uint8) error {
	if !d.Initialized() {
		return ErrNotInitialized
	}
	return ssd1xxxCommand(d.bus, ssd1xxxSetContrast, level)
}

// Show switches the display on or off, the display memory is retained.
func (d *SSD1306) Show(show bool) error {
	if !d.Initialized() {
		return ErrNotInitialized
	}
	return (*ssd1306Driver)(d).show(show)
}

type ssd1306Driver SSD1306

func (d *ssd1306Driver) String() string {
	return (*SSD1306)(d).String()
}

func (d *ssd1306Driver) Setup() (err error) {
	if err = d.bus.Open(); err != nil {
		return
	}
	defer func() {
		if err != nil {
			_ = d.bus.Close()
			d.frame = nil
		}
	}()

	d.frame = pixel.NewMonoVerticalLSBImage(d.width, d.height)
	if err = ssd1xxxCommand(d.bus,
		ssd1xxxSetDisplayOff,
		ssd1xxxSetDisplayClockDiv, d.clockDiv,
		ssd1xxxSetMultiplexRatio, byte(d.height-1),
		ssd1xxxSetDisplayOffset, 0x00,
		ssd1xxxSetStartLine|0x00, //nolint:staticcheck
		ssd1xxxSetChargePump, 0x14,
		ssd1xxxSetMemoryMode, 0x00,
		ssd1xxxSetSegmentRemap,
		ssd1xxxSetComScanDec,
		ssd1xxxSetComPins, d.comPins,
		ssd1xxxSetPrecharge, 0xF1,
		ssd1xxxSetVCOMDeselect, 0x40,
		ssd1xxxSetDisplayAllOnResume,
		ssd1xxxSetNormalDisplay,
		ssd1xxxSetContrast, ssd1306DefaultContrast,
	); err != nil {
		return
	}
	if err = d.refresh(); err != nil {
		return
	}
	return d.show(true)
}

func (d *ssd1306Driver) Teardown() error {
	if !d.Initialized() {
		return nil
	}
	d.frame = nil
	return errors.Join(d.show(false), d.bus.Close())
}

func (d *ssd1306Driver) Paint(x, y int, img image.Image) error {
	pixel.Paste(d.frame, img, x, y)
	return d.refresh()
}

func (d *ssd1306Driver) show(show bool) error {
	if show {
		return ssd1xxxCommand(d.bus, ssd1xxxSetDisplayOn)
	}
	return ssd1xxxCommand(d.bus, ssd1xxxSetDisplayOff)
}

// refresh sends the frame page by page.
func (d *ssd1306Driver) refresh() error {
	var (
		out      = ssd1xxxRotate(d.frame, d.rotation)
		pages    = (d.height + 7) / 8
		colStart = d.colStart
		colEnd   = d.colStart + byte(d.width) - 1
	)
	for page := range pages {
		if err := ssd1xxxCommand(d.bus,
			ssd1xxxSetColumnAddr, colStart, colEnd,
			ssd1xxxSetPageAddr, byte(page), byte(pages-1),
		); err != nil {
			return err
		}
		if err := d.bus.Data(out.Page(page)...); err != nil {
			return err
		}
	}
	return nil
}

var _ Display = (*SSD1306)(nil)
