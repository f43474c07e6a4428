package panel

import (
	"errors"
	"fmt"
	"image"

	"github.com/BeatGlow/panel/pixel"
)

const (
	sh1106DefaultWidth    = 128
	sh1106DefaultHeight   = 64
	sh1106DefaultContrast = 0x7F

	// sh1106ColumnOffset is the offset of the 128 visible columns in the 132 column RAM.
	sh1106ColumnOffset = 2
)

// SH1106 is a monochrome OLED display driven by a Sino Wealth SH1106 controller.
//
// The controller has no horizontal addressing mode, so the frame is sent one page at a
// time after setting the page and column start.
type SH1106 struct {
	Base
	bus      Bus
	width    int
	height   int
	rotation Rotation
	offset   byte
	frame    *pixel.MonoVerticalLSBImage
}

// NewSH1106 returns an uninitialized SH1106 on bus. A zero width and height give the
// 128×64 panel. The format and background of config are ignored.
func NewSH1106(bus Bus, config *Config) (*SH1106, error) {
	var c Config
	if config != nil {
		c = *config
	}
	if c.Width == 0 && c.Height == 0 {
		c.Width, c.Height = sh1106DefaultWidth, sh1106DefaultHeight
	}

	d := &SH1106{
		bus:      bus,
		width:    c.Width,
		height:   c.Height,
		rotation: c.Rotation,
	}
	switch {
	case c.Width == 128 && c.Height == 32:
		d.offset = 0x0F
	case c.Width == 128 && c.Height == 64:
		d.offset = 0x00
	case c.Width == 128 && c.Height == 128:
		d.offset = 0x02
	default:
		return nil, fmt.Errorf("%w: SH1106 does not support %dx%d", ErrSize, c.Width, c.Height)
	}

	d.Base = NewBase((*sh1106Driver)(d))
	return d, nil
}

func (d *SH1106) String() string {
	return fmt.Sprintf("SH1106 OLED %dx%d", d.width, d.height)
}

// Bounds of the unrotated frame.
func (d *SH1106) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.width, d.height)
}

// SetContrast sets the contrast level of the display.
func (d *SH1106) SetContrast(level uint8) error {
	if !d.Initialized() {
		return ErrNotInitialized
	}
	return ssd1xxxCommand(d.bus, ssd1xxxSetContrast, level)
}

type sh1106Driver SH1106

func (d *sh1106Driver) String() string {
	return (*SH1106)(d).String()
}

func (d *sh1106Driver) Setup() (err error) {
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
		ssd1xxxSetDisplayClockDiv, 0xF0,
		ssd1xxxSetMultiplexRatio, byte(d.height-1),
		ssd1xxxSetDisplayOffset, d.offset,
		ssd1xxxSetStartLine|0x00, //nolint:staticcheck
		ssd1xxxSetChargePump, 0x14,
		ssd1xxxSetSegmentRemap,
		ssd1xxxSetComScanDec,
		ssd1xxxSetComPins, 0x12,
		ssd1xxxSetPrecharge, 0x22,
		ssd1xxxSetVCOMDeselect, 0x20,
		ssd1xxxSetDisplayAllOnResume,
		ssd1xxxSetNormalDisplay,
		ssd1xxxSetContrast, sh1106DefaultContrast,
	); err != nil {
		return
	}
	if err = d.refresh(); err != nil {
		return
	}
	return ssd1xxxCommand(d.bus, ssd1xxxSetDisplayOn)
}

func (d *sh1106Driver) Teardown() error {
	if !d.Initialized() {
		return nil
	}
	d.frame = nil
	return errors.Join(ssd1xxxCommand(d.bus, ssd1xxxSetDisplayOff), d.bus.Close())
}

func (d *sh1106Driver) Paint(x, y int, img image.Image) error {
	pixel.Paste(d.frame, img, x, y)
	return d.refresh()
}

func (d *sh1106Driver) refresh() error {
	out := ssd1xxxRotate(d.frame, d.rotation)
	for page := range (d.height + 7) / 8 {
		if err := ssd1xxxCommand(d.bus,
			ssd1xxxSetPageStart|byte(page&0x0F),
			ssd1xxxSetLowColumn|sh1106ColumnOffset,
			ssd1xxxSetHighColumn,
		); err != nil {
			return err
		}
		if err := d.bus.Data(out.Page(page)...); err != nil {
			return err
		}
	}
	return nil
}

var _ Display = (*SH1106)(nil)
