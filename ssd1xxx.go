package panel

import "github.com/BeatGlow/panel/pixel"

// SSD1xxx OLED controller commands.
const (
	ssd1xxxSetLowColumn          = 0x00
	ssd1xxxSetHighColumn         = 0x10
	ssd1xxxSetMemoryMode         = 0x20
	ssd1xxxSetColumnAddr         = 0x21
	ssd1xxxSetPageAddr           = 0x22
	ssd1xxxSetStartLine          = 0x40
	ssd1xxxSetContrast           = 0x81
	ssd1xxxSetChargePump         = 0x8D
	ssd1xxxSetSegmentRemap       = 0xA1
	ssd1xxxSetDisplayAllOnResume = 0xA4
	ssd1xxxSetNormalDisplay      = 0xA6
	ssd1xxxSetMultiplexRatio     = 0xA8
	ssd1xxxSetDisplayOff         = 0xAE
	ssd1xxxSetDisplayOn          = 0xAF
	ssd1xxxSetPageStart          = 0xB0
	ssd1xxxSetComScanDec         = 0xC8
	ssd1xxxSetDisplayOffset      = 0xD3
	ssd1xxxSetDisplayClockDiv    = 0xD5
	ssd1xxxSetPrecharge          = 0xD9
	ssd1xxxSetComPins            = 0xDA
	ssd1xxxSetVCOMDeselect       = 0xDB
)

// ssd1xxxCommand sends a command sequence. The controllers expect command arguments in
// command mode, so every byte goes out as a command of its own.
func ssd1xxxCommand(bus Bus, cmnds ...byte) error {
	for _, cmnd := range cmnds {
		if err := bus.Command(cmnd); err != nil {
			return err
		}
	}
	return nil
}

// ssd1xxxRotate returns frame with rotation applied, lit pixels that rotate out of the frame
// are dropped.
func ssd1xxxRotate(frame *pixel.MonoVerticalLSBImage, rotation Rotation) *pixel.MonoVerticalLSBImage {
	if rotation == NoRotation {
		return frame
	}
	return pixel.Rotate(frame, float64(rotation), pixel.Off).(*pixel.MonoVerticalLSBImage)
}
