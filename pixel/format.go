package pixel

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strings"
)

// ErrFormat is returned for unknown pixel formats.
var ErrFormat = errors.New("pixel: unknown format")

// Format identifies the memory layout of an image.
type Format uint8

// Supported formats.
const (
	FormatRGBA         Format = iota // 32-bit RGBA, [image.RGBA]
	FormatGray                       // 8-bit gray, [image.Gray]
	FormatMono                       // 1-bit, horizontal bytes
	FormatMonoVertical               // 1-bit, vertical bytes (SSD1xxx pages)
	FormatGray4                      // 4-bit gray
	FormatRGB555                     // 15-bit 5-5-5 RGB
	FormatRGB565                     // 16-bit 5-6-5 RGB
)

var formatNames = map[Format]string{
	FormatRGBA:         "rgba",
	FormatGray:         "gray",
	FormatMono:         "mono",
	FormatMonoVertical: "mono-vertical",
	FormatGray4:        "gray4",
	FormatRGB555:       "rgb555",
	FormatRGB565:       "rgb565",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// ParseFormat parses a format name as returned by [Format.String]. The empty string is RGBA.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return FormatRGBA, nil
	}
	for f, s := range formatNames {
		if s == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrFormat, name)
}

// New allocates a zeroed image of w×h pixels in the requested format.
func New(f Format, w, h int) (draw.Image, error) {
	r := image.Rect(0, 0, w, h)
	switch f {
	case FormatRGBA:
		return image.NewRGBA(r), nil
	case FormatGray:
		return image.NewGray(r), nil
	case FormatMono:
		return NewMonoImage(w, h), nil
	case FormatMonoVertical:
		return NewMonoVerticalLSBImage(w, h), nil
	case FormatGray4:
		return NewGray4Image(w, h), nil
	case FormatRGB555:
		return NewCRGB15Image(w, h), nil
	case FormatRGB565:
		return NewCRGB16Image(w, h), nil
	default:
		return nil, fmt.Errorf("%w %s", ErrFormat, f)
	}
}

// FormatOf returns the format of an image allocated by this package.
func FormatOf(img image.Image) (Format, bool) {
	switch img.(type) {
	case *image.RGBA:
		return FormatRGBA, true
	case *image.Gray:
		return FormatGray, true
	case *MonoImage:
		return FormatMono, true
	case *MonoVerticalLSBImage:
		return FormatMonoVertical, true
	case *Gray4Image:
		return FormatGray4, true
	case *CRGB15Image:
		return FormatRGB555, true
	case *CRGB16Image:
		return FormatRGB565, true
	default:
		return 0, false
	}
}
