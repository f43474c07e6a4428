package draw

import (
	"image"
	"image/color"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var regular = sync.OnceValues(func() (*truetype.Font, error) {
	return freetype.ParseFont(goregular.TTF)
})

// Text draws s in the Go regular font of size points (at 72 DPI), with the baseline of the
// first character at pt. Text is clipped to the bounds of dst.
func Text(dst Image, pt image.Point, size float64, s string, c color.Color) error {
	f, err := regular()
	if err != nil {
		return err
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(f)
	ctx.SetFontSize(size)
	ctx.SetHinting(font.HintingFull)
	ctx.SetClip(dst.Bounds())
	ctx.SetDst(dst)
	ctx.SetSrc(image.NewUniform(c))
	_, err = ctx.DrawString(s, freetype.Pt(pt.X, pt.Y))
	return err
}

// MeasureText returns the width and height (ascent) in pixels of s drawn by [Text].
func MeasureText(size float64, s string) (image.Point, error) {
	f, err := regular()
	if err != nil {
		return image.Point{}, err
	}

	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer func() { _ = face.Close() }()

	return image.Point{
		X: font.MeasureString(face, s).Ceil(),
		Y: face.Metrics().Ascent.Ceil(),
	}, nil
}
