package draw

import (
	"image"
	"image/color"
)

// Pattern returns the test pattern: a diagonal color gradient shifted by offset pixels,
// a white border, crossing diagonals and label centered on a black box. The label is left
// out when it does not fit.
func Pattern(size image.Point, label string, offset int) *image.RGBA {
	var (
		img  = image.NewRGBA(image.Rectangle{Max: size})
		w, h = size.X, size.Y
	)
	if w <= 0 || h <= 0 {
		return img
	}

	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, gradient(x+y+offset, w+h))
		}
	}

	Line(img, image.Pt(0, 0), image.Pt(w-1, h-1), color.White)
	Line(img, image.Pt(w-1, 0), image.Pt(0, h-1), color.White)
	Border(img, 1, color.White)

	if label == "" {
		return img
	}
	textSize := float64(h) / 4
	if textSize < 8 {
		textSize = 8
	}
	m, err := MeasureText(textSize, label)
	if err != nil || m.X+4 > w-2 || m.Y+4 > h-2 {
		return img
	}
	var (
		x = (w - m.X) / 2
		y = (h + m.Y) / 2
	)
	Box(img, image.Rect(x-2, y-m.Y-2, x+m.X+2, y+2), color.Black)
	_ = Text(img, image.Pt(x, y), textSize, label, color.White)
	return img
}

// gradient returns a color on a red, green, blue wheel of n steps.
func gradient(i, n int) color.RGBA {
	if n <= 0 {
		return color.RGBA{A: 0xff}
	}
	i %= n
	if i < 0 {
		i += n
	}

	var (
		third = float64(n) / 3
		pos   = float64(i)
		ramp  = func(v float64) uint8 { return uint8(v / third * 0xff) }
	)
	switch {
	case pos < third:
		return color.RGBA{R: 0xff - ramp(pos), G: ramp(pos), A: 0xff}
	case pos < 2*third:
		pos -= third
		return color.RGBA{G: 0xff - ramp(pos), B: ramp(pos), A: 0xff}
	default:
		pos -= 2 * third
		return color.RGBA{R: ramp(pos), B: 0xff - ramp(pos), A: 0xff}
	}
}
