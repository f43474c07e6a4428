package pixel

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"reflect"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Blank allocates a w×h image in format f filled with bg. A nil bg leaves the image zeroed.
func Blank(f Format, w, h int, bg color.Color) (draw.Image, error) {
	img, err := New(f, w, h)
	if err != nil {
		return nil, err
	}
	fill(img, bg)
	return img, nil
}

func fill(img draw.Image, bg color.Color) {
	if bg == nil {
		return
	}
	if i, ok := img.(Image); ok {
		i.Fill(bg)
		return
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
}

// Copy returns an independent copy of img. Images of a known [Format] keep their concrete
// type, anything else is copied into an [image.RGBA].
func Copy(img image.Image) draw.Image {
	switch src := img.(type) {
	case *MonoImage:
		return &MonoImage{Buffer: src.clone()}
	case *MonoVerticalLSBImage:
		return &MonoVerticalLSBImage{Buffer: src.clone()}
	case *Gray4Image:
		return &Gray4Image{Buffer: src.clone()}
	case *CRGB15Image:
		return &CRGB15Image{Buffer: src.clone(), Order: src.Order}
	case *CRGB16Image:
		return &CRGB16Image{Buffer: src.clone(), Order: src.Order}
	}

	var (
		r   = img.Bounds()
		dst draw.Image
	)
	switch img.(type) {
	case *image.Gray:
		dst = image.NewGray(r)
	case *image.NRGBA:
		dst = image.NewNRGBA(r)
	default:
		dst = image.NewRGBA(r)
	}
	draw.Draw(dst, r, img, r.Min, draw.Src)
	return dst
}

// like allocates an image with the bounds and format of img, filled with bg.
func like(img image.Image, bg color.Color) draw.Image {
	var dst draw.Image
	switch src := img.(type) {
	case *image.Gray:
		dst = image.NewGray(src.Rect)
	case *MonoImage:
		dst = &MonoImage{Buffer: makeLike(&src.Buffer)}
	case *MonoVerticalLSBImage:
		dst = &MonoVerticalLSBImage{Buffer: makeLike(&src.Buffer)}
	case *Gray4Image:
		dst = &Gray4Image{Buffer: makeLike(&src.Buffer)}
	case *CRGB15Image:
		dst = &CRGB15Image{Buffer: makeLike(&src.Buffer), Order: src.Order}
	case *CRGB16Image:
		dst = &CRGB16Image{Buffer: makeLike(&src.Buffer), Order: src.Order}
	default:
		dst = image.NewRGBA(img.Bounds())
	}
	fill(dst, bg)
	return dst
}

func makeLike(p *Buffer) Buffer {
	return Buffer{
		Rect:   p.Rect,
		Pix:    make([]byte, len(p.Pix)),
		Stride: p.Stride,
	}
}

// Paste replaces the pixels of dst with src, the top left corner of src placed at (x, y)
// relative to the origin of dst. Anything outside of dst is discarded; a src that falls
// entirely outside of dst leaves dst untouched.
func Paste(dst draw.Image, src image.Image, x, y int) {
	var (
		sb = src.Bounds()
		pt = dst.Bounds().Min.Add(image.Pt(x, y))
		r  = image.Rectangle{Min: pt, Max: pt.Add(sb.Size())}
	)
	if !r.Overlaps(dst.Bounds()) {
		return
	}
	draw.Draw(dst, r, src, sb.Min, draw.Src)
}

// Rotate returns a copy of img rotated around its center by degrees. Positive angles rotate
// counter clockwise as seen by the viewer, negative angles clockwise. The result has the
// same size and format as img; pixels not covered by the rotated source are set to bg.
func Rotate(img image.Image, degrees float64, bg color.Color) draw.Image {
	deg := math.Mod(degrees, 360)
	if deg < 0 {
		deg += 360
	}
	if deg == 0 {
		return Copy(img)
	}

	var (
		sin, cos = sincos(deg)
		r        = img.Bounds()
		cx       = float64(r.Min.X) + float64(r.Dx())/2
		cy       = float64(r.Min.Y) + float64(r.Dy())/2
		dst      = like(img, bg)
	)

	// Maps source to destination coordinates. The y axis points down, so a visually
	// counter clockwise rotation has the sine terms mirrored.
	s2d := f64.Aff3{
		cos, sin, cx - cos*cx - sin*cy,
		-sin, cos, cy + sin*cx - cos*cy,
	}
	xdraw.NearestNeighbor.Transform(dst, s2d, img, r, xdraw.Src, nil)
	return dst
}

// sincos returns exact values for the quarter turns, so those rotations map pixels one to one.
func sincos(deg float64) (sin, cos float64) {
	switch deg {
	case 90:
		return 1, 0
	case 180:
		return 0, -1
	case 270:
		return -1, 0
	default:
		return math.Sincos(deg * math.Pi / 180)
	}
}

// Valid reports whether img can be used as a raster: it must not be nil (including typed
// nil pointers) and must be backed by enough pixel memory for its bounds. Empty images are
// valid.
func Valid(img image.Image) bool {
	if img == nil {
		return false
	}
	if v := reflect.ValueOf(img); v.Kind() == reflect.Ptr && v.IsNil() {
		return false
	}

	switch p := img.(type) {
	case *image.RGBA:
		return backed(p.Rect, len(p.Pix), p.Stride, 4)
	case *image.NRGBA:
		return backed(p.Rect, len(p.Pix), p.Stride, 4)
	case *image.RGBA64:
		return backed(p.Rect, len(p.Pix), p.Stride, 8)
	case *image.NRGBA64:
		return backed(p.Rect, len(p.Pix), p.Stride, 8)
	case *image.Gray:
		return backed(p.Rect, len(p.Pix), p.Stride, 1)
	case *image.Gray16:
		return backed(p.Rect, len(p.Pix), p.Stride, 2)
	case *image.Alpha:
		return backed(p.Rect, len(p.Pix), p.Stride, 1)
	case *image.Paletted:
		return backed(p.Rect, len(p.Pix), p.Stride, 1)
	case *MonoImage:
		return p.Rect.Empty() || len(p.Pix) >= p.Stride*p.Rect.Dy()
	case *MonoVerticalLSBImage:
		return p.Rect.Empty() || len(p.Pix) >= p.Stride*((p.Rect.Dy()+7)/8)
	case *Gray4Image:
		return p.Rect.Empty() || len(p.Pix) >= p.Stride*p.Rect.Dy()
	case *CRGB15Image:
		return p.Order != nil && backed(p.Rect, len(p.Pix), p.Stride, 2)
	case *CRGB16Image:
		return p.Order != nil && backed(p.Rect, len(p.Pix), p.Stride, 2)
	}
	return true
}

func backed(r image.Rectangle, n, stride, bpp int) bool {
	if r.Empty() {
		return true
	}
	row := r.Dx() * bpp
	return stride >= row && n >= stride*(r.Dy()-1)+row
}

// Equal reports whether a and b have the same size and the same colors at every pixel.
func Equal(a, b image.Image) bool {
	ra, rb := a.Bounds(), b.Bounds()
	if !ra.Size().Eq(rb.Size()) {
		return false
	}
	for y := 0; y < ra.Dy(); y++ {
		for x := 0; x < ra.Dx(); x++ {
			r0, g0, b0, a0 := a.At(ra.Min.X+x, ra.Min.Y+y).RGBA()
			r1, g1, b1, a1 := b.At(rb.Min.X+x, rb.Min.Y+y).RGBA()
			if r0 != r1 || g0 != g1 || b0 != b1 || a0 != a1 {
				return false
			}
		}
	}
	return true
}
