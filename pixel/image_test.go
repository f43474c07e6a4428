package pixel

import (
	"image"
	"image/color"
	"testing"
)

var testFormats = []Format{
	FormatRGBA,
	FormatGray,
	FormatMono,
	FormatMonoVertical,
	FormatGray4,
	FormatRGB555,
	FormatRGB565,
}

// testLit reports whether c is closer to white than to black.
func testLit(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return (r+g+b)/3 > 0x8000
}

func testAllLit(t *testing.T, img image.Image, want bool) {
	t.Helper()
	r := img.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if testLit(img.At(x, y)) != want {
				t.Fatalf("pixel (%d,%d) is %#+v, expected lit %t", x, y, img.At(x, y), want)
			}
		}
	}
}

func TestFormatImages(t *testing.T) {
	for _, format := range testFormats {
		t.Run(format.String(), func(t *testing.T) {
			for _, size := range []image.Point{{2, 2}, {3, 9}, {16, 8}} {
				t.Run(size.String(), func(t *testing.T) {
					img, err := Blank(format, size.X, size.Y, color.White)
					if err != nil {
						t.Fatal(err)
					}
					if f, ok := FormatOf(img); !ok || f != format {
						t.Fatalf("expected format %s, got %s", format, f)
					}
					if v := img.Bounds().Size(); !v.Eq(size) {
						t.Fatalf("expected size %s, got %s", size, v)
					}
					if !Valid(img) {
						t.Fatalf("expected %T to be valid", img)
					}
					testAllLit(t, img, true)

					// Out of bounds writes are dropped.
					img.Set(-1, 0, color.Black)
					img.Set(size.X, size.Y, color.Black)
					testAllLit(t, img, true)

					img.Set(size.X-1, 0, color.Black)
					c := Copy(img)
					if f, _ := FormatOf(c); f != format {
						t.Errorf("expected copy in format %s, got %s", format, f)
					}
					if !Equal(c, img) {
						t.Error("expected the copy to equal the image")
					}
					c.Set(0, size.Y-1, color.Black)
					if !testLit(img.At(0, size.Y-1)) {
						t.Error("expected changes to the copy to not affect the image")
					}

					if i, ok := img.(Image); ok {
						i.Clear()
						testAllLit(t, i, false)
						i.Fill(color.White)
						testAllLit(t, i, true)
					}
				})
			}
		})
	}
}

func TestFormatRotate(t *testing.T) {
	const n = 6
	for _, format := range testFormats {
		t.Run(format.String(), func(t *testing.T) {
			img, err := Blank(format, n, n, color.White)
			if err != nil {
				t.Fatal(err)
			}
			// Dark top right corner.
			img.Set(n-1, 0, color.Black)

			for _, test := range []struct {
				Degrees float64
				Dark    image.Point
			}{
				{90, image.Pt(0, 0)},
				{-90, image.Pt(n-1, n-1)},
				{180, image.Pt(0, n-1)},
				{360, image.Pt(n-1, 0)},
			} {
				out := Rotate(img, test.Degrees, color.White)
				if f, _ := FormatOf(out); f != format {
					t.Fatalf("%g: expected format %s, got %s", test.Degrees, format, f)
				}
				r := out.Bounds()
				for y := r.Min.Y; y < r.Max.Y; y++ {
					for x := r.Min.X; x < r.Max.X; x++ {
						if dark := image.Pt(x, y) == test.Dark; testLit(out.At(x, y)) == dark {
							t.Errorf("%g: pixel (%d,%d) is %#+v, expected dark %t", test.Degrees, x, y, out.At(x, y), dark)
						}
					}
				}
			}
			if !testLit(img.At(0, 0)) {
				t.Error("expected rotate to leave the source untouched")
			}
		})
	}
}

func TestMonoVerticalLSBImagePage(t *testing.T) {
	i := NewMonoVerticalLSBImage(4, 16)
	i.Set(1, 0, On)
	i.Set(1, 7, On)
	i.Set(2, 8, On)

	if v := i.Page(0); len(v) != 4 || v[1] != 0x81 {
		t.Errorf("expected page 0 column 1 to be 0x81, got %#v", v)
	}
	if v := i.Page(1); len(v) != 4 || v[2] != 0x01 {
		t.Errorf("expected page 1 column 2 to be 0x01, got %#v", v)
	}
	if v := i.Page(2); v != nil {
		t.Errorf("expected no page 2, got %#v", v)
	}
}
