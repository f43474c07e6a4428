package panel

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/BeatGlow/panel/pixel"
)

var (
	testRed   = color.RGBA{R: 0xff, A: 0xff}
	testGreen = color.RGBA{G: 0xff, A: 0xff}
)

func testSolid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func testImageDisplay(t *testing.T, config *Config) *ImageDisplay {
	t.Helper()
	d, err := NewImageDisplay(config)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func testFrame(t *testing.T, d *ImageDisplay) draw.Image {
	t.Helper()
	img, err := d.Image()
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestNewImageDisplay(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		d := testImageDisplay(t, nil)
		if !d.Bounds().Empty() {
			t.Errorf("expected empty bounds, got %s", d.Bounds())
		}
		if d.Format() != pixel.FormatRGBA {
			t.Errorf("expected format rgba, got %s", d.Format())
		}
		if d.Rotation() != NoRotation {
			t.Errorf("expected no rotation, got %s", d.Rotation())
		}
	})

	t.Run("negative size", func(t *testing.T) {
		if _, err := NewImageDisplay(&Config{Width: -1, Height: 10}); !errors.Is(err, ErrSize) {
			t.Errorf("expected ErrSize, got %v", err)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if _, err := NewImageDisplay(&Config{Width: 1, Height: 1, Format: pixel.Format(0xff)}); !errors.Is(err, pixel.ErrFormat) {
			t.Errorf("expected ErrFormat, got %v", err)
		}
	})

	t.Run("uninitialized", func(t *testing.T) {
		d := testImageDisplay(t, &Config{Width: 10, Height: 10})
		if d.Initialized() {
			t.Error("expected new display to be uninitialized")
		}
		if _, err := d.Image(); !errors.Is(err, ErrNotInitialized) {
			t.Errorf("expected ErrNotInitialized, got %v", err)
		}
	})
}

func TestImageDisplayDraw(t *testing.T) {
	d := testImageDisplay(t, &Config{Width: 10, Height: 10})
	if err := d.Initialize(); err != nil {
		t.Fatal(err)
	}
	blank := testFrame(t, d)
	if !pixel.Equal(blank, testSolid(10, 10, color.Black)) {
		t.Fatal("expected a black frame after initialize")
	}

	red := testSolid(10, 10, testRed)
	if err := d.Draw(20, 20, red); err != nil {
		t.Fatal(err)
	}
	if !pixel.Equal(testFrame(t, d), blank) {
		t.Error("expected drawing outside of the display to leave the frame unchanged")
	}

	if err := d.Draw(0, 0, red); err != nil {
		t.Fatal(err)
	}
	if !pixel.Equal(testFrame(t, d), red) {
		t.Error("expected the frame to be red")
	}

	if err := d.Restart(); err != nil {
		t.Fatal(err)
	}
	if !pixel.Equal(testFrame(t, d), blank) {
		t.Error("expected restart to give a blank frame")
	}
}

func TestImageDisplayDrawInside(t *testing.T) {
	const w, h = 16, 12
	for _, pt := range []image.Point{{0, 0}, {3, 2}, {12, 8}} {
		d := testImageDisplay(t, &Config{Width: w, Height: h, Background: color.White})
		src := testSolid(4, 4, testGreen)
		if err := d.Draw(pt.X, pt.Y, src); err != nil {
			t.Fatal(err)
		}

		want := testSolid(w, h, color.White)
		pixel.Paste(want, src, pt.X, pt.Y)
		if !pixel.Equal(testFrame(t, d), want) {
			t.Errorf("expected blank frame with image pasted at %s", pt)
		}
	}
}

func TestImageDisplayDrawInvalid(t *testing.T) {
	d := testImageDisplay(t, &Config{Width: 4, Height: 4})
	if err := d.Draw(0, 0, nil); !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage, got %v", err)
	}
	if d.Initialized() {
		t.Error("expected invalid image to leave the display uninitialized")
	}
}

func TestImageDisplayFinalize(t *testing.T) {
	d := testImageDisplay(t, &Config{Width: 4, Height: 4})
	if err := d.Finalize(); err != nil {
		t.Fatalf("expected finalize of an uninitialized display to succeed, got %v", err)
	}
	if err := d.Initialize(); err != nil {
		t.Fatal(err)
	}
	if err := d.Finalize(); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Image(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected the frame to be released, got %v", err)
	}
}

func TestImageDisplayImageCopy(t *testing.T) {
	for _, rotation := range []Rotation{NoRotation, Clockwise} {
		d := testImageDisplay(t, &Config{Width: 8, Height: 8, Rotation: rotation})
		if err := d.Initialize(); err != nil {
			t.Fatal(err)
		}
		img := testFrame(t, d)
		img.Set(0, 0, testRed)
		draw.Draw(img, img.Bounds(), image.NewUniform(testGreen), image.Point{}, draw.Src)

		if !pixel.Equal(testFrame(t, d), testSolid(8, 8, color.Black)) {
			t.Errorf("rotation %s: expected changes to the returned image to not affect the frame", rotation)
		}
	}
}

func TestImageDisplayRotation(t *testing.T) {
	// Two tone image, the left half red and the right half green.
	twoTone := image.NewRGBA(image.Rect(0, 0, 10, 20))
	draw.Draw(twoTone, image.Rect(0, 0, 5, 20), image.NewUniform(testRed), image.Point{}, draw.Src)
	draw.Draw(twoTone, image.Rect(5, 0, 10, 20), image.NewUniform(testGreen), image.Point{}, draw.Src)

	for _, rotation := range []Rotation{Clockwise, CounterClockwise, UpsideDown, 45, -270} {
		t.Run(rotation.String(), func(t *testing.T) {
			var (
				rotated   = testImageDisplay(t, &Config{Width: 20, Height: 20, Rotation: rotation})
				unrotated = testImageDisplay(t, &Config{Width: 20, Height: 20})
			)
			for _, d := range []*ImageDisplay{rotated, unrotated} {
				if err := d.Draw(0, 0, twoTone); err != nil {
					t.Fatal(err)
				}
			}

			want := pixel.Rotate(testFrame(t, unrotated), float64(rotation), color.Black)
			if !pixel.Equal(testFrame(t, rotated), want) {
				t.Error("expected the frame to be the unrotated frame, rotated")
			}
		})
	}

	// Where the red half, the green half and the uncovered background end up.
	black := color.RGBAModel.Convert(color.Black)
	for _, test := range []struct {
		Rotation              Rotation
		Red, Green, Uncovered image.Point
	}{
		// Rotating clockwise moves the left half to the top.
		{Clockwise, image.Pt(10, 0), image.Pt(10, 9), image.Pt(10, 19)},
		// Rotating counter clockwise moves the left half to the bottom.
		{CounterClockwise, image.Pt(10, 19), image.Pt(10, 10), image.Pt(10, 0)},
		// Upside down moves the left half to the right.
		{UpsideDown, image.Pt(19, 10), image.Pt(12, 10), image.Pt(0, 10)},
	} {
		t.Run("pixels "+test.Rotation.String(), func(t *testing.T) {
			d := testImageDisplay(t, &Config{Width: 20, Height: 20, Rotation: test.Rotation})
			if err := d.Draw(0, 0, twoTone); err != nil {
				t.Fatal(err)
			}

			img := testFrame(t, d)
			for pt, want := range map[image.Point]color.Color{
				test.Red:       testRed,
				test.Green:     testGreen,
				test.Uncovered: black,
			} {
				if c := color.RGBAModel.Convert(img.At(pt.X, pt.Y)); c != want {
					t.Errorf("expected %v at %s, got %v", want, pt, c)
				}
			}
		})
	}
}

func TestImageDisplayFormat(t *testing.T) {
	for _, format := range []pixel.Format{
		pixel.FormatRGBA,
		pixel.FormatGray,
		pixel.FormatMono,
		pixel.FormatMonoVertical,
		pixel.FormatGray4,
		pixel.FormatRGB555,
		pixel.FormatRGB565,
	} {
		t.Run(format.String(), func(t *testing.T) {
			d := testImageDisplay(t, &Config{Width: 8, Height: 8, Format: format, Background: color.White})
			if err := d.Draw(2, 2, testSolid(2, 2, color.Black)); err != nil {
				t.Fatal(err)
			}
			img := testFrame(t, d)
			if f, ok := pixel.FormatOf(img); !ok || f != format {
				t.Errorf("expected format %s, got %s", format, f)
			}
			if r, _, _, _ := img.At(0, 0).RGBA(); r != 0xffff {
				t.Errorf("expected white background, got %v", img.At(0, 0))
			}
			if r, _, _, _ := img.At(2, 2).RGBA(); r != 0 {
				t.Errorf("expected black pixel, got %v", img.At(2, 2))
			}
		})
	}
}

func TestParseRotation(t *testing.T) {
	tests := []struct {
		Test string
		Want Rotation
	}{
		{"", NoRotation},
		{"none", NoRotation},
		{"cw", Clockwise},
		{"Right", Clockwise},
		{"ccw", CounterClockwise},
		{"left", CounterClockwise},
		{"flip", UpsideDown},
		{"-90", Clockwise},
		{"90°", CounterClockwise},
		{"12.5", 12.5},
	}
	for _, test := range tests {
		t.Run(test.Test, func(t *testing.T) {
			v, err := ParseRotation(test.Test)
			if err != nil {
				t.Fatal(err)
			}
			if v != test.Want {
				t.Errorf("expected %s, got %s", test.Want, v)
			}
		})
	}

	if _, err := ParseRotation("sideways"); err == nil {
		t.Error("expected an error for an invalid rotation")
	}
}
