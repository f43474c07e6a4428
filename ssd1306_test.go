package panel

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
)

type testBus struct {
	open     bool
	opens    int
	closes   int
	commands []byte
	data     [][]byte
}

func (b *testBus) Open() error {
	if b.open {
		return ErrTransportOpen
	}
	b.open = true
	b.opens++
	return nil
}

func (b *testBus) Close() error {
	if b.open {
		b.closes++
	}
	b.open = false
	return nil
}

func (b *testBus) Command(cmnd byte, args ...byte) error {
	if !b.open {
		return ErrTransportClosed
	}
	b.commands = append(b.commands, cmnd)
	b.commands = append(b.commands, args...)
	return nil
}

func (b *testBus) Data(data ...byte) error {
	if !b.open {
		return ErrTransportClosed
	}
	b.data = append(b.data, bytes.Clone(data))
	return nil
}

func (b *testBus) reset() {
	b.commands, b.data = nil, nil
}

func TestNewSSD1306(t *testing.T) {
	for _, test := range []struct {
		Width, Height int
		Valid         bool
	}{
		{0, 0, true},
		{64, 32, true},
		{64, 48, true},
		{96, 16, true},
		{128, 32, true},
		{128, 64, true},
		{128, 128, false},
		{32, 0, false},
	} {
		config := &Config{Width: test.Width, Height: test.Height}
		d, err := NewSSD1306(new(testBus), config)
		if !test.Valid {
			if !errors.Is(err, ErrSize) {
				t.Errorf("%dx%d: expected ErrSize, got %v", test.Width, test.Height, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%dx%d: %v", test.Width, test.Height, err)
			continue
		}
		if d.Initialized() {
			t.Errorf("%dx%d: expected new display to be uninitialized", test.Width, test.Height)
		}
		if config.Width != test.Width || config.Height != test.Height {
			t.Errorf("expected config to be left untouched, got %+v", config)
		}
	}

	d, err := NewSSD1306(new(testBus), nil)
	if err != nil {
		t.Fatal(err)
	}
	if v := d.String(); v != "SSD1306 OLED 128x64" {
		t.Errorf("unexpected name %q", v)
	}
}

func TestSSD1306Initialize(t *testing.T) {
	bus := new(testBus)
	d, err := NewSSD1306(bus, &Config{Width: 128, Height: 32})
	if err != nil {
		t.Fatal(err)
	}
	if err = d.Initialize(); err != nil {
		t.Fatal(err)
	}

	init := []byte{
		0xAE,
		0xD5, 0x80,
		0xA8, 31,
		0xD3, 0x00,
		0x40,
		0x8D, 0x14,
		0x20, 0x00,
		0xA1,
		0xC8,
		0xDA, 0x02,
		0xD9, 0xF1,
		0xDB, 0x40,
		0xA4,
		0xA6,
		0x81, 0xCF,
	}
	if !bytes.HasPrefix(bus.commands, init) {
		t.Errorf("expected init sequence %#v, got %#v", init, bus.commands)
	}
	if last := bus.commands[len(bus.commands)-1]; last != 0xAF {
		t.Errorf("expected display on as last command, got %#02x", last)
	}
	if len(bus.data) != 4 {
		t.Fatalf("expected 4 pages to be sent, got %d", len(bus.data))
	}
	for i, page := range bus.data {
		if len(page) != 128 || !bytes.Equal(page, make([]byte, 128)) {
			t.Errorf("expected page %d to be cleared", i)
		}
	}
}

func TestSSD1306Draw(t *testing.T) {
	bus := new(testBus)
	d, err := NewSSD1306(bus, &Config{Width: 64, Height: 32})
	if err != nil {
		t.Fatal(err)
	}

	img := image.NewGray(image.Rect(0, 0, 2, 9))
	for y := range 9 {
		img.SetGray(1, y, color.Gray{Y: 0xff})
	}
	if err = d.Draw(4, 0, img); err != nil {
		t.Fatal(err)
	}
	if bus.opens != 1 {
		t.Fatalf("expected draw to open the bus once, got %d", bus.opens)
	}

	// Setup refresh plus the draw refresh.
	if len(bus.data) != 8 {
		t.Fatalf("expected 8 pages, got %d", len(bus.data))
	}
	var (
		page0 = bus.data[4]
		page1 = bus.data[5]
	)
	if page0[5] != 0xff || page0[4] != 0x00 {
		t.Errorf("expected column 5 of page 0 to be lit, got %#v", page0[:8])
	}
	if page1[5] != 0x01 {
		t.Errorf("expected top pixel of column 5 of page 1 to be lit, got %#v", page1[:8])
	}

	// Column window starts at 32 on 64 wide panels.
	bus.reset()
	if err = d.Draw(0, 0, img); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(bus.commands, []byte{0x21, 32, 95, 0x22, 0, 3}) {
		t.Errorf("unexpected address commands %#v", bus.commands[:6])
	}
}

func TestSSD1306Rotation(t *testing.T) {
	bus := new(testBus)
	d, err := NewSSD1306(bus, &Config{Width: 128, Height: 64, Rotation: UpsideDown})
	if err != nil {
		t.Fatal(err)
	}
	img := image.NewGray(image.Rect(0, 0, 1, 1))
	img.SetGray(0, 0, color.Gray{Y: 0xff})
	if err = d.Initialize(); err != nil {
		t.Fatal(err)
	}
	bus.reset()
	if err = d.Draw(0, 0, img); err != nil {
		t.Fatal(err)
	}

	last := bus.data[len(bus.data)-1]
	if last[127] != 0x80 {
		t.Errorf("expected the bottom right pixel to be lit, got %#02x", last[127])
	}
	if bus.data[0][0] != 0x00 {
		t.Errorf("expected the top left pixel to be off, got %#02x", bus.data[0][0])
	}
}

func TestSSD1306Finalize(t *testing.T) {
	bus := new(testBus)
	d, err := NewSSD1306(bus, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err = d.Finalize(); err != nil {
		t.Fatal(err)
	}
	if bus.closes != 0 {
		t.Error("expected finalize of an uninitialized display to leave the bus alone")
	}
	if err = d.SetContrast(0x10); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
	if err = d.Show(true); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}

	if err = d.Initialize(); err != nil {
		t.Fatal(err)
	}
	bus.reset()
	if err = d.SetContrast(0x10); err != nil {
		t.Fatal(err)
	}
	if err = d.Finalize(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(bus.commands, []byte{0x81, 0x10, 0xAE}) {
		t.Errorf("expected contrast and display off, got %#v", bus.commands)
	}
	if bus.closes != 1 {
		t.Errorf("expected the bus to be closed once, got %d", bus.closes)
	}

	if err = d.Restart(); err != nil {
		t.Fatal(err)
	}
	if bus.opens != 2 {
		t.Errorf("expected restart to open the bus again, got %d opens", bus.opens)
	}
}
