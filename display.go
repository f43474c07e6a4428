// Package panel contains displays with an explicit initialize/finalize lifecycle.
//
// Every display embeds a [Base], which guards the lifecycle and delegates the device specific
// work to a [Driver]. [ImageDisplay] composites into an in-memory frame, [SerialDisplay] opens
// and closes a [Transport], [SSD1306] and [SH1106] drive OLED panels over a [Bus].
//
// Displays are NOT safe for concurrent use; callers serialize access.
package panel

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/BeatGlow/panel/pixel"
)

// Errors
var (
	ErrAlreadyInitialized = errors.New("panel: display already initialized")
	ErrNotInitialized     = errors.New("panel: display not initialized")
	ErrInvalidImage       = errors.New("panel: invalid image")
	ErrSize               = errors.New("panel: invalid display size")
)

// Display is an output device accepting images drawn at an offset.
type Display interface {
	// Initialize prepares the display. It fails with ErrAlreadyInitialized if the display
	// is initialized.
	Initialize() error

	// Draw img with its top left corner at (x, y). An uninitialized display is initialized
	// first. Invalid images are rejected with ErrInvalidImage before anything else happens.
	Draw(x, y int, img image.Image) error

	// Finalize releases the display. Finalizing an uninitialized display is a no-op.
	Finalize() error

	// Restart finalizes and initializes the display.
	Restart() error

	// Initialized reports whether the display is initialized.
	Initialized() bool
}

// State of the display lifecycle.
type State uint8

// Lifecycle states.
const (
	Uninitialized State = iota
	Initialized
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// Rotation defines the rotation of the displayed image in degrees.
//
// Positive values rotate counter clockwise as seen by the viewer, negative values clockwise.
type Rotation float64

// Common rotations.
const (
	NoRotation       Rotation = 0
	Clockwise        Rotation = -90
	CounterClockwise Rotation = 90
	UpsideDown       Rotation = 180
)

func (r Rotation) String() string {
	return strconv.FormatFloat(float64(r), 'f', -1, 64) + "°"
}

// ParseRotation parses a rotation in degrees, or one of the names
// "cw"/"right" (clockwise), "ccw"/"left" (counter clockwise) and "flip" (upside down).
func ParseRotation(s string) (Rotation, error) {
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case "", "no", "none":
		return NoRotation, nil
	case "cw", "right":
		return Clockwise, nil
	case "ccw", "left":
		return CounterClockwise, nil
	case "flip":
		return UpsideDown, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "°"), 64)
	if err != nil {
		return 0, fmt.Errorf("panel: invalid rotation %q", s)
	}
	return Rotation(v), nil
}

// Config is the display configuration.
type Config struct {
	// Width of the display in pixels.
	Width int

	// Height of the display in pixels.
	Height int

	// Rotation of the display.
	Rotation Rotation

	// Format of the frame buffer, used by ImageDisplay.
	Format pixel.Format

	// Background color of a blank frame, defaults to black.
	Background color.Color
}

func (c *Config) background() color.Color {
	if c.Background == nil {
		return color.Black
	}
	return c.Background
}
