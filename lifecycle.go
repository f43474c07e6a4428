package panel

import (
	"errors"
	"fmt"
	"image"

	"github.com/BeatGlow/panel/pixel"
)

// Driver implements the device specific parts of a display. Its methods are only called by
// [Base], which guarantees Paint is called on an initialized display with a valid image.
type Driver interface {
	// Setup prepares the device. If it fails, the display stays uninitialized.
	Setup() error

	// Teardown releases the device. It is called on every Finalize, before the state is
	// reset, so the driver can consult Initialized to see if there is anything to release.
	Teardown() error

	// Paint draws img at (x, y).
	Paint(x, y int, img image.Image) error
}

// Base implements the [Display] lifecycle on top of a [Driver].
//
// Displays embed a Base created by [NewBase]. The zero value has no driver and panics on use.
type Base struct {
	driver Driver
	state  State
}

// NewBase returns an uninitialized Base for driver.
func NewBase(driver Driver) Base {
	return Base{driver: driver}
}

// State returns the lifecycle state.
func (b *Base) State() State {
	return b.state
}

// Initialized reports whether the display is initialized.
func (b *Base) Initialized() bool {
	return b.state == Initialized
}

// Initialize the display.
func (b *Base) Initialize() error {
	if b.state == Initialized {
		return ErrAlreadyInitialized
	}
	if err := b.driver.Setup(); err != nil {
		Logger().Debug("display setup failed", "display", b.name(), "err", err)
		return err
	}
	b.state = Initialized
	Logger().Debug("display initialized", "display", b.name())
	return nil
}

// Draw validates img, initializes the display if needed and paints img at (x, y).
func (b *Base) Draw(x, y int, img image.Image) error {
	if !pixel.Valid(img) {
		return ErrInvalidImage
	}
	if b.state != Initialized {
		if err := b.Initialize(); err != nil {
			return err
		}
	}
	return b.driver.Paint(x, y, img)
}

// Finalize the display. The display is uninitialized afterwards, even if the driver
// failed to release the device.
func (b *Base) Finalize() error {
	err := b.driver.Teardown()
	b.state = Uninitialized
	if err != nil {
		Logger().Debug("display teardown failed", "display", b.name(), "err", err)
		return err
	}
	Logger().Debug("display finalized", "display", b.name())
	return nil
}

// Restart finalizes and initializes the display, regardless of its state.
func (b *Base) Restart() error {
	return errors.Join(b.Finalize(), b.Initialize())
}

func (b *Base) name() string {
	if s, ok := b.driver.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", b.driver)
}
