package panel

import (
	"fmt"
	"image"
)

// SerialDisplay is a display without local memory, attached through a [Transport].
//
// The transport is opened on Initialize and closed on Finalize. Drawing validates the image
// and makes sure the transport is open.
type SerialDisplay struct {
	Base
	t Transport
}

// NewSerialDisplay returns an uninitialized display on t.
func NewSerialDisplay(t Transport) *SerialDisplay {
	d := &SerialDisplay{t: t}
	d.Base = NewBase((*serialDriver)(d))
	return d
}

// Transport returns the transport of the display.
func (d *SerialDisplay) Transport() Transport {
	return d.t
}

func (d *SerialDisplay) String() string {
	if s, ok := d.t.(fmt.Stringer); ok {
		return "serial display on " + s.String()
	}
	return "serial display"
}

type serialDriver SerialDisplay

func (d *serialDriver) String() string {
	return (*SerialDisplay)(d).String()
}

func (d *serialDriver) Setup() error {
	return d.t.Open()
}

func (d *serialDriver) Teardown() error {
	if !d.Initialized() {
		return nil
	}
	return d.t.Close()
}

func (d *serialDriver) Paint(int, int, image.Image) error {
	return nil
}

var _ Display = (*SerialDisplay)(nil)
