// Package conn provides low level access to the I²C and SPI buses displays are attached to.
package conn

import (
	"fmt"
	"strconv"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

// I2C is a device on an I²C bus.
type I2C struct {
	bus  i2c.BusCloser
	conn conn.Conn
	addr uint16
}

// OpenI2C opens the numbered I²C bus, use a negative device to open the first available bus.
func OpenI2C(device int, addr uint8) (*I2C, error) {
	var (
		bus i2c.BusCloser
		err error
	)
	if device < 0 {
		bus, err = i2creg.Open("")
	} else {
		bus, err = i2creg.Open(strconv.FormatInt(int64(device), 10))
	}
	if err != nil {
		return nil, err
	}

	return NewI2C(bus, uint16(addr)), nil
}

// NewI2C uses an already opened bus. Closing the device closes the bus.
func NewI2C(bus i2c.BusCloser, addr uint16) *I2C {
	return &I2C{
		bus:  bus,
		conn: &i2c.Dev{Bus: bus, Addr: addr},
		addr: addr,
	}
}

func (c *I2C) String() string {
	return fmt.Sprintf("I²C bus %s address %#02x", c.bus, c.addr)
}

func (c *I2C) Close() error {
	return c.bus.Close()
}

func (c *I2C) Read(p []byte) (int, error) {
	if err := c.conn.Tx(nil, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *I2C) Write(p []byte) (int, error) {
	if err := c.conn.Tx(p, nil); err != nil {
		return 0, err
	}
	return len(p), nil
}
