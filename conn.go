package panel

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"

	"github.com/BeatGlow/panel/conn"
)

// Transport errors.
var (
	ErrResetPin        = errors.New("panel: reset GPIO pin is invalid")
	ErrDCPin           = errors.New("panel: data/command (DC) GPIO pin is invalid")
	ErrTransportOpen   = errors.New("panel: transport already open")
	ErrTransportClosed = errors.New("panel: transport closed")
)

// Transport is the connection to the hardware of a display.
type Transport interface {
	// Open the connection. Opening an open transport fails with ErrTransportOpen.
	Open() error

	// Close the connection. Closing a closed transport is a no-op.
	Close() error
}

// Bus is a Transport for display controllers that take commands and data.
type Bus interface {
	Transport

	// Command sends a command byte with optional arguments.
	Command(byte, ...byte) error

	// Data sends data bytes.
	Data(...byte) error
}

// SPI is a Bus on a SPI interface.
type SPI interface {
	Bus

	// SetDataLow changes the data/command direction behaviour.
	SetDataLow(bool)

	// SetMode requests a SPI mode.
	SetMode(mode conn.SPIMode) error

	// SetMaxSpeed requests a SPI speed.
	SetMaxSpeed(hz int) error
}

// resetPulse is how long the reset pin is held low.
const resetPulse = 10 * time.Millisecond

func validPin(pin gpio.PinOut) bool {
	return pin != nil && pin != gpio.INVALID
}

// pulseReset resets the display controller, if it has a reset pin.
func pulseReset(pin gpio.PinOut) error {
	if !validPin(pin) {
		return nil
	}
	if err := pin.Out(gpio.Low); err != nil {
		return err
	}
	time.Sleep(resetPulse)
	return pin.Out(gpio.High)
}

// I2CConfig describes the I²C bus configuration.
type I2CConfig struct {
	// Device is the I²C device, use -1 to use the first available device.
	Device int

	// Addr is the I²C address.
	Addr uint8

	// Reset pin, optional.
	Reset gpio.PinOut

	// Bus is used instead of opening Device, if set. Closing the transport closes Bus.
	Bus i2c.BusCloser
}

// DefaultI2CConfig are the default configuration values.
var DefaultI2CConfig = I2CConfig{
	Device: -1,
	Addr:   0x3c,
}

type i2cBus struct {
	config I2CConfig
	c      *conn.I2C
}

// NewI2C returns a closed I²C bus. A nil config uses DefaultI2CConfig.
func NewI2C(config *I2CConfig) Bus {
	if config == nil {
		config = &DefaultI2CConfig
	}
	return &i2cBus{config: *config}
}

func (b *i2cBus) String() string {
	if b.c != nil {
		return b.c.String()
	}
	return fmt.Sprintf("I²C device %d address %#02x", b.config.Device, b.config.Addr)
}

func (b *i2cBus) Open() (err error) {
	if b.c != nil {
		return ErrTransportOpen
	}
	if err = pulseReset(b.config.Reset); err != nil {
		return
	}
	if b.config.Bus != nil {
		b.c = conn.NewI2C(b.config.Bus, uint16(b.config.Addr))
		return
	}
	b.c, err = conn.OpenI2C(b.config.Device, b.config.Addr)
	return
}

func (b *i2cBus) Close() error {
	if b.c == nil {
		return nil
	}
	err := b.c.Close()
	b.c = nil
	return err
}

func (b *i2cBus) Command(cmnd byte, args ...byte) (err error) {
	if b.c == nil {
		return ErrTransportClosed
	}
	_, err = b.c.Write(append([]byte{0x00, cmnd}, args...))
	return
}

func (b *i2cBus) Data(data ...byte) (err error) {
	if b.c == nil {
		return ErrTransportClosed
	}
	_, err = b.c.Write(append([]byte{0x40}, data...))
	return
}

// Default GPIO pins of the SPI bus.
const (
	DefaultResetPin = "GPIO25"
	DefaultDCPin    = "GPIO24"
)

// SPIConfig describes the SPI bus configuration.
type SPIConfig struct {
	Bus       int
	Device    int
	Mode      conn.SPIMode
	SpeedHz   uint32
	DataLow   bool
	BatchSize uint

	// Reset and DC default to DefaultResetPin and DefaultDCPin, looked up when the bus is
	// opened. CE is optional.
	Reset gpio.PinOut
	DC    gpio.PinOut
	CE    gpio.PinOut
}

// DefaultSPIConfig are the default configuration values.
var DefaultSPIConfig = SPIConfig{
	Bus:       0,
	Device:    0,
	Mode:      conn.SPIMode0,
	SpeedHz:   8_000_000,
	BatchSize: 4096,
}

// ValidSPISpeeds are common valid SPI bus speeds.
var ValidSPISpeeds = []uint32{
	500_000,
	1_000_000,
	2_000_000,
	4_000_000,
	8_000_000,
	16_000_000,
	20_000_000,
	24_000_000,
	28_000_000,
	32_000_000,
	36_000_000,
	40_000_000,
	48_000_000,
	50_000_000,
	52_000_000,
}

// spiDevice is the part of [conn.SPI] used by the bus.
type spiDevice interface {
	io.WriteCloser
	SetMode(conn.SPIMode) error
	SetMaxSpeed(int) error
}

func openSPIDevice(bus, device int) (spiDevice, error) {
	c, err := conn.OpenSPI(bus, device)
	if err != nil {
		return nil, err
	}
	return c, nil
}

type spiBus struct {
	config  SPIConfig
	open    func(bus, device int) (spiDevice, error)
	dev     spiDevice
	reset   gpio.PinOut
	dc      gpio.PinOut
	dcLevel gpio.Level
	cs      gpio.PinOut
	dataLow bool
}

// NewSPI returns a closed SPI bus. A nil config uses DefaultSPIConfig; zero speed and batch
// size take the default values.
func NewSPI(config *SPIConfig) SPI {
	if config == nil {
		config = &DefaultSPIConfig
	}
	b := &spiBus{
		config:  *config,
		open:    openSPIDevice,
		dataLow: config.DataLow,
	}
	if b.config.SpeedHz == 0 {
		b.config.SpeedHz = DefaultSPIConfig.SpeedHz
	}
	if b.config.BatchSize == 0 {
		b.config.BatchSize = DefaultSPIConfig.BatchSize
	}
	return b
}

func (b *spiBus) String() string {
	if s, ok := b.dev.(fmt.Stringer); ok {
		return fmt.Sprintf("SPI bus %s", s)
	}
	return fmt.Sprintf("SPI bus %s", conn.SPIDevice(b.config.Bus, b.config.Device))
}

func (b *spiBus) Open() (err error) {
	if b.dev != nil {
		return ErrTransportOpen
	}

	if b.reset = b.config.Reset; b.reset == nil {
		b.reset = gpioreg.ByName(DefaultResetPin)
	}
	if !validPin(b.reset) {
		return ErrResetPin
	}
	if b.dc = b.config.DC; b.dc == nil {
		b.dc = gpioreg.ByName(DefaultDCPin)
	}
	if !validPin(b.dc) {
		return ErrDCPin
	}
	b.cs = b.config.CE

	if !slices.Contains(ValidSPISpeeds, b.config.SpeedHz) {
		return fmt.Errorf("panel: invalid SPI speed %dHz", b.config.SpeedHz)
	}

	dev, err := b.open(b.config.Bus, b.config.Device)
	if err != nil {
		return err
	}
	if err = dev.SetMode(b.config.Mode); err != nil {
		_ = dev.Close()
		return err
	}
	if err = dev.SetMaxSpeed(int(b.config.SpeedHz)); err != nil {
		_ = dev.Close()
		return err
	}
	if err = pulseReset(b.reset); err != nil {
		_ = dev.Close()
		return err
	}

	// Force the first command to set the DC pin.
	b.dcLevel = !gpio.Level(b.dataLow)
	if err = b.dc.Out(b.dcLevel); err != nil {
		_ = dev.Close()
		return err
	}

	b.dev = dev
	return nil
}

func (b *spiBus) Close() error {
	if b.dev == nil {
		return nil
	}
	err := b.dev.Close()
	b.dev = nil
	return err
}

func (b *spiBus) updateDC(level gpio.Level) error {
	if b.dcLevel != level {
		if err := b.dc.Out(level); err != nil {
			return err
		}
		b.dcLevel = level
	}
	return nil
}

func (b *spiBus) updateCS(level gpio.Level) error {
	if !validPin(b.cs) {
		return nil
	}
	return b.cs.Out(level)
}

func (b *spiBus) Command(cmnd byte, data ...byte) (err error) {
	if b.dev == nil {
		return ErrTransportClosed
	}
	if err = b.updateCS(gpio.Low); err != nil {
		return
	}
	if err = b.updateDC(gpio.Level(b.dataLow)); err != nil {
		return
	}
	if _, err = b.dev.Write([]byte{cmnd}); err != nil {
		return
	}
	if len(data) > 0 {
		if err = b.updateDC(gpio.Level(!b.dataLow)); err != nil {
			return
		}
		if err = b.writeChunked(data); err != nil {
			return
		}
	}
	return b.updateCS(gpio.High)
}

func (b *spiBus) Data(data ...byte) (err error) {
	if b.dev == nil {
		return ErrTransportClosed
	}
	if len(data) == 0 {
		return
	}
	if err = b.updateDC(gpio.Level(!b.dataLow)); err != nil {
		return
	}
	if err = b.updateCS(gpio.Low); err != nil {
		return
	}
	if err = b.writeChunked(data); err != nil {
		return
	}
	return b.updateCS(gpio.High)
}

func (b *spiBus) writeChunked(data []byte) (err error) {
	size := int(b.config.BatchSize)
	if len(data) <= size {
		_, err = b.dev.Write(data)
		return
	}

	Logger().Debug("spi chunked write", "bytes", len(data), "chunks", (len(data)+size-1)/size)
	for chunk := range slices.Chunk(data, size) {
		if _, err = b.dev.Write(chunk); err != nil {
			return
		}
	}
	return
}

func (b *spiBus) SetDataLow(v bool) {
	b.dataLow = v
}

func (b *spiBus) SetMode(mode conn.SPIMode) error {
	if b.dev == nil {
		return ErrTransportClosed
	}
	return b.dev.SetMode(mode)
}

func (b *spiBus) SetMaxSpeed(hz int) error {
	if b.dev == nil {
		return ErrTransportClosed
	}
	return b.dev.SetMaxSpeed(hz)
}

// SerialPort is a Transport writing to a character device, such as a serial port.
type SerialPort struct {
	path string
	f    *os.File
}

// NewSerialPort returns a closed serial port for the device at path.
func NewSerialPort(path string) *SerialPort {
	return &SerialPort{path: path}
}

func (p *SerialPort) String() string {
	return "serial port " + p.path
}

func (p *SerialPort) Open() (err error) {
	if p.f != nil {
		return ErrTransportOpen
	}
	p.f, err = os.OpenFile(p.path, os.O_RDWR, 0)
	return
}

func (p *SerialPort) Close() error {
	if p.f == nil {
		return nil
	}
	err := p.f.Close()
	p.f = nil
	return err
}

func (p *SerialPort) Write(b []byte) (int, error) {
	if p.f == nil {
		return 0, ErrTransportClosed
	}
	return p.f.Write(b)
}

var (
	_ Bus       = (*i2cBus)(nil)
	_ SPI       = (*spiBus)(nil)
	_ Transport = (*SerialPort)(nil)
	_ io.Writer = (*SerialPort)(nil)
)
