package cli

import (
	"fmt"
	"image"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/panel"
	"github.com/BeatGlow/panel/draw"
)

func newOLEDCommand(a *app) *cobra.Command {
	var (
		driver   string
		frames   int
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "oled [i2c|spi]",
		Short: "Animate the test pattern on an OLED panel",
		Long: `Drives an SSD1306 or SH1106 OLED panel over I²C or SPI and animates the test
pattern until interrupted, then finalizes the panel.

The bus type defaults to bus.type of the configuration.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"i2c", "spi"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				a.cfg.Bus.Type = args[0]
			}
			if _, err := host.Init(); err != nil {
				return err
			}

			bus, err := a.bus()
			if err != nil {
				return err
			}
			config, err := a.cfg.Display.Panel()
			if err != nil {
				return err
			}
			d, err := oledDisplay(driver, bus, config)
			if err != nil {
				return err
			}
			a.log.Info("Using display", "display", d, "bus", bus)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var (
				ticker = time.NewTicker(interval)
				size   = d.Bounds().Size()
			)
			defer ticker.Stop()

		loop:
			for offset := 0; frames <= 0 || offset < frames; offset++ {
				if err = d.Draw(0, 0, draw.Pattern(size, driver, offset)); err != nil {
					a.log.Error("Error drawing", "err", err)
					break
				}
				select {
				case <-ctx.Done():
					break loop
				case <-ticker.C:
				}
			}
			if ferr := d.Finalize(); ferr != nil {
				a.log.Error("Error finalizing display", "err", ferr)
				if err == nil {
					err = ferr
				}
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.Int("dev", panel.DefaultI2CConfig.Device, "I²C device number or SPI device (default: first available I²C device, SPI device 0)")
	flags.Uint("i2c-addr", uint(panel.DefaultI2CConfig.Addr), "I²C device address")
	flags.Int("spi-bus", panel.DefaultSPIConfig.Bus, "SPI bus")
	flags.Int("speed", 0, "SPI speed in Hz")
	flags.String("reset", "", "Reset GPIO pin (default "+panel.DefaultResetPin+" on SPI)")
	flags.String("dc", "", "Data/Command GPIO pin (default "+panel.DefaultDCPin+")")
	flags.String("ce", "", "Chip enable GPIO pin")
	flags.StringVar(&driver, "driver", "ssd1306", "OLED controller (ssd1306, sh1106)")
	flags.IntVar(&frames, "frames", 0, "Number of frames to draw (default: until interrupted)")
	flags.DurationVar(&interval, "interval", 50*time.Millisecond, "Frame interval")
	a.bind(flags, "bus.device", "dev")
	a.bind(flags, "bus.addr", "i2c-addr")
	a.bind(flags, "bus.spi_bus", "spi-bus")
	a.bind(flags, "bus.speed_hz", "speed")
	a.bind(flags, "bus.reset", "reset")
	a.bind(flags, "bus.dc", "dc")
	a.bind(flags, "bus.ce", "ce")
	return cmd
}

type oled interface {
	panel.Display
	fmt.Stringer
	Bounds() image.Rectangle
}

func oledDisplay(driver string, bus panel.Bus, config *panel.Config) (oled, error) {
	switch strings.ToLower(driver) {
	case "ssd1306":
		return panel.NewSSD1306(bus, config)
	case "sh1106":
		return panel.NewSH1106(bus, config)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

// bus returns the bus from the configuration. Pins are resolved by name, an empty name leaves
// the pin to the bus default.
func (a *app) bus() (panel.Bus, error) {
	c := a.cfg.Bus
	reset, err := pin(c.Reset)
	if err != nil {
		return nil, err
	}

	switch c.Type {
	case "i2c":
		return panel.NewI2C(&panel.I2CConfig{
			Device: c.Device,
			Addr:   uint8(c.Addr),
			Reset:  reset,
		}), nil

	case "spi":
		dc, err := pin(c.DC)
		if err != nil {
			return nil, err
		}
		ce, err := pin(c.CE)
		if err != nil {
			return nil, err
		}
		config := panel.DefaultSPIConfig
		config.Bus = c.SPIBus
		config.Device = max(c.Device, 0)
		config.Reset = reset
		config.DC = dc
		config.CE = ce
		if c.SpeedHz > 0 {
			config.SpeedHz = uint32(c.SpeedHz)
		}
		return panel.NewSPI(&config), nil

	default:
		return nil, fmt.Errorf("unsupported bus type %q", c.Type)
	}
}

func pin(name string) (gpio.PinOut, error) {
	if name == "" {
		return nil, nil
	}
	if p := gpioreg.ByName(name); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("unknown GPIO pin %q", name)
}
