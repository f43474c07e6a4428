// Package config loads the panel.yaml configuration file and applies flag and environment
// overrides on top of it.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/BeatGlow/panel"
	"github.com/BeatGlow/panel/pixel"
)

// DefaultFile is the configuration file read when none is given.
const DefaultFile = "panel.yaml"

// EnvPrefix is the prefix of environment variables overriding configuration keys, such as
// PANEL_DISPLAY_WIDTH for display.width.
const EnvPrefix = "PANEL"

// Config represents the optional panel.yaml configuration.
type Config struct {
	Display Display `yaml:"display" json:"display"`
	Server  Server  `yaml:"server" json:"server"`
	Bus     Bus     `yaml:"bus" json:"bus"`
}

// Display contains the display settings.
type Display struct {
	Width      int    `yaml:"width" json:"width"`
	Height     int    `yaml:"height" json:"height"`
	Rotation   string `yaml:"rotation,omitempty" json:"rotation"`
	Format     string `yaml:"format,omitempty" json:"format"`
	Background string `yaml:"background,omitempty" json:"background"`
}

// Server contains the preview server settings.
type Server struct {
	Listen string `yaml:"listen" json:"listen"`
	URL    string `yaml:"url" json:"url"`
}

// Bus contains the hardware bus settings of the oled command.
type Bus struct {
	Type    string `yaml:"type" json:"type"`
	Device  int    `yaml:"device" json:"device"`
	Addr    int    `yaml:"addr" json:"addr"`
	SPIBus  int    `yaml:"spi_bus" json:"spi_bus"`
	SpeedHz int    `yaml:"speed_hz,omitempty" json:"speed_hz"`
	// GPIO pin names, the SPI bus defaults to panel.DefaultResetPin and panel.DefaultDCPin.
	Reset string `yaml:"reset,omitempty" json:"reset"`
	DC    string `yaml:"dc,omitempty" json:"dc"`
	CE    string `yaml:"ce,omitempty" json:"ce"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Display: Display{
			Width:      128,
			Height:     64,
			Rotation:   "none",
			Format:     pixel.FormatRGBA.String(),
			Background: "#000000",
		},
		Server: Server{
			Listen: "127.0.0.1:8087",
			URL:    "http://127.0.0.1:8087",
		},
		Bus: Bus{
			Type:   "i2c",
			Device: panel.DefaultI2CConfig.Device,
			Addr:   int(panel.DefaultI2CConfig.Addr),
			SPIBus: panel.DefaultSPIConfig.Bus,
		},
	}
}

// LoadOptional reads the configuration file at path if present, on top of the defaults.
func LoadOptional(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads the configuration file at path if present and applies the keys set in v, from
// flags or the environment.
func Load(path string, v *viper.Viper) (*Config, error) {
	cfg, err := LoadOptional(path)
	if err != nil {
		return nil, err
	}
	if v != nil {
		cfg.Override(v)
	}
	return cfg, nil
}

// NewViper returns a viper instance reading PANEL_ prefixed environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Keys of the configuration, as used by viper.
var Keys = []string{
	"display.width",
	"display.height",
	"display.rotation",
	"display.format",
	"display.background",
	"server.listen",
	"server.url",
	"bus.type",
	"bus.device",
	"bus.addr",
	"bus.spi_bus",
	"bus.speed_hz",
	"bus.reset",
	"bus.dc",
	"bus.ce",
}

// Override replaces the values of all keys explicitly set in v.
func (c *Config) Override(v *viper.Viper) {
	for _, key := range Keys {
		if !v.IsSet(key) {
			continue
		}
		switch key {
		case "display.width":
			c.Display.Width = v.GetInt(key)
		case "display.height":
			c.Display.Height = v.GetInt(key)
		case "display.rotation":
			c.Display.Rotation = v.GetString(key)
		case "display.format":
			c.Display.Format = v.GetString(key)
		case "display.background":
			c.Display.Background = v.GetString(key)
		case "server.listen":
			c.Server.Listen = v.GetString(key)
		case "server.url":
			c.Server.URL = v.GetString(key)
		case "bus.type":
			c.Bus.Type = v.GetString(key)
		case "bus.device":
			c.Bus.Device = v.GetInt(key)
		case "bus.addr":
			c.Bus.Addr = v.GetInt(key)
		case "bus.spi_bus":
			c.Bus.SPIBus = v.GetInt(key)
		case "bus.speed_hz":
			c.Bus.SpeedHz = v.GetInt(key)
		case "bus.reset":
			c.Bus.Reset = v.GetString(key)
		case "bus.dc":
			c.Bus.DC = v.GetString(key)
		case "bus.ce":
			c.Bus.CE = v.GetString(key)
		}
	}
}

// Panel converts the display settings to a display configuration.
func (d Display) Panel() (*panel.Config, error) {
	rotation, err := panel.ParseRotation(d.Rotation)
	if err != nil {
		return nil, err
	}
	format, err := pixel.ParseFormat(d.Format)
	if err != nil {
		return nil, err
	}
	background, err := ParseColor(d.Background)
	if err != nil {
		return nil, err
	}
	return &panel.Config{
		Width:      d.Width,
		Height:     d.Height,
		Rotation:   rotation,
		Format:     format,
		Background: background,
	}, nil
}

var namedColors = map[string]color.Color{
	"black":       color.Black,
	"white":       color.White,
	"transparent": color.Transparent,
}

// ParseColor parses a color name (black, white, transparent) or a hex value in the form
// #rgb, #rrggbb or #rrggbbaa. The empty string is black.
func ParseColor(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return color.Black, nil
	}
	if c, ok := namedColors[s]; ok {
		return c, nil
	}

	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return nil, fmt.Errorf("config: invalid color %q", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return nil, fmt.Errorf("config: invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("config: invalid color %q", s)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
