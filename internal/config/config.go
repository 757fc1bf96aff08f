package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Matrix struct {
	Columns  []string `yaml:"columns"` // strobe pins, column 1 first
	Rows     []string `yaml:"rows"`    // sense pins, row 1 first
	SettleUs int      `yaml:"settle_us"`
}

type Display struct {
	SPI    string `yaml:"spi"` // spireg name, e.g. SPI1.0
	DC     string `yaml:"dc"`
	RST    string `yaml:"rst"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type LEDs struct {
	SPI        string `yaml:"spi"`
	Count      int    `yaml:"count"`
	FreqKHz    int    `yaml:"freq_khz"`
	Brightness uint8  `yaml:"brightness"`
}

type Snake struct {
	ScaleX       int    `yaml:"scale_x"`
	ScaleY       int    `yaml:"scale_y"`
	MaxSize      int    `yaml:"max_size"`
	FoodLifetime int    `yaml:"food_lifetime"`
	Seed         uint64 `yaml:"seed"`
	TickMs       int    `yaml:"tick_ms"`
}

type Keypad struct {
	PollMs int    `yaml:"poll_ms"`
	Seed   uint64 `yaml:"seed"`
}

type Preview struct {
	Addr string `yaml:"addr"`
}

type Config struct {
	Driver string `yaml:"driver"` // "hw" | "sim"
	App    string `yaml:"app"`    // "snake" | "keypad"

	Matrix  Matrix  `yaml:"matrix"`
	Display Display `yaml:"display"`
	LEDs    LEDs    `yaml:"leds"`
	Snake   Snake   `yaml:"snake"`
	Keypad  Keypad  `yaml:"keypad"`
	Preview Preview `yaml:"preview"`
}

// Default is the stock PGB-1 wiring and the settings of the bundled apps.
func Default() *Config {
	return &Config{
		Driver: "hw",
		App:    "snake",
		Matrix: Matrix{
			Columns:  []string{"GPIO18", "GPIO19", "GPIO26", "GPIO23", "GPIO29"},
			Rows:     []string{"GPIO20", "GPIO21", "GPIO22", "GPIO24", "GPIO25", "GPIO27"},
			SettleUs: 1000,
		},
		Display: Display{SPI: "SPI1.0", DC: "GPIO12", RST: "GPIO13", Width: 128, Height: 64},
		LEDs:    LEDs{Count: 24, FreqKHz: 2500, Brightness: 20},
		Snake:   Snake{ScaleX: 3, ScaleY: 3, MaxSize: 100, FoodLifetime: 255, Seed: 42, TickMs: 50},
		Keypad:  Keypad{PollMs: 30, Seed: 42},
		Preview: Preview{Addr: ":8080"},
	}
}

// Load reads path over the defaults, so a file only needs the keys it
// changes.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

func (c *Config) Validate() error {
	switch c.Driver {
	case "hw", "sim":
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
	switch c.App {
	case "snake", "keypad":
	default:
		return fmt.Errorf("unknown app %q", c.App)
	}
	if len(c.Matrix.Columns) != 5 || len(c.Matrix.Rows) != 6 {
		return fmt.Errorf("matrix needs 5 columns and 6 rows, got %d and %d", len(c.Matrix.Columns), len(c.Matrix.Rows))
	}
	if c.LEDs.Count <= 0 {
		return fmt.Errorf("leds.count must be positive, got %d", c.LEDs.Count)
	}
	return nil
}
