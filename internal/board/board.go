// Package board assembles the device peripherals, real or simulated, into the
// single Board value the running app owns.
package board

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/coreman2200/pgb1/internal/config"
	"github.com/coreman2200/pgb1/internal/gfx"
	"github.com/coreman2200/pgb1/internal/keyboard"
	"github.com/coreman2200/pgb1/internal/leds"
	"github.com/coreman2200/pgb1/internal/sim"
)

var ErrPinNotFound = errors.New("board: pin not found")

// Board is every peripheral of the device. Open or OpenSim hands out the one
// instance; whoever holds it is the only writer.
type Board struct {
	Keyboard *keyboard.Matrix
	Display  display.Drawer
	// Screen is the display framebuffer; FlushDisplay sends it.
	Screen *image1bit.VerticalLSB
	LEDs   *leds.Strip
	Clock  clockwork.Clock
	// Sleeper paces the keyboard scan. It is Clock unless a test replaces it.
	Sleeper keyboard.Sleeper

	// Sim is set by OpenSim.
	Sim *Sim

	closers []io.Closer
}

// Sim exposes the simulated hardware behind a Board.
type Sim struct {
	Matrix  *sim.Matrix
	Display *sim.Drawer
	LEDs    *sim.Drawer
}

// Open initializes periph and claims the pins and SPI ports named in cfg.
func Open(cfg *config.Config) (*Board, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("board: host init: %w", err)
	}
	clk := clockwork.NewRealClock()
	b := &Board{Clock: clk, Sleeper: clk}

	km, err := openMatrix(&cfg.Matrix)
	if err != nil {
		return nil, err
	}
	b.Keyboard = km

	if err := b.openDisplay(&cfg.Display); err != nil {
		b.Close()
		return nil, err
	}

	ld, err := leds.Open(&leds.Opts{
		Port:      cfg.LEDs.SPI,
		NumPixels: cfg.LEDs.Count,
		Freq:      physic.Frequency(cfg.LEDs.FreqKHz) * physic.KiloHertz,
	})
	if err != nil {
		b.Close()
		return nil, err
	}
	b.LEDs = leds.NewStrip(ld, cfg.LEDs.Count, cfg.LEDs.Brightness)

	log.Info().
		Str("display", b.Display.String()).
		Str("leds", b.LEDs.String()).
		Msg("board: open")
	return b, nil
}

func pin(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrPinNotFound, name)
	}
	return p, nil
}

func openMatrix(cfg *config.Matrix) (*keyboard.Matrix, error) {
	cols := make([]keyboard.Strobe, len(cfg.Columns))
	for i, n := range cfg.Columns {
		p, err := pin(n)
		if err != nil {
			return nil, err
		}
		if err := p.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("board: column %s: %w", n, err)
		}
		cols[i] = p
	}
	rows := make([]keyboard.Sense, len(cfg.Rows))
	for i, n := range cfg.Rows {
		p, err := pin(n)
		if err != nil {
			return nil, err
		}
		if err := p.In(gpio.PullDown, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("board: row %s: %w", n, err)
		}
		rows[i] = p
	}
	m, err := keyboard.New(cols, rows)
	if err != nil {
		return nil, err
	}
	if cfg.SettleUs > 0 {
		m.Settle = time.Duration(cfg.SettleUs) * time.Microsecond
	}
	return m, nil
}

func (b *Board) openDisplay(cfg *config.Display) error {
	dc, err := pin(cfg.DC)
	if err != nil {
		return err
	}
	if cfg.RST != "" {
		rst, err := pin(cfg.RST)
		if err != nil {
			return err
		}
		if err := resetPulse(rst, b.Clock); err != nil {
			return fmt.Errorf("board: display reset: %w", err)
		}
	}
	p, err := spireg.Open(cfg.SPI)
	if err != nil {
		return fmt.Errorf("board: display port %q: %w", cfg.SPI, err)
	}
	b.closers = append(b.closers, p)
	d, err := ssd1306.NewSPI(p, dc, &ssd1306.Opts{W: cfg.Width, H: cfg.Height})
	if err != nil {
		return fmt.Errorf("board: ssd1306: %w", err)
	}
	b.Display = d
	b.Screen = image1bit.NewVerticalLSB(d.Bounds())
	return nil
}

func resetPulse(rst gpio.PinOut, clk keyboard.Sleeper) error {
	if err := rst.Out(gpio.Low); err != nil {
		return err
	}
	clk.Sleep(10 * time.Millisecond)
	return rst.Out(gpio.High)
}

// OpenSim builds a Board on simulated hardware sized like cfg.
func OpenSim(cfg *config.Config) (*Board, error) {
	s := &Sim{
		Matrix:  sim.NewMatrix(),
		Display: sim.NewDrawer("display", image.Rect(0, 0, cfg.Display.Width, cfg.Display.Height), image1bit.BitModel),
		LEDs:    sim.NewDrawer("leds", image.Rect(0, 0, cfg.LEDs.Count, 1), color.NRGBAModel),
	}
	km, err := keyboard.New(s.Matrix.Strobes(), s.Matrix.Senses())
	if err != nil {
		return nil, err
	}
	if cfg.Matrix.SettleUs > 0 {
		km.Settle = time.Duration(cfg.Matrix.SettleUs) * time.Microsecond
	}
	clk := clockwork.NewRealClock()
	return &Board{
		Keyboard: km,
		Display:  s.Display,
		Screen:   image1bit.NewVerticalLSB(s.Display.Bounds()),
		LEDs:     leds.NewStrip(s.LEDs, cfg.LEDs.Count, cfg.LEDs.Brightness),
		Clock:    clk,
		Sleeper:  clk,
		Sim:      s,
	}, nil
}

// Scan reads the keyboard once.
func (b *Board) Scan() error {
	return b.Keyboard.Scan(b.Sleeper)
}

// Canvas draws into Screen with On/Off colors.
func (b *Board) Canvas() *gfx.Canvas[image1bit.Bit] {
	return gfx.NewCanvas(b.Screen, func(c image1bit.Bit) color.Color { return c })
}

// ClearScreen blanks the framebuffer without sending it.
func (b *Board) ClearScreen() {
	for i := range b.Screen.Pix {
		b.Screen.Pix[i] = 0
	}
}

// FlushDisplay sends the framebuffer to the display.
func (b *Board) FlushDisplay() error {
	if err := b.Display.Draw(b.Display.Bounds(), b.Screen, image.Point{}); err != nil {
		return fmt.Errorf("board: display: %w", err)
	}
	return nil
}

// Close blanks the LEDs, halts the display and releases the ports.
func (b *Board) Close() error {
	var errs []error
	if b.LEDs != nil {
		errs = append(errs, b.LEDs.Close())
	}
	if b.Display != nil {
		errs = append(errs, b.Display.Halt())
	}
	for _, c := range b.closers {
		errs = append(errs, c.Close())
	}
	b.closers = nil
	return errors.Join(errs...)
}
