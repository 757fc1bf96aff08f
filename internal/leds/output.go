package leds

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/devices/v3/screen1d"
)

// DefaultFreq is the SPI clock nrzled needs for WS2812 timing.
const DefaultFreq = 2500 * physic.KiloHertz

type Opts struct {
	// Port is the spireg name; empty picks the first port.
	Port      string
	NumPixels int
	Freq      physic.Frequency
}

// Open returns a drawer for the strip. Without a usable SPI port it falls
// back to printing the strip on the console.
func Open(o *Opts) (display.Drawer, error) {
	p, err := spireg.Open(o.Port)
	if err != nil {
		log.Warn().Err(err).Str("port", o.Port).Msg("leds: no SPI port, printing at the console")
		return screen1d.New(&screen1d.Opts{X: o.NumPixels}), nil
	}
	d, err := NewSPI(p, o)
	if err != nil {
		p.Close()
		return nil, err
	}
	return d, nil
}

// NewSPI wraps an open port in an nrzled driver.
func NewSPI(p spi.Port, o *Opts) (*nrzled.Dev, error) {
	f := o.Freq
	if f == 0 {
		f = DefaultFreq
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{NumPixels: o.NumPixels, Channels: 3, Freq: f})
	if err != nil {
		return nil, fmt.Errorf("leds: %w", err)
	}
	return d, nil
}
