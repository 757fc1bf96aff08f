// Package leds drives the 24 pixel strip under the keypad: a color buffer
// scaled by a global brightness and pushed to a periph display.Drawer.
package leds

import (
	"fmt"
	"image"

	"periph.io/x/conn/v3/display"
)

// Strip buffers one color per LED. Nothing reaches the hardware before Flush.
type Strip struct {
	pixels     []Color
	brightness uint8
	drawer     display.Drawer
}

func NewStrip(d display.Drawer, n int, brightness uint8) *Strip {
	return &Strip{
		pixels:     make([]Color, n),
		brightness: brightness,
		drawer:     d,
	}
}

func (s *Strip) Len() int { return len(s.pixels) }

func (s *Strip) Set(i int, c Color) error {
	if i < 0 || i >= len(s.pixels) {
		return fmt.Errorf("leds: index %d out of range [0,%d)", i, len(s.pixels))
	}
	s.pixels[i] = c
	return nil
}

func (s *Strip) At(i int) Color { return s.pixels[i] }

func (s *Strip) Fill(c Color) {
	for i := range s.pixels {
		s.pixels[i] = c
	}
}

// Colors returns a copy of the unscaled buffer.
func (s *Strip) Colors() []Color {
	return append([]Color(nil), s.pixels...)
}

func (s *Strip) Brightness() uint8 { return s.brightness }

func (s *Strip) SetBrightness(b uint8) { s.brightness = b }

// Image renders the buffer as a single row with brightness applied.
func (s *Strip) Image() *image.NRGBA {
	im := image.NewNRGBA(image.Rect(0, 0, len(s.pixels), 1))
	for x, c := range s.pixels {
		im.SetNRGBA(x, 0, c.Scale(s.brightness).NRGBA())
	}
	return im
}

// Flush sends the whole frame to the drawer in one call.
func (s *Strip) Flush() error {
	if err := s.drawer.Draw(s.drawer.Bounds(), s.Image(), image.Point{}); err != nil {
		return fmt.Errorf("leds: flush: %w", err)
	}
	return nil
}

// Clear turns every LED off and pushes the frame.
func (s *Strip) Clear() error {
	s.Fill(Off)
	return s.Flush()
}

// Close blanks the strip and halts the drawer.
func (s *Strip) Close() error {
	if err := s.Clear(); err != nil {
		return err
	}
	return s.drawer.Halt()
}

func (s *Strip) String() string {
	return fmt.Sprintf("leds.Strip{%d, %s}", len(s.pixels), s.drawer)
}
