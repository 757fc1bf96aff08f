package leds

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a packed LED color. Bytes are laid out in the strip's wire order,
// green first, with the top byte unused.
type Color uint32

const (
	greenOffset = 0x10
	redOffset   = 0x08
	blueOffset  = 0x0
)

const (
	Off   Color = 0
	White Color = 0xFFFFFF
)

func RGB(r, g, b uint8) Color {
	return Color(uint32(g)<<greenOffset | uint32(r)<<redOffset | uint32(b)<<blueOffset)
}

// Hue is the fully saturated, full value color at h/256 of the color wheel.
func Hue(h uint8) Color {
	r, g, b := colorful.Hsv(float64(h)*360/256, 1, 1).RGB255()
	return RGB(r, g, b)
}

// FromColor converts any color.Color, dropping alpha.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB(n.R, n.G, n.B)
}

func set(c Color, n uint8, off uint) Color {
	mask := Color(0xFF) << off
	return c&^mask | Color(n)<<off
}

func get(c Color, off uint) uint8 {
	return uint8(c >> off)
}

func (c Color) R() uint8 { return get(c, redOffset) }
func (c Color) G() uint8 { return get(c, greenOffset) }
func (c Color) B() uint8 { return get(c, blueOffset) }

func (c Color) WithR(r uint8) Color { return set(c, r, redOffset) }
func (c Color) WithG(g uint8) Color { return set(c, g, greenOffset) }
func (c Color) WithB(b uint8) Color { return set(c, b, blueOffset) }

// Scale dims every channel by brightness b, v*(b+1)/256, so 255 is a no-op
// and 0 leaves a channel at most 0.
func (c Color) Scale(b uint8) Color {
	s := func(v uint8) uint8 { return uint8(uint16(v) * (uint16(b) + 1) >> 8) }
	return RGB(s(c.R()), s(c.G()), s(c.B()))
}

func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: 255}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}
