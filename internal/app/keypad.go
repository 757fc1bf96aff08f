package app

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/coreman2200/pgb1/internal/board"
	"github.com/coreman2200/pgb1/internal/config"
	"github.com/coreman2200/pgb1/internal/gfx"
	"github.com/coreman2200/pgb1/internal/keys"
	"github.com/coreman2200/pgb1/internal/leds"
)

// Keypad lights the LED under a key with a random hue when the key goes
// down. UP and DOWN held ramp the strip brightness.
type Keypad struct {
	rng   *rand.Rand
	drawn bool
	shown uint8
}

func NewKeypad(cfg *config.Keypad) *Keypad {
	return &Keypad{rng: rand.New(rand.NewSource(cfg.Seed))}
}

func (k *Keypad) Name() string { return "keypad" }

func (k *Keypad) Update(b *board.Board) error {
	st := b.Keyboard.State
	bright := b.LEDs.Brightness()
	for _, key := range keys.All() {
		switch key {
		case keys.Up:
			if bright < 255 && st.Pressed(key) {
				bright++
				log.Debug().Uint8("brightness", bright).Msg("keypad")
			}
		case keys.Down:
			if bright > 0 && st.Pressed(key) {
				bright--
				log.Debug().Uint8("brightness", bright).Msg("keypad")
			}
		case keys.Left, keys.Right, keys.A, keys.B:
		default:
			if st.Falling(key) {
				h := uint8(k.rng.Uint32() >> 24)
				if err := b.LEDs.Set(key.LED(), leds.Hue(h)); err != nil {
					return err
				}
			}
		}
	}
	b.LEDs.SetBrightness(bright)
	if err := b.LEDs.Flush(); err != nil {
		return err
	}

	if k.drawn && k.shown == bright {
		return nil
	}
	if err := k.drawStatus(b, bright); err != nil {
		return err
	}
	if err := b.FlushDisplay(); err != nil {
		return err
	}
	k.drawn, k.shown = true, bright
	return nil
}

// drawStatus paints the greeting screen with a brightness gauge along the
// bottom edge.
func (k *Keypad) drawStatus(b *board.Board, bright uint8) error {
	const y = 20
	b.ClearScreen()
	return paintStatus(b.Canvas(), b.Screen, bright, y)
}

func paintStatus(c gfx.Target[image1bit.Bit], screen draw.Image, bright uint8, y int) error {
	size := c.Size()
	bar := image.Rect(4, size.Y-8, size.X-5, size.Y-4)
	fill := bar.Inset(1)
	fill.Max.X = fill.Min.X + fill.Dx()*int(bright)/255

	steps := []func() error{
		func() error {
			return gfx.Outline(c, image.Rectangle{Max: size.Sub(image.Pt(1, 1))}, image1bit.On)
		},
		func() error { return gfx.Line(c, image.Pt(16, 16+y), image.Pt(32, 16+y), image1bit.On) },
		func() error { return gfx.Line(c, image.Pt(32, 16+y), image.Pt(24, y), image1bit.On) },
		func() error { return gfx.Line(c, image.Pt(24, y), image.Pt(16, 16+y), image1bit.On) },
		func() error { return gfx.Outline(c, image.Rect(52, y, 68, y+16), image1bit.On) },
		func() error { return gfx.Circle(c, image.Pt(88, y), 16, image1bit.On) },
		func() error { return gfx.Outline(c, bar, image1bit.On) },
		func() error { return c.Fill(fill, image1bit.On) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("keypad: status screen: %w", err)
		}
	}
	gfx.Text(screen, image.Pt(5, 12), "Hello PGB-1!", image1bit.On)
	gfx.Text(screen, image.Pt(size.X-30, size.Y-12), fmt.Sprintf("%3d", bright), image1bit.On)
	return nil
}
