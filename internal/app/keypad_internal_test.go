package app

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/coreman2200/pgb1/internal/gfx"
)

// brokenTarget accepts ok fills, then fails every call.
type brokenTarget struct {
	ok    int
	fills int
	err   error
}

func (t *brokenTarget) Size() image.Point { return image.Pt(128, 64) }

func (t *brokenTarget) Draw(px ...gfx.Pixel[image1bit.Bit]) error {
	for _, p := range px {
		if err := t.Fill(image.Rectangle{Min: p.Pt, Max: p.Pt.Add(image.Pt(1, 1))}, p.C); err != nil {
			return err
		}
	}
	return nil
}

func (t *brokenTarget) Fill(image.Rectangle, image1bit.Bit) error {
	if t.fills >= t.ok {
		return t.err
	}
	t.fills++
	return nil
}

func TestPaintStatusReturnsFirstError(t *testing.T) {
	screen := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))
	for _, ok := range []int{0, 4, 40} {
		tgt := &brokenTarget{ok: ok, err: errors.New("bus fault")}
		err := paintStatus(tgt, screen, 20, 20)
		require.Error(t, err, "ok=%d", ok)
		assert.ErrorIs(t, err, tgt.err)
		assert.Equal(t, ok, tgt.fills, "stops at the first failure")
	}

	c := gfx.NewCanvas(screen, func(b image1bit.Bit) color.Color { return b })
	assert.NoError(t, paintStatus(c, screen, 20, 20))
}
