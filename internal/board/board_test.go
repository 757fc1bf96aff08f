package board_test

import (
	"image"
	"testing"

	"periph.io/x/devices/v3/ssd1306/image1bit"

	. "github.com/coreman2200/pgb1/internal/board"
	"github.com/coreman2200/pgb1/internal/config"
	"github.com/coreman2200/pgb1/internal/gfx"
	"github.com/coreman2200/pgb1/internal/keys"
	"github.com/coreman2200/pgb1/internal/leds"
	"github.com/coreman2200/pgb1/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSim(t *testing.T) *Board {
	t.Helper()
	b, err := OpenSim(config.Default())
	require.NoError(t, err)
	b.Sleeper = &sim.Sleeper{}
	return b
}

func TestOpenSimShape(t *testing.T) {
	b := openSim(t)
	require.NotNil(t, b.Sim)
	assert.Equal(t, image.Rect(0, 0, 128, 64), b.Display.Bounds())
	assert.Equal(t, image.Rect(0, 0, 128, 64), b.Screen.Bounds())
	assert.Equal(t, 24, b.LEDs.Len())
	assert.Equal(t, uint8(20), b.LEDs.Brightness())
}

func TestSimScan(t *testing.T) {
	b := openSim(t)
	b.Sim.Matrix.Press(keys.K9)
	require.NoError(t, b.Scan())
	assert.Equal(t, uint32(0x00200000), b.Keyboard.State.Current)
	assert.Equal(t, 5, b.Sleeper.(*sim.Sleeper).Calls)
}

func TestFlushDisplay(t *testing.T) {
	b := openSim(t)
	require.NoError(t, b.Canvas().Draw(gfx.Px(3, 4, image1bit.On)))
	require.NoError(t, b.FlushDisplay())

	f := b.Sim.Display.Snapshot()
	assert.Equal(t, uint64(1), f.ID)
	assert.Equal(t, uint8(255), f.Image.NRGBAAt(3, 4).R)
	assert.Equal(t, uint8(0), f.Image.NRGBAAt(4, 4).R)

	b.ClearScreen()
	assert.Equal(t, image1bit.Off, b.Screen.BitAt(3, 4))
}

func TestCloseBlanksAndHalts(t *testing.T) {
	b := openSim(t)
	b.LEDs.Fill(leds.White)
	require.NoError(t, b.LEDs.Flush())
	require.NoError(t, b.Close())

	f := b.Sim.LEDs.Snapshot()
	assert.Equal(t, uint8(0), f.Image.NRGBAAt(0, 0).R)
	assert.Error(t, b.FlushDisplay())
}
