package app_test

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	. "github.com/coreman2200/pgb1/internal/app"
	"github.com/coreman2200/pgb1/internal/board"
	"github.com/coreman2200/pgb1/internal/config"
	"github.com/coreman2200/pgb1/internal/keyboard"
	"github.com/coreman2200/pgb1/internal/keys"
	"github.com/coreman2200/pgb1/internal/leds"
	"github.com/coreman2200/pgb1/internal/sim"
	"github.com/coreman2200/pgb1/internal/snake"
)

func openSim(t *testing.T) *board.Board {
	t.Helper()
	b, err := board.OpenSim(config.Default())
	require.NoError(t, err)
	b.Sleeper = &sim.Sleeper{}
	return b
}

var TestDirectionForHeldKeys = []struct {
	Held   []keys.Key
	Expect snake.Direction
}{
	{nil, snake.None},
	{[]keys.Key{keys.Up}, snake.Up},
	{[]keys.Key{keys.Down}, snake.Down},
	{[]keys.Key{keys.Left}, snake.Left},
	{[]keys.Key{keys.Right}, snake.Right},
	{[]keys.Key{keys.Right, keys.Up}, snake.Up},
	{[]keys.Key{keys.Left, keys.Down}, snake.Down},
	{[]keys.Key{keys.Right, keys.Left}, snake.Left},
	{[]keys.Key{keys.A, keys.K3}, snake.None},
}

func TestDirectionFor(t *testing.T) {
	for _, v := range TestDirectionForHeldKeys {
		var w uint32
		for _, k := range v.Held {
			w |= k.Mask()
		}
		assert.Equal(t, v.Expect, DirectionFor(keyboard.State{Current: w}), "%v", v.Held)
	}
}

func TestSnakeAppMovesWithArrows(t *testing.T) {
	b := openSim(t)
	cfg := config.Default().Snake
	a, err := NewSnake(b, &cfg)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(42, 21), a.Game.Size())

	r := NewRunner(b, a, 50*time.Millisecond)
	b.Sim.Matrix.Press(keys.Right)
	require.NoError(t, r.Poll())
	require.NoError(t, r.Poll())
	assert.Equal(t, image.Pt(2, 0), a.Game.Head())

	b.Sim.Matrix.Release(keys.Right)
	b.Sim.Matrix.Press(keys.Up)
	require.NoError(t, r.Poll())
	assert.Equal(t, image.Pt(2, 20), a.Game.Head(), "wraps off the top")

	f := b.Sim.Display.Snapshot()
	assert.Equal(t, uint64(3), f.ID)
	// head block at (6..8, 60..62)
	assert.Equal(t, uint8(255), f.Image.NRGBAAt(7, 61).R)
	assert.Equal(t, image1bit.On, b.Screen.BitAt(6, 60))
}

func TestKeypadColorsFallingKeys(t *testing.T) {
	b := openSim(t)
	kp := NewKeypad(&config.Keypad{Seed: 42})
	r := NewRunner(b, kp, 30*time.Millisecond)

	b.Sim.Matrix.Press(keys.K9)
	require.NoError(t, r.Poll())
	lit := b.LEDs.At(keys.K9.LED())
	assert.NotEqual(t, leds.Off, lit)
	for i := 0; i < b.LEDs.Len(); i++ {
		if i != keys.K9.LED() {
			assert.Equal(t, leds.Off, b.LEDs.At(i), "led %d", i)
		}
	}

	// held, not falling: color stays
	require.NoError(t, r.Poll())
	assert.Equal(t, lit, b.LEDs.At(keys.K9.LED()))
	assert.Equal(t, uint64(2), b.Sim.LEDs.Snapshot().ID)
}

func TestKeypadIgnoresNavKeys(t *testing.T) {
	b := openSim(t)
	r := NewRunner(b, NewKeypad(&config.Keypad{Seed: 1}), 30*time.Millisecond)
	for _, k := range []keys.Key{keys.Left, keys.Right, keys.A, keys.B} {
		b.Sim.Matrix.Press(k)
	}
	require.NoError(t, r.Poll())
	assert.Equal(t, make([]leds.Color, 24), b.LEDs.Colors())
	assert.Equal(t, uint8(20), b.LEDs.Brightness())
}

func TestKeypadBrightness(t *testing.T) {
	b := openSim(t)
	r := NewRunner(b, NewKeypad(&config.Keypad{}), 30*time.Millisecond)

	b.Sim.Matrix.Press(keys.Up)
	for i := 0; i < 5; i++ {
		require.NoError(t, r.Poll())
	}
	assert.Equal(t, uint8(25), b.LEDs.Brightness())
	displayFrames := b.Sim.Display.Snapshot().ID
	assert.Equal(t, uint64(5), displayFrames)

	b.Sim.Matrix.Release(keys.Up)
	require.NoError(t, r.Poll())
	assert.Equal(t, displayFrames, b.Sim.Display.Snapshot().ID, "unchanged status is not redrawn")

	b.LEDs.SetBrightness(255)
	b.Sim.Matrix.Press(keys.Up)
	require.NoError(t, r.Poll())
	assert.Equal(t, uint8(255), b.LEDs.Brightness())

	b.Sim.Matrix.Release(keys.Up)
	b.LEDs.SetBrightness(1)
	b.Sim.Matrix.Press(keys.Down)
	require.NoError(t, r.Poll())
	require.NoError(t, r.Poll())
	assert.Equal(t, uint8(0), b.LEDs.Brightness())
}

type failing struct{ calls int }

func (f *failing) Name() string { return "failing" }

func (f *failing) Update(*board.Board) error {
	f.calls++
	return errors.New("boom")
}

func TestRunnerKeepsGoingOnErrors(t *testing.T) {
	b := openSim(t)
	clk := clockwork.NewFakeClock()
	a := &failing{}
	r := NewRunner(b, a, 10*time.Millisecond)
	r.Clock = clk

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	for i := 0; i < 3; i++ {
		clk.BlockUntil(1)
		clk.Advance(10 * time.Millisecond)
		require.Eventually(t, func() bool { return r.Polls() == uint64(i+1) }, time.Second, time.Millisecond)
	}
	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, uint64(3), r.Errors())
	assert.Equal(t, 3, a.calls)
}

func TestRunnerRejectsZeroPeriod(t *testing.T) {
	r := NewRunner(openSim(t), &failing{}, 0)
	assert.Error(t, r.Run(context.Background()))
}
