package main

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/coreman2200/pgb1/internal/board"
	"github.com/coreman2200/pgb1/internal/config"
	"github.com/coreman2200/pgb1/internal/leds"
	"github.com/coreman2200/pgb1/internal/snake"
)

// captureBoard opens sim boards and remembers the last one.
func captureBoard(t *testing.T) **board.Board {
	t.Helper()
	var got *board.Board
	prev := openBoard
	openBoard = func(cfg *config.Config) (*board.Board, error) {
		b, err := board.OpenSim(cfg)
		got = b
		return b, err
	}
	t.Cleanup(func() { openBoard = prev })
	return &got
}

func TestRunClosesBoardWhenAppFails(t *testing.T) {
	got := captureBoard(t)
	cfg := config.Default()
	cfg.Driver = "sim"
	cfg.Preview.Addr = ""
	cfg.Snake.ScaleX = 100 // 128x64 at 100x3 is a single column, too small

	err := run(cfg, false)
	require.ErrorIs(t, err, snake.ErrGridTooSmall)

	b := *got
	require.NotNil(t, b)
	assert.Error(t, b.Sim.Display.Draw(b.Sim.Display.Bounds(), image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64)), image.Point{}), "display halted")
	assert.Equal(t, make([]leds.Color, 24), b.LEDs.Colors(), "strip blanked")
	assert.Error(t, b.LEDs.Flush(), "strip drawer halted")
}

func TestRunReportsOpenFailure(t *testing.T) {
	fault := errors.New("no spi")
	prev := openBoard
	openBoard = func(*config.Config) (*board.Board, error) { return nil, fault }
	t.Cleanup(func() { openBoard = prev })

	assert.ErrorIs(t, run(config.Default(), false), fault)
}
