// Package sim provides stand-ins for the device hardware: an electrical model
// of the switch matrix built on periph's gpiotest pins, in-memory drawers for
// the display and LED strip, and a sleeper that only counts.
package sim

import (
	"fmt"
	"math/bits"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/coreman2200/pgb1/internal/keyboard"
	"github.com/coreman2200/pgb1/internal/keys"
)

// Matrix models the diode-less switch grid: a row reads High while any
// strobed (High) column has a closed switch onto it.
type Matrix struct {
	mu     sync.Mutex
	closed [keyboard.Columns][keyboard.Rows]bool

	Cols [keyboard.Columns]*Column
	Rows [keyboard.Rows]*gpiotest.Pin
}

// Column is a strobe line that re-evaluates the rows whenever it changes.
type Column struct {
	gpiotest.Pin
	m *Matrix
}

// Out implements gpio.PinOut.
func (c *Column) Out(l gpio.Level) error {
	if err := c.Pin.Out(l); err != nil {
		return err
	}
	c.m.update()
	return nil
}

func NewMatrix() *Matrix {
	m := &Matrix{}
	for i := range m.Cols {
		m.Cols[i] = &Column{Pin: gpiotest.Pin{N: fmt.Sprintf("COL%d", i+1), Num: i}, m: m}
	}
	for i := range m.Rows {
		m.Rows[i] = &gpiotest.Pin{N: fmt.Sprintf("ROW%d", i+1), Num: keyboard.Columns + i}
	}
	return m
}

// Strobes returns the columns in wiring order.
func (m *Matrix) Strobes() []keyboard.Strobe {
	out := make([]keyboard.Strobe, len(m.Cols))
	for i, c := range m.Cols {
		out[i] = c
	}
	return out
}

// Senses returns the rows in wiring order.
func (m *Matrix) Senses() []keyboard.Sense {
	out := make([]keyboard.Sense, len(m.Rows))
	for i, r := range m.Rows {
		out[i] = r
	}
	return out
}

// Switch opens or closes the switch between column col and row row, both
// zero based.
func (m *Matrix) Switch(col, row int, closed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed[col][row] = closed
	m.updateLocked()
}

// Set presses (down) or releases the switch wired to k.
func (m *Matrix) Set(k keys.Key, down bool) {
	col, row := Position(k)
	m.Switch(col, row, down)
}

func (m *Matrix) Press(k keys.Key)   { m.Set(k, true) }
func (m *Matrix) Release(k keys.Key) { m.Set(k, false) }

// ReleaseAll opens every switch.
func (m *Matrix) ReleaseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = [keyboard.Columns][keyboard.Rows]bool{}
	m.updateLocked()
}

// Held returns the keys whose switches are closed, in table order.
func (m *Matrix) Held() []keys.Key {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []keys.Key
	for _, k := range keys.All() {
		col, row := Position(k)
		if m.closed[col][row] {
			out = append(out, k)
		}
	}
	return out
}

// Position maps a key to the zero-based column and row of its switch, the
// inverse of the strobe order used by keyboard.Matrix.
func Position(k keys.Key) (col, row int) {
	b := bits.TrailingZeros32(k.Mask())
	return keyboard.Columns - 1 - b/keyboard.Rows, keyboard.Rows - 1 - b%keyboard.Rows
}

func (m *Matrix) update() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateLocked()
}

// updateLocked reads the strobes and drives the rows in one critical section,
// so a row never shows the switches of a column that is no longer strobed.
func (m *Matrix) updateLocked() {
	var strobed [keyboard.Columns]bool
	for i, c := range m.Cols {
		strobed[i] = c.Read() == gpio.High
	}
	for r, row := range m.Rows {
		l := gpio.Low
		for c := range strobed {
			if strobed[c] && m.closed[c][r] {
				l = gpio.High
				break
			}
		}
		_ = row.Out(l)
	}
}
