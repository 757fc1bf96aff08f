// Package keyboard scans the strobed column/row button matrix and keeps the
// last two scan words so callers can ask for levels and edges.
package keyboard

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

const (
	Columns = 5
	Rows    = 6

	// SettleTime is how long a strobed column is held before its rows are
	// sampled.
	SettleTime = time.Millisecond
)

// Strobe is a column line. periph gpio.PinOut satisfies it.
type Strobe interface {
	Out(l gpio.Level) error
}

// Sense is a row line. periph gpio.PinIn satisfies it.
type Sense interface {
	Read() gpio.Level
}

// Sleeper blocks the caller. clockwork.Clock satisfies it.
type Sleeper interface {
	Sleep(d time.Duration)
}

// Matrix owns the column and row lines of the keyboard.
type Matrix struct {
	State  State
	Settle time.Duration

	cols [Columns]Strobe
	rows [Rows]Sense
}

// New returns a Matrix over exactly Columns strobes and Rows senses, listed
// in wiring order (column 1 and row 1 first).
func New(cols []Strobe, rows []Sense) (*Matrix, error) {
	if len(cols) != Columns {
		return nil, fmt.Errorf("keyboard: need %d columns, got %d", Columns, len(cols))
	}
	if len(rows) != Rows {
		return nil, fmt.Errorf("keyboard: need %d rows, got %d", Rows, len(rows))
	}
	m := &Matrix{Settle: SettleTime}
	for i, c := range cols {
		if c == nil {
			return nil, fmt.Errorf("keyboard: column %d is nil", i+1)
		}
		m.cols[i] = c
	}
	for i, r := range rows {
		if r == nil {
			return nil, fmt.Errorf("keyboard: row %d is nil", i+1)
		}
		m.rows[i] = r
	}
	return m, nil
}

// Scan strobes the matrix once and pushes the result into m.State. On error
// State is left as it was.
func (m *Matrix) Scan(s Sleeper) error {
	w, err := m.Raw(s)
	if err != nil {
		return err
	}
	m.State.Push(w)
	return nil
}

// Raw strobes the matrix and returns the 30-bit word without touching State.
//
// Columns are strobed in order; each contributes its rows, row 1 first, as
// the next 6 bits shifted in from the right. Every column is low on return.
func (m *Matrix) Raw(s Sleeper) (uint32, error) {
	if err := m.release(); err != nil {
		return 0, err
	}
	var w uint32
	for i, c := range m.cols {
		if err := c.Out(gpio.High); err != nil {
			return 0, m.abort(i, err)
		}
		s.Sleep(m.Settle)
		for _, r := range m.rows {
			w <<= 1
			if r.Read() == gpio.High {
				w |= 1
			}
		}
		if err := c.Out(gpio.Low); err != nil {
			return 0, m.abort(i, err)
		}
	}
	return w, nil
}

// release drives every column low, trying all of them even if one fails.
func (m *Matrix) release() error {
	var errs []error
	for i, c := range m.cols {
		if err := c.Out(gpio.Low); err != nil {
			errs = append(errs, fmt.Errorf("keyboard: release column %d (%v): %w", i+1, c, err))
		}
	}
	return errors.Join(errs...)
}

func (m *Matrix) abort(col int, err error) error {
	err = fmt.Errorf("keyboard: strobe column %d (%v): %w", col+1, m.cols[col], err)
	if rerr := m.release(); rerr != nil {
		return errors.Join(err, rerr)
	}
	return err
}
