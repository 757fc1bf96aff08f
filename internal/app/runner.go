// Package app runs the device programs: a fixed cadence poll loop that scans
// the keyboard and lets the active App update the display and LEDs.
package app

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/pgb1/internal/board"
)

// App is one program. Update is called once per poll, right after the scan,
// with the freshly scanned keyboard state on b.
type App interface {
	Name() string
	Update(b *board.Board) error
}

// Runner owns the board and drives the poll loop.
type Runner struct {
	Board  *board.Board
	App    App
	Period time.Duration
	Clock  clockwork.Clock

	polls  atomic.Uint64
	errors atomic.Uint64
}

func NewRunner(b *board.Board, a App, period time.Duration) *Runner {
	return &Runner{Board: b, App: a, Period: period, Clock: b.Clock}
}

// Poll scans once and updates the app.
func (r *Runner) Poll() error {
	r.polls.Add(1)
	if err := r.Board.Scan(); err != nil {
		return err
	}
	return r.App.Update(r.Board)
}

// Run polls every Period until ctx is done. Poll errors are logged and the
// loop carries on.
func (r *Runner) Run(ctx context.Context) error {
	if r.Period <= 0 {
		return errors.New("app: period must be positive")
	}
	log.Info().Str("app", r.App.Name()).Dur("period", r.Period).Msg("app: running")

	t := r.Clock.NewTicker(r.Period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().
				Str("app", r.App.Name()).
				Uint64("polls", r.polls.Load()).
				Uint64("errors", r.errors.Load()).
				Msg("app: stopped")
			return nil
		case <-t.Chan():
			if err := r.Poll(); err != nil {
				r.errors.Add(1)
				log.Error().Err(err).Str("app", r.App.Name()).Msg("app: poll")
			}
		}
	}
}

func (r *Runner) Polls() uint64  { return r.polls.Load() }
func (r *Runner) Errors() uint64 { return r.errors.Load() }
