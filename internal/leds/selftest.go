package leds

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type TestKind string

const (
	IndexSweep  TestKind = "index_sweep"
	RGBChannels TestKind = "rgb_channels"
)

// SelfTest steps through a test pattern one frame at a time.
type SelfTest struct {
	kind TestKind
	step int
}

func NewSelfTest(kind TestKind) *SelfTest { return &SelfTest{kind: kind} }

func (t *SelfTest) Kind() TestKind { return t.kind }

// Step paints the next frame into s and returns false once the pattern is
// complete. It does not flush.
func (t *SelfTest) Step(s *Strip) bool {
	s.Fill(Off)
	switch t.kind {
	case IndexSweep:
		if t.step >= s.Len() {
			return false
		}
		s.pixels[t.step] = White
	case RGBChannels:
		if t.step >= 3 {
			return false
		}
		s.Fill([3]Color{RGB(255, 0, 0), RGB(0, 255, 0), RGB(0, 0, 255)}[t.step])
	default:
		return false
	}
	t.step++
	return true
}

// Sleeper blocks the caller. clockwork.Clock satisfies it.
type Sleeper interface {
	Sleep(d time.Duration)
}

// RunSelfTest plays every pattern on s, holding each frame for hold, and
// leaves the strip cleared.
func RunSelfTest(ctx context.Context, s *Strip, clk Sleeper, hold time.Duration) error {
	for _, k := range []TestKind{IndexSweep, RGBChannels} {
		log.Info().Str("test", string(k)).Msg("leds: self test")
		t := NewSelfTest(k)
		for t.Step(s) {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.Flush(); err != nil {
				return err
			}
			clk.Sleep(hold)
		}
	}
	return s.Clear()
}
