package sim

import (
	"sync"
	"time"
)

// Sleeper records requested sleeps without blocking.
type Sleeper struct {
	mu    sync.Mutex
	Calls int
	Total time.Duration
}

func (s *Sleeper) Sleep(d time.Duration) {
	s.mu.Lock()
	s.Calls++
	s.Total += d
	s.mu.Unlock()
}
