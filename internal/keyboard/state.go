package keyboard

import "github.com/coreman2200/pgb1/internal/keys"

// State holds the current and previous scan words.
type State struct {
	Current  uint32
	Previous uint32
}

// Push shifts w in as the newest scan.
func (s *State) Push(w uint32) {
	s.Previous = s.Current
	s.Current = w
}

// Pressed reports whether k is held in the latest scan.
func (s State) Pressed(k keys.Key) bool {
	return s.Current&k.Mask() != 0
}

// Falling reports whether k went down between the last two scans.
func (s State) Falling(k keys.Key) bool {
	return s.Current&^s.Previous&k.Mask() != 0
}

// Rising reports whether k came up between the last two scans.
func (s State) Rising(k keys.Key) bool {
	return s.Previous&^s.Current&k.Mask() != 0
}

func (s State) Any() bool { return s.Current != 0 }

// Falls lists the keys that went down this scan, in table order.
func (s State) Falls() []keys.Key { return keys.Masked(s.Current &^ s.Previous) }

// Rises lists the keys that came up this scan, in table order.
func (s State) Rises() []keys.Key { return keys.Masked(s.Previous &^ s.Current) }
