package snake

import "image"

// InitialLength is the number of segments a new snake starts with, all
// stacked on the origin.
const InitialLength = 5

// Snake is a fixed-capacity chain of grid cells, parts[0] being the head.
// It never grows past capacity-1 segments.
type Snake struct {
	parts []image.Point
	n     int
	dir   Direction
	size  image.Point
}

func newSnake(capacity int, size image.Point) *Snake {
	n := InitialLength
	if n > capacity-1 {
		n = capacity - 1
	}
	return &Snake{parts: make([]image.Point, capacity), n: n, size: size}
}

func (s *Snake) Len() int             { return s.n }
func (s *Snake) Head() image.Point    { return s.parts[0] }
func (s *Snake) Direction() Direction { return s.dir }

// Parts returns the live segments, head first. The slice aliases the snake.
func (s *Snake) Parts() []image.Point { return s.parts[:s.n] }

// move shifts the body one cell towards the head and advances the head,
// wrapping on every edge.
func (s *Snake) move() {
	for i := s.n; i > 0; i-- {
		s.parts[i] = s.parts[i-1]
	}
	h := s.parts[0].Add(s.dir.Delta())
	h.X = wrap(h.X, s.size.X)
	h.Y = wrap(h.Y, s.size.Y)
	s.parts[0] = h
}

// grow adds the tail cell shifted out by the last move.
func (s *Snake) grow() bool {
	if s.n >= len(s.parts)-1 {
		return false
	}
	s.n++
	return true
}

func wrap(v, n int) int {
	switch {
	case v < 0:
		return n - 1
	case v >= n:
		return 0
	}
	return v
}
