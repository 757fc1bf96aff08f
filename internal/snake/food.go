package snake

import "image"

// Source produces uniformly distributed 32 bit words.
// golang.org/x/exp/rand.Rand satisfies it.
type Source interface {
	Uint32() uint32
}

// Food is the single pellet on the grid and the random source that places it.
type Food[R Source] struct {
	At  image.Point
	rng R
}

func newFood[R Source](rng R) *Food[R] {
	return &Food[R]{rng: rng}
}

// Replace moves the pellet to a random cell of a size grid not listed in
// occupied. Each attempt consumes one word from the source: its top byte
// picks x and the next byte picks y, both modulo the grid.
//
// Replace does not return while every cell is occupied.
func (f *Food[R]) Replace(size image.Point, occupied []image.Point) {
	for {
		r := f.rng.Uint32()
		p := image.Pt(int(uint8(r>>24))%size.X, int(uint8(r>>16))%size.Y)
		if !contains(occupied, p) {
			f.At = p
			return
		}
	}
}

func contains(pts []image.Point, p image.Point) bool {
	for _, q := range pts {
		if q == p {
			return true
		}
	}
	return false
}
