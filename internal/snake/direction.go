package snake

import "image"

// Direction is where the head moves each step. The zero value stands still.
type Direction uint8

const (
	None Direction = iota
	Left
	Right
	Up
	Down
)

var directionNames = [...]string{"none", "left", "right", "up", "down"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "invalid"
}

// Delta is the unit step for d; None and unknown values do not move.
func (d Direction) Delta() image.Point {
	switch d {
	case Left:
		return image.Pt(-1, 0)
	case Right:
		return image.Pt(1, 0)
	case Up:
		return image.Pt(0, -1)
	case Down:
		return image.Pt(0, 1)
	}
	return image.Point{}
}
