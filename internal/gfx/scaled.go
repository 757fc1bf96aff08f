package gfx

import (
	"fmt"
	"image"
)

// Scaled presents dst as a coarser grid. Logical pixel (x, y) covers the
// physical block [x*sx, x*sx+sx) x [y*sy, y*sy+sy).
type Scaled[C any] struct {
	dst   Target[C]
	scale image.Point
	size  image.Point
}

// NewScaled wraps dst. The logical size is dst.Size() divided by scale,
// rounded down; any remainder strip on the right or bottom is never drawn.
func NewScaled[C any](dst Target[C], scale image.Point) (*Scaled[C], error) {
	if scale.X < 1 || scale.Y < 1 {
		return nil, fmt.Errorf("gfx: invalid scale %v", scale)
	}
	phys := dst.Size()
	return &Scaled[C]{
		dst:   dst,
		scale: scale,
		size:  image.Pt(phys.X/scale.X, phys.Y/scale.Y),
	}, nil
}

func (s *Scaled[C]) Size() image.Point  { return s.size }
func (s *Scaled[C]) Scale() image.Point { return s.scale }

// Block returns the physical rectangle behind logical point p.
func (s *Scaled[C]) Block(p image.Point) image.Rectangle {
	o := image.Pt(p.X*s.scale.X, p.Y*s.scale.Y)
	return image.Rectangle{Min: o, Max: o.Add(s.scale)}
}

func (s *Scaled[C]) Draw(px ...Pixel[C]) error {
	for _, p := range px {
		if err := s.dst.Fill(s.Block(p.Pt), p.C); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scaled[C]) Fill(r image.Rectangle, c C) error {
	r = image.Rect(r.Min.X*s.scale.X, r.Min.Y*s.scale.Y, r.Max.X*s.scale.X, r.Max.Y*s.scale.Y)
	return s.dst.Fill(r, c)
}
