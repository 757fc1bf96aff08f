// Package gfx defines the drawable surface the games render into and two
// implementations: Canvas over any draw.Image and Scaled, which magnifies
// another Target by an integer factor per axis.
package gfx

import (
	"image"
	"image/color"
	"image/draw"
)

// Pixel is one colored point.
type Pixel[C any] struct {
	Pt image.Point
	C  C
}

func Px[C any](x, y int, c C) Pixel[C] {
	return Pixel[C]{Pt: image.Pt(x, y), C: c}
}

// Target is a surface of colors C.
type Target[C any] interface {
	Size() image.Point
	Draw(px ...Pixel[C]) error
	Fill(r image.Rectangle, c C) error
}

// Canvas draws onto a draw.Image, converting colors with conv. Points
// outside the image are clipped.
type Canvas[C any] struct {
	img  draw.Image
	conv func(C) color.Color
}

func NewCanvas[C any](img draw.Image, conv func(C) color.Color) *Canvas[C] {
	return &Canvas[C]{img: img, conv: conv}
}

// Identity is the converter for a Canvas whose colors already are color.Color.
func Identity(c color.Color) color.Color { return c }

func (c *Canvas[C]) Image() draw.Image { return c.img }

func (c *Canvas[C]) Size() image.Point { return c.img.Bounds().Size() }

func (c *Canvas[C]) Draw(px ...Pixel[C]) error {
	b := c.img.Bounds()
	for _, p := range px {
		pt := p.Pt.Add(b.Min)
		if !pt.In(b) {
			continue
		}
		c.img.Set(pt.X, pt.Y, c.conv(p.C))
	}
	return nil
}

func (c *Canvas[C]) Fill(r image.Rectangle, col C) error {
	b := c.img.Bounds()
	r = r.Add(b.Min).Intersect(b)
	if r.Empty() {
		return nil
	}
	draw.Draw(c.img, r, image.NewUniform(c.conv(col)), image.Point{}, draw.Src)
	return nil
}

// Clear fills the whole canvas with col.
func (c *Canvas[C]) Clear(col C) error {
	return c.Fill(image.Rectangle{Max: c.Size()}, col)
}
