package gfx

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Outline draws the one pixel border of r.
func Outline[C any](t Target[C], r image.Rectangle, c C) error {
	if r.Empty() {
		return nil
	}
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		if err := t.Fill(e, c); err != nil {
			return err
		}
	}
	return nil
}

// Line draws from a to b inclusive.
func Line[C any](t Target[C], a, b image.Point, c C) error {
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := sign(b.X-a.X), sign(b.Y-a.Y)
	e := dx + dy
	var px []Pixel[C]
	for p := a; ; {
		px = append(px, Pixel[C]{Pt: p, C: c})
		if p == b {
			break
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			p.X += sx
		}
		if e2 <= dx {
			e += dx
			p.Y += sy
		}
	}
	return t.Draw(px...)
}

// Circle draws the outline of the circle of diameter d whose bounding box
// starts at topLeft.
func Circle[C any](t Target[C], topLeft image.Point, d int, c C) error {
	if d <= 0 {
		return nil
	}
	// work in half pixels so even diameters stay centered
	r2 := d - 1
	lo := max(r2-1, 0)
	cx2, cy2 := 2*topLeft.X+r2, 2*topLeft.Y+r2
	var px []Pixel[C]
	for y := 0; y < d; y++ {
		for x := 0; x < d; x++ {
			ox, oy := 2*(topLeft.X+x)-cx2, 2*(topLeft.Y+y)-cy2
			dist := ox*ox + oy*oy
			if dist >= lo*lo && dist <= (r2+1)*(r2+1) {
				px = append(px, Pixel[C]{Pt: image.Pt(topLeft.X+x, topLeft.Y+y), C: c})
			}
		}
	}
	return t.Draw(px...)
}

// Text writes s in a 7x13 bitmap font with its baseline starting at dot.
func Text(dst draw.Image, dot image.Point, s string, c color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(dot.X, dot.Y),
	}
	d.DrawString(s)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
