package sim

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
)

// Drawer is an in-memory display.Drawer. Every Draw lands in an NRGBA frame
// buffer and is handed to subscribers.
type Drawer struct {
	name  string
	model color.Model

	mu     sync.Mutex
	buf    *image.NRGBA
	frames uint64
	halted bool
	subs   []func(Frame)
}

// Frame is a snapshot handed to subscribers.
type Frame struct {
	Source string
	ID     uint64
	Image  *image.NRGBA
}

func NewDrawer(name string, r image.Rectangle, model color.Model) *Drawer {
	return &Drawer{name: name, model: model, buf: image.NewNRGBA(r)}
}

func (d *Drawer) String() string {
	return fmt.Sprintf("sim.Drawer{%s %dx%d}", d.name, d.buf.Rect.Dx(), d.buf.Rect.Dy())
}

func (d *Drawer) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.halted = true
	return nil
}

func (d *Drawer) ColorModel() color.Model { return d.model }

func (d *Drawer) Bounds() image.Rectangle { return d.buf.Rect }

// Draw implements display.Drawer. Colors pass through the drawer's model
// first so the buffer holds what the real device would show.
func (d *Drawer) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	d.mu.Lock()
	if d.halted {
		d.mu.Unlock()
		return errors.New("sim: halted")
	}
	dst = dst.Intersect(d.buf.Rect)
	for y := dst.Min.Y; y < dst.Max.Y; y++ {
		for x := dst.Min.X; x < dst.Max.X; x++ {
			c := src.At(sp.X+x-dst.Min.X, sp.Y+y-dst.Min.Y)
			if d.model != nil {
				c = d.model.Convert(c)
			}
			d.buf.Set(x, y, c)
		}
	}
	d.frames++
	f := Frame{Source: d.name, ID: d.frames, Image: cloneNRGBA(d.buf)}
	subs := append([]func(Frame){}, d.subs...)
	d.mu.Unlock()

	for _, fn := range subs {
		fn(f)
	}
	return nil
}

// Subscribe registers fn to receive every frame drawn from now on.
func (d *Drawer) Subscribe(fn func(Frame)) {
	d.mu.Lock()
	d.subs = append(d.subs, fn)
	d.mu.Unlock()
}

// Snapshot returns a copy of the current frame buffer and its frame count.
func (d *Drawer) Snapshot() Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Frame{Source: d.name, ID: d.frames, Image: cloneNRGBA(d.buf)}
}

func cloneNRGBA(src *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(src.Rect)
	draw.Draw(out, out.Rect, src, src.Rect.Min, draw.Src)
	return out
}
