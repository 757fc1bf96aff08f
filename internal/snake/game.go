// Package snake is a wrap-around snake game drawn onto a magnified gfx.Target.
// There is no game over: the snake may cross itself and reverse freely.
package snake

import (
	"errors"
	"fmt"
	"image"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/pgb1/internal/gfx"
)

var (
	// ErrGridTooSmall means a full-grown snake could cover every cell,
	// leaving nowhere to put the food.
	ErrGridTooSmall = errors.New("snake: grid too small for snake capacity")
	// ErrGridTooLarge means an axis has more cells than a random byte can
	// address.
	ErrGridTooLarge = errors.New("snake: grid axis larger than 256 cells")
	// ErrTargetSize means Draw was handed a target other than the one the
	// game was sized for.
	ErrTargetSize = errors.New("snake: draw target does not match grid")
)

// Config sizes a game. Width and Height are physical pixels of the target.
type Config struct {
	Width, Height  int
	ScaleX, ScaleY int
	// MaxSize is the segment capacity; the snake grows to MaxSize-1.
	MaxSize      int
	FoodLifetime int
}

// Game holds one snake and one food pellet.
type Game[C any, R Source] struct {
	snake    *Snake
	food     *Food[R]
	foodAge  int
	lifetime int
	size     image.Point
	scale    image.Point

	snakeColor C
	foodColor  C
}

// NewGame builds a game and places the first pellet using rng.
func NewGame[C any, R Source](cfg Config, rng R, snakeColor, foodColor C) (*Game[C, R], error) {
	if cfg.ScaleX < 1 || cfg.ScaleY < 1 {
		return nil, fmt.Errorf("snake: invalid scale %dx%d", cfg.ScaleX, cfg.ScaleY)
	}
	if cfg.MaxSize < 2 {
		return nil, fmt.Errorf("snake: capacity %d below 2", cfg.MaxSize)
	}
	if cfg.FoodLifetime < 0 {
		return nil, fmt.Errorf("snake: negative food lifetime %d", cfg.FoodLifetime)
	}
	size := image.Pt(cfg.Width/cfg.ScaleX, cfg.Height/cfg.ScaleY)
	if size.X < 1 || size.Y < 1 {
		return nil, fmt.Errorf("%w: %v", ErrGridTooSmall, size)
	}
	if size.X > 256 || size.Y > 256 {
		return nil, fmt.Errorf("%w: %v", ErrGridTooLarge, size)
	}
	if size.X*size.Y <= cfg.MaxSize-1 {
		return nil, fmt.Errorf("%w: %v cells, capacity %d", ErrGridTooSmall, size, cfg.MaxSize)
	}
	if cfg.Width%cfg.ScaleX != 0 || cfg.Height%cfg.ScaleY != 0 {
		log.Warn().
			Int("width", cfg.Width).
			Int("height", cfg.Height).
			Int("scale_x", cfg.ScaleX).
			Int("scale_y", cfg.ScaleY).
			Msg("snake: display not a multiple of scale, edge strip unused")
	}

	g := &Game[C, R]{
		snake:      newSnake(cfg.MaxSize, size),
		food:       newFood(rng),
		lifetime:   cfg.FoodLifetime,
		size:       size,
		scale:      image.Pt(cfg.ScaleX, cfg.ScaleY),
		snakeColor: snakeColor,
		foodColor:  foodColor,
	}
	g.food.Replace(size, g.snake.Parts())
	return g, nil
}

// SetDirection takes effect on the next Step. Reversal is not prevented.
func (g *Game[C, R]) SetDirection(d Direction) { g.snake.dir = d }

func (g *Game[C, R]) Direction() Direction { return g.snake.dir }

// Step advances the game one tick without drawing and reports whether the
// food was eaten.
func (g *Game[C, R]) Step() bool {
	g.snake.move()
	hit := g.snake.Head() == g.food.At
	if hit {
		g.snake.grow()
	}
	g.foodAge++
	if g.foodAge >= g.lifetime || hit {
		g.food.Replace(g.size, g.snake.Parts())
		g.foodAge = 0
	}
	return hit
}

// Draw paints the live segments and the food onto dst, magnified by the
// configured scale.
func (g *Game[C, R]) Draw(dst gfx.Target[C]) error {
	view, err := gfx.NewScaled(dst, g.scale)
	if err != nil {
		return err
	}
	if view.Size() != g.size {
		return fmt.Errorf("%w: target holds %v cells, game is %v", ErrTargetSize, view.Size(), g.size)
	}
	parts := g.snake.Parts()
	px := make([]gfx.Pixel[C], 0, len(parts)+1)
	for _, p := range parts {
		px = append(px, gfx.Pixel[C]{Pt: p, C: g.snakeColor})
	}
	px = append(px, gfx.Pixel[C]{Pt: g.food.At, C: g.foodColor})
	return view.Draw(px...)
}

// Tick is Step followed by Draw.
func (g *Game[C, R]) Tick(dst gfx.Target[C]) error {
	g.Step()
	return g.Draw(dst)
}

func (g *Game[C, R]) Len() int             { return g.snake.Len() }
func (g *Game[C, R]) Head() image.Point    { return g.snake.Head() }
func (g *Game[C, R]) Parts() []image.Point { return g.snake.Parts() }
func (g *Game[C, R]) FoodAt() image.Point  { return g.food.At }
func (g *Game[C, R]) FoodAge() int         { return g.foodAge }
func (g *Game[C, R]) Size() image.Point    { return g.size }
func (g *Game[C, R]) Scale() image.Point   { return g.scale }
func (g *Game[C, R]) Snake() *Snake        { return g.snake }
