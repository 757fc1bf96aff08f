package app

import (
	"golang.org/x/exp/rand"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/coreman2200/pgb1/internal/board"
	"github.com/coreman2200/pgb1/internal/config"
	"github.com/coreman2200/pgb1/internal/keyboard"
	"github.com/coreman2200/pgb1/internal/keys"
	"github.com/coreman2200/pgb1/internal/snake"
)

// Snake steers the game with the arrow keys and redraws the whole screen
// every poll.
type Snake struct {
	Game *snake.Game[image1bit.Bit, *rand.Rand]
}

func NewSnake(b *board.Board, cfg *config.Snake) (*Snake, error) {
	bounds := b.Screen.Bounds()
	g, err := snake.NewGame[image1bit.Bit](snake.Config{
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
		ScaleX:       cfg.ScaleX,
		ScaleY:       cfg.ScaleY,
		MaxSize:      cfg.MaxSize,
		FoodLifetime: cfg.FoodLifetime,
	}, rand.New(rand.NewSource(cfg.Seed)), image1bit.On, image1bit.On)
	if err != nil {
		return nil, err
	}
	return &Snake{Game: g}, nil
}

func (s *Snake) Name() string { return "snake" }

func (s *Snake) Update(b *board.Board) error {
	s.Game.SetDirection(DirectionFor(b.Keyboard.State))
	b.ClearScreen()
	if err := s.Game.Tick(b.Canvas()); err != nil {
		return err
	}
	return b.FlushDisplay()
}

// DirectionFor maps the held arrow keys to a direction. UP wins over DOWN,
// DOWN over LEFT and LEFT over RIGHT; with none held the snake stands still.
func DirectionFor(s keyboard.State) snake.Direction {
	switch {
	case s.Pressed(keys.Up):
		return snake.Up
	case s.Pressed(keys.Down):
		return snake.Down
	case s.Pressed(keys.Left):
		return snake.Left
	case s.Pressed(keys.Right):
		return snake.Right
	}
	return snake.None
}
