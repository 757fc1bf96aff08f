package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/pgb1/internal/app"
	"github.com/coreman2200/pgb1/internal/board"
	"github.com/coreman2200/pgb1/internal/config"
	"github.com/coreman2200/pgb1/internal/leds"
	"github.com/coreman2200/pgb1/internal/ws"
)

func main() {
	// ---- Flags (override config.yaml when set) ----
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		driver     = flag.String("driver", "", "driver: hw | sim")
		appName    = flag.String("app", "", "program: snake | keypad")
		addr       = flag.String("addr", "", "preview HTTP listen address (sim driver only)")
		selfTest   = flag.Bool("selftest", false, "run the LED self test before starting")
		logLevel   = flag.String("log-level", "info", "zerolog level")
		seed       = flag.Uint64("seed", 0, "random seed for the app (0 keeps the configured one)")
		brightness = flag.Int("brightness", -1, "LED brightness 0..255 (-1 keeps the configured one)")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	if lvl, err := zerolog.ParseLevel(*logLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Err(err).Str("level", *logLevel).Msg("bad log level; using info")
	}

	// ---- Config ----
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; using defaults")
		cfg = config.Default()
	}
	if *driver != "" {
		cfg.Driver = *driver
	}
	if *appName != "" {
		cfg.App = *appName
	}
	if *addr != "" {
		cfg.Preview.Addr = *addr
	}
	if *seed != 0 {
		cfg.Snake.Seed = *seed
		cfg.Keypad.Seed = *seed
	}
	if *brightness >= 0 && *brightness <= 255 {
		cfg.LEDs.Brightness = uint8(*brightness)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	if err := run(cfg, *selfTest); err != nil {
		log.Fatal().Err(err).Msg("pgb1")
	}
}

// openBoard is replaced in tests.
var openBoard = func(cfg *config.Config) (*board.Board, error) {
	if cfg.Driver == "sim" {
		return board.OpenSim(cfg)
	}
	return board.Open(cfg)
}

// run owns the board from open to close; every return path blanks the LEDs
// and halts the display.
func run(cfg *config.Config, selfTest bool) (err error) {
	// ---- Board ----
	b, err := openBoard(cfg)
	if err != nil {
		return fmt.Errorf("board open (driver %s): %w", cfg.Driver, err)
	}
	defer func() {
		if cerr := b.Close(); cerr != nil {
			log.Error().Err(cerr).Msg("board close")
			err = errors.Join(err, cerr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if selfTest {
		if err := leds.RunSelfTest(ctx, b.LEDs, b.Clock, 100*time.Millisecond); err != nil {
			log.Error().Err(err).Msg("self test")
		}
	}

	// ---- App ----
	var (
		a      app.App
		period time.Duration
	)
	switch cfg.App {
	case "keypad":
		a, period = app.NewKeypad(&cfg.Keypad), time.Duration(cfg.Keypad.PollMs)*time.Millisecond
	default:
		s, err := app.NewSnake(b, &cfg.Snake)
		if err != nil {
			return err
		}
		a, period = s, time.Duration(cfg.Snake.TickMs)*time.Millisecond
	}

	// ---- Preview server (sim only) ----
	var srv *http.Server
	if b.Sim != nil && cfg.Preview.Addr != "" {
		s, err := ws.New(b, a.Name())
		if err != nil {
			return err
		}
		srv = &http.Server{
			Addr:         cfg.Preview.Addr,
			Handler:      withCORS(s.Handler()),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			log.Info().Str("addr", srv.Addr).Msg("HTTP server starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("http server crashed")
				stop()
			}
		}()
	}

	// ---- Run until signalled ----
	if err := app.NewRunner(b, a, period).Run(ctx); err != nil {
		log.Error().Err(err).Msg("run")
	}
	log.Info().Msg("shutting down")
	if srv != nil {
		_ = srv.Close()
	}
	return nil
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
