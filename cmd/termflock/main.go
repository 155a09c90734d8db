package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	golog "github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-flock-dynamics/internal/simulation"
	"github.com/lao-tseu-is-alive/go-flock-dynamics/internal/terminal"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON config file (defaults when empty)")
	seed := flag.Uint64("seed", 0, "override the config seed (0 keeps it)")
	debug := flag.Bool("debug", false, "log at debug level to stderr")
	autopilot := flag.Bool("autopilot", false, "drive the pointer with perlin noise")
	flag.Parse()

	cfg, err := simulation.Resolve(*configPath, *seed)
	if err != nil {
		log.Fatal(err)
	}
	cfg.Autopilot = cfg.Autopilot || *autopilot

	// stdout belongs to the screen
	logger := golog.DiscardLogger
	if *debug {
		logger = golog.New(golog.DebugLevel, os.Stderr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	screen.EnableMouse()

	w, h := screen.Size()
	frame := simulation.NewFrame(float64(w)*terminal.CellWidth, float64(h-1)*terminal.CellHeight)
	driver, err := simulation.NewLocalDriver(cfg, frame, logger)
	if err != nil {
		screen.Fini()
		log.Fatal(err)
	}

	err = terminal.New(screen, driver, frame, cfg, logger).Run(ctx)
	_ = driver.Close(ctx)
	screen.Fini()
	if err != nil {
		log.Fatal(err)
	}
}
