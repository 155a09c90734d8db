package main

import (
	"context"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/lao-tseu-is-alive/go-flock-dynamics/internal/render"
	"github.com/lao-tseu-is-alive/go-flock-dynamics/internal/simulation"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON config file (defaults when empty)")
	seed := flag.Uint64("seed", 0, "override the config seed (0 keeps it)")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	cfg, err := simulation.Resolve(*configPath, *seed)
	if err != nil {
		log.Fatal(err)
	}
	logger := simulation.NewLogger(*debug)
	ctx := context.Background()

	// The flock steps on the ebiten update goroutine
	frame := simulation.NewFrame(cfg.WorldWidth, cfg.WorldHeight)
	driver, err := simulation.NewLocalDriver(cfg, frame, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer driver.Close(ctx)

	ebiten.SetWindowSize(int(cfg.WorldWidth), int(cfg.WorldHeight))
	ebiten.SetWindowTitle("Boids")
	ebiten.SetTPS(cfg.TicksPerSecond)
	if err := ebiten.RunGame(render.NewGame(ctx, cfg, driver, frame, logger)); err != nil {
		log.Fatal(err)
	}
}
