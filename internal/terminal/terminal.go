// Package terminal runs a flock inside a character terminal through tcell.
//
// Every cell covers CellWidth×CellHeight world units, so resizing the
// terminal resizes the world the flock lives in. The bottom row holds the
// status line.
package terminal

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	golog "github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-flock-dynamics/internal/simulation"
	"github.com/lao-tseu-is-alive/go-flock-dynamics/pkg/geometry"
)

// World units covered by one terminal cell. Cells are about twice as tall
// as they are wide.
const (
	CellWidth  = 6.0
	CellHeight = 12.0
)

const autopilotStep = 0.01

var (
	boidStyle    = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	tailStyle    = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	pointerStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	statusStyle  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
)

// arrows indexed by heading in eighths of a turn; screen y grows downward
var arrows = [8]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

// App owns the screen loop of the terminal front end.
type App struct {
	screen tcell.Screen
	driver simulation.Driver
	frame  *simulation.Frame
	wander *simulation.Wanderer
	logger golog.Logger
	tick   time.Duration

	width, height int // cells
	autopilot     bool
	paused        bool
	tails         bool
}

// New binds an initialised screen to driver. The frame is resized to the
// screen straight away.
func New(screen tcell.Screen, driver simulation.Driver, frame *simulation.Frame, cfg *simulation.Config, logger golog.Logger) *App {
	a := &App{
		screen:    screen,
		driver:    driver,
		frame:     frame,
		wander:    simulation.NewWanderer(int64(cfg.Seed), autopilotStep),
		logger:    logger,
		tick:      time.Second / time.Duration(max(1, cfg.TicksPerSecond)),
		autopilot: cfg.Autopilot,
		tails:     cfg.DisplayTails,
	}
	a.resize()
	return a
}

func (a *App) resize() {
	a.width, a.height = a.screen.Size()
	rows := max(1, a.height-1)
	a.frame.Resize(float64(a.width)*CellWidth, float64(rows)*CellHeight)
}

// toWorld returns the world point at the centre of a cell.
func toWorld(x, y int) geometry.Vector2D {
	return geometry.NewVector((float64(x)+0.5)*CellWidth, (float64(y)+0.5)*CellHeight)
}

// toCell returns the cell holding a world point.
func toCell(p geometry.Vector2D) (int, int) {
	return int(math.Floor(p.X / CellWidth)), int(math.Floor(p.Y / CellHeight))
}

// arrow picks the glyph closest to a heading.
func arrow(heading float64) rune {
	k := int(math.Round(geometry.NormalizeAngle(heading) / (math.Pi / 4)))
	return arrows[(k+8)%8]
}

// handle reacts to one event and reports whether the loop should go on.
func (a *App) handle(ctx context.Context, ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return false, nil
		case ev.Key() != tcell.KeyRune:
		case ev.Rune() == 'q':
			return false, nil
		case ev.Rune() == ' ':
			a.paused = !a.paused
		case ev.Rune() == 'a':
			a.autopilot = !a.autopilot
			if !a.autopilot {
				a.frame.ReleasePointer()
			}
		case ev.Rune() == 't':
			a.tails = !a.tails
		case ev.Rune() == 'r':
			t := a.driver.Latest().Tuning
			t.Respawn = true
			if err := a.driver.Tune(ctx, t); err != nil {
				return false, fmt.Errorf("failed to respawn flock: %w", err)
			}
		}

	case *tcell.EventMouse:
		if a.autopilot {
			break
		}
		x, y := ev.Position()
		if y >= a.height-1 {
			a.frame.ReleasePointer()
			break
		}
		p := toWorld(x, y)
		a.frame.MovePointer(p.X, p.Y)

	case *tcell.EventResize:
		a.resize()
		a.screen.Sync()
	}
	return true, nil
}

// step advances the flock by one tick and redraws.
func (a *App) step(ctx context.Context) error {
	if a.autopilot {
		a.wander.Drive(a.frame)
	}
	if !a.paused {
		if err := a.driver.Advance(ctx, a.tick); err != nil {
			return fmt.Errorf("failed to advance flock: %w", err)
		}
	}
	a.draw(a.driver.Latest())
	return nil
}

func (a *App) put(x, y int, r rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= a.width || y >= a.height-1 {
		return
	}
	a.screen.SetContent(x, y, r, nil, style)
}

func (a *App) draw(snap *simulation.Snapshot) {
	a.screen.Clear()

	if a.tails {
		for i := range snap.Boids {
			for _, j := range snap.Boids[i].Tail {
				x, y := toCell(j)
				a.put(x, y, '·', tailStyle)
			}
		}
	}
	for i := range snap.Boids {
		b := &snap.Boids[i]
		x, y := toCell(b.Position)
		a.put(x, y, arrow(b.Velocity.Heading()), boidStyle)
	}
	if snap.World.PointerActive {
		x, y := toCell(snap.World.Pointer)
		a.put(x, y, '+', pointerStyle)
	}

	status := fmt.Sprintf(" tick %d  boids %d  step %.2fms  [space] pause  [a] autopilot  [t] tails  [r] respawn  [q] quit",
		snap.Tick, len(snap.Boids), float64(snap.StepDuration.Microseconds())/1000.0)
	if a.paused {
		status = " PAUSED" + status
	}
	row := a.height - 1
	col := 0
	for _, r := range status {
		if col >= a.width {
			break
		}
		a.screen.SetContent(col, row, r, nil, statusStyle)
		col++
	}
	for ; col < a.width; col++ {
		a.screen.SetContent(col, row, ' ', nil, statusStyle)
	}

	a.screen.Show()
}

// Run polls events and ticks the flock until the user quits, ctx ends or
// the driver fails.
func (a *App) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.tick)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-done:
				return
			}
		}
	}()

	a.logger.Infof("terminal front end running on %dx%d cells", a.width, a.height)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-eventChan:
			ok, err := a.handle(ctx, ev)
			if err != nil {
				return stopped(ctx, err)
			}
			if !ok {
				a.logger.Info("terminal front end stopped by user")
				return nil
			}
		case <-ticker.C:
			// select picks at random when ctx ended on the same tick
			if ctx.Err() != nil {
				return nil
			}
			if err := a.step(ctx); err != nil {
				return stopped(ctx, err)
			}
		}
	}
}

// stopped drops err when ctx has ended, since a cancelled step is a normal
// shutdown.
func stopped(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	return err
}
