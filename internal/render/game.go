// Package render is the ebiten front end: it feeds the mouse into the shared
// Frame, drives a simulation.Driver once per tick and draws its snapshots.
package render

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	golog "github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-flock-dynamics/internal/simulation"
	"github.com/lao-tseu-is-alive/go-flock-dynamics/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flock-dynamics/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-dynamics/pkg/ui"
)

const (
	panelWidth    = 260.0
	tailSegments  = 3
	autopilotStep = 0.01
)

var (
	boidColor     = color.RGBA{R: 100, G: 200, B: 255, A: 255}
	smoothedColor = color.RGBA{R: 255, G: 210, B: 60, A: 255}
	laggedColor   = color.RGBA{R: 255, G: 90, B: 160, A: 200}
	tailColor     = color.RGBA{R: 120, G: 160, B: 220, A: 160}
	pointerColor  = color.RGBA{R: 255, G: 255, B: 255, A: 60}
)

// controls are the panel widgets the game reads back every frame.
type controls struct {
	maxSpeed, maxForce *ui.Slider
	f, z, r            *ui.Slider
	f2, z2, r2         *ui.Slider

	pause, autopilot *ui.Checkbox
	respawn          *ui.Button
	smoothed, lagged *ui.Checkbox
	tails            *ui.Checkbox
}

type Game struct {
	ctx    context.Context
	cfg    *simulation.Config
	driver simulation.Driver
	frame  *simulation.Frame
	logger golog.Logger
	wander *simulation.Wanderer
	dt     time.Duration

	panel   *ui.Panel
	widgets controls
	tuning  simulation.Tuning // last value sent to the driver
	respawn bool

	lastState *simulation.Snapshot

	// Timing instrumentation
	lastUpdateDuration time.Duration
	lastDrawDuration   time.Duration
	updateAvg          float64 // Rolling average in ms
	drawAvg            float64 // Rolling average in ms
}

var _ ebiten.Game = (*Game)(nil)

// NewGame builds the tuning panel from cfg and wires it to driver.
func NewGame(ctx context.Context, cfg *simulation.Config, driver simulation.Driver, frame *simulation.Frame, logger golog.Logger) *Game {
	g := &Game{
		ctx:       ctx,
		cfg:       cfg,
		driver:    driver,
		frame:     frame,
		logger:    logger,
		wander:    simulation.NewWanderer(int64(cfg.Seed), autopilotStep),
		dt:        time.Second / time.Duration(max(1, cfg.TicksPerSecond)),
		tuning:    simulation.TuningFromConfig(cfg),
		lastState: driver.Latest(),
	}

	panel := ui.NewPanel("Flock", 10, 10, panelWidth, cfg.WorldHeight-20)
	w := &g.widgets

	panel.AddSection("Steering")
	w.maxSpeed = panel.AddSlider("Max Speed", 0.1, 6, cfg.MaxSpeed)
	w.maxForce = panel.AddSlider("Max Force", 0.001, 0.1, cfg.MaxForce)
	w.maxForce.Format = "%.3f"

	panel.AddSection("Smoothing Solver")
	w.f = panel.AddSlider("Frequency f", 0.1, 8, cfg.Solver.Frequency)
	w.z = panel.AddSlider("Damping z", 0, 2, cfg.Solver.Damping)
	w.r = panel.AddSlider("Response r", -3, 3, cfg.Solver.Response)

	panel.AddSection("Lagging Solver")
	w.f2 = panel.AddSlider("Frequency f", 0.1, 8, cfg.Solver2.Frequency)
	w.z2 = panel.AddSlider("Damping z", 0, 2, cfg.Solver2.Damping)
	w.r2 = panel.AddSlider("Response r", -3, 3, cfg.Solver2.Response)

	panel.AddSection("Simulation")
	w.pause = panel.AddCheckbox("Pause", false)
	w.autopilot = panel.AddCheckbox("Autopilot Pointer", cfg.Autopilot)
	w.respawn = panel.AddButton("Respawn Flock", func() { g.respawn = true })

	panel.AddSection("Visualization")
	w.smoothed = panel.AddCheckbox("Show Smoothed", cfg.DisplaySmoothed)
	w.lagged = panel.AddCheckbox("Show Lagged", cfg.DisplayLagged)
	w.tails = panel.AddCheckbox("Show Tails", cfg.DisplayTails)

	g.panel = panel
	// the sliders may have clamped a config value
	g.tuning = g.readTuning()
	return g
}

func (g *Game) readTuning() simulation.Tuning {
	w := &g.widgets
	return simulation.Tuning{
		MaxSpeed: w.maxSpeed.Value,
		MaxForce: w.maxForce.Value,
		Solver:   simulation.SolverConfig{Frequency: w.f.Value, Damping: w.z.Value, Response: w.r.Value},
		Solver2:  simulation.SolverConfig{Frequency: w.f2.Value, Damping: w.z2.Value, Response: w.r2.Value},
	}
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.lastUpdateDuration = time.Since(start)
		// Rolling average (exponential moving average)
		g.updateAvg = g.updateAvg*0.95 + float64(g.lastUpdateDuration.Microseconds())/1000.0*0.05
	}()
	return g.update(ui.ReadInput())
}

// update runs one frame against an already sampled input.
func (g *Game) update(in ui.Input) error {
	// 1. Update UI Panel
	g.panel.Update(in)

	// 2. Send the tuning, only when something moved
	t := g.readTuning()
	if t != g.tuning || g.respawn {
		t.Respawn = g.respawn
		if err := g.driver.Tune(g.ctx, t); err != nil {
			return fmt.Errorf("failed to tune flock: %w", err)
		}
		g.logger.Debugf("tuning sent: %+v", t)
		t.Respawn = false
		g.tuning = t
		g.respawn = false
	}

	// 3. Pointer
	switch {
	case g.widgets.autopilot.Value:
		g.wander.Drive(g.frame)
	case g.panel.Contains(in) || !g.onScreen(in):
		g.frame.ReleasePointer()
	default:
		g.frame.MovePointer(in.X, in.Y)
	}

	// 4. Trigger Simulation Step
	if !g.widgets.pause.Value {
		if err := g.driver.Advance(g.ctx, g.dt); err != nil {
			return fmt.Errorf("failed to advance flock: %w", err)
		}
	}
	g.lastState = g.driver.Latest()
	return nil
}

func (g *Game) onScreen(in ui.Input) bool {
	w, h := g.frame.Size()
	return in.In(0, 0, w, h)
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.lastDrawDuration = time.Since(start)
		g.drawAvg = g.drawAvg*0.95 + float64(g.lastDrawDuration.Microseconds())/1000.0*0.05
	}()

	snap := g.lastState
	if snap != nil {
		if snap.World.PointerActive {
			p := snap.World.Pointer
			vector.StrokeCircle(screen, float32(p.X), float32(p.Y), behavior.PointerRadius, 1, pointerColor, true)
		}
		if g.widgets.tails.Value {
			for i := range snap.Boids {
				drawTail(screen, snap.Boids[i].Tail)
			}
		}
		drawBoids(screen, snap.Boids)
		for i := range snap.Boids {
			b := &snap.Boids[i]
			if g.widgets.smoothed.Value {
				vector.FillCircle(screen, float32(b.Smoothed.X), float32(b.Smoothed.Y), 2, smoothedColor, true)
			}
			if g.widgets.lagged.Value {
				vector.StrokeCircle(screen, float32(b.Lagged.X), float32(b.Lagged.Y), 3, 1, laggedColor, true)
			}
		}
	}

	// Draw UI Panel
	g.panel.Draw(screen)

	// Display timing breakdown for performance analysis
	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\n\nUpdate: %.2fms\nDraw:   %.2fms\nTotal:  %.2fms",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		g.updateAvg,
		g.drawAvg,
		g.updateAvg+g.drawAvg)
	if snap != nil {
		msg += fmt.Sprintf("\n\nTick:  %d\nBoids: %d\nStep:  %.2fms",
			snap.Tick, len(snap.Boids), float64(snap.StepDuration.Microseconds())/1000.0)
	}
	if g.widgets.pause.Value {
		msg += "\n\nPAUSED"
	}
	ebitenutil.DebugPrintAt(screen, msg, int(g.cfg.WorldWidth)-150, 10)
}

func (g *Game) Layout(w, h int) (int, int) { return int(g.cfg.WorldWidth), int(g.cfg.WorldHeight) }

var (
	whiteOnce  sync.Once
	whiteImage *ebiten.Image
)

func white() *ebiten.Image {
	whiteOnce.Do(func() {
		whiteImage = ebiten.NewImage(3, 3)
		whiteImage.Fill(color.White)
	})
	return whiteImage
}

// trianglesPerBatch keeps a batch under the uint16 index limit.
const trianglesPerBatch = math.MaxUint16 / 3

// drawBoids draws every boid as a triangle pointing along its velocity,
// batched into as few DrawTriangles calls as the index type allows.
func drawBoids(screen *ebiten.Image, boids []simulation.BoidView) {
	n := min(len(boids), trianglesPerBatch)
	vertices := make([]ebiten.Vertex, 0, 3*n)
	indices := make([]uint16, 0, 3*n)
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}

	flush := func() {
		if len(indices) > 0 {
			screen.DrawTriangles(vertices, indices, white(), op)
		}
		vertices, indices = vertices[:0], indices[:0]
	}
	for i := range boids {
		if len(vertices)+3 > 3*trianglesPerBatch {
			flush()
		}
		base := uint16(len(vertices))
		vertices = appendBoid(vertices, boids[i].Position, boids[i].Velocity, boidColor)
		indices = append(indices, base, base+1, base+2)
	}
	flush()
}

func appendBoid(vertices []ebiten.Vertex, pos, vel geometry.Vector2D, clr color.RGBA) []ebiten.Vertex {
	angle := vel.Heading()

	// Visual geometry logic
	tip := pos.Add(geometry.NewVectorPolar(6, angle))
	wing := pos.Add(geometry.NewVectorPolar(5, angle))
	right := wing.RotateAround(2.5, pos)
	left := wing.RotateAround(-2.5, pos)

	r, g, b, a := float32(clr.R)/255, float32(clr.G)/255, float32(clr.B)/255, float32(clr.A)/255
	for _, p := range [3]geometry.Vector2D{tip, right, left} {
		vertices = append(vertices, ebiten.Vertex{
			DstX: float32(p.X), DstY: float32(p.Y),
			SrcX: 1, SrcY: 1,
			ColorR: r, ColorG: g, ColorB: b, ColorA: a,
		})
	}
	return vertices
}

func drawTail(screen *ebiten.Image, tail []geometry.Vector2D) {
	if len(tail) < 2 {
		return
	}
	curve := geometry.CatmullRom(tail, tailSegments)
	for i := 1; i < len(curve); i++ {
		a, b := curve[i-1], curve[i]
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, tailColor, true)
	}
}
