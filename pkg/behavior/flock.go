package behavior

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/lao-tseu-is-alive/go-flock-dynamics/pkg/dynamics"
	"github.com/lao-tseu-is-alive/go-flock-dynamics/pkg/geometry"
)

// ErrNonFinite is returned by Step when a boid ends a tick with a NaN or
// infinite component. The flock is left as is for the caller to inspect.
var ErrNonFinite = errors.New("boid state is not finite")

// SolverSlot selects one of the two solvers every boid owns.
type SolverSlot int

const (
	PrimarySolver SolverSlot = iota
	SecondarySolver
)

func (s SolverSlot) String() string {
	switch s {
	case PrimarySolver:
		return "primary"
	case SecondarySolver:
		return "secondary"
	}
	return fmt.Sprintf("SolverSlot(%d)", int(s))
}

// World is what a flock needs to know about its surroundings for one tick.
type World struct {
	Width, Height float64

	Pointer       geometry.Vector2D
	PointerActive bool
}

// Option configures a Flock.
type Option func(*Flock)

// WithWorkers runs the flocking phase on up to n goroutines.
func WithWorkers(n int) Option {
	return func(f *Flock) {
		f.workers = n
	}
}

// WithTails gives every boid a Chain of joints following its smoothed position.
func WithTails(joints int, spacing, maxBend float64) Option {
	return func(f *Flock) {
		f.tailJoints = joints
		f.tailSpacing = spacing
		f.tailBend = maxBend
	}
}

// Flock owns a set of boids and advances them in lock step.
// It is not safe for concurrent use.
type Flock struct {
	Boids []Boid

	template  *dynamics.SecondOrderSolver
	template2 *dynamics.SecondOrderSolver
	maxSpeed  float64
	maxForce  float64

	workers     int
	tailJoints  int
	tailSpacing float64
	tailBend    float64

	ticks uint64
}

// NewFlock creates n boids from rng. The templates are never advanced
// themselves, every boid receives its own copies.
func NewFlock(n int, rng *rand.Rand, template, template2 *dynamics.SecondOrderSolver, opts ...Option) *Flock {
	f := &Flock{
		template:  template.Copy(geometry.Vector2D{}),
		template2: template2.Copy(geometry.Vector2D{}),
		maxSpeed:  DefaultMaxSpeed,
		maxForce:  DefaultMaxForce,
		workers:   1,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.Boids = make([]Boid, 0, n)
	f.spawn(n, rng)
	return f
}

func (f *Flock) spawn(n int, rng *rand.Rand) {
	f.Boids = f.Boids[:0]
	for i := 0; i < n; i++ {
		b := New(rng, f.template, f.template2)
		b.MaxSpeed = f.maxSpeed
		b.MaxForce = f.maxForce
		if f.tailJoints > 0 {
			b.Tail = NewChain(b.Position, f.tailJoints, f.tailSpacing, f.tailBend)
		}
		f.Boids = append(f.Boids, b)
	}
}

// Len returns the number of boids.
func (f *Flock) Len() int {
	return len(f.Boids)
}

// Ticks returns how many Step calls completed.
func (f *Flock) Ticks() uint64 {
	return f.ticks
}

// Step advances every boid by one tick. The phases flock, edges, pointer
// avoidance and integration each finish for the whole flock before the next
// one starts, so no boid sees another boid's state from the same tick.
// ctx is checked between phases.
func (f *Flock) Step(ctx context.Context, w World) error {
	if err := f.flockPhase(ctx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for i := range f.Boids {
		f.Boids[i].Edges(w.Width, w.Height)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if w.PointerActive {
		for i := range f.Boids {
			f.Boids[i].AvoidPointer(w.Pointer.X, w.Pointer.Y)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	bad := -1
	for i := range f.Boids {
		f.Boids[i].Update()
		if bad < 0 && !f.Boids[i].IsFinite() {
			bad = i
		}
	}
	f.ticks++
	if bad >= 0 {
		return fmt.Errorf("%w: boid %d at %v moving %v", ErrNonFinite, bad, f.Boids[bad].Position, f.Boids[bad].Velocity)
	}
	return nil
}

func (f *Flock) flockPhase(ctx context.Context) error {
	n := len(f.Boids)
	if f.workers <= 1 || n < 2 {
		for i := range f.Boids {
			f.Boids[i].Flock(f.Boids, i)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)
	chunk := (n + f.workers - 1) / f.workers
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				f.Boids[i].Flock(f.Boids, i)
			}
			return nil
		})
	}
	return g.Wait()
}

// Smooth advances both solvers of every boid by dt seconds and stores their
// outputs in Smoothed and Lagged. Tails follow the smoothed position.
// A zero dt fails on the first boid before any state changes.
func (f *Flock) Smooth(dt float64) error {
	for i := range f.Boids {
		b := &f.Boids[i]
		y, err := b.Solver.Update(dt, b.Position)
		if err != nil {
			return fmt.Errorf("smoothing boid %d: %w", i, err)
		}
		b.Smoothed = y
		b.Lagged = b.Solver2.UpdateWithVelocity(dt, b.Position, b.Velocity)
		if b.Tail != nil {
			b.Tail.Follow(b.Smoothed)
		}
	}
	return nil
}

// Tune sets the speed and force limits of every boid, including the ones a
// later Respawn creates.
func (f *Flock) Tune(maxSpeed, maxForce float64) {
	f.maxSpeed, f.maxForce = maxSpeed, maxForce
	for i := range f.Boids {
		f.Boids[i].MaxSpeed = maxSpeed
		f.Boids[i].MaxForce = maxForce
	}
}

// Limits returns the speed and force limits applied by Tune.
func (f *Flock) Limits() (maxSpeed, maxForce float64) {
	return f.maxSpeed, f.maxForce
}

// Retune changes the parameters of the selected solver on every boid.
// Solver state is kept. Invalid parameters are rejected before any boid is
// touched.
func (f *Flock) Retune(slot SolverSlot, freq, zeta, resp float64) error {
	var template *dynamics.SecondOrderSolver
	switch slot {
	case PrimarySolver:
		template = f.template
	case SecondarySolver:
		template = f.template2
	default:
		return fmt.Errorf("unknown solver slot %v", slot)
	}
	if err := template.Change(freq, zeta, resp); err != nil {
		return fmt.Errorf("retuning %v solver: %w", slot, err)
	}
	for i := range f.Boids {
		s := f.Boids[i].Solver
		if slot == SecondarySolver {
			s = f.Boids[i].Solver2
		}
		// already validated on the template
		_ = s.Change(freq, zeta, resp)
	}
	return nil
}

// SolverParams returns f, z and r of the selected solver template.
func (f *Flock) SolverParams(slot SolverSlot) (freq, zeta, resp float64) {
	if slot == SecondarySolver {
		return f.template2.Params()
	}
	return f.template.Params()
}

// Respawn replaces every boid with a fresh random one drawn from rng.
func (f *Flock) Respawn(rng *rand.Rand) {
	f.spawn(len(f.Boids), rng)
}
