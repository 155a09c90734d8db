// Package behavior implements the flocking agents and the flock that drives them.
//
// Boids is an artificial life program, developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds, and related group motion.
// The name "boid" corresponds to a shortened version of "bird-oid object".
// https://en.wikipedia.org/wiki/Boids
package behavior

import (
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-flock-dynamics/pkg/dynamics"
	"github.com/lao-tseu-is-alive/go-flock-dynamics/pkg/geometry"
)

const (
	DefaultMaxForce = 0.01
	DefaultMaxSpeed = 1.5

	// SpawnArea is the side of the square new boids are placed in.
	SpawnArea = 400
)

// Boid represents a single entity in the flock.
// Fields are exported so renderers and drivers can read them directly.
type Boid struct {
	Position     geometry.Vector2D
	Velocity     geometry.Vector2D
	Acceleration geometry.Vector2D

	MaxForce float64
	MaxSpeed float64

	// Solver smooths Position from a finite-difference velocity,
	// Solver2 is driven with the boid's own Velocity.
	Solver  *dynamics.SecondOrderSolver
	Solver2 *dynamics.SecondOrderSolver

	// Smoothed and Lagged hold the last outputs of Solver and Solver2.
	Smoothed geometry.Vector2D
	Lagged   geometry.Vector2D

	Tail *Chain
}

// New creates a boid at a random position in [0, SpawnArea)² moving in a
// random first-quadrant direction at a speed in [2, 6).
// Each boid gets its own copies of the two template solvers, resting on its
// starting position.
func New(rng *rand.Rand, template, template2 *dynamics.SecondOrderSolver) Boid {
	pos := geometry.Vector2D{X: rng.Float64() * SpawnArea, Y: rng.Float64() * SpawnArea}
	vel := geometry.Vector2D{X: rng.Float64(), Y: rng.Float64()}
	vel.NormalizeInPlace()

	return Boid{
		Position: pos,
		Velocity: vel.Mul(rng.Float64()*4 + 2),
		MaxForce: DefaultMaxForce,
		MaxSpeed: DefaultMaxSpeed,
		Solver:   template.Copy(pos),
		Solver2:  template2.Copy(pos),
		Smoothed: pos,
		Lagged:   pos,
	}
}

// ApplyForce accumulates force into the acceleration of this tick.
func (b *Boid) ApplyForce(force geometry.Vector2D) {
	b.Acceleration = b.Acceleration.Add(force)
}

// Update integrates one semi-implicit Euler step and clears the acceleration.
// It must run after every force of the tick has been applied.
func (b *Boid) Update() {
	b.Velocity = b.Velocity.Add(b.Acceleration)
	b.Velocity.LimitInPlace(b.MaxSpeed)
	b.Position = b.Position.Add(b.Velocity)
	b.Acceleration = geometry.Vector2D{}
}

// Edges redirects a boid that left [0,width]×[0,height]: every velocity
// component on an axis it crossed is replaced by the matching component of
// the unit vector pointing at the centre of the area.
func (b *Boid) Edges(width, height float64) {
	center := geometry.Vector2D{X: width / 2, Y: height / 2}.Sub(b.Position).Normalize()
	if b.Position.X > width || b.Position.X < 0 {
		b.Velocity.X = center.X
	}
	if b.Position.Y > height || b.Position.Y < 0 {
		b.Velocity.Y = center.Y
	}
}

// AvoidPointer pushes the boid away from the point (x, y) when it is closer
// than PointerRadius. The push is PointerStrength/d along the away direction.
// Closer than MinInteractionDistance the direction is undefined and no force
// is applied.
func (b *Boid) AvoidPointer(x, y float64) {
	pointer := geometry.NewVector(x, y)
	d := b.Position.DistanceTo(pointer)
	if d >= PointerRadius || d < MinInteractionDistance {
		return
	}
	away := b.Position.Sub(pointer).Normalize()
	b.ApplyForce(scaleDown(away, d).Mul(PointerStrength))
}

// IsFinite reports whether every vector of the boid state is finite.
func (b *Boid) IsFinite() bool {
	return b.Position.IsFinite() && b.Velocity.IsFinite() && b.Acceleration.IsFinite()
}
