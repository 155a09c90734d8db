package simulation

import (
	"time"

	"github.com/lao-tseu-is-alive/go-flock-dynamics/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flock-dynamics/pkg/geometry"
)

// BoidView is the read-only copy of a boid a renderer draws.
type BoidView struct {
	Position geometry.Vector2D
	Velocity geometry.Vector2D
	Smoothed geometry.Vector2D
	Lagged   geometry.Vector2D
	Tail     []geometry.Vector2D
}

// Snapshot is a complete, detached picture of the flock after a tick.
// Nothing in it aliases the flock, so it may cross goroutines freely.
type Snapshot struct {
	Tick   uint64
	World  behavior.World
	Boids  []BoidView
	Tuning Tuning

	StepDuration time.Duration // wall time of the last Step and Smooth
}

// TakeSnapshot copies the current state of f.
func TakeSnapshot(f *behavior.Flock, w behavior.World, t Tuning) *Snapshot {
	s := &Snapshot{
		Tick:   f.Ticks(),
		World:  w,
		Boids:  make([]BoidView, len(f.Boids)),
		Tuning: t,
	}
	for i := range f.Boids {
		b := &f.Boids[i]
		v := BoidView{
			Position: b.Position,
			Velocity: b.Velocity,
			Smoothed: b.Smoothed,
			Lagged:   b.Lagged,
		}
		if b.Tail != nil {
			v.Tail = append([]geometry.Vector2D(nil), b.Tail.Joints...)
		}
		s.Boids[i] = v
	}
	return s
}
