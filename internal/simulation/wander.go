package simulation

import (
	"math"

	"github.com/aquilax/go-perlin"

	"github.com/lao-tseu-is-alive/go-flock-dynamics/pkg/geometry"
)

// Perlin parameters: smoothness, frequency scale and octaves.
const (
	wanderAlpha   = 2.0
	wanderBeta    = 2.0
	wanderOctaves = 3

	// noise sampled this far apart is uncorrelated on the two axes
	wanderAxisOffset = 1000.0
)

// Wanderer moves a virtual pointer along a smooth pseudo-random path, so a
// flock can be stirred without a mouse.
type Wanderer struct {
	noise *perlin.Perlin
	t     float64
	step  float64
}

// NewWanderer returns a wanderer advancing step noise units per call.
func NewWanderer(seed int64, step float64) *Wanderer {
	return &Wanderer{
		noise: perlin.NewPerlin(wanderAlpha, wanderBeta, wanderOctaves, seed),
		step:  step,
	}
}

// Next advances along the path and returns a point inside [0,width]×[0,height].
func (w *Wanderer) Next(width, height float64) geometry.Vector2D {
	w.t += w.step
	return geometry.Vector2D{
		X: unitToRange(w.noise.Noise1D(w.t), width),
		Y: unitToRange(w.noise.Noise1D(w.t+wanderAxisOffset), height),
	}
}

// Drive moves the pointer of frame to the next point of the path.
func (w *Wanderer) Drive(frame *Frame) {
	p := w.Next(frame.Size())
	frame.MovePointer(p.X, p.Y)
}

// unitToRange maps noise, roughly in [-1, 1], onto [0, size].
func unitToRange(n, size float64) float64 {
	return math.Max(0, math.Min(size, (n+1)/2*size))
}
