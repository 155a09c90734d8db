package behavior

import (
	"math"

	"github.com/lao-tseu-is-alive/go-flock-dynamics/pkg/geometry"
)

// Perception radii and weights of the steering rules.
const (
	AlignRadius      = 50.0
	CohesionRadius   = 50.0
	SeparationRadius = 24.0

	AlignWeight      = 1.0
	CohesionWeight   = 1.0
	SeparationWeight = 1.5

	PointerRadius   = 50.0
	PointerStrength = 5.0

	// MinInteractionDistance floors the inverse-distance terms of
	// separation and pointer avoidance.
	MinInteractionDistance = 1e-6
)

// Flock applies alignment, cohesion and separation against neighbours.
// self is the index of b inside neighbours, or -1 when b is not part of it.
// Only Acceleration is written, so every boid of a tick can run Flock
// concurrently as long as no Position or Velocity changes meanwhile.
func (b *Boid) Flock(neighbours []Boid, self int) {
	alignment := b.Align(neighbours, self).Mul(AlignWeight)
	cohesion := b.Cohesion(neighbours, self).Mul(CohesionWeight)
	separation := b.Separation(neighbours, self).Mul(SeparationWeight)

	b.ApplyForce(alignment)
	b.ApplyForce(cohesion)
	b.ApplyForce(separation)
}

// Align steers towards the average heading of flockmates within AlignRadius.
func (b *Boid) Align(flock []Boid, self int) geometry.Vector2D {
	var sum geometry.Vector2D
	total := 0
	for i := range flock {
		if i == self {
			continue
		}
		other := &flock[i]
		if b.Position.DistanceTo(other.Position) < AlignRadius {
			sum = sum.Add(other.Velocity)
			total++
		}
	}
	if total == 0 {
		return geometry.Vector2D{}
	}
	return b.steer(scaleDown(sum, float64(total)))
}

// Cohesion steers towards the average position of flockmates within
// CohesionRadius.
func (b *Boid) Cohesion(flock []Boid, self int) geometry.Vector2D {
	var sum geometry.Vector2D
	total := 0
	for i := range flock {
		if i == self {
			continue
		}
		other := &flock[i]
		if b.Position.DistanceTo(other.Position) < CohesionRadius {
			sum = sum.Add(other.Position)
			total++
		}
	}
	if total == 0 {
		return geometry.Vector2D{}
	}
	return b.steer(scaleDown(sum, float64(total)).Sub(b.Position))
}

// Separation steers away from flockmates within SeparationRadius, each
// weighted by the inverse square of its distance.
// A flockmate sharing the exact position gives no direction and is skipped,
// as is one at a NaN distance.
func (b *Boid) Separation(flock []Boid, self int) geometry.Vector2D {
	var sum geometry.Vector2D
	total := 0
	for i := range flock {
		if i == self {
			continue
		}
		other := &flock[i]
		d := b.Position.DistanceTo(other.Position)
		if !(d > 0 && d < SeparationRadius) {
			continue
		}
		// diff/d² is the unit direction over d; normalizing first keeps the
		// direction when d² underflows
		away := b.Position.Sub(other.Position).Normalize()
		sum = sum.Add(away.Mul(1 / math.Max(d, MinInteractionDistance)))
		total++
	}
	if total == 0 {
		return geometry.Vector2D{}
	}
	return b.steer(scaleDown(sum, float64(total)))
}

// steer turns a desired direction into a force: full speed along desired,
// minus the current velocity, clamped to MaxForce.
func (b *Boid) steer(desired geometry.Vector2D) geometry.Vector2D {
	return desired.Normalize().Mul(b.MaxSpeed).Sub(b.Velocity).Limit(b.MaxForce)
}

// scaleDown divides v by a strictly positive s.
func scaleDown(v geometry.Vector2D, s float64) geometry.Vector2D {
	return geometry.Vector2D{X: v.X / s, Y: v.Y / s}
}
