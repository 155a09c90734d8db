// Package dynamics provides the second-order filter used to smooth agent
// trajectories.
//
// The filter integrates
//
//	y + k1·y' + k2·y'' = x + k3·x'
//
// with a semi-implicit Euler step, where f is the natural frequency in Hz,
// z the damping ratio and r the initial response (r < 0 anticipates,
// r > 1 overshoots).
package dynamics

import (
	"errors"
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-flock-dynamics/pkg/geometry"
)

// MaxTimeStep caps the simulated time of a single Update, in seconds.
const MaxTimeStep = 0.01

// ErrInvalidFrequency is returned for a frequency that is not a positive finite number.
var ErrInvalidFrequency = errors.New("solver frequency must be a positive finite number")

// SecondOrderSolver is a stateful spring/damper filter over a 2D signal.
// It is not safe for concurrent use; every entity owns its own instance.
type SecondOrderSolver struct {
	f, z, r    float64
	k1, k2, k3 float64

	xp geometry.Vector2D // previous input
	y  geometry.Vector2D // output
	yd geometry.Vector2D // output derivative
}

// NewSecondOrderSolver builds a solver with parameters f, z, r whose output
// starts at rest on x0.
func NewSecondOrderSolver(f, z, r float64, x0 geometry.Vector2D) (*SecondOrderSolver, error) {
	s := &SecondOrderSolver{xp: x0, y: x0}
	if err := s.Change(f, z, r); err != nil {
		return nil, err
	}
	return s, nil
}

// Change replaces the parameters and recomputes the coefficients.
// The filter state is kept so the output continues smoothly.
func (s *SecondOrderSolver) Change(f, z, r float64) error {
	if !(f > 0) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidFrequency, f)
	}
	s.f, s.z, s.r = f, z, r
	s.k1 = z / (math.Pi * f)
	s.k2 = 1 / ((2 * math.Pi * f) * (2 * math.Pi * f))
	s.k3 = r * z / (2 * math.Pi * f)
	return nil
}

// Update advances the filter by T seconds toward x, estimating the input
// velocity from the previous input. T is clamped to MaxTimeStep.
// A zero T cannot produce a velocity estimate and returns
// geometry.ErrDivisionByZero without touching the state.
func (s *SecondOrderSolver) Update(T float64, x geometry.Vector2D) (geometry.Vector2D, error) {
	T = math.Min(MaxTimeStep, T)
	xd, err := x.Sub(s.xp).Div(T)
	if err != nil {
		return s.y, fmt.Errorf("estimating input velocity: %w", err)
	}
	s.xp = x
	return s.step(T, x, xd), nil
}

// UpdateWithVelocity advances the filter by T seconds toward x using the
// caller's input velocity xd. The previous input is left as is.
func (s *SecondOrderSolver) UpdateWithVelocity(T float64, x, xd geometry.Vector2D) geometry.Vector2D {
	return s.step(math.Min(MaxTimeStep, T), x, xd)
}

func (s *SecondOrderSolver) step(T float64, x, xd geometry.Vector2D) geometry.Vector2D {
	s.y = s.y.Add(s.yd.Mul(T))
	// k2 > 0 is guaranteed by Change
	accel := x.Add(xd.Mul(s.k3)).Sub(s.y).Sub(s.yd.Mul(s.k1))
	s.yd = s.yd.Add(geometry.Vector2D{X: accel.X / s.k2, Y: accel.Y / s.k2}.Mul(T))
	return s.y
}

// Copy returns an independent solver with the same parameters and a fresh
// state resting on x0.
func (s *SecondOrderSolver) Copy(x0 geometry.Vector2D) *SecondOrderSolver {
	return &SecondOrderSolver{
		f: s.f, z: s.z, r: s.r,
		k1: s.k1, k2: s.k2, k3: s.k3,
		xp: x0, y: x0,
	}
}

// Params returns f, z and r.
func (s *SecondOrderSolver) Params() (f, z, r float64) {
	return s.f, s.z, s.r
}

// Coefficients returns the derived k1, k2 and k3.
func (s *SecondOrderSolver) Coefficients() (k1, k2, k3 float64) {
	return s.k1, s.k2, s.k3
}

// Output is the last computed output.
func (s *SecondOrderSolver) Output() geometry.Vector2D {
	return s.y
}

// Velocity is the current output derivative.
func (s *SecondOrderSolver) Velocity() geometry.Vector2D {
	return s.yd
}
