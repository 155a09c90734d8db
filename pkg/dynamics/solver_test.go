package dynamics

import (
	"errors"
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-flock-dynamics/pkg/geometry"
)

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= 1e-12
}

func mustSolver(t *testing.T, f, z, r float64, x0 geometry.Vector2D) *SecondOrderSolver {
	t.Helper()
	s, err := NewSecondOrderSolver(f, z, r, x0)
	if err != nil {
		t.Fatalf("NewSecondOrderSolver(%v, %v, %v) error: %v", f, z, r, err)
	}
	return s
}

func TestNewSecondOrderSolver_Coefficients(t *testing.T) {
	s := mustSolver(t, 1, 0.5, 2, geometry.Vector2D{X: 3, Y: 4})

	k1, k2, k3 := s.Coefficients()
	if !floatEquals(k1, 0.5/math.Pi) {
		t.Errorf("k1 = %v; want %v", k1, 0.5/math.Pi)
	}
	if !floatEquals(k2, 1/(4*math.Pi*math.Pi)) {
		t.Errorf("k2 = %v; want %v", k2, 1/(4*math.Pi*math.Pi))
	}
	if !floatEquals(k3, 1/(2*math.Pi)) {
		t.Errorf("k3 = %v; want %v", k3, 1/(2*math.Pi))
	}

	if !s.Output().Equals(geometry.Vector2D{X: 3, Y: 4}) {
		t.Errorf("initial output = %v; want (3, 4)", s.Output())
	}
	if !s.Velocity().Equals(geometry.Vector2D{}) {
		t.Errorf("initial velocity = %v; want (0, 0)", s.Velocity())
	}
}

func TestNewSecondOrderSolver_InvalidFrequency(t *testing.T) {
	for _, f := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := NewSecondOrderSolver(f, 1, 0, geometry.Vector2D{}); !errors.Is(err, ErrInvalidFrequency) {
			t.Errorf("NewSecondOrderSolver(f=%v) error = %v; want ErrInvalidFrequency", f, err)
		}
	}
}

func TestSecondOrderSolver_Change(t *testing.T) {
	s := mustSolver(t, 1, 1, 0, geometry.Vector2D{})
	for i := 0; i < 10; i++ {
		if _, err := s.Update(0.01, geometry.Vector2D{X: 10, Y: 0}); err != nil {
			t.Fatal(err)
		}
	}
	y, yd, xp := s.y, s.yd, s.xp

	if err := s.Change(3, 0.2, 1); err != nil {
		t.Fatalf("Change error: %v", err)
	}
	if f, z, r := s.Params(); f != 3 || z != 0.2 || r != 1 {
		t.Errorf("Params = %v, %v, %v; want 3, 0.2, 1", f, z, r)
	}
	if k1, _, _ := s.Coefficients(); !floatEquals(k1, 0.2/(3*math.Pi)) {
		t.Errorf("k1 after Change = %v; want %v", k1, 0.2/(3*math.Pi))
	}
	if !s.y.Equals(y) || !s.yd.Equals(yd) || !s.xp.Equals(xp) {
		t.Error("Change must leave the filter state untouched")
	}

	if err := s.Change(0, 1, 1); !errors.Is(err, ErrInvalidFrequency) {
		t.Errorf("Change(f=0) error = %v; want ErrInvalidFrequency", err)
	}
	if f, _, _ := s.Params(); f != 3 {
		t.Errorf("rejected Change altered f to %v", f)
	}
}

func TestSecondOrderSolver_UpdateEstimatesVelocity(t *testing.T) {
	s := mustSolver(t, 2, 1, 1, geometry.Vector2D{})
	target := geometry.Vector2D{X: 1, Y: 0}

	y, err := s.Update(0.01, target)
	if err != nil {
		t.Fatal(err)
	}
	// y moves with the old derivative, which is zero on the first step
	if !y.Equals(geometry.Vector2D{}) {
		t.Errorf("first output = %v; want (0, 0)", y)
	}
	if s.Velocity().X <= 0 {
		t.Errorf("output velocity = %v; want positive X", s.Velocity())
	}
	if !s.xp.Equals(target) {
		t.Errorf("previous input = %v; want %v", s.xp, target)
	}
}

func TestSecondOrderSolver_UpdateZeroStep(t *testing.T) {
	s := mustSolver(t, 1, 1, 0, geometry.Vector2D{X: 1, Y: 1})
	before := *s

	_, err := s.Update(0, geometry.Vector2D{X: 5, Y: 5})
	if !errors.Is(err, geometry.ErrDivisionByZero) {
		t.Fatalf("Update(T=0) error = %v; want ErrDivisionByZero", err)
	}
	if *s != before {
		t.Error("failed Update must not change state")
	}
}

func TestSecondOrderSolver_TimeStepClamp(t *testing.T) {
	a := mustSolver(t, 1.5, 0.7, 0.5, geometry.Vector2D{})
	b := a.Copy(geometry.Vector2D{})
	x := geometry.Vector2D{X: 4, Y: -2}

	for i := 0; i < 20; i++ {
		ya, err := a.Update(0.5, x)
		if err != nil {
			t.Fatal(err)
		}
		yb, err := b.Update(MaxTimeStep, x)
		if err != nil {
			t.Fatal(err)
		}
		if !ya.Equals(yb) {
			t.Fatalf("step %d: T=0.5 gave %v, T=%v gave %v", i, ya, MaxTimeStep, yb)
		}
	}
}

func TestSecondOrderSolver_UpdateWithVelocityKeepsPreviousInput(t *testing.T) {
	x0 := geometry.Vector2D{X: 2, Y: 2}
	s := mustSolver(t, 1, 1, 0, x0)
	s.UpdateWithVelocity(0.01, geometry.Vector2D{X: 9, Y: 9}, geometry.Vector2D{X: 1, Y: 1})
	if !s.xp.Equals(x0) {
		t.Errorf("previous input = %v; want untouched %v", s.xp, x0)
	}
}

func TestSecondOrderSolver_Converges(t *testing.T) {
	tests := []struct {
		name    string
		f, z, r float64
	}{
		{"Critically damped", 2, 1, 0},
		{"Underdamped", 1, 0.3, 0},
		{"Overdamped", 3, 2, 0},
		{"Anticipating", 1, 0.5, -1},
		{"Overshooting", 1, 0.5, 2},
	}
	target := geometry.Vector2D{X: 10, Y: -5}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustSolver(t, tt.f, tt.z, tt.r, geometry.Vector2D{})
			var y geometry.Vector2D
			for i := 0; i < 5000; i++ {
				y = s.UpdateWithVelocity(0.01, target, geometry.Vector2D{})
			}
			if d := y.DistanceTo(target); d > 1e-6 {
				t.Errorf("after 50s output = %v, %v away from %v", y, d, target)
			}
		})
	}
}

func TestSecondOrderSolver_Copy(t *testing.T) {
	template := mustSolver(t, 2, 0.5, 1, geometry.Vector2D{})
	c := template.Copy(geometry.Vector2D{X: 7, Y: 8})

	if f, z, r := c.Params(); f != 2 || z != 0.5 || r != 1 {
		t.Errorf("copy Params = %v, %v, %v; want 2, 0.5, 1", f, z, r)
	}
	if !c.Output().Equals(geometry.Vector2D{X: 7, Y: 8}) {
		t.Errorf("copy output = %v; want (7, 8)", c.Output())
	}

	if _, err := c.Update(0.01, geometry.Vector2D{X: 100, Y: 100}); err != nil {
		t.Fatal(err)
	}
	if err := c.Change(5, 1, 0); err != nil {
		t.Fatal(err)
	}
	if !template.Output().Equals(geometry.Vector2D{}) || !template.Velocity().Equals(geometry.Vector2D{}) {
		t.Error("updating a copy changed the template state")
	}
	if f, _, _ := template.Params(); f != 2 {
		t.Errorf("changing a copy changed the template frequency to %v", f)
	}
}

func BenchmarkSecondOrderSolver_Update(b *testing.B) {
	s, _ := NewSecondOrderSolver(2, 0.5, 1, geometry.Vector2D{})
	x := geometry.Vector2D{X: 1, Y: 1}
	for i := 0; i < b.N; i++ {
		x.X += 0.001
		_, _ = s.Update(0.01, x)
	}
}
