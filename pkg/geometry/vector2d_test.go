package geometry

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

// floatEquals is a helper for testing scalar float values with epsilon.
func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

func TestNewVectorPolar(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		theta  float64
		want   Vector2D
	}{
		{"Zero radius", 0, 0, Vector2D{0, 0}},
		{"Zero angle (X-axis)", 10, 0, Vector2D{10, 0}},
		{"90 degrees (Y-axis)", 10, math.Pi / 2, Vector2D{0, 10}},
		{"180 degrees (Negative X)", 10, math.Pi, Vector2D{-10, 0}},
		{"45 degrees", math.Sqrt(2), math.Pi / 4, Vector2D{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewVectorPolar(tt.radius, tt.theta)
			if !got.Eq(tt.want) {
				t.Errorf("NewVectorPolar(%v, %v) = %v; want %v", tt.radius, tt.theta, got, tt.want)
			}
		})
	}
}

func TestNewVector(t *testing.T) {
	got := NewVector(3, -4)
	if !got.Equals(Vector2D{X: 3, Y: -4}) {
		t.Errorf("NewVector(3, -4) = %v; want (3, -4)", got)
	}
}

func TestVector_LenExtremes(t *testing.T) {
	tests := []struct {
		name string
		v    Vector2D
		want float64
	}{
		{"Tiny", Vector2D{3e-300, 4e-300}, 5e-300},
		{"Huge", Vector2D{3e200, 4e200}, 5e200},
		{"Subnormal axis", Vector2D{0, 5e-324}, 5e-324},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Len()
			if math.Abs(got-tt.want) > tt.want*1e-12 {
				t.Errorf("Len(%g, %g) = %g; want %g", tt.v.X, tt.v.Y, got, tt.want)
			}
			if n := tt.v.Normalize(); !floatEquals(n.Len(), 1) {
				t.Errorf("Normalize(%g, %g) length = %v; want 1", tt.v.X, tt.v.Y, n.Len())
			}
		})
	}
}

func TestFromAngle(t *testing.T) {
	got := FromAngle(math.Pi / 3)
	if !floatEquals(got.Len(), 1) {
		t.Errorf("FromAngle length = %v; want 1", got.Len())
	}
	if got.X != math.Cos(math.Pi/3) || got.Y != math.Sin(math.Pi/3) {
		t.Errorf("FromAngle(Pi/3) = %v; want raw cos/sin", got)
	}
}

func TestVector_String(t *testing.T) {
	v := Vector2D{1.234, 5.678}
	want := "(1.23, 5.68)"
	if got := v.String(); got != want {
		t.Errorf("Vector2D.String() = %q; want %q", got, want)
	}
}

func TestVector_Arithmetic(t *testing.T) {
	v1 := Vector2D{1, 2}
	v2 := Vector2D{3, 4}

	t.Run("Add", func(t *testing.T) {
		want := Vector2D{4, 6}
		if got := v1.Add(v2); !got.Eq(want) {
			t.Errorf("%v.Add(%v) = %v; want %v", v1, v2, got, want)
		}
	})

	t.Run("Sub", func(t *testing.T) {
		want := Vector2D{-2, -2}
		if got := v1.Sub(v2); !got.Eq(want) {
			t.Errorf("%v.Sub(%v) = %v; want %v", v1, v2, got, want)
		}
	})

	t.Run("Mul", func(t *testing.T) {
		want := Vector2D{2, 4}
		if got := v1.Mul(2); !got.Eq(want) {
			t.Errorf("%v.Mul(2) = %v; want %v", v1, got, want)
		}
	})

	t.Run("Div", func(t *testing.T) {
		want := Vector2D{0.5, 1}
		got, err := v1.Div(2)
		if err != nil {
			t.Fatalf("%v.Div(2) returned error %v", v1, err)
		}
		if !got.Eq(want) {
			t.Errorf("%v.Div(2) = %v; want %v", v1, got, want)
		}
	})

	t.Run("DivByZero", func(t *testing.T) {
		got, err := v1.Div(0)
		if !errors.Is(err, ErrDivisionByZero) {
			t.Errorf("%v.Div(0) error = %v; want ErrDivisionByZero", v1, err)
		}
		if !math.IsInf(got.X, 0) || !math.IsInf(got.Y, 0) {
			t.Errorf("Div(0) should result in Inf coordinates, got %v", got)
		}
	})

	t.Run("Pure", func(t *testing.T) {
		orig := v1
		_ = v1.Add(v2)
		_ = v1.Mul(3)
		_ = v1.Normalize()
		_ = v1.Limit(0.1)
		if !v1.Equals(orig) {
			t.Errorf("value operations mutated receiver: %v; want %v", v1, orig)
		}
	})
}

func TestVector_Products(t *testing.T) {
	v1 := Vector2D{1, 0}
	v2 := Vector2D{0, 1}

	if got := v1.Dot(v2); got != 0 {
		t.Errorf("Dot orthogonal = %v; want 0", got)
	}
	if got := v1.Dot(Vector2D{2, 0}); got != 2 {
		t.Errorf("Dot parallel = %v; want 2", got)
	}
}

func TestVector_Normalize(t *testing.T) {
	v := Vector2D{3, 4}

	t.Run("Value", func(t *testing.T) {
		got := v.Normalize()
		if !got.Eq(Vector2D{0.6, 0.8}) {
			t.Errorf("Normalize = %v; want (0.6, 0.8)", got)
		}
		if v.X != 3 || v.Y != 4 {
			t.Errorf("Normalize mutated receiver: %v", v)
		}
	})

	t.Run("InPlace", func(t *testing.T) {
		w := v
		ret := w.NormalizeInPlace()
		if ret != &w {
			t.Error("NormalizeInPlace must return its receiver")
		}
		if !w.Eq(Vector2D{0.6, 0.8}) {
			t.Errorf("NormalizeInPlace left %v; want (0.6, 0.8)", w)
		}
	})

	t.Run("Zero", func(t *testing.T) {
		zero := Vector2D{0, 0}
		if got := zero.Normalize(); !got.Equals(zero) {
			t.Errorf("Normalize(0,0) = %v; want (0,0)", got)
		}
		z := zero
		if got := *z.NormalizeInPlace(); !got.Equals(zero) {
			t.Errorf("NormalizeInPlace(0,0) = %v; want (0,0)", got)
		}
	})

	t.Run("Random", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(1, 2))
		for i := 0; i < 1000; i++ {
			v := Vector2D{rng.NormFloat64() * 100, rng.NormFloat64() * 100}
			if got := v.Normalize().Len(); math.Abs(got-1) > 1e-12 {
				t.Fatalf("%v.Normalize().Len() = %v; want 1", v, got)
			}
		}
	})
}

func TestVector_Limit(t *testing.T) {
	tests := []struct {
		name string
		v    Vector2D
		max  float64
		want Vector2D
	}{
		{"Shorter unchanged", Vector2D{0.3, 0.4}, 1, Vector2D{0.3, 0.4}},
		{"Equal unchanged", Vector2D{3, 4}, 5, Vector2D{3, 4}},
		{"Longer clamped", Vector2D{30, 40}, 5, Vector2D{3, 4}},
		{"Zero max", Vector2D{1, 1}, 0, Vector2D{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Limit(tt.max); !got.Eq(tt.want) {
				t.Errorf("%v.Limit(%v) = %v; want %v", tt.v, tt.max, got, tt.want)
			}
			w := tt.v
			ret := w.LimitInPlace(tt.max)
			if ret != &w {
				t.Error("LimitInPlace must return its receiver")
			}
			if !w.Eq(tt.want) {
				t.Errorf("%v.LimitInPlace(%v) left %v; want %v", tt.v, tt.max, w, tt.want)
			}
		})
	}

	t.Run("Random", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(3, 4))
		for i := 0; i < 1000; i++ {
			v := Vector2D{rng.NormFloat64() * 10, rng.NormFloat64() * 10}
			max := rng.Float64() * 10
			orig := v
			v.LimitInPlace(max)
			if v.Len() > max+1e-12 {
				t.Fatalf("%v limited to %v has length %v", orig, max, v.Len())
			}
			if orig.Len() <= max && !v.Equals(orig) {
				t.Fatalf("%v.LimitInPlace(%v) changed a short vector to %v", orig, max, v)
			}
		}
	})
}

func TestVector_Distance(t *testing.T) {
	v1 := Vector2D{1, 1}
	v2 := Vector2D{4, 5}

	if got := v1.DistanceTo(v2); got != 5 {
		t.Errorf("DistanceTo = %v; want 5", got)
	}
	if got := v1.DistanceSquaredTo(v2); got != 25 {
		t.Errorf("DistanceSquaredTo = %v; want 25", got)
	}
}

func TestVector_Heading(t *testing.T) {
	tests := []struct {
		v    Vector2D
		want float64
	}{
		{Vector2D{1, 0}, 0},
		{Vector2D{0, 1}, math.Pi / 2},
		{Vector2D{-1, 0}, math.Pi},
		{Vector2D{0, -1}, -math.Pi / 2},
	}
	for _, tt := range tests {
		if got := tt.v.Heading(); !floatEquals(got, tt.want) {
			t.Errorf("%v.Heading() = %v; want %v", tt.v, got, tt.want)
		}
	}

	if got := (Vector2D{1, 1}).AngleTo(Vector2D{1, 2}); !floatEquals(got, math.Pi/2) {
		t.Errorf("AngleTo = %v; want %v", got, math.Pi/2)
	}
}

func TestVector_Transformations(t *testing.T) {
	t.Run("Rotate", func(t *testing.T) {
		got := Vector2D{1, 0}.Rotate(math.Pi / 2)
		if !got.Eq(Vector2D{0, 1}) {
			t.Errorf("Rotate(90) = %v; want (0, 1)", got)
		}
	})

	t.Run("RotateAround", func(t *testing.T) {
		got := Vector2D{2, 1}.RotateAround(math.Pi/2, Vector2D{1, 1})
		if !got.Eq(Vector2D{1, 2}) {
			t.Errorf("RotateAround = %v; want (1, 2)", got)
		}
	})

	t.Run("Lerp", func(t *testing.T) {
		got := Vector2D{0, 0}.Lerp(Vector2D{10, 10}, 0.5)
		if !got.Eq(Vector2D{5, 5}) {
			t.Errorf("Lerp(0.5) = %v; want (5, 5)", got)
		}
	})
}

func TestVector_Comparison(t *testing.T) {
	v := Vector2D{1, 2}

	if !v.Equals(Vector2D{1, 2}) || !v.Eq(Vector2D{1, 2}) {
		t.Error("exact match failed")
	}

	vClose := Vector2D{1 + Epsilon/2, 2 - Epsilon/2}
	if !v.Eq(vClose) {
		t.Error("Eq epsilon match failed")
	}
	if v.Equals(vClose) {
		t.Error("Equals must be exact")
	}

	if v.Eq(Vector2D{1.1, 2}) {
		t.Error("Eq mismatch failed")
	}

	if !v.Clone().Equals(v) {
		t.Error("Clone differs from original")
	}
}

func TestVector_IsFinite(t *testing.T) {
	if !(Vector2D{1, 2}).IsFinite() {
		t.Error("(1, 2) should be finite")
	}
	if (Vector2D{math.NaN(), 0}).IsFinite() {
		t.Error("NaN component reported finite")
	}
	if (Vector2D{0, math.Inf(-1)}).IsFinite() {
		t.Error("Inf component reported finite")
	}
}
