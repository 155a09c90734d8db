package geometry

import "math"

// ConstrainDistance returns the point on the ray from anchor through pos that
// lies exactly constraint away from anchor.
// When pos == anchor the direction is the zero vector and anchor is returned.
func ConstrainDistance(pos, anchor Vector2D, constraint float64) Vector2D {
	return anchor.Add(pos.Sub(anchor).Normalize().Mul(constraint))
}

// NormalizeAngle maps angle into (-Pi, Pi].
func NormalizeAngle(angle float64) float64 {
	a := angle - 2*math.Pi*math.Floor((angle+math.Pi)/(2*math.Pi))
	// the floor wrap lands on [-Pi, Pi), fold the lower bound over
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// ConstrainAngle limits how far curAngle may turn away from prevAngle.
// The signed difference is clamped to [-maxDelta, maxDelta] and the result is
// normalized.
func ConstrainAngle(curAngle, prevAngle, maxDelta float64) float64 {
	delta := NormalizeAngle(curAngle - prevAngle)
	if delta > math.Pi {
		delta -= 2 * math.Pi
	}
	delta = math.Max(-maxDelta, math.Min(maxDelta, delta))
	return NormalizeAngle(prevAngle + delta)
}
