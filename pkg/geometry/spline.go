package geometry

// CatmullRom samples a uniform Catmull-Rom spline through points, emitting
// segments+1 samples per span. The end points are repeated as their own
// control points so the curve starts and ends on them.
// Fewer than two points are returned as a copy.
func CatmullRom(points []Vector2D, segments int) []Vector2D {
	if len(points) < 2 || segments < 1 {
		return append([]Vector2D(nil), points...)
	}
	at := func(i int) Vector2D {
		if i < 0 {
			return points[0]
		}
		if i > len(points)-1 {
			return points[len(points)-1]
		}
		return points[i]
	}

	out := make([]Vector2D, 0, (len(points)-1)*(segments+1))
	for i := 0; i < len(points)-1; i++ {
		p0, p1, p2, p3 := at(i-1), at(i), at(i+1), at(i+2)
		for s := 0; s <= segments; s++ {
			t := float64(s) / float64(segments)
			out = append(out, Vector2D{
				X: catmullRom(p0.X, p1.X, p2.X, p3.X, t),
				Y: catmullRom(p0.Y, p1.Y, p2.Y, p3.Y, t),
			})
		}
	}
	return out
}

func catmullRom(p0, p1, p2, p3, t float64) float64 {
	t2 := t * t
	t3 := t2 * t
	return 0.5 * (2*p1 +
		(-p0+p2)*t +
		(2*p0-5*p1+4*p2-p3)*t2 +
		(-p0+3*p1-3*p2+p3)*t3)
}
