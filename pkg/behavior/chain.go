package behavior

import "github.com/lao-tseu-is-alive/go-flock-dynamics/pkg/geometry"

// Chain is a string of joints trailing a head point, like a tail or a
// tentacle. Consecutive joints stay Spacing apart and a segment may not bend
// more than MaxBend radians away from the segment ahead of it.
type Chain struct {
	Joints  []geometry.Vector2D
	Angles  []float64 // Angles[i] is the heading from Joints[i] to Joints[i-1]
	Spacing float64
	MaxBend float64
}

// NewChain lays out joints in a straight line pointing along +X with the head
// at origin. A chain always has at least one joint.
func NewChain(origin geometry.Vector2D, joints int, spacing, maxBend float64) *Chain {
	joints = max(joints, 1)
	c := &Chain{
		Joints:  make([]geometry.Vector2D, joints),
		Angles:  make([]float64, joints),
		Spacing: spacing,
		MaxBend: maxBend,
	}
	for i := range c.Joints {
		c.Joints[i] = origin.Sub(geometry.Vector2D{X: float64(i) * spacing})
	}
	return c
}

// Follow moves the head to head and drags the remaining joints after it.
func (c *Chain) Follow(head geometry.Vector2D) {
	c.Joints[0] = head
	for i := 1; i < len(c.Joints); i++ {
		pulled := geometry.ConstrainDistance(c.Joints[i], c.Joints[i-1], c.Spacing)
		cur := pulled.AngleTo(c.Joints[i-1])
		if i == 1 {
			// the segment behind the head turns freely
			c.Angles[0] = cur
		}
		c.Angles[i] = geometry.ConstrainAngle(cur, c.Angles[i-1], c.MaxBend)
		c.Joints[i] = c.Joints[i-1].Sub(geometry.FromAngle(c.Angles[i]).Mul(c.Spacing))
	}
}

// Len returns the number of joints.
func (c *Chain) Len() int {
	return len(c.Joints)
}
