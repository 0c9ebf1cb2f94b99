package geometry

import (
	"fmt"
	"math"
)

// Circle is a circle embedded in 3D space
type Circle struct {
	Center Vector3 // Circle center in 3D
	Radius float64 // Circle radius
	Normal Vector3 // Unit normal of the plane containing the circle
}

// CircleThroughPoints returns the circle passing through three points.
// The normal follows the winding p1 -> p2 -> p3.
//
// With a = p1 - p3 and b = p2 - p3 the center is
//
//	p3 + ((|a|² b - |b|² a) × (a × b)) / (2 |a × b|²)
func CircleThroughPoints(p1, p2, p3 Vector3) (*Circle, error) {
	a := p1.Sub(p3)
	b := p2.Sub(p3)
	axb := a.Cross(b)
	denom := 2 * axb.LengthSquared()
	if denom < 1e-20 {
		return nil, fmt.Errorf("points are collinear")
	}

	num := b.Mul(a.LengthSquared()).Sub(a.Mul(b.LengthSquared())).Cross(axb)
	center := p3.Add(num.Mul(1 / denom))

	return &Circle{
		Center: center,
		Radius: center.Distance(p1),
		Normal: axb.Normalize(),
	}, nil
}

// Basis returns two unit vectors spanning the circle plane. u points from the
// center towards ref projected into the plane; when ref is the center an
// arbitrary in-plane direction is used.
func (c *Circle) Basis(ref Vector3) (u, v Vector3) {
	d := ref.Sub(c.Center)
	u = d.Sub(c.Normal.Mul(d.Dot(c.Normal)))
	if u.Length() < 1e-12 {
		// any vector not parallel to the normal
		helper := Vector3{X: 1}
		if math.Abs(c.Normal.X) > 0.9 {
			helper = Vector3{Y: 1}
		}
		u = helper.Sub(c.Normal.Mul(helper.Dot(c.Normal)))
	}
	u = u.Normalize()
	v = c.Normal.Cross(u)
	return u, v
}

// PointAt returns the point at angle theta measured from u towards v
func (c *Circle) PointAt(u, v Vector3, theta float64) Vector3 {
	return c.Center.
		Add(u.Mul(c.Radius * math.Cos(theta))).
		Add(v.Mul(c.Radius * math.Sin(theta)))
}

// AngleOf returns the angle of p around the circle in the (u, v) frame, in [0, 2π)
func (c *Circle) AngleOf(u, v, p Vector3) float64 {
	d := p.Sub(c.Center)
	theta := math.Atan2(d.Dot(v), d.Dot(u))
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return theta
}
