package geometry

import "math"

// Triangle represents a triangular facet in 3D space
type Triangle struct {
	Normal     Vector3
	V1, V2, V3 Vector3
}

// NewTriangle creates a new triangle
func NewTriangle(normal, v1, v2, v3 Vector3) Triangle {
	return Triangle{
		Normal: normal,
		V1:     v1,
		V2:     v2,
		V3:     v3,
	}
}

// CrossVector returns the unnormalized face normal (length = twice the area)
func (t Triangle) CrossVector() Vector3 {
	return t.V2.Sub(t.V1).Cross(t.V3.Sub(t.V1))
}

// CalculateNormal computes the normal vector for the triangle
func (t Triangle) CalculateNormal() Vector3 {
	return t.CrossVector().Normalize()
}

// Area returns the surface area of the triangle
func (t Triangle) Area() float64 {
	return t.CrossVector().Length() / 2.0
}

// EdgeLengths returns the lengths of all three edges
func (t Triangle) EdgeLengths() [3]float64 {
	return [3]float64{
		t.V1.Distance(t.V2),
		t.V2.Distance(t.V3),
		t.V3.Distance(t.V1),
	}
}

// LongestEdge returns the index of the longest edge (0: V1-V2, 1: V2-V3, 2: V3-V1) and its length
func (t Triangle) LongestEdge() (int, float64) {
	lengths := t.EdgeLengths()
	best := 0
	for i := 1; i < 3; i++ {
		if lengths[i] > lengths[best] {
			best = i
		}
	}
	return best, lengths[best]
}

// Perimeter returns the total length of all edges
func (t Triangle) Perimeter() float64 {
	lengths := t.EdgeLengths()
	return lengths[0] + lengths[1] + lengths[2]
}

// Center returns the centroid of the triangle
func (t Triangle) Center() Vector3 {
	return Vector3{
		X: (t.V1.X + t.V2.X + t.V3.X) / 3.0,
		Y: (t.V1.Y + t.V2.Y + t.V3.Y) / 3.0,
		Z: (t.V1.Z + t.V2.Z + t.V3.Z) / 3.0,
	}
}

// IsDegenerate reports whether the triangle is collinear or has coincident
// corners. tolerance is relative to the squared longest edge.
func (t Triangle) IsDegenerate(tolerance float64) bool {
	_, longest := t.LongestEdge()
	if longest == 0 {
		return true
	}
	return t.CrossVector().Length() <= tolerance*longest*longest
}

// Angles returns the three interior angles in radians (at V1, V2, V3)
func (t Triangle) Angles() [3]float64 {
	return [3]float64{
		angleBetween(t.V2.Sub(t.V1), t.V3.Sub(t.V1)),
		angleBetween(t.V1.Sub(t.V2), t.V3.Sub(t.V2)),
		angleBetween(t.V1.Sub(t.V3), t.V2.Sub(t.V3)),
	}
}

// MaxAngle returns the index of the largest interior angle and its value in degrees
func (t Triangle) MaxAngle() (int, float64) {
	angles := t.Angles()
	best := 0
	for i := 1; i < 3; i++ {
		if angles[i] > angles[best] {
			best = i
		}
	}
	return best, angles[best] * 180 / math.Pi
}

func angleBetween(a, b Vector3) float64 {
	la, lb := a.Length(), b.Length()
	if la == 0 || lb == 0 {
		return 0
	}
	c := a.Dot(b) / (la * lb)
	return math.Acos(math.Max(-1, math.Min(1, c)))
}
