package geometry

// Segment is a straight span between two points, typically one sampled piece
// of a boundary curve.
type Segment struct {
	Start Vector3
	End   Vector3
}

// NewSegment creates a new segment
func NewSegment(start, end Vector3) Segment {
	return Segment{Start: start, End: end}
}

// Length returns the distance between the endpoints
func (s Segment) Length() float64 {
	return s.Start.Distance(s.End)
}
