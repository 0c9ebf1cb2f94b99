package curves

import (
	"fmt"
	"math"

	"github.com/fxbricks/ldtrack/pkg/geometry"
)

// Resolution sets how finely curves are sampled
type Resolution struct {
	// Curve is the segment count of a free-form curve
	Curve int `json:"curve" yaml:"curve" mapstructure:"curve"`
	// Circle is the segment count of a full circle; arcs get their share of it
	Circle int `json:"circle" yaml:"circle" mapstructure:"circle"`
}

// DefaultResolution returns 10 segments per curve and 24 per full circle
func DefaultResolution() Resolution {
	return Resolution{Curve: 10, Circle: 24}
}

// Discretize samples every curve into consecutive segments
func Discretize(curves []Curve, res Resolution) ([]geometry.Segment, error) {
	if res.Curve < 1 || res.Circle < 1 {
		return nil, fmt.Errorf("resolution must be positive, got curve=%d circle=%d", res.Curve, res.Circle)
	}
	var segments []geometry.Segment
	for i, c := range curves {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("curve %d: %w", i, err)
		}
		points, err := c.sample(res)
		if err != nil {
			return nil, fmt.Errorf("curve %d: %w", i, err)
		}
		for k := 1; k < len(points); k++ {
			segments = append(segments, geometry.NewSegment(points[k-1], points[k]))
		}
	}
	return segments, nil
}

// sample returns the polyline approximating the curve
func (c Curve) sample(res Resolution) ([]geometry.Vector3, error) {
	switch c.Type {
	case Line:
		return c.points(), nil
	case Arc:
		return c.sampleArc(res.Circle)
	case Circle:
		return c.sampleCircle(res.Circle), nil
	case Polyline:
		return resample(c.points(), res.Curve)
	}
	return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidCurve, c.Type)
}

func (c Curve) sampleArc(circleSegments int) ([]geometry.Vector3, error) {
	p := c.points()
	circle, err := geometry.CircleThroughPoints(p[0], p[1], p[2])
	if err != nil {
		return nil, fmt.Errorf("%w: arc %v", ErrInvalidCurve, err)
	}
	u, v := circle.Basis(p[0])
	sweep := circle.AngleOf(u, v, p[2])
	if sweep == 0 {
		sweep = 2 * math.Pi
	}
	n := int(math.Ceil(float64(circleSegments)*sweep/(2*math.Pi) - 1e-9))
	if n < 1 {
		n = 1
	}

	out := make([]geometry.Vector3, n+1)
	out[0] = p[0]
	for k := 1; k < n; k++ {
		out[k] = circle.PointAt(u, v, sweep*float64(k)/float64(n))
	}
	out[n] = p[2]
	return out, nil
}

func (c Curve) sampleCircle(n int) []geometry.Vector3 {
	circle := geometry.Circle{Center: vec(c.Center), Radius: c.Radius, Normal: vec(c.Normal).Normalize()}
	u, v := circle.Basis(circle.Center)
	out := make([]geometry.Vector3, n+1)
	for k := 0; k < n; k++ {
		out[k] = circle.PointAt(u, v, 2*math.Pi*float64(k)/float64(n))
	}
	out[n] = out[0]
	return out
}

// resample places n+1 points along the polyline at equal arc-length spacing
func resample(points []geometry.Vector3, n int) ([]geometry.Vector3, error) {
	cumulative := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		cumulative[i] = cumulative[i-1] + points[i].Distance(points[i-1])
	}
	total := cumulative[len(points)-1]
	if total == 0 {
		return nil, fmt.Errorf("%w: polyline has zero length", ErrInvalidCurve)
	}

	out := make([]geometry.Vector3, n+1)
	out[0] = points[0]
	span := 1
	for k := 1; k < n; k++ {
		target := total * float64(k) / float64(n)
		for span < len(points)-1 && cumulative[span] < target {
			span++
		}
		length := cumulative[span] - cumulative[span-1]
		t := 0.0
		if length > 0 {
			t = (target - cumulative[span-1]) / length
		}
		out[k] = points[span-1].Lerp(points[span], t)
	}
	out[n] = points[len(points)-1]
	return out, nil
}
