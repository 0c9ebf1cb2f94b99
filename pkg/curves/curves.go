// Package curves reads the boundary curves exported from the precise part
// model and samples them into straight edge segments.
package curves

import (
	"errors"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/fxbricks/ldtrack/pkg/geometry"
)

// ErrInvalidCurve is returned for curves that cannot be sampled
var ErrInvalidCurve = errors.New("invalid curve")

// Kind is the type of a boundary curve
type Kind string

// Curve kinds
const (
	Line     Kind = "line"
	Arc      Kind = "arc"
	Circle   Kind = "circle"
	Polyline Kind = "polyline"
)

// Curve is one boundary curve. Lines and polylines use Points; an arc is given
// by its start, a point on it and its end; a full circle by Center, Normal and Radius.
type Curve struct {
	Type   Kind        `json:"type" yaml:"type"`
	Points [][]float64 `json:"points,omitempty" yaml:"points,omitempty"`
	Center []float64   `json:"center,omitempty" yaml:"center,omitempty"`
	Normal []float64   `json:"normal,omitempty" yaml:"normal,omitempty"`
	Radius float64     `json:"radius,omitempty" yaml:"radius,omitempty"`
}

// File is an edge-curve export of one part
type File struct {
	Name   string  `json:"name" yaml:"name"`
	Curves []Curve `json:"curves" yaml:"curves"`
}

// Load reads and validates an edge-curve file
func Load(filename string) (*File, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates edge-curve YAML
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse curves: %w", err)
	}
	for i, c := range f.Curves {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("curve %d: %w", i, err)
		}
	}
	return &f, nil
}

// Validate checks that the curve carries the data its kind needs
func (c Curve) Validate() error {
	for i, p := range c.Points {
		if len(p) != 3 {
			return fmt.Errorf("%w: point %d has %d coordinates", ErrInvalidCurve, i, len(p))
		}
	}

	switch c.Type {
	case Line:
		if len(c.Points) != 2 {
			return fmt.Errorf("%w: line needs 2 points, got %d", ErrInvalidCurve, len(c.Points))
		}
	case Arc:
		if len(c.Points) != 3 {
			return fmt.Errorf("%w: arc needs 3 points, got %d", ErrInvalidCurve, len(c.Points))
		}
		p := c.points()
		if _, err := geometry.CircleThroughPoints(p[0], p[1], p[2]); err != nil {
			return fmt.Errorf("%w: arc %v", ErrInvalidCurve, err)
		}
	case Circle:
		if len(c.Center) != 3 || len(c.Normal) != 3 {
			return fmt.Errorf("%w: circle needs center and normal", ErrInvalidCurve)
		}
		if vec(c.Normal).Length() == 0 {
			return fmt.Errorf("%w: circle normal is zero", ErrInvalidCurve)
		}
		if c.Radius <= 0 {
			return fmt.Errorf("%w: circle radius must be positive, got %v", ErrInvalidCurve, c.Radius)
		}
	case Polyline:
		if len(c.Points) < 2 {
			return fmt.Errorf("%w: polyline needs at least 2 points, got %d", ErrInvalidCurve, len(c.Points))
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidCurve, c.Type)
	}
	return nil
}

func (c Curve) points() []geometry.Vector3 {
	out := make([]geometry.Vector3, len(c.Points))
	for i, p := range c.Points {
		out[i] = vec(p)
	}
	return out
}

func vec(p []float64) geometry.Vector3 {
	return geometry.NewVector3(p[0], p[1], p[2])
}
