package repair

import "fmt"

// Config holds the fixed numeric thresholds of the repair pipeline
type Config struct {
	// WeldTolerance merges vertices closer than this distance before degenerate removal
	WeldTolerance float64 `json:"weld_tolerance" yaml:"weld_tolerance" mapstructure:"weld_tolerance"`

	// DegenerateTolerance is the area threshold for collinear triangles, relative
	// to the squared longest edge
	DegenerateTolerance float64 `json:"degenerate_tolerance" yaml:"degenerate_tolerance" mapstructure:"degenerate_tolerance"`

	// DegenerateMaxIterations bounds the degenerate removal passes (default 100)
	DegenerateMaxIterations int `json:"degenerate_max_iterations" yaml:"degenerate_max_iterations" mapstructure:"degenerate_max_iterations"`

	// MinEdgeLength is the short-edge collapse threshold (default 0.05)
	MinEdgeLength float64 `json:"min_edge_length" yaml:"min_edge_length" mapstructure:"min_edge_length"`

	// CollapseMaxPasses bounds the short-edge collapse passes (default 100)
	CollapseMaxPasses int `json:"collapse_max_passes" yaml:"collapse_max_passes" mapstructure:"collapse_max_passes"`

	// PreserveFeatures keeps boundary, non-manifold and sharp-edge vertices in place during collapse
	PreserveFeatures bool `json:"preserve_features" yaml:"preserve_features" mapstructure:"preserve_features"`

	// FeatureAngle is the dihedral angle in degrees above which an edge is sharp
	FeatureAngle float64 `json:"feature_angle" yaml:"feature_angle" mapstructure:"feature_angle"`

	// IntersectionTolerance is the contact distance below which faces only touch
	IntersectionTolerance float64 `json:"intersection_tolerance" yaml:"intersection_tolerance" mapstructure:"intersection_tolerance"`

	// SelfIntersectionMaxPasses bounds the split passes over crossing faces
	SelfIntersectionMaxPasses int `json:"self_intersection_max_passes" yaml:"self_intersection_max_passes" mapstructure:"self_intersection_max_passes"`

	// HullSampleOffset is how far in front of and behind a face the winding number is sampled
	HullSampleOffset float64 `json:"hull_sample_offset" yaml:"hull_sample_offset" mapstructure:"hull_sample_offset"`

	// ObtuseMaxAngle is the largest interior angle in degrees a small triangle may have (default 179.5)
	ObtuseMaxAngle float64 `json:"obtuse_max_angle" yaml:"obtuse_max_angle" mapstructure:"obtuse_max_angle"`

	// ObtuseMaxArea limits sliver removal to triangles smaller than this (default 5)
	ObtuseMaxArea float64 `json:"obtuse_max_area" yaml:"obtuse_max_area" mapstructure:"obtuse_max_area"`

	// ObtuseMaxIterations bounds the sliver removal passes (default 5)
	ObtuseMaxIterations int `json:"obtuse_max_iterations" yaml:"obtuse_max_iterations" mapstructure:"obtuse_max_iterations"`

	// RequireClosed fails the repair when the result is not a closed manifold
	RequireClosed bool `json:"require_closed" yaml:"require_closed" mapstructure:"require_closed"`
}

// DefaultConfig returns the thresholds the track parts are converted with
func DefaultConfig() Config {
	return Config{
		WeldTolerance:             1e-9,
		DegenerateTolerance:       1e-10,
		DegenerateMaxIterations:   100,
		MinEdgeLength:             0.05,
		CollapseMaxPasses:         100,
		PreserveFeatures:          true,
		FeatureAngle:              30,
		IntersectionTolerance:     1e-9,
		SelfIntersectionMaxPasses: 10,
		HullSampleOffset:          1e-3,
		ObtuseMaxAngle:            179.5,
		ObtuseMaxArea:             5,
		ObtuseMaxIterations:       5,
		RequireClosed:             true,
	}
}

// Validate rejects thresholds the pipeline cannot run with
func (c Config) Validate() error {
	switch {
	case c.DegenerateMaxIterations < 0:
		return fmt.Errorf("degenerate_max_iterations must not be negative")
	case c.CollapseMaxPasses < 1:
		return fmt.Errorf("collapse_max_passes must be at least 1")
	case c.SelfIntersectionMaxPasses < 0:
		return fmt.Errorf("self_intersection_max_passes must not be negative")
	case c.ObtuseMaxIterations < 0:
		return fmt.Errorf("obtuse_max_iterations must not be negative")
	case c.MinEdgeLength < 0:
		return fmt.Errorf("min_edge_length must not be negative")
	case c.HullSampleOffset <= 0:
		return fmt.Errorf("hull_sample_offset must be positive")
	case c.ObtuseMaxAngle <= 0 || c.ObtuseMaxAngle > 180:
		return fmt.Errorf("obtuse_max_angle must be in (0, 180]")
	}
	return nil
}
