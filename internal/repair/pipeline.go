// Package repair turns a raw triangulation into a closed, manifold outer hull
// with a fixed sequence of cleanup stages.
package repair

import (
	"context"
	"fmt"

	"github.com/fxbricks/ldtrack/pkg/mesh"
)

// Stage is one step of the repair pipeline. Apply receives its own copy of the mesh.
type Stage struct {
	Name  string
	Apply func(m *mesh.Mesh, cfg Config) (*mesh.Mesh, error)
}

// Reporter receives the mesh statistics after every stage
type Reporter func(stage string, stats mesh.Stats)

// Stages returns the pipeline in the order it runs
func Stages() []Stage {
	return []Stage{
		{Name: "Remove degenerate faces", Apply: RemoveDegenerateTriangles},
		{Name: "Collapse short edges", Apply: CollapseShortEdges},
		{Name: "Remove self intersections", Apply: ResolveSelfIntersections},
		{Name: "Remove duplicate faces", Apply: RemoveDuplicateFaces},
		{Name: "Compute outer hull", Apply: ComputeOuterHull},
		{Name: "Remove duplicate faces", Apply: RemoveDuplicateFaces},
		{Name: "Remove obtuse faces", Apply: RemoveObtuseTriangles},
		{Name: "Remove isolated vertices", Apply: RemoveIsolatedVertices},
	}
}

// Repairer runs the fixed pipeline with one set of thresholds
type Repairer struct {
	config   Config
	reporter Reporter
}

// NewRepairer creates a repairer; reporter may be nil
func NewRepairer(cfg Config, reporter Reporter) *Repairer {
	return &Repairer{config: cfg, reporter: reporter}
}

// Config returns the thresholds the repairer runs with
func (r *Repairer) Config() Config {
	return r.config
}

// Repair runs every stage on a copy of m and returns the repaired mesh
func (r *Repairer) Repair(ctx context.Context, m *mesh.Mesh) (*mesh.Mesh, error) {
	if m == nil || m.IsEmpty() {
		return nil, mesh.ErrEmpty
	}
	if err := r.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid repair config: %w", err)
	}
	for i, f := range m.Faces {
		for _, v := range f {
			if v < 0 || v >= len(m.Vertices) {
				return nil, &StageError{
					Stage: "Check input",
					Err:   fmt.Errorf("face %d references vertex %d out of range [0,%d)", i, v, len(m.Vertices)),
				}
			}
		}
	}

	current := m
	for _, stage := range Stages() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := stage.Apply(current.Clone(), r.config)
		if err != nil {
			return nil, &StageError{Stage: stage.Name, Err: err}
		}
		current = next
		if r.reporter != nil {
			r.reporter(stage.Name, current.Stats())
		}
	}

	if current.IsEmpty() {
		return nil, &StageError{Stage: "Check result", Err: mesh.ErrEmpty}
	}
	if r.config.RequireClosed && !current.IsClosedManifold() {
		return nil, &StageError{
			Stage: "Check result",
			Err: fmt.Errorf("%w: %d boundary edges, %d non-manifold edges",
				ErrNotManifold, len(current.BoundaryEdges()), len(current.NonManifoldEdges())),
		}
	}
	return current, nil
}

// Repair runs the pipeline with the given thresholds and no reporter
func Repair(ctx context.Context, m *mesh.Mesh, cfg Config) (*mesh.Mesh, error) {
	return NewRepairer(cfg, nil).Repair(ctx, m)
}
