package repair

import (
	"fmt"
	"math"
	"sort"

	"github.com/unixpickle/model3d/model3d"

	"github.com/fxbricks/ldtrack/pkg/geometry"
	"github.com/fxbricks/ldtrack/pkg/mesh"
)

// ResolveSelfIntersections splits every pair of crossing faces along the
// segment where they meet, until the surfaces only touch in shared edges.
// Nothing is removed here; the outer hull stage later decides which of the
// pieces bound the solid.
func ResolveSelfIntersections(m *mesh.Mesh, cfg Config) (*mesh.Mesh, error) {
	tol := cutTolerance(m, cfg)
	for pass := 0; ; pass++ {
		cuts := faceCuts(m, tol)
		if len(cuts) == 0 {
			return m, nil
		}
		if pass >= cfg.SelfIntersectionMaxPasses {
			return nil, nonConvergence(cfg.SelfIntersectionMaxPasses, len(cuts), "intersecting faces")
		}
		if err := splitFaces(m, cuts, tol); err != nil {
			return nil, err
		}
	}
}

// IntersectingFaces returns the sorted indices of faces that another face
// crosses. Faces sharing an edge never count as crossing, nor does contact
// in a single point.
func IntersectingFaces(m *mesh.Mesh, cfg Config) []int {
	cuts := faceCuts(m, cutTolerance(m, cfg))
	out := make([]int, 0, len(cuts))
	for i := range cuts {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// cutTolerance scales the intersection tolerance with meshes larger than a unit
func cutTolerance(m *mesh.Mesh, cfg Config) float64 {
	return cfg.IntersectionTolerance * math.Max(1, m.BoundingBox().Diagonal())
}

// faceCuts returns, per face, the segments along which other faces cross it.
// Segments no longer than tol are contact, not crossing.
func faceCuts(m *mesh.Mesh, tol float64) map[int][]model3d.Segment {
	if len(m.Faces) == 0 {
		return nil
	}
	triangles := solidTriangles(m)
	surface := model3d.NewMeshTriangles(triangles)
	if surface.SelfIntersections() == 0 {
		return nil
	}

	collider := model3d.MeshToCollider(surface)
	cuts := make(map[int][]model3d.Segment)
	for i, t := range triangles {
		for _, s := range collider.TriangleCollisions(t) {
			if s.Length() > tol {
				cuts[i] = append(cuts[i], s)
			}
		}
	}
	return cuts
}

// splitFaces replaces every cut face by its re-triangulation. Faces on both
// sides of a cut create the same points independently; welding merges them.
func splitFaces(m *mesh.Mesh, cuts map[int][]model3d.Segment, tol float64) error {
	faces := make([]mesh.Face, 0, len(m.Faces)+4*len(cuts))
	for i, f := range m.Faces {
		segments, ok := cuts[i]
		if !ok {
			faces = append(faces, f)
			continue
		}
		t := m.Triangle(i)
		split, err := splitFace([3]geometry.Vector3{t.V1, t.V2, t.V3}, segments, tol)
		if err != nil {
			return fmt.Errorf("%w: face %d: %w", ErrNonConvergence, i, err)
		}

		index := make([]int, len(split.points))
		copy(index, f[:])
		for k := 3; k < len(split.points); k++ {
			index[k] = len(m.Vertices)
			m.Vertices = append(m.Vertices, split.points[k])
		}
		for _, tri := range split.tris {
			faces = append(faces, mesh.Face{index[tri[0]], index[tri[1]], index[tri[2]]})
		}
	}
	m.Faces = faces
	m.Weld(tol)
	return nil
}
