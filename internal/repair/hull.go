package repair

import (
	"math"

	"github.com/unixpickle/model3d/model3d"

	"github.com/fxbricks/ldtrack/pkg/geometry"
	"github.com/fxbricks/ldtrack/pkg/mesh"
)

// ComputeOuterHull keeps the faces that separate solid from empty space and
// orients them outward. The winding number of the whole surface is sampled
// just in front of and just behind every face; faces with solid on both
// sides or on neither are discarded. Of the shells that remain, those facing
// into a cavity and those enclosed by another shell are dropped as well, so
// only the boundary of the exterior survives.
func ComputeOuterHull(m *mesh.Mesh, cfg Config) (*mesh.Mesh, error) {
	if len(m.Faces) == 0 {
		return m, nil
	}
	collider := surfaceCollider(solidTriangles(m))

	faces := make([]mesh.Face, 0, len(m.Faces))
	for i, f := range m.Faces {
		t := m.Triangle(i)
		if t.Normal == (geometry.Vector3{}) {
			continue
		}
		offset := math.Min(cfg.HullSampleOffset, 0.1*math.Sqrt(t.Area()))
		center := t.Center()
		front := windingNumber(collider, coord(center.Add(t.Normal.Mul(offset)))) != 0
		back := windingNumber(collider, coord(center.Sub(t.Normal.Mul(offset)))) != 0

		switch {
		case back && !front:
			faces = append(faces, f)
		case front && !back:
			faces = append(faces, f.Flip())
		}
	}
	m.Faces = faces
	m.Faces = exteriorShells(m)
	return m, nil
}

// exteriorShells returns the faces of every edge-connected shell that
// encloses positive volume and is not itself inside another such shell
func exteriorShells(m *mesh.Mesh) []mesh.Face {
	type shell struct {
		faces []int
		solid *model3d.ColliderSolid
	}
	var shells []shell
	for _, component := range m.Components() {
		part := mesh.New(m.Vertices, make([]mesh.Face, len(component)))
		for i, fi := range component {
			part.Faces[i] = m.Faces[fi]
		}
		if part.SignedVolume() <= 0 {
			continue
		}
		shells = append(shells, shell{
			faces: component,
			solid: model3d.NewColliderSolid(surfaceCollider(solidTriangles(part))),
		})
	}

	keep := make([]bool, len(m.Faces))
	for i, s := range shells {
		sample := coord(m.Triangle(s.faces[0]).Center())
		enclosed := false
		for j, other := range shells {
			if i != j && other.solid.Contains(sample) {
				enclosed = true
				break
			}
		}
		if enclosed {
			continue
		}
		for _, fi := range s.faces {
			keep[fi] = true
		}
	}

	faces := make([]mesh.Face, 0, len(m.Faces))
	for i, f := range m.Faces {
		if keep[i] {
			faces = append(faces, f)
		}
	}
	return faces
}
