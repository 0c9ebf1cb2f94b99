// Package meshtest provides small reference meshes for tests.
package meshtest

import (
	"math"

	"github.com/fxbricks/ldtrack/pkg/geometry"
	"github.com/fxbricks/ldtrack/pkg/mesh"
)

// Cube returns an axis-aligned closed cube with outward normals: 8 vertices
// and 12 triangles, two per side.
func Cube(origin geometry.Vector3, size float64) *mesh.Mesh {
	vertices := make([]geometry.Vector3, 8)
	for i := range vertices {
		vertices[i] = origin.Add(geometry.NewVector3(
			float64(i&1)*size,
			float64((i>>1)&1)*size,
			float64((i>>2)&1)*size,
		))
	}
	faces := []mesh.Face{
		{0, 2, 3}, {0, 3, 1}, // z = 0
		{4, 5, 7}, {4, 7, 6}, // z = size
		{0, 1, 5}, {0, 5, 4}, // y = 0
		{2, 6, 7}, {2, 7, 3}, // y = size
		{0, 4, 6}, {0, 6, 2}, // x = 0
		{1, 3, 7}, {1, 7, 5}, // x = size
	}
	return mesh.New(vertices, faces)
}

// Tetrahedron returns the unit corner tetrahedron with outward normals
func Tetrahedron() *mesh.Mesh {
	return mesh.New(
		[]geometry.Vector3{
			geometry.NewVector3(0, 0, 0),
			geometry.NewVector3(1, 0, 0),
			geometry.NewVector3(0, 1, 0),
			geometry.NewVector3(0, 0, 1),
		},
		[]mesh.Face{{0, 2, 1}, {0, 1, 3}, {0, 3, 2}, {1, 2, 3}},
	)
}

// Append adds the vertices and faces of other to m with shifted indices
func Append(m, other *mesh.Mesh) *mesh.Mesh {
	out := m.Clone()
	offset := len(out.Vertices)
	out.Vertices = append(out.Vertices, other.Vertices...)
	for _, f := range other.Faces {
		out.Faces = append(out.Faces, mesh.Face{f[0] + offset, f[1] + offset, f[2] + offset})
	}
	return out
}

// Inverted returns a copy of m with every face flipped
func Inverted(m *mesh.Mesh) *mesh.Mesh {
	out := m.Clone()
	for i, f := range out.Faces {
		out.Faces[i] = f.Flip()
	}
	return out
}

// Cylinder returns a closed prism around the z axis through base, with the
// given number of sides and fan-triangulated caps
func Cylinder(base geometry.Vector3, radius, height float64, sides int) *mesh.Mesh {
	vertices := make([]geometry.Vector3, 0, 2*sides+2)
	for _, z := range []float64{0, height} {
		for i := 0; i < sides; i++ {
			angle := 2 * math.Pi * float64(i) / float64(sides)
			vertices = append(vertices, base.Add(geometry.NewVector3(radius*math.Cos(angle), radius*math.Sin(angle), z)))
		}
	}
	bottom, top := 2*sides, 2*sides+1
	vertices = append(vertices, base, base.Add(geometry.NewVector3(0, 0, height)))

	faces := make([]mesh.Face, 0, 4*sides)
	for i := 0; i < sides; i++ {
		j := (i + 1) % sides
		faces = append(faces,
			mesh.Face{bottom, j, i},
			mesh.Face{top, sides + i, sides + j},
			mesh.Face{i, j, sides + j},
			mesh.Face{i, sides + j, sides + i},
		)
	}
	return mesh.New(vertices, faces)
}
