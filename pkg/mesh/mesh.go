// Package mesh provides an indexed triangle mesh and the topology queries the
// repair pipeline is built on.
package mesh

import (
	"errors"
	"fmt"

	"github.com/fxbricks/ldtrack/pkg/geometry"
)

// ErrEmpty is returned when an operation needs vertices or faces and the mesh has none
var ErrEmpty = errors.New("mesh is empty")

// Face is a triangle given by three vertex indices in counter-clockwise order
type Face [3]int

// Mesh is an indexed triangle mesh
type Mesh struct {
	Vertices []geometry.Vector3
	Faces    []Face
}

// Stats holds the element counts of a mesh
type Stats struct {
	Vertices int
	Faces    int
}

// String formats the counts the way the conversion progress is reported
func (s Stats) String() string {
	return fmt.Sprintf("triangles=%-5d vertices=%-5d", s.Faces, s.Vertices)
}

// New creates a mesh from vertices and faces
func New(vertices []geometry.Vector3, faces []Face) *Mesh {
	return &Mesh{Vertices: vertices, Faces: faces}
}

// Clone returns a deep copy of the mesh
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Vertices: append([]geometry.Vector3(nil), m.Vertices...),
		Faces:    append([]Face(nil), m.Faces...),
	}
}

// VertexCount returns the number of vertices
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of faces
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// IsEmpty reports whether the mesh has no faces or no vertices
func (m *Mesh) IsEmpty() bool {
	return len(m.Faces) == 0 || len(m.Vertices) == 0
}

// Stats returns the element counts
func (m *Mesh) Stats() Stats {
	return Stats{Vertices: len(m.Vertices), Faces: len(m.Faces)}
}

// Triangle returns face i as a geometric triangle
func (m *Mesh) Triangle(i int) geometry.Triangle {
	f := m.Faces[i]
	t := geometry.Triangle{V1: m.Vertices[f[0]], V2: m.Vertices[f[1]], V3: m.Vertices[f[2]]}
	t.Normal = t.CalculateNormal()
	return t
}

// Triangles returns all faces as geometric triangles
func (m *Mesh) Triangles() []geometry.Triangle {
	out := make([]geometry.Triangle, len(m.Faces))
	for i := range m.Faces {
		out[i] = m.Triangle(i)
	}
	return out
}

// BoundingBox returns the bounding box of all vertices
func (m *Mesh) BoundingBox() geometry.BoundingBox {
	return geometry.BoundsOf(m.Vertices...)
}

// Validate checks that every face references three distinct, in-range vertices
func (m *Mesh) Validate() error {
	for i, f := range m.Faces {
		for _, v := range f {
			if v < 0 || v >= len(m.Vertices) {
				return fmt.Errorf("face %d references vertex %d out of range [0,%d)", i, v, len(m.Vertices))
			}
		}
		if f[0] == f[1] || f[1] == f[2] || f[0] == f[2] {
			return fmt.Errorf("face %d repeats a vertex: %v", i, f)
		}
	}
	return nil
}

// SignedVolume returns the enclosed volume; positive for outward-facing closed meshes
func (m *Mesh) SignedVolume() float64 {
	volume := 0.0
	for _, f := range m.Faces {
		v1, v2, v3 := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		volume += v1.Dot(v2.Cross(v3))
	}
	return volume / 6.0
}

// SurfaceArea returns the total area of all faces
func (m *Mesh) SurfaceArea() float64 {
	total := 0.0
	for i := range m.Faces {
		total += m.Triangle(i).Area()
	}
	return total
}

// Flip reverses the winding of a face
func (f Face) Flip() Face {
	return Face{f[0], f[2], f[1]}
}

// Has reports whether the face references vertex v
func (f Face) Has(v int) bool {
	return f[0] == v || f[1] == v || f[2] == v
}

// Degenerate reports whether the face repeats a vertex index
func (f Face) Degenerate() bool {
	return f[0] == f[1] || f[1] == f[2] || f[0] == f[2]
}

// Key returns the sorted vertex set, identical for faces sharing their corners
func (f Face) Key() [3]int {
	a, b, c := f[0], f[1], f[2]
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return [3]int{a, b, c}
}

// Opposite returns the corner not on edge (a, b), or -1 when the face does not contain the edge
func (f Face) Opposite(a, b int) int {
	for i := 0; i < 3; i++ {
		x, y := f[i], f[(i+1)%3]
		if (x == a && y == b) || (x == b && y == a) {
			return f[(i+2)%3]
		}
	}
	return -1
}

// Rotate returns the face rotated so that it starts at vertex v, keeping the winding
func (f Face) Rotate(v int) Face {
	switch v {
	case f[1]:
		return Face{f[1], f[2], f[0]}
	case f[2]:
		return Face{f[2], f[0], f[1]}
	}
	return f
}
