package stl

import (
	"github.com/fxbricks/ldtrack/pkg/geometry"
	"github.com/fxbricks/ldtrack/pkg/mesh"
)

// Model represents a complete STL model as the triangle soup stored in the file
type Model struct {
	Name      string
	Triangles []geometry.Triangle
}

// NewModel creates a new STL model
func NewModel(name string) *Model {
	return &Model{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0),
	}
}

// AddTriangle adds a triangle to the model
func (m *Model) AddTriangle(triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
}

// TriangleCount returns the number of triangles in the model
func (m *Model) TriangleCount() int {
	return len(m.Triangles)
}

// Mesh converts the triangle soup into an indexed mesh, sharing vertices
// with identical coordinates
func (m *Model) Mesh() *mesh.Mesh {
	return mesh.FromTriangles(m.Triangles)
}

// FromMesh creates a model from an indexed mesh with computed facet normals
func FromMesh(name string, msh *mesh.Mesh) *Model {
	model := NewModel(name)
	model.Triangles = msh.Triangles()
	return model
}
