package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fxbricks/ldtrack/pkg/geometry"
	"github.com/fxbricks/ldtrack/pkg/mesh"
	"github.com/fxbricks/ldtrack/pkg/mesh/meshtest"
)

func TestAnalyzeCleanCube(t *testing.T) {
	result := AnalyzeMesh(meshtest.Cube(geometry.Vector3{}, 2), DefaultOptions())

	assert.Equal(t, 12, result.TriangleCount)
	assert.Equal(t, 8, result.VertexCount)
	assert.Equal(t, 18, result.EdgeCount)
	assert.InDelta(t, 8.0, result.Volume, 1e-9)
	assert.InDelta(t, 24.0, result.SurfaceArea, 1e-9)
	assert.Equal(t, geometry.NewVector3(2, 2, 2), result.Dimensions)
	assert.InDelta(t, 2.0, result.MinEdgeLength, 1e-12)
	assert.InDelta(t, 2*1.4142135623730951, result.MaxEdgeLength, 1e-12)
	assert.Equal(t, 1, result.Components)
	assert.True(t, result.ClosedManifold)
	assert.Zero(t, result.Defects())
}

func TestAnalyzeCountsDefects(t *testing.T) {
	m := meshtest.Cube(geometry.Vector3{}, 1)
	m.Faces = append(m.Faces, m.Faces[0])
	m.Vertices = append(m.Vertices, geometry.NewVector3(5, 5, 5))

	result := AnalyzeMesh(m, DefaultOptions())

	assert.Equal(t, 1, result.DuplicateFaces)
	assert.Equal(t, 1, result.IsolatedVertices)
	assert.Equal(t, 3, result.NonManifoldEdges)
	assert.False(t, result.ClosedManifold)
	assert.Equal(t, 5, result.Defects())
}

func TestAnalyzeObtuseAndDegenerate(t *testing.T) {
	m := mesh.New(
		[]geometry.Vector3{
			geometry.NewVector3(0, 0, 0),
			geometry.NewVector3(10, 0, 0),
			geometry.NewVector3(5, 0.01, 0),
			geometry.NewVector3(5, 0, 0),
		},
		[]mesh.Face{{0, 1, 2}, {0, 1, 3}},
	)

	result := AnalyzeMesh(m, DefaultOptions())
	assert.Equal(t, 1, result.DegenerateFaces)
	// the collinear face has a straight angle as well
	assert.Equal(t, 2, result.ObtuseFaces)
}

func TestFindEdges(t *testing.T) {
	result := AnalyzeMesh(meshtest.Cube(geometry.Vector3{}, 1), DefaultOptions())

	longest := FindLongestEdges(result, 3)
	assert.Len(t, longest, 3)
	for _, e := range longest {
		assert.InDelta(t, 1.4142135623730951, e.Length, 1e-12)
	}

	all := FindLongestEdges(result, 100)
	assert.Len(t, all, 18)
	assert.InDelta(t, 1.0, all[len(all)-1].Length, 1e-12)
}

func TestFormatVector(t *testing.T) {
	got := FormatVector(geometry.NewVector3(1, -2, 0.5))
	if got != "(1.000000, -2.000000, 0.500000)" {
		t.Errorf("FormatVector failed: got %s", got)
	}
	if got := FormatMeasurement(2, ""); got != "2.000000 units" {
		t.Errorf("FormatMeasurement failed: got %s", got)
	}
}
