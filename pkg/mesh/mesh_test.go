package mesh_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxbricks/ldtrack/pkg/geometry"
	"github.com/fxbricks/ldtrack/pkg/mesh"
	"github.com/fxbricks/ldtrack/pkg/mesh/meshtest"
)

func TestCubeIsClosedManifold(t *testing.T) {
	cube := meshtest.Cube(geometry.Vector3{}, 10)

	require.NoError(t, cube.Validate())
	assert.True(t, cube.IsClosed())
	assert.True(t, cube.IsClosedManifold())
	assert.Empty(t, cube.BoundaryEdges())
	assert.Empty(t, cube.NonManifoldEdges())
	assert.InDelta(t, 1000.0, cube.SignedVolume(), 1e-9)
	assert.InDelta(t, 600.0, cube.SurfaceArea(), 1e-9)
}

func TestInvertedCubeIsNotConsistentlyOriented(t *testing.T) {
	cube := meshtest.Cube(geometry.Vector3{}, 1)
	cube.Faces[0] = cube.Faces[0].Flip()

	assert.True(t, cube.IsClosed())
	assert.False(t, cube.IsClosedManifold())
}

func TestBoundaryLoopsOfOpenCube(t *testing.T) {
	cube := meshtest.Cube(geometry.Vector3{}, 1)
	cube.Faces = cube.Faces[2:] // drop the z = 0 side

	loops := cube.BoundaryLoops()
	require.Len(t, loops, 1)
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, loops[0])
	assert.Len(t, cube.BoundaryEdges(), 4)

	// a fill face following the loop must pair with the existing half-edges
	loop := loops[0]
	cube.Faces = append(cube.Faces,
		mesh.Face{loop[0], loop[1], loop[2]},
		mesh.Face{loop[0], loop[2], loop[3]},
	)
	assert.True(t, cube.IsClosedManifold())
}

func TestComponents(t *testing.T) {
	two := meshtest.Append(meshtest.Cube(geometry.Vector3{}, 1), meshtest.Tetrahedron())

	components := two.Components()
	require.Len(t, components, 2)
	assert.Len(t, components[0], 12)
	assert.Len(t, components[1], 4)
}

func TestCompactRemovesIsolatedVertices(t *testing.T) {
	cube := meshtest.Cube(geometry.Vector3{}, 1)
	cube.Vertices = append([]geometry.Vector3{geometry.NewVector3(9, 9, 9)}, cube.Vertices...)
	for i, f := range cube.Faces {
		cube.Faces[i] = mesh.Face{f[0] + 1, f[1] + 1, f[2] + 1}
	}

	assert.Equal(t, []int{0}, cube.IsolatedVertices())
	assert.Equal(t, 1, cube.Compact())
	assert.Empty(t, cube.IsolatedVertices())
	assert.Equal(t, 8, cube.VertexCount())
	assert.True(t, cube.IsClosedManifold())
}

func TestWeldMergesNearVertices(t *testing.T) {
	cube := meshtest.Cube(geometry.Vector3{}, 1)
	cube.Vertices = append(cube.Vertices, geometry.NewVector3(1e-12, 0, 0))
	cube.Faces = append(cube.Faces, mesh.Face{0, 8, 1})

	merged := cube.Weld(1e-9)

	assert.Equal(t, 1, merged)
	assert.Len(t, cube.Faces, 12)
	assert.NoError(t, cube.Validate())
}

func TestFromTrianglesSharesVertices(t *testing.T) {
	cube := meshtest.Cube(geometry.Vector3{}, 2)
	rebuilt := mesh.FromTriangles(cube.Triangles())

	assert.Equal(t, 8, rebuilt.VertexCount())
	assert.Equal(t, 12, rebuilt.FaceCount())
	assert.True(t, rebuilt.IsClosedManifold())
}

func TestFaceHelpers(t *testing.T) {
	f := mesh.Face{4, 1, 7}

	assert.Equal(t, [3]int{1, 4, 7}, f.Key())
	assert.Equal(t, f.Key(), f.Flip().Key())
	assert.Equal(t, 7, f.Opposite(1, 4))
	assert.Equal(t, -1, f.Opposite(2, 4))
	assert.Equal(t, mesh.Face{7, 4, 1}, f.Rotate(7))
	assert.False(t, f.Degenerate())
	assert.True(t, mesh.Face{1, 1, 2}.Degenerate())
}

func TestValidateRejectsBadFaces(t *testing.T) {
	m := mesh.New([]geometry.Vector3{{}, {X: 1}, {Y: 1}}, []mesh.Face{{0, 1, 3}})
	assert.Error(t, m.Validate())

	m.Faces = []mesh.Face{{0, 0, 1}}
	assert.Error(t, m.Validate())
}
