package repair

import (
	"sort"

	"github.com/unixpickle/model3d/model3d"

	"github.com/fxbricks/ldtrack/pkg/geometry"
	"github.com/fxbricks/ldtrack/pkg/mesh"
)

// rayDirections are the winding rays cast from every sample point. The first
// is the direction model3d uses for its own containment test. A ray grazing
// an edge on one of them is outvoted by the other two.
var rayDirections = [3]model3d.Coord3D{
	{X: 0.5224892708603626, Y: 0.10494477243214506, Z: 0.43558938446126527},
	{X: -0.3196023479318473, Y: 0.7071312841022911, Z: -0.2284918376450218},
	{X: 0.1289370128734329, Y: -0.4377721912383377, Z: 0.8906314187202161},
}

func coord(v geometry.Vector3) model3d.Coord3D {
	return model3d.XYZ(v.X, v.Y, v.Z)
}

func vector(c model3d.Coord3D) geometry.Vector3 {
	return geometry.NewVector3(c.X, c.Y, c.Z)
}

// solidTriangles converts the faces to model3d triangles, index for index
func solidTriangles(m *mesh.Mesh) []*model3d.Triangle {
	out := make([]*model3d.Triangle, len(m.Faces))
	for i, f := range m.Faces {
		out[i] = &model3d.Triangle{
			coord(m.Vertices[f[0]]),
			coord(m.Vertices[f[1]]),
			coord(m.Vertices[f[2]]),
		}
	}
	return out
}

// surfaceCollider builds a bounding volume hierarchy over the given faces
func surfaceCollider(triangles []*model3d.Triangle) model3d.MultiCollider {
	return model3d.MeshToCollider(model3d.NewMeshTriangles(triangles))
}

// windingNumber counts how often the surface wraps around p. Every face a ray
// from p leaves through adds one, every face it enters through subtracts one.
// The median over the three rays is returned.
func windingNumber(c model3d.Collider, p model3d.Coord3D) int {
	var counts [3]int
	for i, d := range rayDirections {
		c.RayCollisions(&model3d.Ray{Origin: p, Direction: d}, func(rc model3d.RayCollision) {
			if rc.Normal.Dot(d) > 0 {
				counts[i]++
			} else {
				counts[i]--
			}
		})
	}
	sort.Ints(counts[:])
	return counts[1]
}
