package repair

import (
	"github.com/fxbricks/ldtrack/pkg/geometry"
	"github.com/fxbricks/ldtrack/pkg/mesh"
)

// RemoveObtuseTriangles removes small sliver triangles by flipping their long
// edge with the neighbouring face
func RemoveObtuseTriangles(m *mesh.Mesh, cfg Config) (*mesh.Mesh, error) {
	for pass := 0; ; pass++ {
		slivers := obtuseFaces(m, cfg)
		if len(slivers) == 0 {
			return m, nil
		}
		if pass >= cfg.ObtuseMaxIterations {
			return nil, nonConvergence(cfg.ObtuseMaxIterations, len(slivers), "obtuse faces")
		}
		faces, flipped := flipSlivers(m.Vertices, m.Faces, slivers)
		if flipped == 0 {
			return nil, nonConvergence(pass+1, len(slivers), "obtuse faces without a flippable edge")
		}
		m.Faces = faces
	}
}

func obtuseFaces(m *mesh.Mesh, cfg Config) []int {
	var out []int
	for i := range m.Faces {
		t := m.Triangle(i)
		if _, angle := t.MaxAngle(); angle > cfg.ObtuseMaxAngle && t.Area() < cfg.ObtuseMaxArea {
			out = append(out, i)
		}
	}
	return out
}

// flipSlivers replaces each sliver (x, y, v) and its neighbour (y, x, w) by
// (v, x, w) and (v, w, y) where the quad allows it
func flipSlivers(vertices []geometry.Vector3, faces []mesh.Face, slivers []int) ([]mesh.Face, int) {
	set := newFaceSet(faces)
	touched := make(map[int]bool)
	flipped := 0
	cross := func(f mesh.Face) geometry.Vector3 {
		return geometry.Triangle{V1: vertices[f[0]], V2: vertices[f[1]], V3: vertices[f[2]]}.CrossVector()
	}

	for _, i := range slivers {
		if touched[i] {
			continue
		}
		f := set.faces[i]
		t := geometry.Triangle{V1: vertices[f[0]], V2: vertices[f[1]], V3: vertices[f[2]]}
		k, _ := t.MaxAngle()
		v, x, y := f[k], f[(k+1)%3], f[(k+2)%3]

		var neighbors []int
		for _, j := range set.across(x, y) {
			if j != i {
				neighbors = append(neighbors, j)
			}
		}
		if len(neighbors) != 1 || touched[neighbors[0]] {
			continue
		}
		j := neighbors[0]
		p, _, w, _ := directedEdge(set.faces[j], x, y)
		if p != y || w == v || len(set.across(v, w)) > 0 {
			continue
		}

		a, b := mesh.Face{v, x, w}, mesh.Face{v, w, y}
		normal := cross(f).Add(cross(set.faces[j]))
		if cross(a).Dot(normal) <= 0 || cross(b).Dot(normal) <= 0 {
			continue
		}

		set.remove(i)
		set.remove(j)
		touched[i], touched[j] = true, true
		touched[set.add(a)] = true
		touched[set.add(b)] = true
		flipped++
	}
	return set.result(), flipped
}
