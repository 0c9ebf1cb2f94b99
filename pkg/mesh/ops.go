package mesh

import (
	"math"

	"github.com/fxbricks/ldtrack/pkg/geometry"
)

// Compact removes vertices not referenced by any face and remaps the faces.
// It returns the number of vertices removed.
func (m *Mesh) Compact() int {
	remap := make([]int, len(m.Vertices))
	for i := range remap {
		remap[i] = -1
	}
	vertices := make([]geometry.Vector3, 0, len(m.Vertices))
	for fi, f := range m.Faces {
		for k, v := range f {
			if remap[v] < 0 {
				remap[v] = len(vertices)
				vertices = append(vertices, m.Vertices[v])
			}
			m.Faces[fi][k] = remap[v]
		}
	}
	removed := len(m.Vertices) - len(vertices)
	m.Vertices = vertices
	return removed
}

// IsolatedVertices returns the indices of vertices no face references
func (m *Mesh) IsolatedVertices() []int {
	used := make([]bool, len(m.Vertices))
	for _, f := range m.Faces {
		for _, v := range f {
			used[v] = true
		}
	}
	var out []int
	for i, u := range used {
		if !u {
			out = append(out, i)
		}
	}
	return out
}

// Remap replaces vertex indices through remap and drops faces that collapse
// onto fewer than three distinct vertices. It returns the number of faces dropped.
func (m *Mesh) Remap(remap []int) int {
	faces := m.Faces[:0]
	dropped := 0
	for _, f := range m.Faces {
		nf := Face{remap[f[0]], remap[f[1]], remap[f[2]]}
		if nf.Degenerate() {
			dropped++
			continue
		}
		faces = append(faces, nf)
	}
	m.Faces = faces
	return dropped
}

// Weld merges vertices closer than tolerance into the lowest-indexed one.
// Positions are bucketed on a grid of the tolerance, so only vertices in the
// same or an adjacent cell are compared. Faces that collapse are dropped.
// It returns the number of vertices merged.
func (m *Mesh) Weld(tolerance float64) int {
	remap := make([]int, len(m.Vertices))
	for i := range remap {
		remap[i] = i
	}
	if tolerance <= 0 {
		return m.weldExact(remap)
	}

	type cell [3]int64
	key := func(v geometry.Vector3) cell {
		return cell{
			int64(math.Floor(v.X / tolerance)),
			int64(math.Floor(v.Y / tolerance)),
			int64(math.Floor(v.Z / tolerance)),
		}
	}

	grid := make(map[cell][]int)
	merged := 0
	for i, v := range m.Vertices {
		c := key(v)
		target := -1
	search:
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				for dz := int64(-1); dz <= 1; dz++ {
					for _, j := range grid[cell{c[0] + dx, c[1] + dy, c[2] + dz}] {
						if m.Vertices[j].Distance(v) <= tolerance {
							target = j
							break search
						}
					}
				}
			}
		}
		if target >= 0 {
			remap[i] = target
			merged++
			continue
		}
		grid[c] = append(grid[c], i)
	}
	m.Remap(remap)
	return merged
}

func (m *Mesh) weldExact(remap []int) int {
	first := make(map[geometry.Vector3]int, len(m.Vertices))
	merged := 0
	for i, v := range m.Vertices {
		if j, ok := first[v]; ok {
			remap[i] = j
			merged++
			continue
		}
		first[v] = i
	}
	m.Remap(remap)
	return merged
}

// FromTriangles builds an indexed mesh from a triangle soup, sharing vertices
// with identical coordinates
func FromTriangles(triangles []geometry.Triangle) *Mesh {
	m := &Mesh{Faces: make([]Face, 0, len(triangles))}
	index := make(map[geometry.Vector3]int, len(triangles))
	lookup := func(v geometry.Vector3) int {
		if i, ok := index[v]; ok {
			return i
		}
		index[v] = len(m.Vertices)
		m.Vertices = append(m.Vertices, v)
		return index[v]
	}
	for _, t := range triangles {
		m.Faces = append(m.Faces, Face{lookup(t.V1), lookup(t.V2), lookup(t.V3)})
	}
	return m
}
