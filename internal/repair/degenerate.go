package repair

import (
	"github.com/fxbricks/ldtrack/pkg/geometry"
	"github.com/fxbricks/ldtrack/pkg/mesh"
)

// coincidentRatio is the distance, relative to the longest edge, below which the
// middle vertex of a collinear triangle is welded instead of split.
const coincidentRatio = 1e-3

// RemoveDegenerateTriangles welds coincident vertices, drops faces with
// repeated indices and eliminates collinear triangles by splitting the faces
// across their longest edge at the middle vertex.
func RemoveDegenerateTriangles(m *mesh.Mesh, cfg Config) (*mesh.Mesh, error) {
	m.Weld(cfg.WeldTolerance)

	for pass := 0; ; pass++ {
		degenerate := degenerateFaces(m, cfg.DegenerateTolerance)
		if len(degenerate) == 0 {
			return m, nil
		}
		if pass >= cfg.DegenerateMaxIterations {
			return nil, nonConvergence(cfg.DegenerateMaxIterations, len(degenerate), "degenerate faces")
		}
		m.Faces = splitDegenerate(m.Vertices, m.Faces, degenerate, cfg.DegenerateTolerance)
	}
}

func degenerateFaces(m *mesh.Mesh, tolerance float64) []int {
	var out []int
	for i, f := range m.Faces {
		if f.Degenerate() || m.Triangle(i).IsDegenerate(tolerance) {
			out = append(out, i)
		}
	}
	return out
}

// splitDegenerate runs one pass. A face is only processed when none of the
// faces it would change were already changed in this pass.
func splitDegenerate(vertices []geometry.Vector3, faces []mesh.Face, degenerate []int, tolerance float64) []mesh.Face {
	set := newFaceSet(faces)
	touched := make(map[int]bool)
	anyTouched := func(indices []int) bool {
		for _, i := range indices {
			if touched[i] {
				return true
			}
		}
		return false
	}
	mark := func(indices ...int) {
		for _, i := range indices {
			touched[i] = true
		}
	}

	for _, i := range degenerate {
		if !set.alive[i] || touched[i] {
			continue
		}
		f := set.faces[i]
		if f.Degenerate() {
			set.remove(i)
			continue
		}

		t := geometry.Triangle{V1: vertices[f[0]], V2: vertices[f[1]], V3: vertices[f[2]]}
		if !t.IsDegenerate(tolerance) {
			continue
		}
		k, longest := t.LongestEdge()
		x, y, c := f[k], f[(k+1)%3], f[(k+2)%3]

		target := -1
		switch {
		case vertices[c].Distance(vertices[x]) <= coincidentRatio*longest:
			target = x
		case vertices[c].Distance(vertices[y]) <= coincidentRatio*longest:
			target = y
		}
		if target >= 0 {
			fan := set.around(c)
			if anyTouched(fan) {
				continue
			}
			mark(fan...)
			for _, j := range fan {
				set.remove(j)
				nf := replaceVertex(set.faces[j], c, target)
				if !nf.Degenerate() {
					mark(set.add(nf))
				}
			}
			continue
		}

		var neighbors []int
		for _, j := range set.across(x, y) {
			if j != i {
				neighbors = append(neighbors, j)
			}
		}
		if anyTouched(neighbors) {
			continue
		}
		mark(i)
		mark(neighbors...)
		set.remove(i)
		for _, j := range neighbors {
			set.remove(j)
			p, q, w, _ := directedEdge(set.faces[j], x, y)
			if w == c {
				// same corners as the collinear face, nothing left to split
				continue
			}
			mark(set.add(mesh.Face{p, c, w}), set.add(mesh.Face{c, q, w}))
		}
	}
	return set.result()
}

func replaceVertex(f mesh.Face, from, to int) mesh.Face {
	for k := range f {
		if f[k] == from {
			f[k] = to
		}
	}
	return f
}
