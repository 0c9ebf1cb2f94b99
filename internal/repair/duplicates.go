package repair

import "github.com/fxbricks/ldtrack/pkg/mesh"

// RemoveDuplicateFaces keeps one face per vertex set. The orientation used by
// the majority of a group survives; a group with equal counts in both
// orientations is a zero-thickness sheet and is removed entirely.
func RemoveDuplicateFaces(m *mesh.Mesh, _ Config) (*mesh.Mesh, error) {
	type group struct {
		first mesh.Face
		net   int
	}
	groups := make(map[[3]int]*group, len(m.Faces))
	order := make([][3]int, 0, len(m.Faces))
	for _, f := range m.Faces {
		key := f.Key()
		g, ok := groups[key]
		if !ok {
			groups[key] = &group{first: f, net: 1}
			order = append(order, key)
			continue
		}
		if sameOrientation(g.first, f) {
			g.net++
		} else {
			g.net--
		}
	}

	faces := make([]mesh.Face, 0, len(order))
	for _, key := range order {
		g := groups[key]
		switch {
		case g.net > 0:
			faces = append(faces, g.first)
		case g.net < 0:
			faces = append(faces, g.first.Flip())
		}
	}
	m.Faces = faces
	return m, nil
}

// sameOrientation reports whether two faces over the same vertex set share a winding
func sameOrientation(a, b mesh.Face) bool {
	return b.Rotate(a[0]) == a
}
