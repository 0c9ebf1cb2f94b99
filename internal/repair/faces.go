package repair

import "github.com/fxbricks/ldtrack/pkg/mesh"

// faceSet is a mutable face list with edge and vertex adjacency kept current
// while stages remove and add faces. Removed faces stay in place as tombstones
// until result is called.
type faceSet struct {
	faces    []mesh.Face
	alive    []bool
	edges    map[mesh.Edge][]int
	byVertex map[int][]int
}

func newFaceSet(faces []mesh.Face) *faceSet {
	s := &faceSet{
		faces:    make([]mesh.Face, 0, len(faces)),
		alive:    make([]bool, 0, len(faces)),
		edges:    make(map[mesh.Edge][]int, len(faces)*3/2),
		byVertex: make(map[int][]int, len(faces)/2),
	}
	for _, f := range faces {
		s.add(f)
	}
	return s
}

func (s *faceSet) add(f mesh.Face) int {
	i := len(s.faces)
	s.faces = append(s.faces, f)
	s.alive = append(s.alive, true)
	for _, e := range f.Edges() {
		s.edges[e] = append(s.edges[e], i)
	}
	for _, v := range f {
		s.byVertex[v] = append(s.byVertex[v], i)
	}
	return i
}

func (s *faceSet) remove(i int) {
	s.alive[i] = false
}

// across returns the live faces containing edge (a, b)
func (s *faceSet) across(a, b int) []int {
	return s.live(s.edges[mesh.NewEdge(a, b)])
}

// around returns the live faces referencing vertex v
func (s *faceSet) around(v int) []int {
	return s.live(s.byVertex[v])
}

func (s *faceSet) live(indices []int) []int {
	out := make([]int, 0, len(indices))
	for _, i := range indices {
		if s.alive[i] {
			out = append(out, i)
		}
	}
	return out
}

func (s *faceSet) result() []mesh.Face {
	out := make([]mesh.Face, 0, len(s.faces))
	for i, f := range s.faces {
		if s.alive[i] {
			out = append(out, f)
		}
	}
	return out
}

// directedEdge returns the face's own direction (p, q) of the undirected edge
// {a, b} and the opposite corner. ok is false when the face lacks the edge.
func directedEdge(f mesh.Face, a, b int) (p, q, w int, ok bool) {
	for i := 0; i < 3; i++ {
		x, y := f[i], f[(i+1)%3]
		if (x == a && y == b) || (x == b && y == a) {
			return x, y, f[(i+2)%3], true
		}
	}
	return 0, 0, 0, false
}
