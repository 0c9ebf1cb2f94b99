package mesh

import "sort"

// Edge is an undirected edge with the lower vertex index first
type Edge [2]int

// NewEdge returns the undirected edge between a and b
func NewEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{a, b}
}

// Edges returns the three undirected edges of the face
func (f Face) Edges() [3]Edge {
	return [3]Edge{NewEdge(f[0], f[1]), NewEdge(f[1], f[2]), NewEdge(f[2], f[0])}
}

// EdgeFaces maps every undirected edge to the faces that contain it
func (m *Mesh) EdgeFaces() map[Edge][]int {
	edges := make(map[Edge][]int, len(m.Faces)*3/2)
	for i, f := range m.Faces {
		for _, e := range f.Edges() {
			edges[e] = append(edges[e], i)
		}
	}
	return edges
}

// VertexFaces maps every vertex index to the faces that reference it
func (m *Mesh) VertexFaces() [][]int {
	out := make([][]int, len(m.Vertices))
	for i, f := range m.Faces {
		for _, v := range f {
			out[v] = append(out[v], i)
		}
	}
	return out
}

// Neighbors returns, for every vertex, the set of vertices sharing an edge with it
func (m *Mesh) Neighbors() []map[int]bool {
	out := make([]map[int]bool, len(m.Vertices))
	for i := range out {
		out[i] = make(map[int]bool)
	}
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			out[a][b] = true
			out[b][a] = true
		}
	}
	return out
}

// BoundaryEdges returns the edges used by exactly one face
func (m *Mesh) BoundaryEdges() []Edge {
	return m.edgesWithCount(func(n int) bool { return n == 1 })
}

// NonManifoldEdges returns the edges used by more than two faces
func (m *Mesh) NonManifoldEdges() []Edge {
	return m.edgesWithCount(func(n int) bool { return n > 2 })
}

func (m *Mesh) edgesWithCount(match func(int) bool) []Edge {
	var out []Edge
	for e, faces := range m.EdgeFaces() {
		if match(len(faces)) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

// IsClosed reports whether every edge is shared by exactly two faces
func (m *Mesh) IsClosed() bool {
	if len(m.Faces) == 0 {
		return false
	}
	for _, faces := range m.EdgeFaces() {
		if len(faces) != 2 {
			return false
		}
	}
	return true
}

// IsClosedManifold reports whether the mesh is closed, every vertex fan is a
// single connected umbrella and adjacent faces are consistently oriented
func (m *Mesh) IsClosedManifold() bool {
	if !m.IsClosed() {
		return false
	}
	directed := make(map[[2]int]int, len(m.Faces)*3)
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			directed[[2]int{f[i], f[(i+1)%3]}]++
		}
	}
	for e, n := range directed {
		if n != 1 || directed[[2]int{e[1], e[0]}] != 1 {
			return false
		}
	}
	for v, faces := range m.VertexFaces() {
		if len(faces) > 0 && !m.fanConnected(v, faces) {
			return false
		}
	}
	return true
}

// fanConnected walks the faces around v through shared edges
func (m *Mesh) fanConnected(v int, faces []int) bool {
	seen := map[int]bool{faces[0]: true}
	stack := []int{faces[0]}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, other := range faces {
			if seen[other] || !shareEdgeAt(m.Faces[cur], m.Faces[other], v) {
				continue
			}
			seen[other] = true
			stack = append(stack, other)
		}
	}
	return len(seen) == len(faces)
}

func shareEdgeAt(a, b Face, v int) bool {
	for _, x := range a {
		if x != v && b.Has(x) {
			return true
		}
	}
	return false
}

// Components groups faces into edge-connected components
func (m *Mesh) Components() [][]int {
	edges := m.EdgeFaces()
	seen := make([]bool, len(m.Faces))
	var out [][]int
	for start := range m.Faces {
		if seen[start] {
			continue
		}
		seen[start] = true
		component := []int{start}
		stack := []int{start}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, e := range m.Faces[cur].Edges() {
				for _, other := range edges[e] {
					if !seen[other] {
						seen[other] = true
						component = append(component, other)
						stack = append(stack, other)
					}
				}
			}
		}
		sort.Ints(component)
		out = append(out, component)
	}
	return out
}

// BoundaryLoops returns the closed chains of boundary half-edges. Each loop is
// ordered so that faces filling it, wound along the loop, agree in orientation
// with the surrounding surface.
func (m *Mesh) BoundaryLoops() [][]int {
	directed := make(map[[2]int]bool, len(m.Faces)*3)
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			directed[[2]int{f[i], f[(i+1)%3]}] = true
		}
	}

	next := make(map[int][]int)
	var starts []int
	for e := range directed {
		if !directed[[2]int{e[1], e[0]}] {
			if len(next[e[0]]) == 0 {
				starts = append(starts, e[0])
			}
			next[e[0]] = append(next[e[0]], e[1])
		}
	}
	sort.Ints(starts)
	for _, v := range starts {
		sort.Ints(next[v])
	}

	var loops [][]int
	for _, start := range starts {
		for len(next[start]) > 0 {
			loop := []int{start}
			cur := start
			for {
				outs := next[cur]
				if len(outs) == 0 {
					// open chain, cannot be closed
					loop = nil
					break
				}
				nxt := outs[0]
				next[cur] = outs[1:]
				if nxt == start {
					break
				}
				loop = append(loop, nxt)
				cur = nxt
			}
			if len(loop) >= 3 {
				reverse(loop)
				loops = append(loops, loop)
			}
		}
	}
	return loops
}

func reverse(ints []int) {
	for i, j := 0, len(ints)-1; i < j; i, j = i+1, j-1 {
		ints[i], ints[j] = ints[j], ints[i]
	}
}
