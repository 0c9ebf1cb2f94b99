package repair

import (
	"math"
	"sort"

	"github.com/fxbricks/ldtrack/pkg/geometry"
	"github.com/fxbricks/ldtrack/pkg/mesh"
)

// CollapseShortEdges collapses edges shorter than MinEdgeLength, shortest first,
// until no further collapse is possible or CollapseMaxPasses passes have run
func CollapseShortEdges(m *mesh.Mesh, cfg Config) (*mesh.Mesh, error) {
	if cfg.MinEdgeLength <= 0 {
		return m, nil
	}
	for pass := 0; pass < cfg.CollapseMaxPasses; pass++ {
		if collapsePass(m, cfg) == 0 {
			return m, nil
		}
	}
	if left := collapsePass(m.Clone(), cfg); left > 0 {
		return nil, nonConvergence(cfg.CollapseMaxPasses, left, "collapsible short edges")
	}
	return m, nil
}

// ShortEdge is an edge below the collapse threshold
type ShortEdge struct {
	Edge   mesh.Edge
	Length float64
	Faces  int

	// Pinned is set when both endpoints are feature vertices, so the edge survives the collapse
	Pinned bool
}

// ShortEdges returns the edges shorter than MinEdgeLength, shortest first
func ShortEdges(m *mesh.Mesh, cfg Config) []ShortEdge {
	edgeFaces := m.EdgeFaces()
	var features map[int]bool
	if cfg.PreserveFeatures {
		features = featureVertices(m, edgeFaces, cfg.FeatureAngle)
	}
	return shortEdges(m, edgeFaces, features, cfg.MinEdgeLength)
}

func shortEdges(m *mesh.Mesh, edgeFaces map[mesh.Edge][]int, features map[int]bool, minLength float64) []ShortEdge {
	var out []ShortEdge
	for e, faces := range edgeFaces {
		length := m.Vertices[e[0]].Distance(m.Vertices[e[1]])
		if length < minLength {
			out = append(out, ShortEdge{
				Edge:   e,
				Length: length,
				Faces:  len(faces),
				Pinned: features[e[0]] && features[e[1]],
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Length != out[j].Length {
			return out[i].Length < out[j].Length
		}
		if out[i].Edge[0] != out[j].Edge[0] {
			return out[i].Edge[0] < out[j].Edge[0]
		}
		return out[i].Edge[1] < out[j].Edge[1]
	})
	return out
}

// collapsePass collapses a set of independent short edges and returns how many were collapsed.
// Every collapse locks the one-ring of both endpoints for the rest of the pass.
func collapsePass(m *mesh.Mesh, cfg Config) int {
	edgeFaces := m.EdgeFaces()
	var features map[int]bool
	if cfg.PreserveFeatures {
		features = featureVertices(m, edgeFaces, cfg.FeatureAngle)
	}
	candidates := shortEdges(m, edgeFaces, features, cfg.MinEdgeLength)
	if len(candidates) == 0 {
		return 0
	}
	neighbors := m.Neighbors()
	vertexFaces := m.VertexFaces()

	remap := make([]int, len(m.Vertices))
	for i := range remap {
		remap[i] = i
	}
	locked := make(map[int]bool)
	collapsed := 0

	for _, c := range candidates {
		a, b := c.Edge[0], c.Edge[1]
		if c.Pinned || locked[a] || locked[b] {
			continue
		}

		keep, drop := a, b
		var target geometry.Vector3
		switch {
		case features[a]:
			target = m.Vertices[a]
		case features[b]:
			keep, drop = b, a
			target = m.Vertices[b]
		default:
			target = m.Vertices[a].Lerp(m.Vertices[b], 0.5)
		}

		if !linkCondition(m, edgeFaces[c.Edge], neighbors, a, b) {
			continue
		}
		if flipsNormals(m, vertexFaces, keep, drop, target) {
			continue
		}

		m.Vertices[keep] = target
		remap[drop] = keep
		locked[a], locked[b] = true, true
		for v := range neighbors[a] {
			locked[v] = true
		}
		for v := range neighbors[b] {
			locked[v] = true
		}
		collapsed++
	}

	if collapsed > 0 {
		m.Remap(remap)
	}
	return collapsed
}

// featureVertices returns the endpoints of boundary, non-manifold and sharp edges
func featureVertices(m *mesh.Mesh, edgeFaces map[mesh.Edge][]int, featureAngle float64) map[int]bool {
	normals := make([]geometry.Vector3, len(m.Faces))
	for i := range m.Faces {
		normals[i] = m.Triangle(i).Normal
	}
	limit := math.Cos(featureAngle * math.Pi / 180)

	features := make(map[int]bool)
	for e, faces := range edgeFaces {
		sharp := len(faces) != 2
		if !sharp {
			sharp = normals[faces[0]].Dot(normals[faces[1]]) < limit
		}
		if sharp {
			features[e[0]] = true
			features[e[1]] = true
		}
	}
	return features
}

// linkCondition reports whether the vertices adjacent to both a and b are
// exactly the opposite corners of the faces on edge (a, b)
func linkCondition(m *mesh.Mesh, edgeFaces []int, neighbors []map[int]bool, a, b int) bool {
	opposite := make(map[int]bool, len(edgeFaces))
	for _, fi := range edgeFaces {
		opposite[m.Faces[fi].Opposite(a, b)] = true
	}
	common := 0
	for v := range neighbors[a] {
		if !neighbors[b][v] {
			continue
		}
		if !opposite[v] {
			return false
		}
		common++
	}
	return common == len(opposite)
}

// flipsNormals reports whether moving keep to target and merging drop into it
// would turn any surviving face over or flatten it
func flipsNormals(m *mesh.Mesh, vertexFaces [][]int, keep, drop int, target geometry.Vector3) bool {
	position := func(v int) geometry.Vector3 {
		if v == keep || v == drop {
			return target
		}
		return m.Vertices[v]
	}
	check := func(faces []int) bool {
		for _, fi := range faces {
			f := m.Faces[fi]
			if f.Has(keep) && f.Has(drop) {
				continue
			}
			before := m.Triangle(fi).CrossVector()
			after := geometry.Triangle{V1: position(f[0]), V2: position(f[1]), V3: position(f[2])}.CrossVector()
			if after.Dot(before) <= 0 {
				return true
			}
		}
		return false
	}
	return check(vertexFaces[keep]) || check(vertexFaces[drop])
}
