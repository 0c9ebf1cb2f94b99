// Package analysis measures meshes and reports the defects the repair pipeline removes.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/fxbricks/ldtrack/pkg/geometry"
	"github.com/fxbricks/ldtrack/pkg/mesh"
)

// EdgeInfo contains information about an edge in the mesh
type EdgeInfo struct {
	Start  geometry.Vector3
	End    geometry.Vector3
	Length float64
	Faces  int
}

// Options sets the thresholds defects are detected with
type Options struct {
	DegenerateTolerance float64
	ObtuseMaxAngle      float64
	ObtuseMaxArea       float64
}

// DefaultOptions matches the repair defaults
func DefaultOptions() Options {
	return Options{DegenerateTolerance: 1e-10, ObtuseMaxAngle: 179.5, ObtuseMaxArea: 5}
}

// MeasurementResult contains the measurements and diagnostics of a mesh
type MeasurementResult struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	Volume        float64
	SurfaceArea   float64
	TriangleCount int
	VertexCount   int
	EdgeCount     int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
	AllEdges      []EdgeInfo

	Components       int
	BoundaryEdges    int
	NonManifoldEdges int
	IsolatedVertices int
	DegenerateFaces  int
	DuplicateFaces   int
	ObtuseFaces      int
	ClosedManifold   bool
}

// AnalyzeMesh measures the mesh and counts its defects
func AnalyzeMesh(m *mesh.Mesh, opts Options) *MeasurementResult {
	result := &MeasurementResult{
		BoundingBox:   m.BoundingBox(),
		SurfaceArea:   m.SurfaceArea(),
		Volume:        m.SignedVolume(),
		TriangleCount: m.FaceCount(),
		VertexCount:   m.VertexCount(),
		AllEdges:      make([]EdgeInfo, 0, m.FaceCount()*3/2),
	}
	result.Dimensions = result.BoundingBox.Size()

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0

	edgeFaces := m.EdgeFaces()
	edges := make([]mesh.Edge, 0, len(edgeFaces))
	for e := range edgeFaces {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})

	for _, e := range edges {
		start, end := m.Vertices[e[0]], m.Vertices[e[1]]
		length := start.Distance(end)
		result.AllEdges = append(result.AllEdges, EdgeInfo{
			Start:  start,
			End:    end,
			Length: length,
			Faces:  len(edgeFaces[e]),
		})

		totalLength += length
		if length < minLength {
			minLength = length
		}
		if length > maxLength {
			maxLength = length
		}
		switch n := len(edgeFaces[e]); {
		case n == 1:
			result.BoundaryEdges++
		case n > 2:
			result.NonManifoldEdges++
		}
	}

	result.EdgeCount = len(result.AllEdges)
	if result.EdgeCount > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(result.EdgeCount)
	}

	seen := make(map[[3]int]bool, len(m.Faces))
	for i, f := range m.Faces {
		if seen[f.Key()] {
			result.DuplicateFaces++
		}
		seen[f.Key()] = true

		t := m.Triangle(i)
		if f.Degenerate() || t.IsDegenerate(opts.DegenerateTolerance) {
			result.DegenerateFaces++
		}
		if _, angle := t.MaxAngle(); angle > opts.ObtuseMaxAngle && t.Area() < opts.ObtuseMaxArea {
			result.ObtuseFaces++
		}
	}

	result.Components = len(m.Components())
	result.IsolatedVertices = len(m.IsolatedVertices())
	result.ClosedManifold = m.IsClosedManifold()
	return result
}

// Defects returns the total number of defects the repair pipeline would remove
func (r *MeasurementResult) Defects() int {
	return r.BoundaryEdges + r.NonManifoldEdges + r.IsolatedVertices +
		r.DegenerateFaces + r.DuplicateFaces + r.ObtuseFaces
}

// FindLongestEdges returns the N longest edges in the mesh
func FindLongestEdges(result *MeasurementResult, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b EdgeInfo) bool { return a.Length > b.Length })
}

func sortedEdges(result *MeasurementResult, count int, less func(a, b EdgeInfo) bool) []EdgeInfo {
	edges := make([]EdgeInfo, len(result.AllEdges))
	copy(edges, result.AllEdges)

	sort.SliceStable(edges, func(i, j int) bool {
		return less(edges[i], edges[j])
	})

	if count > len(edges) {
		count = len(edges)
	}
	return edges[:count]
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
