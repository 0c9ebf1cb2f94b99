// Package reconcile snaps the endpoints of exact boundary-curve segments onto
// the nearest vertex of a repaired mesh.
package reconcile

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/fxbricks/ldtrack/pkg/geometry"
	"github.com/fxbricks/ldtrack/pkg/mesh"
)

// DefaultSnapTolerance is the distance below which an endpoint moves onto a mesh vertex
const DefaultSnapTolerance = 0.2

// Source tells where a reconciled endpoint came from
type Source int

const (
	// Exact keeps the endpoint sampled from the precise model
	Exact Source = iota
	// Snapped replaces the endpoint by the nearest mesh vertex
	Snapped
)

func (s Source) String() string {
	if s == Snapped {
		return "snapped"
	}
	return "exact"
}

// Edge is a reconciled edge segment
type Edge struct {
	geometry.Segment
	StartSource Source
	EndSource   Source
}

// Stats counts the endpoint outcomes of one reconciliation
type Stats struct {
	Edges   int
	Snapped int
	Exact   int
}

func (s Stats) String() string {
	return fmt.Sprintf("edges=%-5d snapped=%d exact=%d", s.Edges, s.Snapped, s.Exact)
}

// Reconciler matches points against a fixed vertex set
type Reconciler struct {
	tree      *kdtree.Tree
	first     map[geometry.Vector3]int
	tolerance float64
}

// New indexes the vertices. It fails with mesh.ErrEmpty when there are none.
func New(vertices []geometry.Vector3, tolerance float64) (*Reconciler, error) {
	if len(vertices) == 0 {
		return nil, mesh.ErrEmpty
	}
	if tolerance < 0 {
		return nil, fmt.Errorf("snap tolerance must not be negative, got %v", tolerance)
	}
	points := make(kdtree.Points, len(vertices))
	first := make(map[geometry.Vector3]int, len(vertices))
	for i, v := range vertices {
		points[i] = kdtree.Point{v.X, v.Y, v.Z}
		if _, ok := first[v]; !ok {
			first[v] = i
		}
	}
	return &Reconciler{tree: kdtree.New(points, false), first: first, tolerance: tolerance}, nil
}

// Nearest returns the closest vertex to p and its distance. Of several
// vertices at the same distance the one with the lowest index wins.
func (r *Reconciler) Nearest(p geometry.Vector3) (geometry.Vector3, float64) {
	query := kdtree.Point{p.X, p.Y, p.Z}
	got, squared := r.tree.Nearest(query)
	best := toVector(got)

	ties := kdtree.NewDistKeeper(squared)
	r.tree.NearestSet(ties, query)
	for _, c := range ties.Heap {
		if c.Comparable == nil {
			continue
		}
		if v := toVector(c.Comparable); r.first[v] < r.first[best] {
			best = v
		}
	}
	return best, math.Sqrt(squared)
}

func toVector(c kdtree.Comparable) geometry.Vector3 {
	q := c.(kdtree.Point)
	return geometry.NewVector3(q[0], q[1], q[2])
}

// Snap returns the nearest vertex when it is strictly closer than the
// tolerance, otherwise p itself
func (r *Reconciler) Snap(p geometry.Vector3) (geometry.Vector3, Source) {
	nearest, distance := r.Nearest(p)
	if distance < r.tolerance {
		return nearest, Snapped
	}
	return p, Exact
}

// Reconcile snaps both endpoints of every segment independently. The result
// has the same length and order as segments.
func (r *Reconciler) Reconcile(segments []geometry.Segment) ([]Edge, Stats) {
	edges := make([]Edge, len(segments))
	stats := Stats{Edges: len(segments)}
	for i, s := range segments {
		start, startSource := r.Snap(s.Start)
		end, endSource := r.Snap(s.End)
		edges[i] = Edge{
			Segment:     geometry.NewSegment(start, end),
			StartSource: startSource,
			EndSource:   endSource,
		}
		for _, source := range []Source{startSource, endSource} {
			if source == Snapped {
				stats.Snapped++
			} else {
				stats.Exact++
			}
		}
	}
	return edges, stats
}

// Reconcile snaps the segments onto the vertices of m
func Reconcile(m *mesh.Mesh, segments []geometry.Segment, tolerance float64) ([]Edge, Stats, error) {
	if m == nil || len(m.Vertices) == 0 {
		return nil, Stats{}, mesh.ErrEmpty
	}
	r, err := New(m.Vertices, tolerance)
	if err != nil {
		return nil, Stats{}, err
	}
	edges, stats := r.Reconcile(segments)
	return edges, stats, nil
}

// Segments returns the plain segments of reconciled edges
func Segments(edges []Edge) []geometry.Segment {
	out := make([]geometry.Segment, len(edges))
	for i, e := range edges {
		out[i] = e.Segment
	}
	return out
}
