package repair

import (
	"errors"
	"math"
	"sort"

	"github.com/unixpickle/model3d/model3d"

	"github.com/fxbricks/ldtrack/pkg/geometry"
	"github.com/fxbricks/ldtrack/pkg/mesh"
)

var errCutNotRecovered = errors.New("cut segment could not be recovered")

type planePoint struct {
	x, y float64
}

func (p planePoint) sub(q planePoint) planePoint {
	return planePoint{p.x - q.x, p.y - q.y}
}

func (p planePoint) length() float64 {
	return math.Hypot(p.x, p.y)
}

// orient is twice the signed area of (a, b, c); positive when counter-clockwise
func orient(a, b, c planePoint) float64 {
	return (b.x-a.x)*(c.y-a.y) - (b.y-a.y)*(c.x-a.x)
}

// lineDistance is the signed distance of p from the line a->b, positive on the left
func lineDistance(a, b, p planePoint) float64 {
	l := b.sub(a).length()
	if l == 0 {
		return p.sub(a).length()
	}
	return orient(a, b, p) / l
}

// faceSplit triangulates one face in its own plane. Points 0..2 are the
// corners of the face; triangles are counter-clockwise in the plane, which is
// the winding of the face in space.
type faceSplit struct {
	tol    float64
	origin geometry.Vector3
	u, v   geometry.Vector3
	points []geometry.Vector3
	flat   []planePoint
	tris   [][3]int
	fixed  map[mesh.Edge]bool
}

// splitFace re-triangulates a face so that every cut becomes a chain of
// edges. No point is added apart from the cut endpoints and the crossings
// of two cuts, so neighbouring faces that share a cut agree on its vertices.
func splitFace(corners [3]geometry.Vector3, cuts []model3d.Segment, tol float64) (*faceSplit, error) {
	e1 := corners[1].Sub(corners[0])
	normal := e1.Cross(corners[2].Sub(corners[0])).Normalize()
	s := &faceSplit{
		tol:    tol,
		origin: corners[0],
		u:      e1.Normalize(),
		fixed:  make(map[mesh.Edge]bool),
	}
	s.v = normal.Cross(s.u)
	for _, c := range corners {
		s.points = append(s.points, c)
		s.flat = append(s.flat, s.project(c))
	}
	s.tris = [][3]int{{0, 1, 2}}

	for _, chain := range s.chains(cuts) {
		ids := make([]int, len(chain))
		for i, p := range chain {
			ids[i] = s.insert(p)
		}
		for i := 1; i < len(ids); i++ {
			if ids[i-1] == ids[i] {
				continue
			}
			if err := s.recover(ids[i-1], ids[i]); err != nil {
				return nil, err
			}
		}
	}
	s.delaunay()
	return s, nil
}

func (s *faceSplit) project(p geometry.Vector3) planePoint {
	d := p.Sub(s.origin)
	return planePoint{d.Dot(s.u), d.Dot(s.v)}
}

// chains turns the cuts into polylines. Each cut is broken at every corner or
// cut endpoint lying on it and at every crossing with another cut, so that
// no vertex sits in the middle of a cut edge.
func (s *faceSplit) chains(cuts []model3d.Segment) [][]geometry.Vector3 {
	type cut struct {
		a, b   geometry.Vector3
		fa, fb planePoint
	}
	segments := make([]cut, 0, len(cuts))
	stops := append([]geometry.Vector3(nil), s.points...)
	for _, c := range cuts {
		a, b := vector(c[0]), vector(c[1])
		segments = append(segments, cut{a: a, b: b, fa: s.project(a), fb: s.project(b)})
		stops = append(stops, a, b)
	}
	for i := range segments {
		for j := i + 1; j < len(segments); j++ {
			si, sj := segments[i], segments[j]
			di, dj := orient(si.fa, si.fb, sj.fa), orient(si.fa, si.fb, sj.fb)
			dk, dl := orient(sj.fa, sj.fb, si.fa), orient(sj.fa, sj.fb, si.fb)
			if di*dj >= 0 || dk*dl >= 0 {
				continue
			}
			stops = append(stops, si.a.Lerp(si.b, dk/(dk-dl)))
		}
	}

	out := make([][]geometry.Vector3, 0, len(segments))
	for _, c := range segments {
		dir := c.fb.sub(c.fa)
		length := dir.length()
		if length <= s.tol {
			continue
		}
		type stop struct {
			t float64
			p geometry.Vector3
		}
		inner := []stop{}
		for _, p := range stops {
			fp := s.project(p)
			d := fp.sub(c.fa)
			t := (d.x*dir.x + d.y*dir.y) / (length * length)
			if t*length <= s.tol || (1-t)*length <= s.tol {
				continue
			}
			if math.Abs(lineDistance(c.fa, c.fb, fp)) > s.tol {
				continue
			}
			inner = append(inner, stop{t: t, p: p})
		}
		sort.Slice(inner, func(i, j int) bool { return inner[i].t < inner[j].t })

		chain := []geometry.Vector3{c.a}
		for _, st := range inner {
			chain = append(chain, st.p)
		}
		out = append(out, append(chain, c.b))
	}
	return out
}

// insert adds p to the triangulation and returns its index. Points within
// the tolerance of an existing point or edge are merged into it.
func (s *faceSplit) insert(p geometry.Vector3) int {
	q := s.project(p)
	for i, f := range s.flat {
		if f.sub(q).length() <= s.tol {
			return i
		}
	}

	best, bestScore := 0, math.Inf(-1)
	var dist [3]float64
	for ti, t := range s.tris {
		var d [3]float64
		for k := 0; k < 3; k++ {
			d[k] = lineDistance(s.flat[t[(k+1)%3]], s.flat[t[(k+2)%3]], q)
		}
		if score := math.Min(d[0], math.Min(d[1], d[2])); score > bestScore {
			best, bestScore, dist = ti, score, d
		}
	}
	t := s.tris[best]

	var near []int
	for k := 0; k < 3; k++ {
		if dist[k] <= s.tol {
			near = append(near, k)
		}
	}
	switch len(near) {
	case 0:
		idx := s.add(p, q)
		s.tris[best] = [3]int{t[0], t[1], idx}
		s.tris = append(s.tris, [3]int{t[1], t[2], idx}, [3]int{t[2], t[0], idx})
		return idx
	case 1:
		a, b := t[(near[0]+1)%3], t[(near[0]+2)%3]
		fa, fb := s.flat[a], s.flat[b]
		dir := fb.sub(fa)
		along := (q.sub(fa).x*dir.x + q.sub(fa).y*dir.y) / (dir.x*dir.x + dir.y*dir.y)
		along = math.Max(0, math.Min(1, along))
		pos := s.points[a].Lerp(s.points[b], along)
		idx := s.add(pos, planePoint{fa.x + along*dir.x, fa.y + along*dir.y})
		s.splitEdge(a, b, idx)
		return idx
	default:
		corner, closest := t[0], math.Inf(1)
		for _, c := range t {
			if d := s.flat[c].sub(q).length(); d < closest {
				corner, closest = c, d
			}
		}
		return corner
	}
}

func (s *faceSplit) add(p geometry.Vector3, q planePoint) int {
	s.points = append(s.points, p)
	s.flat = append(s.flat, q)
	return len(s.points) - 1
}

// splitEdge replaces every triangle on edge (a, b) by two triangles meeting at idx
func (s *faceSplit) splitEdge(a, b, idx int) {
	n := len(s.tris)
	for ti := 0; ti < n; ti++ {
		t := s.tris[ti]
		for k := 0; k < 3; k++ {
			x, y, w := t[k], t[(k+1)%3], t[(k+2)%3]
			if (x == a && y == b) || (x == b && y == a) {
				s.tris[ti] = [3]int{x, idx, w}
				s.tris = append(s.tris, [3]int{idx, y, w})
				break
			}
		}
	}
	if e := mesh.NewEdge(a, b); s.fixed[e] {
		delete(s.fixed, e)
		s.fixed[mesh.NewEdge(a, idx)] = true
		s.fixed[mesh.NewEdge(idx, b)] = true
	}
}

// across returns the triangle holding the directed edge a->b and its third corner
func (s *faceSplit) across(a, b int) (int, int, bool) {
	for ti, t := range s.tris {
		for k := 0; k < 3; k++ {
			if t[k] == a && t[(k+1)%3] == b {
				return ti, t[(k+2)%3], true
			}
		}
	}
	return 0, 0, false
}

func (s *faceSplit) hasEdge(a, b int) bool {
	_, _, ok := s.across(a, b)
	if !ok {
		_, _, ok = s.across(b, a)
	}
	return ok
}

// flippable reports whether the triangles (p, q, x) and (q, p, y) form a
// strictly convex quad, so that the diagonal can move to (x, y)
func (s *faceSplit) flippable(p, q, x, y int) bool {
	return lineDistance(s.flat[y], s.flat[x], s.flat[p]) > s.tol &&
		lineDistance(s.flat[x], s.flat[y], s.flat[q]) > s.tol
}

// flip turns the diagonal (p, q) shared by triangles ti and tj into (x, y)
func (s *faceSplit) flip(ti, tj, p, q, x, y int) {
	s.tris[ti] = [3]int{p, y, x}
	s.tris[tj] = [3]int{y, q, x}
}

// crosses reports whether edge (u, w) crosses the open segment (a, b)
func (s *faceSplit) crosses(u, w, a, b int) bool {
	if u == a || u == b || w == a || w == b {
		return false
	}
	fa, fb, fu, fw := s.flat[a], s.flat[b], s.flat[u], s.flat[w]
	return orient(fa, fb, fu)*orient(fa, fb, fw) < 0 && orient(fu, fw, fa)*orient(fu, fw, fb) < 0
}

// recover makes (a, b) an edge by flipping the edges that cross it and marks
// it fixed for the Delaunay pass
func (s *faceSplit) recover(a, b int) error {
	var queue []mesh.Edge
	seen := make(map[mesh.Edge]bool)
	for _, t := range s.tris {
		for k := 0; k < 3; k++ {
			e := mesh.NewEdge(t[k], t[(k+1)%3])
			if !seen[e] && s.crosses(e[0], e[1], a, b) {
				seen[e] = true
				queue = append(queue, e)
			}
		}
	}

	limit := 4 * (len(queue) + 1) * (len(queue) + 1)
	for iter := 0; len(queue) > 0; iter++ {
		if iter > limit {
			return errCutNotRecovered
		}
		e := queue[0]
		queue = queue[1:]
		if s.fixed[e] {
			return errCutNotRecovered
		}
		p, q := e[0], e[1]
		ti, x, ok := s.across(p, q)
		tj, y, ok2 := s.across(q, p)
		if !ok || !ok2 {
			return errCutNotRecovered
		}
		if !s.flippable(p, q, x, y) {
			queue = append(queue, e)
			continue
		}
		s.flip(ti, tj, p, q, x, y)
		if s.crosses(x, y, a, b) {
			queue = append(queue, mesh.NewEdge(x, y))
		}
	}
	if !s.hasEdge(a, b) {
		return errCutNotRecovered
	}
	s.fixed[mesh.NewEdge(a, b)] = true
	return nil
}

// delaunay flips every free interior edge whose quad violates the empty
// circle property, leaving cut edges and the face border untouched
func (s *faceSplit) delaunay() {
	var extent float64
	for _, f := range s.flat {
		extent = math.Max(extent, f.length())
	}
	eps := 1e-12 * math.Pow(extent, 4)

	for pass := 0; pass < 4*len(s.points); pass++ {
		flipped := false
		for ti := range s.tris {
			t := s.tris[ti]
			for k := 0; k < 3; k++ {
				p, q, x := t[k], t[(k+1)%3], t[(k+2)%3]
				if s.fixed[mesh.NewEdge(p, q)] {
					continue
				}
				tj, y, ok := s.across(q, p)
				if !ok || !s.flippable(p, q, x, y) {
					continue
				}
				if inCircle(s.flat[p], s.flat[q], s.flat[x], s.flat[y]) <= eps {
					continue
				}
				s.flip(ti, tj, p, q, x, y)
				flipped = true
				break
			}
		}
		if !flipped {
			return
		}
	}
}

// inCircle is positive when d lies inside the circumcircle of the
// counter-clockwise triangle (a, b, c)
func inCircle(a, b, c, d planePoint) float64 {
	ax, ay := a.x-d.x, a.y-d.y
	bx, by := b.x-d.x, b.y-d.y
	cx, cy := c.x-d.x, c.y-d.y
	return (ax*ax+ay*ay)*(bx*cy-cx*by) -
		(bx*bx+by*by)*(ax*cy-cx*ay) +
		(cx*cx+cy*cy)*(ax*by-bx*ay)
}
