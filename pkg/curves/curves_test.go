package curves

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxbricks/ldtrack/pkg/geometry"
)

const sample = `name: S8
curves:
  - type: line
    points: [[0, 0, 0], [64, 0, 0]]
  - type: arc
    points: [[10, 0, 0], [0, 10, 0], [-10, 0, 0]]
  - type: circle
    center: [0, 0, 5]
    normal: [0, 0, 2]
    radius: 3
  - type: polyline
    points: [[0, 0, 0], [1, 0, 0], [1, 1, 0], [1, 3, 0]]
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "S8.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	f, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "S8", f.Name)
	require.Len(t, f.Curves, 4)
	assert.Equal(t, Line, f.Curves[0].Type)
	assert.Equal(t, Circle, f.Curves[2].Type)
	assert.Equal(t, 3.0, f.Curves[2].Radius)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseRejectsInvalidCurves(t *testing.T) {
	inputs := map[string]string{
		"short line":            "curves: [{type: line, points: [[0, 0, 0]]}]",
		"collinear arc":         "curves: [{type: arc, points: [[0, 0, 0], [1, 0, 0], [2, 0, 0]]}]",
		"zero radius":           "curves: [{type: circle, center: [0, 0, 0], normal: [0, 0, 1], radius: 0}]",
		"zero normal":           "curves: [{type: circle, center: [0, 0, 0], normal: [0, 0, 0], radius: 1}]",
		"two coordinates":       "curves: [{type: line, points: [[0, 0], [1, 0]]}]",
		"unknown type":          "curves: [{type: spline, points: [[0, 0, 0], [1, 0, 0]]}]",
		"single point polyline": "curves: [{type: polyline, points: [[0, 0, 0]]}]",
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(input))
			assert.True(t, errors.Is(err, ErrInvalidCurve), "got %v", err)
		})
	}
}

func TestDiscretizeSegmentCounts(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)
	res := DefaultResolution()

	counts := []int{1, 12, 24, 10}
	for i, c := range f.Curves {
		segments, err := Discretize([]Curve{c}, res)
		require.NoError(t, err)
		assert.Len(t, segments, counts[i], "curve %d (%s)", i, c.Type)
	}

	all, err := Discretize(f.Curves, res)
	require.NoError(t, err)
	assert.Len(t, all, 1+12+24+10)
}

func TestDiscretizeArcStaysOnCircle(t *testing.T) {
	arc := Curve{Type: Arc, Points: [][]float64{{10, 0, 0}, {0, 10, 0}, {-10, 0, 0}}}

	segments, err := Discretize([]Curve{arc}, DefaultResolution())
	require.NoError(t, err)

	assert.Equal(t, geometry.NewVector3(10, 0, 0), segments[0].Start)
	assert.Equal(t, geometry.NewVector3(-10, 0, 0), segments[len(segments)-1].End)
	for i, s := range segments {
		assert.InDelta(t, 10.0, s.End.Length(), 1e-9)
		assert.GreaterOrEqual(t, s.End.Y, -1e-9, "segment %d leaves the upper half", i)
		if i > 0 {
			assert.Equal(t, segments[i-1].End, s.Start)
		}
	}
}

func TestDiscretizeShortArc(t *testing.T) {
	// a 60 degree arc gets ceil(24 * 60 / 360) = 4 segments
	a := math.Pi / 3
	arc := Curve{Type: Arc, Points: [][]float64{
		{1, 0, 0},
		{math.Cos(a / 2), math.Sin(a / 2), 0},
		{math.Cos(a), math.Sin(a), 0},
	}}

	segments, err := Discretize([]Curve{arc}, DefaultResolution())
	require.NoError(t, err)
	assert.Len(t, segments, 4)
}

func TestDiscretizeCircleIsClosed(t *testing.T) {
	circle := Curve{Type: Circle, Center: []float64{0, 0, 5}, Normal: []float64{0, 0, 1}, Radius: 3}

	segments, err := Discretize([]Curve{circle}, Resolution{Curve: 10, Circle: 8})
	require.NoError(t, err)
	require.Len(t, segments, 8)

	assert.Equal(t, segments[0].Start, segments[7].End)
	for _, s := range segments {
		assert.InDelta(t, 5.0, s.Start.Z, 1e-12)
		assert.InDelta(t, 3.0, s.Start.Sub(geometry.NewVector3(0, 0, 5)).Length(), 1e-12)
	}
}

func TestDiscretizePolylineByArcLength(t *testing.T) {
	polyline := Curve{Type: Polyline, Points: [][]float64{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {1, 3, 0}}}

	segments, err := Discretize([]Curve{polyline}, Resolution{Curve: 4, Circle: 24})
	require.NoError(t, err)
	require.Len(t, segments, 4)

	assert.Equal(t, geometry.NewVector3(0, 0, 0), segments[0].Start)
	assert.Equal(t, geometry.NewVector3(1, 0, 0), segments[0].End)
	assert.Equal(t, geometry.NewVector3(1, 1, 0), segments[1].End)
	assert.Equal(t, geometry.NewVector3(1, 2, 0), segments[2].End)
	assert.Equal(t, geometry.NewVector3(1, 3, 0), segments[3].End)
}

func TestDiscretizeRejectsZeroResolution(t *testing.T) {
	_, err := Discretize(nil, Resolution{})
	assert.Error(t, err)
}
