package repair

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxbricks/ldtrack/pkg/geometry"
	"github.com/fxbricks/ldtrack/pkg/mesh"
	"github.com/fxbricks/ldtrack/pkg/mesh/meshtest"
)

// dirtyCube is a unit cube with a duplicated face and a coincident vertex
// that forms a zero-area triangle
func dirtyCube() *mesh.Mesh {
	m := meshtest.Cube(geometry.Vector3{}, 1)
	m.Faces = append(m.Faces, m.Faces[0])
	m.Vertices = append(m.Vertices, m.Vertices[0])
	m.Faces = append(m.Faces, mesh.Face{0, 8, 1})
	return m
}

func TestRepairCubeEndToEnd(t *testing.T) {
	repaired, err := Repair(context.Background(), dirtyCube(), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 12, repaired.FaceCount())
	assert.Equal(t, 8, repaired.VertexCount())
	assert.True(t, repaired.IsClosedManifold())
	assert.Empty(t, repaired.IsolatedVertices())
	assert.InDelta(t, 1.0, repaired.SignedVolume(), 1e-9)
	require.NoError(t, repaired.Validate())
}

func TestRepairMergesOverlappingCubes(t *testing.T) {
	m := meshtest.Append(meshtest.Cube(geometry.Vector3{}, 2), meshtest.Cube(geometry.NewVector3(1, 1, 1), 2))

	repaired, err := Repair(context.Background(), m, DefaultConfig())
	require.NoError(t, err)

	assert.True(t, repaired.IsClosedManifold())
	assert.InDelta(t, 15.0, repaired.SignedVolume(), 1e-9)
	assert.Empty(t, IntersectingFaces(repaired, DefaultConfig()))
	assert.Empty(t, repaired.IsolatedVertices())
	require.NoError(t, repaired.Validate())
}

func TestRepairMergesPinThroughBox(t *testing.T) {
	box := meshtest.Cube(geometry.Vector3{}, 2)
	pin := meshtest.Cylinder(geometry.NewVector3(1, 1, -1), 0.5, 4, 24)
	// the pin sticks out by 1 on both sides of the box
	section := 12 * 0.25 * math.Sin(math.Pi/12)

	repaired, err := Repair(context.Background(), meshtest.Append(box, pin), DefaultConfig())
	require.NoError(t, err)

	assert.True(t, repaired.IsClosedManifold())
	assert.InDelta(t, 8+2*section, repaired.SignedVolume(), 1e-6)
	assert.Empty(t, IntersectingFaces(repaired, DefaultConfig()))
}

func TestRepairDoesNotModifyInput(t *testing.T) {
	input := dirtyCube()
	before := input.Clone()

	_, err := Repair(context.Background(), input, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, before, input)
}

func TestRepairIsIdempotent(t *testing.T) {
	inputs := map[string]*mesh.Mesh{
		"dirty cube":  dirtyCube(),
		"tetrahedron": meshtest.Tetrahedron(),
		"two cubes":   meshtest.Append(meshtest.Cube(geometry.Vector3{}, 1), meshtest.Cube(geometry.NewVector3(5, 0, 0), 2)),
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			once, err := Repair(context.Background(), input, DefaultConfig())
			require.NoError(t, err)
			twice, err := Repair(context.Background(), once, DefaultConfig())
			require.NoError(t, err)

			assert.Equal(t, once.Stats(), twice.Stats())
		})
	}
}

func TestRepairEmptyMesh(t *testing.T) {
	_, err := Repair(context.Background(), &mesh.Mesh{}, DefaultConfig())
	assert.True(t, errors.Is(err, mesh.ErrEmpty))

	_, err = Repair(context.Background(), nil, DefaultConfig())
	assert.True(t, errors.Is(err, mesh.ErrEmpty))
}

func TestRepairRejectsOutOfRangeIndices(t *testing.T) {
	m := meshtest.Tetrahedron()
	m.Faces[0][1] = 42

	_, err := Repair(context.Background(), m, DefaultConfig())
	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, "Check input", stageErr.Stage)
}

func TestRepairReportsEveryStage(t *testing.T) {
	var stages []string
	var last mesh.Stats
	repairer := NewRepairer(DefaultConfig(), func(stage string, stats mesh.Stats) {
		stages = append(stages, stage)
		last = stats
	})

	repaired, err := repairer.Repair(context.Background(), dirtyCube())
	require.NoError(t, err)

	require.Len(t, stages, len(Stages()))
	assert.Equal(t, "Remove degenerate faces", stages[0])
	assert.Equal(t, "Remove isolated vertices", stages[len(stages)-1])
	assert.Equal(t, repaired.Stats(), last)
}

func TestRepairNonConvergenceNamesStage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DegenerateMaxIterations = 1

	_, err := Repair(context.Background(), nestedDegenerate(), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNonConvergence))

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, "Remove degenerate faces", stageErr.Stage)
}

func TestRepairRequiresClosedResult(t *testing.T) {
	open := meshtest.Cube(geometry.Vector3{}, 1)
	open.Faces = open.Faces[1:]

	cfg := DefaultConfig()
	_, err := Repair(context.Background(), open, cfg)
	assert.Error(t, err)

	// an open surface encloses nothing, so the hull drops it entirely or leaves it open
	cfg.RequireClosed = false
	repaired, err := Repair(context.Background(), open, cfg)
	if err != nil {
		assert.True(t, errors.Is(err, mesh.ErrEmpty))
		return
	}
	assert.False(t, repaired.IsClosedManifold())
}

func TestRepairHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Repair(ctx, dirtyCube(), DefaultConfig())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.HullSampleOffset = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.ObtuseMaxAngle = 200
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.CollapseMaxPasses = 0
	assert.Error(t, cfg.Validate())
}
