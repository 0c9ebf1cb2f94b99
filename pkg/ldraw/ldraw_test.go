package ldraw

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxbricks/ldtrack/pkg/geometry"
	"github.com/fxbricks/ldtrack/pkg/mesh"
	"github.com/fxbricks/ldtrack/pkg/mesh/meshtest"
)

func TestFormatNumber(t *testing.T) {
	negativeZero := math.Copysign(0, -1)
	tests := []struct {
		input float64
		want  string
	}{
		{0, "0"},
		{1, "1"},
		{-2.5, "-2.5"},
		{0.123456, "0.1235"},
		{10.10, "10.1"},
		{1234.5, "1234.5"},
		{-0.00001, "0"},
		{negativeZero, "0"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.input); got != tt.want {
			t.Errorf("FormatNumber(%v) failed: expected %s, got %s", tt.input, tt.want, got)
		}
	}
}

func TestHeader(t *testing.T) {
	h := DefaultMeta().Header("/out/s/S8InnerRail.dat")

	want := strings.Join([]string{
		"0 FILE S8InnerRail.dat",
		"0 FxTrack S8InnerRail.dat",
		"0 Name: S8InnerRail.dat",
		"0 Author: Fx Bricks",
		"0 !LDRAW_ORG Unofficial_Part",
		"0 !LICENSE Redistributable under CCAL version 4.0 BY-NC-SA",
		"0 // Copyright 2020 Fx Bricks Inc.",
		"0 BFC CERTIFY CCW",
		"",
	}, "\n")
	assert.Equal(t, want, h.String())
}

func TestLines(t *testing.T) {
	tri := geometry.Triangle{
		V1: geometry.NewVector3(0, 0, 0),
		V2: geometry.NewVector3(1.5, 0, 0),
		V3: geometry.NewVector3(0, -2, 0.25),
	}
	assert.Equal(t, "3 16 0 0 0 1.5 0 0 0 -2 0.25", TriangleLine(MainColour, tri))

	seg := geometry.NewSegment(geometry.NewVector3(1, 2, 3), geometry.NewVector3(4, 5, 6))
	assert.Equal(t, "2 24 1 2 3 4 5 6", EdgeLine(EdgeColour, seg))

	assert.Equal(t, "1 72 0 0 0 1 0 0 0 1 0 0 0 1 s/S8.dat", PartRef(72, "s/S8.dat"))
}

func TestWritePart(t *testing.T) {
	cube := meshtest.Cube(geometry.Vector3{}, 1)
	edges := []geometry.Segment{
		geometry.NewSegment(geometry.NewVector3(0, 0, 0), geometry.NewVector3(1, 0, 0)),
		geometry.NewSegment(geometry.NewVector3(1, 0, 0), geometry.NewVector3(1, 1, 0)),
	}

	var buf bytes.Buffer
	require.NoError(t, WritePart(&buf, DefaultMeta().Header("S8.dat"), cube, edges, DefaultColours()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	count := map[string]int{}
	for _, l := range lines {
		count[strings.Fields(l)[0]]++
	}
	assert.Equal(t, 12, count["3"])
	assert.Equal(t, 2, count["2"])
	assert.Equal(t, "0 NOFILE", lines[len(lines)-1])
	assert.Contains(t, lines, "3 16 0 0 0 0 1 0 1 1 0")
}

func TestWritePartEmptyMesh(t *testing.T) {
	var buf bytes.Buffer
	err := WritePart(&buf, Header{}, &mesh.Mesh{}, nil, DefaultColours())
	assert.True(t, errors.Is(err, mesh.ErrEmpty))
	assert.Zero(t, buf.Len())
}

func TestWriteAssembly(t *testing.T) {
	var buf bytes.Buffer
	refs := []Ref{{72, "s/S8.dat"}, {383, "s/S8InnerRail.dat"}, {383, "s/S8OuterRail.dat"}}
	require.NoError(t, WriteAssembly(&buf, DefaultMeta().Header("FxTrackS8.dat"), refs))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "0 FILE FxTrackS8.dat\n0 FxTrack FxTrackS8.dat\n"))
	assert.Contains(t, out, "1 383 0 0 0 1 0 0 0 1 0 0 0 1 s/S8OuterRail.dat\n")
	assert.True(t, strings.HasSuffix(out, "0 NOFILE\n"))
}
