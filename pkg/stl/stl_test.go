package stl

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxbricks/ldtrack/pkg/geometry"
	"github.com/fxbricks/ldtrack/pkg/mesh/meshtest"
)

const asciiTriangle = `solid rail
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
endsolid rail
`

func TestParseASCII(t *testing.T) {
	model, err := ParseBytes([]byte(asciiTriangle))
	require.NoError(t, err)

	assert.Equal(t, "rail", model.Name)
	require.Equal(t, 1, model.TriangleCount())
	assert.Equal(t, geometry.NewVector3(1, 0, 0), model.Triangles[0].V2)
	assert.Equal(t, geometry.NewVector3(0, 0, 1), model.Triangles[0].Normal)
}

func TestParseASCIIRejectsBadVertex(t *testing.T) {
	bad := strings.Replace(asciiTriangle, "vertex 1 0 0", "vertex 1 zero 0", 1)

	_, err := ParseBytes([]byte(bad))
	assert.Error(t, err)
}

func TestBinaryRoundTrip(t *testing.T) {
	cube := meshtest.Cube(geometry.Vector3{}, 4)
	model := FromMesh("cube", cube)

	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, model))
	assert.Equal(t, binaryHeaderSize+4+12*binaryTriangleSize, buf.Len())

	parsed, err := ParseBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "cube", parsed.Name)

	m := parsed.Mesh()
	assert.Equal(t, 8, m.VertexCount())
	assert.Equal(t, 12, m.FaceCount())
	assert.True(t, m.IsClosedManifold())
}

func TestBinaryWithSolidHeader(t *testing.T) {
	model := FromMesh("solid but binary", meshtest.Tetrahedron())

	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, model))

	parsed, err := ParseBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 4, parsed.TriangleCount())
}

func TestWriteFileAndParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tetra.stl")
	require.NoError(t, WriteFile(path, FromMesh("tetra", meshtest.Tetrahedron())))

	model, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, 4, model.TriangleCount())
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.stl"))
	assert.Error(t, err)
}

func TestBinaryRejectsOversizedCount(t *testing.T) {
	data := make([]byte, binaryHeaderSize+4)
	binary.LittleEndian.PutUint32(data[binaryHeaderSize:], 0xFFFFFFFF)

	_, err := ParseBytes(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declares 4294967295 triangles but the file holds 0")
}

func TestBinaryRejectsTruncatedTriangles(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, FromMesh("tetra", meshtest.Tetrahedron())))

	_, err := ParseBytes(buf.Bytes()[:buf.Len()-1])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declares 4 triangles but the file holds 3")
}
