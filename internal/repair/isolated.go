package repair

import "github.com/fxbricks/ldtrack/pkg/mesh"

// RemoveIsolatedVertices drops vertices no face references and renumbers the rest
func RemoveIsolatedVertices(m *mesh.Mesh, _ Config) (*mesh.Mesh, error) {
	m.Compact()
	return m, nil
}
