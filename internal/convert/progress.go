package convert

import (
	"fmt"
	"io"
	"sync"

	"github.com/fxbricks/ldtrack/internal/catalog"
	"github.com/fxbricks/ldtrack/pkg/mesh"
)

// progress serialises the report lines of concurrently converted variants
type progress struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *progress) line(v catalog.Variant, format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "%-14s %s\n", v.Base(), fmt.Sprintf(format, args...))
}

// mesh prints a statistics line; edges below zero are left out
func (p *progress) mesh(v catalog.Variant, stats mesh.Stats, edges int, msg string) {
	edgeCount := ""
	if edges >= 0 {
		edgeCount = fmt.Sprintf("edges=%-5d ", edges)
	}
	p.line(v, "  Mesh:  %s %s%s", stats, edgeCount, msg)
}
