// Package convert drives a part variant from its mesh and curve sources to an
// LDraw part file, and converts whole catalog items in parallel.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fxbricks/ldtrack/internal/catalog"
	"github.com/fxbricks/ldtrack/internal/config"
	"github.com/fxbricks/ldtrack/internal/ledger"
	"github.com/fxbricks/ldtrack/internal/reconcile"
	"github.com/fxbricks/ldtrack/internal/repair"
	"github.com/fxbricks/ldtrack/pkg/curves"
	"github.com/fxbricks/ldtrack/pkg/ldraw"
	"github.com/fxbricks/ldtrack/pkg/mesh"
	"github.com/fxbricks/ldtrack/pkg/openscad"
	"github.com/fxbricks/ldtrack/pkg/stl"
)

// ErrSourceLoad is returned when a mesh or curve source cannot be read
var ErrSourceLoad = errors.New("failed to load source")

// Recorder stores conversion outcomes
type Recorder interface {
	Record(ctx context.Context, runID string, e ledger.Entry) (int64, error)
}

// Result is the outcome of converting one variant
type Result struct {
	Variant  catalog.Variant
	Mesh     mesh.Stats
	Edges    int
	Snap     reconcile.Stats
	Duration time.Duration
	Err      error
}

// Entry returns the ledger entry of the result
func (r Result) Entry() ledger.Entry {
	e := ledger.Entry{
		Item:      r.Variant.Item,
		Profile:   string(r.Variant.Profile),
		Status:    ledger.StatusOK,
		Triangles: r.Mesh.Faces,
		Vertices:  r.Mesh.Vertices,
		Edges:     r.Edges,
		Snapped:   r.Snap.Snapped,
		Duration:  r.Duration,
	}
	if r.Err != nil {
		e.Status = ledger.StatusFailed
		e.Error = r.Err.Error()
	}
	return e
}

// Converter converts catalog variants with one configuration
type Converter struct {
	cfg      config.Config
	catalog  catalog.Catalog
	renderer *openscad.Renderer
	log      *progress
	recorder Recorder
	runID    string
}

// NewConverter creates a converter that reports progress to out
func NewConverter(cfg config.Config, out io.Writer) *Converter {
	return &Converter{
		cfg:      cfg,
		catalog:  cfg.Catalog(),
		renderer: openscad.NewRenderer(".", cfg.OpenSCAD),
		log:      &progress{w: out},
		runID:    time.Now().UTC().Format("20060102T150405.000"),
	}
}

// WithRecorder records every converted variant under runID
func (c *Converter) WithRecorder(r Recorder, runID string) *Converter {
	c.recorder = r
	if runID != "" {
		c.runID = runID
	}
	return c
}

// Catalog returns the catalog the converter works on
func (c *Converter) Catalog() catalog.Catalog {
	return c.catalog
}

// RunID returns the identifier recorded with every result
func (c *Converter) RunID() string {
	return c.runID
}

// LoadMesh reads an STL file, or renders an OpenSCAD source first
func (c *Converter) LoadMesh(ctx context.Context, path string) (*mesh.Mesh, error) {
	if strings.EqualFold(filepath.Ext(path), ".scad") {
		m, err := c.renderer.Load(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSourceLoad, err)
		}
		return m, nil
	}
	model, err := stl.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceLoad, err)
	}
	return model.Mesh(), nil
}

// Inputs returns every file a variant is built from, including OpenSCAD dependencies
func (c *Converter) Inputs(v catalog.Variant) []string {
	inputs := []string{v.CurvePath}
	if strings.EqualFold(filepath.Ext(v.MeshPath), ".scad") {
		if deps, err := c.renderer.ResolveDependencies(v.MeshPath); err == nil {
			return append(inputs, deps...)
		}
	}
	return append(inputs, v.MeshPath)
}

// ConvertVariant runs load, repair, discretize, reconcile and write for one
// variant. The part file is replaced only when every step succeeded.
func (c *Converter) ConvertVariant(ctx context.Context, v catalog.Variant) Result {
	start := time.Now()
	res := Result{Variant: v}
	res.Err = c.convert(ctx, v, &res)
	res.Duration = time.Since(start)

	if res.Err != nil {
		c.log.line(v, "Failed: %v", res.Err)
	}
	c.record(ctx, res)
	return res
}

func (c *Converter) convert(ctx context.Context, v catalog.Variant, res *Result) error {
	c.log.line(v, "Importing %s", v.MeshPath)
	raw, err := c.LoadMesh(ctx, v.MeshPath)
	if err != nil {
		return err
	}
	c.log.mesh(v, raw.Stats(), -1, "Imported mesh")

	repairer := repair.NewRepairer(c.cfg.Repair, func(stage string, stats mesh.Stats) {
		c.log.mesh(v, stats, -1, stage)
	})
	repaired, err := repairer.Repair(ctx, raw)
	if err != nil {
		return fmt.Errorf("failed to repair %s: %w", v, err)
	}
	res.Mesh = repaired.Stats()

	file, err := curves.Load(v.CurvePath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSourceLoad, err)
	}
	segments, err := curves.Discretize(file.Curves, c.cfg.Resolution)
	if err != nil {
		return fmt.Errorf("failed to discretize curves of %s: %w", v, err)
	}
	c.log.mesh(v, res.Mesh, len(segments), "Discretized edges")

	edges, stats, err := reconcile.Reconcile(repaired, segments, c.cfg.SnapTolerance)
	if err != nil {
		return fmt.Errorf("failed to reconcile edges of %s: %w", v, err)
	}
	res.Edges = len(edges)
	res.Snap = stats
	c.log.mesh(v, res.Mesh, len(edges), "Reconciled edges ("+stats.String()+")")

	if err := ctx.Err(); err != nil {
		return err
	}
	header := c.cfg.Meta.Header(v.OutputPath)
	err = writeAtomic(v.OutputPath, func(w io.Writer) error {
		return ldraw.WritePart(w, header, repaired, reconcile.Segments(edges), c.cfg.Colours)
	})
	if err != nil {
		return err
	}
	c.log.line(v, "Wrote %s", v.OutputPath)
	return nil
}

func (c *Converter) record(ctx context.Context, res Result) {
	if c.recorder == nil {
		return
	}
	if _, err := c.recorder.Record(context.WithoutCancel(ctx), c.runID, res.Entry()); err != nil {
		c.log.line(res.Variant, "Failed to record conversion: %v", err)
	}
}
