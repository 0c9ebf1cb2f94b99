package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fxbricks/ldtrack/internal/convert"
	"github.com/fxbricks/ldtrack/internal/repair"
	"github.com/fxbricks/ldtrack/pkg/mesh"
	"github.com/fxbricks/ldtrack/pkg/stl"
)

var repairCmd = &cobra.Command{
	Use:   "repair <input> [output]",
	Short: "Repair a mesh and write it as binary STL",
	Long: `Repair runs the mesh repair pipeline on an STL or OpenSCAD file and writes
the repaired mesh. The output defaults to <input>-repaired.stl.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRepair,
}

func init() {
	rootCmd.AddCommand(repairCmd)
}

func runRepair(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := strings.TrimSuffix(input, filepath.Ext(input)) + "-repaired.stl"
	if len(args) == 2 {
		output = args[1]
	}

	raw, err := loadMesh(cmd.Context(), input)
	if err != nil {
		return err
	}
	fmt.Printf("  Mesh:  %s Imported %s\n", raw.Stats(), input)

	repairer := repair.NewRepairer(cfg.Repair, func(stage string, stats mesh.Stats) {
		fmt.Printf("  Mesh:  %s %s\n", stats, stage)
	})
	repaired, err := repairer.Repair(cmd.Context(), raw)
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if err := stl.WriteFile(output, stl.FromMesh(name, repaired)); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", output)
	return nil
}

// loadMesh reads an STL or OpenSCAD file the same way conversions do
func loadMesh(ctx context.Context, path string) (*mesh.Mesh, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", convert.ErrSourceLoad, err)
	}
	return convert.NewConverter(cfg, io.Discard).LoadMesh(ctx, path)
}
