package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fxbricks/ldtrack/internal/repair"
	"github.com/fxbricks/ldtrack/pkg/analysis"
	"github.com/fxbricks/ldtrack/pkg/mesh"
)

var infoRepaired bool

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display measurements and defects of a mesh",
	Long:  "Show dimensions, triangle count, surface area, edge statistics and the manifold defects the repair pipeline removes.",
	Args:  cobra.ExactArgs(1),
	Run:   runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolVarP(&infoRepaired, "repaired", "r", false, "Analyze the mesh after repair")
}

func analysisOptions() analysis.Options {
	return analysis.Options{
		DegenerateTolerance: cfg.Repair.DegenerateTolerance,
		ObtuseMaxAngle:      cfg.Repair.ObtuseMaxAngle,
		ObtuseMaxArea:       cfg.Repair.ObtuseMaxArea,
	}
}

// analyzeFile loads a mesh, optionally repairs it, and measures it
func analyzeFile(cmd *cobra.Command, filename string, repaired bool) (*mesh.Mesh, *analysis.MeasurementResult) {
	m, err := loadMesh(cmd.Context(), filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading mesh: %v\n", err)
		os.Exit(1)
	}
	if repaired {
		m, err = repair.Repair(cmd.Context(), m, cfg.Repair)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error repairing mesh: %v\n", err)
			os.Exit(1)
		}
	}
	return m, analysis.AnalyzeMesh(m, analysisOptions())
}

func runInfo(cmd *cobra.Command, args []string) {
	filename := args[0]
	_, result := analyzeFile(cmd, filename, infoRepaired)

	fmt.Println("Mesh Information")
	fmt.Println("================")
	fmt.Printf("File: %s\n", filename)
	if infoRepaired {
		fmt.Println("State: repaired")
	}
	fmt.Println()

	fmt.Println("Model Statistics:")
	fmt.Printf("  Triangles: %d\n", result.TriangleCount)
	fmt.Printf("  Vertices: %d\n", result.VertexCount)
	fmt.Printf("  Edges: %d\n", result.EdgeCount)
	fmt.Printf("  Surface Area: %s\n\n", analysis.FormatMeasurement(result.SurfaceArea, "square units"))

	fmt.Println("Bounding Box:")
	fmt.Printf("  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Printf("  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Printf("  Center: %s\n\n", analysis.FormatVector(result.BoundingBox.Center()))

	fmt.Println("Dimensions:")
	fmt.Printf("  Width (X): %.6f units\n", result.Dimensions.X)
	fmt.Printf("  Depth (Y): %.6f units\n", result.Dimensions.Y)
	fmt.Printf("  Height (Z): %.6f units\n", result.Dimensions.Z)
	fmt.Printf("  Diagonal: %.6f units\n", result.BoundingBox.Diagonal())
	fmt.Printf("  Volume: %s\n\n", analysis.FormatMeasurement(result.Volume, "cubic units"))

	fmt.Println("Edge Lengths:")
	fmt.Printf("  Minimum: %.6f units\n", result.MinEdgeLength)
	fmt.Printf("  Maximum: %.6f units\n", result.MaxEdgeLength)
	fmt.Printf("  Average: %.6f units\n\n", result.AvgEdgeLength)

	fmt.Println("Topology:")
	fmt.Printf("  Components: %d\n", result.Components)
	fmt.Printf("  Closed manifold: %t\n", result.ClosedManifold)
	fmt.Printf("  Boundary edges: %d\n", result.BoundaryEdges)
	fmt.Printf("  Non-manifold edges: %d\n", result.NonManifoldEdges)
	fmt.Printf("  Isolated vertices: %d\n", result.IsolatedVertices)
	fmt.Printf("  Degenerate faces: %d\n", result.DegenerateFaces)
	fmt.Printf("  Duplicate faces: %d\n", result.DuplicateFaces)
	fmt.Printf("  Obtuse slivers: %d\n", result.ObtuseFaces)
	fmt.Printf("  Total defects: %d\n", result.Defects())
}
