package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fxbricks/ldtrack/internal/repair"
	"github.com/fxbricks/ldtrack/pkg/analysis"
)

var (
	edgesCount    int
	edgesLongest  bool
	edgesRepaired bool
)

var edgesCmd = &cobra.Command{
	Use:   "edges [file]",
	Short: "List the short edges the repair collapses",
	Long: `List the edges shorter than the collapse threshold, shortest first, and
whether the repair collapses them or keeps them because both ends lie on a
boundary, non-manifold or sharp feature. With --longest the longest edges of
the mesh are listed instead.`,
	Args: cobra.ExactArgs(1),
	Run:  runEdges,
}

func init() {
	rootCmd.AddCommand(edgesCmd)

	edgesCmd.Flags().IntVarP(&edgesCount, "count", "n", 20, "Number of edges to display")
	edgesCmd.Flags().BoolVarP(&edgesLongest, "longest", "l", false, "Show the longest edges instead")
	edgesCmd.Flags().BoolVarP(&edgesRepaired, "repaired", "r", false, "Analyze the mesh after repair")
}

func runEdges(cmd *cobra.Command, args []string) {
	m, result := analyzeFile(cmd, args[0], edgesRepaired)

	fmt.Printf("Edges: %d (min %.6f, max %.6f, avg %.6f)\n",
		result.EdgeCount, result.MinEdgeLength, result.MaxEdgeLength, result.AvgEdgeLength)

	if edgesLongest {
		longest := analysis.FindLongestEdges(result, edgesCount)
		fmt.Printf("\n%-6s %-35s %-35s %-12s %s\n", "Index", "Start", "End", "Length", "Faces")
		for i, e := range longest {
			fmt.Printf("%-6d %-35s %-35s %-12.6f %d\n",
				i+1, analysis.FormatVector(e.Start), analysis.FormatVector(e.End), e.Length, e.Faces)
		}
		return
	}

	short := repair.ShortEdges(m, cfg.Repair)
	pinned := 0
	for _, e := range short {
		if e.Pinned {
			pinned++
		}
	}
	fmt.Printf("Collapse threshold: %.6f, preserve features: %t (%.1f deg)\n",
		cfg.Repair.MinEdgeLength, cfg.Repair.PreserveFeatures, cfg.Repair.FeatureAngle)
	fmt.Printf("Short edges: %d (%d collapse, %d pinned)\n", len(short), len(short)-pinned, pinned)
	if len(short) == 0 {
		return
	}

	fmt.Printf("\n%-6s %-8s %-8s %-35s %-35s %-12s %-6s %s\n", "Index", "From", "To", "Start", "End", "Length", "Faces", "Action")
	for i, e := range short {
		if i == edgesCount {
			fmt.Printf("... %d more\n", len(short)-edgesCount)
			break
		}
		action := "collapse"
		if e.Pinned {
			action = "pinned"
		}
		fmt.Printf("%-6d %-8d %-8d %-35s %-35s %-12.6f %-6d %s\n",
			i+1, e.Edge[0], e.Edge[1],
			analysis.FormatVector(m.Vertices[e.Edge[0]]),
			analysis.FormatVector(m.Vertices[e.Edge[1]]),
			e.Length, e.Faces, action)
	}
}
