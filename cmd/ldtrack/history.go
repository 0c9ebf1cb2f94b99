package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent conversions from the ledger",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "number of conversions to show")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	l, err := openLedger()
	if err != nil {
		return err
	}
	if l == nil {
		return fmt.Errorf("no ledger configured, set ledger in the config file or LDTRACK_LEDGER")
	}
	defer l.Close()

	entries, err := l.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No conversions recorded.")
		return nil
	}

	fmt.Printf("%-20s %-20s %-8s %-6s %-7s %9s %9s %6s %7s %9s\n",
		"Finished", "Run", "Item", "Part", "Status", "Triangles", "Vertices", "Edges", "Snapped", "Duration")
	for _, e := range entries {
		fmt.Printf("%-20s %-20s %-8s %-6s %-7s %9d %9d %6d %7d %9s\n",
			e.FinishedAt.Local().Format("2006-01-02 15:04:05"), e.RunID, e.Item, e.Profile, e.Status,
			e.Triangles, e.Vertices, e.Edges, e.Snapped, e.Duration)
		if e.Error != "" {
			fmt.Printf("  %s\n", e.Error)
		}
	}
	return nil
}
