package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fxbricks/ldtrack/internal/convert"
)

var convertCmd = &cobra.Command{
	Use:   "convert [item...]",
	Short: "Convert catalog items into LDraw parts",
	Long: `Convert repairs the mesh of every variant of the given catalog items (all
items when none are given), reconciles the variant's edge curves with it and
writes the LDraw part. The assembly of an item is written once its track,
inner rail and outer rail all converted.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().IntP("workers", "j", 0, "number of variants converted in parallel")
	convertCmd.Flags().StringP("output", "o", "", "output directory")
	viper.BindPFlag("workers", convertCmd.Flags().Lookup("workers"))
	viper.BindPFlag("output_dir", convertCmd.Flags().Lookup("output"))

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	items, err := cfg.Catalog().Select(args)
	if err != nil {
		return err
	}

	conv := convert.NewConverter(cfg, os.Stdout)
	l, err := openLedger()
	if err != nil {
		return err
	}
	if l != nil {
		defer l.Close()
		conv.WithRecorder(l, "")
	}

	results, err := conv.Run(ctx, items)

	fmt.Println()
	fmt.Println("Summary")
	fmt.Println("=======")
	failed := 0
	for _, res := range results {
		if res.Failed() {
			failed++
			fmt.Printf("  %-8s FAILED\n", res.Item.Name)
			for _, v := range res.Variants {
				if v.Err != nil {
					fmt.Printf("    %s: %v\n", v.Variant, v.Err)
				}
			}
			continue
		}
		fmt.Printf("  %-8s ok  %s\n", res.Item.Name, res.Assembly)
	}
	if err != nil {
		return fmt.Errorf("conversion interrupted: %w", err)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d items failed", failed, len(results))
	}
	return nil
}
