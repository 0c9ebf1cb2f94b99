package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"

	"github.com/spf13/cobra"

	"github.com/fxbricks/ldtrack/internal/catalog"
	"github.com/fxbricks/ldtrack/internal/convert"
	"github.com/fxbricks/ldtrack/pkg/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [item...]",
	Short: "Convert items and re-convert them when their sources change",
	Long: `Watch converts the given catalog items (all items when none are given) and
then watches their meshes, curve files and OpenSCAD dependencies. An item is
converted again once its files have stopped changing for the debounce delay.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Bool("skip-initial", false, "do not convert before watching")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	if skip, _ := cmd.Flags().GetBool("skip-initial"); !skip {
		if _, err := conv.Run(ctx, items); err != nil {
			return err
		}
	}

	byName := make(map[string]catalog.Item, len(items))
	inputs := func(item catalog.Item) []string {
		var files []string
		for _, v := range conv.Catalog().Variants(item) {
			files = append(files, conv.Inputs(v)...)
		}
		return files
	}

	var fw *watcher.FileWatcher
	var mu sync.Mutex
	onChange := func(group, path string) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Printf("\n%s changed, converting %s\n", path, group)
		res := conv.ConvertItem(ctx, byName[group])
		if res.Failed() {
			fmt.Fprintf(os.Stderr, "%s failed: %v\n", group, res.Err)
			return
		}
		fmt.Printf("%s done: %s\n", group, res.Assembly)

		// an edited OpenSCAD file may include different files now
		if err := rewatch(fw, group, inputs(byName[group])); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	fw, err = watcher.NewFileWatcher(cfg.Debounce, onChange, os.Stderr)
	if err != nil {
		return err
	}
	defer fw.Close()

	watched := 0
	for _, item := range items {
		byName[item.Name] = item
		for _, input := range inputs(item) {
			if err := fw.Watch(item.Name, []string{input}); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
				continue
			}
			watched++
		}
	}
	if watched == 0 {
		return fmt.Errorf("no input files to watch")
	}

	fmt.Printf("Watching %d files of %d items, press Ctrl+C to stop\n", watched, len(items))
	fw.Run(ctx)
	return nil
}

// rewatch replaces the files watched for a group. Files that cannot be
// watched are skipped; the first such error is returned.
func rewatch(fw *watcher.FileWatcher, group string, files []string) error {
	if err := fw.Unwatch(group); err != nil {
		return err
	}
	var first error
	for _, f := range files {
		if err := fw.Watch(group, []string{f}); err != nil && first == nil {
			first = err
		}
	}
	return first
}
