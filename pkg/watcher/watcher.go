// Package watcher re-runs work when input files change.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches groups of files and calls back once per group after
// changes have settled for the debounce delay
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	groups   map[string][]string
	debounce time.Duration
	timers   map[string]*time.Timer
	onChange func(group, path string)
	errOut   io.Writer
}

// NewFileWatcher creates a new file watcher. onChange receives the group key
// and the last file of that group that changed; watcher errors go to errOut.
func NewFileWatcher(debounce time.Duration, onChange func(group, path string), errOut io.Writer) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &FileWatcher{
		watcher:  watcher,
		groups:   make(map[string][]string),
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
		onChange: onChange,
		errOut:   errOut,
	}, nil
}

// Watch adds files to a group. A file can belong to several groups.
func (fw *FileWatcher) Watch(group string, files []string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}

		if len(fw.groups[absPath]) == 0 {
			if err := fw.watcher.Add(absPath); err != nil {
				return fmt.Errorf("failed to watch %s: %w", absPath, err)
			}
		}
		if !contains(fw.groups[absPath], group) {
			fw.groups[absPath] = append(fw.groups[absPath], group)
		}
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// Run dispatches file events until ctx is done or the watcher is closed
func (fw *FileWatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			fw.stopTimers()
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
				fw.handleFileChange(event.Name)
			case event.Has(fsnotify.Rename), event.Has(fsnotify.Remove):
				// editors replace files by renaming; watch the new file once it appears
				fw.rewatch(event.Name)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			if fw.errOut != nil {
				fmt.Fprintf(fw.errOut, "Watcher error: %v\n", err)
			}
		}
	}
}

// rewatch re-adds a replaced file after the debounce delay and reports it changed
func (fw *FileWatcher) rewatch(filePath string) {
	time.AfterFunc(fw.debounce, func() {
		fw.mu.Lock()
		_, known := fw.groups[filePath]
		fw.mu.Unlock()
		if !known {
			return
		}
		if err := fw.watcher.Add(filePath); err != nil {
			if fw.errOut != nil {
				fmt.Fprintf(fw.errOut, "Watcher error: failed to re-watch %s: %v\n", filePath, err)
			}
			return
		}
		fw.handleFileChange(filePath)
	})
}

// handleFileChange handles a file change event with debouncing per group
func (fw *FileWatcher) handleFileChange(filePath string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, group := range fw.groups[filePath] {
		if timer, exists := fw.timers[group]; exists {
			timer.Stop()
		}
		fw.timers[group] = time.AfterFunc(fw.debounce, func() {
			fw.onChange(group, filePath)
		})
	}
}

func (fw *FileWatcher) stopTimers() {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	for _, timer := range fw.timers {
		timer.Stop()
	}
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	fw.stopTimers()
	return fw.watcher.Close()
}

// Unwatch removes a group from every file it watches. Files no other group
// needs are no longer watched. A notification already pending for the group
// still fires.
func (fw *FileWatcher) Unwatch(group string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for file, groups := range fw.groups {
		if !contains(groups, group) {
			continue
		}
		rest := make([]string, 0, len(groups)-1)
		for _, g := range groups {
			if g != group {
				rest = append(rest, g)
			}
		}
		if len(rest) > 0 {
			fw.groups[file] = rest
			continue
		}
		delete(fw.groups, file)
		// a removed file has already lost its watch
		if err := fw.watcher.Remove(file); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
			return fmt.Errorf("failed to unwatch %s: %w", file, err)
		}
	}
	return nil
}

// Files returns the watched files of a group, sorted
func (fw *FileWatcher) Files(group string) []string {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	var files []string
	for file, groups := range fw.groups {
		if contains(groups, group) {
			files = append(files, file)
		}
	}
	sort.Strings(files)
	return files
}
