package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	groups []string
	fired  chan struct{}
}

func newRecorder() *recorder {
	return &recorder{fired: make(chan struct{}, 16)}
}

func (r *recorder) onChange(group, _ string) {
	r.mu.Lock()
	r.groups = append(r.groups, group)
	r.mu.Unlock()
	r.fired <- struct{}{}
}

func (r *recorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.groups...)
}

func TestWatchDebouncesPerGroup(t *testing.T) {
	dir := t.TempDir()
	mesh := filepath.Join(dir, "S8.stl")
	curves := filepath.Join(dir, "S8.yaml")
	require.NoError(t, os.WriteFile(mesh, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(curves, []byte("a"), 0o644))

	rec := newRecorder()
	fw, err := NewFileWatcher(200*time.Millisecond, rec.onChange, nil)
	require.NoError(t, err)
	defer fw.Close()
	require.NoError(t, fw.Watch("S8", []string{mesh, curves}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go fw.Run(ctx)

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(mesh, []byte("b"), 0o644))
		require.NoError(t, os.WriteFile(curves, []byte("b"), 0o644))
	}

	select {
	case <-rec.fired:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
	time.Sleep(600 * time.Millisecond)
	assert.Equal(t, []string{"S8"}, rec.seen())
}

func TestWatchSharedFileNotifiesEveryGroup(t *testing.T) {
	dir := t.TempDir()
	shared := filepath.Join(dir, "profile.scad")
	require.NoError(t, os.WriteFile(shared, []byte("a"), 0o644))

	rec := newRecorder()
	fw, err := NewFileWatcher(20*time.Millisecond, rec.onChange, nil)
	require.NoError(t, err)
	defer fw.Close()
	require.NoError(t, fw.Watch("R56", []string{shared}))
	require.NoError(t, fw.Watch("R64P", []string{shared}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go fw.Run(ctx)

	require.NoError(t, os.WriteFile(shared, []byte("b"), 0o644))
	for i := 0; i < 2; i++ {
		select {
		case <-rec.fired:
		case <-time.After(5 * time.Second):
			t.Fatal("missing change notification")
		}
	}
	assert.ElementsMatch(t, []string{"R56", "R64P"}, rec.seen())
}

func TestWatchMissingFile(t *testing.T) {
	fw, err := NewFileWatcher(time.Millisecond, func(string, string) {}, nil)
	require.NoError(t, err)
	defer fw.Close()

	assert.Error(t, fw.Watch("S8", []string{filepath.Join(t.TempDir(), "missing.stl")}))
}

func TestUnwatchKeepsSharedFiles(t *testing.T) {
	dir := t.TempDir()
	shared := filepath.Join(dir, "profile.scad")
	own := filepath.Join(dir, "R56.scad")
	for _, f := range []string{shared, own} {
		require.NoError(t, os.WriteFile(f, []byte("a"), 0o644))
	}

	rec := newRecorder()
	fw, err := NewFileWatcher(20*time.Millisecond, rec.onChange, nil)
	require.NoError(t, err)
	defer fw.Close()
	require.NoError(t, fw.Watch("R56", []string{shared, own}))
	require.NoError(t, fw.Watch("R64P", []string{shared}))

	require.NoError(t, fw.Unwatch("R56"))
	assert.Empty(t, fw.Files("R56"))
	assert.Equal(t, []string{shared}, fw.Files("R64P"))
	assert.NotContains(t, fw.watcher.WatchList(), own)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go fw.Run(ctx)

	require.NoError(t, os.WriteFile(own, []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(shared, []byte("b"), 0o644))
	select {
	case <-rec.fired:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, []string{"R64P"}, rec.seen())
}

func TestUnwatchThenWatchNewDependencies(t *testing.T) {
	dir := t.TempDir()
	oldDep := filepath.Join(dir, "old.scad")
	newDep := filepath.Join(dir, "new.scad")
	for _, f := range []string{oldDep, newDep} {
		require.NoError(t, os.WriteFile(f, []byte("a"), 0o644))
	}

	fw, err := NewFileWatcher(time.Millisecond, func(string, string) {}, nil)
	require.NoError(t, err)
	defer fw.Close()
	require.NoError(t, fw.Watch("S8", []string{oldDep}))

	require.NoError(t, fw.Unwatch("S8"))
	require.NoError(t, fw.Watch("S8", []string{newDep}))
	assert.Equal(t, []string{newDep}, fw.Files("S8"))
	assert.Equal(t, []string{newDep}, fw.watcher.WatchList())
}
