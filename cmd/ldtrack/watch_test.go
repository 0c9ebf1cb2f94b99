package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxbricks/ldtrack/pkg/watcher"
)

func TestRewatchFollowsChangedIncludes(t *testing.T) {
	dir := t.TempDir()
	curves := filepath.Join(dir, "R56.yaml")
	oldInclude := filepath.Join(dir, "sleeper.scad")
	newInclude := filepath.Join(dir, "sleeper_v2.scad")
	for _, f := range []string{curves, oldInclude, newInclude} {
		require.NoError(t, os.WriteFile(f, []byte("a"), 0o644))
	}

	fw, err := watcher.NewFileWatcher(time.Millisecond, func(string, string) {}, nil)
	require.NoError(t, err)
	defer fw.Close()
	require.NoError(t, fw.Watch("R56", []string{curves, oldInclude}))

	missing := filepath.Join(dir, "gone.scad")
	err = rewatch(fw, "R56", []string{curves, newInclude, missing})
	assert.Error(t, err)
	assert.Equal(t, []string{curves, newInclude}, fw.Files("R56"))
}
