package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	pattern := filepath.Join(dir, "frame-%02d.png")
	out, err := runCLI(t, "render", "-q", "--width", "48", "--height", "32",
		"--frames", "2", "--out", pattern)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 2 frame(s)")
	for _, name := range []string{"frame-00.png", "frame-01.png"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestBenchCommand(t *testing.T) {
	out, err := runCLI(t, "bench", "-q", "--width", "32", "--height", "24", "--frames", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "frames")
	assert.Contains(t, out, "32x24")
}

func TestInvalidConfigIsFatal(t *testing.T) {
	_, err := runCLI(t, "bench", "-q", "--fov=-5", "--frames", "1")
	assert.ErrorContains(t, err, "camera.fov")

	_, err = runCLI(t, "render", "-q", "missing.obj")
	assert.Error(t, err)
}
