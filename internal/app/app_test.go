package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/justrun/internal/runner"
)

func writeJustfile(t *testing.T, dir, text string) string {
	t.Helper()
	path := filepath.Join(dir, "justfile")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func run(t *testing.T, cfg Config) (*bytes.Buffer, *bytes.Buffer, error) {
	t.Helper()
	var out, errW bytes.Buffer
	err := New(&out, &errW, cfg).Run(context.Background())
	return &out, &errW, err
}

func TestList(t *testing.T) {
	path := writeJustfile(t, t.TempDir(), `
build target:
  @true

test: build
  @true

clean:
  @true
`)

	out, _, err := run(t, Config{JustfilePath: path, List: true})
	require.NoError(t, err)
	assert.Equal(t, "build target\nclean\ntest\n", out.String())
}

func TestShow(t *testing.T) {
	path := writeJustfile(t, t.TempDir(), "b: a\n echo hi\na:\n")

	out, _, err := run(t, Config{JustfilePath: path, Show: "b"})
	require.NoError(t, err)
	assert.Equal(t, "b: a\n    echo hi\n", out.String())
}

func TestShowUnknown(t *testing.T) {
	path := writeJustfile(t, t.TempDir(), "a:\n")

	_, _, err := run(t, Config{JustfilePath: path, Show: "nope"})
	var unknown *runner.UnknownRecipesError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"nope"}, unknown.Recipes)
}

func TestDump(t *testing.T) {
	path := writeJustfile(t, t.TempDir(), "a:\n echo hi\n")

	out, _, err := run(t, Config{JustfilePath: path, Dump: true})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "recipes:")
	assert.Contains(t, out.String(), "name: a")
}

func TestRunDefaultsToFirstRecipe(t *testing.T) {
	dir := t.TempDir()
	path := writeJustfile(t, dir, "second:\n @touch wrong\nfirst:\n")

	// "first" sorts after "second" in listings, but the default recipe is
	// the first one defined, not the first alphabetically.
	_, _, err := run(t, Config{JustfilePath: path})
	require.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "wrong"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunsFromJustfileDirectory(t *testing.T) {
	dir := t.TempDir()
	path := writeJustfile(t, dir, "mark:\n @touch marker\n")

	_, _, err := run(t, Config{JustfilePath: path, Requests: []string{"mark"}})
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "marker"))
	assert.NoError(t, statErr)
}

func TestDiscoveryFromWorkingDir(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "deep", "deeper")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	writeJustfile(t, root, "mark:\n @touch found\n")

	_, _, err := run(t, Config{WorkingDir: sub, Requests: []string{"mark"}})
	require.NoError(t, err)

	// Recipes run from the justfile's directory, not the discovery start.
	_, statErr := os.Stat(filepath.Join(root, "found"))
	assert.NoError(t, statErr)
}

func TestEmptyJustfile(t *testing.T) {
	path := writeJustfile(t, t.TempDir(), "# only a comment\n")

	_, _, err := run(t, Config{JustfilePath: path})
	require.Error(t, err)
	assert.Equal(t, "justfile contains no recipes", err.Error())
}

func TestParseErrorSurfaces(t *testing.T) {
	path := writeJustfile(t, t.TempDir(), "a = b\n")

	_, _, err := run(t, Config{JustfilePath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assignment is not yet implemented")
}
