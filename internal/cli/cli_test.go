package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJustfile(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "justfile")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func execute(args ...string) (int, *bytes.Buffer, *bytes.Buffer) {
	var out, errW bytes.Buffer
	code := Execute(&out, &errW, args)
	return code, &out, &errW
}

func TestList(t *testing.T) {
	path := writeJustfile(t, "b:\na arg:\n")

	code, out, _ := execute("--list", "-f", path)
	assert.Equal(t, 0, code)
	assert.Equal(t, "a arg\nb\n", out.String())
}

func TestShow(t *testing.T) {
	path := writeJustfile(t, "a:\n echo hi\n")

	code, out, _ := execute("-s", "a", "-f", path)
	assert.Equal(t, 0, code)
	assert.Equal(t, "a:\n    echo hi\n", out.String())
}

func TestRecipeExitCodePropagates(t *testing.T) {
	path := writeJustfile(t, "fail:\n @exit 42\n")

	code, _, errW := execute("-f", path, "fail")
	assert.Equal(t, 42, code)
	assert.Contains(t, errW.String(), `recipe "fail" failed with exit code 42`)
}

func TestParseErrorExitsOne(t *testing.T) {
	path := writeJustfile(t, "a = b\n")

	code, _, errW := execute("-f", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, errW.String(), "error: assignment is not yet implemented")
}

func TestUnknownRecipeExitsOne(t *testing.T) {
	path := writeJustfile(t, "a:\n")

	code, _, errW := execute("-f", path, "nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, errW.String(), `does not contain recipe "nope"`)
}

func TestUnknownFlagExitsTwo(t *testing.T) {
	code, _, errW := execute("--no-such-flag")
	assert.Equal(t, 2, code)
	assert.Contains(t, errW.String(), "unknown flag")
}

func TestInvalidLogLevelExitsTwo(t *testing.T) {
	path := writeJustfile(t, "a:\n")

	code, _, errW := execute("-f", path, "--log-level", "loud")
	assert.Equal(t, 2, code)
	assert.Contains(t, errW.String(), `invalid log-level "loud"`)
	assert.Contains(t, errW.String(), "debug, info, warn, or error")
}

func TestInvalidLogFormatExitsTwo(t *testing.T) {
	path := writeJustfile(t, "a:\n")

	code, _, errW := execute("-f", path, "--log-format", "xml")
	assert.Equal(t, 2, code)
	assert.Contains(t, errW.String(), `invalid log-format "xml"`)
}

func TestLogLevelFromEnvironment(t *testing.T) {
	t.Setenv("JUSTRUN_LOG_LEVEL", "bogus")
	path := writeJustfile(t, "a:\n")

	code, _, errW := execute("-f", path)
	assert.Equal(t, 2, code)
	assert.Contains(t, errW.String(), `invalid log-level "bogus"`)
}

func TestRunsRequestedRecipe(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "justfile")
	require.NoError(t, os.WriteFile(path, []byte("mark:\n @touch done\nother:\n"), 0o644))

	code, _, _ := execute("-f", path, "mark")
	assert.Equal(t, 0, code)

	_, err := os.Stat(filepath.Join(dir, "done"))
	assert.NoError(t, err)
}

func TestDebugLoggingGoesToStderr(t *testing.T) {
	path := writeJustfile(t, "a:\n")

	code, out, errW := execute("-f", path, "--log-level", "debug", "--log-format", "json")
	assert.Equal(t, 0, code)
	assert.Empty(t, out.String())
	assert.Contains(t, errW.String(), `"msg":"loading justfile"`)
}
