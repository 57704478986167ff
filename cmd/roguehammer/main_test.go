package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/roguehammer/internal/game/layout"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestSimulate_SeededRunPrintsSummary(t *testing.T) {
	out, err := execute(t, "simulate", "--layout", "layout1", "--seed", "7", "--max-frames", "20000")
	require.NoError(t, err)
	assert.Contains(t, out, "layout1")
	assert.Contains(t, out, "outcome")
	assert.Contains(t, out, "enemies killed")
}

func TestSimulate_SameSeedSameSummary(t *testing.T) {
	strip := func(s string) string {
		// the run id line differs between runs
		_, rest, _ := strings.Cut(s, "\n")
		return rest
	}
	first, err := execute(t, "simulate", "--layout", "layout2", "--seed", "11", "--max-frames", "15000")
	require.NoError(t, err)
	second, err := execute(t, "simulate", "--layout", "layout2", "--seed", "11", "--max-frames", "15000")
	require.NoError(t, err)
	assert.Equal(t, strip(first), strip(second))
}

func TestSimulate_FrameBudgetIsReportedNotFailed(t *testing.T) {
	out, err := execute(t, "simulate", "--layout", "layout1", "--seed", "1", "--max-frames", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "aborted")
}

func TestSimulate_UnknownLayout(t *testing.T) {
	_, err := execute(t, "simulate", "--layout", "nowhere")
	assert.ErrorContains(t, err, "nowhere")
}

func TestSimulate_LayoutFileAndScripts(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "corridor.yaml", `
layout:
  name: corridor
  rows:
    - "S E"
`)
	writeFile(t, dir, "corridor.lua", `
function on_room_entered(row, col, room_type)
  engine.log.info("entered " .. room_type)
end
`)
	cfg := writeFile(t, dir, "config.yaml", "simulation:\n  script_dir: "+dir+"\n")

	out, err := execute(t, "--config", cfg, "simulate", "--layout-file", file, "--seed", "1", "--max-frames", "5000")
	require.NoError(t, err)
	assert.Contains(t, out, "corridor")
	assert.Contains(t, out, "complete")
}

func TestLayouts_ListsBuiltins(t *testing.T) {
	out, err := execute(t, "layouts")
	require.NoError(t, err)
	for _, name := range layout.BuiltinNames() {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "3x3")
	assert.NotContains(t, out, "invalid")
}

func TestLayouts_FromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", "layout:\n  name: beta\n  rows:\n    - \"S E\"\n")
	writeFile(t, dir, "a.yaml", "layout:\n  name: alpha\n  rows:\n    - \"S\"\n    - \"E\"\n")

	out, err := execute(t, "layouts", "--file", dir)
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "alpha"), strings.Index(out, "beta"))
	assert.Contains(t, out, "2x1")
}

func TestListLayouts_ReportsInvalid(t *testing.T) {
	bad, err := layout.FromRows("bad", "S . N")
	require.NoError(t, err)
	good, err := layout.FromRows("good", "S E")
	require.NoError(t, err)

	var out bytes.Buffer
	err = listLayouts(&out, []*layout.Layout{good, bad})
	assert.ErrorIs(t, err, errInvalidLayouts)
	assert.Contains(t, out.String(), "no neighbours")
}

func TestRenderMap_Plain(t *testing.T) {
	l, err := layout.Builtin("layout1")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, renderMap(&out, l, false))
	lines := strings.Split(out.String(), "\n")

	assert.Equal(t, "layout1 (3x3)", lines[0])
	assert.Equal(t, "", lines[1], "start and end rooms have no up door")
	assert.Equal(t, " [S]   .   [E]", lines[2])
	assert.Equal(t, "  |         |", lines[3])
	assert.Equal(t, "  |         |", lines[4])
	assert.Equal(t, " [N]--[T]--[B]", lines[5])
	assert.NotContains(t, out.String(), "\x1b[")
	assert.NotContains(t, out.String(), "warning")
}

func TestRenderMap_WarnsOnIsolatedRoom(t *testing.T) {
	l, err := layout.FromRows("islands", "S . N")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, renderMap(&out, l, false))
	assert.Contains(t, out.String(), "warning:")
}

func TestMap_Command(t *testing.T) {
	out, err := execute(t, "map", "--layout", "layout2", "--no-color")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "layout2 (4x4)"))
	assert.Contains(t, out, "[B]")
}

func TestIsTerminal_Buffer(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))
}

func TestRenderMap_Colored(t *testing.T) {
	l, err := layout.Builtin("layout1")
	require.NoError(t, err)

	var plain, colored bytes.Buffer
	require.NoError(t, renderMap(&plain, l, false))
	require.NoError(t, renderMap(&colored, l, true))
	assert.Contains(t, colored.String(), "[S]")
	assert.GreaterOrEqual(t, colored.Len(), plain.Len())
}

func TestLayouts_BundledContent(t *testing.T) {
	out, err := execute(t, "layouts", "--file", filepath.Join("..", "..", "content", "layouts"))
	require.NoError(t, err)
	assert.Contains(t, out, "crypt")
	assert.Contains(t, out, "3x3")
}
