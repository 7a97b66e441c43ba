package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ojjj13/kltech-std-parser/internal/testutil"
)

func writeLog(t *testing.T) string {
	t.Helper()
	src := testutil.Stream(
		testutil.Record(50, 30, []byte("X:1 Y:1 Site:2")),
		testutil.PTR(testutil.FullPTR()),
		testutil.PTR([]byte{0xFF}),
	)
	path := filepath.Join(t.TempDir(), "lot.std")
	require.NoError(t, os.WriteFile(path, src, 0o600))
	return path
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs(append(args, "--log-level", "error"))
	require.NoError(t, root.ExecuteContext(context.Background()))
	return out.String()
}

func TestPTRThenReformatThenJoin(t *testing.T) {
	logPath := writeLog(t)
	dir := t.TempDir()
	ptrCSV := filepath.Join(dir, "ptr_results.csv")
	finalCSV := filepath.Join(dir, "final_results.csv")
	joined := filepath.Join(dir, "joined.csv")
	metricsPath := filepath.Join(dir, "stdparser.prom")

	summary := run(t, "ptr", logPath, "-o", ptrCSV, "--metrics-textfile", metricsPath)
	require.Contains(t, summary, `"records": 1`)
	data, err := os.ReadFile(ptrCSV)
	require.NoError(t, err)
	require.Contains(t, string(data), "2,1001,1.25,0,IDD,mA,-1,2")

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	require.Contains(t, string(prom), "stdparser_outcomes_total")

	run(t, "reformat", ptrCSV, finalCSV)
	run(t, "join", finalCSV, logPath, joined)
	data, err = os.ReadFile(joined)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Equal(t, "Site,IDD,X,Y", lines[0])
	require.Equal(t, "2,1.25,1,1", lines[4])
}

func TestCoordsYAML(t *testing.T) {
	out := run(t, "coords", writeLog(t), "--format", "yaml")
	require.Contains(t, out, "site: \"2\"")
}

func TestDump(t *testing.T) {
	out := run(t, "dump", writeLog(t), "--limit", "1")
	require.Contains(t, out, "PTR 1 at offset 18")
	require.Contains(t, out, `name="IDD"`)
	require.NotContains(t, out, "PTR 2")
}

func TestFlagsDoNotLeakBetweenRuns(t *testing.T) {
	logPath := writeLog(t)
	require.Contains(t, run(t, "coords", logPath, "--format", "yaml"), "site: \"2\"")

	out := run(t, "coords", logPath)
	require.Contains(t, out, `"site": "2"`)
	require.NotContains(t, out, "site: ")
}

func TestCoordsMax(t *testing.T) {
	src := testutil.Stream(
		testutil.Record(50, 30, []byte("X:1 Y:1 Site:0")),
		testutil.Record(50, 30, []byte("X:2 Y:1 Site:1")),
		testutil.Record(50, 30, []byte("X:3 Y:1 Site:0")),
	)
	path := filepath.Join(t.TempDir(), "lot.std")
	require.NoError(t, os.WriteFile(path, src, 0o600))

	out := run(t, "coords", path, "--max", "2")
	require.Contains(t, out, `"x": 2`)
	require.NotContains(t, out, `"x": 3`)
}
