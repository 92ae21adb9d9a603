package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zarlcorp/zrows/internal/cli"
	"github.com/zarlcorp/zrows/internal/dataset"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func lineCount(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Count(string(data), "\n")
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "zrows test\n", out)
}

func TestGenerate_Plain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	out, logs, err := execute(t, "generate", path, "--rows", "250", "--batch-size", "100", "--seed", "1", "--plain")
	require.NoError(t, err)

	assert.Contains(t, out, "wrote 250 rows to "+path)
	assert.Contains(t, out, "3 batches")
	assert.Contains(t, logs, "msg=generating")
	assert.Equal(t, 3, strings.Count(logs, "msg=\"batch written\""), "one log line per batch")
	assert.Contains(t, logs, "run=", "log lines carry a run id")

	assert.Equal(t, 251, lineCount(t, path))
}

func TestGenerate_InvalidRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	_, _, err := execute(t, "generate", path, "--rows", "0", "--plain")
	require.ErrorIs(t, err, dataset.ErrInvalidArgument)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no file should be created")
}

func TestGenerate_MissingRows(t *testing.T) {
	_, _, err := execute(t, "generate", filepath.Join(t.TempDir(), "out.csv"), "--plain")
	require.ErrorIs(t, err, dataset.ErrInvalidArgument)
}

func TestGenerate_InvalidBatchSize(t *testing.T) {
	_, _, err := execute(t, "generate", filepath.Join(t.TempDir(), "out.csv"), "-n", "10", "-b", "-5", "--plain")
	require.ErrorIs(t, err, dataset.ErrInvalidArgument)
}

func TestGenerate_UnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.csv")
	_, _, err := execute(t, "generate", path, "-n", "10", "--plain")
	require.ErrorIs(t, err, dataset.ErrIO)
}

func TestGenerate_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	fromConfig := filepath.Join(dir, "from-config.csv")
	cfgPath := filepath.Join(dir, "run.yaml")
	cfg := "file_path: " + fromConfig + "\ntotal_rows: 40\nbatch_size: 15\ndelimiter: \";\"\nseed: 9\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	_, _, err := execute(t, "generate", "--config", cfgPath, "--plain")
	require.NoError(t, err)
	assert.Equal(t, 41, lineCount(t, fromConfig))

	data, err := os.ReadFile(fromConfig)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "id;name;age;"), "delimiter from config")

	// flags and the positional path win over the file
	override := filepath.Join(dir, "override.csv")
	_, _, err = execute(t, "generate", override, "--config", cfgPath, "--rows", "7", "--plain")
	require.NoError(t, err)
	assert.Equal(t, 8, lineCount(t, override))
}

func TestGenerate_SeedIsReproducible(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")

	_, _, err := execute(t, "generate", a, "-n", "30", "--seed", "5", "--plain")
	require.NoError(t, err)
	_, _, err = execute(t, "generate", b, "-n", "30", "--seed", "5", "--plain")
	require.NoError(t, err)

	da, err := os.ReadFile(a)
	require.NoError(t, err)
	db, err := os.ReadFile(b)
	require.NoError(t, err)

	// register_time follows the wall clock, so compare everything else
	assert.Equal(t, stripTimes(string(da)), stripTimes(string(db)))
}

func stripTimes(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		cols := strings.Split(line, ",")
		if len(cols) == 8 {
			cols[5] = ""
		}
		lines[i] = strings.Join(cols, ",")
	}
	return strings.Join(lines, "\n")
}

func TestGenerateThenVerify_LZ4(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv.lz4")

	_, _, err := execute(t, "generate", path, "-n", "500", "-b", "64", "--compress", "lz4", "-d", "tab", "--plain")
	require.NoError(t, err)

	out, _, err := execute(t, "verify", path, "-d", "tab", "-n", "500")
	require.NoError(t, err)
	assert.Equal(t, "ok: 500 rows in "+path+"\n", out)
}

func TestVerify_ReportsProblems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	content := "id,name,age,email,phone,register_time,salary,address\n" +
		"1,ZhangWei,99,zhangwei1234@qq.com,13800138000,2020-01-02 03:04:05,12345.67,Beijing abcDEF1234\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	out, _, err := execute(t, "verify", path)
	require.ErrorIs(t, err, cli.ErrVerifyFailed)
	assert.Contains(t, out, "line 2: age")
}

func TestVerify_NonASCIIDelimiter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	_, _, err := execute(t, "generate", path, "-n", "5", "--plain")
	require.NoError(t, err)

	_, _, err = execute(t, "verify", path, "-d", "é")
	require.ErrorIs(t, err, dataset.ErrInvalidArgument)
}

func TestVerify_RowCountMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	_, _, err := execute(t, "generate", path, "-n", "20", "--plain")
	require.NoError(t, err)

	out, _, err := execute(t, "verify", path, "-n", "21")
	require.ErrorIs(t, err, cli.ErrVerifyFailed)
	assert.Contains(t, out, "found 20 rows, want 21")
}

func TestRows_Window(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	_, _, err := execute(t, "generate", path, "-n", "300", "-b", "64", "-d", ";", "--seed", "2", "--plain")
	require.NoError(t, err)

	out, logs, err := execute(t, "rows", path, "-d", ";", "--from", "151", "--count", "3", "--total")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "id;name;age;email;phone;register_time;salary;address", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "151;"))
	assert.True(t, strings.HasPrefix(lines[3], "153;"))
	assert.Equal(t, "300 rows in "+path+"\n", logs)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), lines[2]+"\n", "window rows match the file")
}

func TestRows_JSONClipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	_, _, err := execute(t, "generate", path, "-n", "10", "--plain")
	require.NoError(t, err)

	out, _, err := execute(t, "rows", path, "--from", "9", "--count", "5", "--json")
	require.NoError(t, err)

	var rows []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "9", rows[0]["id"])
	assert.Equal(t, "10", rows[1]["id"])
}

func TestRows_InvalidWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	_, _, err := execute(t, "generate", path, "-n", "5", "--plain")
	require.NoError(t, err)

	_, _, err = execute(t, "rows", path, "--from", "0")
	require.ErrorIs(t, err, dataset.ErrInvalidArgument)

	_, _, err = execute(t, "rows", path, "--count", "-1")
	require.ErrorIs(t, err, dataset.ErrInvalidArgument)

	_, _, err = execute(t, "rows", path+".missing")
	require.ErrorIs(t, err, dataset.ErrIO)
}

func TestSample_CSV(t *testing.T) {
	out, _, err := execute(t, "sample", "-n", "3", "--seed", "1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "id,name,age,email,phone,register_time,salary,address", lines[0])
	assert.True(t, strings.HasPrefix(lines[3], "3,"))
}

func TestSample_JSON(t *testing.T) {
	out, _, err := execute(t, "sample", "-n", "2", "--json")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.EqualValues(t, 1, rows[0]["id"])
	assert.Contains(t, rows[1], "register_time")
}

func TestSample_JSONStreamsArray(t *testing.T) {
	out, _, err := execute(t, "sample", "-n", "40", "--seed", "3", "--json")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 40)
	for i, row := range rows {
		assert.EqualValues(t, i+1, row["id"])
	}

	one, _, err := execute(t, "sample", "-n", "1", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(one), &rows))
	assert.Len(t, rows, 1)
}

func TestSample_CSVManyRows(t *testing.T) {
	out, _, err := execute(t, "sample", "-n", "2000", "--seed", "4")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2001)
	assert.True(t, strings.HasPrefix(lines[2000], "2000,"))
}

func TestSample_InvalidRows(t *testing.T) {
	_, _, err := execute(t, "sample", "-n", "0")
	require.Error(t, err)
}
