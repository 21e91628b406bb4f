package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsontab/internal/config"
	apperrors "jsontab/internal/errors"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestConvert_SimpleObject(t *testing.T) {
	var buf bytes.Buffer
	err := convert([]byte(`{"name":"John","age":30,"active":true}`), config.NewConfig(), &buf)
	require.NoError(t, err)

	assert.Equal(t, "name,age,active\nJohn,30,true\n", buf.String())
}

func TestConvert_ArrayOfRecords(t *testing.T) {
	src := `[{"event_id":10,"user":{"id":123,"country":"AT"},"tags":["ui","mobile"],"success":true},` +
		`{"event_id":11,"user":{"id":456},"success":false}]`

	var buf bytes.Buffer
	err := convert([]byte(src), config.NewConfig(), &buf)
	require.NoError(t, err)

	want := "event_id,user.id,user.country,tags,success\n" +
		"10,123,AT,ui;mobile,true\n" +
		"11,456,,,false\n"
	assert.Equal(t, want, buf.String())
}

func TestConvert_SyntaxError(t *testing.T) {
	var buf bytes.Buffer
	err := convert([]byte(`{"a":`), config.NewConfig(), &buf)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeSyntax, appErr.Type)
}

func TestConvert_SchemaError(t *testing.T) {
	for _, src := range []string{`[1,2]`, `"hello"`} {
		var buf bytes.Buffer
		err := convert([]byte(src), config.NewConfig(), &buf)
		require.Error(t, err, "input %s", src)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrorTypeSchema, appErr.Type)
		// No rows may be produced for a rejected document.
		assert.Empty(t, buf.String())
	}
}

func TestConvert_HeaderCaseFromConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Headers.Case = config.CaseSnake

	var buf bytes.Buffer
	err := convert([]byte(`{"userName":"ann"}`), cfg, &buf)
	require.NoError(t, err)

	assert.Equal(t, "user_name\nann\n", buf.String())
}

func TestConvert_EventsFixture(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "events.json"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, convert(data, config.NewConfig(), &buf))

	want := "event_id,user.id,user.country,tags,success,note,attempts\n" +
		"10,123,AT,ui;mobile,true,,\n" +
		"11,456,DE,,false,,\n" +
		"12,789,,,true,\"manual, review\",\n" +
		"13,790,null,api,true,,1;2;3\n"
	assert.Equal(t, want, buf.String())
}

func TestRun_FileToFile(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	dir := t.TempDir()
	inPath := writeFile(t, dir, "in.json", []byte(`[{"k":1},{"k":2}]`))
	outPath := filepath.Join(dir, "out.csv")

	CLI.Input = inPath
	CLI.Output = outPath
	CLI.Config = ""

	require.NoError(t, run())

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "k\n1\n2\n", string(out))
}

func TestRun_GzipInput(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	var zbuf bytes.Buffer
	zw := gzip.NewWriter(&zbuf)
	_, err := zw.Write([]byte(`{"k":"v"}`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	dir := t.TempDir()
	inPath := writeFile(t, dir, "in.json.gz", zbuf.Bytes())
	outPath := filepath.Join(dir, "out.csv")

	CLI.Input = inPath
	CLI.Output = outPath
	CLI.Config = ""

	require.NoError(t, run())

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "k\nv\n", string(out))
}

func TestRun_MissingInputFile(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Input = filepath.Join(t.TempDir(), "missing.json")
	CLI.Output = ""
	CLI.Config = ""

	err := run()
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
}

func TestRun_ExplicitConfigFile(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "jsontab.yaml", []byte("headers:\n  case: kebab\n"))
	inPath := writeFile(t, dir, "in.json", []byte(`{"userName":"ann"}`))
	outPath := filepath.Join(dir, "out.csv")

	CLI.Input = inPath
	CLI.Output = outPath
	CLI.Config = cfgPath

	require.NoError(t, run())

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "user-name\nann\n", string(out))
}
