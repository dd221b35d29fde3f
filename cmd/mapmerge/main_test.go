package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()

	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csrg", "a x/Foo\na b count\n")
	out := filepath.Join(dir, "out.tiny")

	stdout, err := execute(t, "convert", "--from", "official", "--to", "spigot", in, out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "tiny\t2\t0\tofficial\tspigot\nc\ta\tx/Foo\n\tf\t\tb\tcount\n", string(data))
}

func TestReverseCommand_Report(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.tiny", "tiny\t2\t0\tofficial\tspigot\nc\ta\tx/Foo\n")
	out := filepath.Join(dir, "out.csrg")
	report := filepath.Join(dir, "report.yaml")

	_, err := execute(t, "reverse", "--report", report, "--from", "official", "--to", "spigot", in, out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "x/Foo a\n", string(data))

	data, err = os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), "useCase: reverse")
}

func TestConvertCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csrg", "a x/Foo\n")

	_, err := execute(t, "convert", "--from", "official", "--to", "spigot", "--input-format", "srg2", in, filepath.Join(dir, "out.tiny"))
	assert.ErrorContains(t, err, "unknown mapping format")

	_, err = execute(t, "convert", "--from", "official", in, filepath.Join(dir, "out.tiny"))
	assert.ErrorContains(t, err, "required flag")

	_, err = execute(t, "convert", "--from", "official", "--to", "spigot", in)
	assert.Error(t, err)
}

func TestRequiredFlags(t *testing.T) {
	for _, name := range []string{
		"generate-mappings",
		"generate-spigot-mappings",
		"cleanup-mappings",
		"cleanup-source-mappings",
		"generate-reobf-mappings",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, name)
			assert.ErrorContains(t, err, "required flag")
		})
	}
}

func TestMissingConfig(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csrg", "a x/Foo\n")

	_, err := execute(t, "--config", filepath.Join(dir, "nope.yaml"), "convert", "--from", "official", "--to", "spigot", in, filepath.Join(dir, "out.tiny"))
	assert.ErrorContains(t, err, "reading config")
}
