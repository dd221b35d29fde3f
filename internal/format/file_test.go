package format

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

func TestWriteAll(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.tiny")
	b := filepath.Join(dir, "nested", "b.csrg")

	require.NoError(t, os.WriteFile(a, []byte("old\n"), 0o644))
	require.NoError(t, WriteAll(map[string][]byte{a: []byte("new a\n"), b: []byte("new b\n")}))

	assert.Equal(t, "new a\n", readFile(t, a))
	assert.Equal(t, "new b\n", readFile(t, b))
}

func TestWriteAll_NothingReplacedOnFailure(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.tiny")
	blocker := filepath.Join(dir, "block")

	require.NoError(t, os.WriteFile(a, []byte("old\n"), 0o644))
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := WriteAll(map[string][]byte{
		a:                                []byte("new\n"),
		filepath.Join(blocker, "b.csrg"): []byte("never\n"),
	})
	require.Error(t, err)

	assert.Equal(t, "old\n", readFile(t, a))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}

	assert.Equal(t, []string{"a.tiny", "block"}, names, "temp files are removed")
}
