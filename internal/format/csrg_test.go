package format

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapmerge/internal/mapping"
)

func TestCSRG_RoundTrip(t *testing.T) {
	in := "a net/minecraft/Foo\n" +
		"a$b net/minecraft/Foo$Bar\n" +
		"c net/minecraft/Baz\n" +
		"a d count\n" +
		"c e name\n" +
		"a f (La$b;)V update\n" +
		"a g ()I size\n"

	s, err := ReadCSRG(strings.NewReader(in), "test.csrg", "obf", "spigot")
	require.NoError(t, err)

	out, err := Encode(KindCSRG, s)
	require.NoError(t, err)

	if diff := cmp.Diff(in, string(out)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCSRG_SortsAndSkipsPackages(t *testing.T) {
	in := "# header\n" +
		"a g ()I size\n" +
		"./ net/minecraft/server/\n" +
		"c e name\n" +
		"c net/minecraft/Baz\n" +
		"a net/minecraft/Foo # the foo\n"

	s, err := ReadCSRG(strings.NewReader(in), "", "obf", "spigot")
	require.NoError(t, err)

	out, err := Encode(KindCSRG, s)
	require.NoError(t, err)

	want := "a net/minecraft/Foo\n" +
		"c net/minecraft/Baz\n" +
		"c e name\n" +
		"a g ()I size\n"

	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestCSRG_MemberOwnerIsImplicit(t *testing.T) {
	s, err := ReadCSRG(strings.NewReader("x y z\n"), "", "obf", "spigot")
	require.NoError(t, err)

	c, ok := s.Class("x")
	require.True(t, ok)
	assert.False(t, c.Explicit)

	f, ok := c.Field(mapping.FieldSignature{Name: "y"})
	require.True(t, ok)
	assert.Equal(t, "z", f.To)

	out, err := Encode(KindCSRG, s)
	require.NoError(t, err)
	assert.Equal(t, "x y z\n", string(out))
}

func TestCSRG_Errors(t *testing.T) {
	for _, in := range []string{"a\n", "a b c d e\n", "a b c d\n"} {
		_, err := ReadCSRG(strings.NewReader(in), "bad.csrg", "obf", "spigot")

		var fe *FormatError
		require.True(t, errors.As(err, &fe), "input %q: got %v", in, err)
		assert.Equal(t, 1, fe.Line)
	}
}

func TestWriteFile_Atomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.tiny")

	s := mapping.NewSet("obf", "named")
	s.CreateClass("a", "Foo")

	require.NoError(t, WriteFile(path, KindTiny, s))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "tiny\t2\t0\tobf\tnamed\nc\ta\tFoo\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is gone")

	back, err := ReadFile(path, KindTiny, "obf", "named")
	require.NoError(t, err)
	assert.True(t, s.Equal(back))

	assert.Error(t, WriteFile(path, KindProguard, s))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Tiny2")
	require.NoError(t, err)
	assert.Equal(t, KindTiny, k)

	_, err = ParseKind("srg")
	assert.Error(t, err)

	assert.Equal(t, KindCSRG, KindFromPath("bukkit-cl.csrg"))
	assert.Equal(t, "proguard", KindProguard.String())
}

func TestEncodeClassNameChanges(t *testing.T) {
	data, err := EncodeClassNameChanges(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	data, err = EncodeClassNameChanges([]mapping.ClassNameChange{{ObfName: "a/Foo", DeobfName: "a/foo"}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"obfName":"a/Foo","deobfName":"a/foo"}]`, string(data))
}
