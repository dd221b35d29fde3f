package hierarchy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestGraph(t *testing.T) *Graph {
	t.Helper()

	g := NewGraph()
	require.NoError(t, LoadFiles(g, RootProgram, "testdata/program/*.yaml", "testdata/libs/**/*.yaml"))

	return g
}

func TestLoadFiles(t *testing.T) {
	g := loadTestGraph(t)

	assert.Equal(t, []string{"a/Base", "a/Child", "a/Child$1", "a/Child$Inner"}, g.ProgramClasses())

	root, ok := g.RootOf("lib/Tickable")
	require.True(t, ok)
	assert.Equal(t, RootLibrary, root)
	assert.False(t, g.IsProgram("lib/Tickable"))

	child, err := g.Lookup("a/Child")
	require.NoError(t, err)
	assert.Equal(t, "a/Base", child.Super)
	assert.Equal(t, AccPublic, child.Access)

	bridge := child.Method("b", "(Ljava/lang/Object;)Ljava/lang/Object;")
	require.NotNil(t, bridge)
	assert.True(t, bridge.IsBridge())
	assert.True(t, bridge.IsSynthetic())

	base, err := g.Lookup("a/Base")
	require.NoError(t, err)
	assert.Equal(t, ObjectClass, base.Super, "missing superclass defaults to Object")
	require.NotNil(t, base.Field("d", ""))
}

func TestLoadFiles_MissingFile(t *testing.T) {
	err := LoadFiles(NewGraph(), RootProgram, "testdata/nope.yaml")
	assert.Error(t, err)

	// an empty glob is fine
	assert.NoError(t, LoadFiles(NewGraph(), RootProgram, "testdata/nope/*.yaml"))
}

func TestParse_UnknownAccess(t *testing.T) {
	_, err := Parse([]byte("classes:\n  - name: a\n    access: [publik]\n"))
	assert.Error(t, err)
}

func TestAccess_RoundTrip(t *testing.T) {
	a, err := ParseAccess([]string{"static", "public", "bridge"})
	require.NoError(t, err)
	assert.Equal(t, "public static bridge", a.String())

	data, err := Marshal(&ClassFile{Classes: []*ClassData{{Name: "x", Access: a}}})
	require.NoError(t, err)

	cf, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, cf.Classes, 1)
	assert.Equal(t, a, cf.Classes[0].Access)
}

func TestGraph_LookupMiss(t *testing.T) {
	g := loadTestGraph(t)

	_, err := g.Lookup("a/Chil")

	var miss *LookupMissError
	require.True(t, errors.As(err, &miss))
	assert.Equal(t, "a/Chil", miss.Name)
	assert.True(t, IsLookupMiss(err))

	assert.Contains(t, g.Suggest("a/Chil"), "a/Child")
}

func TestGraph_DuplicateInRoot(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.Add(RootLibrary, &ClassData{Name: "x/Y"}))
	assert.Error(t, g.Add(RootLibrary, &ClassData{Name: "x/Y"}))

	// program wins over library, library does not replace program
	prog := &ClassData{Name: "x/Y", Access: AccFinal}
	require.NoError(t, g.Add(RootProgram, prog))
	require.NoError(t, g.Add(RootPlatform, &ClassData{Name: "x/Y"}))

	got, err := g.Lookup("x/Y")
	require.NoError(t, err)
	assert.Same(t, prog, got)
}

func TestClassPredicates(t *testing.T) {
	g := loadTestGraph(t)

	anon, err := g.Lookup("a/Child$1")
	require.NoError(t, err)
	assert.True(t, anon.IsAnonymous())
	assert.True(t, anon.IsInnerClass())

	inner, err := g.Lookup("a/Child$Inner")
	require.NoError(t, err)
	assert.False(t, inner.IsAnonymous())
	assert.True(t, inner.IsInnerClass())

	base, err := g.Lookup("a/Base")
	require.NoError(t, err)
	assert.False(t, base.IsInnerClass())

	assert.False(t, IsAnonymousName("a/1"))
	assert.Equal(t, "Inner", SimpleName("a/Child$Inner"))
}
