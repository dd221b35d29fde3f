package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapmerge/internal/complete"
	"mapmerge/internal/format"
	"mapmerge/internal/hierarchy"
	"mapmerge/internal/mapping"
)

func TestReadTable(t *testing.T) {
	dir := t.TempDir()

	path := write(t, dir, "table.txt", lines(
		"# header",
		"",
		"a b c # trailing",
		"d e f g",
	))

	rows, err := readTable(path, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b", "c"}, {"d", "e", "f", "g"}}, rows)

	short := write(t, dir, "short.txt", lines("a b c", "d e"))

	_, err = readTable(short, 3)

	var fe *format.FormatError
	require.True(t, errors.As(err, &fe), "got %v", err)
	assert.Equal(t, 2, fe.Line)

	_, err = readTable(filepath.Join(dir, "missing.txt"), 1)
	assert.Error(t, err)
}

func TestReadParamIndexes(t *testing.T) {
	dir := t.TempDir()

	path := write(t, dir, "params.txt", lines(
		"x/Foo run (JI)V 1 0 3 1",
		"x/Foo stop ()V",
	))

	table, err := readParamIndexes(path)
	require.NoError(t, err)

	assert.Equal(t, map[int]int{1: 0, 3: 1}, table[complete.MethodTarget("x/Foo", "run", "(JI)V")])
	assert.Empty(t, table[complete.MethodTarget("x/Foo", "stop", "()V")])

	odd := write(t, dir, "odd.txt", lines("x/Foo run (JI)V 1"))
	_, err = readParamIndexes(odd)
	assert.ErrorContains(t, err, "odd index list")

	bad := write(t, dir, "bad.txt", lines("x/Foo run (JI)V 1 x"))
	_, err = readParamIndexes(bad)
	assert.Error(t, err)
}

func TestParamIndexTable_Chain(t *testing.T) {
	set := mapping.NewSet("official", "named")
	m := set.CreateClass("x/Foo", "x/Foo").CreateMethod(mapping.MethodSignature{Name: "run", Desc: "(JI)V"}, "run")
	m.CreateParam(1, "", "time")
	m.CreateParam(3, "", "count")

	table := ParamIndexTable{
		complete.MethodTarget("x/Foo", "run", "(JI)V"): {1: 0, 3: 1},
	}

	view, err := hierarchy.Hydrate(hierarchy.NewGraph(), hierarchy.DefaultOptions())
	require.NoError(t, err)

	out, err := complete.NewChain().AddLink(table).Apply(context.Background(), set, view, complete.Options{Parallelism: 1})
	require.NoError(t, err)

	got := methodOf(t, out, "x/Foo", "run", "(JI)V")
	assert.Equal(t, map[int]string{0: "time", 1: "count"}, paramsOf(got))

	assert.Equal(t, map[int]string{1: "time", 3: "count"}, paramsOf(m), "input untouched")
}

func TestReadSynths(t *testing.T) {
	path := write(t, t.TempDir(), "synths.txt", lines("a ()V access$0 run"))

	synths, err := readSynths(path)
	require.NoError(t, err)

	synth, ok := synths.Synth("a", "()V", "run")
	require.True(t, ok)
	assert.Equal(t, "access$0", synth)

	base, ok := synths.Base("a", "()V", "access$0")
	require.True(t, ok)
	assert.Equal(t, "run", base)
}

func TestReadPackage(t *testing.T) {
	dir := t.TempDir()

	pkg, err := readPackage(write(t, dir, "pkg.csrg", lines("./ net/minecraft/server", "x/ y/")))
	require.NoError(t, err)
	assert.Equal(t, "net/minecraft/server/", pkg)

	_, err = readPackage(write(t, dir, "empty.csrg", "# nothing\n"))
	assert.ErrorContains(t, err, "no entries")
}

func TestInjectLoggerFields(t *testing.T) {
	path := write(t, t.TempDir(), "loggers.txt", lines("a e", "zz f"))

	set := mapping.NewSet("official", "spigot")
	set.CreateClass("a", "Foo")

	n, err := injectLoggerFields(path, set)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	a, _ := set.Class("a")
	f, ok := a.Field(mapping.FieldSignature{Name: "e", Type: LoggerType})
	require.True(t, ok)
	assert.Equal(t, LoggerName, f.To)

	_, ok = set.Class("zz")
	assert.False(t, ok)
}

func TestSpigotFieldMappings(t *testing.T) {
	source := mapping.NewSet("official", "named")
	source.CreateClass("a", "net/world/Foo").CreateField(mapping.FieldSignature{Name: "if", Type: "I"}, "ready")
	source.CreateClass("a$b", "net/world/Foo$Entry").CreateField(mapping.FieldSignature{Name: "c", Type: "J"}, "time")
	source.CreateClass("d", "net/world/Bar").CreateField(mapping.FieldSignature{Name: "do", Type: "Z"}, "enabled")

	classes := mapping.NewSet("official", "spigot")
	classes.CreateClass("a", "Foo")
	classes.CreateClass("a$b", "Foo$Inner")

	out := spigotFieldMappings(source, classes, "spigot")

	from, to := out.Namespaces()
	assert.Equal(t, "spigot", from)
	assert.Equal(t, "named", to)

	foo, ok := out.Class("Foo")
	require.True(t, ok)

	f, ok := foo.Field(mapping.FieldSignature{Name: "if_", Type: "I"})
	require.True(t, ok)
	assert.Equal(t, "ready", f.To)

	inner, ok := out.Class("Foo$Inner")
	require.True(t, ok)
	require.Len(t, inner.FieldsNamed("c"), 1)
	assert.Equal(t, "time", inner.FieldsNamed("c")[0].To)

	bar, ok := out.Class("net/world/Bar")
	require.True(t, ok)
	require.Len(t, bar.FieldsNamed("do_"), 1)
}
