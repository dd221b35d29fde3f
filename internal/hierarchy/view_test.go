package hierarchy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hydrateTestGraph(t *testing.T) *View {
	t.Helper()

	v, err := Hydrate(loadTestGraph(t), DefaultOptions())
	require.NoError(t, err)

	return v
}

func TestHydrate_BridgeInference(t *testing.T) {
	v := hydrateTestGraph(t)

	child, err := v.Lookup("a/Child")
	require.NoError(t, err)

	bridge := child.Method("b", "(Ljava/lang/Object;)Ljava/lang/Object;")
	target, ok := v.BridgeTarget("a/Child", bridge)
	require.True(t, ok)
	assert.Equal(t, MemberRef{Name: "b", Desc: "(Ljava/lang/String;)Ljava/lang/String;"}, target)

	impl := child.Method("b", "(Ljava/lang/String;)Ljava/lang/String;")
	assert.Equal(t, []MemberRef{bridge.Ref()}, v.BridgesOf("a/Child", impl))

	_, ok = v.BridgeTarget("a/Child", impl)
	assert.False(t, ok)
}

func TestHydrate_BridgeHint(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.Add(RootProgram, &ClassData{
		Name: "x/A",
		Methods: []*MethodData{
			{Name: "get", Desc: "()Ljava/lang/Object;", Access: AccBridge | AccSynthetic,
				BridgeTarget: &MemberRef{Name: "get", Desc: "()Lx/A;"}},
			{Name: "get", Desc: "()Lx/A;"},
			{Name: "get", Desc: "()Lx/B;"},
		},
	}))

	v, err := Hydrate(g, DefaultOptions())
	require.NoError(t, err)

	a, _ := g.Lookup("x/A")
	target, ok := v.BridgeTarget("x/A", a.Methods[0])
	require.True(t, ok)
	assert.Equal(t, "()Lx/A;", target.Desc)
}

func TestHydrate_AmbiguousBridge(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.Add(RootProgram, &ClassData{
		Name: "x/A",
		Methods: []*MethodData{
			{Name: "get", Desc: "()Ljava/lang/Object;", Access: AccBridge},
			{Name: "get", Desc: "()Lx/A;"},
			{Name: "get", Desc: "()Lx/B;"},
		},
	}, &ClassData{Name: "x/B"}))

	v, err := Hydrate(g, DefaultOptions())
	require.NoError(t, err)

	a, _ := g.Lookup("x/A")
	_, ok := v.BridgeTarget("x/A", a.Methods[0])
	assert.False(t, ok)
}

func TestHydrate_SuperConstructor(t *testing.T) {
	v := hydrateTestGraph(t)

	child, err := v.Lookup("a/Child")
	require.NoError(t, err)

	sc, ok := v.SuperConstructor("a/Child", child.Method("<init>", "(I)V"))
	require.True(t, ok)
	assert.Equal(t, "a/Base", sc.Owner)
	assert.Equal(t, map[int]int{1: 1}, sc.Args)

	inner, err := v.Lookup("a/Child$Inner")
	require.NoError(t, err)

	_, ok = v.SuperConstructor("a/Child$Inner", inner.Methods[0])
	assert.False(t, ok, "Object has no matching constructor")
}

func TestHydrate_SuperCallHint(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.Add(RootProgram,
		&ClassData{Name: "x/A", Methods: []*MethodData{{Name: "<init>", Desc: "(JI)V"}}},
		&ClassData{Name: "x/B", Super: "x/A", Methods: []*MethodData{{
			Name:      "<init>",
			Desc:      "(IJ)V",
			SuperCall: &SuperCall{Desc: "(JI)V", Args: map[int]int{1: 3, 2: 1}},
		}}},
	))

	v, err := Hydrate(g, DefaultOptions())
	require.NoError(t, err)

	b, _ := g.Lookup("x/B")
	sc, ok := v.SuperConstructor("x/B", b.Methods[0])
	require.True(t, ok)
	assert.Equal(t, "x/A", sc.Owner)
	assert.Equal(t, map[int]int{1: 3, 2: 1}, sc.Args)
}

func TestView_SuperTypes(t *testing.T) {
	v := hydrateTestGraph(t)

	supers, err := v.SuperTypes("a/Child")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/Base", ObjectClass, "lib/Tickable"}, supers)

	// cached
	again, err := v.SuperTypes("a/Child")
	require.NoError(t, err)
	assert.Equal(t, supers, again)

	assert.True(t, v.IsProgram("a/Child"))
	assert.False(t, v.IsProgram(ObjectClass))
}

func TestView_OverriddenMethods(t *testing.T) {
	v := hydrateTestGraph(t)

	child, err := v.Lookup("a/Child")
	require.NoError(t, err)

	got, err := v.OverriddenMethods("a/Child", child.Method("a", "()V"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a/Base", got[0].Class)

	// the real method overrides through its bridge descriptor
	got, err = v.OverriddenMethods("a/Child", child.Method("b", "(Ljava/lang/String;)Ljava/lang/String;"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "(Ljava/lang/Object;)Ljava/lang/Object;", got[0].Method.Desc)

	got, err = v.OverriddenMethods("a/Child", child.Method("c", "()V"))
	require.NoError(t, err)
	assert.Empty(t, got, "private methods do not override")

	got, err = v.OverriddenMethods("a/Child", child.Method("<init>", "(I)V"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHydrate_Cycle(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.Add(RootProgram,
		&ClassData{Name: "x/A", Super: "x/B"},
		&ClassData{Name: "x/B", Super: "x/A"},
		&ClassData{Name: "x/C", Super: "x/A"},
	))

	_, err := Hydrate(g, DefaultOptions())

	var cycle *CycleError
	require.True(t, errors.As(err, &cycle), "got %v", err)
	assert.Equal(t, []string{"x/A", "x/B"}, cycle.Classes)
}

func TestHydrate_MissingSuperType(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.Add(RootProgram,
		&ClassData{Name: "x/A", Super: "lib/Missing", Methods: []*MethodData{{Name: "<init>", Desc: "()V"}}},
		&ClassData{Name: "lib/Misssing", Super: ObjectClass},
	))

	_, err := Hydrate(g, DefaultOptions())

	var miss *LookupMissError
	require.True(t, errors.As(err, &miss), "got %v", err)
	assert.Equal(t, "lib/Missing", miss.Name)
	assert.Equal(t, "x/A", miss.Referrer)
	assert.Contains(t, miss.Suggestions, "lib/Misssing")

	opts := DefaultOptions()
	opts.RequireFullClasspath = false

	v, err := Hydrate(g, opts)
	require.NoError(t, err)

	supers, err := v.SuperTypes("x/A")
	require.NoError(t, err)
	assert.Empty(t, supers)
}

func TestView_Suggest(t *testing.T) {
	v := hydrateTestGraph(t)
	assert.Contains(t, v.Suggest("a/Bsae"), "a/Base")
}

func TestView_OverriddenMethods_PackagePrivate(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.Add(RootProgram,
		&ClassData{Name: "a/Base", Methods: []*MethodData{
			{Name: "m", Desc: "()V"},
			{Name: "p", Desc: "()V", Access: AccProtected},
		}},
		&ClassData{Name: "a/Same", Super: "a/Base", Methods: []*MethodData{
			{Name: "m", Desc: "()V"},
		}},
		&ClassData{Name: "b/Other", Super: "a/Base", Methods: []*MethodData{
			{Name: "m", Desc: "()V", Access: AccPublic},
			{Name: "p", Desc: "()V", Access: AccPublic},
		}},
	))

	v, err := Hydrate(g, DefaultOptions())
	require.NoError(t, err)

	same, _ := g.Lookup("a/Same")
	got, err := v.OverriddenMethods("a/Same", same.Method("m", "()V"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a/Base", got[0].Class)

	other, _ := g.Lookup("b/Other")
	got, err = v.OverriddenMethods("b/Other", other.Method("m", "()V"))
	require.NoError(t, err)
	assert.Empty(t, got, "package-private methods are not visible from another package")

	got, err = v.OverriddenMethods("b/Other", other.Method("p", "()V"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a/Base", got[0].Class)
}
