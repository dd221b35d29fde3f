package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSet() *Set {
	s := NewSet("obf", "named")

	a := s.CreateClass("a", "net/Foo")
	a.CreateField(FieldSignature{Name: "b", Type: "La;"}, "self")
	a.CreateField(FieldSignature{Name: "c", Type: ""}, "untyped")

	m := a.CreateMethod(MethodSignature{Name: "d", Desc: "(La$e;[I)La;"}, "make")
	m.CreateParam(1, "", "inner")
	m.CreateParam(2, "", "values")

	s.CreateClass("a$e", "net/Foo$Bar")
	s.CreateClass("f", "net/Baz")

	return s
}

func TestReverse_Swaps(t *testing.T) {
	s := sampleSet()

	r, err := s.Reverse()
	require.NoError(t, err)

	assert.Equal(t, "named", r.FromNamespace)
	assert.Equal(t, "obf", r.ToNamespace)

	foo, ok := r.Class("net/Foo")
	require.True(t, ok)
	assert.Equal(t, "a", foo.To)

	f, ok := foo.Field(FieldSignature{Name: "self", Type: "Lnet/Foo;"})
	require.True(t, ok)
	assert.Equal(t, "b", f.To)

	_, ok = foo.Field(FieldSignature{Name: "untyped"})
	assert.True(t, ok)

	m, ok := foo.Method(MethodSignature{Name: "make", Desc: "(Lnet/Foo$Bar;[I)Lnet/Foo;"})
	require.True(t, ok)
	assert.Equal(t, "d", m.To)

	p, ok := m.Param(2)
	require.True(t, ok)
	assert.Equal(t, "values", p.From)
	assert.Empty(t, p.To)

	bar, ok := r.Class("net/Foo$Bar")
	require.True(t, ok)
	assert.Equal(t, "a$e", r.FullTo(bar))
}

func TestReverse_Idempotent(t *testing.T) {
	s := sampleSet()

	r, err := s.Reverse()
	require.NoError(t, err)

	rr, err := r.Reverse()
	require.NoError(t, err)

	assert.True(t, s.Equal(rr))
	assert.Equal(t, s.Fingerprint(), rr.Fingerprint())
}

func TestReverse_ReturnTypeMappedOnce(t *testing.T) {
	// A -> B and B -> C both exist; descriptors must not chain through both.
	s := NewSet("named", "obf")
	s.CreateClass("A", "B")
	s.CreateClass("B", "C")

	holder := s.CreateClass("H", "H")
	holder.CreateMethod(MethodSignature{Name: "get", Desc: "()LA;"}, "get")
	holder.CreateMethod(MethodSignature{Name: "all", Desc: "()[[LA;"}, "all")
	holder.CreateMethod(MethodSignature{Name: "take", Desc: "(LA;)I"}, "take")

	r, err := s.Reverse()
	require.NoError(t, err)

	h, ok := r.Class("H")
	require.True(t, ok)

	_, ok = h.Method(MethodSignature{Name: "get", Desc: "()LB;"})
	assert.True(t, ok, "object return type")

	_, ok = h.Method(MethodSignature{Name: "all", Desc: "()[[LB;"})
	assert.True(t, ok, "array return type")

	_, ok = h.Method(MethodSignature{Name: "take", Desc: "(LB;)I"})
	assert.True(t, ok, "primitive return type")
}

func TestReverse_KeepsExplicitFlag(t *testing.T) {
	s := NewSet("obf", "named")
	s.CreateClass("a$b", "A$B")

	r, err := s.Reverse()
	require.NoError(t, err)

	outer, ok := r.Class("A")
	require.True(t, ok)
	assert.False(t, outer.Explicit)

	inner, ok := r.Class("A$B")
	require.True(t, ok)
	assert.True(t, inner.Explicit)
}

func TestReverse_BadDescriptor(t *testing.T) {
	s := NewSet("obf", "named")
	s.CreateClass("a", "A").CreateMethod(MethodSignature{Name: "m", Desc: "nope"}, "n")

	_, err := s.Reverse()
	assert.Error(t, err)
}
