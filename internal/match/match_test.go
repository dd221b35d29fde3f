package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"net/minecraft/world/Entity", "entity"},
		{"net/minecraft/world/Entity$Pos", "entitypos"},
		{"Entity", "entity"},
		{"MAX_VALUE", "maxvalue"},
		{"a/b/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.input))
		})
	}
}

func TestPackageOf(t *testing.T) {
	assert.Equal(t, "net/minecraft", PackageOf("net/minecraft/Foo"))
	assert.Equal(t, "", PackageOf("Foo"))
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("a/Foo", "a/Foo"), 0.0001)
	assert.InDelta(t, 0.0, Similarity("", "a/Foo"), 0.0001)
	assert.GreaterOrEqual(t, Similarity("a/FooBar", "b/foo_bar"), 0.99)
	assert.Greater(t, Similarity("net/Entity", "net/Entiti"), Similarity("net/Entity", "net/Block"))
}

func TestSuggest(t *testing.T) {
	pool := []string{
		"net/minecraft/world/Entity",
		"net/minecraft/world/Entity$Pos",
		"other/Entity",
		"net/minecraft/world/Block",
	}

	got := Suggest("net/minecraft/world/Entityy", pool, DefaultThreshold, 2)
	if assert.Len(t, got, 2) {
		assert.Equal(t, "net/minecraft/world/Entity", got[0].Name)
		assert.True(t, got[0].SamePackage)
	}

	assert.Nil(t, Suggest("", pool, DefaultThreshold, 3))
	assert.Nil(t, Suggest("x", pool, DefaultThreshold, 0))
	assert.Empty(t, Suggest("zzzzzz", pool, DefaultThreshold, 3))
}

func TestCandidateListNames(t *testing.T) {
	cl := CandidateList{{Name: "a"}, {Name: "b"}}
	assert.Equal(t, []string{"a", "b"}, cl.Names())
}
