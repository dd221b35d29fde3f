package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"b": 1, "c": 2, "a": 3}
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(m))
	assert.Empty(t, SortedKeys(map[int]bool{}))
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Dedupe([]string{"a", "b", "a", "c", "b"}))
	assert.Equal(t, []int{1}, Dedupe([]int{1}))
}

func TestFirst(t *testing.T) {
	v, ok := First([]int{4, 5})
	assert.True(t, ok)
	assert.Equal(t, 4, v)

	_, ok = First([]int(nil))
	assert.False(t, ok)
	assert.True(t, IsEmpty([]int(nil)))
}
