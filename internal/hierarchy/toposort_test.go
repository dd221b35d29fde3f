package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuperTypesFirst_Order(t *testing.T) {
	order, blocked := superTypesFirst(map[string][]string{
		"x/C": {"x/B", "x/I"},
		"x/B": {"x/A"},
		"x/A": {ObjectClass},
		"x/I": nil,
	})

	assert.Empty(t, blocked)
	assert.Equal(t, []string{"x/A", "x/B", "x/I", "x/C"}, order)
}

func TestSuperTypesFirst_Cycle(t *testing.T) {
	order, blocked := superTypesFirst(map[string][]string{
		"x/A": {"x/B"},
		"x/B": {"x/A"},
		"x/C": {"x/A"},
		"x/D": nil,
	})

	assert.Equal(t, []string{"x/D"}, order)
	assert.Equal(t, []string{"x/A", "x/B", "x/C"}, blocked)
}

func TestSuperTypesFirst_Empty(t *testing.T) {
	order, blocked := superTypesFirst(nil)
	assert.Empty(t, order)
	assert.Nil(t, blocked)
}
