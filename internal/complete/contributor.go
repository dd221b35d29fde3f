package complete

import (
	"go.uber.org/zap"

	"mapmerge/internal/diagnostic"
	"mapmerge/internal/hierarchy"
	"mapmerge/internal/mapping"
)

// Contributor inspects one class and submits changes for it.
type Contributor interface {
	Name() string
	Contribute(cc *ClassContext) error
}

// ClassContext is the state a contributor sees for one class.
type ClassContext struct {
	// Name is the full from-name of the class.
	Name string
	// Data is nil when the class is not a program class of the hierarchy.
	Data *hierarchy.ClassData
	// Mapping is nil when the set has no mapping for the class.
	Mapping *mapping.Class

	Set  *mapping.Set
	View *hierarchy.View
	Diag *diagnostic.Diagnostics
	Log  *zap.Logger

	registry *Registry
}

// Submit queues c for the end of the pass.
func (cc *ClassContext) Submit(c Change) {
	cc.registry.Submit(cc.Name, c)
}

// MappedMethod returns the mapping of the declared method m, if any.
func (cc *ClassContext) MappedMethod(m *hierarchy.MethodData) (*mapping.Method, bool) {
	if cc.Mapping == nil {
		return nil, false
	}

	return cc.Mapping.Method(mapping.MethodSignature{Name: m.Name, Desc: m.Desc})
}

// methodIn returns the mapping of name+desc in class from set.
func methodIn(set *mapping.Set, class, name, desc string) (*mapping.Method, bool) {
	c, ok := set.Class(class)
	if !ok {
		return nil, false
	}

	return c.Method(mapping.MethodSignature{Name: name, Desc: desc})
}
