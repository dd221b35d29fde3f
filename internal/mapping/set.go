package mapping

import (
	"fmt"
	"slices"
	"strings"
)

// Set is a mapping set between two namespaces.
type Set struct {
	FromNamespace string
	ToNamespace   string

	classes []*Class // arena, nil slots are removed classes
	top     map[string]ClassID
}

// NewSet creates an empty mapping set from one namespace to another.
func NewSet(from, to string) *Set {
	return &Set{
		FromNamespace: from,
		ToNamespace:   to,
		top:           make(map[string]ClassID),
	}
}

// Namespaces returns the (from, to) namespace pair.
func (s *Set) Namespaces() (string, string) {
	return s.FromNamespace, s.ToNamespace
}

func (s *Set) alloc(parent ClassID, from, to string) *Class {
	c := newClass(ClassID(len(s.classes)), parent, from, to)
	s.classes = append(s.classes, c)

	return c
}

// ByID returns the class stored under id, or nil if it was removed.
func (s *Set) ByID(id ClassID) *Class {
	if id < 0 || int(id) >= len(s.classes) {
		return nil
	}

	return s.classes[id]
}

// Parent returns the outer class mapping of c, or nil for top-level classes.
func (s *Set) Parent(c *Class) *Class {
	if c.IsTopLevel() {
		return nil
	}

	return s.ByID(c.Parent)
}

// CreateTopLevelClass creates or updates the top-level class mapping keyed
// by from. The returned class is marked explicit.
func (s *Set) CreateTopLevelClass(from, to string) *Class {
	if id, ok := s.top[from]; ok {
		c := s.classes[id]
		c.To = to
		c.Explicit = true

		return c
	}

	c := s.alloc(NoParent, from, to)
	c.Explicit = true
	s.top[from] = c.ID

	return c
}

// CreateInnerClass creates or updates the inner class mapping keyed by the
// simple name from beneath parent. The returned class is marked explicit.
func (s *Set) CreateInnerClass(parent *Class, from, to string) *Class {
	if id, ok := parent.inner[from]; ok {
		c := s.classes[id]
		c.To = to
		c.Explicit = true

		return c
	}

	c := s.alloc(parent.ID, from, to)
	c.Explicit = true
	parent.inner[from] = c.ID

	return c
}

// TopLevelClass returns the top-level class mapping keyed by from.
func (s *Set) TopLevelClass(from string) (*Class, bool) {
	id, ok := s.top[from]
	if !ok {
		return nil, false
	}

	return s.classes[id], true
}

// InnerClass returns the inner class mapping of parent keyed by the simple name from.
func (s *Set) InnerClass(parent *Class, from string) (*Class, bool) {
	id, ok := parent.inner[from]
	if !ok {
		return nil, false
	}

	return s.classes[id], true
}

// Class returns the class mapping for a full from-name such as "a/b$c".
// A top-level class whose name contains '$' is found by exact match first.
func (s *Set) Class(fullFrom string) (*Class, bool) {
	if c, ok := s.TopLevelClass(fullFrom); ok {
		return c, true
	}

	outer, inner, ok := splitInner(fullFrom)
	if !ok {
		return nil, false
	}

	parent, ok := s.Class(outer)
	if !ok {
		return nil, false
	}

	return s.InnerClass(parent, inner)
}

// GetOrCreateClass returns the class mapping for a full from-name, creating
// it and any missing outer classes as implicit identity mappings.
func (s *Set) GetOrCreateClass(fullFrom string) *Class {
	if c, ok := s.Class(fullFrom); ok {
		return c
	}

	outer, inner, ok := splitInner(fullFrom)
	if !ok {
		c := s.alloc(NoParent, fullFrom, fullFrom)
		s.top[fullFrom] = c.ID

		return c
	}

	parent := s.GetOrCreateClass(outer)
	c := s.alloc(parent.ID, inner, inner)
	parent.inner[inner] = c.ID

	return c
}

// CreateClass creates or updates the class mapping for a full from-name and
// a full to-name, marking it explicit. Implicit outer classes that are still
// identity mappings take their to-names from the matching prefix of fullTo.
func (s *Set) CreateClass(fullFrom, fullTo string) *Class {
	c := s.GetOrCreateClass(fullFrom)
	c.Explicit = true

	if c.IsTopLevel() {
		c.To = fullTo
		return c
	}

	toOuter, toInner, ok := splitInner(fullTo)
	if !ok {
		c.To = fullTo
		return c
	}

	c.To = toInner

	for p := s.Parent(c); p != nil; p = s.Parent(p) {
		if p.IsTopLevel() {
			if !p.Explicit && !p.IsRenamed() {
				p.To = toOuter
			}

			break
		}

		var seg string
		if toOuter, seg, ok = splitInner(toOuter); !ok {
			break
		}

		if !p.Explicit && !p.IsRenamed() {
			p.To = seg
		}
	}

	return c
}

// FullFrom returns the full from-name of c ("outer$inner").
func (s *Set) FullFrom(c *Class) string {
	if c.IsTopLevel() {
		return c.From
	}

	return s.FullFrom(s.classes[c.Parent]) + "$" + c.From
}

// FullTo returns the full to-name of c.
func (s *Set) FullTo(c *Class) string {
	if c.IsTopLevel() {
		return c.To
	}

	return s.FullTo(s.classes[c.Parent]) + "$" + c.To
}

// MapClassName maps a full class name through the set. When the class itself
// has no mapping its outer part is still mapped, so "a$1" becomes "b$1" if
// only "a -> b" is known.
func (s *Set) MapClassName(fullFrom string) string {
	if c, ok := s.Class(fullFrom); ok {
		return s.FullTo(c)
	}

	outer, inner, ok := splitInner(fullFrom)
	if !ok {
		return fullFrom
	}

	return s.MapClassName(outer) + "$" + inner
}

// TopLevelClasses returns the top-level class mappings sorted by from-name.
func (s *Set) TopLevelClasses() []*Class {
	return s.sortedChildren(s.top)
}

// InnerClasses returns the direct inner class mappings of c sorted by from-name.
func (s *Set) InnerClasses(c *Class) []*Class {
	return s.sortedChildren(c.inner)
}

func (s *Set) sortedChildren(ids map[string]ClassID) []*Class {
	keys := make([]string, 0, len(ids))
	for k := range ids {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	out := make([]*Class, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.classes[ids[k]])
	}

	return out
}

// AllClasses returns every class mapping in pre-order: each top-level class
// in from-name order followed by its inner classes, recursively.
func (s *Set) AllClasses() []*Class {
	var out []*Class

	var visit func(c *Class)
	visit = func(c *Class) {
		out = append(out, c)
		for _, in := range s.InnerClasses(c) {
			visit(in)
		}
	}

	for _, c := range s.TopLevelClasses() {
		visit(c)
	}

	return out
}

// Len returns the number of live class mappings.
func (s *Set) Len() int {
	n := 0
	for _, c := range s.classes {
		if c != nil {
			n++
		}
	}

	return n
}

// Stats counts the mappings of a set.
type Stats struct {
	Classes int `yaml:"classes"`
	Fields  int `yaml:"fields"`
	Methods int `yaml:"methods"`
	Params  int `yaml:"params"`
}

// Stats counts the live mappings of s.
func (s *Set) Stats() Stats {
	var st Stats

	for _, c := range s.classes {
		if c == nil {
			continue
		}

		st.Classes++
		st.Fields += len(c.fields)
		st.Methods += len(c.methods)

		for _, m := range c.methods {
			st.Params += len(m.params)
		}
	}

	return st
}

// RemoveClass deletes c and all of its inner classes.
func (s *Set) RemoveClass(c *Class) {
	if c.IsTopLevel() {
		delete(s.top, c.From)
	} else if p := s.ByID(c.Parent); p != nil {
		delete(p.inner, c.From)
	}

	s.tombstone(c)
}

func (s *Set) tombstone(c *Class) {
	for _, id := range c.inner {
		if in := s.ByID(id); in != nil {
			s.tombstone(in)
		}
	}

	s.classes[c.ID] = nil
}

// MoveClass changes the from-key of c to newFrom within the same parent.
// The full from-names of inner classes follow.
func (s *Set) MoveClass(c *Class, newFrom string) error {
	if c.From == newFrom {
		return nil
	}

	keys := s.top
	if !c.IsTopLevel() {
		keys = s.classes[c.Parent].inner
	}

	if _, taken := keys[newFrom]; taken {
		return fmt.Errorf("move class %s: %q already mapped", s.FullFrom(c), newFrom)
	}

	delete(keys, c.From)
	keys[newFrom] = c.ID
	c.From = newFrom

	return nil
}

// Copy returns a deep copy of the set. Class ids are preserved.
func (s *Set) Copy() *Set {
	out := &Set{
		FromNamespace: s.FromNamespace,
		ToNamespace:   s.ToNamespace,
		classes:       make([]*Class, len(s.classes)),
		top:           make(map[string]ClassID, len(s.top)),
	}

	for k, v := range s.top {
		out.top[k] = v
	}

	for i, c := range s.classes {
		if c == nil {
			continue
		}

		cc := newClass(c.ID, c.Parent, c.From, c.To)
		cc.Explicit = c.Explicit

		for k, v := range c.inner {
			cc.inner[k] = v
		}

		for sig, f := range c.fields {
			cc.fields[sig] = &Field{Signature: f.Signature, To: f.To}
		}

		for sig, m := range c.methods {
			mm := cc.CreateMethod(sig, m.To)
			for _, p := range m.params {
				mm.CreateParam(p.Index, p.From, p.To)
			}
		}

		out.classes[i] = cc
	}

	return out
}

// splitInner splits a full class name at its last '$'. Names ending in '$'
// or starting with it, and '$' directly after a package separator, are not
// treated as inner class names.
func splitInner(name string) (string, string, bool) {
	i := strings.LastIndexByte(name, '$')
	if i <= 0 || i == len(name)-1 || name[i-1] == '/' {
		return "", "", false
	}

	return name[:i], name[i+1:], true
}
