package mapping

import (
	"cmp"
	"slices"
	"strconv"
)

// ClassID addresses a class mapping inside the arena of its Set.
type ClassID int

// NoParent is the Parent value of top-level class mappings.
const NoParent ClassID = -1

// FieldSignature identifies a field mapping within its class.
type FieldSignature struct {
	Name string
	Type string // field descriptor, empty when unknown
}

// String returns "name:type", or just the name when the type is unknown.
func (s FieldSignature) String() string {
	if s.Type == "" {
		return s.Name
	}

	return s.Name + ":" + s.Type
}

// MethodSignature identifies a method mapping within its class.
type MethodSignature struct {
	Name string
	Desc string // method descriptor
}

// String returns the JVMS-style identifier "name(desc)ret".
func (s MethodSignature) String() string {
	return s.Name + s.Desc
}

// Class is a class mapping. Top-level and inner classes share the type; an
// inner class has a Parent other than NoParent.
type Class struct {
	ID     ClassID
	Parent ClassID
	From   string // simple from-name (after the last '$' for inner classes)
	To     string // simple to-name
	// Explicit is false for classes that only exist because an inner class
	// was created beneath them.
	Explicit bool

	inner   map[string]ClassID
	fields  map[FieldSignature]*Field
	methods map[MethodSignature]*Method
}

func newClass(id, parent ClassID, from, to string) *Class {
	return &Class{
		ID:      id,
		Parent:  parent,
		From:    from,
		To:      to,
		inner:   make(map[string]ClassID),
		fields:  make(map[FieldSignature]*Field),
		methods: make(map[MethodSignature]*Method),
	}
}

// IsTopLevel returns true if the class has no parent class mapping.
func (c *Class) IsTopLevel() bool {
	return c.Parent == NoParent
}

// IsRenamed returns true if the class maps to a different simple name.
func (c *Class) IsRenamed() bool {
	return c.From != c.To
}

// HasMembers returns true if the class carries field or method mappings.
func (c *Class) HasMembers() bool {
	return len(c.fields) > 0 || len(c.methods) > 0
}

// CreateField creates the field mapping for sig, or updates the target
// name of an existing one.
func (c *Class) CreateField(sig FieldSignature, to string) *Field {
	if f, ok := c.fields[sig]; ok {
		f.To = to
		return f
	}

	f := &Field{Signature: sig, To: to}
	c.fields[sig] = f

	return f
}

// Field returns the field mapping with the exact signature.
func (c *Class) Field(sig FieldSignature) (*Field, bool) {
	f, ok := c.fields[sig]
	return f, ok
}

// FieldsNamed returns all field mappings with the given from-name, sorted by type.
func (c *Class) FieldsNamed(name string) []*Field {
	var out []*Field

	for sig, f := range c.fields {
		if sig.Name == name {
			out = append(out, f)
		}
	}

	slices.SortFunc(out, compareFields)

	return out
}

// Fields returns all field mappings sorted by name, then type.
func (c *Class) Fields() []*Field {
	out := make([]*Field, 0, len(c.fields))
	for _, f := range c.fields {
		out = append(out, f)
	}

	slices.SortFunc(out, compareFields)

	return out
}

// RemoveField deletes the field mapping for sig and reports whether it existed.
func (c *Class) RemoveField(sig FieldSignature) bool {
	_, ok := c.fields[sig]
	delete(c.fields, sig)

	return ok
}

// CreateMethod creates the method mapping for sig, or updates the target
// name of an existing one. Existing parameter mappings are kept.
func (c *Class) CreateMethod(sig MethodSignature, to string) *Method {
	if m, ok := c.methods[sig]; ok {
		m.To = to
		return m
	}

	m := &Method{Signature: sig, To: to, params: make(map[int]*Param)}
	c.methods[sig] = m

	return m
}

// Method returns the method mapping with the exact signature.
func (c *Class) Method(sig MethodSignature) (*Method, bool) {
	m, ok := c.methods[sig]
	return m, ok
}

// MethodsNamed returns all method mappings with the given from-name, sorted by descriptor.
func (c *Class) MethodsNamed(name string) []*Method {
	var out []*Method

	for sig, m := range c.methods {
		if sig.Name == name {
			out = append(out, m)
		}
	}

	slices.SortFunc(out, compareMethods)

	return out
}

// Methods returns all method mappings sorted by name, then descriptor.
func (c *Class) Methods() []*Method {
	out := make([]*Method, 0, len(c.methods))
	for _, m := range c.methods {
		out = append(out, m)
	}

	slices.SortFunc(out, compareMethods)

	return out
}

// RemoveMethod deletes the method mapping for sig and reports whether it existed.
func (c *Class) RemoveMethod(sig MethodSignature) bool {
	_, ok := c.methods[sig]
	delete(c.methods, sig)

	return ok
}

// Field is a field mapping.
type Field struct {
	Signature FieldSignature
	To        string
}

// IsRenamed returns true if the field maps to a different name.
func (f *Field) IsRenamed() bool {
	return f.Signature.Name != f.To
}

// Method is a method mapping with its parameter mappings.
type Method struct {
	Signature MethodSignature
	To        string

	params map[int]*Param
}

// IsRenamed returns true if the method maps to a different name.
func (m *Method) IsRenamed() bool {
	return m.Signature.Name != m.To
}

// CreateParam creates the parameter mapping at the given LVT index, or
// updates an existing one.
func (m *Method) CreateParam(index int, from, to string) *Param {
	if p, ok := m.params[index]; ok {
		p.From = from
		p.To = to

		return p
	}

	p := &Param{Index: index, From: from, To: to}
	m.params[index] = p

	return p
}

// Param returns the parameter mapping at index.
func (m *Method) Param(index int) (*Param, bool) {
	p, ok := m.params[index]
	return p, ok
}

// HasParams returns true if the method carries parameter mappings.
func (m *Method) HasParams() bool {
	return len(m.params) > 0
}

// Params returns all parameter mappings sorted by index.
func (m *Method) Params() []*Param {
	out := make([]*Param, 0, len(m.params))
	for _, p := range m.params {
		out = append(out, p)
	}

	slices.SortFunc(out, func(a, b *Param) int {
		return cmp.Compare(a.Index, b.Index)
	})

	return out
}

// RemoveParam deletes the parameter mapping at index.
func (m *Method) RemoveParam(index int) bool {
	_, ok := m.params[index]
	delete(m.params, index)

	return ok
}

// ClearParams removes every parameter mapping and returns them sorted by index.
func (m *Method) ClearParams() []*Param {
	params := m.Params()
	clear(m.params)

	return params
}

// Param is a method parameter mapping keyed by local variable table index.
// From is frequently empty: most formats only name the to-side.
type Param struct {
	Index int
	From  string
	To    string
}

// String returns "index:to".
func (p *Param) String() string {
	return strconv.Itoa(p.Index) + ":" + p.To
}

// ClassNameChange records a class whose name changes only in letter case.
type ClassNameChange struct {
	ObfName   string `json:"obfName"`
	DeobfName string `json:"deobfName"`
}

func compareFields(a, b *Field) int {
	if c := cmp.Compare(a.Signature.Name, b.Signature.Name); c != 0 {
		return c
	}

	return cmp.Compare(a.Signature.Type, b.Signature.Type)
}

func compareMethods(a, b *Method) int {
	if c := cmp.Compare(a.Signature.Name, b.Signature.Name); c != 0 {
		return c
	}

	return cmp.Compare(a.Signature.Desc, b.Signature.Desc)
}
