package hierarchy

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Access is a set of JVM access and property flags.
type Access uint16

const (
	AccPublic Access = 1 << iota
	AccPrivate
	AccProtected
	AccStatic
	AccFinal
	AccSynthetic
	AccBridge
	AccAbstract
	AccInterface
)

var accessNames = []struct {
	flag Access
	name string
}{
	{AccPublic, "public"},
	{AccPrivate, "private"},
	{AccProtected, "protected"},
	{AccStatic, "static"},
	{AccFinal, "final"},
	{AccSynthetic, "synthetic"},
	{AccBridge, "bridge"},
	{AccAbstract, "abstract"},
	{AccInterface, "interface"},
}

// Has returns true if every flag in f is set.
func (a Access) Has(f Access) bool {
	return a&f == f
}

// Names returns the modifier names of the set flags in canonical order.
func (a Access) Names() []string {
	var out []string

	for _, an := range accessNames {
		if a.Has(an.flag) {
			out = append(out, an.name)
		}
	}

	return out
}

// String returns the space separated modifier names.
func (a Access) String() string {
	return strings.Join(a.Names(), " ")
}

// ParseAccess parses modifier names into an Access set.
func ParseAccess(names []string) (Access, error) {
	var a Access

	for _, n := range names {
		found := false

		for _, an := range accessNames {
			if an.name == strings.ToLower(strings.TrimSpace(n)) {
				a |= an.flag
				found = true

				break
			}
		}

		if !found {
			return 0, fmt.Errorf("unknown access flag %q", n)
		}
	}

	return a, nil
}

// UnmarshalYAML implements yaml.Unmarshaler. Both a sequence of names and a
// single space separated string are accepted.
func (a *Access) UnmarshalYAML(node *yaml.Node) error {
	var names []string

	switch node.Kind {
	case yaml.ScalarNode:
		names = strings.Fields(node.Value)
	case yaml.SequenceNode:
		if err := node.Decode(&names); err != nil {
			return err
		}
	default:
		return fmt.Errorf("line %d: access must be a list of flags", node.Line)
	}

	parsed, err := ParseAccess(names)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}

	*a = parsed

	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (a Access) MarshalYAML() (any, error) {
	return a.Names(), nil
}

// MemberRef names a method or field within its class.
type MemberRef struct {
	Name string `yaml:"name"`
	Desc string `yaml:"desc"`
}

func (r MemberRef) String() string {
	return r.Name + r.Desc
}

// SuperCall describes the superclass constructor a constructor invokes.
type SuperCall struct {
	Desc string `yaml:"desc"`
	// Args maps LVT indexes of the calling constructor to LVT indexes of the
	// super constructor for arguments passed through unchanged.
	Args map[int]int `yaml:"args,omitempty"`
}

// MethodData is a declared method.
type MethodData struct {
	Name   string `yaml:"name"`
	Desc   string `yaml:"desc"`
	Access Access `yaml:"access,omitempty"`

	SuperCall    *SuperCall `yaml:"superCall,omitempty"`
	BridgeTarget *MemberRef `yaml:"bridgeTarget,omitempty"`
}

// Ref returns the name and descriptor of the method.
func (m *MethodData) Ref() MemberRef {
	return MemberRef{Name: m.Name, Desc: m.Desc}
}

// IsConstructor returns true for instance initializers.
func (m *MethodData) IsConstructor() bool {
	return m.Name == "<init>"
}

// IsInitializer returns true for instance and static initializers.
func (m *MethodData) IsInitializer() bool {
	return m.Name == "<init>" || m.Name == "<clinit>"
}

// IsStatic returns true for static methods.
func (m *MethodData) IsStatic() bool {
	return m.Access.Has(AccStatic)
}

// IsBridge returns true for compiler generated bridge methods.
func (m *MethodData) IsBridge() bool {
	return m.Access.Has(AccBridge)
}

// IsSynthetic returns true for compiler generated methods.
func (m *MethodData) IsSynthetic() bool {
	return m.Access.Has(AccSynthetic)
}

// Overridable returns true if the method takes part in virtual dispatch.
func (m *MethodData) Overridable() bool {
	return !m.IsInitializer() && !m.IsStatic() && !m.Access.Has(AccPrivate)
}

// IsPackagePrivate returns true if the method has no visibility modifier.
func (m *MethodData) IsPackagePrivate() bool {
	return m.Access&(AccPublic|AccProtected|AccPrivate) == 0
}

// FieldData is a declared field.
type FieldData struct {
	Name   string `yaml:"name"`
	Desc   string `yaml:"desc"`
	Access Access `yaml:"access,omitempty"`
}

// IsSynthetic returns true for compiler generated fields.
func (f *FieldData) IsSynthetic() bool {
	return f.Access.Has(AccSynthetic)
}

// ClassData is the structure of one class.
type ClassData struct {
	Name       string        `yaml:"name"`
	Super      string        `yaml:"super,omitempty"`
	Interfaces []string      `yaml:"interfaces,omitempty"`
	Access     Access        `yaml:"access,omitempty"`
	Outer      string        `yaml:"outer,omitempty"`
	Fields     []*FieldData  `yaml:"fields,omitempty"`
	Methods    []*MethodData `yaml:"methods,omitempty"`
}

// Method returns the declared method with the exact name and descriptor.
func (c *ClassData) Method(name, desc string) *MethodData {
	for _, m := range c.Methods {
		if m.Name == name && m.Desc == desc {
			return m
		}
	}

	return nil
}

// MethodsNamed returns the declared methods with the given name.
func (c *ClassData) MethodsNamed(name string) []*MethodData {
	var out []*MethodData

	for _, m := range c.Methods {
		if m.Name == name {
			out = append(out, m)
		}
	}

	return out
}

// Field returns the declared field with the given name and descriptor. An
// empty desc matches the first field with that name.
func (c *ClassData) Field(name, desc string) *FieldData {
	for _, f := range c.Fields {
		if f.Name == name && (desc == "" || f.Desc == desc) {
			return f
		}
	}

	return nil
}

// SuperTypeNames returns the superclass followed by the interfaces.
func (c *ClassData) SuperTypeNames() []string {
	out := make([]string, 0, len(c.Interfaces)+1)
	if c.Super != "" {
		out = append(out, c.Super)
	}

	return append(out, c.Interfaces...)
}

// IsInterface returns true for interfaces and annotation types.
func (c *ClassData) IsInterface() bool {
	return c.Access.Has(AccInterface)
}

// IsStatic returns true for static nested classes.
func (c *ClassData) IsStatic() bool {
	return c.Access.Has(AccStatic)
}

// IsInnerClass returns true for non-static nested classes, whose
// constructors take the enclosing instance as a hidden first parameter.
func (c *ClassData) IsInnerClass() bool {
	return c.Outer != "" && !c.IsStatic() && !c.IsInterface()
}

// IsAnonymous returns true if the simple name is a decimal number.
func (c *ClassData) IsAnonymous() bool {
	return IsAnonymousName(c.Name)
}

// SimpleName returns the part after the last '$', or after the package.
func SimpleName(name string) string {
	if i := strings.LastIndexByte(name, '$'); i >= 0 {
		return name[i+1:]
	}

	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}

	return name
}

// IsAnonymousName returns true if the simple name of a class is a decimal number.
func IsAnonymousName(name string) bool {
	if !strings.Contains(name, "$") {
		return false
	}

	simple := SimpleName(name)
	if simple == "" {
		return false
	}

	for _, r := range simple {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
