package complete

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"mapmerge/internal/diagnostic"
	"mapmerge/internal/mapping"
)

// TargetKind tells what a change applies to.
type TargetKind int

const (
	TargetField TargetKind = iota
	TargetMethod
	TargetClass
)

// Target identifies the mapping a change applies to.
type Target struct {
	Kind  TargetKind
	Class string
	Name  string
	Desc  string
}

// ClassTarget targets the class mapping with the full from-name class.
func ClassTarget(class string) Target {
	return Target{Kind: TargetClass, Class: class}
}

// FieldTarget targets a field mapping.
func FieldTarget(class string, sig mapping.FieldSignature) Target {
	return Target{Kind: TargetField, Class: class, Name: sig.Name, Desc: sig.Type}
}

// MethodTarget targets a method mapping.
func MethodTarget(class, name, desc string) Target {
	return Target{Kind: TargetMethod, Class: class, Name: name, Desc: desc}
}

func (t Target) String() string {
	switch t.Kind {
	case TargetClass:
		return t.Class
	case TargetField:
		return t.Class + "." + mapping.FieldSignature{Name: t.Name, Type: t.Desc}.String()
	default:
		return t.Class + "." + t.Name + t.Desc
	}
}

func (t Target) methodSig() mapping.MethodSignature {
	return mapping.MethodSignature{Name: t.Name, Desc: t.Desc}
}

// compareTargets orders member targets before class targets. Members sort
// by name; classes sort in reverse so inner classes come before their
// outer classes.
func compareTargets(a, b Target) int {
	ac, bc := a.Kind == TargetClass, b.Kind == TargetClass
	if ac != bc {
		if ac {
			return 1
		}

		return -1
	}

	if ac {
		return strings.Compare(b.Class, a.Class)
	}

	if c := strings.Compare(a.Class, b.Class); c != 0 {
		return c
	}

	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}

	if c := strings.Compare(a.Desc, b.Desc); c != 0 {
		return c
	}

	return int(a.Kind) - int(b.Kind)
}

// Change is one pending edit of a mapping set.
type Change interface {
	Target() Target
	Apply(set *mapping.Set) error
	String() string
}

// Mergeable is implemented by changes that can absorb another change of the
// same type for the same target.
type Mergeable interface {
	Change
	MergeWith(other Change, diag *diagnostic.Diagnostics) (Change, error)
}

// RemoveMember drops a field or method mapping.
type RemoveMember struct {
	target Target
}

// NewRemoveMember returns a change dropping the member t.
func NewRemoveMember(t Target) *RemoveMember {
	return &RemoveMember{target: t}
}

func (c *RemoveMember) Target() Target { return c.target }

func (c *RemoveMember) Apply(set *mapping.Set) error {
	cm, ok := set.Class(c.target.Class)
	if !ok {
		return nil
	}

	if c.target.Kind == TargetField {
		cm.RemoveField(mapping.FieldSignature{Name: c.target.Name, Type: c.target.Desc})
	} else {
		cm.RemoveMethod(c.target.methodSig())
	}

	return nil
}

func (c *RemoveMember) String() string {
	return "remove " + c.target.String()
}

// RemoveParams drops parameter mappings of a method.
type RemoveParams struct {
	target  Target
	Indexes []int
}

// NewRemoveParams returns a change dropping the given parameter indexes.
func NewRemoveParams(t Target, indexes ...int) *RemoveParams {
	idx := slices.Clone(indexes)
	slices.Sort(idx)

	return &RemoveParams{target: t, Indexes: slices.Compact(idx)}
}

func (c *RemoveParams) Target() Target { return c.target }

func (c *RemoveParams) Apply(set *mapping.Set) error {
	m, ok := methodIn(set, c.target.Class, c.target.Name, c.target.Desc)
	if !ok {
		return nil
	}

	for _, i := range c.Indexes {
		m.RemoveParam(i)
	}

	return nil
}

func (c *RemoveParams) MergeWith(other Change, _ *diagnostic.Diagnostics) (Change, error) {
	o := other.(*RemoveParams)
	return NewRemoveParams(c.target, append(slices.Clone(c.Indexes), o.Indexes...)...), nil
}

func (c *RemoveParams) String() string {
	return fmt.Sprintf("remove params %v of %s", c.Indexes, c.target)
}

// CopyMethodMapping gives a method the name and parameter names of a
// related method. An empty To keeps the current name, or the from-name if
// the method is not mapped yet. Parameters only fill gaps.
type CopyMethodMapping struct {
	target Target
	To     string
	Params map[int]string
	// Source is the class whose mapping is copied.
	Source string
}

func (c *CopyMethodMapping) Target() Target { return c.target }

func (c *CopyMethodMapping) Apply(set *mapping.Set) error {
	cm := set.GetOrCreateClass(c.target.Class)

	m, ok := cm.Method(c.target.methodSig())
	if !ok {
		to := c.To
		if to == "" {
			to = c.target.Name
		}

		m = cm.CreateMethod(c.target.methodSig(), to)
	} else if c.To != "" {
		m.To = c.To
	}

	for _, i := range slices.Sorted(maps.Keys(c.Params)) {
		if _, ok := m.Param(i); !ok {
			m.CreateParam(i, "", c.Params[i])
		}
	}

	return nil
}

// MergeWith keeps the name of the receiver, which comes from the class
// that sorts first, and reports the discarded name as a warning.
func (c *CopyMethodMapping) MergeWith(other Change, diag *diagnostic.Diagnostics) (Change, error) {
	o := other.(*CopyMethodMapping)

	out := &CopyMethodMapping{target: c.target, To: c.To, Source: c.Source, Params: maps.Clone(c.Params)}

	switch {
	case out.To == "":
		out.To = o.To
	case o.To != "" && o.To != out.To:
		diag.AddWarning("conflicting-copy",
			fmt.Sprintf("keeping %q from %s over %q from %s", out.To, c.Source, o.To, o.Source),
			c.target.Class, c.target.Name+c.target.Desc)
	}

	if out.Params == nil && len(o.Params) > 0 {
		out.Params = make(map[int]string, len(o.Params))
	}

	for i, name := range o.Params {
		if cur, ok := out.Params[i]; !ok {
			out.Params[i] = name
		} else if cur != name {
			diag.AddWarning("conflicting-copy",
				fmt.Sprintf("keeping parameter %d name %q from %s over %q from %s", i, cur, c.Source, name, o.Source),
				c.target.Class, c.target.Name+c.target.Desc)
		}
	}

	return out, nil
}

func (c *CopyMethodMapping) String() string {
	return fmt.Sprintf("copy %s -> %q (%d params) from %s", c.target, c.To, len(c.Params), c.Source)
}

// ParamIndexChange moves parameter mappings of one method to new indexes.
type ParamIndexChange struct {
	target  Target
	Indexes map[int]int
}

// NewParamIndexChange returns a change moving the parameter at from to to.
func NewParamIndexChange(t Target, from, to int) *ParamIndexChange {
	return &ParamIndexChange{target: t, Indexes: map[int]int{from: to}}
}

func (c *ParamIndexChange) Target() Target { return c.target }

// Apply moves the parameters. Parameters without a new index keep theirs
// unless a moved parameter lands on it.
func (c *ParamIndexChange) Apply(set *mapping.Set) error {
	m, ok := methodIn(set, c.target.Class, c.target.Name, c.target.Desc)
	if !ok {
		return nil
	}

	params := m.ClearParams()

	for _, p := range params {
		if _, moved := c.Indexes[p.Index]; !moved {
			m.CreateParam(p.Index, p.From, p.To)
		}
	}

	for _, p := range params {
		if to, moved := c.Indexes[p.Index]; moved {
			m.CreateParam(to, p.From, p.To)
		}
	}

	return nil
}

// MergeWith combines two index maps with disjoint from- and to-indexes.
func (c *ParamIndexChange) MergeWith(other Change, _ *diagnostic.Diagnostics) (Change, error) {
	o := other.(*ParamIndexChange)

	for from, to := range o.Indexes {
		if _, ok := c.Indexes[from]; ok {
			return nil, &ReindexConflictError{Target: c.target, Index: from, Reason: "from-index moved twice"}
		}

		for _, t := range c.Indexes {
			if t == to {
				return nil, &ReindexConflictError{Target: c.target, Index: to, Reason: "two parameters moved to the same index"}
			}
		}
	}

	out := &ParamIndexChange{target: c.target, Indexes: maps.Clone(c.Indexes)}
	maps.Copy(out.Indexes, o.Indexes)

	return out, nil
}

func (c *ParamIndexChange) String() string {
	pairs := make([]string, 0, len(c.Indexes))
	for _, from := range slices.Sorted(maps.Keys(c.Indexes)) {
		pairs = append(pairs, fmt.Sprintf("%d:%d", from, c.Indexes[from]))
	}

	return fmt.Sprintf("move params of %s [%s]", c.target, strings.Join(pairs, ", "))
}

// MoveClass changes the simple from-name of a class mapping.
type MoveClass struct {
	target  Target
	NewFrom string
}

func (c *MoveClass) Target() Target { return c.target }

func (c *MoveClass) Apply(set *mapping.Set) error {
	cm, ok := set.Class(c.target.Class)
	if !ok {
		return nil
	}

	return set.MoveClass(cm, c.NewFrom)
}

func (c *MoveClass) String() string {
	return fmt.Sprintf("move class %s to %s", c.target, c.NewFrom)
}

// AddClassMapping creates or renames a class mapping.
type AddClassMapping struct {
	target Target
	To     string
}

func (c *AddClassMapping) Target() Target { return c.target }

func (c *AddClassMapping) Apply(set *mapping.Set) error {
	cm := set.GetOrCreateClass(c.target.Class)
	cm.To = c.To
	cm.Explicit = true

	return nil
}

func (c *AddClassMapping) String() string {
	return fmt.Sprintf("map class %s -> %s", c.target, c.To)
}
