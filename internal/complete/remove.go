package complete

import (
	"fmt"
	"strings"

	"mapmerge/internal/hierarchy"
)

// LambdaPrefix starts the names of compiler generated lambda bodies.
const LambdaPrefix = "lambda$"

// RemoveUnused drops field and method mappings for members the class does
// not declare, and parameter mappings outside the method's LVT slots. All
// members of a mapped class the hierarchy does not know are dropped.
type RemoveUnused struct{}

func (RemoveUnused) Name() string { return "RemoveUnused" }

func (RemoveUnused) Contribute(cc *ClassContext) error {
	if cc.Mapping == nil {
		return nil
	}

	cd := cc.Data

	if cd == nil {
		if !cc.Mapping.HasMembers() {
			return nil
		}

		cc.Diag.AddMiss("unknown-class", "class is not in the hierarchy, dropping its members", cc.Name, cc.View.Suggest(cc.Name))
	}

	for _, f := range cc.Mapping.Fields() {
		if cd == nil || cd.Field(f.Signature.Name, f.Signature.Type) == nil {
			cc.Submit(NewRemoveMember(FieldTarget(cc.Name, f.Signature)))
		}
	}

	for _, m := range cc.Mapping.Methods() {
		target := MethodTarget(cc.Name, m.Signature.Name, m.Signature.Desc)

		var md *hierarchy.MethodData
		if cd != nil {
			md = cd.Method(m.Signature.Name, m.Signature.Desc)
		}

		if md == nil {
			cc.Submit(NewRemoveMember(target))
			continue
		}

		if !m.HasParams() {
			continue
		}

		layout, _, err := lvtLayout(cd, md)
		if err != nil {
			return fmt.Errorf("method %s: %w", target, err)
		}

		valid := make(map[int]bool, len(layout)+1)
		for _, p := range layout {
			valid[p.Slot] = true
		}

		if md.IsConstructor() && cd.IsInnerClass() && !md.IsStatic() {
			// the outer instance
			valid[1] = true
		}

		var stale []int

		for _, p := range m.Params() {
			if !valid[p.Index] {
				stale = append(stale, p.Index)
			}
		}

		if len(stale) > 0 {
			cc.Submit(NewRemoveParams(target, stale...))
		}
	}

	return nil
}

// RemoveLambdas drops method mappings whose target name is a lambda body.
type RemoveLambdas struct{}

func (RemoveLambdas) Name() string { return "RemoveLambdas" }

func (RemoveLambdas) Contribute(cc *ClassContext) error {
	if cc.Mapping == nil {
		return nil
	}

	for _, m := range cc.Mapping.Methods() {
		if strings.HasPrefix(m.To, LambdaPrefix) {
			cc.Submit(NewRemoveMember(MethodTarget(cc.Name, m.Signature.Name, m.Signature.Desc)))
		}
	}

	return nil
}

// RemoveRecompiledSyntheticMembers drops the mappings of synthetic members
// in classes that were recompiled from source. Recompiling generates new
// synthetic members, so their old names no longer apply. Recompiled holds
// the names of the outermost classes.
type RemoveRecompiledSyntheticMembers struct {
	Recompiled map[string]bool
}

func (RemoveRecompiledSyntheticMembers) Name() string { return "RemoveRecompiledSyntheticMembers" }

func (r RemoveRecompiledSyntheticMembers) Contribute(cc *ClassContext) error {
	if cc.Data == nil || cc.Mapping == nil {
		return nil
	}

	root, err := rootClass(cc.View, cc.Data)
	if err != nil {
		return err
	}

	if !r.Recompiled[root] {
		return nil
	}

	for _, m := range cc.Data.Methods {
		if !m.IsSynthetic() {
			continue
		}

		if _, ok := cc.MappedMethod(m); ok {
			cc.Submit(NewRemoveMember(MethodTarget(cc.Name, m.Name, m.Desc)))
		}
	}

	for _, f := range cc.Data.Fields {
		if !f.IsSynthetic() {
			continue
		}

		for _, mf := range cc.Mapping.FieldsNamed(f.Name) {
			if mf.Signature.Type == "" || mf.Signature.Type == f.Desc {
				cc.Submit(NewRemoveMember(FieldTarget(cc.Name, mf.Signature)))
			}
		}
	}

	return nil
}

// rootClass follows the outer classes of cd up to the outermost one.
func rootClass(v *hierarchy.View, cd *hierarchy.ClassData) (string, error) {
	name := cd.Name

	for cur := cd; cur.Outer != ""; {
		outer, err := v.Lookup(cur.Outer)
		if err != nil {
			if hierarchy.IsLookupMiss(err) {
				return cur.Outer, nil
			}

			return "", err
		}

		name = outer.Name
		cur = outer
	}

	return name, nil
}
