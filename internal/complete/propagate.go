package complete

import (
	"strings"

	"mapmerge/internal/hierarchy"
	"mapmerge/internal/mapping"
)

func paramNames(m *mapping.Method) map[int]string {
	if !m.HasParams() {
		return nil
	}

	out := make(map[int]string)
	for _, p := range m.Params() {
		out[p.Index] = p.To
	}

	return out
}

// PropagateUp copies the mapping of an overriding method onto the program
// methods it overrides that have no rename of their own.
type PropagateUp struct{}

func (PropagateUp) Name() string { return "PropagateUp" }

func (PropagateUp) Contribute(cc *ClassContext) error {
	if cc.Data == nil || cc.Mapping == nil {
		return nil
	}

	for _, m := range cc.Mapping.Methods() {
		if !m.IsRenamed() && !m.HasParams() {
			continue
		}

		md := cc.Data.Method(m.Signature.Name, m.Signature.Desc)
		if md == nil {
			continue
		}

		supers, err := cc.View.OverriddenMethods(cc.Name, md)
		if err != nil {
			return err
		}

		for _, s := range supers {
			if !cc.View.IsProgram(s.Class) {
				continue
			}

			if sm, ok := methodIn(cc.Set, s.Class, s.Method.Name, s.Method.Desc); ok && sm.IsRenamed() {
				continue
			}

			to := ""
			if m.IsRenamed() {
				to = m.To
			}

			cc.Submit(&CopyMethodMapping{
				target: MethodTarget(s.Class, s.Method.Name, s.Method.Desc),
				To:     to,
				Params: paramNames(m),
				Source: cc.Name,
			})
		}
	}

	return nil
}

// CopyDown gives every method of a program class without its own rename
// the name of the nearest renamed method it overrides. Bridges take the
// name of the method they forward to, and constructors take the parameter
// names of the super constructor arguments they pass through unchanged.
type CopyDown struct{}

func (CopyDown) Name() string { return "CopyDown" }

func (CopyDown) Contribute(cc *ClassContext) error {
	if cc.Data == nil {
		return nil
	}

	for _, md := range cc.Data.Methods {
		own, hasOwn := cc.MappedMethod(md)

		if md.IsConstructor() {
			copyConstructorParams(cc, md, own)
			continue
		}

		if hasOwn && own.IsRenamed() {
			continue
		}

		if md.IsBridge() {
			if ref, ok := cc.View.BridgeTarget(cc.Name, md); ok {
				if tm, ok := methodIn(cc.Set, cc.Name, ref.Name, ref.Desc); ok && tm.IsRenamed() {
					cc.Submit(&CopyMethodMapping{
						target: MethodTarget(cc.Name, md.Name, md.Desc),
						To:     tm.To,
						Source: cc.Name,
					})

					continue
				}
			}
		}

		supers, err := cc.View.OverriddenMethods(cc.Name, md)
		if err != nil {
			return err
		}

		for _, s := range supers {
			sm, ok := methodIn(cc.Set, s.Class, s.Method.Name, s.Method.Desc)
			if !ok || !sm.IsRenamed() {
				continue
			}

			cc.Submit(&CopyMethodMapping{
				target: MethodTarget(cc.Name, md.Name, md.Desc),
				To:     sm.To,
				Params: paramNames(sm),
				Source: s.Class,
			})

			break
		}
	}

	return nil
}

func copyConstructorParams(cc *ClassContext, ctor *hierarchy.MethodData, own *mapping.Method) {
	sc, ok := cc.View.SuperConstructor(cc.Name, ctor)
	if !ok || len(sc.Args) == 0 {
		return
	}

	sm, ok := methodIn(cc.Set, sc.Owner, "<init>", sc.Desc)
	if !ok || !sm.HasParams() {
		return
	}

	params := make(map[int]string)

	for slot, superSlot := range sc.Args {
		p, ok := sm.Param(superSlot)
		if !ok {
			continue
		}

		if own != nil {
			if _, mapped := own.Param(slot); mapped {
				continue
			}
		}

		params[slot] = p.To
	}

	if len(params) == 0 {
		return
	}

	cc.Submit(&CopyMethodMapping{
		target: MethodTarget(cc.Name, ctor.Name, ctor.Desc),
		Params: params,
		Source: sc.Owner,
	})
}

// PropagateOuterClassMappings adds an identity mapping for unmapped inner
// classes of mapped outer classes, unless a mapped sibling already uses the
// name.
type PropagateOuterClassMappings struct{}

func (PropagateOuterClassMappings) Name() string { return "PropagateOuterClassMappings" }

func (PropagateOuterClassMappings) Contribute(cc *ClassContext) error {
	if cc.Data == nil || cc.Mapping != nil || cc.Data.Outer == "" {
		return nil
	}

	name := cc.Name[strings.LastIndexByte(cc.Name, '$')+1:]

	outer, ok := cc.Set.Class(cc.Data.Outer)
	if !ok {
		return nil
	}

	for _, in := range cc.Set.InnerClasses(outer) {
		if in.To == name {
			return nil
		}
	}

	cc.Submit(&AddClassMapping{target: ClassTarget(cc.Name), To: name})

	return nil
}
