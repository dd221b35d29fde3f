package complete

import (
	"mapmerge/internal/descriptor"
	"mapmerge/internal/hierarchy"
)

// lvtParam is one source parameter and the LVT slot it occupies.
type lvtParam struct {
	Source int
	Slot   int
	Type   descriptor.Type
}

// lvtLayout assigns LVT slots to the source parameters of m declared in
// cd. Slot 0 holds this for instance methods. Constructors of non-static
// inner classes receive the outer instance first; it is not a source
// parameter whether or not the descriptor spells it out. Long and double
// take two slots.
func lvtLayout(cd *hierarchy.ClassData, m *hierarchy.MethodData) ([]lvtParam, int, error) {
	md, err := descriptor.ParseMethod(m.Desc)
	if err != nil {
		return nil, 0, err
	}

	slot := 0
	if !m.IsStatic() {
		slot = 1
	}

	params := md.Params

	if m.IsConstructor() && cd.IsInnerClass() {
		if len(params) > 0 && params[0].Kind == descriptor.KindObject && params[0].Class == cd.Outer {
			params = params[1:]
		}

		slot++
	}

	out := make([]lvtParam, 0, len(params))

	for i, p := range params {
		out = append(out, lvtParam{Source: i, Slot: slot, Type: p})
		slot += p.Size()
	}

	return out, slot, nil
}
