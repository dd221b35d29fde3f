package complete

import (
	"fmt"
)

// ParamIndexesForSource rekeys parameter mappings from LVT slots to source
// positions: 0 for the first declared parameter, counting long and double
// once and skipping this and the outer instance of inner class
// constructors.
type ParamIndexesForSource struct{}

func (ParamIndexesForSource) Name() string { return "ParamIndexesForSource" }

func (ParamIndexesForSource) Contribute(cc *ClassContext) error {
	if cc.Data == nil || cc.Mapping == nil {
		return nil
	}

	for _, m := range cc.Mapping.Methods() {
		if !m.HasParams() {
			continue
		}

		md := cc.Data.Method(m.Signature.Name, m.Signature.Desc)
		if md == nil {
			continue
		}

		layout, _, err := lvtLayout(cc.Data, md)
		if err != nil {
			return fmt.Errorf("method %s.%s: %w", cc.Name, m.Signature, err)
		}

		target := MethodTarget(cc.Name, m.Signature.Name, m.Signature.Desc)

		for _, p := range layout {
			if _, ok := m.Param(p.Slot); ok {
				cc.Submit(NewParamIndexChange(target, p.Slot, p.Source))
			}
		}
	}

	return nil
}
