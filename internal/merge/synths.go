package merge

import (
	"mapmerge/internal/mapping"
)

// SynthTable records synthetic methods the compiler generated for a base
// method: class -> descriptor -> base name -> synthetic name.
type SynthTable map[string]map[string]map[string]string

// Add records that synth in class is the synthetic counterpart of base.
func (t SynthTable) Add(class, desc, synth, base string) {
	byDesc, ok := t[class]
	if !ok {
		byDesc = make(map[string]map[string]string)
		t[class] = byDesc
	}

	byBase, ok := byDesc[desc]
	if !ok {
		byBase = make(map[string]string)
		byDesc[desc] = byBase
	}

	byBase[base] = synth
}

// Synth returns the synthetic name recorded for base.
func (t SynthTable) Synth(class, desc, base string) (string, bool) {
	s, ok := t[class][desc][base]
	return s, ok
}

// Base returns the base name whose synthetic method is named synth.
func (t SynthTable) Base(class, desc, synth string) (string, bool) {
	var (
		found string
		ok    bool
	)

	for base, s := range t[class][desc] {
		if s == synth && (!ok || base < found) {
			found, ok = base, true
		}
	}

	return found, ok
}

// Len returns the number of recorded synthetic methods.
func (t SynthTable) Len() int {
	n := 0

	for _, byDesc := range t {
		for _, byBase := range byDesc {
			n += len(byBase)
		}
	}

	return n
}

func methodSig(name, desc string) mapping.MethodSignature {
	return mapping.MethodSignature{Name: name, Desc: desc}
}
