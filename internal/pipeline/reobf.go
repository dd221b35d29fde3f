package pipeline

import (
	"fmt"
	"strings"

	"mapmerge/internal/descriptor"
	"mapmerge/internal/mapping"
)

// reobfSkipped names classes that are never reobfuscated.
var reobfSkipped = []string{"package-info", "NonnullByDefault"}

// reobf builds deobf -> spigot mappings keyed by the deobf names of
// obfToDeobf.
type reobf struct {
	obfToSpigot   *mapping.Set
	obfToDeobf    *mapping.Set
	spigotToDeobf *mapping.Set
	out           *mapping.Set
}

// mergeReobf combines the three sets into deobf -> spigot. A class maps to
// its Spigot name if Spigot renames it and keeps its deobf name otherwise.
// Members map to their obfuscated names. Members of spigotToDeobf that
// obfToDeobf lacks, such as names added by patches, are added too; their
// obfuscated names are found through the Spigot class.
func mergeReobf(obfToSpigot, obfToDeobf, spigotToDeobf *mapping.Set) (*mapping.Set, error) {
	_, deobf := obfToDeobf.Namespaces()
	_, spigot := obfToSpigot.Namespaces()

	m := &reobf{
		obfToSpigot:   obfToSpigot,
		obfToDeobf:    obfToDeobf,
		spigotToDeobf: spigotToDeobf,
		out:           mapping.NewSet(deobf, spigot),
	}

	for _, dc := range obfToDeobf.TopLevelClasses() {
		sc, hasSpigot := obfToSpigot.TopLevelClass(dc.From)

		var pc *mapping.Class
		if hasSpigot {
			pc, _ = spigotToDeobf.TopLevelClass(sc.To)
		}

		to := dc.To
		if hasSpigot && sc.IsRenamed() {
			to = sc.To
		}

		if skipReobf(dc.To) {
			continue
		}

		if err := m.class(sc, dc, pc, m.out.CreateTopLevelClass(dc.To, to)); err != nil {
			return nil, fmt.Errorf("class %s: %w", dc.From, err)
		}
	}

	return m.out, nil
}

func skipReobf(name string) bool {
	for _, s := range reobfSkipped {
		if strings.HasSuffix(name, s) {
			return true
		}
	}

	return false
}

// class fills target from the deobf class dc. sc and pc are the matching
// Spigot and patched classes and may be nil.
func (m *reobf) class(sc, dc, pc, target *mapping.Class) error {
	for _, di := range m.obfToDeobf.InnerClasses(dc) {
		var si, pi *mapping.Class

		if sc != nil {
			si, _ = m.obfToSpigot.InnerClass(sc, di.From)
		}

		if si != nil && pc != nil {
			pi, _ = m.spigotToDeobf.InnerClass(pc, si.To)
		}

		to := di.To
		if si != nil {
			to = si.To
		}

		if err := m.class(si, di, pi, m.out.CreateInnerClass(target, di.To, to)); err != nil {
			return err
		}
	}

	fields := make(map[mapping.FieldSignature]string)

	for _, f := range dc.Fields() {
		sig, err := deobfField(m.obfToDeobf, f)
		if err != nil {
			return err
		}

		target.CreateField(sig, f.Signature.Name)
		fields[sig] = f.Signature.Name
	}

	methods := make(map[mapping.MethodSignature]string)

	for _, md := range dc.Methods() {
		sig, err := deobfMethod(m.obfToDeobf, md)
		if err != nil {
			return err
		}

		target.CreateMethod(sig, md.Signature.Name)
		methods[sig] = md.Signature.Name
	}

	if pc == nil {
		return nil
	}

	for _, f := range pc.Fields() {
		sig, err := deobfField(m.spigotToDeobf, f)
		if err != nil {
			return err
		}

		if _, ok := fields[sig]; ok || sig.Type == "" {
			continue
		}

		target.CreateField(sig, m.obfField(sc, f.Signature.Name))
	}

	for _, md := range pc.Methods() {
		sig, err := deobfMethod(m.spigotToDeobf, md)
		if err != nil {
			return err
		}

		if _, ok := methods[sig]; ok {
			continue
		}

		obf, err := m.obfMethod(sc, md.Signature)
		if err != nil {
			return err
		}

		target.CreateMethod(sig, obf)
	}

	return nil
}

// obfField returns the obfuscated name of the field Spigot calls name.
// Fields Spigot does not rename keep their obfuscated name.
func (m *reobf) obfField(sc *mapping.Class, name string) string {
	if sc == nil {
		return name
	}

	for _, f := range sc.Fields() {
		if f.To == name {
			return f.Signature.Name
		}
	}

	return name
}

// obfMethod returns the obfuscated name of the method with the Spigot
// signature sig.
func (m *reobf) obfMethod(sc *mapping.Class, sig mapping.MethodSignature) (string, error) {
	if sc == nil {
		return sig.Name, nil
	}

	for _, md := range sc.Methods() {
		if md.To != sig.Name {
			continue
		}

		desc, err := descriptor.RemapMethod(md.Signature.Desc, m.obfToSpigot.MapClassName)
		if err != nil {
			return "", fmt.Errorf("method %s: %w", md.Signature, err)
		}

		if desc == sig.Desc {
			return md.Signature.Name, nil
		}
	}

	return sig.Name, nil
}

func deobfField(s *mapping.Set, f *mapping.Field) (mapping.FieldSignature, error) {
	sig := mapping.FieldSignature{Name: f.To}

	if f.Signature.Type != "" {
		t, err := descriptor.RemapField(f.Signature.Type, s.MapClassName)
		if err != nil {
			return sig, fmt.Errorf("field %s: %w", f.Signature, err)
		}

		sig.Type = t
	}

	return sig, nil
}

func deobfMethod(s *mapping.Set, m *mapping.Method) (mapping.MethodSignature, error) {
	desc, err := descriptor.RemapMethod(m.Signature.Desc, s.MapClassName)
	if err != nil {
		return mapping.MethodSignature{}, fmt.Errorf("method %s: %w", m.Signature, err)
	}

	return mapping.MethodSignature{Name: m.To, Desc: desc}, nil
}
