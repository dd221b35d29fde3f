package mapping

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"mapmerge/internal/descriptor"
)

// Reverse returns a new set mapping ToNamespace back to FromNamespace.
//
// Field types and method descriptors are mapped through s exactly once, so a
// set containing both A -> B and B -> C reverses a method returning LA; to
// one returning LB;, never LC;.
func (s *Set) Reverse() (*Set, error) {
	out := NewSet(s.ToNamespace, s.FromNamespace)

	var visit func(c *Class, parent *Class) error
	visit = func(c *Class, parent *Class) error {
		var rc *Class
		if parent == nil {
			rc = out.CreateTopLevelClass(c.To, c.From)
		} else {
			rc = out.CreateInnerClass(parent, c.To, c.From)
		}

		rc.Explicit = rc.Explicit && c.Explicit

		for _, f := range c.Fields() {
			typ, err := descriptor.RemapField(f.Signature.Type, s.MapClassName)
			if err != nil {
				return fmt.Errorf("reverse field %s.%s: %w", s.FullFrom(c), f.Signature.Name, err)
			}

			rc.CreateField(FieldSignature{Name: f.To, Type: typ}, f.Signature.Name)
		}

		for _, m := range c.Methods() {
			desc, err := descriptor.RemapMethod(m.Signature.Desc, s.MapClassName)
			if err != nil {
				return fmt.Errorf("reverse method %s.%s: %w", s.FullFrom(c), m.Signature, err)
			}

			rm := rc.CreateMethod(MethodSignature{Name: m.To, Desc: desc}, m.Signature.Name)
			for _, p := range m.Params() {
				rm.CreateParam(p.Index, p.To, p.From)
			}
		}

		for _, in := range s.InnerClasses(c) {
			if err := visit(in, rc); err != nil {
				return err
			}
		}

		return nil
	}

	for _, c := range s.TopLevelClasses() {
		if err := visit(c, nil); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// walk feeds a canonical token stream of the set to emit. Two sets with the
// same mappings produce the same stream regardless of insertion order or
// arena layout. The explicit flag is not part of the stream.
func (s *Set) walk(emit func(tokens ...string)) {
	emit("ns", s.FromNamespace, s.ToNamespace)

	for _, c := range s.AllClasses() {
		emit("c", s.FullFrom(c), s.FullTo(c))

		for _, f := range c.Fields() {
			emit("f", f.Signature.Name, f.Signature.Type, f.To)
		}

		for _, m := range c.Methods() {
			emit("m", m.Signature.Name, m.Signature.Desc, m.To)

			for _, p := range m.Params() {
				emit("p", strconv.Itoa(p.Index), p.From, p.To)
			}
		}
	}
}

// Fingerprint returns a hash of the canonical contents of the set.
func (s *Set) Fingerprint() uint64 {
	d := xxhash.New()

	s.walk(func(tokens ...string) {
		for _, t := range tokens {
			_, _ = d.WriteString(t)
			_, _ = d.Write([]byte{0})
		}

		_, _ = d.Write([]byte{'\n'})
	})

	return d.Sum64()
}

// Equal reports whether both sets hold exactly the same mappings.
func (s *Set) Equal(other *Set) bool {
	if s == nil || other == nil {
		return s == other
	}

	return slices.EqualFunc(s.tokens(), other.tokens(), slices.Equal[[]string])
}

func (s *Set) tokens() [][]string {
	var out [][]string

	s.walk(func(tokens ...string) {
		out = append(out, tokens)
	})

	return out
}
