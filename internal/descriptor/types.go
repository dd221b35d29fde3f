package descriptor

import (
	"fmt"
	"strings"

	"mapmerge/internal/common"
)

// Kind represents the kind of a JVM type.
type Kind int

const (
	KindInvalid Kind = iota
	KindVoid         // V, only valid as a return type
	KindBoolean      // Z
	KindByte         // B
	KindChar         // C
	KindShort        // S
	KindInt          // I
	KindLong         // J
	KindFloat        // F
	KindDouble       // D
	KindObject       // L<internal name>;
	KindArray        // [<elem>
)

var primitiveCodes = map[byte]Kind{
	'V': KindVoid,
	'Z': KindBoolean,
	'B': KindByte,
	'C': KindChar,
	'S': KindShort,
	'I': KindInt,
	'J': KindLong,
	'F': KindFloat,
	'D': KindDouble,
}

var primitiveByKind = func() map[Kind]byte {
	m := make(map[Kind]byte, len(primitiveCodes))
	for code, k := range primitiveCodes {
		m[k] = code
	}

	return m
}()

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindBoolean:
		return "boolean"
	case KindByte:
		return "byte"
	case KindChar:
		return "char"
	case KindShort:
		return "short"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return common.UnknownStr
	}
}

// IsPrimitive returns true for the eight primitive kinds and void.
func (k Kind) IsPrimitive() bool {
	return k >= KindVoid && k <= KindDouble
}

// Type is a parsed field type.
type Type struct {
	Kind  Kind
	Class string // internal name for KindObject
	Elem  *Type  // element type for KindArray
}

// Object returns the object type for an internal class name.
func Object(class string) Type {
	return Type{Kind: KindObject, Class: class}
}

// Primitive returns the primitive type for a descriptor code such as 'I'.
func Primitive(code byte) (Type, bool) {
	k, ok := primitiveCodes[code]
	if !ok {
		return Type{}, false
	}

	return Type{Kind: k}, true
}

// ArrayOf returns an array type of the given element.
func ArrayOf(elem Type) Type {
	return Type{Kind: KindArray, Elem: &elem}
}

// Size returns the number of local variable slots the type occupies.
func (t Type) Size() int {
	switch t.Kind {
	case KindVoid:
		return 0
	case KindLong, KindDouble:
		return 2
	default:
		return 1
	}
}

// IsReference returns true for object and array types.
func (t Type) IsReference() bool {
	return t.Kind == KindObject || t.Kind == KindArray
}

// Base returns the innermost element type of an array, or t itself.
func (t Type) Base() Type {
	for t.Kind == KindArray && t.Elem != nil {
		t = *t.Elem
	}

	return t
}

// Dims returns the array dimension count of t.
func (t Type) Dims() int {
	n := 0
	for t.Kind == KindArray && t.Elem != nil {
		n++
		t = *t.Elem
	}

	return n
}

// String returns the descriptor form of the type.
func (t Type) String() string {
	var sb strings.Builder
	t.write(&sb)

	return sb.String()
}

func (t Type) write(sb *strings.Builder) {
	switch t.Kind {
	case KindObject:
		sb.WriteByte('L')
		sb.WriteString(t.Class)
		sb.WriteByte(';')
	case KindArray:
		sb.WriteByte('[')
		if t.Elem != nil {
			t.Elem.write(sb)
		}
	default:
		if code, ok := primitiveByKind[t.Kind]; ok {
			sb.WriteByte(code)
		}
	}
}

// Method is a parsed method descriptor.
type Method struct {
	Params []Type
	Return Type
}

// String returns the descriptor form of the method.
func (m Method) String() string {
	var sb strings.Builder

	sb.WriteByte('(')
	for _, p := range m.Params {
		p.write(&sb)
	}
	sb.WriteByte(')')
	m.Return.write(&sb)

	return sb.String()
}

// ParamSlots returns the number of local variable slots taken by the
// parameters, not counting the receiver.
func (m Method) ParamSlots() int {
	n := 0
	for _, p := range m.Params {
		n += p.Size()
	}

	return n
}

// ParseField parses a single field descriptor.
func ParseField(s string) (Type, error) {
	t, n, err := parseType(s, 0)
	if err != nil {
		return Type{}, err
	}

	if n != len(s) {
		return Type{}, fmt.Errorf("invalid field descriptor %q: trailing data at %d", s, n)
	}

	if t.Kind == KindVoid {
		return Type{}, fmt.Errorf("invalid field descriptor %q: void is not a field type", s)
	}

	return t, nil
}

// ParseMethod parses a method descriptor.
func ParseMethod(s string) (Method, error) {
	if len(s) < 3 || s[0] != '(' {
		return Method{}, fmt.Errorf("invalid method descriptor %q", s)
	}

	var m Method

	i := 1
	for i < len(s) && s[i] != ')' {
		t, n, err := parseType(s, i)
		if err != nil {
			return Method{}, err
		}

		if t.Kind == KindVoid {
			return Method{}, fmt.Errorf("invalid method descriptor %q: void parameter", s)
		}

		m.Params = append(m.Params, t)
		i = n
	}

	if i >= len(s) {
		return Method{}, fmt.Errorf("invalid method descriptor %q: missing ')'", s)
	}

	ret, n, err := parseType(s, i+1)
	if err != nil {
		return Method{}, err
	}

	if n != len(s) {
		return Method{}, fmt.Errorf("invalid method descriptor %q: trailing data at %d", s, n)
	}

	m.Return = ret

	return m, nil
}

func parseType(s string, i int) (Type, int, error) {
	if i >= len(s) {
		return Type{}, i, fmt.Errorf("invalid descriptor %q: unexpected end", s)
	}

	c := s[i]
	switch c {
	case 'L':
		end := strings.IndexByte(s[i:], ';')
		if end < 2 {
			return Type{}, i, fmt.Errorf("invalid descriptor %q: unterminated class at %d", s, i)
		}

		return Object(s[i+1 : i+end]), i + end + 1, nil
	case '[':
		elem, n, err := parseType(s, i+1)
		if err != nil {
			return Type{}, n, err
		}

		if elem.Kind == KindVoid {
			return Type{}, n, fmt.Errorf("invalid descriptor %q: array of void", s)
		}

		return ArrayOf(elem), n, nil
	default:
		t, ok := Primitive(c)
		if !ok {
			return Type{}, i, fmt.Errorf("invalid descriptor %q: unexpected %q at %d", s, c, i)
		}

		return t, i + 1, nil
	}
}
