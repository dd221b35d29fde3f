package format

import (
	"io"
	"strings"
	"unicode"

	"mapmerge/internal/descriptor"
	"mapmerge/internal/mapping"
)

const proguardArrow = " -> "

// ReadProguard reads a Proguard mapping list. The returned set maps from
// the named namespace to the obfuscated one, i.e. (named, obf) with the
// namespace names given by the caller.
//
//	net.minecraft.Foo -> a:
//	    int count -> b
//	    12:14:void tick(int,java.lang.String):30:32 -> c
func ReadProguard(r io.Reader, name, named, obf string) (*mapping.Set, error) {
	set := mapping.NewSet(named, obf)

	var class *mapping.Class

	err := scanLines(r, func(num int, line string) error {
		indented := line[0] == ' ' || line[0] == '\t'
		line = strings.TrimSpace(line)

		left, right, ok := strings.Cut(line, proguardArrow)
		if !ok {
			return newFormatError(name, num, line, "missing %q", strings.TrimSpace(proguardArrow))
		}

		if !indented {
			if !strings.HasSuffix(right, ":") {
				return newFormatError(name, num, line, "class line must end with ':'")
			}

			class = set.CreateClass(
				descriptor.InternalName(left),
				descriptor.InternalName(strings.TrimSuffix(right, ":")),
			)

			return nil
		}

		if class == nil {
			return newFormatError(name, num, line, "member outside of a class")
		}

		if strings.Contains(left, "(") {
			return readProguardMethod(class, name, num, line, left, right)
		}

		typ, field, ok := strings.Cut(left, " ")
		if !ok || field == "" {
			return newFormatError(name, num, line, "field line needs a type and a name")
		}

		t, err := descriptor.FromJava(typ)
		if err != nil {
			return newFormatError(name, num, line, "%v", err)
		}

		class.CreateField(mapping.FieldSignature{Name: field, Type: t.String()}, right)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return set, nil
}

func readProguardMethod(class *mapping.Class, file string, num int, line, left, obfName string) error {
	left = strings.TrimLeftFunc(left, func(r rune) bool {
		return unicode.IsDigit(r) || r == ':'
	})

	closing := strings.LastIndexByte(left, ')')
	if closing < 0 {
		return newFormatError(file, num, line, "unterminated parameter list")
	}

	// drop the trailing ":from:to" original line numbers
	left = left[:closing+1]

	ret, rest, ok := strings.Cut(left, " ")
	if !ok {
		return newFormatError(file, num, line, "method line needs a return type")
	}

	open := strings.IndexByte(rest, '(')
	if open <= 0 {
		return newFormatError(file, num, line, "method line needs a name")
	}

	desc, err := descriptor.FromJavaMethod(ret, rest[open+1:len(rest)-1])
	if err != nil {
		return newFormatError(file, num, line, "%v", err)
	}

	class.CreateMethod(mapping.MethodSignature{Name: rest[:open], Desc: desc.String()}, obfName)

	return nil
}
