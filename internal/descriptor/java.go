package descriptor

import (
	"fmt"
	"strings"
)

var javaPrimitives = map[string]Kind{
	"void":    KindVoid,
	"boolean": KindBoolean,
	"byte":    KindByte,
	"char":    KindChar,
	"short":   KindShort,
	"int":     KindInt,
	"long":    KindLong,
	"float":   KindFloat,
	"double":  KindDouble,
}

// InternalName converts a binary Java class name ("a.b.C$D") to its
// internal form ("a/b/C$D").
func InternalName(javaName string) string {
	return strings.ReplaceAll(javaName, ".", "/")
}

// FromJava parses a Java source-style type name such as "int",
// "java.lang.String" or "a.b.C[][]".
func FromJava(name string) (Type, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Type{}, fmt.Errorf("empty java type")
	}

	dims := 0
	for strings.HasSuffix(name, "[]") {
		dims++
		name = strings.TrimSuffix(name, "[]")
	}

	var t Type
	if k, ok := javaPrimitives[name]; ok {
		t = Type{Kind: k}
	} else {
		t = Object(InternalName(name))
	}

	if dims > 0 && t.Kind == KindVoid {
		return Type{}, fmt.Errorf("invalid java type %q: array of void", name)
	}

	for range dims {
		t = ArrayOf(t)
	}

	return t, nil
}

// FromJavaMethod builds a method descriptor from a Java return type and a
// comma separated parameter list, e.g. ("void", "int,java.lang.String").
func FromJavaMethod(ret, params string) (Method, error) {
	r, err := FromJava(ret)
	if err != nil {
		return Method{}, err
	}

	m := Method{Return: r}

	params = strings.TrimSpace(params)
	if params == "" {
		return m, nil
	}

	for _, p := range strings.Split(params, ",") {
		t, err := FromJava(p)
		if err != nil {
			return Method{}, err
		}

		if t.Kind == KindVoid {
			return Method{}, fmt.Errorf("invalid java parameter type %q", p)
		}

		m.Params = append(m.Params, t)
	}

	return m, nil
}
