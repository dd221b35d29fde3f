package descriptor

// NameMapper maps an internal class name to its name in another namespace.
type NameMapper func(class string) string

// MapType rewrites every class name referenced by t through fn. Primitive
// types are returned unchanged. Each class name is passed to fn exactly once.
func MapType(t Type, fn NameMapper) Type {
	switch t.Kind {
	case KindObject:
		return Object(fn(t.Class))
	case KindArray:
		if t.Elem == nil {
			return t
		}

		return ArrayOf(MapType(*t.Elem, fn))
	default:
		return t
	}
}

// MapMethod rewrites the parameter and return types of m through fn.
// The return type goes through the same single substitution as parameters,
// whether it is an object, an array, a primitive or void.
func MapMethod(m Method, fn NameMapper) Method {
	out := Method{
		Params: make([]Type, len(m.Params)),
		Return: MapType(m.Return, fn),
	}

	for i, p := range m.Params {
		out.Params[i] = MapType(p, fn)
	}

	return out
}

// RemapField parses a field descriptor, maps it and renders it back.
// An empty descriptor stays empty: some formats omit field types.
func RemapField(desc string, fn NameMapper) (string, error) {
	if desc == "" {
		return "", nil
	}

	t, err := ParseField(desc)
	if err != nil {
		return "", err
	}

	return MapType(t, fn).String(), nil
}

// RemapMethod parses a method descriptor, maps it and renders it back.
func RemapMethod(desc string, fn NameMapper) (string, error) {
	m, err := ParseMethod(desc)
	if err != nil {
		return "", err
	}

	return MapMethod(m, fn).String(), nil
}

// Identity is a NameMapper that returns its input.
func Identity(class string) string {
	return class
}
