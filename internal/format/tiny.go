package format

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"mapmerge/internal/mapping"
)

const tinyMagic = "tiny"

// ReadTiny reads a Tiny v2 mapping set in the namespace order of its header.
// name is only used in error messages.
func ReadTiny(r io.Reader, name string) (*mapping.Set, error) {
	var (
		set      *mapping.Set
		class    *mapping.Class
		method   *mapping.Method
		inHeader = true
	)

	err := scanLines(r, func(num int, line string) error {
		if set == nil {
			s, err := parseTinyHeader(name, num, line)
			if err != nil {
				return err
			}

			set = s

			return nil
		}

		depth := len(line) - len(strings.TrimLeft(line, "\t"))
		cols := strings.Split(line[depth:], "\t")

		if depth > 0 && cols[0] == "c" {
			return nil
		}

		switch {
		case depth == 0 && cols[0] == "c":
			inHeader = false
			method = nil

			if len(cols) != 3 || cols[1] == "" {
				return newFormatError(name, num, line, "class line needs 2 names")
			}

			to := cols[2]
			if to == "" {
				to = cols[1]
			}

			class = set.CreateClass(cols[1], to)
		case depth == 1 && (cols[0] == "f" || cols[0] == "m"):
			if class == nil {
				return newFormatError(name, num, line, "member outside of a class")
			}

			if len(cols) != 4 || cols[2] == "" || (cols[0] == "m" && cols[1] == "") {
				return newFormatError(name, num, line, "member line needs a descriptor and 2 names")
			}

			to := cols[3]
			if to == "" {
				to = cols[2]
			}

			if cols[0] == "f" {
				method = nil
				class.CreateField(mapping.FieldSignature{Name: cols[2], Type: cols[1]}, to)
			} else {
				method = class.CreateMethod(mapping.MethodSignature{Name: cols[2], Desc: cols[1]}, to)
			}
		case depth == 1 && inHeader:
			// header property
		case depth == 2 && cols[0] == "p":
			if method == nil {
				return newFormatError(name, num, line, "parameter outside of a method")
			}

			if len(cols) != 4 {
				return newFormatError(name, num, line, "parameter line needs an index and 2 names")
			}

			idx, err := strconv.Atoi(cols[1])
			if err != nil || idx < 0 {
				return newFormatError(name, num, line, "invalid parameter index %q", cols[1])
			}

			method.CreateParam(idx, cols[2], cols[3])
		case depth == 2 && cols[0] == "v":
			// local variables are not modelled
		default:
			return newFormatError(name, num, line, "unexpected %q line at depth %d", cols[0], depth)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if set == nil {
		return nil, newFormatError(name, 0, "", "missing tiny header")
	}

	return set, nil
}

// ReadTinyAs reads a Tiny v2 mapping set and returns it as from -> to. A file
// whose header declares the pair the other way around is reversed.
func ReadTinyAs(r io.Reader, name, from, to string) (*mapping.Set, error) {
	set, err := ReadTiny(r, name)
	if err != nil {
		return nil, err
	}

	switch {
	case set.FromNamespace == from && set.ToNamespace == to:
		return set, nil
	case set.FromNamespace == to && set.ToNamespace == from:
		reversed, err := set.Reverse()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		return reversed, nil
	default:
		return nil, newFormatError(name, 0, "", "namespaces %s -> %s not declared (header has %s -> %s)",
			from, to, set.FromNamespace, set.ToNamespace)
	}
}

func parseTinyHeader(name string, num int, line string) (*mapping.Set, error) {
	cols := strings.Split(line, "\t")
	if len(cols) < 3 || cols[0] != tinyMagic || cols[1] != "2" {
		return nil, newFormatError(name, num, line, "not a tiny v2 header")
	}

	ns := cols[3:]
	if len(ns) != 2 {
		return nil, newFormatError(name, num, line, "expected 2 namespaces, got %d", len(ns))
	}

	if ns[0] == "" || ns[1] == "" {
		return nil, newFormatError(name, num, line, "empty namespace name")
	}

	return mapping.NewSet(ns[0], ns[1]), nil
}

// WriteTiny writes s as Tiny v2.
func WriteTiny(w io.Writer, s *mapping.Set) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s\t2\t0\t%s\t%s\n", tinyMagic, s.FromNamespace, s.ToNamespace)

	for _, c := range writableClasses(s) {
		fmt.Fprintf(bw, "c\t%s\t%s\n", s.FullFrom(c), s.FullTo(c))

		for _, f := range c.Fields() {
			fmt.Fprintf(bw, "\tf\t%s\t%s\t%s\n", f.Signature.Type, f.Signature.Name, f.To)
		}

		for _, m := range c.Methods() {
			fmt.Fprintf(bw, "\tm\t%s\t%s\t%s\n", m.Signature.Desc, m.Signature.Name, m.To)

			for _, p := range m.Params() {
				fmt.Fprintf(bw, "\t\tp\t%d\t%s\t%s\n", p.Index, p.From, p.To)
			}
		}
	}

	return bw.Flush()
}

// writableClasses returns the classes a writer emits, sorted by full from-name.
func writableClasses(s *mapping.Set) []*mapping.Class {
	var out []*mapping.Class

	for _, c := range s.AllClasses() {
		if c.Explicit || c.HasMembers() {
			out = append(out, c)
		}
	}

	slices.SortStableFunc(out, func(a, b *mapping.Class) int {
		return strings.Compare(s.FullFrom(a), s.FullFrom(b))
	})

	return out
}
