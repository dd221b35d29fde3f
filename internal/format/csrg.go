package format

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"mapmerge/internal/mapping"
)

// ReadCSRG reads a CSRG rename list into a set over (from, to).
//
// Lines have 2 columns for classes ("obf deobf"), 3 for fields
// ("owner obf deobf") and 4 for methods ("owner obf desc deobf"). Package
// lines, whose first column ends in '/', are skipped.
func ReadCSRG(r io.Reader, name, from, to string) (*mapping.Set, error) {
	set := mapping.NewSet(from, to)

	err := scanLines(r, func(num int, line string) error {
		cols := strings.Fields(line)

		switch len(cols) {
		case 2:
			if strings.HasSuffix(cols[0], "/") {
				return nil
			}

			set.CreateClass(cols[0], cols[1])
		case 3:
			set.GetOrCreateClass(cols[0]).
				CreateField(mapping.FieldSignature{Name: cols[1]}, cols[2])
		case 4:
			if !strings.HasPrefix(cols[2], "(") {
				return newFormatError(name, num, line, "invalid method descriptor %q", cols[2])
			}

			set.GetOrCreateClass(cols[0]).
				CreateMethod(mapping.MethodSignature{Name: cols[1], Desc: cols[2]}, cols[3])
		default:
			return newFormatError(name, num, line, "expected 2 to 4 columns, got %d", len(cols))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return set, nil
}

// WriteCSRG writes s as CSRG: all class lines, then all field lines, then
// all method lines, each group sorted by owner and member. Field types and
// parameter mappings are not representable and are dropped.
func WriteCSRG(w io.Writer, s *mapping.Set) error {
	bw := bufio.NewWriter(w)
	classes := writableClasses(s)

	for _, c := range classes {
		if c.Explicit {
			fmt.Fprintf(bw, "%s %s\n", s.FullFrom(c), s.FullTo(c))
		}
	}

	for _, c := range classes {
		owner := s.FullFrom(c)
		seen := make(map[string]bool)

		for _, f := range c.Fields() {
			if seen[f.Signature.Name] {
				continue
			}

			seen[f.Signature.Name] = true
			fmt.Fprintf(bw, "%s %s %s\n", owner, f.Signature.Name, f.To)
		}
	}

	for _, c := range classes {
		owner := s.FullFrom(c)
		for _, m := range c.Methods() {
			fmt.Fprintf(bw, "%s %s %s %s\n", owner, m.Signature.Name, m.Signature.Desc, m.To)
		}
	}

	return bw.Flush()
}
