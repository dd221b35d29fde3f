package format

import (
	"bufio"
	"io"
	"strings"
	"unicode"
)

// StripComment removes a trailing comment from line: the first '#', all
// text after it and any whitespace directly before it.
func StripComment(line string) string {
	i := strings.IndexByte(line, '#')
	if i < 0 {
		return line
	}

	return strings.TrimRightFunc(line[:i], unicode.IsSpace)
}

// maxLineSize bounds a single mapping line; descriptors of generated code
// can be long.
const maxLineSize = 1 << 20

// scanLines calls fn for every line of r that is not blank once its comment
// is stripped. Line numbers are 1-based and count every physical line.
func scanLines(r io.Reader, fn func(num int, line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	num := 0
	for sc.Scan() {
		num++

		line := strings.TrimRight(StripComment(sc.Text()), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if err := fn(num, line); err != nil {
			return err
		}
	}

	return sc.Err()
}
