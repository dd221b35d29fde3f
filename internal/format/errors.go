package format

import "fmt"

// FormatError describes a malformed line in a mapping file.
type FormatError struct {
	File string
	Line int // 1-based, 0 when the error is not tied to a line
	Text string
	Msg  string
}

func (e *FormatError) Error() string {
	name := e.File
	if name == "" {
		name = "<input>"
	}

	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", name, e.Msg)
	}

	return fmt.Sprintf("%s:%d: %s: %q", name, e.Line, e.Msg, e.Text)
}

func newFormatError(file string, line int, text, format string, args ...any) *FormatError {
	return &FormatError{
		File: file,
		Line: line,
		Text: text,
		Msg:  fmt.Sprintf(format, args...),
	}
}
