package diagnostic

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"mapmerge/internal/common"
)

// Diagnostics holds all diagnostic information from a run. It is safe for
// concurrent use.
type Diagnostics struct {
	mu       sync.Mutex
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity `yaml:"severity"`
	// Code is a unique identifier for this type of diagnostic.
	Code string `yaml:"code"`
	// Message is the human-readable description.
	Message string `yaml:"message"`
	// Class identifies which class mapping this relates to (if any).
	Class string `yaml:"class,omitempty"`
	// Member identifies which field or method this relates to (if any).
	Member string `yaml:"member,omitempty"`
	// Suggestions are potential fixes or alternatives.
	Suggestions []string `yaml:"suggestions,omitempty"`
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// MarshalYAML renders the severity by name.
func (s DiagnosticSeverity) MarshalYAML() (any, error) {
	return s.String(), nil
}

func (d *Diagnostics) add(list *[]Diagnostic, sev DiagnosticSeverity, code, message, class, member string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	*list = append(*list, Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  message,
		Class:    class,
		Member:   member,
	})
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, class, member string) {
	if d != nil {
		d.add(&d.Errors, DiagnosticError, code, message, class, member)
	}
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, class, member string) {
	if d != nil {
		d.add(&d.Warnings, DiagnosticWarning, code, message, class, member)
	}
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, class, member string) {
	if d != nil {
		d.add(&d.Infos, DiagnosticInfo, code, message, class, member)
	}
}

// AddMiss adds a warning about a name that could not be resolved, with
// candidate names for it.
func (d *Diagnostics) AddMiss(code, message, class string, suggestions []string) {
	if d == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.Warnings = append(d.Warnings, Diagnostic{
		Severity:    DiagnosticWarning,
		Code:        code,
		Message:     message,
		Class:       class,
		Suggestions: suggestions,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other *Diagnostics) {
	other.mu.Lock()
	errs := slices.Clone(other.Errors)
	warns := slices.Clone(other.Warnings)
	infos := slices.Clone(other.Infos)
	other.mu.Unlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	d.Errors = append(d.Errors, errs...)
	d.Warnings = append(d.Warnings, warns...)
	d.Infos = append(d.Infos, infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return !d.HasErrors()
}

// Sort orders every list by class, member, code and message. Parallel
// passes add diagnostics in no particular order.
func (d *Diagnostics) Sort() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, list := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
		slices.SortStableFunc(list, compare)
	}
}

func compare(a, b Diagnostic) int {
	if c := strings.Compare(a.Class, b.Class); c != 0 {
		return c
	}

	if c := strings.Compare(a.Member, b.Member); c != 0 {
		return c
	}

	if c := strings.Compare(a.Code, b.Code); c != 0 {
		return c
	}

	return strings.Compare(a.Message, b.Message)
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.Errors) == 0 {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Class != "" {
		prefix = append(prefix, "["+d.Class+"]")
	}

	if d.Member != "" {
		prefix = append(prefix, d.Member)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
