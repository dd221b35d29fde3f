package hierarchy

import (
	"errors"
	"fmt"
	"strings"
)

// Provider is a read-only source of class structure.
type Provider interface {
	// Lookup returns the class with the given internal name, or a
	// *LookupMissError if it is unknown.
	Lookup(name string) (*ClassData, error)
	// ProgramClasses returns the names of the classes being mapped, sorted.
	ProgramClasses() []string
}

// Suggester is implemented by providers that can propose similar class
// names for a lookup miss.
type Suggester interface {
	Suggest(name string) []string
}

// LookupMissError is returned for classes the provider does not know.
type LookupMissError struct {
	Name string
	// Referrer is the class that referenced Name, if any.
	Referrer    string
	Suggestions []string
}

func (e *LookupMissError) Error() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "class %s not found", e.Name)

	if e.Referrer != "" {
		fmt.Fprintf(&sb, " (referenced by %s)", e.Referrer)
	}

	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&sb, "; did you mean %s?", strings.Join(e.Suggestions, ", "))
	}

	return sb.String()
}

// IsLookupMiss returns true if err is or wraps a *LookupMissError.
func IsLookupMiss(err error) bool {
	var miss *LookupMissError
	return errors.As(err, &miss)
}

// missFor builds a fatal miss error for name, with suggestions when the
// provider can make them.
func missFor(p Provider, name, referrer string) *LookupMissError {
	miss := &LookupMissError{Name: name, Referrer: referrer}

	if s, ok := p.(Suggester); ok {
		miss.Suggestions = s.Suggest(name)
	}

	return miss
}

// CycleError reports an inheritance cycle.
type CycleError struct {
	Classes []string
}

func (e *CycleError) Error() string {
	return "inheritance cycle among " + strings.Join(e.Classes, ", ")
}
