package hierarchy

import (
	"fmt"
	"slices"

	"mapmerge/internal/common"
	"mapmerge/internal/match"
)

// ObjectClass is the root of every class hierarchy.
const ObjectClass = "java/lang/Object"

// maxSuggestions bounds the "did you mean" list of a lookup miss.
const maxSuggestions = 3

// Root tells which part of the classpath a class came from.
type Root int

const (
	RootProgram Root = iota
	RootLibrary
	RootPlatform
)

// String returns the lowercase name of the Root.
func (r Root) String() string {
	switch r {
	case RootProgram:
		return "program"
	case RootLibrary:
		return "library"
	case RootPlatform:
		return "platform"
	default:
		return common.UnknownStr
	}
}

// ParseRoot parses a root name.
func ParseRoot(s string) (Root, error) {
	switch s {
	case "program", "":
		return RootProgram, nil
	case "library":
		return RootLibrary, nil
	case "platform":
		return RootPlatform, nil
	default:
		return 0, fmt.Errorf("unknown classpath root %q", s)
	}
}

type entry struct {
	data *ClassData
	root Root
}

// Graph is an in-memory Provider.
type Graph struct {
	classes map[string]entry
}

// NewGraph returns a graph holding only the built-in java/lang/Object.
func NewGraph() *Graph {
	g := &Graph{classes: make(map[string]entry)}
	g.classes[ObjectClass] = entry{
		data: &ClassData{
			Name:   ObjectClass,
			Access: AccPublic,
			Methods: []*MethodData{
				{Name: "<init>", Desc: "()V", Access: AccPublic},
				{Name: "equals", Desc: "(Ljava/lang/Object;)Z", Access: AccPublic},
				{Name: "hashCode", Desc: "()I", Access: AccPublic},
				{Name: "toString", Desc: "()Ljava/lang/String;", Access: AccPublic},
				{Name: "clone", Desc: "()Ljava/lang/Object;", Access: AccProtected},
				{Name: "finalize", Desc: "()V", Access: AccProtected},
			},
		},
		root: RootPlatform,
	}

	return g
}

// Add adds classes under the given root. A class already known from a root
// closer to the program (program before library before platform) wins; the
// same class twice in one root is an error.
func (g *Graph) Add(root Root, classes ...*ClassData) error {
	for _, c := range classes {
		if c == nil || c.Name == "" {
			return fmt.Errorf("class without a name in %s root", root)
		}

		if c.Name == ObjectClass {
			// the built-in is replaced by a real dump
			g.classes[c.Name] = entry{data: c, root: root}
			continue
		}

		if prev, ok := g.classes[c.Name]; ok {
			if prev.root == root {
				return fmt.Errorf("class %s declared twice in %s root", c.Name, root)
			}

			if prev.root < root {
				continue
			}
		}

		if c.Super == "" && !c.IsInterface() {
			c.Super = ObjectClass
		}

		g.classes[c.Name] = entry{data: c, root: root}
	}

	return nil
}

// Lookup implements Provider.
func (g *Graph) Lookup(name string) (*ClassData, error) {
	e, ok := g.classes[name]
	if !ok {
		return nil, &LookupMissError{Name: name}
	}

	return e.data, nil
}

// ProgramClasses implements Provider.
func (g *Graph) ProgramClasses() []string {
	var out []string

	for name, e := range g.classes {
		if e.root == RootProgram {
			out = append(out, name)
		}
	}

	slices.Sort(out)

	return out
}

// IsProgram returns true if name is a program class.
func (g *Graph) IsProgram(name string) bool {
	e, ok := g.classes[name]
	return ok && e.root == RootProgram
}

// RootOf returns the root a class was loaded into.
func (g *Graph) RootOf(name string) (Root, bool) {
	e, ok := g.classes[name]
	return e.root, ok
}

// Len returns the number of known classes.
func (g *Graph) Len() int {
	return len(g.classes)
}

// Suggest implements Suggester.
func (g *Graph) Suggest(name string) []string {
	return match.Suggest(name, common.SortedKeys(g.classes), match.DefaultThreshold, maxSuggestions).Names()
}
