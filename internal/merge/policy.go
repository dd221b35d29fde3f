package merge

import (
	"fmt"
	"strconv"

	"mapmerge/internal/mapping"
)

// Level is the kind of node a policy decides on.
type Level int

const (
	LevelClass Level = iota
	LevelInnerClass
	LevelField
	LevelMethod
	LevelParam
)

func (l Level) String() string {
	switch l {
	case LevelClass:
		return "class"
	case LevelInnerClass:
		return "inner class"
	case LevelField:
		return "field"
	case LevelMethod:
		return "method"
	case LevelParam:
		return "parameter"
	default:
		return "level(" + strconv.Itoa(int(l)) + ")"
	}
}

// Side tells which input set a node comes from.
type Side int

const (
	Left Side = iota
	Right
)

// Node is a read-only view of one mapping handed to a policy.
type Node struct {
	Level Level
	Side  Side
	// Owner is the full from-name of the enclosing class for inner classes
	// and members, and "owner.name desc" for parameters.
	Owner string
	From  string
	To    string
	// Desc is the field type or method descriptor, expressed in the from
	// namespace of the merge result.
	Desc  string
	Index int
	// Continued is set on right nodes keyed by the left set's to-namespace.
	Continued bool

	class  *mapping.Class
	method *mapping.Method
}

// Key identifies the node in error messages.
func (n *Node) Key() string {
	switch n.Level {
	case LevelClass:
		return n.From
	case LevelInnerClass:
		return n.Owner + "$" + n.From
	case LevelField:
		if n.Desc == "" {
			return n.Owner + "." + n.From
		}

		return n.Owner + "." + n.From + ":" + n.Desc
	case LevelMethod:
		return n.Owner + "." + n.From + n.Desc
	default:
		return n.Owner + "#" + strconv.Itoa(n.Index)
	}
}

func (n *Node) String() string {
	if n == nil {
		return "<none>"
	}

	return n.Key() + " -> " + n.To
}

// Decision is a policy's verdict for one node.
type Decision struct {
	// Drop leaves the node and its children out of the result.
	Drop bool
	From string
	Desc string
	To   string
	// Index is the LVT index of a parameter decision.
	Index int
	// Continue lists the right nodes whose children are merged into the
	// node created by this decision.
	Continue []*Node
}

// Dropped returns a decision that creates nothing.
func Dropped() Decision {
	return Decision{Drop: true}
}

// Create returns a decision creating a class or member mapping.
func Create(from, desc, to string, cont ...*Node) Decision {
	return Decision{From: from, Desc: desc, To: to, Continue: compact(cont)}
}

// CreateParam returns a decision creating a parameter mapping.
func CreateParam(index int, from, to string) Decision {
	return Decision{Index: index, From: from, To: to}
}

// Keep returns a decision copying n into the result unchanged.
func Keep(n *Node, cont ...*Node) Decision {
	if n.Level == LevelParam {
		return CreateParam(n.Index, n.From, n.To)
	}

	return Create(n.From, n.Desc, n.To, cont...)
}

func compact(nodes []*Node) []*Node {
	out := nodes[:0:0]

	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}

	return out
}

// Context gives a policy access to both inputs.
type Context struct {
	Left  *mapping.Set
	Right *mapping.Set
	// Owner is the full from-name of the class the node is being merged
	// into, or "" for top-level classes.
	Owner string
}

// LeftOwner returns the left class mapping of the current owner.
func (c *Context) LeftOwner() (*mapping.Class, bool) {
	if c.Owner == "" {
		return nil, false
	}

	return c.Left.Class(c.Owner)
}

// Policy decides how matched and unmatched nodes end up in the result.
type Policy interface {
	// Merge is called when only a continuation exists.
	Merge(ctx *Context, left, cont *Node) (Decision, error)
	// MergeDuplicate is called when a duplicate exists; cont may be nil.
	MergeDuplicate(ctx *Context, left, dup, cont *Node) (Decision, error)
	// AddLeft is called for left nodes without any right match.
	AddLeft(ctx *Context, left *Node) (Decision, error)
	// AddRight is called for right nodes no left node matched.
	AddRight(ctx *Context, right *Node) (Decision, error)
}

// ConflictError reports a pair of mappings a policy refused to merge.
type ConflictError struct {
	Level  Level
	Key    string
	Left   string
	Right  string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s: %s (left %s, right %s)", e.Level, e.Key, e.Reason, e.Left, e.Right)
}

// Conflict builds a ConflictError for a left node and its right match.
func Conflict(left, right *Node, reason string) *ConflictError {
	n := left
	if n == nil {
		n = right
	}

	return &ConflictError{
		Level:  n.Level,
		Key:    n.Key(),
		Left:   left.String(),
		Right:  right.String(),
		Reason: reason,
	}
}
