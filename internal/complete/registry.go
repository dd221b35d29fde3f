package complete

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"mapmerge/internal/diagnostic"
)

type entry struct {
	source string
	change Change
}

// Registry collects the changes of one pass. It is safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	entries map[Target][]entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Target][]entry)}
}

// Submit records c on behalf of the class source.
func (r *Registry) Submit(source string, c Change) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := c.Target()
	r.entries[t] = append(r.entries[t], entry{source: source, change: c})
}

// Len returns the number of submitted changes.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, e := range r.entries {
		n += len(e)
	}

	return n
}

// Resolve folds the changes per target and returns them in apply order:
// member changes first, then class changes, inner classes first. A
// RemoveMember absorbs every other change to the same member.
func (r *Registry) Resolve(diag *diagnostic.Diagnostics) ([]Change, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	targets := make([]Target, 0, len(r.entries))
	for t := range r.entries {
		targets = append(targets, t)
	}

	slices.SortFunc(targets, compareTargets)

	out := make([]Change, 0, len(targets))

	for _, t := range targets {
		entries := r.entries[t]
		slices.SortStableFunc(entries, func(a, b entry) int {
			return cmp.Compare(a.source, b.source)
		})

		acc := entries[0].change

		for _, e := range entries[1:] {
			next := e.change

			if reflect.DeepEqual(acc, next) {
				continue
			}

			if _, ok := next.(*RemoveMember); ok {
				acc = next
				continue
			}

			if _, ok := acc.(*RemoveMember); ok {
				continue
			}

			m, ok := acc.(Mergeable)
			if !ok || reflect.TypeOf(acc) != reflect.TypeOf(next) {
				return nil, &ChangeConflictError{Target: t, First: acc.String(), Second: next.String()}
			}

			merged, err := m.MergeWith(next, diag)
			if err != nil {
				return nil, err
			}

			acc = merged
		}

		out = append(out, acc)
	}

	return out, nil
}

// ChangeConflictError reports two changes for one target that cannot be
// combined.
type ChangeConflictError struct {
	Target Target
	First  string
	Second string
}

func (e *ChangeConflictError) Error() string {
	return fmt.Sprintf("conflicting changes for %s: %s / %s", e.Target, e.First, e.Second)
}

// ReindexConflictError reports two parameter moves for one method that
// overlap.
type ReindexConflictError struct {
	Target Target
	Index  int
	Reason string
}

func (e *ReindexConflictError) Error() string {
	return fmt.Sprintf("cannot reindex parameters of %s: %s (index %d)", e.Target, e.Reason, e.Index)
}
