package complete

import (
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"mapmerge/internal/mapping"
)

// CaseOnlyNameChanges records top-level class renames that only change
// letter case. It does not change the set.
type CaseOnlyNameChanges struct {
	mu      sync.Mutex
	changes []mapping.ClassNameChange
}

func (*CaseOnlyNameChanges) Name() string { return "CaseOnlyNameChanges" }

func (c *CaseOnlyNameChanges) Contribute(cc *ClassContext) error {
	m := cc.Mapping
	if m == nil || !m.IsTopLevel() || !m.IsRenamed() || !strings.EqualFold(m.From, m.To) {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.changes = append(c.changes, mapping.ClassNameChange{ObfName: m.From, DeobfName: m.To})

	return nil
}

// Changes returns the recorded renames sorted by from-name.
func (c *CaseOnlyNameChanges) Changes() []mapping.ClassNameChange {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]mapping.ClassNameChange, len(c.changes))
	copy(out, c.changes)

	sortNameChanges(out)

	return out
}

// AnonymousClassRenames moves anonymous class mappings that rename one
// index to another (Foo$1 -> Foo$2) so that the from-name carries the
// target index. Swapping two classes directly would collide, so the class
// is first moved to the target index plus a temporary tag, and
// CleanupAnonymousClassRenames strips the tag in the next pass.
type AnonymousClassRenames struct {
	Tag string
}

// NewAnonymousClassRenames returns the pair of contributors sharing a
// fresh temporary tag. They must run in consecutive links.
func NewAnonymousClassRenames() (*AnonymousClassRenames, *CleanupAnonymousClassRenames) {
	tag := "-anon-" + strings.ReplaceAll(uuid.NewString(), "-", "")
	return &AnonymousClassRenames{Tag: tag}, &CleanupAnonymousClassRenames{Tag: tag}
}

func (*AnonymousClassRenames) Name() string { return "AnonymousClassRenames" }

func (a *AnonymousClassRenames) Contribute(cc *ClassContext) error {
	m := cc.Mapping
	if m == nil || m.IsTopLevel() {
		return nil
	}

	from, err := strconv.Atoi(m.From)
	if err != nil {
		return nil
	}

	to, err := strconv.Atoi(m.To)
	if err != nil || from == to {
		return nil
	}

	cc.Submit(&MoveClass{target: ClassTarget(cc.Name), NewFrom: m.To + a.Tag})

	return nil
}

// CleanupAnonymousClassRenames strips the temporary tag added by
// AnonymousClassRenames.
type CleanupAnonymousClassRenames struct {
	Tag string
}

func (*CleanupAnonymousClassRenames) Name() string { return "CleanupAnonymousClassRenames" }

func (c *CleanupAnonymousClassRenames) Contribute(cc *ClassContext) error {
	m := cc.Mapping
	if m == nil || c.Tag == "" || !strings.HasSuffix(m.From, c.Tag) {
		return nil
	}

	cc.Submit(&MoveClass{target: ClassTarget(cc.Name), NewFrom: strings.TrimSuffix(m.From, c.Tag)})

	return nil
}

func sortNameChanges(changes []mapping.ClassNameChange) {
	slices.SortFunc(changes, func(a, b mapping.ClassNameChange) int {
		if c := strings.Compare(a.ObfName, b.ObfName); c != 0 {
			return c
		}

		return strings.Compare(a.DeobfName, b.DeobfName)
	})
}
