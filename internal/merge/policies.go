package merge

import (
	"strings"
)

// StrictPolicy keeps left names, adds right-only mappings and treats every
// continuation and every parameter collision as a conflict.
type StrictPolicy struct{}

var _ Policy = StrictPolicy{}

func (StrictPolicy) Merge(_ *Context, left, cont *Node) (Decision, error) {
	return Decision{}, Conflict(left, cont, "mapping continues into the right set")
}

func (StrictPolicy) MergeDuplicate(_ *Context, left, dup, _ *Node) (Decision, error) {
	switch left.Level {
	case LevelField:
		return Keep(left), nil
	case LevelParam:
		return Decision{}, Conflict(left, dup, "parameter mapped on both sides")
	default:
		return Keep(left, dup), nil
	}
}

func (StrictPolicy) AddLeft(_ *Context, left *Node) (Decision, error) {
	return Keep(left), nil
}

func (StrictPolicy) AddRight(_ *Context, right *Node) (Decision, error) {
	return Keep(right, right), nil
}

// SuppressRightPolicy is StrictPolicy except that right-only classes, fields
// and methods are dropped. Right-only parameters of matched methods are
// still added.
type SuppressRightPolicy struct {
	StrictPolicy
}

var _ Policy = SuppressRightPolicy{}

func (p SuppressRightPolicy) AddRight(ctx *Context, right *Node) (Decision, error) {
	if right.Level == LevelParam {
		return p.StrictPolicy.AddRight(ctx, right)
	}

	return Dropped(), nil
}

// ChainPolicy lets right names win wherever both sides map a node and keeps
// everything else. It is the policy for composing a -> b with b -> c.
type ChainPolicy struct{}

var _ Policy = ChainPolicy{}

func (ChainPolicy) Merge(_ *Context, left, cont *Node) (Decision, error) {
	if left.Level == LevelParam {
		return CreateParam(left.Index, left.From, cont.To), nil
	}

	return Create(left.From, left.Desc, cont.To, cont), nil
}

func (ChainPolicy) MergeDuplicate(_ *Context, left, dup, cont *Node) (Decision, error) {
	if left.Level == LevelParam {
		return CreateParam(left.Index, left.From, dup.To), nil
	}

	return Create(left.From, left.Desc, dup.To, dup, cont), nil
}

func (ChainPolicy) AddLeft(_ *Context, left *Node) (Decision, error) {
	return Keep(left), nil
}

func (ChainPolicy) AddRight(_ *Context, right *Node) (Decision, error) {
	return Keep(right, right), nil
}

// AuthorityPolicy treats the left set as authoritative for names and the
// right set as the source of the complete class list and signatures.
//
// Top-level classes without a package are moved into Package. Fields only
// one side maps are dropped. Methods only one side maps survive when a
// known synthetic method links them to a base method. Left-only or
// continued classes are conflicts.
type AuthorityPolicy struct {
	Package string
	Synths  SynthTable
}

var _ Policy = (*AuthorityPolicy)(nil)

func (p *AuthorityPolicy) prependPackage(name string) string {
	if strings.Contains(name, "/") {
		return name
	}

	return p.Package + name
}

func (p *AuthorityPolicy) Merge(_ *Context, left, cont *Node) (Decision, error) {
	return Decision{}, Conflict(left, cont, "mapping continues into the right set")
}

func (p *AuthorityPolicy) MergeDuplicate(ctx *Context, left, dup, _ *Node) (Decision, error) {
	switch left.Level {
	case LevelClass:
		return Create(left.From, "", p.prependPackage(left.To), dup), nil
	case LevelInnerClass:
		return Create(left.From, "", left.To, dup), nil
	case LevelField:
		desc := dup.Desc
		if desc == "" {
			desc = left.Desc
		}

		return Create(dup.From, desc, left.To), nil
	case LevelMethod:
		synth, ok := p.Synths.Synth(ctx.Owner, left.Desc, left.From)
		if !ok {
			return Create(left.From, left.Desc, left.To), nil
		}

		if owner, ok := ctx.LeftOwner(); ok {
			if _, ok := owner.Method(methodSig(synth, left.Desc)); ok {
				return Create(synth, left.Desc, left.To), nil
			}
		}

		return Create(left.From, left.Desc, synth), nil
	default:
		return Decision{}, Conflict(left, dup, "parameter mapped on both sides")
	}
}

func (p *AuthorityPolicy) AddLeft(ctx *Context, left *Node) (Decision, error) {
	switch left.Level {
	case LevelClass, LevelInnerClass:
		return Decision{}, Conflict(left, nil, "class missing from the right set")
	case LevelField:
		return Dropped(), nil
	case LevelMethod:
		base, ok := p.Synths.Base(ctx.Owner, left.Desc, left.From)
		if !ok {
			return Dropped(), nil
		}

		return Create(base, left.Desc, left.To), nil
	default:
		return Keep(left), nil
	}
}

func (p *AuthorityPolicy) AddRight(ctx *Context, right *Node) (Decision, error) {
	switch right.Level {
	case LevelClass:
		return Create(right.From, "", p.prependPackage(right.From), right), nil
	case LevelInnerClass:
		return Create(right.From, "", right.From, right), nil
	case LevelField:
		return Dropped(), nil
	case LevelMethod:
		synth, ok := p.Synths.Synth(ctx.Owner, right.Desc, right.From)
		if !ok {
			return Dropped(), nil
		}

		to := synth

		if owner, ok := ctx.LeftOwner(); ok {
			if m, ok := owner.Method(methodSig(synth, right.Desc)); ok {
				to = m.To
			}
		}

		return Create(right.From, right.Desc, to), nil
	default:
		return Keep(right), nil
	}
}
