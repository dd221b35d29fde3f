package merge

import (
	"fmt"

	"mapmerge/internal/descriptor"
	"mapmerge/internal/mapping"
)

type engine struct {
	left, right, out *mapping.Set
	policy           Policy
	chained          bool

	inverse *mapping.Set
	seen    map[any]struct{}
}

// Merge merges right into left under policy and returns a new set. Neither
// input is modified.
func Merge(left, right *mapping.Set, policy Policy) (*mapping.Set, error) {
	e := &engine{
		left:   left,
		right:  right,
		policy: policy,
		seen:   make(map[any]struct{}),
	}

	switch {
	case left.FromNamespace == right.FromNamespace:
		e.out = mapping.NewSet(left.FromNamespace, left.ToNamespace)
	case left.ToNamespace == right.FromNamespace:
		e.chained = true
		e.out = mapping.NewSet(left.FromNamespace, right.ToNamespace)
	default:
		return nil, fmt.Errorf("cannot merge %s -> %s with %s -> %s: no shared namespace",
			left.FromNamespace, left.ToNamespace, right.FromNamespace, right.ToNamespace)
	}

	inv, err := left.Reverse()
	if err != nil {
		return nil, fmt.Errorf("reversing left mappings: %w", err)
	}

	e.inverse = inv

	for _, lc := range left.TopLevelClasses() {
		if err := e.mergeClass(nil, lc, nil); err != nil {
			return nil, err
		}
	}

	for _, rc := range right.TopLevelClasses() {
		if e.isSeen(rc) {
			continue
		}

		n := e.rightClassNode("", rc, e.chained)
		if err := e.apply(nil, nil, n, func(ctx *Context) (Decision, error) {
			return e.policy.AddRight(ctx, n)
		}); err != nil {
			return nil, err
		}
	}

	return e.out, nil
}

func (e *engine) mark(v any) {
	e.seen[v] = struct{}{}
}

func (e *engine) isSeen(v any) bool {
	_, ok := e.seen[v]
	return ok
}

func (e *engine) context(owner *mapping.Class) *Context {
	ctx := &Context{Left: e.left, Right: e.right}
	if owner != nil {
		ctx.Owner = e.out.FullFrom(owner)
	}

	return ctx
}

// backField maps a descriptor of a right node keyed by the left
// to-namespace into the result's from-namespace.
func (e *engine) backField(typ string, continued bool) string {
	if !continued || typ == "" {
		return typ
	}

	out, err := descriptor.RemapField(typ, e.inverse.MapClassName)
	if err != nil {
		return typ
	}

	return out
}

func (e *engine) backMethod(desc string, continued bool) string {
	if !continued {
		return desc
	}

	out, err := descriptor.RemapMethod(desc, e.inverse.MapClassName)
	if err != nil {
		return desc
	}

	return out
}

func (e *engine) rightClassNode(owner string, c *mapping.Class, continued bool) *Node {
	lvl := LevelClass
	from := c.From

	if owner != "" {
		lvl = LevelInnerClass
	} else if continued {
		from = e.inverse.MapClassName(c.From)
	}

	return &Node{Level: lvl, Side: Right, Owner: owner, From: from, To: c.To, Continued: continued, class: c}
}

func (e *engine) apply(parent *mapping.Class, left *mapping.Class, n *Node, decide func(*Context) (Decision, error)) error {
	d, err := decide(e.context(parent))
	if err != nil {
		return err
	}

	if d.Drop {
		return nil
	}

	var c *mapping.Class
	if parent == nil {
		c = e.out.CreateTopLevelClass(d.From, d.To)
	} else {
		c = e.out.CreateInnerClass(parent, d.From, d.To)
	}

	return e.mergeChildren(c, left, continuations(d.Continue, true))
}

// continuations filters the right nodes of a decision that can carry
// children.
func continuations(nodes []*Node, class bool) []*Node {
	var out []*Node

	for _, n := range nodes {
		if n.Side != Right {
			continue
		}

		if class && n.class != nil || !class && n.method != nil {
			out = append(out, n)
		}
	}

	return out
}

// mergeClass merges one left class into the result below parent. rights
// are the right classes the parent continues into.
func (e *engine) mergeClass(parent *mapping.Class, lc *mapping.Class, rights []*Node) error {
	var dup, cont *Node

	if parent == nil {
		if rc, ok := e.right.TopLevelClass(lc.From); ok {
			dup = &Node{Level: LevelClass, Side: Right, From: rc.From, To: rc.To, class: rc}
		}

		if rc, ok := e.right.TopLevelClass(lc.To); ok {
			cont = &Node{Level: LevelClass, Side: Right, From: lc.From, To: rc.To, Continued: true, class: rc}
		}
	} else {
		owner := e.out.FullFrom(parent)
		for _, rp := range rights {
			if rc, ok := e.right.InnerClass(rp.class, lc.From); ok && dup == nil {
				dup = &Node{Level: LevelInnerClass, Side: Right, Owner: owner, From: rc.From, To: rc.To, Continued: rp.Continued, class: rc}
			}

			if rc, ok := e.right.InnerClass(rp.class, lc.To); ok && cont == nil {
				cont = &Node{Level: LevelInnerClass, Side: Right, Owner: owner, From: lc.From, To: rc.To, Continued: true, class: rc}
			}
		}
	}

	l := &Node{Level: LevelClass, Side: Left, From: lc.From, To: lc.To, class: lc}
	if parent != nil {
		l.Level = LevelInnerClass
		l.Owner = e.out.FullFrom(parent)
	}

	for _, n := range []*Node{dup, cont} {
		if n != nil {
			e.mark(n.class)
		}
	}

	return e.apply(parent, lc, l, func(ctx *Context) (Decision, error) {
		return e.decide(ctx, l, dup, cont)
	})
}

func (e *engine) decide(ctx *Context, l, dup, cont *Node) (Decision, error) {
	switch {
	case dup != nil:
		return e.policy.MergeDuplicate(ctx, l, dup, cont)
	case cont != nil:
		return e.policy.Merge(ctx, l, cont)
	default:
		return e.policy.AddLeft(ctx, l)
	}
}

func (e *engine) mergeChildren(c, lc *mapping.Class, rights []*Node) error {
	owner := e.out.FullFrom(c)

	if lc != nil {
		for _, f := range lc.Fields() {
			if err := e.mergeField(c, f, rights); err != nil {
				return err
			}
		}
	}

	for _, rp := range rights {
		for _, f := range rp.class.Fields() {
			if e.isSeen(f) {
				continue
			}

			e.mark(f)

			n := &Node{Level: LevelField, Side: Right, Owner: owner, From: f.Signature.Name,
				Desc: e.backField(f.Signature.Type, rp.Continued), To: f.To, Continued: rp.Continued}

			d, err := e.policy.AddRight(e.context(c), n)
			if err != nil {
				return err
			}

			if !d.Drop {
				c.CreateField(mapping.FieldSignature{Name: d.From, Type: d.Desc}, d.To)
			}
		}
	}

	if lc != nil {
		for _, m := range lc.Methods() {
			if err := e.mergeMethod(c, m, rights); err != nil {
				return err
			}
		}
	}

	for _, rp := range rights {
		for _, m := range rp.class.Methods() {
			if e.isSeen(m) {
				continue
			}

			e.mark(m)

			n := &Node{Level: LevelMethod, Side: Right, Owner: owner, From: m.Signature.Name,
				Desc: e.backMethod(m.Signature.Desc, rp.Continued), To: m.To, Continued: rp.Continued, method: m}

			d, err := e.policy.AddRight(e.context(c), n)
			if err != nil {
				return err
			}

			if d.Drop {
				continue
			}

			tm := c.CreateMethod(mapping.MethodSignature{Name: d.From, Desc: d.Desc}, d.To)
			if err := e.mergeParams(owner, tm, nil, continuations(d.Continue, false)); err != nil {
				return err
			}
		}
	}

	if lc != nil {
		for _, in := range e.left.InnerClasses(lc) {
			if err := e.mergeClass(c, in, rights); err != nil {
				return err
			}
		}
	}

	for _, rp := range rights {
		for _, rc := range e.right.InnerClasses(rp.class) {
			if e.isSeen(rc) {
				continue
			}

			e.mark(rc)

			n := e.rightClassNode(owner, rc, rp.Continued)
			if err := e.apply(c, nil, n, func(ctx *Context) (Decision, error) {
				return e.policy.AddRight(ctx, n)
			}); err != nil {
				return err
			}
		}
	}

	return nil
}

func looseField(c *mapping.Class, sig mapping.FieldSignature) *mapping.Field {
	if f, ok := c.Field(sig); ok {
		return f
	}

	named := c.FieldsNamed(sig.Name)

	if sig.Type == "" {
		if len(named) == 1 {
			return named[0]
		}

		return nil
	}

	for _, f := range named {
		if f.Signature.Type == "" {
			return f
		}
	}

	return nil
}

func (e *engine) mergeField(c *mapping.Class, lf *mapping.Field, rights []*Node) error {
	owner := e.out.FullFrom(c)

	contType, err := descriptor.RemapField(lf.Signature.Type, e.left.MapClassName)
	if err != nil {
		return fmt.Errorf("field %s.%s: %w", owner, lf.Signature.Name, err)
	}

	var dup, cont *Node

	for _, rp := range rights {
		if f := looseField(rp.class, lf.Signature); f != nil && dup == nil && !e.isSeen(f) {
			e.mark(f)
			dup = &Node{Level: LevelField, Side: Right, Owner: owner, From: f.Signature.Name,
				Desc: e.backField(f.Signature.Type, rp.Continued), To: f.To, Continued: rp.Continued}
		}

		if f := looseField(rp.class, mapping.FieldSignature{Name: lf.To, Type: contType}); f != nil && cont == nil && !e.isSeen(f) {
			e.mark(f)
			cont = &Node{Level: LevelField, Side: Right, Owner: owner, From: lf.Signature.Name,
				Desc: e.backField(f.Signature.Type, true), To: f.To, Continued: true}
		}
	}

	l := &Node{Level: LevelField, Side: Left, Owner: owner, From: lf.Signature.Name, Desc: lf.Signature.Type, To: lf.To}

	d, err := e.decide(e.context(c), l, dup, cont)
	if err != nil {
		return err
	}

	if !d.Drop {
		c.CreateField(mapping.FieldSignature{Name: d.From, Type: d.Desc}, d.To)
	}

	return nil
}

func (e *engine) mergeMethod(c *mapping.Class, lm *mapping.Method, rights []*Node) error {
	owner := e.out.FullFrom(c)

	contDesc, err := descriptor.RemapMethod(lm.Signature.Desc, e.left.MapClassName)
	if err != nil {
		return fmt.Errorf("method %s.%s: %w", owner, lm.Signature, err)
	}

	var dup, cont *Node

	for _, rp := range rights {
		if m, ok := rp.class.Method(lm.Signature); ok && dup == nil && !e.isSeen(m) {
			e.mark(m)
			dup = &Node{Level: LevelMethod, Side: Right, Owner: owner, From: m.Signature.Name,
				Desc: e.backMethod(m.Signature.Desc, rp.Continued), To: m.To, Continued: rp.Continued, method: m}
		}

		if m, ok := rp.class.Method(mapping.MethodSignature{Name: lm.To, Desc: contDesc}); ok && cont == nil && !e.isSeen(m) {
			e.mark(m)
			cont = &Node{Level: LevelMethod, Side: Right, Owner: owner, From: lm.Signature.Name,
				Desc: lm.Signature.Desc, To: m.To, Continued: true, method: m}
		}
	}

	l := &Node{Level: LevelMethod, Side: Left, Owner: owner, From: lm.Signature.Name, Desc: lm.Signature.Desc, To: lm.To, method: lm}

	d, err := e.decide(e.context(c), l, dup, cont)
	if err != nil {
		return err
	}

	if d.Drop {
		return nil
	}

	tm := c.CreateMethod(mapping.MethodSignature{Name: d.From, Desc: d.Desc}, d.To)

	return e.mergeParams(owner, tm, lm, continuations(d.Continue, false))
}

// mergeParams merges the parameters of lm and of the right methods the
// method decision continues into.
func (e *engine) mergeParams(class string, tm, lm *mapping.Method, rights []*Node) error {
	owner := class + "." + tm.Signature.String()
	ctx := &Context{Left: e.left, Right: e.right, Owner: owner}

	if lm != nil {
		for _, lp := range lm.Params() {
			l := &Node{Level: LevelParam, Side: Left, Owner: owner, From: lp.From, To: lp.To, Index: lp.Index}

			var dup, cont *Node

			for _, rm := range rights {
				rp, ok := rm.method.Param(lp.Index)
				if !ok || e.isSeen(rp) {
					continue
				}

				e.mark(rp)

				n := &Node{Level: LevelParam, Side: Right, Owner: owner, From: rp.From, To: rp.To, Index: rp.Index, Continued: rm.Continued}
				if rm.Continued && cont == nil {
					cont = n
				} else if !rm.Continued && dup == nil {
					dup = n
				}
			}

			d, err := e.decide(ctx, l, dup, cont)
			if err != nil {
				return err
			}

			if !d.Drop {
				tm.CreateParam(d.Index, d.From, d.To)
			}
		}
	}

	for _, rm := range rights {
		for _, rp := range rm.method.Params() {
			if e.isSeen(rp) {
				continue
			}

			e.mark(rp)

			n := &Node{Level: LevelParam, Side: Right, Owner: owner, From: rp.From, To: rp.To, Index: rp.Index, Continued: rm.Continued}

			d, err := e.policy.AddRight(ctx, n)
			if err != nil {
				return err
			}

			if !d.Drop {
				tm.CreateParam(d.Index, d.From, d.To)
			}
		}
	}

	return nil
}
