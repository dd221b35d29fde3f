package hierarchy

import (
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"

	"mapmerge/internal/descriptor"
	"mapmerge/internal/match"
)

// Options configures hydration.
type Options struct {
	// RequireFullClasspath makes a missing supertype of a program class fatal.
	RequireFullClasspath bool
	// CacheSize bounds the number of cached supertype closures.
	CacheSize int
}

// DefaultOptions returns the default hydration options.
func DefaultOptions() Options {
	return Options{
		RequireFullClasspath: true,
		CacheSize:            4096,
	}
}

// SuperConstructor is the superclass constructor a constructor delegates to.
type SuperConstructor struct {
	Owner string
	Desc  string
	// Args maps LVT indexes of the calling constructor to LVT indexes of the
	// super constructor.
	Args map[int]int
}

// MethodOwner is a method together with the class declaring it.
type MethodOwner struct {
	Class  string
	Method *MethodData
}

type methodKey struct {
	class, name, desc string
}

// View is a hydrated, read-only view over a Provider.
type View struct {
	provider Provider
	opts     Options

	program    map[string]struct{}
	bridges    map[methodKey]MemberRef
	bridgesOf  map[methodKey][]MemberRef
	superCtors map[methodKey]*SuperConstructor
	supers     *lru.Cache[string, []string]
}

// Hydrate checks p for inheritance cycles and resolves bridge targets and
// super constructor calls of every program class.
func Hydrate(p Provider, opts Options) (*View, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultOptions().CacheSize
	}

	cache, err := lru.New[string, []string](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating supertype cache: %w", err)
	}

	v := &View{
		provider:   p,
		opts:       opts,
		program:    make(map[string]struct{}),
		bridges:    make(map[methodKey]MemberRef),
		bridgesOf:  make(map[methodKey][]MemberRef),
		superCtors: make(map[methodKey]*SuperConstructor),
		supers:     cache,
	}

	classes := p.ProgramClasses()
	for _, name := range classes {
		v.program[name] = struct{}{}
	}

	if err := v.checkCycles(classes); err != nil {
		return nil, err
	}

	for _, name := range classes {
		cd, err := p.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("hydrating %s: %w", name, err)
		}

		for _, m := range cd.Methods {
			switch {
			case m.IsBridge():
				if err := v.hydrateBridge(cd, m); err != nil {
					return nil, err
				}
			case m.IsConstructor():
				if err := v.hydrateConstructor(cd, m); err != nil {
					return nil, err
				}
			}
		}
	}

	return v, nil
}

func (v *View) hydrateBridge(cd *ClassData, m *MethodData) error {
	var target *MemberRef

	if m.BridgeTarget != nil {
		target = m.BridgeTarget
	} else {
		inferred, err := v.inferBridgeTarget(cd, m)
		if err != nil {
			return fmt.Errorf("resolving bridge %s.%s: %w", cd.Name, m.Ref(), err)
		}

		target = inferred
	}

	if target == nil {
		return nil
	}

	key := methodKey{cd.Name, m.Name, m.Desc}
	v.bridges[key] = *target

	tkey := methodKey{cd.Name, target.Name, target.Desc}
	v.bridgesOf[tkey] = append(v.bridgesOf[tkey], m.Ref())

	return nil
}

// inferBridgeTarget finds the unique non-bridge method with the bridge's
// name and arity whose parameter and return types are assignable to the
// bridge's erased types.
func (v *View) inferBridgeTarget(cd *ClassData, bridge *MethodData) (*MemberRef, error) {
	bd, err := descriptor.ParseMethod(bridge.Desc)
	if err != nil {
		return nil, err
	}

	var found []*MethodData

	for _, cand := range cd.MethodsNamed(bridge.Name) {
		if cand.IsBridge() || cand.IsStatic() || cand.Desc == bridge.Desc {
			continue
		}

		md, err := descriptor.ParseMethod(cand.Desc)
		if err != nil {
			return nil, err
		}

		if len(md.Params) != len(bd.Params) {
			continue
		}

		ok := v.assignable(md.Return, bd.Return)
		for i := 0; ok && i < len(md.Params); i++ {
			ok = v.assignable(md.Params[i], bd.Params[i])
		}

		if ok {
			found = append(found, cand)
		}
	}

	if len(found) != 1 {
		return nil, nil
	}

	ref := found[0].Ref()

	return &ref, nil
}

// assignable reports whether a value of type from can be used where type
// to is expected. Unknown classes are never assignable to anything but
// java/lang/Object.
func (v *View) assignable(from, to descriptor.Type) bool {
	if from.String() == to.String() {
		return true
	}

	if !from.IsReference() || !to.IsReference() {
		return false
	}

	if to.Kind == descriptor.KindObject && to.Class == ObjectClass {
		return true
	}

	switch {
	case from.Kind == descriptor.KindArray && to.Kind == descriptor.KindArray:
		return v.assignable(*from.Elem, *to.Elem)
	case from.Kind == descriptor.KindObject && to.Kind == descriptor.KindObject:
		supers, err := v.SuperTypes(from.Class)
		if err != nil {
			return false
		}

		return slices.Contains(supers, to.Class)
	default:
		return false
	}
}

func (v *View) hydrateConstructor(cd *ClassData, ctor *MethodData) error {
	key := methodKey{cd.Name, ctor.Name, ctor.Desc}

	if hint := ctor.SuperCall; hint != nil {
		sc := &SuperConstructor{Owner: cd.Super, Desc: hint.Desc, Args: hint.Args}

		if sc.Args == nil && hint.Desc == ctor.Desc {
			args, err := identityArgs(ctor.Desc)
			if err != nil {
				return fmt.Errorf("constructor %s.%s: %w", cd.Name, ctor.Desc, err)
			}

			sc.Args = args
		}

		v.superCtors[key] = sc

		return nil
	}

	if cd.Super == "" {
		return nil
	}

	sd, err := v.provider.Lookup(cd.Super)
	if err != nil {
		if IsLookupMiss(err) && !v.opts.RequireFullClasspath {
			return nil
		}

		return fmt.Errorf("constructor %s.%s: %w", cd.Name, ctor.Desc, err)
	}

	if sd.Method("<init>", ctor.Desc) == nil {
		return nil
	}

	args, err := identityArgs(ctor.Desc)
	if err != nil {
		return fmt.Errorf("constructor %s.%s: %w", cd.Name, ctor.Desc, err)
	}

	v.superCtors[key] = &SuperConstructor{Owner: cd.Super, Desc: ctor.Desc, Args: args}

	return nil
}

// identityArgs maps the LVT index of every parameter of the constructor
// descriptor desc to itself.
func identityArgs(desc string) (map[int]int, error) {
	md, err := descriptor.ParseMethod(desc)
	if err != nil {
		return nil, err
	}

	args := make(map[int]int, len(md.Params))

	slot := 1
	for _, p := range md.Params {
		args[slot] = slot
		slot += p.Size()
	}

	return args, nil
}

// checkCycles walks the supertypes of the program classes and fails on a
// cycle or, with RequireFullClasspath, on a missing supertype.
func (v *View) checkCycles(program []string) error {
	supers := make(map[string][]string)

	queue := slices.Clone(program)
	queued := make(map[string]bool, len(queue))

	for _, n := range queue {
		queued[n] = true
	}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		cd, err := v.provider.Lookup(name)
		if err != nil {
			return fmt.Errorf("loading class hierarchy: %w", err)
		}

		supers[name] = nil

		for _, s := range cd.SuperTypeNames() {
			if _, err := v.provider.Lookup(s); err != nil {
				if IsLookupMiss(err) && !v.opts.RequireFullClasspath {
					continue
				}

				if IsLookupMiss(err) {
					return missFor(v.provider, s, name)
				}

				return err
			}

			supers[name] = append(supers[name], s)

			if !queued[s] {
				queued[s] = true
				queue = append(queue, s)
			}
		}
	}

	_, blocked := superTypesFirst(supers)
	if len(blocked) == 0 {
		return nil
	}

	isBlocked := make(map[string]bool, len(blocked))
	for _, name := range blocked {
		isBlocked[name] = true
	}

	var cyclic []string

	// blocked also holds subtypes of a cycle
	for _, name := range blocked {
		if extendsItself(name, isBlocked, supers) {
			cyclic = append(cyclic, name)
		}
	}

	return &CycleError{Classes: cyclic}
}

func extendsItself(class string, blocked map[string]bool, supers map[string][]string) bool {
	seen := make(map[string]bool)
	stack := slices.Clone(supers[class])

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if s == class {
			return true
		}

		if seen[s] || !blocked[s] {
			continue
		}

		seen[s] = true
		stack = append(stack, supers[s]...)
	}

	return false
}

// Lookup implements Provider.
func (v *View) Lookup(name string) (*ClassData, error) {
	return v.provider.Lookup(name)
}

// ProgramClasses implements Provider.
func (v *View) ProgramClasses() []string {
	return v.provider.ProgramClasses()
}

// Suggest proposes class names similar to name when the underlying
// provider can.
func (v *View) Suggest(name string) []string {
	if s, ok := v.provider.(Suggester); ok {
		return s.Suggest(name)
	}

	return nil
}

// IsProgram returns true if name is one of the classes being mapped.
func (v *View) IsProgram(name string) bool {
	_, ok := v.program[name]
	return ok
}

// RequireFullClasspath reports whether missing supertypes are fatal.
func (v *View) RequireFullClasspath() bool {
	return v.opts.RequireFullClasspath
}

// BridgeTarget returns the method a bridge method forwards to.
func (v *View) BridgeTarget(class string, m *MethodData) (MemberRef, bool) {
	ref, ok := v.bridges[methodKey{class, m.Name, m.Desc}]
	return ref, ok
}

// BridgesOf returns the bridge methods forwarding to the given method.
func (v *View) BridgesOf(class string, m *MethodData) []MemberRef {
	return v.bridgesOf[methodKey{class, m.Name, m.Desc}]
}

// SuperConstructor returns the superclass constructor ctor delegates to.
func (v *View) SuperConstructor(class string, ctor *MethodData) (*SuperConstructor, bool) {
	sc, ok := v.superCtors[methodKey{class, ctor.Name, ctor.Desc}]
	return sc, ok
}

// SuperTypes returns the transitive supertypes of name, nearest first.
// Missing supertypes are skipped unless the full classpath is required.
func (v *View) SuperTypes(name string) ([]string, error) {
	if cached, ok := v.supers.Get(name); ok {
		return cached, nil
	}

	cd, err := v.provider.Lookup(name)
	if err != nil {
		return nil, err
	}

	var out []string

	seen := map[string]bool{name: true}
	queue := cd.SuperTypeNames()

	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]

		if seen[s] {
			continue
		}

		seen[s] = true

		sd, err := v.provider.Lookup(s)
		if err != nil {
			if IsLookupMiss(err) && !v.opts.RequireFullClasspath {
				continue
			}

			if IsLookupMiss(err) {
				return nil, missFor(v.provider, s, name)
			}

			return nil, err
		}

		out = append(out, s)
		queue = append(queue, sd.SuperTypeNames()...)
	}

	v.supers.Add(name, out)

	return out, nil
}

// OverriddenMethods returns the supertype methods that m, declared in
// class, overrides. A method overrides a supertype method with the same
// name and descriptor, or with the descriptor of one of its bridges; both
// must take part in virtual dispatch, and a package-private supertype
// method is only overridden from its own package.
func (v *View) OverriddenMethods(class string, m *MethodData) ([]MethodOwner, error) {
	if !m.Overridable() {
		return nil, nil
	}

	descs := []string{m.Desc}
	for _, b := range v.BridgesOf(class, m) {
		descs = append(descs, b.Desc)
	}

	supers, err := v.SuperTypes(class)
	if err != nil {
		return nil, err
	}

	pkg := match.PackageOf(class)

	var out []MethodOwner

	for _, s := range supers {
		sd, err := v.provider.Lookup(s)
		if err != nil {
			return nil, err
		}

		for _, d := range descs {
			sm := sd.Method(m.Name, d)
			if sm == nil || !sm.Overridable() {
				continue
			}

			if sm.IsPackagePrivate() && match.PackageOf(s) != pkg {
				continue
			}

			out = append(out, MethodOwner{Class: s, Method: sm})
		}
	}

	return out, nil
}
