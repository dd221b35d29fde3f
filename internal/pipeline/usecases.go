package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mapmerge/internal/complete"
	"mapmerge/internal/diagnostic"
	"mapmerge/internal/format"
	"mapmerge/internal/hierarchy"
	"mapmerge/internal/mapping"
	"mapmerge/internal/merge"
)

// GenerateMappingsInput configures GenerateMappings.
type GenerateMappingsInput struct {
	// VanillaMappings is the Proguard mapping list (deobf -> obf).
	VanillaMappings string
	// ParamMappings is a Tiny file (obf -> params) with parameter names.
	ParamMappings string
	Classpath     Classpath
	Output        string
}

// GenerateMappings merges the vanilla mappings with parameter names,
// completes them against the hierarchy and writes obf -> deobf Tiny.
// Parameter names are only taken for methods the vanilla mappings know.
func (r *Runner) GenerateMappings(ctx context.Context, in GenerateMappingsInput) (*diagnostic.Report, error) {
	x := r.begin("generate-mappings")
	ns := r.cfg.Namespaces

	vanilla, err := x.read(in.VanillaMappings, format.KindProguard, ns.Deobf, ns.Obf)
	if err != nil {
		return nil, err
	}

	vanilla, err = vanilla.Reverse()
	if err != nil {
		return nil, fmt.Errorf("reversing vanilla mappings: %w", err)
	}

	params, err := x.read(in.ParamMappings, format.KindTiny, ns.Obf, ns.Params)
	if err != nil {
		return nil, err
	}

	merged, err := merge.Merge(vanilla, params, merge.SuppressRightPolicy{})
	if err != nil {
		return nil, fmt.Errorf("merging parameter names: %w", err)
	}

	x.stage("merge", merged)

	view, err := x.view(in.Classpath, r.cfg.RequireFullClasspath)
	if err != nil {
		return nil, err
	}

	chain := complete.NewChain().
		AddLink(complete.RemoveUnused{}).
		AddLink(complete.PropagateUp{}).
		AddLink(complete.CopyDown{})

	out, err := x.runChain(ctx, "complete", chain, merged, view, 0)
	if err != nil {
		return nil, err
	}

	if err := x.emitSet(in.Output, format.KindTiny, out); err != nil {
		return nil, err
	}

	return x.commit()
}

// GenerateSpigotMappingsInput configures GenerateSpigotMappings.
type GenerateSpigotMappingsInput struct {
	// ClassMappings and MemberMappings are the Spigot CSRG files. Member
	// lines are keyed by Spigot class names.
	ClassMappings  string
	MemberMappings string
	// LoggerFields lists "class field" rows of logger fields to map to
	// LOGGER. Optional.
	LoggerFields string
	// PackageMappings is a CSRG package line file whose first row names the
	// package of unpackaged classes. Optional; the configured package is
	// used without it.
	PackageMappings string
	// SyntheticMethods lists "class desc synth base" rows. Optional.
	SyntheticMethods string
	// SourceMappings is the obf -> deobf Tiny file.
	SourceMappings string
	// ParamIndexes lists parameter moves applied to the source mappings
	// before they are chained. Optional.
	ParamIndexes string

	// Output receives spigot -> deobf Tiny.
	Output string
	// NotchToSpigot receives obf -> spigot Tiny. Optional.
	NotchToSpigot string
	// SpigotFields receives the source field names keyed by Spigot class
	// names as CSRG. Optional.
	SpigotFields string
}

// GenerateSpigotMappings builds the Spigot to deobf mappings: the Spigot
// CSRG files are combined, merged with the source mappings which supply
// every class and member Spigot does not name, and the reversed result is
// chained with the source mappings.
func (r *Runner) GenerateSpigotMappings(ctx context.Context, in GenerateSpigotMappingsInput) (*diagnostic.Report, error) {
	x := r.begin("generate-spigot-mappings")
	ns := r.cfg.Namespaces

	classes, err := x.read(in.ClassMappings, format.KindCSRG, ns.Obf, ns.Spigot)
	if err != nil {
		return nil, err
	}

	members, err := x.read(in.MemberMappings, format.KindCSRG, ns.Spigot, ns.Spigot)
	if err != nil {
		return nil, err
	}

	spigot, err := merge.Merge(classes, members, merge.ChainPolicy{})
	if err != nil {
		return nil, fmt.Errorf("merging spigot members: %w", err)
	}

	if in.LoggerFields != "" {
		n, err := injectLoggerFields(in.LoggerFields, spigot)
		if err != nil {
			return nil, err
		}

		x.log.Debug("injected logger fields", zap.Int("fields", n))
	}

	x.stage("spigot", spigot)

	pkg := r.cfg.Package
	if in.PackageMappings != "" {
		if pkg, err = readPackage(in.PackageMappings); err != nil {
			return nil, err
		}
	}

	synths := merge.SynthTable{}
	if in.SyntheticMethods != "" {
		if synths, err = readSynths(in.SyntheticMethods); err != nil {
			return nil, err
		}
	}

	source, err := x.read(in.SourceMappings, format.KindTiny, ns.Obf, ns.Deobf)
	if err != nil {
		return nil, err
	}

	notchToSpigot, err := merge.Merge(spigot, source, &merge.AuthorityPolicy{Package: pkg, Synths: synths})
	if err != nil {
		return nil, fmt.Errorf("merging spigot with source mappings: %w", err)
	}

	x.stage("notch to spigot", notchToSpigot)

	cleaned, err := r.cleanSourceForSpigot(ctx, x, source, in.ParamIndexes)
	if err != nil {
		return nil, err
	}

	reversed, err := notchToSpigot.Reverse()
	if err != nil {
		return nil, fmt.Errorf("reversing spigot mappings: %w", err)
	}

	spigotToDeobf, err := merge.Merge(reversed, cleaned, merge.ChainPolicy{})
	if err != nil {
		return nil, fmt.Errorf("chaining spigot with source mappings: %w", err)
	}

	x.stage("spigot to deobf", spigotToDeobf)

	if err := x.emitSet(in.Output, format.KindTiny, spigotToDeobf); err != nil {
		return nil, err
	}

	if err := x.emitSet(in.NotchToSpigot, format.KindTiny, notchToSpigot); err != nil {
		return nil, err
	}

	if in.SpigotFields != "" {
		fields := spigotFieldMappings(source, classes, ns.Spigot)
		x.stage("spigot fields", fields)

		if err := x.emitSet(in.SpigotFields, format.KindCSRG, fields); err != nil {
			return nil, err
		}
	}

	return x.commit()
}

// cleanSourceForSpigot applies the parameter index table and drops lambda
// names. Neither step needs a hierarchy.
func (r *Runner) cleanSourceForSpigot(ctx context.Context, x *run, source *mapping.Set, paramIndexes string) (*mapping.Set, error) {
	chain := complete.NewChain()

	if paramIndexes != "" {
		table, err := readParamIndexes(paramIndexes)
		if err != nil {
			return nil, err
		}

		chain.AddLink(table)
	}

	chain.AddLink(complete.RemoveLambdas{})

	empty, err := hierarchy.Hydrate(hierarchy.NewGraph(), hierarchy.DefaultOptions())
	if err != nil {
		return nil, err
	}

	return x.runChain(ctx, "clean source", chain, source, empty, 0)
}

// CleanupInput configures CleanupMappings and CleanupSourceMappings.
type CleanupInput struct {
	// Mappings is the spigot -> deobf Tiny file.
	Mappings  string
	Classpath Classpath
	Output    string
	// CaseOnlyNameChanges receives the case-only class renames as JSON.
	// Optional.
	CaseOnlyNameChanges string
}

// CleanupMappings completes spigot -> deobf mappings against the
// hierarchy, rekeys parameters by source position and records case-only
// class renames.
func (r *Runner) CleanupMappings(ctx context.Context, in CleanupInput) (*diagnostic.Report, error) {
	x := r.begin("cleanup-mappings")
	caseOnly := &complete.CaseOnlyNameChanges{}

	chain := complete.NewChain().
		AddLink(complete.RemoveUnused{}, complete.RemoveLambdas{}).
		AddLink(complete.PropagateUp{}).
		AddLink(complete.CopyDown{}).
		AddLink(complete.ParamIndexesForSource{}, caseOnly)

	return r.cleanup(ctx, x, in, chain, caseOnly)
}

// CleanupSourceMappings prepares spigot -> deobf mappings for remapping
// sources: lambda names are dropped, parameters rekeyed by source position
// and anonymous class renames undone.
func (r *Runner) CleanupSourceMappings(ctx context.Context, in CleanupInput) (*diagnostic.Report, error) {
	x := r.begin("cleanup-source-mappings")
	caseOnly := &complete.CaseOnlyNameChanges{}
	anon, anonCleanup := complete.NewAnonymousClassRenames()

	chain := complete.NewChain().
		AddLink(complete.RemoveLambdas{}).
		AddLink(complete.ParamIndexesForSource{}).
		AddLink(caseOnly).
		AddLink(anon).
		AddLink(anonCleanup)

	return r.cleanup(ctx, x, in, chain, caseOnly)
}

func (r *Runner) cleanup(ctx context.Context, x *run, in CleanupInput, chain *complete.Chain, caseOnly *complete.CaseOnlyNameChanges) (*diagnostic.Report, error) {
	ns := r.cfg.Namespaces

	set, err := x.read(in.Mappings, format.KindTiny, ns.Spigot, ns.Deobf)
	if err != nil {
		return nil, err
	}

	view, err := x.view(in.Classpath, r.cfg.RequireFullClasspath)
	if err != nil {
		return nil, err
	}

	out, err := x.runChain(ctx, "complete", chain, set, view, 0)
	if err != nil {
		return nil, err
	}

	if err := x.emitSet(in.Output, format.KindTiny, out); err != nil {
		return nil, err
	}

	if in.CaseOnlyNameChanges != "" {
		changes := caseOnly.Changes()
		for _, c := range changes {
			x.diag.AddInfo("case-only-rename", "class name differs only in case: "+c.DeobfName, c.ObfName, "")
		}

		data, err := format.EncodeClassNameChanges(changes)
		if err != nil {
			return nil, err
		}

		x.emit(in.CaseOnlyNameChanges, data)
	}

	return x.commit()
}

// GenerateReobfMappingsInput configures GenerateReobfMappings.
type GenerateReobfMappingsInput struct {
	// Mappings is the spigot -> deobf Tiny file, including patched names.
	Mappings string
	// NotchToSpigot is the obf -> spigot Tiny file.
	NotchToSpigot string
	// SourceMappings is the obf -> deobf Tiny file.
	SourceMappings string
	// Classpath holds the classes in deobf names.
	Classpath Classpath
	// RecompiledClasses lists one outermost deobf class name per line whose
	// synthetic member names do not survive recompilation. Optional.
	RecompiledClasses string
	Output            string
}

// GenerateReobfMappings builds deobf -> spigot mappings for turning
// compiled deobf classes back into Spigot names. Classes get their Spigot
// name where Spigot renames them; members get their obfuscated name.
func (r *Runner) GenerateReobfMappings(ctx context.Context, in GenerateReobfMappingsInput) (*diagnostic.Report, error) {
	x := r.begin("generate-reobf-mappings")
	ns := r.cfg.Namespaces

	spigotToDeobf, err := x.read(in.Mappings, format.KindTiny, ns.Spigot, ns.Deobf)
	if err != nil {
		return nil, err
	}

	obfToSpigot, err := x.read(in.NotchToSpigot, format.KindTiny, ns.Obf, ns.Spigot)
	if err != nil {
		return nil, err
	}

	obfToDeobf, err := x.read(in.SourceMappings, format.KindTiny, ns.Obf, ns.Deobf)
	if err != nil {
		return nil, err
	}

	merged, err := mergeReobf(obfToSpigot, obfToDeobf, spigotToDeobf)
	if err != nil {
		return nil, err
	}

	x.stage("merge", merged)

	recompiled := map[string]bool{}
	if in.RecompiledClasses != "" {
		rows, err := readTable(in.RecompiledClasses, 1)
		if err != nil {
			return nil, err
		}

		for _, row := range rows {
			recompiled[row[0]] = true
		}
	}

	view, err := x.view(in.Classpath, false)
	if err != nil {
		return nil, err
	}

	chain := complete.NewChain().
		AddLink(complete.RemoveUnused{}).
		AddLink(complete.RemoveRecompiledSyntheticMembers{Recompiled: recompiled}).
		AddLink(complete.PropagateOuterClassMappings{})

	out, err := x.runChain(ctx, "complete", chain, merged, view, 1)
	if err != nil {
		return nil, err
	}

	if err := x.emitSet(in.Output, format.KindTiny, out); err != nil {
		return nil, err
	}

	return x.commit()
}

// ConvertInput configures Convert.
type ConvertInput struct {
	Input        string
	InputFormat  format.Kind
	From, To     string
	Output       string
	OutputFormat format.Kind
	// Reverse swaps the namespaces before writing.
	Reverse bool
}

// Convert rewrites a mapping file in another format, optionally reversed.
// Unknown formats are guessed from the file extensions.
func (r *Runner) Convert(_ context.Context, in ConvertInput) (*diagnostic.Report, error) {
	name := "convert"
	if in.Reverse {
		name = "reverse"
	}

	x := r.begin(name)

	set, err := x.read(in.Input, in.InputFormat, in.From, in.To)
	if err != nil {
		return nil, err
	}

	if in.Reverse {
		if set, err = set.Reverse(); err != nil {
			return nil, err
		}

		x.stage("reverse", set)
	}

	kind := in.OutputFormat
	if kind == format.KindUnknown {
		kind = format.KindFromPath(in.Output)
	}

	if err := x.emitSet(in.Output, kind, set); err != nil {
		return nil, err
	}

	return x.commit()
}
