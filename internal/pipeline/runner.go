package pipeline

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"mapmerge/internal/common"
	"mapmerge/internal/complete"
	"mapmerge/internal/config"
	"mapmerge/internal/diagnostic"
	"mapmerge/internal/format"
	"mapmerge/internal/hierarchy"
	"mapmerge/internal/mapping"
)

// Classpath lists the class dumps a hierarchy is built from. Entries are
// doublestar patterns.
type Classpath struct {
	Program   []string
	Libraries []string
}

// Runner runs use cases with one configuration.
type Runner struct {
	cfg config.Config
	log *zap.Logger
}

// New returns a runner. A nil logger discards all output.
func New(cfg config.Config, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}

	return &Runner{cfg: cfg, log: log}
}

// run is the state of one use case invocation.
type run struct {
	r       *Runner
	log     *zap.Logger
	report  *diagnostic.Report
	diag    *diagnostic.Diagnostics
	outputs map[string][]byte
}

func (r *Runner) begin(useCase string) *run {
	return &run{
		r:       r,
		log:     r.log.With(zap.String("useCase", useCase)),
		report:  diagnostic.NewReport(useCase),
		diag:    &diagnostic.Diagnostics{},
		outputs: make(map[string][]byte),
	}
}

// stage records set as the result of the named step.
func (x *run) stage(name string, set *mapping.Set) {
	x.report.AddStage(name, set)

	st, _ := x.report.Last()
	x.log.Debug("stage done",
		zap.String("stage", name),
		zap.Int("classes", st.Stats.Classes),
		zap.Int("fields", st.Stats.Fields),
		zap.Int("methods", st.Stats.Methods),
		zap.Int("params", st.Stats.Params),
		zap.String("fingerprint", st.Fingerprint),
	)
}

func (x *run) read(path string, kind format.Kind, from, to string) (*mapping.Set, error) {
	if kind == format.KindUnknown {
		kind = format.KindFromPath(path)
	}

	set, err := format.ReadFile(path, kind, from, to)
	if err != nil {
		return nil, err
	}

	x.stage("read "+path, set)

	return set, nil
}

// emitSet stages set for writing to path. An empty path is skipped.
func (x *run) emitSet(path string, kind format.Kind, set *mapping.Set) error {
	if path == "" {
		return nil
	}

	data, err := format.Encode(kind, set)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	x.emit(path, data)

	return nil
}

func (x *run) emit(path string, data []byte) {
	if path != "" {
		x.outputs[path] = data
	}
}

// view loads cp plus the configured libraries and hydrates the hierarchy.
func (x *run) view(cp Classpath, requireFull bool) (*hierarchy.View, error) {
	g := hierarchy.NewGraph()

	if err := hierarchy.LoadFiles(g, hierarchy.RootProgram, cp.Program...); err != nil {
		return nil, fmt.Errorf("loading program classes: %w", err)
	}

	libs := slices.Concat(cp.Libraries, x.r.cfg.Libraries)
	if err := hierarchy.LoadFiles(g, hierarchy.RootLibrary, libs...); err != nil {
		return nil, fmt.Errorf("loading libraries: %w", err)
	}

	start := time.Now()

	v, err := hierarchy.Hydrate(g, hierarchy.Options{
		RequireFullClasspath: requireFull,
		CacheSize:            x.r.cfg.CacheSize,
	})
	if err != nil {
		return nil, fmt.Errorf("hydrating: %w", err)
	}

	x.log.Debug("hydrated hierarchy",
		zap.Int("classes", g.Len()),
		zap.Int("program", len(v.ProgramClasses())),
		zap.Duration("elapsed", time.Since(start)),
	)

	return v, nil
}

// runChain runs chain over set and records the result as stage name.
func (x *run) runChain(ctx context.Context, name string, chain *complete.Chain, set *mapping.Set, view *hierarchy.View, parallelism int) (*mapping.Set, error) {
	if parallelism <= 0 {
		parallelism = x.r.cfg.Parallelism
	}

	out, err := chain.Apply(ctx, set, view, complete.Options{
		Parallelism: parallelism,
		Logger:      x.log,
		Diagnostics: x.diag,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	x.stage(name, out)

	return out, nil
}

// commit writes every staged output, then the report. No output is
// replaced unless all of them could be written.
func (x *run) commit() (*diagnostic.Report, error) {
	if err := x.diag.Error(); err != nil {
		return nil, err
	}

	if err := format.WriteAll(x.outputs); err != nil {
		return nil, err
	}

	paths := common.SortedKeys(x.outputs)

	for _, p := range paths {
		x.log.Info("wrote output", zap.String("path", p), zap.Int("bytes", len(x.outputs[p])))
	}

	x.report.Outputs = paths
	x.report.Finish(x.diag)

	for _, w := range x.report.Warnings {
		x.log.Warn(w.Message, zap.String("code", w.Code), zap.String("class", w.Class), zap.String("member", w.Member))
	}

	if path := x.r.cfg.Report; path != "" {
		data, err := x.report.Marshal()
		if err != nil {
			return nil, fmt.Errorf("marshaling report: %w", err)
		}

		if err := format.WriteAtomic(path, data); err != nil {
			return nil, err
		}
	}

	x.log.Info("run finished",
		zap.Int("outputs", len(paths)),
		zap.Int("warnings", len(x.report.Warnings)),
		zap.Duration("elapsed", x.report.Duration),
	)

	return x.report, nil
}
