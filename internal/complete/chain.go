package complete

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mapmerge/internal/diagnostic"
	"mapmerge/internal/hierarchy"
	"mapmerge/internal/mapping"
)

// Options configures a chain run.
type Options struct {
	// Parallelism bounds the number of classes processed at once. Zero
	// means GOMAXPROCS.
	Parallelism int
	Logger      *zap.Logger
	Diagnostics *diagnostic.Diagnostics
}

func (o Options) withDefaults() Options {
	if o.Parallelism <= 0 {
		o.Parallelism = runtime.GOMAXPROCS(0)
	}

	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	if o.Diagnostics == nil {
		o.Diagnostics = &diagnostic.Diagnostics{}
	}

	return o
}

// Chain is an ordered list of links. Each link is one pass.
type Chain struct {
	links [][]Contributor
}

// NewChain returns an empty chain.
func NewChain() *Chain {
	return &Chain{}
}

// AddLink appends a pass running the given contributors.
func (c *Chain) AddLink(contributors ...Contributor) *Chain {
	c.links = append(c.links, contributors)
	return c
}

// Links returns the contributor names of every link.
func (c *Chain) Links() [][]string {
	out := make([][]string, len(c.links))

	for i, link := range c.links {
		for _, con := range link {
			out[i] = append(out[i], con.Name())
		}
	}

	return out
}

// Apply runs every link against a copy of set and returns the result. The
// input set is not modified, and nothing is returned on error.
func (c *Chain) Apply(ctx context.Context, set *mapping.Set, view *hierarchy.View, opts Options) (*mapping.Set, error) {
	opts = opts.withDefaults()
	out := set.Copy()

	for i, link := range c.links {
		start := time.Now()

		n, err := c.runLink(ctx, link, out, view, opts)
		if err != nil {
			return nil, fmt.Errorf("link %d (%s): %w", i, linkName(link), err)
		}

		opts.Logger.Debug("applied link",
			zap.Int("link", i),
			zap.String("contributors", linkName(link)),
			zap.Int("changes", n),
			zap.Duration("elapsed", time.Since(start)),
		)
	}

	return out, nil
}

func linkName(link []Contributor) string {
	var s string

	for i, con := range link {
		if i > 0 {
			s += "+"
		}

		s += con.Name()
	}

	return s
}

// classesOf returns the classes a pass visits: the program classes followed
// by the mapped classes that are not program classes.
func classesOf(set *mapping.Set, view *hierarchy.View) []string {
	program := view.ProgramClasses()
	names := slices.Clone(program)

	for _, c := range set.AllClasses() {
		name := set.FullFrom(c)
		if !view.IsProgram(name) {
			names = append(names, name)
		}
	}

	return names
}

func (c *Chain) runLink(ctx context.Context, link []Contributor, set *mapping.Set, view *hierarchy.View, opts Options) (int, error) {
	reg := NewRegistry()

	names := classesOf(set, view)
	contexts := make([]*ClassContext, 0, len(names))

	for _, name := range names {
		cc := &ClassContext{
			Name:     name,
			Set:      set,
			View:     view,
			Diag:     opts.Diagnostics,
			Log:      opts.Logger,
			registry: reg,
		}

		if view.IsProgram(name) {
			data, err := view.Lookup(name)
			if err != nil {
				return 0, err
			}

			cc.Data = data
		}

		if m, ok := set.Class(name); ok {
			cc.Mapping = m
		}

		contexts = append(contexts, cc)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallelism)

	for _, cc := range contexts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			for _, con := range link {
				if err := con.Contribute(cc); err != nil {
					return fmt.Errorf("%s on %s: %w", con.Name(), cc.Name, err)
				}
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	changes, err := reg.Resolve(opts.Diagnostics)
	if err != nil {
		return 0, err
	}

	for _, ch := range changes {
		if err := ch.Apply(set); err != nil {
			return 0, fmt.Errorf("applying %s: %w", ch, err)
		}
	}

	return len(changes), nil
}
