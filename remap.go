package remap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/loam"
	"github.com/aretw0/remap/internal/compiler"
	"github.com/aretw0/remap/internal/runtime"
	"github.com/aretw0/remap/pkg/adapters/almanac"
	"github.com/aretw0/remap/pkg/adapters/document"
	loamAdapter "github.com/aretw0/remap/pkg/adapters/loam"
	"github.com/aretw0/remap/pkg/domain"
	"github.com/aretw0/remap/pkg/ports"
	"golang.org/x/sync/errgroup"
)

// Engine is the high-level entry point for the remap library.
// It wraps the internal runtime and provides a simplified API for consumers.
// An Engine is immutable once built and safe for concurrent queries.
type Engine struct {
	runtime  *runtime.Engine
	pipeline *domain.Pipeline
	loader   ports.StageLoader
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	start    string
	terminal string
	workers  int
	Name     string
}

var _ ports.QueryEngine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers trace hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLoader injects a custom StageLoader, bypassing source detection.
func WithLoader(l ports.StageLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStartStage configures the stage evaluation begins at (default: "seed").
func WithStartStage(id string) Option {
	return func(e *Engine) {
		e.start = id
	}
}

// WithTerminalStage configures the domain evaluation stops at (default: "location").
func WithTerminalStage(id string) Option {
	return func(e *Engine) {
		e.terminal = id
	}
}

// WithWorkers bounds the number of seeds MinimumParallel evaluates at once.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// New builds an Engine and its frozen pipeline.
//
// Without WithLoader, source is opened with OpenSource.
// Pipeline documents may override the start and terminal stages; explicit options win.
func New(source string, opts ...Option) (*Engine, error) {
	eng := &Engine{workers: 1}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil {
		if source == "" {
			return nil, fmt.Errorf("source is required when no custom loader is provided")
		}
		src, err := OpenSource(source)
		if err != nil {
			return nil, err
		}
		eng.loader = src.Loader
		if eng.start == "" {
			eng.start = src.Start
		}
		if eng.terminal == "" {
			eng.terminal = src.Terminal
		}
	}
	// With a custom loader the source is only a label.
	if source != "" {
		eng.Name = pipelineName(source)
	}

	if eng.start == "" {
		eng.start = domain.DefaultStartStage
	}
	if eng.terminal == "" {
		eng.terminal = domain.DefaultTerminalStage
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("pipeline", eng.Name)
	}

	pipeline, err := compiler.NewParser().Compile(eng.loader, eng.start, eng.terminal)
	if err != nil {
		return nil, err
	}
	eng.pipeline = pipeline

	eng.runtime = runtime.NewEngine(
		pipeline,
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	)

	eng.logger.Debug("pipeline built", "stages", pipeline.Len(), "start", eng.start, "terminal", eng.terminal)
	return eng, nil
}

// Source is a stage source opened from a path.
// Start and Terminal are set only when the source names them.
type Source struct {
	Loader   ports.StageLoader
	Start    string
	Terminal string
}

// OpenSource detects the kind of path and opens a loader for it:
//   - a directory is read as a Loam repository, one document per stage;
//   - a .yaml, .yml or .json file is read as a pipeline document;
//   - any other file is read as an almanac.
func OpenSource(path string) (*Source, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}

	if info.IsDir() {
		// Strict mode keeps numbers as json.Number so large rule values survive intact.
		// The engine never writes, so the repository is opened read-only.
		repo, err := loam.Init(absPath,
			loam.WithStrict(true),
			loam.WithReadOnly(true),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize loam: %w", err)
		}
		return &Source{Loader: loamAdapter.New(loam.NewTypedRepository[loamAdapter.StageMetadata](repo))}, nil
	}

	switch strings.ToLower(filepath.Ext(absPath)) {
	case ".yaml", ".yml", ".json":
		doc, err := document.Load(absPath)
		if err != nil {
			return nil, err
		}
		loader, err := doc.Loader()
		if err != nil {
			return nil, err
		}
		return &Source{Loader: loader, Start: doc.Start, Terminal: doc.Terminal}, nil
	default:
		a, err := almanac.ParseFile(absPath)
		if err != nil {
			return nil, err
		}
		loader, err := a.Loader()
		if err != nil {
			return nil, err
		}
		return &Source{Loader: loader}, nil
	}
}

func pipelineName(source string) string {
	base := filepath.Base(source)
	if abs, err := filepath.Abs(source); err == nil {
		base = filepath.Base(abs)
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Evaluate pushes the seed ranges through the pipeline and returns the terminal ranges.
func (e *Engine) Evaluate(ctx context.Context, seeds []domain.Range) ([]domain.Range, error) {
	return e.runtime.Evaluate(ctx, seeds)
}

// Minimum returns the smallest terminal value reachable from the seeds.
func (e *Engine) Minimum(ctx context.Context, seeds []domain.Range) (int64, error) {
	return e.runtime.Minimum(ctx, seeds)
}

// MinimumParallel evaluates every seed as its own query, at most WithWorkers at a time,
// and returns the smallest result. It agrees with Minimum on every input.
func (e *Engine) MinimumParallel(ctx context.Context, seeds []domain.Range) (int64, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	var (
		mu    sync.Mutex
		best  int64
		found bool
	)
	for _, seed := range seeds {
		if seed.IsEmpty() {
			continue
		}
		g.Go(func() error {
			out, err := e.runtime.Evaluate(ctx, []domain.Range{seed})
			if err != nil {
				return err
			}
			v, err := runtime.Minimum(out)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			if !found || v < best {
				best, found = v, true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("%w: no seeds to evaluate", domain.ErrEmptyResult)
	}
	return best, nil
}

// Locate maps a single integer through the pipeline one stage at a time.
func (e *Engine) Locate(point int64) (int64, error) {
	return e.pipeline.Locate(point)
}

// MinimumScalar locates every point individually and returns the smallest result.
func (e *Engine) MinimumScalar(points []int64) (int64, error) {
	return runtime.MinimumScalar(e.pipeline, points)
}

// Inspect returns the stages of the pipeline for visualization or introspection tools.
func (e *Engine) Inspect() []domain.Stage {
	return e.pipeline.Stages()
}

// Pipeline returns the frozen pipeline.
func (e *Engine) Pipeline() *domain.Pipeline {
	return e.pipeline
}

// Seeds returns the seeds carried by the source, if it carries any.
func (e *Engine) Seeds() []int64 {
	if s, ok := e.loader.(ports.SeedSource); ok {
		return s.Seeds()
	}
	return nil
}

// Describe returns the description of a stage, or "" when the source has none.
func (e *Engine) Describe(id string) string {
	d, ok := e.loader.(ports.Describer)
	if !ok {
		return ""
	}
	text, err := d.Describe(id)
	if err != nil {
		e.logger.Debug("no description", "stage", id, "err", err)
		return ""
	}
	return text
}

// Loader returns the underlying StageLoader used by the engine.
func (e *Engine) Loader() ports.StageLoader {
	return e.loader
}
