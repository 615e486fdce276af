package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/remap"
	"github.com/aretw0/remap/internal/config"
	"github.com/aretw0/remap/pkg/adapters/redis"
	"github.com/aretw0/remap/pkg/domain"
	"github.com/aretw0/remap/pkg/observability"
	"github.com/aretw0/remap/pkg/ports"
)

// Options carries everything a command needs to open a pipeline.
type Options struct {
	// Source is a file or directory. It is ignored when Config.Redis.Addr is set.
	Source  string
	Config  config.Config
	Logger  *slog.Logger
	Metrics *observability.Metrics
	// Hooks are merged after the metrics and trace hooks.
	Hooks domain.LifecycleHooks
}

// Loaded is an opened stage source plus the stage ids it asks for.
type Loaded struct {
	Loader   ports.StageLoader
	Start    string
	Terminal string
	close    func() error
}

// Close releases the connection behind the loader, if any.
func (l *Loaded) Close() error {
	if l.close == nil {
		return nil
	}
	return l.close()
}

// OpenLoader opens the Redis source when one is configured, the path source otherwise.
// Config stage ids win over ids named by the source.
func OpenLoader(ctx context.Context, opts Options) (*Loaded, error) {
	loaded := &Loaded{}

	if addr := opts.Config.Redis.Addr; addr != "" {
		rl := redis.New(addr, redis.WithPrefix(opts.Config.Redis.Prefix))
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rl.Ping(pingCtx); err != nil {
			_ = rl.Close()
			return nil, fmt.Errorf("redis source %s: %w", addr, err)
		}
		loaded.Loader = rl
		loaded.close = rl.Close
	} else {
		if opts.Source == "" {
			return nil, fmt.Errorf("a source path or a redis address is required")
		}
		src, err := remap.OpenSource(opts.Source)
		if err != nil {
			return nil, err
		}
		loaded.Loader = src.Loader
		loaded.Start, loaded.Terminal = src.Start, src.Terminal
	}

	if opts.Config.Start != "" {
		loaded.Start = opts.Config.Start
	}
	if opts.Config.Terminal != "" {
		loaded.Terminal = opts.Config.Terminal
	}
	if loaded.Start == "" {
		loaded.Start = domain.DefaultStartStage
	}
	if loaded.Terminal == "" {
		loaded.Terminal = domain.DefaultTerminalStage
	}
	return loaded, nil
}

// CreateEngine opens the configured source and builds an Engine on it.
// The caller owns the returned Loaded and must Close it.
func CreateEngine(ctx context.Context, opts Options) (*remap.Engine, *Loaded, error) {
	if opts.Logger == nil {
		opts.Logger = CreateLogger(opts.Config.LogLevel, opts.Config.Trace)
	}

	loaded, err := OpenLoader(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	engine, err := remap.New(opts.Source,
		remap.WithLoader(loaded.Loader),
		remap.WithStartStage(loaded.Start),
		remap.WithTerminalStage(loaded.Terminal),
		remap.WithWorkers(opts.Config.Workers),
		remap.WithLogger(opts.Logger),
		remap.WithLifecycleHooks(createHooks(opts)),
	)
	if err != nil {
		_ = loaded.Close()
		return nil, nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, loaded, nil
}

func createHooks(opts Options) domain.LifecycleHooks {
	var hooks domain.LifecycleHooks
	if opts.Metrics != nil {
		hooks = hooks.Merge(opts.Metrics.Hooks())
	}
	if opts.Config.Trace {
		hooks = hooks.Merge(observability.LoggingHooks(opts.Logger, slog.LevelDebug))
	}
	return hooks.Merge(opts.Hooks)
}
