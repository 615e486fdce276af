package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/remap/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

const (
	// DefaultPrefix namespaces every key the loader reads or writes.
	DefaultPrefix = "remap:"

	defaultTimeout = 5 * time.Second
)

// Loader implements ports.StageLoader on top of Redis.
// Stages are stored as JSON strings under <prefix>stage:<id> and indexed in the <prefix>stages set.
type Loader struct {
	client  *backend.Client
	prefix  string
	timeout time.Duration
}

// Option configures the Loader.
type Option func(*Loader)

// WithPrefix overrides the key namespace.
func WithPrefix(prefix string) Option {
	return func(l *Loader) {
		l.prefix = prefix
	}
}

// WithTimeout bounds every Redis round trip.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		l.timeout = d
	}
}

// New connects to the Redis server at addr.
func New(addr string, opts ...Option) *Loader {
	client := backend.NewClient(&backend.Options{Addr: addr})
	return NewFromClient(client, opts...)
}

// NewFromClient wraps an existing client, mostly useful for tests.
func NewFromClient(client *backend.Client, opts ...Option) *Loader {
	l := &Loader{
		client:  client,
		prefix:  DefaultPrefix,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Ping checks connectivity.
func (l *Loader) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (l *Loader) Close() error {
	return l.client.Close()
}

// GetStage retrieves the raw JSON definition of a stage.
func (l *Loader) GetStage(id string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	data, err := l.client.Get(ctx, l.stageKey(id)).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingStage, id)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed for %s: %w", id, err)
	}
	return data, nil
}

// ListStages returns the indexed stage IDs in sorted order.
func (l *Loader) ListStages() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	ids, err := l.client.SMembers(ctx, l.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list failed: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Publish replaces the stored pipeline with blocks in a single transaction.
func (l *Loader) Publish(ctx context.Context, blocks ...domain.StageBlock) error {
	payloads := make(map[string][]byte, len(blocks))
	for _, b := range blocks {
		if b.ID == "" {
			return fmt.Errorf("%w: stage missing id", domain.ErrMalformedInput)
		}
		if b.Rules == nil {
			b.Rules = []domain.Rule{}
		}
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("failed to marshal stage %s: %w", b.ID, err)
		}
		payloads[b.ID] = data
	}

	previous, err := l.client.SMembers(ctx, l.indexKey()).Result()
	if err != nil {
		return fmt.Errorf("redis list failed: %w", err)
	}

	_, err = l.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		for _, id := range previous {
			pipe.Del(ctx, l.stageKey(id))
		}
		pipe.Del(ctx, l.indexKey())
		for id, data := range payloads {
			pipe.Set(ctx, l.stageKey(id), data, 0)
			pipe.SAdd(ctx, l.indexKey(), id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis publish failed: %w", err)
	}
	return nil
}

func (l *Loader) stageKey(id string) string {
	return l.prefix + "stage:" + strings.TrimSpace(id)
}

func (l *Loader) indexKey() string {
	return l.prefix + "stages"
}
