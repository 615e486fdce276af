package memory

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aretw0/remap/pkg/domain"
)

// Loader implements ports.StageLoader using an in-memory map.
type Loader struct {
	stages       map[string][]byte
	seeds        []int64
	descriptions map[string]string
}

// NewLoader creates a new in-memory Loader with the provided raw data (JSON strings).
func NewLoader(data map[string]string) *Loader {
	stages := make(map[string][]byte)
	for k, v := range data {
		stages[k] = []byte(v)
	}
	return &Loader{
		stages: stages,
	}
}

// NewFromStages creates a new Loader from stage blocks.
// This handles serialization automatically, improving DX for tests.
func NewFromStages(blocks ...domain.StageBlock) (*Loader, error) {
	data := make(map[string][]byte)
	for _, b := range blocks {
		if b.ID == "" {
			return nil, fmt.Errorf("%w: stage missing id", domain.ErrMalformedInput)
		}
		if _, dup := data[b.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate stage %q", domain.ErrMalformedInput, b.ID)
		}
		if b.Rules == nil {
			b.Rules = []domain.Rule{}
		}
		bytes, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal stage %s: %w", b.ID, err)
		}
		data[b.ID] = bytes
	}
	return &Loader{stages: data}, nil
}

// WithSeeds attaches seed values to the loader so it also satisfies ports.SeedSource.
func (l *Loader) WithSeeds(seeds ...int64) *Loader {
	l.seeds = append([]int64(nil), seeds...)
	return l
}

// Seeds returns the seed values attached with WithSeeds.
func (l *Loader) Seeds() []int64 {
	return append([]int64(nil), l.seeds...)
}

// WithDescriptions attaches stage descriptions so the loader also satisfies ports.Describer.
func (l *Loader) WithDescriptions(descriptions map[string]string) *Loader {
	l.descriptions = descriptions
	return l
}

// Describe returns the description attached to a stage, or "" when it has none.
func (l *Loader) Describe(id string) (string, error) {
	if _, ok := l.stages[id]; !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrMissingStage, id)
	}
	return l.descriptions[id], nil
}

// GetStage retrieves the raw definition of a stage by ID.
func (l *Loader) GetStage(id string) ([]byte, error) {
	content, ok := l.stages[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingStage, id)
	}
	return content, nil
}

// ListStages returns all available stage IDs.
func (l *Loader) ListStages() ([]string, error) {
	keys := make([]string, 0, len(l.stages))
	for k := range l.stages {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
