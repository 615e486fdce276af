package compiler

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aretw0/remap/pkg/domain"
	"github.com/aretw0/remap/pkg/ports"
)

// Parser is responsible for converting raw bytes into a StageBlock.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes the JSON definition of a single stage.
// Unknown fields are rejected so that typos in rule keys do not silently become zeroes.
func (p *Parser) Parse(data []byte) (*domain.StageBlock, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var block domain.StageBlock
	if err := dec.Decode(&block); err != nil {
		return nil, fmt.Errorf("%w: failed to parse stage: %v", domain.ErrMalformedInput, err)
	}
	if block.ID == "" {
		return nil, fmt.Errorf("%w: stage missing id", domain.ErrMalformedInput)
	}
	return &block, nil
}

// Compile loads every stage the loader lists and builds the frozen pipeline.
func (p *Parser) Compile(loader ports.StageLoader, start, terminal string) (*domain.Pipeline, error) {
	ids, err := loader.ListStages()
	if err != nil {
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}

	blocks := make([]domain.StageBlock, 0, len(ids))
	for _, id := range ids {
		raw, err := loader.GetStage(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load stage %s: %w", id, err)
		}
		block, err := p.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", id, err)
		}
		if block.ID != id {
			return nil, fmt.Errorf("%w: stage listed as %q declares id %q", domain.ErrMalformedInput, id, block.ID)
		}
		blocks = append(blocks, *block)
	}

	return domain.BuildPipeline(blocks, start, terminal)
}
