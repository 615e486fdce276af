// Package document loads a whole pipeline from a single YAML or JSON file.
//
//	start: seed
//	terminal: location
//	seeds: [79, 14, 55, 13]
//	stages:
//	  - id: seed
//	    next: soil
//	    rules:
//	      - [50, 98, 2]    # destination, source, length
package document

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/remap/pkg/adapters/memory"
	"github.com/aretw0/remap/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Document is the on-disk pipeline description.
type Document struct {
	Start    string  `yaml:"start,omitempty"`
	Terminal string  `yaml:"terminal,omitempty"`
	Seeds    []int64 `yaml:"seeds,omitempty"`
	Stages   []Stage `yaml:"stages"`
}

// Stage is one entry of Document.Stages. Each rule is a [destination, source, length] triple.
type Stage struct {
	ID          string    `yaml:"id"`
	Next        string    `yaml:"next"`
	Description string    `yaml:"description,omitempty"`
	Rules       [][]int64 `yaml:"rules,omitempty"`
}

// Decode reads a document from r. JSON input is accepted since it is valid YAML.
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return &doc, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedInput, err)
	}
	if _, err := doc.Blocks(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline document: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

// Encode writes the document as YAML.
func (d *Document) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return err
	}
	return enc.Close()
}

// FromBlocks builds a document from stage blocks, the inverse of Blocks.
func FromBlocks(start, terminal string, seeds []int64, blocks []domain.StageBlock) *Document {
	doc := &Document{Start: start, Terminal: terminal, Seeds: seeds}
	for _, b := range blocks {
		s := Stage{ID: b.ID, Next: b.Next}
		for _, r := range b.Rules {
			s.Rules = append(s.Rules, []int64{r.Destination, r.Source, r.Length})
		}
		doc.Stages = append(doc.Stages, s)
	}
	return doc
}

// Blocks converts the stages into StageBlocks.
func (d *Document) Blocks() ([]domain.StageBlock, error) {
	blocks := make([]domain.StageBlock, 0, len(d.Stages))
	for _, s := range d.Stages {
		block := domain.StageBlock{ID: s.ID, Next: s.Next, Rules: make([]domain.Rule, 0, len(s.Rules))}
		for i, triple := range s.Rules {
			if len(triple) != 3 {
				return nil, fmt.Errorf("%w: stage %q rule %d: expected [destination, source, length], got %d values",
					domain.ErrMalformedInput, s.ID, i, len(triple))
			}
			block.Rules = append(block.Rules, domain.Rule{Destination: triple[0], Source: triple[1], Length: triple[2]})
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

// Loader exposes the stages as a ports.StageLoader that also carries the seeds.
func (d *Document) Loader() (*memory.Loader, error) {
	blocks, err := d.Blocks()
	if err != nil {
		return nil, err
	}
	loader, err := memory.NewFromStages(blocks...)
	if err != nil {
		return nil, err
	}
	return loader.WithSeeds(d.Seeds...).WithDescriptions(d.Descriptions()), nil
}

// Descriptions maps stage ids to their description, skipping stages without one.
func (d *Document) Descriptions() map[string]string {
	out := make(map[string]string)
	for _, s := range d.Stages {
		if s.Description != "" {
			out[s.ID] = s.Description
		}
	}
	return out
}
