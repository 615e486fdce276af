package domain

import (
	"fmt"
	"slices"
)

// Rule is the textual form of a mapping line: Length integers starting at Source
// map to the integers starting at Destination.
type Rule struct {
	Destination int64 `json:"destination" yaml:"destination"`
	Source      int64 `json:"source" yaml:"source"`
	Length      int64 `json:"length" yaml:"length"`
}

// Range converts the rule into its source interval carrying the translation offset.
func (r Rule) Range() Range {
	return Range{Start: r.Source, Length: r.Length, Offset: r.Destination - r.Source}
}

// StageBlock is the unvalidated stage description produced by parsing collaborators.
type StageBlock struct {
	ID    string `json:"id" yaml:"id"`
	Next  string `json:"next" yaml:"next"`
	Rules []Rule `json:"rules" yaml:"rules"`
}

// Stage is a piecewise translation table from one coordinate domain to the next.
// Integers outside every rule pass through unchanged.
type Stage struct {
	ID   string
	Next string

	// Rules are sorted by Start and never overlap each other.
	Rules []Range
}

// NewStage validates a block and compiles it into a Stage.
// Zero-length rules are dropped. Negative lengths, source or destination intervals
// that overflow int64, and overlapping rules are rejected with ErrMalformedInput.
func NewStage(block StageBlock) (Stage, error) {
	if block.ID == "" {
		return Stage{}, fmt.Errorf("%w: stage missing id", ErrMalformedInput)
	}
	if block.Next == "" {
		return Stage{}, fmt.Errorf("%w: stage %q missing next", ErrMalformedInput, block.ID)
	}

	rules := make([]Range, 0, len(block.Rules))
	for i, rule := range block.Rules {
		r := rule.Range()
		if !r.Valid() {
			return Stage{}, fmt.Errorf("%w: stage %q rule %d: invalid interval (source=%d length=%d)",
				ErrMalformedInput, block.ID, i, rule.Source, rule.Length)
		}
		if _, ok := subInt64(rule.Destination, rule.Source); !ok || !NewRange(rule.Destination, rule.Length).Valid() {
			return Stage{}, fmt.Errorf("%w: stage %q rule %d: destination overflows (destination=%d source=%d length=%d)",
				ErrMalformedInput, block.ID, i, rule.Destination, rule.Source, rule.Length)
		}
		if r.IsEmpty() {
			continue
		}
		rules = append(rules, r)
	}

	slices.SortFunc(rules, func(a, b Range) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		}
		return 0
	})

	for i := 1; i < len(rules); i++ {
		if rules[i-1].Intersects(rules[i]) {
			return Stage{}, fmt.Errorf("%w: stage %q rules %s and %s overlap",
				ErrMalformedInput, block.ID, rules[i-1], rules[i])
		}
	}

	return Stage{ID: block.ID, Next: block.Next, Rules: rules}, nil
}

// Rule returns the rule covering p, if any.
func (s Stage) Rule(p int64) (Range, bool) {
	i, found := slices.BinarySearchFunc(s.Rules, p, func(r Range, target int64) int {
		switch {
		case r.End() <= target:
			return -1
		case r.Start > target:
			return 1
		}
		return 0
	})
	if !found {
		return Range{}, false
	}
	return s.Rules[i], true
}

// Apply maps a single integer through the stage.
func (s Stage) Apply(p int64) int64 {
	if r, ok := s.Rule(p); ok {
		return p + r.Offset
	}
	return p
}

// Clone returns a copy that shares no memory with s.
func (s Stage) Clone() Stage {
	s.Rules = slices.Clone(s.Rules)
	return s
}
