package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// SeedMode selects how a flat list of seed integers is read.
type SeedMode string

const (
	// SeedPoints reads every value as a single integer.
	SeedPoints SeedMode = "points"
	// SeedPairs reads consecutive values as (start, length) pairs.
	SeedPairs SeedMode = "pairs"
)

// Points turns every value into a one-integer Range.
func Points(values []int64) []Range {
	out := make([]Range, 0, len(values))
	for _, v := range values {
		out = append(out, Point(v))
	}
	return out
}

// Pairs reads values as (start, length) pairs. An odd count or a pair whose end
// overflows int64 is ErrMalformedInput.
func Pairs(values []int64) ([]Range, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("%w: %d seed values cannot form (start, length) pairs", ErrMalformedInput, len(values))
	}
	out := make([]Range, 0, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		r := NewRange(values[i], values[i+1])
		if !r.IsEmpty() && !r.Valid() {
			return nil, fmt.Errorf("%w: seed pair %d (start=%d length=%d) overflows", ErrMalformedInput, i/2, r.Start, r.Length)
		}
		out = append(out, r)
	}
	return out, nil
}

// SeedRanges reads values according to mode.
func SeedRanges(values []int64, mode SeedMode) ([]Range, error) {
	switch mode {
	case SeedPoints:
		return Points(values), nil
	case SeedPairs:
		return Pairs(values)
	default:
		return nil, fmt.Errorf("%w: unknown seed mode %q", ErrMalformedInput, mode)
	}
}

// ParseSeeds reads integers separated by whitespace or commas.
func ParseSeeds(s string) ([]int64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	values := make([]int64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: seed %q is not an integer", ErrMalformedInput, f)
		}
		values = append(values, v)
	}
	return values, nil
}
