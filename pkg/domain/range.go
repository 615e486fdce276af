package domain

import (
	"fmt"
	"math"
)

// Range is a half-open interval [Start, Start+Length) paired with an additive Offset.
// A point p inside the interval maps to p+Offset in the next coordinate domain.
type Range struct {
	Start  int64 `json:"start" yaml:"start"`
	Length int64 `json:"length" yaml:"length"`
	Offset int64 `json:"offset,omitempty" yaml:"offset,omitempty"`
}

// NewRange creates a Range with a zero offset.
func NewRange(start, length int64) Range {
	return Range{Start: start, Length: length}
}

// Point creates a Range covering the single integer p.
func Point(p int64) Range {
	return Range{Start: p, Length: 1}
}

// End returns the exclusive upper bound of the interval.
func (r Range) End() int64 {
	return r.Start + r.Length
}

// IsEmpty reports whether the Range covers nothing.
// Degenerate ranges (Length <= 0) are dropped wherever they appear.
func (r Range) IsEmpty() bool {
	return r.Length <= 0
}

// Contains reports whether Start <= p < End.
func (r Range) Contains(p int64) bool {
	return r.Start <= p && p < r.End()
}

// Intersects reports whether r and o share at least one integer.
// Ranges that only touch (one ends where the other starts) do not intersect.
func (r Range) Intersects(o Range) bool {
	if r.IsEmpty() || o.IsEmpty() {
		return false
	}
	return r.Start < o.End() && o.Start < r.End()
}

// Overlap returns the part of r covered by o, keeping r's offset.
// The result is empty when the ranges do not intersect.
func (r Range) Overlap(o Range) Range {
	start := max(r.Start, o.Start)
	end := min(r.End(), o.End())
	if end < start {
		end = start
	}
	return Range{Start: start, Length: end - start, Offset: r.Offset}
}

// SplitAt cuts r at the absolute coordinate boundary.
// left covers [Start, boundary), right covers [boundary, End); both keep the offset.
func (r Range) SplitAt(boundary int64) (left, right Range, err error) {
	if boundary <= r.Start || boundary >= r.End() {
		return Range{}, Range{}, fmt.Errorf("split point %d outside open interval (%d, %d)", boundary, r.Start, r.End())
	}
	left = Range{Start: r.Start, Length: boundary - r.Start, Offset: r.Offset}
	right = Range{Start: boundary, Length: r.End() - boundary, Offset: r.Offset}
	return left, right, nil
}

// Join concatenates two contiguous halves with the same offset.
// It is the inverse of SplitAt.
func (r Range) Join(next Range) (Range, bool) {
	if r.End() != next.Start || r.Offset != next.Offset {
		return Range{}, false
	}
	return Range{Start: r.Start, Length: r.Length + next.Length, Offset: r.Offset}, true
}

// Translate folds the offset into the start, producing the range in the next domain.
func (r Range) Translate() Range {
	return Range{Start: r.Start + r.Offset, Length: r.Length}
}

// WithOffset returns a copy of r carrying the given offset.
func (r Range) WithOffset(offset int64) Range {
	r.Offset = offset
	return r
}

// Valid reports whether the interval can be represented without overflowing int64.
func (r Range) Valid() bool {
	if r.Length < 0 {
		return false
	}
	return r.Start <= math.MaxInt64-r.Length
}

// Translatable reports whether r is Valid and Translate keeps it within int64.
func (r Range) Translatable() bool {
	if !r.Valid() {
		return false
	}
	start, ok := addInt64(r.Start, r.Offset)
	return ok && Range{Start: start, Length: r.Length}.Valid()
}

func addInt64(a, b int64) (int64, bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}
	return a + b, true
}

func subInt64(a, b int64) (int64, bool) {
	if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
		return 0, false
	}
	return a - b, true
}

func (r Range) String() string {
	if r.Offset == 0 {
		return fmt.Sprintf("[%d, %d)", r.Start, r.End())
	}
	return fmt.Sprintf("[%d, %d)%+d", r.Start, r.End(), r.Offset)
}
