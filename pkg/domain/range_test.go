package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRange_Contains(t *testing.T) {
	r := NewRange(79, 14) // [79, 93)

	tests := []struct {
		point int64
		want  bool
	}{
		{78, false},
		{79, true},
		{85, true},
		{92, true},
		{93, false},
	}

	for _, tt := range tests {
		if got := r.Contains(tt.point); got != tt.want {
			t.Errorf("Contains(%d) = %v, want %v", tt.point, got, tt.want)
		}
	}
}

func TestRange_Intersects(t *testing.T) {
	tests := []struct {
		name string
		a, b Range
		want bool
	}{
		{"Disjoint", NewRange(0, 5), NewRange(10, 5), false},
		{"Touching Right", NewRange(0, 5), NewRange(5, 5), false},
		{"Touching Left", NewRange(5, 5), NewRange(0, 5), false},
		{"Overlap By One", NewRange(0, 6), NewRange(5, 5), true},
		{"Nested", NewRange(0, 100), NewRange(10, 1), true},
		{"Identical", NewRange(3, 3), NewRange(3, 3), true},
		{"Empty Never Intersects", NewRange(3, 0), NewRange(0, 10), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Intersects(tt.b))
			assert.Equal(t, tt.want, tt.b.Intersects(tt.a), "intersection must be symmetric")
		})
	}
}

func TestRange_SplitAt(t *testing.T) {
	r := Range{Start: 10, Length: 20, Offset: -7}

	left, right, err := r.SplitAt(17)
	require.NoError(t, err)

	assert.Equal(t, Range{Start: 10, Length: 7, Offset: -7}, left)
	assert.Equal(t, Range{Start: 17, Length: 13, Offset: -7}, right)
	assert.Equal(t, r.Length, left.Length+right.Length)
	assert.Equal(t, left.End(), right.Start, "halves must be contiguous")

	joined, ok := left.Join(right)
	require.True(t, ok)
	assert.Equal(t, r, joined)
}

func TestRange_SplitAt_OutOfBounds(t *testing.T) {
	r := NewRange(10, 5)

	for _, b := range []int64{9, 10, 15, 16} {
		_, _, err := r.SplitAt(b)
		assert.Error(t, err, "boundary %d must be rejected", b)
	}
}

func TestRange_Join_Rejects(t *testing.T) {
	a := Range{Start: 0, Length: 5}
	assert.False(t, func() bool { _, ok := a.Join(Range{Start: 6, Length: 1}); return ok }(), "gap")
	assert.False(t, func() bool { _, ok := a.Join(Range{Start: 5, Length: 1, Offset: 1}); return ok }(), "offset mismatch")
}

func TestRange_Translate(t *testing.T) {
	r := Range{Start: 79, Length: 14, Offset: 2}
	assert.Equal(t, Range{Start: 81, Length: 14}, r.Translate())
	assert.Equal(t, r.Translate(), r.Translate().Translate(), "translate is idempotent once offset is folded")
}

func TestRange_Overlap(t *testing.T) {
	r := Range{Start: 45, Length: 25, Offset: 3}

	assert.Equal(t, Range{Start: 52, Length: 8, Offset: 3}, r.Overlap(NewRange(52, 8)))
	assert.Equal(t, Range{Start: 45, Length: 5, Offset: 3}, r.Overlap(NewRange(0, 50)))
	assert.True(t, r.Overlap(NewRange(100, 5)).IsEmpty())
}

func TestRange_Valid(t *testing.T) {
	assert.True(t, NewRange(0, 0).Valid())
	assert.True(t, NewRange(math.MaxInt64-10, 10).Valid())
	assert.False(t, NewRange(math.MaxInt64-10, 11).Valid())
	assert.False(t, NewRange(0, -1).Valid())
}

func TestRange_String(t *testing.T) {
	assert.Equal(t, "[79, 93)", NewRange(79, 14).String())
	assert.Equal(t, "[98, 100)-48", Range{Start: 98, Length: 2, Offset: -48}.String())
}
