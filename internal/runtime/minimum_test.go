package runtime

import (
	"testing"

	"github.com/aretw0/remap/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinimum(t *testing.T) {
	got, err := Minimum([]domain.Range{
		domain.NewRange(82, 3),
		domain.NewRange(46, 10),
		domain.NewRange(60, 1),
		domain.NewRange(-5, 0), // empty, ignored
	})
	require.NoError(t, err)
	assert.Equal(t, int64(46), got)
}

func TestMinimum_FoldsOffset(t *testing.T) {
	got, err := Minimum([]domain.Range{{Start: 10, Length: 1, Offset: -9}, domain.NewRange(3, 1)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestMinimum_Empty(t *testing.T) {
	_, err := Minimum(nil)
	assert.ErrorIs(t, err, domain.ErrEmptyResult)

	_, err = Minimum([]domain.Range{domain.NewRange(1, 0)})
	assert.ErrorIs(t, err, domain.ErrEmptyResult)
}

func TestMinimumScalar(t *testing.T) {
	p, err := domain.BuildPipeline([]domain.StageBlock{
		{ID: "a", Next: "end", Rules: []domain.Rule{{Destination: 0, Source: 100, Length: 10}}},
	}, "a", "end")
	require.NoError(t, err)

	got, err := MinimumScalar(p, []int64{50, 105, 7})
	require.NoError(t, err)
	assert.Equal(t, int64(5), got)

	_, err = MinimumScalar(p, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyResult)
}
