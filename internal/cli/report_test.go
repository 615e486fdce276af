package cli

import (
	"context"
	"testing"

	"github.com/aretw0/remap"
	"github.com/aretw0/remap/pkg/adapters/memory"
	"github.com/aretw0/remap/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReport(t *testing.T) {
	loader, err := memory.NewFromStages(
		domain.StageBlock{ID: "seed", Next: "soil", Rules: []domain.Rule{{Destination: 50, Source: 98, Length: 2}, {Destination: 52, Source: 50, Length: 48}}},
		domain.StageBlock{ID: "soil", Next: "location"},
	)
	require.NoError(t, err)
	loader.WithDescriptions(map[string]string{"seed": "Seeds | to soil\nsecond line"})

	visits := NewVisitCounter()
	engine, err := remap.New("garden", remap.WithLoader(loader), remap.WithLifecycleHooks(visits.Hooks()))
	require.NoError(t, err)

	res, err := Solve(context.Background(), engine, []int64{79, 14}, domain.SeedPairs, false, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(81), res.Minimum)

	md := BuildReport(engine, res, visits.Counts())

	assert.Contains(t, md, "# Evaluation of garden")
	assert.Contains(t, md, "| Lowest location | **81** |")
	assert.Contains(t, md, "| `seed` | `soil` | 2 | 1 | Seeds \\| to soil |")
	assert.Contains(t, md, "| `soil` | `location` | 0 | 1 |  |")
	assert.Contains(t, md, "- `[81, 95)`")
	assert.NotContains(t, md, "second line")
}

func TestBuildReport_Parallel(t *testing.T) {
	loader, err := memory.NewFromStages(domain.StageBlock{ID: "seed", Next: "location"})
	require.NoError(t, err)

	engine, err := remap.New("", remap.WithLoader(loader), remap.WithWorkers(4))
	require.NoError(t, err)

	res, err := Solve(context.Background(), engine, []int64{5, 1, 3}, domain.SeedPoints, true, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Minimum)
	assert.Nil(t, res.Ranges)

	md := BuildReport(engine, res, nil)
	assert.Contains(t, md, "# Evaluation of pipeline")
	assert.NotContains(t, md, "Terminal ranges")
}

func TestSolve_OddPairs(t *testing.T) {
	loader, err := memory.NewFromStages(domain.StageBlock{ID: "seed", Next: "location"})
	require.NoError(t, err)
	engine, err := remap.New("", remap.WithLoader(loader))
	require.NoError(t, err)

	_, err = Solve(context.Background(), engine, []int64{1, 2, 3}, domain.SeedPairs, false, nil)
	assert.ErrorIs(t, err, domain.ErrMalformedInput)
}

func TestCreateLogger(t *testing.T) {
	assert.True(t, CreateLogger("info", true).Enabled(context.Background(), -4))
	assert.False(t, CreateLogger("warn", false).Enabled(context.Background(), 0))
	assert.True(t, CreateLogger("bogus", false).Enabled(context.Background(), 0))
}
