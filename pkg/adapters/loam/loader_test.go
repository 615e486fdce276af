package loam

import (
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/remap/internal/testutils"
	"github.com/aretw0/remap/pkg/domain"
	"github.com/aretw0/remap/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoader(t *testing.T, files map[string]string) *Loader {
	t.Helper()
	tmpDir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, tmpDir, files)
	return New(loam.NewTypedRepository[StageMetadata](repo))
}

func TestLoader_Contract(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"seed.md": `---
id: seed
next: soil
rules:
  - "50 98 2"
  - [52, 50, 48]
---
Seeds are planted into soil.`,
		"soil.md": `---
next: location
---`,
	})

	tests.StageLoaderContractTest(t, loader, map[string][]byte{
		"seed": []byte(`{"id":"seed","next":"soil","rules":[
			{"destination":50,"source":98,"length":2},
			{"destination":52,"source":50,"length":48}]}`),
		"soil": []byte(`{"id":"soil","next":"location","rules":[]}`),
	})
}

func TestLoader_ListStages_NormalizesIDs(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"seed.md": `---
id: seed.md
next: soil
---`,
		"soil.json": `{"id": "soil.json", "next": "location"}`,
		"implicit.md": `---
next: location
---
ID is implied from filename`,
	})

	ids, err := loader.ListStages()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"seed", "soil", "implicit"}, ids)
}

func TestLoader_ListStages_DetectsCollisions(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"foo.md": `---
id: foo
next: bar
---`,
		"foo.json": `{"id": "foo", "next": "bar"}`,
	})

	_, err := loader.ListStages()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedInput)
	assert.Contains(t, err.Error(), "collision detected")
}

func TestLoader_GetStage_MalformedRules(t *testing.T) {
	cases := map[string]string{
		"Too Few Values": `"50 98"`,
		"Not A Number":   `"50 ninety 2"`,
		"Wrong Type":     `{destination: 50}`,
	}

	for name, rule := range cases {
		t.Run(name, func(t *testing.T) {
			loader := newLoader(t, map[string]string{
				"seed.md": "---\nid: seed\nnext: soil\nrules:\n  - " + rule + "\n---",
			})
			_, err := loader.GetStage("seed")
			assert.ErrorIs(t, err, domain.ErrMalformedInput)
		})
	}
}

func TestLoader_Describe(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"seed.md": `---
id: seed
next: soil
---
Seeds are planted into soil.`,
		"soil.md": `---
id: soil
next: location
description: Soil feeds fertilizer.
---
ignored body`,
	})

	text, err := loader.Describe("seed")
	require.NoError(t, err)
	assert.Equal(t, "Seeds are planted into soil.", text)

	text, err = loader.Describe("soil")
	require.NoError(t, err)
	assert.Equal(t, "Soil feeds fertilizer.", text)
}

func TestConvertRules_NumericTypes(t *testing.T) {
	rules, err := convertRules([]any{
		[]any{50, int64(98), uint64(2)},
		[]any{float64(52), "50", 48},
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.Rule{
		{Destination: 50, Source: 98, Length: 2},
		{Destination: 52, Source: 50, Length: 48},
	}, rules)

	_, err = convertRules([]any{[]any{1.5, 2, 3}})
	assert.Error(t, err)
}
