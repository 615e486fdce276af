package memory_test

import (
	"testing"

	"github.com/aretw0/remap/pkg/adapters/memory"
	"github.com/aretw0/remap/pkg/domain"
	contract "github.com/aretw0/remap/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryLoader_Contract(t *testing.T) {
	data := map[string]string{
		"seed": `{"id": "seed", "next": "soil", "rules": [{"destination": 50, "source": 98, "length": 2}]}`,
		"soil": `{"id": "soil", "next": "location", "rules": []}`,
	}

	// The contract compares bytes, the loader takes strings.
	bytesData := make(map[string][]byte)
	for k, v := range data {
		bytesData[k] = []byte(v)
	}

	loader := memory.NewLoader(data)

	contract.StageLoaderContractTest(t, loader, bytesData)
}

func TestNewFromStages(t *testing.T) {
	loader, err := memory.NewFromStages(
		domain.StageBlock{ID: "seed", Next: "soil", Rules: []domain.Rule{{Destination: 50, Source: 98, Length: 2}}},
		domain.StageBlock{ID: "soil", Next: "location"},
	)
	require.NoError(t, err)

	contract.StageLoaderContractTest(t, loader, map[string][]byte{
		"seed": []byte(`{"id": "seed", "next": "soil", "rules": [{"destination": 50, "source": 98, "length": 2}]}`),
		"soil": []byte(`{"id": "soil", "next": "location", "rules": []}`),
	})
}

func TestNewFromStages_Invalid(t *testing.T) {
	_, err := memory.NewFromStages(domain.StageBlock{Next: "soil"})
	assert.ErrorIs(t, err, domain.ErrMalformedInput)

	_, err = memory.NewFromStages(
		domain.StageBlock{ID: "seed", Next: "soil"},
		domain.StageBlock{ID: "seed", Next: "water"},
	)
	assert.ErrorIs(t, err, domain.ErrMalformedInput)
}

func TestLoader_Seeds(t *testing.T) {
	loader := memory.NewLoader(nil).WithSeeds(79, 14)
	seeds := loader.Seeds()
	assert.Equal(t, []int64{79, 14}, seeds)

	seeds[0] = 0
	assert.Equal(t, []int64{79, 14}, loader.Seeds(), "callers get a copy")
}

func TestLoader_Describe(t *testing.T) {
	loader, err := memory.NewFromStages(domain.StageBlock{ID: "seed", Next: "soil"}, domain.StageBlock{ID: "soil", Next: "location"})
	require.NoError(t, err)
	loader.WithDescriptions(map[string]string{"seed": "planting"})

	text, err := loader.Describe("seed")
	require.NoError(t, err)
	assert.Equal(t, "planting", text)

	text, err = loader.Describe("soil")
	require.NoError(t, err)
	assert.Empty(t, text)

	_, err = loader.Describe("water")
	assert.ErrorIs(t, err, domain.ErrMissingStage)
}
