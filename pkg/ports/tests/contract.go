package tests

import (
	"errors"
	"testing"

	"github.com/aretw0/remap/pkg/domain"
	"github.com/aretw0/remap/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// StageLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.StageLoader.
// setupData maps each stage ID to the JSON the loader is expected to serve for it.
func StageLoaderContractTest(t *testing.T, loader ports.StageLoader, setupData map[string][]byte) {
	t.Helper()

	t.Run("GetStage_Success", func(t *testing.T) {
		for id, expected := range setupData {
			content, err := loader.GetStage(id)
			require.NoError(t, err, "getting stage %s", id)
			assert.JSONEq(t, string(expected), string(content), "content mismatch for %s", id)
		}
	})

	t.Run("GetStage_NotFound", func(t *testing.T) {
		_, err := loader.GetStage("non-existent-stage")
		require.Error(t, err)
		if !errors.Is(err, domain.ErrMissingStage) {
			t.Errorf("expected ErrMissingStage, got %v", err)
		}
	})

	t.Run("ListStages", func(t *testing.T) {
		ids, err := loader.ListStages()
		require.NoError(t, err)

		expected := make([]string, 0, len(setupData))
		for id := range setupData {
			expected = append(expected, id)
		}
		assert.ElementsMatch(t, expected, ids)
	})
}
