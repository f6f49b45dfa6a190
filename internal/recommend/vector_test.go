package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 2, 3}, []float32{2, 4, 6}), 1e-6)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-3, 0}), 1e-9)

	assert.Equal(t, 0.0, CosineSimilarity(nil, nil))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1}, []float32{1, 2}))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}

func TestNormalizeAll(t *testing.T) {
	out, err := normalizeAll([][]float32{{3, 4}, {0, 0}})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.6, 0.8}, out[0], 1e-9)
	assert.Equal(t, []float64{0, 0}, out[1])

	_, err = normalizeAll([][]float32{{1, 2}, {1}})
	assert.ErrorIs(t, err, errDimensionMismatch)

	_, err = normalizeAll([][]float32{{}})
	assert.ErrorIs(t, err, errDimensionMismatch)
}

func TestKMeans(t *testing.T) {
	points := [][]float64{
		{1, 0}, {0.99, 0.01}, {0.98, 0.02},
		{0, 1}, {0.01, 0.99},
		{-1, 0}, {-0.99, -0.01},
	}

	t.Run("should separate well-spaced groups", func(t *testing.T) {
		labels, err := kmeans(points, 3, kmeansSeed)
		require.NoError(t, err)
		require.Len(t, labels, len(points))

		assert.Equal(t, labels[0], labels[1])
		assert.Equal(t, labels[0], labels[2])
		assert.Equal(t, labels[3], labels[4])
		assert.Equal(t, labels[5], labels[6])
		assert.NotEqual(t, labels[0], labels[3])
		assert.NotEqual(t, labels[0], labels[5])
		assert.NotEqual(t, labels[3], labels[5])
	})

	t.Run("should be deterministic for a fixed seed", func(t *testing.T) {
		first, err := kmeans(points, 3, kmeansSeed)
		require.NoError(t, err)
		for i := 0; i < 5; i++ {
			again, err := kmeans(points, 3, kmeansSeed)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})

	t.Run("should reject more clusters than points", func(t *testing.T) {
		_, err := kmeans(points[:2], 3, kmeansSeed)
		assert.ErrorIs(t, err, errTooFewPoints)
	})

	t.Run("should cope with identical points", func(t *testing.T) {
		same := [][]float64{{1, 0}, {1, 0}, {1, 0}, {1, 0}}
		labels, err := kmeans(same, 2, kmeansSeed)
		require.NoError(t, err)
		assert.Len(t, labels, 4)
	})
}
