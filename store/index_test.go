package store

import (
	"context"
	"testing"

	"faq/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(pos int, content string, vec ...float32) types.Document {
	d := types.NewDocument(pos, types.QARecord{Question: content, Answer: ""})
	d.Content = content
	d.Embedding = vec
	return d
}

func testIndex(docs ...types.Document) *MemoryIndex {
	dim, _ := dimensionOf(docs)
	return NewMemoryIndex(types.IndexInfo{Dimension: dim, Count: len(docs), EmbeddingModel: "m"}, docs)
}

func TestMemoryIndexOrdersByDistance(t *testing.T) {
	idx := testIndex(
		doc(0, "far", 0, 1),
		doc(1, "near", 1, 0),
		doc(2, "middle", 1, 1),
	)

	res, err := idx.Search(context.Background(), []float32{2, 0}, 3)
	require.NoError(t, err)
	require.Len(t, res, 3)

	assert.Equal(t, "near", res[0].Content)
	assert.Equal(t, "middle", res[1].Content)
	assert.Equal(t, "far", res[2].Content)
	assert.InDelta(t, 0, res[0].Distance, 1e-9)
	assert.InDelta(t, 1, res[2].Distance, 1e-9)
	for i := 1; i < len(res); i++ {
		assert.LessOrEqual(t, res[i-1].Distance, res[i].Distance)
	}
}

func TestMemoryIndexLimit(t *testing.T) {
	idx := testIndex(
		doc(0, "a", 1, 0),
		doc(1, "b", 1, 0),
		doc(2, "c", 1, 0),
		doc(3, "d", 0, 1),
		doc(4, "e", 0, 1),
	)

	res, err := idx.Search(context.Background(), []float32{1, 0}, 4)
	require.NoError(t, err)
	require.Len(t, res, 4)
	// equal distances keep index order
	assert.Equal(t, []string{"a", "b", "c", "d"}, []string{res[0].Content, res[1].Content, res[2].Content, res[3].Content})

	res, err = idx.Search(context.Background(), []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, res, 5)
}

func TestMemoryIndexEmpty(t *testing.T) {
	res, err := testIndex().Search(context.Background(), []float32{1, 2, 3}, 4)
	require.NoError(t, err)
	assert.Empty(t, res)
	assert.NotNil(t, res)
}

func TestMemoryIndexDimensionMismatch(t *testing.T) {
	_, err := testIndex(doc(0, "a", 1, 0)).Search(context.Background(), []float32{1, 0, 0}, 4)
	assert.ErrorIs(t, err, types.ErrModelMismatch)
}

func TestDimensionOf(t *testing.T) {
	dim, err := dimensionOf(nil)
	require.NoError(t, err)
	assert.Zero(t, dim)

	_, err = dimensionOf([]types.Document{doc(0, "a", 1, 0), doc(1, "b", 1)})
	assert.Error(t, err)
}
