package store

import (
	"context"
	"fmt"
	"math"
	"sort"

	"faq/types"
)

// Index is a loaded, read-only similarity index.
type Index interface {
	Search(ctx context.Context, queryVec []float32, limit int) ([]types.SearchResult, error)
	Info() types.IndexInfo
}

// IndexStorer persists similarity indexes. Replace swaps the whole index in
// one step; Load refuses an index built with a different embedding model.
type IndexStorer interface {
	Replace(ctx context.Context, docs []types.Document, embeddingModel string) (types.IndexInfo, error)
	Load(ctx context.Context, embeddingModel string) (Index, error)
}

// MemoryIndex searches documents by exact cosine distance.
type MemoryIndex struct {
	info  types.IndexInfo
	docs  []types.Document
	norms []float64
}

func NewMemoryIndex(info types.IndexInfo, docs []types.Document) *MemoryIndex {
	norms := make([]float64, len(docs))
	for i, d := range docs {
		norms[i] = norm(d.Embedding)
	}
	return &MemoryIndex{info: info, docs: docs, norms: norms}
}

func (m *MemoryIndex) Info() types.IndexInfo {
	return m.info
}

func (m *MemoryIndex) Len() int {
	return len(m.docs)
}

// Search returns up to limit documents ordered by increasing cosine distance.
// Equal distances keep index order.
func (m *MemoryIndex) Search(_ context.Context, queryVec []float32, limit int) ([]types.SearchResult, error) {
	if len(m.docs) == 0 || limit <= 0 {
		return []types.SearchResult{}, nil
	}
	if len(queryVec) != m.info.Dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			types.ErrModelMismatch, len(queryVec), m.info.Dimension)
	}

	qn := norm(queryVec)
	results := make([]types.SearchResult, len(m.docs))
	for i, d := range m.docs {
		results[i] = types.SearchResult{
			Document: d,
			Distance: 1 - cosine(queryVec, d.Embedding, qn, m.norms[i]),
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if limit > len(results) {
		limit = len(results)
	}
	return results[:limit], nil
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func cosine(a, b []float32, na, nb float64) float64 {
	if na == 0 || nb == 0 || len(a) != len(b) {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (na * nb)
}

func checkModel(info types.IndexInfo, embeddingModel string) error {
	if info.EmbeddingModel != embeddingModel {
		return fmt.Errorf("%w: index built with %q, active model is %q",
			types.ErrModelMismatch, info.EmbeddingModel, embeddingModel)
	}
	return nil
}

func dimensionOf(docs []types.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	dim := len(docs[0].Embedding)
	for i, d := range docs {
		if len(d.Embedding) != dim || dim == 0 {
			return 0, fmt.Errorf("document %d has %d dimensions, expected %d", i, len(d.Embedding), dim)
		}
	}
	return dim, nil
}
