package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"faq/model"
	"faq/store"
	"faq/types"
)

// EmbedBatchSize is the number of texts sent per embeddings request.
const EmbedBatchSize = 100

// Source provides the Q&A rows to index.
type Source interface {
	Records(ctx context.Context) ([]types.QARecord, error)
}

// Service rebuilds the similarity index from the Q&A source. Each run
// replaces the whole index; nothing is written unless every row was
// embedded.
type Service struct {
	logger   *slog.Logger
	source   Source
	embedder model.EmbedderInterface
	store    store.IndexStorer
}

func New(source Source, embedder model.EmbedderInterface, storer store.IndexStorer) *Service {
	return &Service{
		logger:   slog.Default(),
		source:   source,
		embedder: embedder,
		store:    storer,
	}
}

// Documents derives the documents to index from the records.
func Documents(records []types.QARecord) []types.Document {
	docs := make([]types.Document, len(records))
	for i, rec := range records {
		docs[i] = types.NewDocument(i, rec)
	}
	return docs
}

func (s *Service) Build(ctx context.Context) (types.IndexInfo, error) {
	start := time.Now()

	records, err := s.source.Records(ctx)
	if err != nil {
		return types.IndexInfo{}, err
	}
	s.logger.Info("loaded Q&A rows", "rows", len(records))

	docs := Documents(records)
	if err := s.embed(ctx, docs); err != nil {
		return types.IndexInfo{}, err
	}

	info, err := s.store.Replace(ctx, docs, s.embedder.Model())
	if err != nil {
		return types.IndexInfo{}, fmt.Errorf("persist index: %w", err)
	}

	s.logger.Info("[INDEX] build complete",
		"documents", info.Count,
		"dimension", info.Dimension,
		"model", info.EmbeddingModel,
		"build_id", info.BuildID,
		"elapsed", time.Since(start),
	)
	return info, nil
}

func (s *Service) embed(ctx context.Context, docs []types.Document) error {
	for from := 0; from < len(docs); from += EmbedBatchSize {
		to := min(from+EmbedBatchSize, len(docs))

		texts := make([]string, 0, to-from)
		for _, d := range docs[from:to] {
			texts = append(texts, d.Content)
		}

		vecs, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed rows %d-%d: %w", from, to-1, err)
		}
		if len(vecs) != len(texts) {
			return fmt.Errorf("%w: got %d embeddings for %d rows", types.ErrEmbeddingService, len(vecs), len(texts))
		}
		for i, vec := range vecs {
			docs[from+i].Embedding = vec
		}
		s.logger.Debug("embedded batch", "from", from, "to", to)
	}
	return nil
}
