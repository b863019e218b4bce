package types

import "errors"

var (
	// ErrSourceUnavailable: the sheet could not be read or written.
	ErrSourceUnavailable = errors.New("tabular source unavailable")
	// ErrDataFormat: a source row or sheet lacks an expected field.
	ErrDataFormat = errors.New("data format error")
	// ErrEmbeddingService: the embedding API failed.
	ErrEmbeddingService = errors.New("embedding service error")
	// ErrGenerationService: the chat completion API failed.
	ErrGenerationService = errors.New("generation service error")
	// ErrIndexUnavailable: the similarity index could not be read.
	ErrIndexUnavailable = errors.New("similarity index unavailable")
	// ErrModelMismatch: the index was built with a different embedding model.
	ErrModelMismatch = errors.New("embedding model mismatch")
)
