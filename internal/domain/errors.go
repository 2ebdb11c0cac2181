package domain

import "errors"

var (
	// ErrCollectionNotFound signals a missing vector collection.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrVectorDimMismatch signals a vector dimension mismatch against the collection.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrNoRelevantPassages signals that retrieval found nothing usable.
	// Recoverable: callers report it, they do not retry or crash.
	ErrNoRelevantPassages = errors.New("no relevant documents found")
	// ErrNoDocumentsFused signals that every document in a multi-document
	// request failed to contribute passages.
	ErrNoDocumentsFused = errors.New("no documents contributed to the fused context")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationProviderError signals a generation backend failure.
	ErrGenerationProviderError = errors.New("generation provider error")
)
