package sdk

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped from API error codes. Use errors.Is to test them.
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrCollectionNotFound  = errors.New("collection not found")
	ErrNoRelevantPassages  = errors.New("no relevant documents found")
	ErrVectorDimMismatch   = errors.New("vector dimension mismatch")
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// APIError is a non-2xx response from the service.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("docsage: %s (%s, http %d)", e.Message, e.Code, e.Status)
}

// Is maps API error codes onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Code == "unauthorized"
	case ErrCollectionNotFound:
		return e.Code == "collection_not_found"
	case ErrNoRelevantPassages:
		return e.Code == "no_relevant_passages" || e.Code == "no_documents_fused"
	case ErrVectorDimMismatch:
		return e.Code == "vector_dim_mismatch"
	case ErrProviderUnavailable:
		return e.Code == "embedding_provider_error" || e.Code == "generation_provider_error"
	default:
		return false
	}
}
