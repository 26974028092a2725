package services

import "errors"

var (
	// ErrInvalidRequest indicates a missing or empty chat message.
	ErrInvalidRequest = errors.New("message is required")

	// ErrEmbeddingUnavailable indicates the embedding endpoint failed.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrPopulationFailed indicates the knowledge base could not be built.
	ErrPopulationFailed = errors.New("knowledge base population failed")

	// ErrDimensionMismatch indicates vectors of different lengths were compared.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrGenerationUnavailable indicates the generation endpoint failed.
	ErrGenerationUnavailable = errors.New("generation unavailable")

	// ErrCountryNotFound indicates neither the requested nor the default country exists.
	ErrCountryNotFound = errors.New("country not found")
)
