package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotPDF indicates an upload that is not a PDF file.
	ErrNotPDF = errors.New("not a PDF file")

	// ErrEmptyDocument indicates no text could be extracted from an upload.
	ErrEmptyDocument = errors.New("document contains no text")

	// ErrExtractionFailed indicates the PDF could not be parsed.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrTooLarge indicates an upload over the configured size limit.
	ErrTooLarge = errors.New("upload too large")

	// ErrNoDocuments indicates a question was asked before any upload.
	ErrNoDocuments = errors.New("no documents uploaded")

	// ErrLLMUnavailable indicates the LLM service is not configured or unreachable.
	// Chat degrades to extracted answers.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrUnsupportedBackend indicates an unknown storage backend name.
	ErrUnsupportedBackend = errors.New("unsupported storage backend")

	// ErrRateLimited indicates too many chat requests.
	ErrRateLimited = errors.New("rate limited")
)
