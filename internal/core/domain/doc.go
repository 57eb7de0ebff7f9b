// Package domain defines the core business entities for pdfchat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: Extracted text of an uploaded PDF with metadata
//   - Chunk: An overlapping window of a document's text
//   - SearchResult: A document scored against a query
//   - Answer: The paragraph selected to answer a question
//   - ConversationTurn: One message of a chat session
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
