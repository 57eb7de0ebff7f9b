// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Retrieval is deliberately naive: documents and paragraphs are scored by
// counting query terms that occur in them as case-insensitive substrings.
package services
