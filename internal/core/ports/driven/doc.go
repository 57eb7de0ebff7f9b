// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentStore: Document persistence (memory, SQLite, Postgres)
//   - ConversationStore: Per-session chat history
//   - TextExtractor: Turns uploaded PDF bytes into text
//   - PostProcessorPipeline: Splits documents into chunks
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Language model answers. Without it, chat returns the
//     extracted paragraph.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
