// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the pdfchat config directory.
//
// Adapters:
//   - ConfigStore: TOML-based configuration with PDFCHAT_* environment overrides
//   - PromptStore: User-editable model prompt templates
package file
