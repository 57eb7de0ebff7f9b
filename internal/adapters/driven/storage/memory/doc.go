// Package memory provides in-process implementations of the driven stores.
// State is lost when the process exits.
package memory
