// Package livraria carries build metadata for the livraria CLI.
package livraria

// Version is the semantic version reported by `livraria version` and stamped
// on every log line.
const Version = "0.1.0"
