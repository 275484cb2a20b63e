// Package cmd wires the urimod CLI: run executes one exchange from a
// parameter document, validate checks documents without network I/O, schema
// prints the option and return documentation, and bench repeats an exchange
// to measure latency.
package cmd
