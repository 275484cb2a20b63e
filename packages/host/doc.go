// Package host implements the module-execution contract with the
// orchestration engine: parameter documents come in as JSON or YAML, results
// and failures go out as JSON envelopes on stdout.
package host
