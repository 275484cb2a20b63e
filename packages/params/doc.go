// Package params defines the parameter contract for the uri module.
//
// A Spec describes exactly one outbound HTTP call. It is decoded from the
// JSON parameter document supplied by the orchestration host, checked
// against the declarative option schema, and then cross-validated before
// any network I/O happens.
package params
