// Package audit keeps an opt-in SQLite trail of completed invocations. The
// execution contract itself stays stateless; recording only happens when the
// operator asks for it.
package audit
