// Package http performs the single HTTP exchange behind the uri module.
//
// It wraps the standard library's http package with the transport knobs the
// parameter contract exposes:
//   - Connect/read timeouts
//   - Redirect following with per-hop history capture
//   - Per-scheme proxy selection
//   - TLS verification modes and client identities
//   - Multipart form data support
package http
