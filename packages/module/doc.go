// Package module is the request executor behind the uri module: it takes a
// validated parameter spec, performs exactly one HTTP exchange, and maps the
// outcome into the result record handed back to the orchestration host.
//
// Failures fall into three kinds: params.ConfigError before any network I/O,
// TransportError when the exchange could not complete, and RemoteError when
// the server answered outside the 2xx range.
package module
