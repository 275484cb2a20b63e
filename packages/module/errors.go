package module

import "fmt"

// TransportError is an exchange that could not complete: DNS, connection,
// TLS negotiation or timeout failures.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request could not complete: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteError is a completed exchange with a status code outside the ok
// range. The message embeds the status code and response text verbatim so
// the caller can diagnose the remote failure.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("request failed with HTTP status code %d and error message %s", e.StatusCode, e.Body)
}
