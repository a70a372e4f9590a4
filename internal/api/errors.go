package api

import "fmt"

// RemoteError is a rejection from the backend: an HTTP error status or
// a "status":"error" envelope. The message is passed through verbatim.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote rejected request (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("remote rejected request (status %d): %s", e.StatusCode, e.Message)
}

// NetworkError is a transport-level failure: the request never produced
// an HTTP response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network failure: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError is a malformed response body.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "decode response: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }
