package directory

import "fmt"

// RequestError is a non-2xx response from the directory service. Message
// carries the server's own error text when the body had one.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("directory: request failed with status %d", e.Status)
	}
	return fmt.Sprintf("directory: request failed with status %d: %s", e.Status, e.Message)
}

// TransportError is a network-level failure before any response arrived.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("directory: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
