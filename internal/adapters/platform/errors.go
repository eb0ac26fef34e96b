package platform

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport is the kind of network, TLS and timeout failures.
	ErrTransport = errors.New("platform transport failure")
	// ErrRemoteBatch is the kind of a batch rejected by the platform.
	ErrRemoteBatch = errors.New("platform rejected batch")
	// ErrAuth is returned when the platform refuses the API key.
	ErrAuth = errors.New("platform authentication failed")
	// ErrUnexpectedStatus is returned for any other non-success status.
	ErrUnexpectedStatus = errors.New("unexpected platform status")
	// ErrDecode is returned when a response body is not the expected JSON.
	ErrDecode = errors.New("invalid platform response")
)

// TransportError wraps a failure below HTTP.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// RemoteBatchError is a non-2xx answer to a batch send.
type RemoteBatchError struct {
	Status  int
	Message string
}

func (e *RemoteBatchError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("platform batch error (HTTP %d)", e.Status)
	}
	return fmt.Sprintf("platform batch error (HTTP %d): %s", e.Status, e.Message)
}

func (e *RemoteBatchError) Is(target error) bool {
	if target == ErrRemoteBatch {
		return true
	}
	return target == ErrAuth && authStatus(e.Status)
}

// StatusError is a non-success answer to any other call.
type StatusError struct {
	Op     string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: HTTP %d", e.Op, e.Status)
}

func (e *StatusError) Is(target error) bool {
	if authStatus(e.Status) {
		return target == ErrAuth
	}
	return target == ErrUnexpectedStatus
}

func authStatus(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}
