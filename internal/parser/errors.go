package parser

import "errors"

// ErrParse is the kind of every parse failure.
var ErrParse = errors.New("parse error")

// ParseError reports a malformed document or an unsupported shape.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return "parse error: " + e.Reason + ": " + e.Err.Error()
	}
	return "parse error: " + e.Reason
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error { return e.Err }

// Is matches ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }
