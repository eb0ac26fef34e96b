package metrics

import (
	"context"
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrObserveFailed = errors.New("metrics observe failed")
)

// Failure kinds used as label values.
const (
	KindTimeout  = "timeout"
	KindCanceled = "canceled"
	KindError    = "error"
)

// FailureKind reduces an error to a bounded label value.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	default:
		return KindError
	}
}
