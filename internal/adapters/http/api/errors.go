package api

import (
	"errors"
	"fmt"
	"net/http"

	service "github.com/okian/ffebridge/internal/app"
	"github.com/okian/ffebridge/internal/adapters/platform"
	"github.com/okian/ffebridge/internal/auth"
	"github.com/okian/ffebridge/internal/domain/model"
	"github.com/okian/ffebridge/internal/parser"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

func badRequest(err error) error {
	return fmt.Errorf("%w: %v", ErrBadRequest, err)
}

// statusFor maps error kinds to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingClaim), errors.Is(err, platform.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrMissingCredentials),
		errors.Is(err, service.ErrNothingSelected),
		errors.Is(err, service.ErrNoParseResult),
		errors.Is(err, model.ErrUnknownCompetition):
		return http.StatusBadRequest
	case errors.Is(err, parser.ErrParse):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrImportInProgress):
		return http.StatusConflict
	case errors.Is(err, service.ErrCompetitionNotFound), errors.Is(err, service.ErrNoResults):
		return http.StatusNotFound
	case errors.Is(err, platform.ErrRemoteBatch), errors.Is(err, platform.ErrUnexpectedStatus), errors.Is(err, platform.ErrDecode):
		return http.StatusBadGateway
	case errors.Is(err, platform.ErrTransport):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
