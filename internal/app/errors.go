package service

import "errors"

// Sentinel kinds returned by the service. The HTTP layer maps them to
// user-facing messages.
var (
	ErrMissingCredentials  = errors.New("missing platform credentials")
	ErrNothingSelected     = errors.New("no competition selected")
	ErrImportInProgress    = errors.New("an import is already running for this meeting")
	ErrNoResults           = errors.New("no results to export")
	ErrCompetitionNotFound = errors.New("competition not found")
	ErrNoParseResult       = errors.New("no parsed document")
)
