package model

import "errors"

// ErrUnknownCompetition is returned by ParseResult.Validate when a start
// group references a competition missing from the result.
var ErrUnknownCompetition = errors.New("start references unknown competition")
