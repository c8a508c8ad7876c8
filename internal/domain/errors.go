package domain

import "errors"

var (
	ErrMalformedDate        = errors.New("malformed date")
	ErrMalformedDuration    = errors.New("malformed duration")
	ErrUnknownProviderShape = errors.New("unknown provider shape")
	ErrZeroDenominator      = errors.New("zero denominator")

	ErrLibraryNotFound = errors.New("library not found")
	ErrGameNotFound    = errors.New("game not found")
)
