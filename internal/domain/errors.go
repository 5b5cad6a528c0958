package domain

import "errors"

var (
	// ErrNotFound indicates the addressed record does not exist or is not
	// owned by the caller.
	ErrNotFound = errors.New("record not found")

	// ErrConstraintViolation indicates the backend rejected a write because
	// of a uniqueness, foreign-key or check rule.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrAuthFailure indicates the identity boundary rejected credentials
	// or a token.
	ErrAuthFailure = errors.New("authentication failed")

	// ErrSuggestionFailed indicates the suggestion backend returned an error
	// or no data.
	ErrSuggestionFailed = errors.New("suggestion failed")

	// ErrTransportFailure indicates the backend could not be reached.
	ErrTransportFailure = errors.New("backend unreachable")

	// ErrInvalidInput indicates a request failed local validation before
	// reaching the backend.
	ErrInvalidInput = errors.New("invalid input")
)
