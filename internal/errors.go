package internal

import "errors"

var (
	// Session Errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrLoginConflict      = errors.New("login already in use")
	ErrConflict           = errors.New("conflict")
	ErrNoSession          = errors.New("no active session")

	// API Errors
	ErrNotFound         = errors.New("not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrServerFailure    = errors.New("server failure")
	ErrTransport        = errors.New("request failed")

	// Poll Errors
	ErrPollNotEditable   = errors.New("poll is not editable")
	ErrPollNotAccepting  = errors.New("poll is not accepting submissions")
	ErrInvalidTransition = errors.New("invalid poll status transition")
	ErrStatsNotAvailable = errors.New("statistics are not available for this poll")

	// Question Errors
	ErrInvalidRequestBody = errors.New("invalid request body")
	ErrQuestionRequired   = errors.New("question is required but not answered")
)
