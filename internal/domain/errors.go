package domain

import "errors"

var (
	// ErrTransport marks failures to obtain any response from a remote service.
	ErrTransport = errors.New("transport failure")

	// ErrMalformedResponse marks a response body missing required fields.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrInvalidMode is returned for unknown execution modes.
	ErrInvalidMode = errors.New("invalid mode")

	// ErrQuotaExceeded is returned when a stored value exceeds the store capacity.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrEmptySource is returned when there is no code to dispatch.
	ErrEmptySource = errors.New("no source to run")
)
