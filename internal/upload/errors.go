package upload

import "errors"

var (
	// ErrInvalidEndpoint is returned when the base URL is not an absolute
	// http or https URL.
	ErrInvalidEndpoint = errors.New("invalid upload endpoint")

	// ErrNoFile is reported in an Outcome when nothing was selected.
	ErrNoFile = errors.New("no file selected")

	// ErrInvalidJSON is returned when the response body is not valid JSON.
	ErrInvalidJSON = errors.New("invalid JSON response")

	// ErrResponseTooLarge is returned when the response body exceeds the
	// size limit.
	ErrResponseTooLarge = errors.New("response too large")

	// ErrInvalidProxyAddress is returned when the proxy is not "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address: must be host:port")
)
