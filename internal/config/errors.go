package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrInvalidEndpoint is returned when the endpoint is not an absolute
	// http or https URL.
	ErrInvalidEndpoint = errors.New("invalid endpoint: must be an absolute http or https URL")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when the concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidMaxPreviewSize is returned when the preview limit is not positive.
	ErrInvalidMaxPreviewSize = errors.New("invalid max preview size: must be positive")

	// ErrInvalidProxyAddress is returned when the proxy is not "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address: expected host:port")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
