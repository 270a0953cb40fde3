package config

import (
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is used for XDG directory paths and the User-Agent.
	AppName = "medupload"

	// DefaultEndpoint is the base URL the upload path is resolved against.
	// It matches the development address of the SistemaMedi API.
	DefaultEndpoint = "http://localhost:8000"

	// DefaultTimeout bounds a whole upload request, body included.
	// Scanned exams and DICOM files can be tens of megabytes.
	DefaultTimeout = 60 * time.Second

	// DefaultLocale selects the language of user-visible messages.
	DefaultLocale = "pt-BR"

	// DefaultConcurrency is the number of files uploaded in parallel
	// when several files are given on the command line.
	DefaultConcurrency = 4

	// DefaultMaxPreviewSize limits the bytes read to build a preview.
	DefaultMaxPreviewSize = 20 * 1024 * 1024 // 20MB

	// DefaultUserAgent identifies the client in server logs.
	DefaultUserAgent = AppName + "/1.0"
)

// Config holds all configuration options for medupload.
// It is populated from defaults, the config file, the environment and
// CLI flags, then passed to the components that need it.
type Config struct {
	// Endpoint is the base URL of the upload server. The upload path is
	// resolved against it the way a browser resolves "/upload".
	Endpoint string

	// Timeout is the HTTP client timeout for one upload.
	Timeout time.Duration

	// Locale selects the language of the response-text messages.
	Locale string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	// Empty means direct connections.
	ProxyAddress string

	// UserAgent is sent with every upload request.
	UserAgent string

	// Headers are extra HTTP headers added to every upload request,
	// for example a gateway key required by a reverse proxy.
	Headers map[string]string

	// Concurrency is the maximum number of parallel uploads.
	Concurrency int

	// MaxPreviewSize is the maximum number of bytes decoded for a preview.
	MaxPreviewSize int64

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the explicit configuration file path, if any.
	ConfigFilePath string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Endpoint:       DefaultEndpoint,
		Timeout:        DefaultTimeout,
		Locale:         DefaultLocale,
		UserAgent:      DefaultUserAgent,
		Headers:        make(map[string]string),
		Concurrency:    DefaultConcurrency,
		MaxPreviewSize: DefaultMaxPreviewSize,
	}
}

// XDGConfigDir returns the XDG config directory for medupload.
// On Linux: ~/.config/medupload
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if !IsValidEndpoint(c.Endpoint) {
		return ErrInvalidEndpoint
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.MaxPreviewSize <= 0 {
		return ErrInvalidMaxPreviewSize
	}
	if c.ProxyAddress != "" && !IsValidProxyAddress(c.ProxyAddress) {
		return ErrInvalidProxyAddress
	}
	return nil
}

// IsValidEndpoint reports whether endpoint is an absolute http or https URL.
func IsValidEndpoint(endpoint string) bool {
	u, err := url.Parse(endpoint)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidProxyAddress reports whether address is "host:port" with a
// non-empty host and a port in 1-65535. IPv6 hosts must be bracketed.
func IsValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}
