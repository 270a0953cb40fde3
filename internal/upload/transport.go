package upload

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/proxy"
)

// maxRedirects stops redirect loops.
const maxRedirects = 10

// ClientOptions configures NewHTTPClient.
type ClientOptions struct {
	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	ProxyAddress string

	// Timeout bounds a whole request, body included.
	Timeout time.Duration

	// UserAgent is set on requests that do not carry one.
	UserAgent string

	// Headers are added to every request.
	Headers map[string]string
}

// NewHTTPClient creates the HTTP client used for uploads. With a proxy
// address, every connection is dialed through that SOCKS5 proxy.
func NewHTTPClient(opts ClientOptions) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // DefaultTransport is always *http.Transport

	if opts.ProxyAddress != "" {
		if _, _, err := net.SplitHostPort(opts.ProxyAddress); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidProxyAddress, opts.ProxyAddress)
		}
		dialer, err := proxy.SOCKS5("tcp", opts.ProxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		transport.DialContext = dialContext(dialer)
	}

	var rt http.RoundTripper = transport
	if opts.UserAgent != "" || len(opts.Headers) > 0 {
		rt = &headerInjectingTransport{
			base:      transport,
			userAgent: opts.UserAgent,
			headers:   opts.Headers,
		}
	}

	return &http.Client{
		Transport: rt,
		Timeout:   opts.Timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, nil
}

// dialContext adapts a proxy.Dialer to http.Transport.DialContext,
// using the context-aware dialer when the proxy package provides one.
func dialContext(dialer proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(_ context.Context, network, addr string) (net.Conn, error) {
		return dialer.Dial(network, addr)
	}
}

// headerInjectingTransport wraps an http.RoundTripper to add configured
// headers to every request.
type headerInjectingTransport struct {
	base      http.RoundTripper
	userAgent string
	headers   map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}
	if t.userAgent != "" && clone.Header.Get("User-Agent") == "" {
		clone.Header.Set("User-Agent", t.userAgent)
	}

	return t.base.RoundTrip(clone)
}
