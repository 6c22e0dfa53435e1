package httpclient

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// Options controls HTTP client construction for the API client.
type Options struct {
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	TLSHandshakeTimeout time.Duration
	Transport           http.RoundTripper
}

// Option mutates Options.
type Option func(*Options)

// WithTransport provides a custom transport overriding defaults.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *Options) { o.Transport = rt }
}

// DefaultOptions returns defaults sized for a single-user API client.
func DefaultOptions() Options {
	return Options{
		MaxIdleConns:        16,
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}

// New constructs an *http.Client for backend calls. The client carries no
// overall timeout; per-request deadlines are applied via context by the
// caller so slow endpoints can get a longer allowance.
func New(opts ...Option) *http.Client {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	transport := options.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   15 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        options.MaxIdleConns,
			MaxIdleConnsPerHost: options.MaxIdleConnsPerHost,
			IdleConnTimeout:     options.IdleConnTimeout,
			TLSHandshakeTimeout: options.TLSHandshakeTimeout,
			TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
		}
	}

	return &http.Client{Transport: transport}
}
