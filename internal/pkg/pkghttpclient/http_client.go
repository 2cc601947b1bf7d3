// Package pkghttpclient performs outbound HTTP calls and reports every
// outcome as a pkgresult.Result.
//
// Failures are described by a RemoteError whose Condition names what went
// wrong on the wire. The server's error kind is not reconstructed from the
// status code; a caller only ever sees the message and status the server
// chose to send.
package pkghttpclient

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

const (
	defaultClientTimeout         = 10 * time.Second
	defaultResponseHeaderTimeout = 5 * time.Second
	defaultIdleConnTimeout       = 90 * time.Second
	defaultTLSHandshakeTimeout   = 5 * time.Second
	defaultDialerTimeout         = 2 * time.Second
	defaultDialerKeepAlive       = 30 * time.Second
	defaultMaxIdleConnsPerHost   = 32
)

// ClientConfig captures tunables for the HTTP client/transport.
// Zero values are replaced by defaults.
type ClientConfig struct {
	ClientTimeout         time.Duration
	ResponseHeaderTimeout time.Duration
	IdleConnTimeout       time.Duration
	TLSHandshakeTimeout   time.Duration
	DialerTimeout         time.Duration
	DialerKeepAlive       time.Duration
	MaxIdleConnsPerHost   int

	TLSConfig *tls.Config
	// Transport replaces the built transport entirely when set.
	Transport http.RoundTripper
}

// ClientOption mutates a ClientConfig.
type ClientOption func(*ClientConfig)

func WithClientTimeout(d time.Duration) ClientOption {
	return func(c *ClientConfig) { c.ClientTimeout = d }
}

func WithResponseHeaderTimeout(d time.Duration) ClientOption {
	return func(c *ClientConfig) { c.ResponseHeaderTimeout = d }
}

func WithTLSHandshakeTimeout(d time.Duration) ClientOption {
	return func(c *ClientConfig) { c.TLSHandshakeTimeout = d }
}

func WithDialerTimeout(d time.Duration) ClientOption {
	return func(c *ClientConfig) { c.DialerTimeout = d }
}

func WithTLSConfig(cfg *tls.Config) ClientOption {
	return func(c *ClientConfig) { c.TLSConfig = cfg }
}

func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *ClientConfig) { c.Transport = rt }
}

// DefaultClientConfig returns a copy of the defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		ClientTimeout:         defaultClientTimeout,
		ResponseHeaderTimeout: defaultResponseHeaderTimeout,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   defaultTLSHandshakeTimeout,
		DialerTimeout:         defaultDialerTimeout,
		DialerKeepAlive:       defaultDialerKeepAlive,
		MaxIdleConnsPerHost:   defaultMaxIdleConnsPerHost,
	}
}

// NewHTTPClient builds an *http.Client whose every stage is bounded in time.
func NewHTTPClient(opts ...ClientOption) *http.Client {
	cfg := DefaultClientConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	sanitizeClientConfig(&cfg)

	rt := cfg.Transport
	if rt == nil {
		rt = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   cfg.DialerTimeout,
				KeepAlive: cfg.DialerKeepAlive,
			}).DialContext,
			TLSClientConfig:       cfg.TLSConfig,
			MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
			IdleConnTimeout:       cfg.IdleConnTimeout,
			TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
			ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
			ForceAttemptHTTP2:     true,
		}
	}

	return &http.Client{
		Transport: rt,
		Timeout:   cfg.ClientTimeout,
	}
}

func sanitizeClientConfig(c *ClientConfig) {
	if c.ClientTimeout <= 0 {
		c.ClientTimeout = defaultClientTimeout
	}
	if c.ResponseHeaderTimeout <= 0 {
		c.ResponseHeaderTimeout = defaultResponseHeaderTimeout
	}
	if c.IdleConnTimeout <= 0 {
		c.IdleConnTimeout = defaultIdleConnTimeout
	}
	if c.TLSHandshakeTimeout <= 0 {
		c.TLSHandshakeTimeout = defaultTLSHandshakeTimeout
	}
	if c.DialerTimeout <= 0 {
		c.DialerTimeout = defaultDialerTimeout
	}
	if c.DialerKeepAlive <= 0 {
		c.DialerKeepAlive = defaultDialerKeepAlive
	}
	if c.MaxIdleConnsPerHost <= 0 {
		c.MaxIdleConnsPerHost = defaultMaxIdleConnsPerHost
	}
}
